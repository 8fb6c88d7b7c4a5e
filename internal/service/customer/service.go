package customer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"retail-customers/internal/domain"
	"retail-customers/internal/logger"
	"retail-customers/internal/metrics"
	custrepo "retail-customers/internal/repository/customer"
)

// Service runs the customer use cases: it validates input, delegates to the
// repository and turns absence into domain.NotFoundError. It holds no mutable
// state and is safe for concurrent use.
type Service struct {
	repo    custrepo.Repository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the fallback logger used when the request context carries none.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records operation counts and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates a Service on top of repo.
func New(repo custrepo.Repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("customer repository is required")
	}
	s := &Service{repo: repo, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateCustomer validates c and stores it. Invalid customers never reach the
// repository.
func (s *Service) CreateCustomer(ctx context.Context, c domain.Customer) (out *domain.Customer, err error) {
	defer s.observe(ctx, "create", time.Now(), &err)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, c)
}

// GetCustomerByID returns the customer or a *domain.NotFoundError.
func (s *Service) GetCustomerByID(ctx context.Context, id int64) (out *domain.Customer, err error) {
	defer s.observe(ctx, "get", time.Now(), &err)

	c, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFoundError(id)
	}
	return c, nil
}

// GetAllCustomers returns every stored customer; an empty store yields an empty
// slice.
func (s *Service) GetAllCustomers(ctx context.Context) (out []domain.Customer, err error) {
	defer s.observe(ctx, "list", time.Now(), &err)

	return s.repo.FindAll(ctx)
}

// DeleteCustomer removes the customer or returns a *domain.NotFoundError.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) (err error) {
	defer s.observe(ctx, "delete", time.Now(), &err)

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NewNotFoundError(id)
	}
	return nil
}

// UpdateCustomer validates c, binds it to id and replaces the stored record.
// Invalid customers never reach the repository.
func (s *Service) UpdateCustomer(ctx context.Context, id int64, c domain.Customer) (out *domain.Customer, err error) {
	defer s.observe(ctx, "update", time.Now(), &err)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	updated, ok, err := s.repo.Update(ctx, c.WithID(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFoundError(id)
	}
	return updated, nil
}

func (s *Service) observe(ctx context.Context, op string, start time.Time, errp *error) {
	outcome := outcomeOf(*errp)
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, outcome, start)
	}

	log := logger.FromContext(ctx, s.logger)
	switch outcome {
	case metrics.OutcomeError:
		log.Error("customer operation failed", zap.String("operation", op), zap.Error(*errp))
	case metrics.OutcomeOK:
		log.Debug("customer operation", zap.String("operation", op), zap.Duration("elapsed", time.Since(start)))
	default:
		log.Info("customer operation rejected", zap.String("operation", op), zap.String("outcome", outcome), zap.Error(*errp))
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
