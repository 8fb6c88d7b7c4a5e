package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"retail-customers/internal/domain"
)

// CustomerCreator is the slice of the customer service the seeder needs.
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetAllCustomers(ctx context.Context) ([]domain.Customer, error)
}

type customerSeed struct {
	Name  string
	Email string
	DNI   string
	Age   int
}

var demoCustomers = []customerSeed{
	{Name: "Lucía Fernández", Email: "lucia.fernandez@example.com", DNI: "48291735K", Age: 34},
	{Name: "Javier Ortega", Email: "javier.ortega@example.com", DNI: "71503846P", Age: 52},
	{Name: "Marta Soler", Email: "marta.soler@example.com", DNI: "30918264b", Age: 19},
	{Name: "Pablo Ibarra", Email: "pablo.ibarra@example.com", DNI: "62047183T", Age: 41},
}

// Apply inserts demo customers for manual testing. It does nothing when the
// store already holds customers, so running it twice is harmless.
func Apply(ctx context.Context, svc CustomerCreator, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	existing, err := svc.GetAllCustomers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list customers: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("store already seeded", zap.Int("customers", len(existing)))
		return 0, nil
	}

	for i, s := range demoCustomers {
		age := s.Age
		created, err := svc.CreateCustomer(ctx, domain.Customer{
			Name:  s.Name,
			Email: s.Email,
			DNI:   s.DNI,
			Age:   &age,
		})
		if err != nil {
			return i, fmt.Errorf("create customer %s: %w", s.DNI, err)
		}
		logger.Debug("seeded customer", zap.Int64("id", *created.ID), zap.String("dni", created.DNI))
	}
	return len(demoCustomers), nil
}
