package customer

//go:generate mockgen -source=repository.go -destination=mocks/mocks.go -package=mocks Repository

import (
	"context"

	"retail-customers/internal/domain"
)

// Repository persists and fetches customers. Absence is reported through the
// boolean results, never through an error; errors are storage failures.
type Repository interface {
	// Save stores a new customer and returns it with a freshly assigned ID.
	// Any ID already set on c is ignored.
	Save(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	// FindByID returns the customer with the given ID, or false when absent.
	FindByID(ctx context.Context, id int64) (*domain.Customer, bool, error)
	// FindAll returns every customer ordered by ID; empty, never nil.
	FindAll(ctx context.Context) ([]domain.Customer, error)
	// DeleteByID removes the customer and reports whether one existed.
	DeleteByID(ctx context.Context, id int64) (bool, error)
	// Update replaces the customer identified by c.ID in a single conditional
	// operation. It returns false, without inserting, when no such record exists.
	Update(ctx context.Context, c domain.Customer) (*domain.Customer, bool, error)
}

// Pinger is implemented by repositories backed by a remote store.
type Pinger interface {
	Ping(ctx context.Context) error
}
