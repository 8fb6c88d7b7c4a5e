package customer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"retail-customers/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("customer.postgres")}
}

const customerColumns = `id, name, email, dni, age`

func (r *postgresRepo) Save(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (name, email, dni, age)
VALUES ($1, $2, $3, $4)
RETURNING ` + customerColumns
	out, err := r.scanCustomer(r.pool.QueryRow(ctx, q, c.Name, c.Email, c.DNI, c.Age))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("customer insert returned no row")
		}
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id int64) (*domain.Customer, bool, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.optional(r.scanCustomer(r.pool.QueryRow(ctx, q, id)))
}

func (r *postgresRepo) FindAll(ctx context.Context) ([]domain.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers ORDER BY id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Customer, 0)
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("list customers", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Customer) (*domain.Customer, bool, error) {
	if c.ID == nil {
		return nil, false, nil
	}
	const q = `
UPDATE customers
SET name = $2, email = $3, dni = $4, age = $5, updated_at = now()
WHERE id = $1
RETURNING ` + customerColumns
	return r.optional(r.scanCustomer(r.pool.QueryRow(ctx, q, *c.ID, c.Name, c.Email, c.DNI, c.Age)))
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *postgresRepo) optional(c *domain.Customer, err error) (*domain.Customer, bool, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return c, true, nil
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		c  domain.Customer
		id int64
	)
	if err := row.Scan(&id, &c.Name, &c.Email, &c.DNI, &c.Age); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.Error("scan customer", zap.Error(err))
		}
		return nil, err
	}
	c.ID = &id
	return &c, nil
}
