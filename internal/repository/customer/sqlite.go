package customer

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"retail-customers/internal/domain"
)

type sqliteRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLite returns a Repository backed by a database/sql handle opened with the
// modernc sqlite driver. The schema must already be migrated.
func NewSQLite(db *sql.DB, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sqliteRepo{db: db, logger: logger.Named("customer.sqlite")}
}

func (r *sqliteRepo) Save(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (name, email, dni, age)
VALUES (?, ?, ?, ?)
RETURNING ` + customerColumns
	return r.scanCustomer(r.db.QueryRowContext(ctx, q, c.Name, c.Email, c.DNI, nullAge(c.Age)))
}

func (r *sqliteRepo) FindByID(ctx context.Context, id int64) (*domain.Customer, bool, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	return r.optional(r.scanCustomer(r.db.QueryRowContext(ctx, q, id)))
}

func (r *sqliteRepo) FindAll(ctx context.Context) ([]domain.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
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

func (r *sqliteRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *sqliteRepo) Update(ctx context.Context, c domain.Customer) (*domain.Customer, bool, error) {
	if c.ID == nil {
		return nil, false, nil
	}
	const q = `
UPDATE customers
SET name = ?, email = ?, dni = ?, age = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
RETURNING ` + customerColumns
	return r.optional(r.scanCustomer(r.db.QueryRowContext(ctx, q, c.Name, c.Email, c.DNI, nullAge(c.Age), *c.ID)))
}

func (r *sqliteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *sqliteRepo) optional(c *domain.Customer, err error) (*domain.Customer, bool, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return c, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *sqliteRepo) scanCustomer(row scanner) (*domain.Customer, error) {
	var (
		c   domain.Customer
		id  int64
		age sql.NullInt64
	)
	if err := row.Scan(&id, &c.Name, &c.Email, &c.DNI, &age); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Error("scan customer", zap.Error(err))
		}
		return nil, err
	}
	c.ID = &id
	if age.Valid {
		v := int(age.Int64)
		c.Age = &v
	}
	return &c, nil
}

func nullAge(age *int) sql.NullInt64 {
	if age == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*age), Valid: true}
}
