// Package store opens the customer repository selected by configuration.
package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"retail-customers/internal/config"
	"retail-customers/internal/db"
	"retail-customers/internal/migrate"
	custrepo "retail-customers/internal/repository/customer"
)

// Store is an opened repository plus the resources backing it.
type Store struct {
	Repository custrepo.Repository
	// Pinger is nil for stores with nothing remote to check.
	Pinger  custrepo.Pinger
	closers []func()
}

// Close releases the underlying connections in reverse order of opening.
func (s *Store) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Options tweaks Open.
type Options struct {
	// MigrateSQLite applies the embedded schema when the sqlite driver is used.
	MigrateSQLite bool
	// WithCache wraps the repository with Redis when cfg.Redis.Enabled is set.
	WithCache bool
}

// Open builds the repository for cfg.Store.Driver.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger, opts Options) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{}

	switch cfg.Store.Driver {
	case config.StoreMemory:
		s.Repository = custrepo.NewMemory()
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		s.Repository = custrepo.NewPostgres(pool, logger)
	case config.StoreSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		s.closers = append(s.closers, func() { _ = sqlDB.Close() })
		if opts.MigrateSQLite {
			if err := migrate.ApplySQLite(ctx, sqlDB); err != nil {
				s.Close()
				return nil, fmt.Errorf("migrate sqlite: %w", err)
			}
		}
		s.Repository = custrepo.NewSQLite(sqlDB, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if opts.WithCache && cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, func() { _ = rdb.Close() })
		s.Repository = custrepo.NewCached(s.Repository, rdb, cfg.Redis.TTL, logger)
		logger.Info("customer cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
	}

	if p, ok := s.Repository.(custrepo.Pinger); ok {
		s.Pinger = p
	}
	return s, nil
}
