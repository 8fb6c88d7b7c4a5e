package main

import (
	"context"

	"go.uber.org/zap"

	"retail-customers/internal/config"
	"retail-customers/internal/db"
	"retail-customers/internal/logger"
	"retail-customers/internal/migrate"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}
	log, err := logger.NewForEnvironment(cfg.App.Env, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		zap.NewExample().Fatal("init logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()
	log = log.Named("migrate")

	ctx := context.Background()
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			log.Fatal("connect db", zap.Error(err))
		}
		defer pool.Close()
		if err := migrate.Apply(ctx, pool); err != nil {
			log.Fatal("apply migrations", zap.Error(err))
		}
	case config.StoreSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			log.Fatal("open sqlite", zap.Error(err))
		}
		defer sqlDB.Close()
		if err := migrate.ApplySQLite(ctx, sqlDB); err != nil {
			log.Fatal("apply migrations", zap.Error(err))
		}
	default:
		log.Info("nothing to migrate", zap.String("driver", cfg.Store.Driver))
		return
	}

	log.Info("migrations applied", zap.String("driver", cfg.Store.Driver))
}
