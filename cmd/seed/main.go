package main

import (
	"context"

	"go.uber.org/zap"

	"retail-customers/internal/config"
	"retail-customers/internal/logger"
	"retail-customers/internal/seed"
	customersvc "retail-customers/internal/service/customer"
	"retail-customers/internal/store"
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
	log = log.Named("seed")

	if err := cfg.RequirePersistentStore(); err != nil {
		log.Fatal("refusing to seed", zap.Error(err))
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, log, store.Options{MigrateSQLite: true})
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	svc, err := customersvc.New(st.Repository, customersvc.WithLogger(log))
	if err != nil {
		log.Fatal("init customer service", zap.Error(err))
	}

	n, err := seed.Apply(ctx, svc, log)
	if err != nil {
		log.Fatal("seed apply", zap.Error(err), zap.Int("created", n))
	}
	log.Info("seed applied", zap.Int("created", n))
}
