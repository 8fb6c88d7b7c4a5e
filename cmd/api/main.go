package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail-customers/internal/config"
	"retail-customers/internal/httpserver"
	"retail-customers/internal/logger"
	"retail-customers/internal/metrics"
	customersvc "retail-customers/internal/service/customer"
	"retail-customers/internal/store"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		zap.NewExample().Error("load config", zap.Error(err))
		return err
	}
	log, err := logger.NewForEnvironment(cfg.App.Env, logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		zap.NewExample().Error("init logger", zap.Error(err))
		return err
	}
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Env))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, log, store.Options{MigrateSQLite: true, WithCache: true})
	if err != nil {
		log.Error("open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
		return err
	}
	defer st.Close()

	var m *metrics.Metrics
	opts := []customersvc.Option{customersvc.WithLogger(log)}
	if cfg.MetricsEnabled {
		m = metrics.New()
		opts = append(opts, customersvc.WithMetrics(m))
	}
	customerService, err := customersvc.New(st.Repository, opts...)
	if err != nil {
		log.Error("init customer service", zap.Error(err))
		return err
	}

	srv, err := httpserver.New(cfg.HTTPAddr, log, httpserver.Deps{
		CustomerSvc:      customerService,
		Store:            st.Pinger,
		Metrics:          m,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})
	if err != nil {
		log.Error("init server", zap.Error(err))
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stopCh:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case runErr = <-serverErr:
		log.Error("server error", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return runErr
}
