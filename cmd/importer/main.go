package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"retail-customers/internal/config"
	"retail-customers/internal/importer"
	"retail-customers/internal/logger"
	customersvc "retail-customers/internal/service/customer"
	"retail-customers/internal/store"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a customer CSV file (name,email,dni,age)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}
	log, err := logger.NewForEnvironment(cfg.App.Env, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		zap.NewExample().Fatal("init logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()
	log = log.Named("importer")

	if err := cfg.RequirePersistentStore(); err != nil {
		log.Fatal("refusing to import", zap.Error(err))
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

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	start := time.Now()
	res, err := importer.NewCSVImporter(f, svc).Run(ctx)
	if err != nil {
		log.Fatal("import failed", zap.Error(err), zap.Int("imported", res.Imported))
	}
	for _, rej := range res.Rejected {
		log.Warn("row rejected", zap.Int("line", rej.Line), zap.String("dni", rej.DNI), zap.String("reason", rej.Reason))
	}

	fmt.Printf("Imported %d customers (%d rejected) in %s\n", res.Imported, len(res.Rejected), time.Since(start).Truncate(time.Millisecond))
}
