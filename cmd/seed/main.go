package main

import (
	"context"
	"os"

	"smartband-store/internal/config"
	"smartband-store/internal/db"
	"smartband-store/internal/logging"
	productrepo "smartband-store/internal/repository/product"
	"smartband-store/internal/seed"
)

func main() {
	cfg, err := config.FromEnv()
	logger := logging.New(logging.Options{Component: "seed", Level: cfg.Log.Level})
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DB.DSN, cfg.DB.MaxConns)
	if err != nil {
		logger.Error("connect db", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	n, err := seed.Apply(ctx, productrepo.NewPostgres(pool, logger), logger)
	if err != nil {
		logger.Error("seed apply", "err", err)
		os.Exit(1)
	}

	logger.Info("seed applied", "products", n)
}
