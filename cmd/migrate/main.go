package main

import (
	"context"
	"flag"
	"os"

	"smartband-store/internal/config"
	"smartband-store/internal/db"
	"smartband-store/internal/logging"
	"smartband-store/internal/migrate"
)

func main() {
	var (
		down    int
		version bool
	)
	flag.IntVar(&down, "down", 0, "Roll back this many migrations instead of applying")
	flag.BoolVar(&version, "version", false, "Print the current schema version and exit")
	flag.Parse()

	cfg, err := config.FromEnv()
	logger := logging.New(logging.Options{Component: "migrate", Level: cfg.Log.Level})
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}
	if cfg.DB.DSN == "" {
		logger.Error("db.dsn is required (BAND_DB__DSN)")
		os.Exit(2)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DB.DSN, cfg.DB.MaxConns)
	if err != nil {
		logger.Error("connect db", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	switch {
	case version:
		v, dirty, err := migrate.Version(ctx, pool)
		if err != nil {
			logger.Error("read version", "err", err)
			os.Exit(1)
		}
		logger.Info("schema version", "version", v, "dirty", dirty)
	case down > 0:
		if err := migrate.Rollback(ctx, pool, down); err != nil {
			logger.Error("rollback migrations", "err", err)
			os.Exit(1)
		}
		logger.Info("migrations rolled back", "steps", down)
	default:
		if err := migrate.Apply(ctx, pool); err != nil {
			logger.Error("apply migrations", "err", err)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}
}
