package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"smartband-store/internal/cache"
	"smartband-store/internal/config"
	"smartband-store/internal/db"
	"smartband-store/internal/httpserver"
	"smartband-store/internal/logging"
	contactrepo "smartband-store/internal/repository/contact"
	productrepo "smartband-store/internal/repository/product"
	"smartband-store/internal/repository/record"
	cartsvc "smartband-store/internal/service/cart"
	"smartband-store/internal/service/checkout"
	contactsvc "smartband-store/internal/service/contact"
	productsvc "smartband-store/internal/service/product"
	"smartband-store/internal/service/session"
)

func main() {
	cfg, err := config.FromEnv()
	if err == nil {
		err = cfg.ValidateServer()
	}
	if err != nil {
		logging.New(logging.Options{Component: "api"}).Error("load config", "err", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Options{Component: "api", Level: cfg.Log.Level, File: cfg.Log.File})
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	ready := map[string]httpserver.Pinger{}

	var productRepo productrepo.Repository = productrepo.NewStatic(productrepo.DefaultCatalog())
	contactRepo := contactrepo.NewMemory()
	if cfg.DB.DSN != "" {
		dbpool, err := db.Connect(ctx, cfg.DB.DSN, cfg.DB.MaxConns)
		if err != nil {
			logger.Error("connect to db", "err", err)
			os.Exit(1)
		}
		defer dbpool.Close()
		productRepo = productrepo.NewPostgres(dbpool, logging.Component(logger, "db"))
		contactRepo = contactrepo.NewPostgres(dbpool, logging.Component(logger, "db"))
		ready["db"] = dbpool
	} else {
		logger.Info("no database configured, serving the built-in catalog")
	}

	var records record.Factory = record.NewMemory()
	var limiter *cache.WindowCounter
	if cfg.Redis.URL != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Error("connect to redis", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		records = record.NewRedis(rdb, cfg.Redis.RecordTTL, logging.Component(logger, "record"))
		limiter = cache.NewWindowCounter(rdb, "ratelimit:")
		ready["redis"] = redisPinger(rdb)
	} else {
		logger.Info("no redis configured, user records stay in memory and rate limiting is off")
	}

	productService := productsvc.New(productRepo)
	cartService := cartsvc.New(productService)
	contactService := contactsvc.New(contactRepo, cfg.Contact.Delay, logging.Component(logger, "contact"))

	sessions := session.NewManager(session.Config{
		Secret:  cfg.Session.Secret,
		Issuer:  cfg.Session.Issuer,
		TTL:     cfg.Session.TTL,
		IdleTTL: cfg.Session.IdleTTL,
	}, session.NewBuilder(session.Deps{
		Records:   records,
		Gateway:   checkout.MockGateway{Delay: cfg.Checkout.GatewayDelay},
		AuthDelay: cfg.Auth.Delay,
		Logger:    logging.Component(logger, "session"),
	}), logging.Component(logger, "session"))
	go sessions.Run(ctx, cfg.Session.SweepInterval)

	deps := httpserver.Deps{
		ProductSvc: productService,
		CartSvc:    cartService,
		ContactSvc: contactService,
		Sessions:   sessions,
		Ready:      ready,
	}
	if limiter != nil {
		deps.Limiter = limiter
	}

	srv, err := httpserver.New(cfg.App.HTTPAddr, logging.Component(logger, "http"), deps, httpserver.Options{
		CORSOrigins:  cfg.App.CORSOrigins,
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
		AuthRateMax:  cfg.RateLimit.AuthMax,
		RateWindow:   cfg.RateLimit.Window,
	})
	if err != nil {
		logger.Error("init server", "err", err)
		os.Exit(1)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", "addr", cfg.App.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server error", "err", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	} else {
		logger.Info("server stopped")
	}
}

func redisPinger(rdb *redis.Client) httpserver.PingFunc {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
