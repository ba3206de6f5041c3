package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/ajcastillo/gearmart-backend/api/routes"
	"github.com/ajcastillo/gearmart-backend/internal/auth"
	"github.com/ajcastillo/gearmart-backend/internal/store"
	"github.com/ajcastillo/gearmart-backend/pkg/auth/session"
	"github.com/ajcastillo/gearmart-backend/pkg/config"
	"github.com/ajcastillo/gearmart-backend/pkg/db"
	"github.com/ajcastillo/gearmart-backend/pkg/livequery"
	"github.com/ajcastillo/gearmart-backend/pkg/logger"
	"github.com/ajcastillo/gearmart-backend/pkg/metrics"
	"github.com/ajcastillo/gearmart-backend/pkg/migrate"
	"github.com/ajcastillo/gearmart-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.OpenOnce(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	// A fresh sqlite store initializes itself; postgres deployments run
	// goose migrations instead.
	if cfg.DB.Driver == config.DriverSQLite {
		if err := dbClient.CreateSchema(); err != nil {
			logg.Error(context.Background(), "failed to create schema", err)
			os.Exit(1)
		}
	}
	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}
	db.MaybeSeedDemo(dbClient, cfg, logg)

	// Redis is optional. Without it the API still serves; refresh sessions,
	// rate limiting, and idempotency replay are disabled.
	var redisClient *redis.Client
	var sessions session.AccessSessionChecker
	var sessionManager *session.Manager
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		sessionManager, err = session.NewManager(redisClient, cfg.JWT)
		if err != nil {
			logg.Error(context.Background(), "failed to create session manager", err)
			os.Exit(1)
		}
		sessions = sessionManager
	} else {
		logg.Warn(context.Background(), "redis not configured, running in access-token-only mode")
	}

	st, err := store.New(dbClient, livequery.NewBus())
	if err != nil {
		logg.Error(context.Background(), "failed to assemble store", err)
		os.Exit(1)
	}

	authParams := auth.ServiceParams{
		UserRepo:       st.Users,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	}
	if sessionManager != nil {
		authParams.SessionManager = sessionManager
	}
	authService, err := auth.NewService(authParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, st, authService, sessions, redisClient, httpMetrics, promhttp.Handler()),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		var errs error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = multierr.Append(errs, err)
		}
		st.Bus().Close()
		if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = multierr.Append(errs, err)
		}
		if errs != nil {
			logg.Error(ctx, "shutdown finished with errors", errs)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
