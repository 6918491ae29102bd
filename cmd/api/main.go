package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/memberhub/backend/api/routes"
	"github.com/memberhub/backend/internal/requests"
	"github.com/memberhub/backend/internal/review"
	"github.com/memberhub/backend/internal/roles"
	"github.com/memberhub/backend/pkg/config"
	"github.com/memberhub/backend/pkg/db"
	"github.com/memberhub/backend/pkg/logger"
	"github.com/memberhub/backend/pkg/metrics"
	"github.com/memberhub/backend/pkg/migrate"
	"github.com/memberhub/backend/pkg/outbox"
	"github.com/memberhub/backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reviewMetrics := metrics.NewReviewMetrics(registry)

	requestRepo := requests.NewRepository(dbClient.DB())
	roleRepo := roles.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	submissionSink := requests.NewOutboxSink(outboxService, dbClient.WithTx, logg)
	requestService, err := requests.NewService(requestRepo, submissionSink)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin request service", err)
		os.Exit(1)
	}

	eventSink := review.NewOutboxSink(outboxService, dbClient.WithTx, logg)
	reviewService, err := review.NewService(requestRepo, roleRepo, eventSink, logg, reviewMetrics, cfg.Review)
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, requestService, reviewService),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}
}
