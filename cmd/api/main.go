// Package main is the entry point for the traffic stop insights server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pkordes/stop-insights/internal/catalog"
	"github.com/pkordes/stop-insights/internal/config"
	"github.com/pkordes/stop-insights/internal/database"
	"github.com/pkordes/stop-insights/internal/handler"
	"github.com/pkordes/stop-insights/internal/metrics"
	"github.com/pkordes/stop-insights/internal/middleware"
	"github.com/pkordes/stop-insights/internal/repo"
	"github.com/pkordes/stop-insights/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	ctx := context.Background()
	if cfg.AutoMigrate {
		applied, err := database.MigrateDSN(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied", "count", applied)
	}

	pool, err := database.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	slog.Info("database connection established")

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Services ---------------------------------------------------------
	stopRepo := repo.NewStopRepo(pool)
	insightRepo := repo.NewInsightRepo(pool)

	datasetSvc := service.NewDatasetService(stopRepo, cfg.CacheTTL, m)
	insightSvc := service.NewInsightService(catalog.Default(), insightRepo, m)
	narrativeSvc := service.NewNarrativeService(datasetSvc)

	// --- Router -----------------------------------------------------------
	// Order: RequestID, RealIP, logger, metrics, Recoverer, CORS, body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetricsHandler(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	handler.NewServer(datasetSvc, insightSvc, narrativeSvc).Register(r)
	r.Handle("/metrics", m.Handler())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "questions", catalog.Default().Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
