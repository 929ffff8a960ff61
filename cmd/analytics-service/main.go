/**
 * @description
 * This is the main entry point for the analytics-service. Besides serving the
 * sales summary and prediction endpoints, it runs the cron job that
 * recomputes per-product demand predictions from the trailing sales window.
 */
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stockwise/stockwise-backend/internal/api"
	"github.com/stockwise/stockwise-backend/internal/app"
	"github.com/stockwise/stockwise-backend/internal/config"
	"github.com/stockwise/stockwise-backend/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.ServerPort = port
	}

	ctx := context.Background()

	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}
	dbConfig.MaxConns = 10
	dbConfig.MinConns = 2
	dbConfig.MaxConnLifetime = 30 * time.Minute
	dbConfig.MaxConnIdleTime = 5 * time.Minute
	dbConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	if _, err := dbpool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS predictions (
            product_id UUID PRIMARY KEY,
            predicted_units INT NOT NULL,
            window_days INT NOT NULL,
            computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
    `); err != nil {
		logger.Warn("failed ensuring tables (may already exist)", "error", err)
	}

	txRepo := store.NewPostgresTransactionRepository(dbpool)
	predictionRepo := store.NewPostgresPredictionRepository(dbpool)

	jobs := app.NewJobs(predictionRepo, cfg.PredictionWindowDays, logger)
	scheduler := app.NewScheduler(jobs, cfg.PredictionSchedule, logger)
	scheduler.Start()
	logger.Info("scheduler started")

	analyticsHandler := api.NewAnalyticsHandler(txRepo, predictionRepo)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSAllowedOrigins, ","),
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/analytics/sales-summary", analyticsHandler.HandleSalesSummary)
	r.Get("/predictions", analyticsHandler.HandlePredictions)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Analytics service is healthy"))
	})

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("could not start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	stopCtx := scheduler.Stop()
	<-stopCtx.Done() // Wait for in-flight jobs to finish

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}
