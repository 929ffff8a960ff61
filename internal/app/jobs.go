/**
 * @description
 * Scheduled job implementations for the analytics-service.
 */
package app

import (
	"context"
	"log/slog"
)

// PredictionRecomputer defines the database operation needed by the jobs.
type PredictionRecomputer interface {
	RecomputePredictions(ctx context.Context, windowDays int) (int, error)
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	predictions PredictionRecomputer
	windowDays  int
	logger      *slog.Logger
}

// NewJobs creates a new Jobs runner.
func NewJobs(predictions PredictionRecomputer, windowDays int, logger *slog.Logger) *Jobs {
	return &Jobs{
		predictions: predictions,
		windowDays:  windowDays,
		logger:      logger,
	}
}

// RecomputePredictions refreshes per-product demand predictions from the
// trailing sales window. Failures are logged, never fatal; the next run will
// try again.
func (j *Jobs) RecomputePredictions() {
	j.logger.Info("starting prediction recompute job", "window_days", j.windowDays)
	ctx := context.Background()

	updated, err := j.predictions.RecomputePredictions(ctx, j.windowDays)
	if err != nil {
		j.logger.Error("failed to recompute predictions", "error", err)
		return
	}
	j.logger.Info("prediction recompute job finished", "products_updated", updated)
}
