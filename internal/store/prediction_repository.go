package store

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stockwise/stockwise-backend/internal/domain"
)

// PredictionRepository defines the interface for demand prediction storage.
type PredictionRepository interface {
	RecomputePredictions(ctx context.Context, windowDays int) (int, error)
	ListPredictions(ctx context.Context) ([]domain.Prediction, error)
}

// PostgresPredictionRepository is the PostgreSQL implementation of the
// PredictionRepository.
type PostgresPredictionRepository struct {
	db *pgxpool.Pool
}

// NewPostgresPredictionRepository creates a new instance of PostgresPredictionRepository.
func NewPostgresPredictionRepository(db *pgxpool.Pool) *PostgresPredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// RecomputePredictions rebuilds the per-product demand predictions from the
// trailing sales window. Predicted units are the window's daily average
// projected over seven days, rounded up. It returns the number of products
// with a refreshed prediction.
func (r *PostgresPredictionRepository) RecomputePredictions(ctx context.Context, windowDays int) (int, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	query := `
        INSERT INTO predictions (product_id, predicted_units, window_days, computed_at)
        SELECT product_id,
               CEIL(SUM(quantity)::numeric / $1 * 7)::int,
               $1,
               NOW()
        FROM transactions
        WHERE created_at > NOW() - make_interval(days => $1)
        GROUP BY product_id
        ON CONFLICT (product_id) DO UPDATE
        SET predicted_units = EXCLUDED.predicted_units,
            window_days     = EXCLUDED.window_days,
            computed_at     = EXCLUDED.computed_at
    `
	tag, err := r.db.Exec(ctx, query, windowDays)
	if err != nil {
		log.Printf("Error recomputing predictions: %v", err)
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ListPredictions returns the current prediction per product.
func (r *PostgresPredictionRepository) ListPredictions(ctx context.Context) ([]domain.Prediction, error) {
	query := `
        SELECT product_id, predicted_units, window_days, computed_at
        FROM predictions
        ORDER BY predicted_units DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		log.Printf("Error listing predictions: %v", err)
		return nil, err
	}
	defer rows.Close()

	predictions := []domain.Prediction{}
	for rows.Next() {
		var p domain.Prediction
		if err := rows.Scan(&p.ProductID, &p.PredictedUnits, &p.WindowDays, &p.ComputedAt); err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}
