package domain

import "time"

// Prediction is the expected weekly demand for a product, recomputed on a
// schedule from the trailing sales window.
type Prediction struct {
	ProductID      string    `json:"product_id"`
	PredictedUnits int       `json:"predicted_units"`
	WindowDays     int       `json:"window_days"`
	ComputedAt     time.Time `json:"computed_at"`
}
