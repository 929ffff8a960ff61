package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/stockwise/stockwise-backend/internal/store"
)

// AnalyticsHandler serves sales summaries and demand predictions.
type AnalyticsHandler struct {
	transactions store.TransactionRepository
	predictions  store.PredictionRepository
}

// NewAnalyticsHandler creates a new handler for the analytics endpoints.
func NewAnalyticsHandler(transactions store.TransactionRepository, predictions store.PredictionRepository) *AnalyticsHandler {
	return &AnalyticsHandler{transactions: transactions, predictions: predictions}
}

// HandleSalesSummary aggregates units and revenue per product over a trailing
// window (?days=, default 30).
func (h *AnalyticsHandler) HandleSalesSummary(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 || days > 365 {
		days = 30
	}

	sales, err := h.transactions.SalesSince(r.Context(), days)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"window_days": days, "products": sales})
}

// HandlePredictions returns the current per-product demand predictions.
func (h *AnalyticsHandler) HandlePredictions(w http.ResponseWriter, r *http.Request) {
	predictions, err := h.predictions.ListPredictions(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(predictions)
}
