package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/stockwise/stockwise-backend/internal/auth"
	"github.com/stockwise/stockwise-backend/internal/domain"
	"github.com/stockwise/stockwise-backend/internal/store"
)

// TransactionHandler serves the sales transaction endpoints.
type TransactionHandler struct {
	repo     store.TransactionRepository
	producer auth.EventPublisher
}

// NewTransactionHandler creates a new handler for the transaction endpoints.
func NewTransactionHandler(repo store.TransactionRepository, producer auth.EventPublisher) *TransactionHandler {
	return &TransactionHandler{repo: repo, producer: producer}
}

// HandleCreate records a sale.
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input domain.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.ProductID == "" || input.Quantity <= 0 || input.AmountCents < 0 {
		http.Error(w, "product_id, positive quantity and non-negative amount are required", http.StatusBadRequest)
		return
	}

	tx, err := h.repo.CreateTransaction(r.Context(), &input)
	if err != nil {
		http.Error(w, "Internal server error: could not record transaction", http.StatusInternalServerError)
		return
	}

	event := domain.TransactionCreatedEvent{
		TransactionID: tx.ID,
		ProductID:     tx.ProductID,
		Quantity:      tx.Quantity,
		AmountCents:   tx.AmountCents,
	}
	if err := h.producer.Publish(r.Context(), domain.EventsExchange, domain.RoutingTransactionCreated, event); err != nil {
		log.Printf("Failed to publish transaction.recorded event for %s: %v", tx.ID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}

// HandleList returns recorded sales with ?limit= and ?offset= paging.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	transactions, err := h.repo.ListTransactions(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}
