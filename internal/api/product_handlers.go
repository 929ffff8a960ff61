package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stockwise/stockwise-backend/internal/auth"
	"github.com/stockwise/stockwise-backend/internal/domain"
	"github.com/stockwise/stockwise-backend/internal/store"
)

// ProductHandler serves the inventory CRUD endpoints.
type ProductHandler struct {
	repo              store.ProductRepository
	producer          auth.EventPublisher
	lowStockThreshold int
}

// NewProductHandler creates a new handler for the product endpoints.
func NewProductHandler(repo store.ProductRepository, producer auth.EventPublisher, lowStockThreshold int) *ProductHandler {
	return &ProductHandler{repo: repo, producer: producer, lowStockThreshold: lowStockThreshold}
}

func decodeProductInput(w http.ResponseWriter, r *http.Request) (*domain.ProductInput, bool) {
	var input domain.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if input.Name == "" {
		http.Error(w, "Product name is required", http.StatusBadRequest)
		return nil, false
	}
	if input.PriceCents < 0 || input.Stock < 0 {
		http.Error(w, "Price and stock must be non-negative", http.StatusBadRequest)
		return nil, false
	}
	return &input, true
}

// HandleCreate inserts a new product.
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeProductInput(w, r)
	if !ok {
		return
	}

	product, err := h.repo.CreateProduct(r.Context(), input)
	if err != nil {
		http.Error(w, "Internal server error: could not create product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
}

// HandleGet fetches one product by ID.
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// HandleList returns all products, optionally filtered with ?category=.
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

// HandleUpdate overwrites a product's attributes. Crossing the low-stock
// threshold publishes an inventory.low_stock event; publish failures do not
// fail the update.
func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeProductInput(w, r)
	if !ok {
		return
	}

	product, err := h.repo.UpdateProduct(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		http.Error(w, "Internal server error: could not update product", http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	if product.Stock <= h.lowStockThreshold {
		event := domain.LowStockEvent{
			ProductID: product.ID,
			Name:      product.Name,
			Stock:     product.Stock,
			Threshold: h.lowStockThreshold,
		}
		if err := h.producer.Publish(r.Context(), domain.EventsExchange, domain.RoutingLowStock, event); err != nil {
			log.Printf("Failed to publish low_stock event for product %s: %v", product.ID, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// HandleDelete removes a product.
func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.repo.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Internal server error: could not delete product", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
