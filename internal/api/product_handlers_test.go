package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stockwise/stockwise-backend/internal/domain"
)

type fakeProductRepo struct {
	byID   map[string]*domain.Product
	nextID int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: map[string]*domain.Product{}}
}

func (r *fakeProductRepo) CreateProduct(ctx context.Context, input *domain.ProductInput) (*domain.Product, error) {
	r.nextID++
	p := &domain.Product{
		ID:         fmt.Sprintf("product-%d", r.nextID),
		Name:       input.Name,
		Category:   input.Category,
		PriceCents: input.PriceCents,
		Stock:      input.Stock,
		Rating:     input.Rating,
	}
	r.byID[p.ID] = p
	return p, nil
}

func (r *fakeProductRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return r.byID[id], nil
}

func (r *fakeProductRepo) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	products := []domain.Product{}
	for _, p := range r.byID {
		if category == "" || p.Category == category {
			products = append(products, *p)
		}
	}
	return products, nil
}

func (r *fakeProductRepo) UpdateProduct(ctx context.Context, id string, input *domain.ProductInput) (*domain.Product, error) {
	p := r.byID[id]
	if p == nil {
		return nil, nil
	}
	p.Name = input.Name
	p.Category = input.Category
	p.PriceCents = input.PriceCents
	p.Stock = input.Stock
	p.Rating = input.Rating
	return p, nil
}

func (r *fakeProductRepo) DeleteProduct(ctx context.Context, id string) (bool, error) {
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func productRouter(h *ProductHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/products", h.HandleCreate)
	r.Get("/products/{id}", h.HandleGet)
	r.Put("/products/{id}", h.HandleUpdate)
	r.Delete("/products/{id}", h.HandleDelete)
	return r
}

func TestProductHandlerCreate(t *testing.T) {
	t.Run("rejects missing name", func(t *testing.T) {
		handler := NewProductHandler(newFakeProductRepo(), &fakePublisher{}, 10)
		body, _ := json.Marshal(domain.ProductInput{Category: "widgets"})
		req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		productRouter(handler).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("creates and returns the product", func(t *testing.T) {
		repo := newFakeProductRepo()
		handler := NewProductHandler(repo, &fakePublisher{}, 10)
		body, _ := json.Marshal(domain.ProductInput{Name: "Widget", Category: "widgets", PriceCents: 1999, Stock: 50})
		req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		productRouter(handler).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var created domain.Product
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if created.ID == "" || repo.byID[created.ID] == nil {
			t.Fatalf("product was not stored: %+v", created)
		}
	})
}

func TestProductHandlerUpdatePublishesLowStock(t *testing.T) {
	repo := newFakeProductRepo()
	pub := &fakePublisher{}
	handler := NewProductHandler(repo, pub, 10)

	created, err := repo.CreateProduct(context.Background(), &domain.ProductInput{Name: "Widget", Stock: 50})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	update := func(t *testing.T, stock int) {
		t.Helper()
		body, _ := json.Marshal(domain.ProductInput{Name: "Widget", Stock: stock})
		req := httptest.NewRequest(http.MethodPut, "/products/"+created.ID, bytes.NewReader(body))
		rec := httptest.NewRecorder()
		productRouter(handler).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	update(t, 40)
	if len(pub.published) != 0 {
		t.Fatalf("no event expected while stock is above the threshold")
	}

	update(t, 3)
	if len(pub.published) != 1 || pub.published[0] != domain.RoutingLowStock {
		t.Fatalf("expected one low_stock event, got %v", pub.published)
	}
}

func TestProductHandlerNotFound(t *testing.T) {
	handler := NewProductHandler(newFakeProductRepo(), &fakePublisher{}, 10)
	router := productRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/products/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing product, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/products/missing", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting missing product, got %d", rec.Code)
	}
}
