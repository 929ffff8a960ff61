package store

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stockwise/stockwise-backend/internal/domain"
)

// ProductRepository defines the interface for product data storage.
type ProductRepository interface {
	CreateProduct(ctx context.Context, input *domain.ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input *domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
}

// PostgresProductRepository is the PostgreSQL implementation of the ProductRepository.
type PostgresProductRepository struct {
	db *pgxpool.Pool
}

// NewPostgresProductRepository creates a new instance of PostgresProductRepository.
func NewPostgresProductRepository(db *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.PriceCents, &p.Stock, &p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts a new product and returns the stored row.
func (r *PostgresProductRepository) CreateProduct(ctx context.Context, input *domain.ProductInput) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, category, price_cents, stock, rating)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, name, category, price_cents, stock, rating, created_at, updated_at
    `
	product, err := scanProduct(r.db.QueryRow(ctx, query,
		input.Name, input.Category, input.PriceCents, input.Stock, input.Rating))
	if err != nil {
		log.Printf("Error inserting product into database: %v", err)
		return nil, err
	}
	return product, nil
}

// GetProduct fetches a single product. It returns (nil, nil) when absent.
func (r *PostgresProductRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `
        SELECT id, name, category, price_cents, stock, rating, created_at, updated_at
        FROM products
        WHERE id = $1
    `
	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		log.Printf("Error fetching product: %v", err)
		return nil, err
	}
	return product, nil
}

// ListProducts returns all products, optionally filtered by category, newest
// first.
func (r *PostgresProductRepository) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	query := `
        SELECT id, name, category, price_cents, stock, rating, created_at, updated_at
        FROM products
        WHERE ($1 = '' OR category = $1)
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.PriceCents, &p.Stock, &p.Rating, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct overwrites a product's mutable attributes. It returns
// (nil, nil) when the product does not exist.
func (r *PostgresProductRepository) UpdateProduct(ctx context.Context, id string, input *domain.ProductInput) (*domain.Product, error) {
	query := `
        UPDATE products
        SET name = $2, category = $3, price_cents = $4, stock = $5, rating = $6, updated_at = NOW()
        WHERE id = $1
        RETURNING id, name, category, price_cents, stock, rating, created_at, updated_at
    `
	product, err := scanProduct(r.db.QueryRow(ctx, query,
		id, input.Name, input.Category, input.PriceCents, input.Stock, input.Rating))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		log.Printf("Error updating product: %v", err)
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product and reports whether a row was deleted.
func (r *PostgresProductRepository) DeleteProduct(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		log.Printf("Error deleting product: %v", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
