package store

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stockwise/stockwise-backend/internal/domain"
)

// TransactionRepository defines the interface for sales transaction storage.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, input *domain.TransactionInput) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, limit, offset int) ([]domain.Transaction, error)
	SalesSince(ctx context.Context, days int) ([]domain.ProductSales, error)
}

// PostgresTransactionRepository is the PostgreSQL implementation of the
// TransactionRepository.
type PostgresTransactionRepository struct {
	db *pgxpool.Pool
}

// NewPostgresTransactionRepository creates a new instance of PostgresTransactionRepository.
func NewPostgresTransactionRepository(db *pgxpool.Pool) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

// CreateTransaction records a sale and returns the stored row.
func (r *PostgresTransactionRepository) CreateTransaction(ctx context.Context, input *domain.TransactionInput) (*domain.Transaction, error) {
	query := `
        INSERT INTO transactions (product_id, quantity, amount_cents, buyer)
        VALUES ($1, $2, $3, $4)
        RETURNING id, product_id, quantity, amount_cents, buyer, created_at
    `
	var tx domain.Transaction
	err := r.db.QueryRow(ctx, query,
		input.ProductID, input.Quantity, input.AmountCents, input.Buyer,
	).Scan(&tx.ID, &tx.ProductID, &tx.Quantity, &tx.AmountCents, &tx.Buyer, &tx.CreatedAt)
	if err != nil {
		log.Printf("Error inserting transaction into database: %v", err)
		return nil, err
	}
	return &tx, nil
}

// ListTransactions returns recorded sales, newest first.
func (r *PostgresTransactionRepository) ListTransactions(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `
        SELECT id, product_id, quantity, amount_cents, buyer, created_at
        FROM transactions
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		log.Printf("Error listing transactions: %v", err)
		return nil, err
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.ProductID, &tx.Quantity, &tx.AmountCents, &tx.Buyer, &tx.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// SalesSince aggregates units and revenue per product over the trailing
// number of days.
func (r *PostgresTransactionRepository) SalesSince(ctx context.Context, days int) ([]domain.ProductSales, error) {
	query := `
        SELECT product_id, COALESCE(SUM(quantity), 0), COALESCE(SUM(amount_cents), 0)
        FROM transactions
        WHERE created_at > NOW() - make_interval(days => $1)
        GROUP BY product_id
        ORDER BY SUM(amount_cents) DESC
    `
	rows, err := r.db.Query(ctx, query, days)
	if err != nil {
		log.Printf("Error aggregating sales: %v", err)
		return nil, err
	}
	defer rows.Close()

	sales := []domain.ProductSales{}
	for rows.Next() {
		var s domain.ProductSales
		if err := rows.Scan(&s.ProductID, &s.Units, &s.AmountCents); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
