package domain

import "time"

// Transaction records a single sale of a product.
type Transaction struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Quantity    int       `json:"quantity"`
	AmountCents int64     `json:"amount_cents"`
	Buyer       string    `json:"buyer"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionInput is the client payload for recording a sale.
type TransactionInput struct {
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	AmountCents int64  `json:"amount_cents"`
	Buyer       string `json:"buyer"`
}

// ProductSales aggregates units and revenue for one product over a window.
type ProductSales struct {
	ProductID   string `json:"product_id"`
	Units       int    `json:"units"`
	AmountCents int64  `json:"amount_cents"`
}
