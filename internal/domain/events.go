package domain

// EventsExchange is the topic exchange all services publish to. The
// notification-service binds its queue here.
const EventsExchange = "stockwise_events"

// Routing keys for events published on EventsExchange.
const (
	RoutingOTPRequested       = "auth.otp.requested"
	RoutingUserRegistered     = "auth.user.registered"
	RoutingLowStock           = "inventory.low_stock"
	RoutingTransactionCreated = "transaction.recorded"
)

// OTPRequestedEvent carries the passcode to the delivery side channel. The
// passcode never travels back to the requesting client; only the signed
// delivery token does.
type OTPRequestedEvent struct {
	Email         string `json:"email"`
	Username      string `json:"username"`
	Code          int    `json:"code"`
	ExpiryMinutes int    `json:"expiry_minutes"`
}

// UserRegisteredEvent is published after a successful registration.
type UserRegisteredEvent struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LowStockEvent is published by the inventory-service when a product's stock
// falls at or below the configured threshold.
type LowStockEvent struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

// TransactionCreatedEvent is published after a sale is recorded.
type TransactionCreatedEvent struct {
	TransactionID string `json:"transaction_id"`
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	AmountCents   int64  `json:"amount_cents"`
}
