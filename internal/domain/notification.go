package domain

import "time"

// Notification is a persisted copy of an event the dashboard surfaces to
// its users. Delivery beyond persistence (mail provider, push) is handled
// externally.
type Notification struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Message   string    `json:"message"`
	Recipient string    `json:"recipient,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
