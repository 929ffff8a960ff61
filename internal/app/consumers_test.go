package app

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stockwise/stockwise-backend/internal/domain"
)

type fakeNotificationRepo struct {
	created []domain.Notification
	fail    error
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, n *domain.Notification) (string, error) {
	if r.fail != nil {
		return "", r.fail
	}
	r.created = append(r.created, *n)
	return "notification-1", nil
}

func (r *fakeNotificationRepo) ListNotifications(ctx context.Context, recipient string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	return r.created, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestHandleEventOTPRequested(t *testing.T) {
	repo := &fakeNotificationRepo{}
	ingestor := NewEventIngestor(repo)

	body := mustJSON(t, domain.OTPRequestedEvent{
		Email: "a@x.com", Username: "ada", Code: 4321, ExpiryMinutes: 2,
	})
	if !ingestor.HandleEvent(domain.RoutingOTPRequested, body) {
		t.Fatalf("expected message to be acknowledged")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one notification, got %d", len(repo.created))
	}
	n := repo.created[0]
	if n.Recipient != "a@x.com" {
		t.Fatalf("recipient mismatch: %q", n.Recipient)
	}
	if !strings.Contains(n.Message, "4321") {
		t.Fatalf("rendered message must contain the passcode: %q", n.Message)
	}
	if !strings.Contains(n.Message, "2 minutes") {
		t.Fatalf("rendered message must state the expiry window: %q", n.Message)
	}
}

func TestHandleEventTable(t *testing.T) {
	tests := []struct {
		name       string
		routingKey string
		body       any
		wantAck    bool
		wantStored int
	}{
		{
			name:       "low stock event stored",
			routingKey: domain.RoutingLowStock,
			body:       domain.LowStockEvent{ProductID: "p1", Name: "Widget", Stock: 2, Threshold: 10},
			wantAck:    true,
			wantStored: 1,
		},
		{
			name:       "transaction event stored",
			routingKey: domain.RoutingTransactionCreated,
			body:       domain.TransactionCreatedEvent{TransactionID: "t1", ProductID: "p1", Quantity: 3},
			wantAck:    true,
			wantStored: 1,
		},
		{
			name:       "registration event stored",
			routingKey: domain.RoutingUserRegistered,
			body:       domain.UserRegisteredEvent{UserID: "u1", Username: "ada", Email: "a@x.com"},
			wantAck:    true,
			wantStored: 1,
		},
		{
			name:       "unknown routing key acked without storing",
			routingKey: "payments.settled",
			body:       map[string]string{"anything": "goes"},
			wantAck:    true,
			wantStored: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeNotificationRepo{}
			ingestor := NewEventIngestor(repo)
			ack := ingestor.HandleEvent(tt.routingKey, mustJSON(t, tt.body))
			if ack != tt.wantAck {
				t.Fatalf("ack = %v, want %v", ack, tt.wantAck)
			}
			if len(repo.created) != tt.wantStored {
				t.Fatalf("stored %d notifications, want %d", len(repo.created), tt.wantStored)
			}
		})
	}
}

func TestHandleEventMalformedPayloadIsAcked(t *testing.T) {
	repo := &fakeNotificationRepo{}
	ingestor := NewEventIngestor(repo)

	if !ingestor.HandleEvent(domain.RoutingOTPRequested, []byte("{not json")) {
		t.Fatalf("malformed payloads must be acked, not requeued forever")
	}
	if len(repo.created) != 0 {
		t.Fatalf("malformed payload must not be stored")
	}
}

func TestHandleEventStoreFailureRequeues(t *testing.T) {
	repo := &fakeNotificationRepo{fail: errors.New("db down")}
	ingestor := NewEventIngestor(repo)

	body := mustJSON(t, domain.LowStockEvent{ProductID: "p1", Name: "Widget", Stock: 1, Threshold: 10})
	if ingestor.HandleEvent(domain.RoutingLowStock, body) {
		t.Fatalf("store failures must nack so the message is retried")
	}
}
