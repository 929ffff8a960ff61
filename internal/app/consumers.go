/**
 * @description
 * This file contains the core application logic for the notification-service.
 * It defines the event handler that turns broker events into persisted
 * notification records.
 *
 * @notes
 * - Actually delivering the rendered message (mail provider, push gateway) is
 *   handled outside this codebase; the handler persists the record and logs
 *   the rendered body.
 * - Malformed payloads are acknowledged rather than requeued, since retrying
 *   them can never succeed.
 */
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/stockwise/stockwise-backend/internal/domain"
	"github.com/stockwise/stockwise-backend/internal/store"
)

// EventIngestor turns events consumed from the broker into notification rows.
type EventIngestor struct {
	repo store.NotificationRepository
}

// NewEventIngestor creates a new instance of EventIngestor.
func NewEventIngestor(repo store.NotificationRepository) *EventIngestor {
	return &EventIngestor{repo: repo}
}

// HandleEvent is the consumer callback. It returns true when the message
// should be acknowledged and false when it should be requeued.
func (i *EventIngestor) HandleEvent(routingKey string, body []byte) bool {
	notification, ok := i.buildNotification(routingKey, body)
	if !ok {
		// Malformed payload; requeueing cannot fix it.
		return true
	}

	if _, err := i.repo.CreateNotification(context.Background(), notification); err != nil {
		log.Printf("Error persisting notification for %s: %v", routingKey, err)
		return false
	}
	return true
}

func (i *EventIngestor) buildNotification(routingKey string, body []byte) (*domain.Notification, bool) {
	switch routingKey {
	case domain.RoutingOTPRequested:
		var event domain.OTPRequestedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			log.Printf("Error unmarshaling otp.requested event: %v", err)
			return nil, false
		}
		message := fmt.Sprintf(
			"Hi %s, your verification code is %04d. It expires in %d minutes.",
			event.Username, event.Code, event.ExpiryMinutes,
		)
		// The mail provider picks this up out of band; log the dispatch here.
		log.Printf("Queued OTP mail for %s", event.Email)
		return &domain.Notification{
			Topic:     domain.RoutingOTPRequested,
			Message:   message,
			Recipient: event.Email,
		}, true

	case domain.RoutingUserRegistered:
		var event domain.UserRegisteredEvent
		if err := json.Unmarshal(body, &event); err != nil {
			log.Printf("Error unmarshaling user.registered event: %v", err)
			return nil, false
		}
		return &domain.Notification{
			Topic:     domain.RoutingUserRegistered,
			Message:   fmt.Sprintf("Welcome aboard, %s!", event.Username),
			Recipient: event.Email,
		}, true

	case domain.RoutingLowStock:
		var event domain.LowStockEvent
		if err := json.Unmarshal(body, &event); err != nil {
			log.Printf("Error unmarshaling low_stock event: %v", err)
			return nil, false
		}
		return &domain.Notification{
			Topic:   domain.RoutingLowStock,
			Message: fmt.Sprintf("Product %q is low on stock: %d left (threshold %d).", event.Name, event.Stock, event.Threshold),
		}, true

	case domain.RoutingTransactionCreated:
		var event domain.TransactionCreatedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			log.Printf("Error unmarshaling transaction.recorded event: %v", err)
			return nil, false
		}
		return &domain.Notification{
			Topic:   domain.RoutingTransactionCreated,
			Message: fmt.Sprintf("Sale recorded: %d unit(s) of product %s.", event.Quantity, event.ProductID),
		}, true

	default:
		log.Printf("Ignoring event with unknown routing key: %s", routingKey)
		return nil, false
	}
}
