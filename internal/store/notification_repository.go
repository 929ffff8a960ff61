package store

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stockwise/stockwise-backend/internal/domain"
)

// NotificationRepository defines the interface for notification storage.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *domain.Notification) (string, error)
	ListNotifications(ctx context.Context, recipient string, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) (bool, error)
}

// PostgresNotificationRepository is the PostgreSQL implementation of the
// NotificationRepository.
type PostgresNotificationRepository struct {
	db *pgxpool.Pool
}

// NewPostgresNotificationRepository creates a new instance of PostgresNotificationRepository.
func NewPostgresNotificationRepository(db *pgxpool.Pool) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// CreateNotification persists one notification record and returns its ID.
func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, n *domain.Notification) (string, error) {
	id := n.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := `
        INSERT INTO notifications (id, topic, message, recipient, read)
        VALUES ($1, $2, $3, $4, FALSE)
    `
	if _, err := r.db.Exec(ctx, query, id, n.Topic, n.Message, n.Recipient); err != nil {
		log.Printf("Error inserting notification into database: %v", err)
		return "", err
	}
	return id, nil
}

// ListNotifications returns notifications, newest first, optionally scoped to
// a recipient and to unread records.
func (r *PostgresNotificationRepository) ListNotifications(ctx context.Context, recipient string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `
        SELECT id, topic, message, COALESCE(recipient, ''), read, created_at
        FROM notifications
        WHERE ($1 = '' OR recipient = $1)
          AND (NOT $2 OR read = FALSE)
        ORDER BY created_at DESC
        LIMIT $3
    `
	rows, err := r.db.Query(ctx, query, recipient, unreadOnly, limit)
	if err != nil {
		log.Printf("Error listing notifications: %v", err)
		return nil, err
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.Topic, &n.Message, &n.Recipient, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flags one notification as read and reports whether it existed.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		log.Printf("Error marking notification read: %v", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
