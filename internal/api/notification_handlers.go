package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/stockwise/stockwise-backend/internal/store"
)

// NotificationHandler serves read access to persisted notifications.
type NotificationHandler struct {
	repo store.NotificationRepository
}

// NewNotificationHandler creates a new handler for the notification endpoints.
func NewNotificationHandler(repo store.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

// HandleList returns notifications, optionally scoped with ?recipient= and
// ?unread=true.
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.repo.ListNotifications(r.Context(), r.URL.Query().Get("recipient"), unreadOnly, limit)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

// HandleMarkRead flags one notification as read.
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	updated, err := h.repo.MarkRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !updated {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "read"})
}
