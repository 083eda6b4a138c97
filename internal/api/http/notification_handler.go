package http

import (
	"net/http"
	"strconv"

	"mewayz-backend/internal/service"

	"github.com/gorilla/mux"
)

// NotificationHandler exposes the activity feed.
type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	notifications, total, err := h.notifications.GetNotifications(r.Context(), userID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"total":         total,
	})
}

func (h *NotificationHandler) HandleMarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	notificationID, ok := pathID(w, r, "notification_id")
	if !ok {
		return
	}

	if err := h.notifications.MarkAsRead(r.Context(), userID, notificationID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterNotificationRoutes mounts the notification endpoints on the
// authenticated subrouter.
func RegisterNotificationRoutes(authed *mux.Router, notifications service.NotificationService) {
	handler := NewNotificationHandler(notifications)
	authed.HandleFunc("/notifications", handler.HandleList).Methods("GET")
	authed.HandleFunc("/notifications/{notification_id}/read", handler.HandleMarkAsRead).Methods("POST")
}
