package domain

import "time"

// Notification is an activity-feed entry shown on the dashboard, emitted on
// invitation lifecycle events and membership changes.
type Notification struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	WorkspaceID int64             `json:"workspace_id"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	IsRead      bool              `json:"is_read"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
