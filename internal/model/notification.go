package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPayload is the transient notification content produced by a
// business event. It is never persisted as-is; the fallback queue copies it
// field by field into a QueuedNotification.
type NotificationPayload struct {
	Title              string `json:"title" binding:"required"`
	Body               string `json:"body,omitempty"`
	Icon               string `json:"icon,omitempty"`
	Badge              string `json:"badge,omitempty"`
	URL                string `json:"url,omitempty"`
	Tag                string `json:"tag,omitempty"`
	RequireInteraction bool   `json:"requireInteraction,omitempty"`
}

// QueuedNotification is one pending polling-fallback item. The only permitted
// mutation is the one-way transition delivered: false -> true.
type QueuedNotification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body,omitempty"`
	Icon      string    `db:"icon" json:"icon,omitempty"`
	Badge     string    `db:"badge" json:"badge,omitempty"`
	URL       string    `db:"url" json:"url,omitempty"`
	Tag       string    `db:"tag" json:"tag,omitempty"`
	Delivered bool      `db:"delivered" json:"delivered"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
