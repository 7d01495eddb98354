package model

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is one registered push destination for one user. The
// endpoint URL is unique across the system: re-registration from the same
// browser overwrites the existing row instead of duplicating it.
type PushSubscription struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Endpoint   string    `db:"endpoint" json:"endpoint"`
	P256dh     string    `db:"p256dh" json:"p256dh"`
	Auth       string    `db:"auth" json:"auth"`
	UserID     string    `db:"user_id" json:"user_id"`
	DeviceInfo string    `db:"device_info" json:"device_info,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// SubscriptionKeys carries the client's encryption key material as delivered
// by the browser's PushManager.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

// WebPushSubscription is the wire shape browsers post after registering.
type WebPushSubscription struct {
	Endpoint string           `json:"endpoint" binding:"required"`
	Keys     SubscriptionKeys `json:"keys" binding:"required"`
}
