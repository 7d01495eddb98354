package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// DispatchEvent is published on the notifications.dispatched channel after
// every push fanout so other services can observe delivery activity.
type DispatchEvent struct {
	UserID           string   `json:"user_id,omitempty"`
	SuccessCount     int      `json:"success_count"`
	FailureCount     int      `json:"failure_count"`
	InvalidEndpoints []string `json:"invalid_endpoints,omitempty"`
	TotalTargets     int      `json:"total_targets"`
}

// ChannelDispatched is the channel DispatchEvents are published on.
const ChannelDispatched = "notifications.dispatched"
