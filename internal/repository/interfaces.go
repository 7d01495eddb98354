package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Augusto9237/dg-notas-sub001/internal/model"
)

// All repository interfaces in one file
type (
	// SubscriptionRepository owns the push-endpoint registry. One user has
	// many endpoints; the endpoint URL is the natural key.
	SubscriptionRepository interface {
		Upsert(ctx context.Context, sub *model.PushSubscription) (*model.PushSubscription, error)
		ListByUser(ctx context.Context, userID string) ([]*model.PushSubscription, error)
		ListAll(ctx context.Context) ([]*model.PushSubscription, error)
		DeleteByEndpoints(ctx context.Context, endpoints []string) (int64, error)
	}

	// QueueRepository backs the polling fallback mailbox.
	QueueRepository interface {
		Enqueue(ctx context.Context, n *model.QueuedNotification) error
		ListUndelivered(ctx context.Context, userID string, since time.Time) ([]*model.QueuedNotification, error)
		MarkDelivered(ctx context.Context, ids []uuid.UUID) error
		Cleanup(ctx context.Context, before time.Time) (int64, error)
	}
)
