package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Augusto9237/dg-notas-sub001/internal/model"
)

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *model.PushSubscription) (*model.PushSubscription, error) {
	query := `
		INSERT INTO push_subscriptions (
			id, endpoint, p256dh, auth, user_id, device_info,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (endpoint) DO UPDATE SET
			p256dh = EXCLUDED.p256dh,
			auth = EXCLUDED.auth,
			user_id = EXCLUDED.user_id,
			device_info = EXCLUDED.device_info,
			updated_at = EXCLUDED.updated_at
		RETURNING id, endpoint, p256dh, auth, user_id, device_info,
			created_at, updated_at
	`
	now := time.Now()

	var stored model.PushSubscription
	err := r.db.QueryRowxContext(ctx, query,
		uuid.New(),
		sub.Endpoint,
		sub.P256dh,
		sub.Auth,
		sub.UserID,
		sub.DeviceInfo,
		now,
		now,
	).StructScan(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return &stored, nil
}

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID string) ([]*model.PushSubscription, error) {
	query := `
		SELECT id, endpoint, p256dh, auth, user_id, device_info,
			   created_at, updated_at
		FROM push_subscriptions
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	var subs []*model.PushSubscription
	err := r.db.SelectContext(ctx, &subs, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func (r *subscriptionRepository) ListAll(ctx context.Context) ([]*model.PushSubscription, error) {
	query := `
		SELECT id, endpoint, p256dh, auth, user_id, device_info,
			   created_at, updated_at
		FROM push_subscriptions
		ORDER BY created_at ASC
	`
	var subs []*model.PushSubscription
	err := r.db.SelectContext(ctx, &subs, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all subscriptions: %w", err)
	}
	return subs, nil
}

func (r *subscriptionRepository) DeleteByEndpoints(ctx context.Context, endpoints []string) (int64, error) {
	if len(endpoints) == 0 {
		return 0, nil
	}

	query := `
		DELETE FROM push_subscriptions
		WHERE endpoint = ANY($1)
	`
	result, err := r.db.ExecContext(ctx, query, pq.Array(endpoints))
	if err != nil {
		return 0, fmt.Errorf("failed to delete subscriptions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
