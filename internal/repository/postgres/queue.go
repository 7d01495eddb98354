package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Augusto9237/dg-notas-sub001/internal/model"
)

func (r *queueRepository) Enqueue(ctx context.Context, n *model.QueuedNotification) error {
	query := `
		INSERT INTO queued_notifications (
			id, user_id, title, body, icon, badge, url, tag,
			delivered, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	n.ID = uuid.New()
	n.Delivered = false
	n.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.Title,
		n.Body,
		n.Icon,
		n.Badge,
		n.URL,
		n.Tag,
		n.Delivered,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

func (r *queueRepository) ListUndelivered(ctx context.Context, userID string, since time.Time) ([]*model.QueuedNotification, error) {
	query := `
		SELECT id, user_id, title, body, icon, badge, url, tag,
			   delivered, created_at
		FROM queued_notifications
		WHERE user_id = $1
		AND delivered = FALSE
		AND created_at >= $2
		ORDER BY created_at DESC
	`
	var items []*model.QueuedNotification
	err := r.db.SelectContext(ctx, &items, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list queued notifications: %w", err)
	}
	return items, nil
}

func (r *queueRepository) MarkDelivered(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	query := `
		UPDATE queued_notifications
		SET delivered = TRUE
		WHERE id = ANY($1::uuid[])
	`
	_, err := r.db.ExecContext(ctx, query, pq.Array(idStrs))
	if err != nil {
		return fmt.Errorf("failed to mark notifications delivered: %w", err)
	}
	return nil
}

func (r *queueRepository) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM queued_notifications
		WHERE delivered = TRUE
		OR created_at < $1
	`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup queued notifications: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
