// Package fallback is the durable per-user mailbox for browsers whose push
// handlers fire unreliably. Clients drain it by polling; delivery through it
// is at-most-once best-effort.
package fallback

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Augusto9237/dg-notas-sub001/internal/model"
	"github.com/Augusto9237/dg-notas-sub001/internal/repository"
	"github.com/Augusto9237/dg-notas-sub001/pkg/logger"
	"github.com/Augusto9237/dg-notas-sub001/pkg/metrics"
)

const (
	DefaultDrainMaxAge = time.Minute
	DefaultRetention   = time.Hour
)

type Service struct {
	queue   repository.QueueRepository
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(queue repository.QueueRepository, logger *logger.Logger, metrics *metrics.Metrics) *Service {
	return &Service{
		queue:   queue,
		logger:  logger,
		metrics: metrics,
	}
}

// Enqueue appends one undelivered item for the user. Called alongside, never
// instead of, the push fanout for the same event.
func (s *Service) Enqueue(ctx context.Context, userID string, payload *model.NotificationPayload) (*model.QueuedNotification, error) {
	n := &model.QueuedNotification{
		UserID: userID,
		Title:  payload.Title,
		Body:   payload.Body,
		Icon:   payload.Icon,
		Badge:  payload.Badge,
		URL:    payload.URL,
		Tag:    payload.Tag,
	}
	if err := s.queue.Enqueue(ctx, n); err != nil {
		return nil, err
	}
	s.metrics.QueueEnqueued.Inc()
	return n, nil
}

// Drain returns the user's undelivered items no older than maxAge, newest
// first. Pure read; delivery marking is a separate call.
func (s *Service) Drain(ctx context.Context, userID string, maxAge time.Duration) ([]*model.QueuedNotification, error) {
	if maxAge <= 0 {
		maxAge = DefaultDrainMaxAge
	}
	items, err := s.queue.ListUndelivered(ctx, userID, time.Now().Add(-maxAge))
	if err != nil {
		return nil, err
	}
	s.metrics.QueueDrained.Add(float64(len(items)))
	return items, nil
}

// MarkDelivered flips the given items to delivered. One-way and idempotent;
// a no-op on empty input.
func (s *Service) MarkDelivered(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.queue.MarkDelivered(ctx, ids)
}

// Cleanup deletes everything already delivered plus everything older than
// maxAge, regardless of delivered state. Runs on a schedule external to this
// service.
func (s *Service) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		maxAge = DefaultRetention
	}
	removed, err := s.queue.Cleanup(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.metrics.QueueCleaned.Add(float64(removed))
		s.logger.Info("cleaned up queued notifications", "count", removed)
	}
	return removed, nil
}
