package fallback

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Augusto9237/dg-notas-sub001/internal/model"
	"github.com/Augusto9237/dg-notas-sub001/pkg/logger"
	"github.com/Augusto9237/dg-notas-sub001/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("fallback_test")

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

type fakeQueueRepo struct {
	enqueued  []*model.QueuedNotification
	items     []*model.QueuedNotification
	marked    [][]uuid.UUID
	lastSince time.Time
	cleanedAt time.Time
	err       error
}

func (f *fakeQueueRepo) Enqueue(_ context.Context, n *model.QueuedNotification) error {
	if f.err != nil {
		return f.err
	}
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	f.enqueued = append(f.enqueued, n)
	return nil
}

func (f *fakeQueueRepo) ListUndelivered(_ context.Context, _ string, since time.Time) ([]*model.QueuedNotification, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastSince = since
	return f.items, nil
}

func (f *fakeQueueRepo) MarkDelivered(_ context.Context, ids []uuid.UUID) error {
	f.marked = append(f.marked, ids)
	return f.err
}

func (f *fakeQueueRepo) Cleanup(_ context.Context, before time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.cleanedAt = before
	return 2, nil
}

func TestEnqueue_CopiesPayload(t *testing.T) {
	repo := &fakeQueueRepo{}
	svc := NewService(repo, testLogger(), testMetrics)

	payload := &model.NotificationPayload{
		Title: "Nova redação corrigida",
		Body:  "Sua nota está disponível",
		Icon:  "/icon.png",
		URL:   "/redacoes/42",
		Tag:   "essay-42",
	}
	n, err := svc.Enqueue(context.Background(), "user-1", payload)

	require.NoError(t, err)
	require.Len(t, repo.enqueued, 1)
	assert.Equal(t, "user-1", n.UserID)
	assert.Equal(t, payload.Title, n.Title)
	assert.Equal(t, payload.Body, n.Body)
	assert.Equal(t, payload.URL, n.URL)
	assert.Equal(t, payload.Tag, n.Tag)
	assert.False(t, n.Delivered)
}

func TestEnqueue_RepositoryError(t *testing.T) {
	repoErr := errors.New("connection refused")
	svc := NewService(&fakeQueueRepo{err: repoErr}, testLogger(), testMetrics)

	_, err := svc.Enqueue(context.Background(), "user-1", &model.NotificationPayload{Title: "x"})

	assert.ErrorIs(t, err, repoErr)
}

func TestDrain_DefaultsMaxAge(t *testing.T) {
	repo := &fakeQueueRepo{}
	svc := NewService(repo, testLogger(), testMetrics)

	_, err := svc.Drain(context.Background(), "user-1", 0)

	require.NoError(t, err)
	cutoff := time.Now().Add(-DefaultDrainMaxAge)
	assert.WithinDuration(t, cutoff, repo.lastSince, time.Second)
}

func TestDrain_ReturnsItems(t *testing.T) {
	items := []*model.QueuedNotification{
		{ID: uuid.New(), UserID: "user-1", Title: "b"},
		{ID: uuid.New(), UserID: "user-1", Title: "a"},
	}
	repo := &fakeQueueRepo{items: items}
	svc := NewService(repo, testLogger(), testMetrics)

	got, err := svc.Drain(context.Background(), "user-1", 5*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.WithinDuration(t, time.Now().Add(-5*time.Minute), repo.lastSince, time.Second)
}

func TestMarkDelivered_EmptyIsNoop(t *testing.T) {
	repo := &fakeQueueRepo{}
	svc := NewService(repo, testLogger(), testMetrics)

	require.NoError(t, svc.MarkDelivered(context.Background(), nil))
	assert.Empty(t, repo.marked, "no storage call for an empty id list")
}

func TestMarkDelivered_PassesIDs(t *testing.T) {
	repo := &fakeQueueRepo{}
	svc := NewService(repo, testLogger(), testMetrics)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	require.NoError(t, svc.MarkDelivered(context.Background(), ids))
	require.Len(t, repo.marked, 1)
	assert.Equal(t, ids, repo.marked[0])
}

func TestCleanup_DefaultsRetention(t *testing.T) {
	repo := &fakeQueueRepo{}
	svc := NewService(repo, testLogger(), testMetrics)

	removed, err := svc.Cleanup(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.WithinDuration(t, time.Now().Add(-DefaultRetention), repo.cleanedAt, time.Second)
}
