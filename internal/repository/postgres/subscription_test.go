package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Augusto9237/dg-notas-sub001/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func subscriptionColumns() []string {
	return []string{"id", "endpoint", "p256dh", "auth", "user_id", "device_info", "created_at", "updated_at"}
}

func TestSubscriptionRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionRepository(db)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery("INSERT INTO push_subscriptions").
		WithArgs(sqlmock.AnyArg(), "https://push.example/a", "p256dh-key", "auth-key", "user-1", "Mozilla/5.0", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(subscriptionColumns()).
			AddRow(id, "https://push.example/a", "p256dh-key", "auth-key", "user-1", "Mozilla/5.0", now, now))

	stored, err := repo.Upsert(context.Background(), &model.PushSubscription{
		Endpoint:   "https://push.example/a",
		P256dh:     "p256dh-key",
		Auth:       "auth-key",
		UserID:     "user-1",
		DeviceInfo: "Mozilla/5.0",
	})

	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)
	assert.Equal(t, "https://push.example/a", stored.Endpoint)
	assert.Equal(t, "user-1", stored.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_Upsert_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionRepository(db)

	mock.ExpectQuery("INSERT INTO push_subscriptions").
		WillReturnError(assert.AnError)

	_, err := repo.Upsert(context.Background(), &model.PushSubscription{Endpoint: "https://push.example/a"})

	assert.ErrorContains(t, err, "failed to upsert subscription")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM push_subscriptions").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(subscriptionColumns()).
			AddRow(uuid.New(), "https://push.example/a", "p1", "a1", "user-1", "", now.Add(-time.Hour), now).
			AddRow(uuid.New(), "https://push.example/b", "p2", "a2", "user-1", "", now, now))

	subs, err := repo.ListByUser(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "https://push.example/a", subs[0].Endpoint)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_ListByUser_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM push_subscriptions").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(subscriptionColumns()))

	subs, err := repo.ListByUser(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Empty(t, subs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_DeleteByEndpoints(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionRepository(db)

	endpoints := []string{"https://push.example/a", "https://push.example/b"}
	mock.ExpectExec("DELETE FROM push_subscriptions").
		WithArgs(pq.Array(endpoints)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	removed, err := repo.DeleteByEndpoints(context.Background(), endpoints)

	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_DeleteByEndpoints_EmptySkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionRepository(db)

	removed, err := repo.DeleteByEndpoints(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}
