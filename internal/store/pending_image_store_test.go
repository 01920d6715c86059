package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/urbanhomes/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestPendingImageStoreCreate(t *testing.T) {
	s := NewPendingImageStore(openTestDB(t))
	ctx := context.Background()

	img, err := s.Create(ctx, "prop-1", "staging/prop-1/a.jpg", "front.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.NotZero(t, img.ID)
	assert.Equal(t, "prop-1", img.PropertyID)
	assert.Equal(t, "staging/prop-1/a.jpg", img.StorageKey)
	assert.Equal(t, "front.jpg", img.Filename)
	assert.Equal(t, "image/jpeg", img.MimeType)
	assert.Zero(t, img.Attempts)
	assert.Empty(t, img.LastError)
	assert.False(t, img.CreatedAt.IsZero())
}

func TestPendingImageStoreGetByIDNotFound(t *testing.T) {
	s := NewPendingImageStore(openTestDB(t))

	img, err := s.GetByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestPendingImageStoreListByProperty(t *testing.T) {
	s := NewPendingImageStore(openTestDB(t))
	ctx := context.Background()

	_, err := s.Create(ctx, "prop-1", "k1", "a.jpg", "image/jpeg")
	require.NoError(t, err)
	_, err = s.Create(ctx, "prop-2", "k2", "b.jpg", "image/jpeg")
	require.NoError(t, err)
	_, err = s.Create(ctx, "prop-1", "k3", "c.png", "image/png")
	require.NoError(t, err)

	images, err := s.ListByProperty(ctx, "prop-1")
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "k1", images[0].StorageKey)
	assert.Equal(t, "k3", images[1].StorageKey)

	counts, err := s.CountByProperty(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"prop-1": 2, "prop-2": 1}, counts)
}

func TestPendingImageStoreRecordFailure(t *testing.T) {
	s := NewPendingImageStore(openTestDB(t))
	ctx := context.Background()

	img, err := s.Create(ctx, "prop-1", "k1", "a.jpg", "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, s.RecordFailure(ctx, img.ID, "backend unavailable"))
	require.NoError(t, s.RecordFailure(ctx, img.ID, "still unavailable"))

	got, err := s.GetByID(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Attempts)
	assert.Equal(t, "still unavailable", got.LastError)

	assert.ErrorIs(t, s.RecordFailure(ctx, 12345, "x"), ErrNotFound)
}

func TestPendingImageStoreDelete(t *testing.T) {
	s := NewPendingImageStore(openTestDB(t))
	ctx := context.Background()

	img, err := s.Create(ctx, "prop-1", "k1", "a.jpg", "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, img.ID))
	assert.ErrorIs(t, s.Delete(ctx, img.ID), ErrNotFound)

	_, err = s.Create(ctx, "prop-2", "k2", "a.jpg", "image/jpeg")
	require.NoError(t, err)
	_, err = s.Create(ctx, "prop-2", "k3", "b.jpg", "image/jpeg")
	require.NoError(t, err)
	require.NoError(t, s.DeleteByProperty(ctx, "prop-2"))

	images, err := s.ListByProperty(ctx, "prop-2")
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestPendingImageStoreListOlderThan(t *testing.T) {
	s := NewPendingImageStore(openTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	_, err := s.Create(ctx, "prop-1", "old", "a.jpg", "image/jpeg")
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(48 * time.Hour) }
	_, err = s.Create(ctx, "prop-1", "new", "b.jpg", "image/jpeg")
	require.NoError(t, err)

	stale, err := s.ListOlderThan(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "old", stale[0].StorageKey)
}
