package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := &Session{ID: "abc", UserID: 7, Email: "ana@cuidar.app", Role: "client"}
	require.NoError(t, store.Save(ctx, s, time.Hour))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "client", got.Role)

	require.NoError(t, store.Delete(ctx, "abc"))

	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, &Session{ID: "x", UserID: 1}, time.Minute))

	now = now.Add(2 * time.Minute)

	_, err := store.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, &Session{ID: "x", Role: "client"}, time.Hour))

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	got.Role = "admin"

	again, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "client", again.Role)
}
