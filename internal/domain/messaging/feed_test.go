package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSince(t *testing.T) {
	since := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, since, NextSince(nil, since))

	msgs := []ThreadMessage{
		{ID: 1, CreatedAt: since.Add(time.Second)},
		{ID: 2, CreatedAt: since.Add(2 * time.Second)},
	}
	assert.Equal(t, since.Add(2*time.Second), NextSince(msgs, since))
}

func TestCursor_StrictWithoutAfterID(t *testing.T) {
	since := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := Cursor{Since: since}

	assert.Equal(t, since, c.ReadFrom())
	msgs := []ThreadMessage{{ID: 1, CreatedAt: since.Add(time.Second)}}
	assert.Equal(t, msgs, c.Unseen(msgs))
}

func TestCursor_LateCommitInsideOverlap(t *testing.T) {
	since := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := Cursor{Since: since, AfterID: 7}

	assert.Equal(t, since.Add(-FeedOverlap), c.ReadFrom())

	window := []ThreadMessage{
		{ID: 6, CreatedAt: since.Add(-time.Second)},
		{ID: 8, CreatedAt: since.Add(-500 * time.Millisecond)},
		{ID: 7, CreatedAt: since},
		{ID: 9, CreatedAt: since.Add(time.Second)},
	}

	unseen := c.Unseen(window)
	require.Len(t, unseen, 2)
	assert.Equal(t, uint(8), unseen[0].ID)
	assert.Equal(t, uint(9), unseen[1].ID)

	next := c.Next(unseen)
	assert.Equal(t, since.Add(time.Second), next.Since)
	assert.Equal(t, uint(9), next.AfterID)
}

func TestCursor_NextNeverMovesBack(t *testing.T) {
	since := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := Cursor{Since: since, AfterID: 7}

	next := c.Next([]ThreadMessage{{ID: 8, CreatedAt: since.Add(-time.Second)}})
	assert.Equal(t, since, next.Since)
	assert.Equal(t, uint(8), next.AfterID)

	assert.Equal(t, c, c.Next(nil))
}
