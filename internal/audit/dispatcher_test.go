package audit

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/care-marketplace/internal/logger"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/testutil"
)

func TestDispatcher_WritesAndDrains(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db, logger.Discard()), logger.Discard())

	userID := uint(3)
	entityID := uint(10)
	d.Dispatch(Event{
		UserID:   &userID,
		Action:   "request_accepted",
		Entity:   "service_request",
		EntityID: &entityID,
		Metadata: map[string]any{"conversation_created": false},
	})
	d.Close()

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "request_accepted", logs[0].Action)
	assert.JSONEq(t, `{"conversation_created": false}`, string(logs[0].Metadata))
}

func TestDispatcher_CloseTwice(t *testing.T) {
	d := NewDispatcher(New(testutil.NewDB(t), logger.Discard()), logger.Discard())
	d.Close()
	assert.NotPanics(t, d.Close)
}

func TestDispatcher_DispatchAfterClose(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db, logger.Discard()), logger.Discard())
	d.Close()

	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "request_completed", Entity: "service_request"})
	})

	var n int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestLogger_UnencodableMetadata(t *testing.T) {
	db := testutil.NewDB(t)
	var out bytes.Buffer
	l := New(db, slog.New(slog.NewTextHandler(&out, nil)))

	err := l.Log(context.Background(), Event{
		Action:   "plan_created",
		Entity:   "plan",
		Metadata: map[string]any{"canal": make(chan int)},
	})
	require.NoError(t, err)

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "plan_created", logs[0].Action)
	assert.Empty(t, logs[0].Metadata)

	assert.Contains(t, out.String(), "audit metadata dropped")
	assert.Contains(t, out.String(), "action=plan_created")
}
