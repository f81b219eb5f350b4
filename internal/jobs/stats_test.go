package jobs

import (
	"context"
	"sync"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/care-marketplace/internal/logger"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/testutil"
)

type fakeSink struct {
	mu       sync.Mutex
	users    map[string]int64
	requests map[string]int64
	active   int64
}

func newFakeSink() *fakeSink {
	return &fakeSink{users: map[string]int64{}, requests: map[string]int64{}}
}

func (f *fakeSink) SetUsers(role string, n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[role] = n
}

func (f *fakeSink) SetRequests(status string, n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[status] = n
}

func (f *fakeSink) SetActiveProfessionals(n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = n
}

func TestStatsJob_Run(t *testing.T) {
	db := testutil.NewDB(t)
	client := testutil.CreateUser(t, db, "c1@cuidar.app", "senha123", models.RoleClient, "C1")
	testutil.CreateUser(t, db, "c2@cuidar.app", "senha123", models.RoleClient, "C2")
	prof, _ := testutil.CreateProfessional(t, db, "p@cuidar.app", "P", "Enfermagem")

	require.NoError(t, db.Create(&models.ServiceRequest{
		ClientID: client.ID, ProfessionalID: prof.ID, ServiceType: "message", Status: "pending",
	}).Error)

	sink := newFakeSink()
	require.NoError(t, NewStatsJob(db, sink, logger.Discard()).Run(context.Background()))

	assert.Equal(t, int64(2), sink.users[models.RoleClient])
	assert.Equal(t, int64(1), sink.users[models.RoleProfessional])
	assert.Equal(t, int64(0), sink.users[models.RoleAdmin])
	assert.Equal(t, int64(1), sink.requests["pending"])
	assert.Equal(t, int64(0), sink.requests["completed"])
	assert.Equal(t, int64(1), sink.active)
}

func TestSchedule_InvalidSpec(t *testing.T) {
	c := cron.New()
	err := Schedule(c, "@cada-minuto", NewStatsJob(nil, newFakeSink(), logger.Discard()))
	assert.Error(t, err)
}
