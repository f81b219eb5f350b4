// Package jobs agenda tarefas periódicas com cron.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-marketplace/internal/logger"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

type StatsSink interface {
	SetUsers(role string, n int64)
	SetRequests(status string, n int64)
	SetActiveProfessionals(n int64)
}

// StatsJob recalcula os gauges do marketplace a partir do banco.
type StatsJob struct {
	db   *gorm.DB
	sink StatsSink
	log  *slog.Logger
}

func NewStatsJob(db *gorm.DB, sink StatsSink, log *slog.Logger) *StatsJob {
	return &StatsJob{db: db, sink: sink, log: log}
}

type groupCount struct {
	Name  string
	Total int64
}

func (j *StatsJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var users []groupCount
	if err := j.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role AS name, COUNT(*) AS total").
		Group("role").
		Scan(&users).Error; err != nil {
		return err
	}

	roles := map[string]int64{models.RoleAdmin: 0, models.RoleProfessional: 0, models.RoleClient: 0}
	for _, u := range users {
		roles[u.Name] = u.Total
	}
	for role, n := range roles {
		j.sink.SetUsers(role, n)
	}

	var requests []groupCount
	if err := j.db.WithContext(ctx).
		Model(&models.ServiceRequest{}).
		Select("status AS name, COUNT(*) AS total").
		Group("status").
		Scan(&requests).Error; err != nil {
		return err
	}

	statuses := map[string]int64{"pending": 0, "accepted": 0, "rejected": 0, "completed": 0}
	for _, r := range requests {
		statuses[r.Name] = r.Total
	}
	for status, n := range statuses {
		j.sink.SetRequests(status, n)
	}

	var active int64
	if err := j.db.WithContext(ctx).
		Model(&models.Professional{}).
		Where("status = ?", models.ProfessionalActive).
		Count(&active).Error; err != nil {
		return err
	}
	j.sink.SetActiveProfessionals(active)

	return nil
}

// Schedule registra o job no cron e roda uma vez na subida.
func Schedule(c *cron.Cron, spec string, job *StatsJob) error {
	run := func() {
		if err := job.Run(context.Background()); err != nil {
			job.log.Error("stats job failed", logger.Err(err))
		}
	}

	if _, err := c.AddFunc(spec, run); err != nil {
		return err
	}

	go run()
	return nil
}
