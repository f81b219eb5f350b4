package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-marketplace/internal/logger"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

type Job struct {
	Event          Event
	RequestID      uint
	ClientID       uint
	ProfessionalID uint
	ServiceType    string
}

type Dispatcher struct {
	db     *gorm.DB
	mailer Mailer
	log    *slog.Logger
	queue  chan Job
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher com mailer nil devolve um dispatcher desligado: Dispatch
// só registra em debug.
func NewDispatcher(db *gorm.DB, mailer Mailer, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		db:     db,
		mailer: mailer,
		log:    log,
	}
	if mailer == nil {
		return d
	}

	d.queue = make(chan Job, 100)
	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for job := range d.queue {
		if err := d.handle(context.Background(), job); err != nil {
			d.log.Error("notification failed",
				slog.String("event", string(job.Event)),
				slog.Uint64("request_id", uint64(job.RequestID)),
				logger.Err(err),
			)
		}
	}
}

func (d *Dispatcher) Dispatch(job Job) {
	if d.queue == nil {
		d.log.Debug("notifications disabled", slog.String("event", string(job.Event)))
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("notify dispatcher closed, dropping", slog.String("event", string(job.Event)))
		return
	}

	select {
	case d.queue <- job:
	default:
		d.log.Warn("notification queue full, dropping", slog.String("event", string(job.Event)))
	}
}

func (d *Dispatcher) Close() {
	if d.queue == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) handle(ctx context.Context, job Job) error {
	recipientID, counterpartID := job.ClientID, job.ProfessionalID
	if recipientIsProfessional(job.Event) {
		recipientID, counterpartID = job.ProfessionalID, job.ClientID
	}

	var users []models.User
	if err := d.db.WithContext(ctx).
		Preload("Profile").
		Where("id IN ?", []uint{recipientID, counterpartID}).
		Find(&users).Error; err != nil {
		return err
	}

	var recipient, counterpart *models.User
	for i := range users {
		switch users[i].ID {
		case recipientID:
			recipient = &users[i]
		case counterpartID:
			counterpart = &users[i]
		}
	}
	if recipient == nil {
		return fmt.Errorf("recipient %d not found", recipientID)
	}

	subject, body := compose(job.Event, counterpart.DisplayName("Um usuário"), job.ServiceType)
	if subject == "" {
		return fmt.Errorf("unknown event %q", job.Event)
	}
	return d.mailer.Send(recipient.Email, subject, body)
}
