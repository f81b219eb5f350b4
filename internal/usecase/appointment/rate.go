package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/appointment"
	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/security"
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

type RateAppointment struct {
	repo      domain.Repository
	audit     Auditor
	sanitizer *security.Sanitizer
}

func NewRateAppointment(
	repo domain.Repository,
	audit Auditor,
	sanitizer *security.Sanitizer,
) *RateAppointment {
	return &RateAppointment{
		repo:      repo,
		audit:     audit,
		sanitizer: sanitizer,
	}
}

func (uc *RateAppointment) Execute(
	ctx context.Context,
	clientID uint,
	appointmentID uint,
	rating int,
	comment string,
) (*models.Appointment, error) {

	if err := domain.ValidateRating(rating); err != nil {
		return nil, err
	}

	text, err := uc.sanitizer.Text(comment)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_content")
	}

	ap, err := uc.repo.GetAppointmentForClient(ctx, appointmentID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}

	if err := domain.Rate(ap, rating, text); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveRating(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &clientID,
		Action:   "appointment_rated",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"rating": rating},
	})

	return ap, nil
}
