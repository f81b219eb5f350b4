package request

import (
	"time"

	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Accept(r *models.ServiceRequest, now time.Time) error {
	if err := CanAccept(Status(r.Status)); err != nil {
		return err
	}

	r.Status = string(StatusAccepted)
	r.RespondedAt = &now
	return nil
}

func Reject(r *models.ServiceRequest, now time.Time) error {
	if err := CanReject(Status(r.Status)); err != nil {
		return err
	}

	r.Status = string(StatusRejected)
	r.RespondedAt = &now
	return nil
}

// Complete fecha o chamado e devolve o atendimento que será avaliado.
func Complete(r *models.ServiceRequest, now time.Time) (*models.Appointment, error) {
	if err := CanComplete(Status(r.Status)); err != nil {
		return nil, err
	}

	r.Status = string(StatusCompleted)
	r.CompletedAt = &now

	requestID := r.ID
	return &models.Appointment{
		ClientID:       r.ClientID,
		ProfessionalID: r.ProfessionalID,
		RequestID:      &requestID,
		CompletedAt:    now,
	}, nil
}
