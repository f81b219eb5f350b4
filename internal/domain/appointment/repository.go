package appointment

import (
	"context"

	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

type Repository interface {
	GetAppointmentForClient(
		ctx context.Context,
		appointmentID uint,
		clientID uint,
	) (*models.Appointment, error)

	// SaveRating grava a nota só se o atendimento ainda não tiver uma;
	// caso contrário devolve already_rated.
	SaveRating(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListForClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Appointment, error)

	ListForProfessional(
		ctx context.Context,
		professionalID uint,
	) ([]models.Appointment, error)
}
