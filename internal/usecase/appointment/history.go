package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/appointment"
	"github.com/BruksfildServices01/care-marketplace/internal/domain/messaging"
	"github.com/BruksfildServices01/care-marketplace/internal/dto"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

type ListHistory struct {
	repo domain.Repository
}

func NewListHistory(repo domain.Repository) *ListHistory {
	return &ListHistory{repo: repo}
}

// ForClient lista os atendimentos do cliente, o mais recente primeiro.
func (uc *ListHistory) ForClient(
	ctx context.Context,
	clientID uint,
) ([]dto.AppointmentHistoryDTO, error) {

	apps, err := uc.repo.ListForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentHistoryDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, toHistory(ap, ap.ProfessionalID, ap.Professional.DisplayName(messaging.DefaultProfessionalName)))
	}
	return out, nil
}

func (uc *ListHistory) ForProfessional(
	ctx context.Context,
	professionalID uint,
) ([]dto.AppointmentHistoryDTO, error) {

	apps, err := uc.repo.ListForProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentHistoryDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, toHistory(ap, ap.ClientID, ap.Client.DisplayName(messaging.DefaultClientName)))
	}
	return out, nil
}

func toHistory(ap models.Appointment, counterpartID uint, name string) dto.AppointmentHistoryDTO {
	return dto.AppointmentHistoryDTO{
		ID:              ap.ID,
		RequestID:       ap.RequestID,
		CounterpartID:   counterpartID,
		CounterpartName: name,
		CompletedAt:     ap.CompletedAt,
		Rating:          ap.Rating,
		ReviewComment:   ap.ReviewComment,
	}
}
