package request

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/care-marketplace/internal/domain/messaging"
	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/request"
	"github.com/BruksfildServices01/care-marketplace/internal/dto"
)

// ContactNotAvailable substitui telefone ou cidade ausentes no perfil.
const ContactNotAvailable = "N/A"

type ListRequests struct {
	repo domain.Repository
}

func NewListRequests(repo domain.Repository) *ListRequests {
	return &ListRequests{repo: repo}
}

func (uc *ListRequests) ForClient(
	ctx context.Context,
	clientID uint,
) ([]dto.ClientRequestDTO, error) {

	list, err := uc.repo.ListForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ClientRequestDTO, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ClientRequestDTO{
			ID:               r.ID,
			ProfessionalID:   r.ProfessionalID,
			ProfessionalName: r.Professional.DisplayName(messaging.DefaultProfessionalName),
			ServiceType:      r.ServiceType,
			Notes:            r.Notes,
			Status:           r.Status,
			CreatedAt:        r.CreatedAt,
			RespondedAt:      r.RespondedAt,
		})
	}
	return out, nil
}

func (uc *ListRequests) ForProfessional(
	ctx context.Context,
	professionalID uint,
) ([]dto.ProfessionalRequestDTO, error) {

	list, err := uc.repo.ListForProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ProfessionalRequestDTO, 0, len(list))
	for _, r := range list {
		item := dto.ProfessionalRequestDTO{
			ID:          r.ID,
			ClientID:    r.ClientID,
			ClientName:  r.Client.DisplayName(messaging.DefaultClientName),
			ServiceType: r.ServiceType,
			Notes:       r.Notes,
			Status:      r.Status,
			CreatedAt:   r.CreatedAt,
			RespondedAt: r.RespondedAt,
			ClientPhone: ContactNotAvailable,
			ClientCity:  ContactNotAvailable,
		}
		if r.Client != nil && r.Client.Profile != nil {
			item.ClientPhone = orNotAvailable(r.Client.Profile.Phone)
			item.ClientCity = orNotAvailable(r.Client.Profile.City)
		}
		out = append(out, item)
	}
	return out, nil
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return ContactNotAvailable
	}
	return s
}
