package request

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/request"
	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/notify"
	"github.com/BruksfildServices01/care-marketplace/internal/security"
)

type CreateRequest struct {
	repo      domain.Repository
	audit     Auditor
	notify    Notifier
	sanitizer *security.Sanitizer
	log       *slog.Logger
}

func NewCreateRequest(
	repo domain.Repository,
	audit Auditor,
	notify Notifier,
	sanitizer *security.Sanitizer,
	log *slog.Logger,
) *CreateRequest {
	return &CreateRequest{
		repo:      repo,
		audit:     audit,
		notify:    notify,
		sanitizer: sanitizer,
		log:       log,
	}
}

type CreateRequestInput struct {
	ClientID       uint
	ProfessionalID uint
	ServiceType    string
	Notes          string
}

func (uc *CreateRequest) Execute(
	ctx context.Context,
	in CreateRequestInput,
) (*TransitionResult, error) {

	if !domain.IsValidServiceType(in.ServiceType) {
		return nil, httperr.ErrBusiness("invalid_service_type")
	}

	notes, err := uc.sanitizer.Text(in.Notes)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_content")
	}

	prof, err := uc.repo.GetProfessionalByUserID(ctx, in.ProfessionalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("professional_not_found")
		}
		return nil, err
	}
	if prof.Status != models.ProfessionalActive {
		return nil, httperr.ErrBusiness("professional_inactive")
	}

	req := &models.ServiceRequest{
		ClientID:       in.ClientID,
		ProfessionalID: in.ProfessionalID,
		ServiceType:    in.ServiceType,
		Notes:          notes,
		Status:         string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	res := &TransitionResult{Request: req}
	ensureConversation(ctx, uc.repo, uc.log, res)

	auditTransition(uc.audit, in.ClientID, "request_created", res)
	notifyTransition(uc.notify, notify.EventRequestCreated, req)

	return res, nil
}
