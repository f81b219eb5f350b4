package request

import (
	"context"
	"log/slog"

	"github.com/BruksfildServices01/care-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/request"
	"github.com/BruksfildServices01/care-marketplace/internal/logger"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/notify"
)

const WarningConversationNotCreated = "conversation_not_created"

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Notifier interface {
	Dispatch(job notify.Job)
}

// TransitionResult descreve o que foi gravado numa transição. O chamado
// pode ter sido salvo mesmo quando a conversa falhou; ConversationErr
// carrega essa falha parcial.
type TransitionResult struct {
	Request             *models.ServiceRequest `json:"request"`
	Conversation        *models.Conversation   `json:"conversation,omitempty"`
	ConversationCreated bool                   `json:"conversation_created"`
	Appointment         *models.Appointment    `json:"appointment,omitempty"`
	ConversationErr     error                  `json:"-"`
}

func (r *TransitionResult) Warnings() []string {
	if r.ConversationErr != nil {
		return []string{WarningConversationNotCreated}
	}
	return nil
}

// ensureConversation liga o chamado à conversa do par. Falha aqui não
// desfaz o chamado já gravado.
func ensureConversation(
	ctx context.Context,
	repo domain.Repository,
	log *slog.Logger,
	res *TransitionResult,
) {
	req := res.Request

	conv, created, err := repo.EnsureConversation(ctx, req.ClientID, req.ProfessionalID, req.ID)
	if err != nil {
		log.WarnContext(ctx, "conversation not ensured",
			slog.Uint64("request_id", uint64(req.ID)),
			logger.Err(err),
		)
		res.ConversationErr = err
		return
	}

	res.Conversation = conv
	res.ConversationCreated = created
}

func auditTransition(a Auditor, userID uint, action string, res *TransitionResult) {
	meta := map[string]any{
		"status":               res.Request.Status,
		"conversation_created": res.ConversationCreated,
	}
	if res.ConversationErr != nil {
		meta["conversation_error"] = res.ConversationErr.Error()
	}

	a.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   "service_request",
		EntityID: &res.Request.ID,
		Metadata: meta,
	})
}

func notifyTransition(n Notifier, ev notify.Event, req *models.ServiceRequest) {
	n.Dispatch(notify.Job{
		Event:          ev,
		RequestID:      req.ID,
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		ServiceType:    req.ServiceType,
	})
}
