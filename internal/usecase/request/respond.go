package request

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/request"
	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/notify"
)

func loadForProfessional(
	ctx context.Context,
	repo domain.Repository,
	professionalID uint,
	requestID uint,
) (*models.ServiceRequest, error) {

	req, err := repo.GetRequestForProfessional(ctx, requestID, professionalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("request_not_found")
		}
		return nil, err
	}
	return req, nil
}

// ======================================================
// Accept
// ======================================================

type AcceptRequest struct {
	repo   domain.Repository
	audit  Auditor
	notify Notifier
	log    *slog.Logger
}

func NewAcceptRequest(
	repo domain.Repository,
	audit Auditor,
	notify Notifier,
	log *slog.Logger,
) *AcceptRequest {
	return &AcceptRequest{repo: repo, audit: audit, notify: notify, log: log}
}

func (uc *AcceptRequest) Execute(
	ctx context.Context,
	professionalID uint,
	requestID uint,
) (*TransitionResult, error) {

	req, err := loadForProfessional(ctx, uc.repo, professionalID, requestID)
	if err != nil {
		return nil, err
	}

	if err := domain.Accept(req, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveTransition(ctx, req, domain.StatusPending); err != nil {
		return nil, err
	}

	res := &TransitionResult{Request: req}
	ensureConversation(ctx, uc.repo, uc.log, res)

	auditTransition(uc.audit, professionalID, "request_accepted", res)
	notifyTransition(uc.notify, notify.EventRequestAccepted, req)

	return res, nil
}

// ======================================================
// Reject
// ======================================================

type RejectRequest struct {
	repo   domain.Repository
	audit  Auditor
	notify Notifier
}

func NewRejectRequest(
	repo domain.Repository,
	audit Auditor,
	notify Notifier,
) *RejectRequest {
	return &RejectRequest{repo: repo, audit: audit, notify: notify}
}

// Execute exige confirmação explícita; sem ela nada é lido nem gravado.
func (uc *RejectRequest) Execute(
	ctx context.Context,
	professionalID uint,
	requestID uint,
	confirm bool,
) (*TransitionResult, error) {

	if !confirm {
		return nil, httperr.ErrBusiness("confirmation_required")
	}

	req, err := loadForProfessional(ctx, uc.repo, professionalID, requestID)
	if err != nil {
		return nil, err
	}

	if err := domain.Reject(req, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveTransition(ctx, req, domain.StatusPending); err != nil {
		return nil, err
	}

	res := &TransitionResult{Request: req}

	auditTransition(uc.audit, professionalID, "request_rejected", res)
	notifyTransition(uc.notify, notify.EventRequestRejected, req)

	return res, nil
}

// ======================================================
// Complete
// ======================================================

type CompleteRequest struct {
	repo   domain.Repository
	audit  Auditor
	notify Notifier
}

func NewCompleteRequest(
	repo domain.Repository,
	audit Auditor,
	notify Notifier,
) *CompleteRequest {
	return &CompleteRequest{repo: repo, audit: audit, notify: notify}
}

func (uc *CompleteRequest) Execute(
	ctx context.Context,
	professionalID uint,
	requestID uint,
) (*TransitionResult, error) {

	req, err := loadForProfessional(ctx, uc.repo, professionalID, requestID)
	if err != nil {
		return nil, err
	}

	ap, err := domain.Complete(req, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := uc.repo.CompleteRequest(ctx, req, ap); err != nil {
		return nil, err
	}

	res := &TransitionResult{Request: req, Appointment: ap}

	auditTransition(uc.audit, professionalID, "request_completed", res)
	notifyTransition(uc.notify, notify.EventRequestCompleted, req)

	return res, nil
}
