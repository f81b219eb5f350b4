package request

import (
	"context"

	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

type Repository interface {
	// -------- Professional --------
	GetProfessionalByUserID(
		ctx context.Context,
		userID uint,
	) (*models.Professional, error)

	// -------- Request --------
	CreateRequest(
		ctx context.Context,
		r *models.ServiceRequest,
	) error

	GetRequestForProfessional(
		ctx context.Context,
		requestID uint,
		professionalID uint,
	) (*models.ServiceRequest, error)

	// SaveTransition grava o novo status apenas se o chamado ainda estiver
	// em from; caso contrário devolve invalid_state.
	SaveTransition(
		ctx context.Context,
		r *models.ServiceRequest,
		from Status,
	) error

	// CompleteRequest grava a transição e cria o atendimento na mesma
	// transação.
	CompleteRequest(
		ctx context.Context,
		r *models.ServiceRequest,
		ap *models.Appointment,
	) error

	ListForClient(
		ctx context.Context,
		clientID uint,
	) ([]models.ServiceRequest, error)

	ListForProfessional(
		ctx context.Context,
		professionalID uint,
	) ([]models.ServiceRequest, error)

	// -------- Conversation --------
	// EnsureConversation devolve a conversa do par, criando se preciso.
	// created indica se esta chamada inseriu a linha.
	EnsureConversation(
		ctx context.Context,
		clientID uint,
		professionalID uint,
		requestID uint,
	) (conv *models.Conversation, created bool, err error)
}
