package messaging

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/messaging"
	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

// loadForParticipant só devolve a conversa para um dos dois participantes.
func loadForParticipant(
	ctx context.Context,
	repo domain.Repository,
	conversationID uint,
	userID uint,
) (*models.Conversation, error) {

	conv, err := repo.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("conversation_not_found")
		}
		return nil, err
	}

	if !conv.HasParticipant(userID) {
		return nil, httperr.ErrBusiness("not_a_participant")
	}
	return conv, nil
}
