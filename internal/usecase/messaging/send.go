package messaging

import (
	"context"

	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/messaging"
	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/security"
)

type SendMessage struct {
	repo      domain.Repository
	sanitizer *security.Sanitizer
}

func NewSendMessage(repo domain.Repository, sanitizer *security.Sanitizer) *SendMessage {
	return &SendMessage{repo: repo, sanitizer: sanitizer}
}

func (uc *SendMessage) Execute(
	ctx context.Context,
	conversationID uint,
	senderID uint,
	content string,
) (*models.Message, error) {

	text, err := uc.sanitizer.Text(content)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_content")
	}
	if text == "" {
		return nil, httperr.ErrBusiness("empty_message")
	}

	if _, err := loadForParticipant(ctx, uc.repo, conversationID, senderID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        text,
		MessageType:    models.MessageTypeText,
		Read:           false,
	}

	if err := uc.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

type MarkRead struct {
	repo domain.Repository
}

func NewMarkRead(repo domain.Repository) *MarkRead {
	return &MarkRead{repo: repo}
}

// Execute marca como lidas as mensagens recebidas pelo leitor.
func (uc *MarkRead) Execute(
	ctx context.Context,
	conversationID uint,
	readerID uint,
) (int64, error) {

	if _, err := loadForParticipant(ctx, uc.repo, conversationID, readerID); err != nil {
		return 0, err
	}
	return uc.repo.MarkRead(ctx, conversationID, readerID)
}
