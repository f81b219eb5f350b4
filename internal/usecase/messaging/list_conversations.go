package messaging

import (
	"context"
	"log/slog"

	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/messaging"
	"github.com/BruksfildServices01/care-marketplace/internal/logger"
)

type ConversationList struct {
	Conversations  []domain.ConversationSummary `json:"conversations"`
	PollIntervalMs int64                        `json:"poll_interval_ms"`
}

type ListConversations struct {
	repo domain.Repository
	log  *slog.Logger
}

func NewListConversations(repo domain.Repository, log *slog.Logger) *ListConversations {
	return &ListConversations{repo: repo, log: log}
}

// Execute é chamado a cada poll. Falha de leitura vira lista vazia; o
// próximo poll tenta de novo.
func (uc *ListConversations) Execute(
	ctx context.Context,
	userID uint,
	role string,
) *ConversationList {

	out := &ConversationList{
		Conversations:  []domain.ConversationSummary{},
		PollIntervalMs: domain.ConversationsPollInterval.Milliseconds(),
	}

	list, err := uc.repo.ListConversations(ctx, userID, role)
	if err != nil {
		uc.log.WarnContext(ctx, "conversation poll failed",
			slog.Uint64("user_id", uint64(userID)),
			logger.Err(err),
		)
		return out
	}

	out.Conversations = list
	return out
}
