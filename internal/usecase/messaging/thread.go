package messaging

import (
	"context"
	"log/slog"
	"time"

	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/messaging"
	"github.com/BruksfildServices01/care-marketplace/internal/logger"
)

type ThreadPage struct {
	ConversationID uint                   `json:"conversation_id"`
	Messages       []domain.ThreadMessage `json:"messages"`
	NextSince      time.Time              `json:"next_since"`
	NextAfterID    uint                   `json:"next_after_id"`
	PollIntervalMs int64                  `json:"poll_interval_ms"`
}

type FetchThread struct {
	repo domain.Repository
	log  *slog.Logger
}

func NewFetchThread(repo domain.Repository, log *slog.Logger) *FetchThread {
	return &FetchThread{repo: repo, log: log}
}

// Execute devolve as mensagens que o leitor ainda não recebeu a partir do
// cursor. Acesso negado continua sendo erro; falha de leitura do feed vira
// página vazia.
func (uc *FetchThread) Execute(
	ctx context.Context,
	conversationID uint,
	userID uint,
	cursor domain.Cursor,
) (*ThreadPage, error) {

	page := &ThreadPage{
		ConversationID: conversationID,
		Messages:       []domain.ThreadMessage{},
		NextSince:      cursor.Since,
		NextAfterID:    cursor.AfterID,
		PollIntervalMs: domain.ThreadPollInterval.Milliseconds(),
	}

	if _, err := loadForParticipant(ctx, uc.repo, conversationID, userID); err != nil {
		return nil, err
	}

	msgs, err := uc.repo.FetchSince(ctx, conversationID, cursor.ReadFrom())
	if err != nil {
		uc.log.WarnContext(ctx, "thread poll failed",
			slog.Uint64("conversation_id", uint64(conversationID)),
			logger.Err(err),
		)
		return page, nil
	}

	msgs = cursor.Unseen(msgs)
	for i := range msgs {
		msgs[i].IsMine = msgs[i].SenderID == userID
	}

	next := cursor.Next(msgs)
	page.Messages = msgs
	page.NextSince = next.Since
	page.NextAfterID = next.AfterID
	return page, nil
}
