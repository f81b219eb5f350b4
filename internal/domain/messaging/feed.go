// Package messaging descreve conversas e o feed de mensagens por polling.
// O feed expõe FetchSince para que um transporte por push possa substituir
// o polling sem mudar quem chama.
package messaging

import (
	"context"
	"time"

	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

// Intervalos sugeridos aos clientes que fazem polling.
const (
	ConversationsPollInterval = 5 * time.Second
	ThreadPollInterval        = 3 * time.Second
)

const (
	DefaultProfessionalName = "Profissional"
	DefaultClientName       = "Cliente"
	DefaultSenderName       = "Usuário"
	NoMessagesPlaceholder   = "Sem mensagens"
)

// ConversationSummary é uma linha da lista de conversas.
type ConversationSummary struct {
	ID              uint      `json:"id"`
	CounterpartID   uint      `json:"counterpart_id"`
	CounterpartName string    `json:"counterpart_name"`
	LastMessage     string    `json:"last_message"`
	LastMessageAt   time.Time `json:"last_message_time"`
	Unread          bool      `json:"unread"`
	RequestID       *uint     `json:"request_id"`
	CreatedAt       time.Time `json:"created_at"`
}

type ThreadMessage struct {
	ID          uint      `json:"id"`
	SenderID    uint      `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	Read        bool      `json:"read"`
	IsMine      bool      `json:"is_mine"`
	CreatedAt   time.Time `json:"created_at"`
}

// Feed devolve as mensagens criadas depois de since, em ordem crescente.
// since zero devolve a conversa inteira.
type Feed interface {
	FetchSince(
		ctx context.Context,
		conversationID uint,
		since time.Time,
	) ([]ThreadMessage, error)
}

type Repository interface {
	Feed

	// ListConversations filtra pela coluna do papel (client_id ou
	// professional_id) e traz contraparte e última mensagem numa consulta.
	ListConversations(
		ctx context.Context,
		userID uint,
		role string,
	) ([]ConversationSummary, error)

	GetConversation(
		ctx context.Context,
		id uint,
	) (*models.Conversation, error)

	CreateMessage(
		ctx context.Context,
		m *models.Message,
	) error

	// MarkRead marca como lidas as mensagens enviadas pela contraparte.
	MarkRead(
		ctx context.Context,
		conversationID uint,
		readerID uint,
	) (int64, error)
}

// FeedOverlap é quanto a leitura volta antes de since quando o cliente
// informa o último id recebido. created_at é carimbado antes do INSERT, então
// uma mensagem pode ficar visível depois de outra mais nova já lida.
const FeedOverlap = 2 * time.Second

// Cursor marca até onde o leitor já recebeu o feed. AfterID zero mantém o
// corte estrito em Since.
type Cursor struct {
	Since   time.Time
	AfterID uint
}

// ReadFrom é o instante passado a FetchSince.
func (c Cursor) ReadFrom() time.Time {
	if c.AfterID == 0 || c.Since.IsZero() {
		return c.Since
	}
	return c.Since.Add(-FeedOverlap)
}

// Unseen descarta da janela de sobreposição o que o leitor já recebeu:
// fica o que é mais novo que Since ou tem id acima de AfterID.
func (c Cursor) Unseen(msgs []ThreadMessage) []ThreadMessage {
	if c.AfterID == 0 || c.Since.IsZero() {
		return msgs
	}
	out := msgs[:0]
	for _, m := range msgs {
		if m.CreatedAt.After(c.Since) || m.ID > c.AfterID {
			out = append(out, m)
		}
	}
	return out
}

// Next avança o cursor; nunca volta no tempo nem no id.
func (c Cursor) Next(msgs []ThreadMessage) Cursor {
	next := Cursor{Since: NextSince(msgs, c.Since), AfterID: c.AfterID}
	for _, m := range msgs {
		if m.ID > next.AfterID {
			next.AfterID = m.ID
		}
	}
	return next
}

// NextSince é o since da próxima consulta: o maior created_at recebido,
// ou o próprio since quando nada mais novo chegou.
func NextSince(msgs []ThreadMessage, since time.Time) time.Time {
	next := since
	for _, m := range msgs {
		if m.CreatedAt.After(next) {
			next = m.CreatedAt
		}
	}
	return next
}
