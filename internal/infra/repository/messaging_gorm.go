package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/messaging"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

type MessagingGormRepository struct {
	db *gorm.DB
}

func NewMessagingGormRepository(db *gorm.DB) *MessagingGormRepository {
	return &MessagingGormRepository{db: db}
}

// --------------------------------------------------
// Conversations
// --------------------------------------------------

type conversationRow struct {
	ID              uint
	RequestID       *uint
	CreatedAt       time.Time
	CounterpartID   uint
	CounterpartName *string
	LastContent     *string
	LastCreatedAt   *time.Time
	LastRead        *bool
}

const conversationListSQL = `
SELECT c.id, c.request_id, c.created_at,
       c.%[2]s AS counterpart_id,
       p.full_name AS counterpart_name,
       m.content AS last_content,
       m.created_at AS last_created_at,
       m.read AS last_read
FROM conversations c
LEFT JOIN profiles p ON p.user_id = c.%[2]s
LEFT JOIN messages m ON m.id = (
    SELECT m2.id FROM messages m2
    WHERE m2.conversation_id = c.id
    ORDER BY m2.created_at DESC, m2.id DESC
    LIMIT 1
)
WHERE c.%[1]s = ?
ORDER BY c.created_at DESC, c.id DESC`

func (r *MessagingGormRepository) ListConversations(
	ctx context.Context,
	userID uint,
	role string,
) ([]domain.ConversationSummary, error) {

	var own, counterpart, fallbackName string
	switch role {
	case models.RoleClient:
		own, counterpart, fallbackName = "client_id", "professional_id", domain.DefaultProfessionalName
	case models.RoleProfessional:
		own, counterpart, fallbackName = "professional_id", "client_id", domain.DefaultClientName
	default:
		return []domain.ConversationSummary{}, nil
	}

	var rows []conversationRow
	if err := r.db.WithContext(ctx).
		Raw(fmt.Sprintf(conversationListSQL, own, counterpart), userID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.ConversationSummary, 0, len(rows))
	for _, row := range rows {
		s := domain.ConversationSummary{
			ID:              row.ID,
			CounterpartID:   row.CounterpartID,
			CounterpartName: fallbackName,
			LastMessage:     domain.NoMessagesPlaceholder,
			LastMessageAt:   row.CreatedAt,
			RequestID:       row.RequestID,
			CreatedAt:       row.CreatedAt,
		}
		if row.CounterpartName != nil && *row.CounterpartName != "" {
			s.CounterpartName = *row.CounterpartName
		}
		if row.LastContent != nil {
			s.LastMessage = *row.LastContent
			if row.LastCreatedAt != nil {
				s.LastMessageAt = *row.LastCreatedAt
			}
			s.Unread = row.LastRead != nil && !*row.LastRead
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *MessagingGormRepository) GetConversation(
	ctx context.Context,
	id uint,
) (*models.Conversation, error) {

	var conv models.Conversation
	if err := r.db.WithContext(ctx).First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// --------------------------------------------------
// Messages
// --------------------------------------------------

type messageRow struct {
	ID          uint
	SenderID    uint
	SenderName  *string
	Content     string
	MessageType string
	Read        bool
	CreatedAt   time.Time
}

func (r *MessagingGormRepository) FetchSince(
	ctx context.Context,
	conversationID uint,
	since time.Time,
) ([]domain.ThreadMessage, error) {

	q := r.db.WithContext(ctx).
		Table("messages m").
		Select("m.id, m.sender_id, p.full_name AS sender_name, m.content, m.message_type, m.read, m.created_at").
		Joins("LEFT JOIN profiles p ON p.user_id = m.sender_id").
		Where("m.conversation_id = ?", conversationID)

	if !since.IsZero() {
		q = q.Where("m.created_at > ?", since.UTC())
	}

	var rows []messageRow
	if err := q.Order("m.created_at ASC, m.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.ThreadMessage, 0, len(rows))
	for _, row := range rows {
		name := domain.DefaultSenderName
		if row.SenderName != nil && *row.SenderName != "" {
			name = *row.SenderName
		}
		out = append(out, domain.ThreadMessage{
			ID:          row.ID,
			SenderID:    row.SenderID,
			SenderName:  name,
			Content:     row.Content,
			MessageType: row.MessageType,
			Read:        row.Read,
			CreatedAt:   row.CreatedAt,
		})
	}
	return out, nil
}

func (r *MessagingGormRepository) CreateMessage(
	ctx context.Context,
	m *models.Message,
) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MessagingGormRepository) MarkRead(
	ctx context.Context,
	conversationID uint,
	readerID uint,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read = ?", conversationID, readerID, false).
		Update("read", true)

	return res.RowsAffected, res.Error
}

// Compile-time check
var _ domain.Repository = (*MessagingGormRepository)(nil)
