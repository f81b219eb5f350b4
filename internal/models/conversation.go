package models

import "time"

// Uma conversa por par (cliente, profissional); o índice único garante
// isso mesmo com chamados simultâneos.
type Conversation struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	ClientID       uint  `gorm:"not null;uniqueIndex:idx_conversations_pair" json:"client_id"`
	ProfessionalID uint  `gorm:"not null;uniqueIndex:idx_conversations_pair" json:"professional_id"`
	RequestID      *uint `json:"request_id"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasParticipant diz se o usuário faz parte da conversa.
func (c *Conversation) HasParticipant(userID uint) bool {
	return c.ClientID == userID || c.ProfessionalID == userID
}

// CounterpartOf devolve o outro participante.
func (c *Conversation) CounterpartOf(userID uint) uint {
	if c.ClientID == userID {
		return c.ProfessionalID
	}
	return c.ClientID
}
