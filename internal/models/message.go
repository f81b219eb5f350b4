package models

import "time"

const MessageTypeText = "text"

type Message struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ConversationID uint   `gorm:"not null;index:idx_messages_conversation_created,priority:1" json:"conversation_id"`
	SenderID       uint   `gorm:"not null;index" json:"sender_id"`
	Content        string `gorm:"type:text;not null" json:"content"`
	MessageType    string `gorm:"size:20;not null;default:'text'" json:"message_type"`
	Read           bool   `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `gorm:"index:idx_messages_conversation_created,priority:2" json:"created_at"`
}
