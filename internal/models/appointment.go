package models

import "time"

// Appointment é o atendimento concluído, avaliado uma única vez.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint  `gorm:"index;not null" json:"client_id"`
	Client   *User `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ProfessionalID uint  `gorm:"index;not null" json:"professional_id"`
	Professional   *User `gorm:"foreignKey:ProfessionalID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	RequestID *uint `gorm:"uniqueIndex" json:"request_id"`

	CompletedAt   time.Time `gorm:"index;not null" json:"completed_at"`
	Rating        *int      `json:"rating"`
	ReviewComment string    `gorm:"type:text" json:"review_comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
