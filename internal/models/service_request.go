package models

import "time"

type ServiceRequest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint  `gorm:"index;not null" json:"client_id"`
	Client   *User `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ProfessionalID uint  `gorm:"index;not null" json:"professional_id"`
	Professional   *User `gorm:"foreignKey:ProfessionalID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ServiceType string `gorm:"size:20;not null" json:"service_type"`
	Notes       string `gorm:"type:text" json:"notes"`
	Status      string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	RespondedAt *time.Time `json:"responded_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
