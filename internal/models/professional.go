package models

import "time"

const (
	ProfessionalActive   = "active"
	ProfessionalInactive = "inactive"
)

// Professional estende um User com role professional.
type Professional struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category,omitempty"`

	ExperienceYears int    `gorm:"not null;default:0" json:"experience_years"`
	References      string `gorm:"column:professional_references;type:text" json:"references"`
	Description     string `gorm:"type:text" json:"description"`
	Status          string `gorm:"size:20;not null;default:'active';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfessionalService struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ProfessionalID uint   `gorm:"index;not null" json:"professional_id"`
	ServiceName    string `gorm:"size:150;not null" json:"service_name"`
	Description    string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
