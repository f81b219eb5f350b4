package models

import "time"

const (
	DurationHour    = "hour"
	DurationSession = "session"
	DurationMonthly = "monthly"
	DurationPackage = "package"
)

// Plan é só catálogo de preços; nada liga um plano a um chamado.
type Plan struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	Description  string  `gorm:"size:500" json:"description"`
	Price        float64 `gorm:"not null" json:"price"`
	DurationType string  `gorm:"size:20;not null" json:"duration_type"`
	CreatedBy    *uint   `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidDurationType(d string) bool {
	switch d {
	case DurationHour, DurationSession, DurationMonthly, DurationPackage:
		return true
	}
	return false
}
