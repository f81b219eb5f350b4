package models

import "time"

// Perfil 1:1 com User. Clientes preenchem no cadastro; profissionais
// recebem nome e telefone criados pelo admin.
type Profile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	FullName  string `gorm:"size:150;not null" json:"full_name"`
	Phone     string `gorm:"size:20" json:"phone"`
	BirthDate string `gorm:"size:10" json:"birth_date"`
	CPF       string `gorm:"size:14" json:"cpf"`
	CEP       string `gorm:"size:9" json:"cep"`
	City      string `gorm:"size:100" json:"city"`
	Address   string `gorm:"size:255" json:"address"`
	PhotoURL  string `gorm:"size:500" json:"photo_url"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
