package dto

import "time"

// Chamado visto pelo cliente.
type ClientRequestDTO struct {
	ID               uint       `json:"id"`
	ProfessionalID   uint       `json:"professional_id"`
	ProfessionalName string     `json:"professional_name"`
	ServiceType      string     `json:"service_type"`
	Notes            string     `json:"notes"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	RespondedAt      *time.Time `json:"responded_at"`
}

// Chamado visto pelo profissional, com contato do cliente.
type ProfessionalRequestDTO struct {
	ID          uint       `json:"id"`
	ClientID    uint       `json:"client_id"`
	ClientName  string     `json:"client_name"`
	ClientPhone string     `json:"client_phone"`
	ClientCity  string     `json:"client_city"`
	ServiceType string     `json:"service_type"`
	Notes       string     `json:"notes"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at"`
}
