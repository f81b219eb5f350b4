package dto

import "time"

type AppointmentHistoryDTO struct {
	ID              uint      `json:"id"`
	RequestID       *uint     `json:"request_id"`
	CounterpartID   uint      `json:"counterpart_id"`
	CounterpartName string    `json:"counterpart_name"`
	CompletedAt     time.Time `json:"completed_at"`
	Rating          *int      `json:"rating"`
	ReviewComment   string    `json:"review_comment"`
}
