package models

// All lista os modelos na ordem de migração.
func All() []any {
	return []any{
		&User{},
		&Profile{},
		&Category{},
		&Professional{},
		&ProfessionalService{},
		&Plan{},
		&ServiceRequest{},
		&Conversation{},
		&Message{},
		&Appointment{},
		&AuditLog{},
	}
}
