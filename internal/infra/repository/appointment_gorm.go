package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/appointment"
	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) GetAppointmentForClient(
	ctx context.Context,
	appointmentID uint,
	clientID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND client_id = ?", appointmentID, clientID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) SaveRating(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND rating IS NULL", ap.ID).
		Updates(map[string]any{
			"rating":         ap.Rating,
			"review_comment": ap.ReviewComment,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("already_rated")
	}
	return nil
}

func (r *AppointmentGormRepository) ListForClient(
	ctx context.Context,
	clientID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Professional.Profile").
		Where("client_id = ?", clientID).
		Order("completed_at DESC, id DESC").
		Find(&apps).Error

	return apps, err
}

func (r *AppointmentGormRepository) ListForProfessional(
	ctx context.Context,
	professionalID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client.Profile").
		Where("professional_id = ?", professionalID).
		Order("completed_at DESC, id DESC").
		Find(&apps).Error

	return apps, err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
