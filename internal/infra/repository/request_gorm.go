package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/care-marketplace/internal/domain/request"
	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

type RequestGormRepository struct {
	db *gorm.DB
}

func NewRequestGormRepository(db *gorm.DB) *RequestGormRepository {
	return &RequestGormRepository{db: db}
}

// --------------------------------------------------
// Professional
// --------------------------------------------------

func (r *RequestGormRepository) GetProfessionalByUserID(
	ctx context.Context,
	userID uint,
) (*models.Professional, error) {

	var p models.Professional
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// --------------------------------------------------
// Request
// --------------------------------------------------

func (r *RequestGormRepository) CreateRequest(
	ctx context.Context,
	req *models.ServiceRequest,
) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RequestGormRepository) GetRequestForProfessional(
	ctx context.Context,
	requestID uint,
	professionalID uint,
) (*models.ServiceRequest, error) {

	var req models.ServiceRequest
	if err := r.db.WithContext(ctx).
		Where("id = ? AND professional_id = ?", requestID, professionalID).
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestGormRepository) SaveTransition(
	ctx context.Context,
	req *models.ServiceRequest,
	from domain.Status,
) error {
	return saveTransition(r.db.WithContext(ctx), req, from)
}

func (r *RequestGormRepository) CompleteRequest(
	ctx context.Context,
	req *models.ServiceRequest,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveTransition(tx, req, domain.StatusAccepted); err != nil {
			return err
		}
		return tx.Create(ap).Error
	})
}

// saveTransition é um update condicional: dois profissionais (ou dois
// cliques) não conseguem aplicar transições conflitantes.
func saveTransition(db *gorm.DB, req *models.ServiceRequest, from domain.Status) error {
	res := db.Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", req.ID, string(from)).
		Updates(map[string]any{
			"status":       req.Status,
			"responded_at": req.RespondedAt,
			"completed_at": req.CompletedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func (r *RequestGormRepository) ListForClient(
	ctx context.Context,
	clientID uint,
) ([]models.ServiceRequest, error) {

	var list []models.ServiceRequest
	err := r.db.WithContext(ctx).
		Preload("Professional.Profile").
		Where("client_id = ?", clientID).
		Order("created_at DESC, id DESC").
		Find(&list).Error

	return list, err
}

func (r *RequestGormRepository) ListForProfessional(
	ctx context.Context,
	professionalID uint,
) ([]models.ServiceRequest, error) {

	var list []models.ServiceRequest
	err := r.db.WithContext(ctx).
		Preload("Client.Profile").
		Where("professional_id = ?", professionalID).
		Order("created_at DESC, id DESC").
		Find(&list).Error

	return list, err
}

// --------------------------------------------------
// Conversation
// --------------------------------------------------

func (r *RequestGormRepository) EnsureConversation(
	ctx context.Context,
	clientID uint,
	professionalID uint,
	requestID uint,
) (*models.Conversation, bool, error) {

	conv := models.Conversation{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		RequestID:      &requestID,
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}, {Name: "professional_id"}},
			DoNothing: true,
		}).
		Create(&conv)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &conv, true, nil
	}

	var existing models.Conversation
	if err := r.db.WithContext(ctx).
		Where("client_id = ? AND professional_id = ?", clientID, professionalID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// Compile-time check
var _ domain.Repository = (*RequestGormRepository)(nil)
