package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-marketplace/internal/audit"
	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/validators"
)

// PasswordHasher é satisfeito por auth.Service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type AdminHandler struct {
	db     *gorm.DB
	hasher PasswordHasher
	audit  *audit.Dispatcher
	log    *slog.Logger
}

func NewAdminHandler(
	db *gorm.DB,
	hasher PasswordHasher,
	a *audit.Dispatcher,
	log *slog.Logger,
) *AdminHandler {
	return &AdminHandler{db: db, hasher: hasher, audit: a, log: log}
}

// ======================================================
// DASHBOARD
// ======================================================

type AdminDashboard struct {
	Clients       int64 `json:"clients"`
	Professionals int64 `json:"professionals"`
	Appointments  int64 `json:"appointments"`
	Requests      int64 `json:"requests"`
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())

	var out AdminDashboard
	err := errors.Join(
		db.Model(&models.User{}).Where("role = ?", models.RoleClient).Count(&out.Clients).Error,
		db.Model(&models.User{}).Where("role = ?", models.RoleProfessional).Count(&out.Professionals).Error,
		db.Model(&models.Appointment{}).Count(&out.Appointments).Error,
		db.Model(&models.ServiceRequest{}).Count(&out.Requests).Error,
	)
	if err != nil {
		respondError(c, h.log, err, "dashboard_failed", "Erro ao carregar painel.")
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// PROFESSIONALS
// ======================================================

type AdminProfessionalRow struct {
	ID              uint      `json:"id"`
	UserID          uint      `json:"user_id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name"`
	Phone           string    `json:"phone"`
	CategoryID      uint      `json:"category_id"`
	CategoryName    string    `json:"category_name"`
	ExperienceYears int       `json:"experience_years"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateProfessionalRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	FullName        string `json:"full_name" binding:"required,max=150"`
	Phone           string `json:"phone" binding:"max=20"`
	CategoryID      uint   `json:"category_id" binding:"required"`
	ExperienceYears int    `json:"experience_years" binding:"gte=0,lte=80"`
	References      string `json:"references"`
	Description     string `json:"description"`
}

type UpdateProfessionalStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AdminHandler) ListProfessionals(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Table("professionals AS p").
		Select(`p.id, p.user_id, u.email, pr.full_name, pr.phone,
			p.category_id, cat.name AS category_name,
			p.experience_years, p.status, p.created_at`).
		Joins("JOIN users u ON u.id = p.user_id").
		Joins("LEFT JOIN profiles pr ON pr.user_id = p.user_id").
		Joins("LEFT JOIN categories cat ON cat.id = p.category_id")

	if term := strings.TrimSpace(c.Query("query")); term != "" {
		like := containsPattern(term)
		q = q.Where(`LOWER(pr.full_name) LIKE ? ESCAPE '\' OR LOWER(u.email) LIKE ? ESCAPE '\'`, like, like)
	}

	var rows []AdminProfessionalRow
	if err := q.Order("p.created_at DESC").Scan(&rows).Error; err != nil {
		respondError(c, h.log, err, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	httpresp.List(c, rows)
}

func (h *AdminHandler) CreateProfessional(c *gin.Context) {
	var req CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ctx := c.Request.Context()

	var cat models.Category
	if err := h.db.WithContext(ctx).First(&cat, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Business(c, httperr.ErrBusiness("category_not_found"))
			return
		}
		respondError(c, h.log, err, "failed_to_create_professional", "Erro ao criar profissional.")
		return
	}

	hash, err := h.hasher.HashPassword(req.Password)
	if err != nil {
		respondError(c, h.log, err, "failed_to_create_professional", "Erro ao criar profissional.")
		return
	}

	user := models.User{
		Email:        validators.NormalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         models.RoleProfessional,
	}
	prof := models.Professional{
		CategoryID:      cat.ID,
		ExperienceYears: req.ExperienceYears,
		References:      strings.TrimSpace(req.References),
		Description:     strings.TrimSpace(req.Description),
		Status:          models.ProfessionalActive,
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile := models.Profile{
			UserID:   user.ID,
			FullName: strings.TrimSpace(req.FullName),
			Phone:    strings.TrimSpace(req.Phone),
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		prof.UserID = user.ID
		return tx.Create(&prof).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Business(c, httperr.ErrBusiness("email_already_exists"))
			return
		}
		respondError(c, h.log, err, "failed_to_create_professional", "Erro ao criar profissional.")
		return
	}

	adminID := currentUserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "professional_created",
		Entity:   "professional",
		EntityID: &prof.ID,
		Metadata: map[string]any{"user_id": user.ID, "category_id": cat.ID},
	})

	c.JSON(http.StatusCreated, AdminProfessionalRow{
		ID:              prof.ID,
		UserID:          user.ID,
		Email:           user.Email,
		FullName:        strings.TrimSpace(req.FullName),
		Phone:           strings.TrimSpace(req.Phone),
		CategoryID:      cat.ID,
		CategoryName:    cat.Name,
		ExperienceYears: prof.ExperienceYears,
		Status:          prof.Status,
		CreatedAt:       prof.CreatedAt,
	})
}

func (h *AdminHandler) UpdateProfessionalStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateProfessionalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}
	if req.Status != models.ProfessionalActive && req.Status != models.ProfessionalInactive {
		httperr.Business(c, httperr.ErrBusiness("invalid_professional_status"))
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Professional{}).
		Where("id = ?", id).
		Update("status", req.Status)
	if res.Error != nil {
		respondError(c, h.log, res.Error, "failed_to_update_professional", "Erro ao atualizar profissional.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.Business(c, httperr.ErrBusiness("professional_not_found"))
		return
	}

	adminID := currentUserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "professional_status_updated",
		Entity:   "professional",
		EntityID: &id,
		Metadata: map[string]any{"status": req.Status},
	})

	httpresp.OK(c, gin.H{"id": id, "status": req.Status})
}

// ======================================================
// CLIENTS
// ======================================================

type AdminClientRow struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	CPF       string    `json:"cpf"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *AdminHandler) ListClients(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Table("users AS u").
		Select("u.id, u.email, pr.full_name, pr.phone, pr.cpf, pr.city, u.created_at").
		Joins("LEFT JOIN profiles pr ON pr.user_id = u.id").
		Where("u.role = ?", models.RoleClient)

	if term := strings.TrimSpace(c.Query("query")); term != "" {
		like := containsPattern(term)
		q = q.Where(`LOWER(pr.full_name) LIKE ? ESCAPE '\' OR LOWER(u.email) LIKE ? ESCAPE '\'`, like, like)
	}

	var rows []AdminClientRow
	if err := q.Order("u.created_at DESC").Scan(&rows).Error; err != nil {
		respondError(c, h.log, err, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	httpresp.List(c, rows)
}
