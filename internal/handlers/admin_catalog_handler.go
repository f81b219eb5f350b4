package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-marketplace/internal/audit"
	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

// AdminCatalogHandler mantém categorias e planos.
type AdminCatalogHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	log   *slog.Logger
}

func NewAdminCatalogHandler(db *gorm.DB, a *audit.Dispatcher, log *slog.Logger) *AdminCatalogHandler {
	return &AdminCatalogHandler{db: db, audit: a, log: log}
}

// --------- Requests ---------

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type PlanRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	Description  string  `json:"description" binding:"max=500"`
	Price        float64 `json:"price" binding:"gte=0"`
	DurationType string  `json:"duration_type" binding:"required"`
}

func (h *AdminCatalogHandler) dispatch(c *gin.Context, action, entity string, id uint) {
	userID := currentUserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   entity,
		EntityID: &id,
	})
}

// ======================================================
// CATEGORIES
// ======================================================

func (h *AdminCatalogHandler) ListCategories(c *gin.Context) {
	var list []models.Category
	if err := h.db.WithContext(c.Request.Context()).
		Order("name ASC").
		Find(&list).Error; err != nil {
		respondError(c, h.log, err, "failed_to_list_categories", "Erro ao listar categorias.")
		return
	}

	httpresp.List(c, list)
}

func (h *AdminCatalogHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	adminID := currentUserID(c)
	cat := models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   &adminID,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&cat).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Business(c, httperr.ErrBusiness("category_already_exists"))
			return
		}
		respondError(c, h.log, err, "failed_to_create_category", "Erro ao criar categoria.")
		return
	}

	h.dispatch(c, "category_created", "category", cat.ID)
	c.JSON(http.StatusCreated, cat)
}

func (h *AdminCatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	var cat models.Category
	if err := h.db.WithContext(c.Request.Context()).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Business(c, httperr.ErrBusiness("category_not_found"))
			return
		}
		respondError(c, h.log, err, "failed_to_update_category", "Erro ao atualizar categoria.")
		return
	}

	cat.Name = strings.TrimSpace(req.Name)
	cat.Description = strings.TrimSpace(req.Description)

	if err := h.db.WithContext(c.Request.Context()).Save(&cat).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Business(c, httperr.ErrBusiness("category_already_exists"))
			return
		}
		respondError(c, h.log, err, "failed_to_update_category", "Erro ao atualizar categoria.")
		return
	}

	h.dispatch(c, "category_updated", "category", cat.ID)
	c.JSON(http.StatusOK, cat)
}

func (h *AdminCatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var inUse int64
	if err := h.db.WithContext(ctx).
		Model(&models.Professional{}).
		Where("category_id = ?", id).
		Count(&inUse).Error; err != nil {
		respondError(c, h.log, err, "failed_to_delete_category", "Erro ao excluir categoria.")
		return
	}
	if inUse > 0 {
		httperr.Business(c, httperr.ErrBusiness("category_in_use"))
		return
	}

	res := h.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		respondError(c, h.log, res.Error, "failed_to_delete_category", "Erro ao excluir categoria.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.Business(c, httperr.ErrBusiness("category_not_found"))
		return
	}

	h.dispatch(c, "category_deleted", "category", id)
	c.Status(http.StatusNoContent)
}

// ======================================================
// PLANS
// ======================================================

func (h *AdminCatalogHandler) ListPlans(c *gin.Context) {
	var list []models.Plan
	if err := h.db.WithContext(c.Request.Context()).
		Order("price ASC").
		Find(&list).Error; err != nil {
		respondError(c, h.log, err, "failed_to_list_plans", "Erro ao listar planos.")
		return
	}

	httpresp.List(c, list)
}

func (h *AdminCatalogHandler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}
	if !models.IsValidDurationType(req.DurationType) {
		httperr.Business(c, httperr.ErrBusiness("invalid_duration_type"))
		return
	}

	adminID := currentUserID(c)
	plan := models.Plan{
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		Price:        req.Price,
		DurationType: req.DurationType,
		CreatedBy:    &adminID,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&plan).Error; err != nil {
		respondError(c, h.log, err, "failed_to_create_plan", "Erro ao criar plano.")
		return
	}

	h.dispatch(c, "plan_created", "plan", plan.ID)
	c.JSON(http.StatusCreated, plan)
}

func (h *AdminCatalogHandler) UpdatePlan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}
	if !models.IsValidDurationType(req.DurationType) {
		httperr.Business(c, httperr.ErrBusiness("invalid_duration_type"))
		return
	}

	var plan models.Plan
	if err := h.db.WithContext(c.Request.Context()).First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Business(c, httperr.ErrBusiness("plan_not_found"))
			return
		}
		respondError(c, h.log, err, "failed_to_update_plan", "Erro ao atualizar plano.")
		return
	}

	plan.Name = strings.TrimSpace(req.Name)
	plan.Description = strings.TrimSpace(req.Description)
	plan.Price = req.Price
	plan.DurationType = req.DurationType

	if err := h.db.WithContext(c.Request.Context()).Save(&plan).Error; err != nil {
		respondError(c, h.log, err, "failed_to_update_plan", "Erro ao atualizar plano.")
		return
	}

	h.dispatch(c, "plan_updated", "plan", plan.ID)
	c.JSON(http.StatusOK, plan)
}

func (h *AdminCatalogHandler) DeletePlan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Plan{}, id)
	if res.Error != nil {
		respondError(c, h.log, res.Error, "failed_to_delete_plan", "Erro ao excluir plano.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.Business(c, httperr.ErrBusiness("plan_not_found"))
		return
	}

	h.dispatch(c, "plan_deleted", "plan", id)
	c.Status(http.StatusNoContent)
}
