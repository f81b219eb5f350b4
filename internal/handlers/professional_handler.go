package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domainRequest "github.com/BruksfildServices01/care-marketplace/internal/domain/request"
	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/care-marketplace/internal/metrics"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/care-marketplace/internal/usecase/appointment"
	ucRequest "github.com/BruksfildServices01/care-marketplace/internal/usecase/request"
)

type ProfessionalHandler struct {
	db *gorm.DB

	listRequests *ucRequest.ListRequests
	accept       *ucRequest.AcceptRequest
	reject       *ucRequest.RejectRequest
	complete     *ucRequest.CompleteRequest
	history      *ucAppointment.ListHistory

	metrics *metrics.Collector
	log     *slog.Logger
	now     func() time.Time
}

func NewProfessionalHandler(
	db *gorm.DB,
	listRequests *ucRequest.ListRequests,
	accept *ucRequest.AcceptRequest,
	reject *ucRequest.RejectRequest,
	complete *ucRequest.CompleteRequest,
	history *ucAppointment.ListHistory,
	m *metrics.Collector,
	log *slog.Logger,
) *ProfessionalHandler {
	return &ProfessionalHandler{
		db:           db,
		listRequests: listRequests,
		accept:       accept,
		reject:       reject,
		complete:     complete,
		history:      history,
		metrics:      m,
		log:          log,
		now:          timezone.Now,
	}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	ServiceName string `json:"service_name" binding:"required,max=150"`
	Description string `json:"description"`
}

type RejectRequestBody struct {
	Confirm bool `json:"confirm"`
}

// ======================================================
// DASHBOARD
// ======================================================

type ProfessionalDashboard struct {
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
	Today     int64 `json:"today"`
	Total     int64 `json:"total"`
}

// Dashboard conta "hoje" no fuso de São Paulo.
func (h *ProfessionalHandler) Dashboard(c *gin.Context) {
	userID := currentUserID(c)
	db := h.db.WithContext(c.Request.Context())

	dayStart, dayEnd := timezone.DayRange(h.now())

	var out ProfessionalDashboard
	err := errors.Join(
		db.Model(&models.ServiceRequest{}).
			Where("professional_id = ? AND status = ?", userID, string(domainRequest.StatusCompleted)).
			Count(&out.Completed).Error,
		db.Model(&models.ServiceRequest{}).
			Where("professional_id = ? AND status = ?", userID, string(domainRequest.StatusPending)).
			Count(&out.Pending).Error,
		db.Model(&models.Appointment{}).
			Where("professional_id = ? AND completed_at >= ? AND completed_at < ?",
				userID, dayStart, dayEnd).
			Count(&out.Today).Error,
		db.Model(&models.Appointment{}).
			Where("professional_id = ?", userID).
			Count(&out.Total).Error,
	)
	if err != nil {
		respondError(c, h.log, err, "dashboard_failed", "Erro ao carregar painel.")
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// SERVICES
// ======================================================

func (h *ProfessionalHandler) professional(c *gin.Context) (*models.Professional, bool) {
	var prof models.Professional
	err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", currentUserID(c)).
		First(&prof).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Business(c, httperr.ErrBusiness("professional_not_found"))
			return nil, false
		}
		respondError(c, h.log, err, "failed_to_load_professional", "Erro ao carregar profissional.")
		return nil, false
	}
	return &prof, true
}

func (h *ProfessionalHandler) ListServices(c *gin.Context) {
	prof, ok := h.professional(c)
	if !ok {
		return
	}

	var list []models.ProfessionalService
	if err := h.db.WithContext(c.Request.Context()).
		Where("professional_id = ?", prof.ID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		respondError(c, h.log, err, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, list)
}

func (h *ProfessionalHandler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	name := strings.TrimSpace(req.ServiceName)
	if name == "" {
		invalidRequest(c)
		return
	}

	prof, ok := h.professional(c)
	if !ok {
		return
	}

	svc := models.ProfessionalService{
		ProfessionalID: prof.ID,
		ServiceName:    name,
		Description:    strings.TrimSpace(req.Description),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		respondError(c, h.log, err, "failed_to_create_service", "Erro ao criar serviço.")
		return
	}

	c.JSON(http.StatusCreated, svc)
}

// DeleteService só remove serviços do próprio profissional.
func (h *ProfessionalHandler) DeleteService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	prof, ok := h.professional(c)
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND professional_id = ?", id, prof.ID).
		Delete(&models.ProfessionalService{})
	if res.Error != nil {
		respondError(c, h.log, res.Error, "failed_to_delete_service", "Erro ao excluir serviço.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.Business(c, httperr.ErrBusiness("service_not_found"))
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// REQUESTS
// ======================================================

func (h *ProfessionalHandler) ListRequests(c *gin.Context) {
	list, err := h.listRequests.ForProfessional(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.log, err, "failed_to_list_requests", "Erro ao listar solicitações.")
		return
	}

	httpresp.List(c, list)
}

func (h *ProfessionalHandler) Accept(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res, err := h.accept.Execute(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, h.log, err, "failed_to_accept_request", "Erro ao aceitar solicitação.")
		return
	}

	h.metrics.RecordTransition(res.Request.Status)
	respondTransition(c, h.log, http.StatusOK, res)
}

func (h *ProfessionalHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	// corpo vazio equivale a confirm=false
	var body RejectRequestBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		invalidRequest(c)
		return
	}

	res, err := h.reject.Execute(c.Request.Context(), currentUserID(c), id, body.Confirm)
	if err != nil {
		respondError(c, h.log, err, "failed_to_reject_request", "Erro ao recusar solicitação.")
		return
	}

	h.metrics.RecordTransition(res.Request.Status)
	respondTransition(c, h.log, http.StatusOK, res)
}

func (h *ProfessionalHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res, err := h.complete.Execute(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, h.log, err, "failed_to_complete_request", "Erro ao concluir solicitação.")
		return
	}

	h.metrics.RecordTransition(res.Request.Status)
	respondTransition(c, h.log, http.StatusOK, res)
}

// ======================================================
// HISTORY
// ======================================================

func (h *ProfessionalHandler) History(c *gin.Context) {
	list, err := h.history.ForProfessional(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.log, err, "failed_to_list_history", "Erro ao listar histórico.")
		return
	}

	httpresp.List(c, list)
}
