package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-marketplace/internal/domain/messaging"
	domainRequest "github.com/BruksfildServices01/care-marketplace/internal/domain/request"
	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/care-marketplace/internal/infra/payment"
	"github.com/BruksfildServices01/care-marketplace/internal/logger"
	"github.com/BruksfildServices01/care-marketplace/internal/metrics"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	ucAppointment "github.com/BruksfildServices01/care-marketplace/internal/usecase/appointment"
	ucRequest "github.com/BruksfildServices01/care-marketplace/internal/usecase/request"
)

const DefaultProfessionalDescription = "Profissional qualificado"

type ClientHandler struct {
	db *gorm.DB

	createRequest *ucRequest.CreateRequest
	listRequests  *ucRequest.ListRequests
	history       *ucAppointment.ListHistory
	rate          *ucAppointment.RateAppointment

	payments payment.Gateway
	metrics  *metrics.Collector
	log      *slog.Logger
}

// NewClientHandler aceita payments nil: o checkout responde 503.
func NewClientHandler(
	db *gorm.DB,
	createRequest *ucRequest.CreateRequest,
	listRequests *ucRequest.ListRequests,
	history *ucAppointment.ListHistory,
	rate *ucAppointment.RateAppointment,
	payments payment.Gateway,
	m *metrics.Collector,
	log *slog.Logger,
) *ClientHandler {
	return &ClientHandler{
		db:            db,
		createRequest: createRequest,
		listRequests:  listRequests,
		history:       history,
		rate:          rate,
		payments:      payments,
		metrics:       m,
		log:           log,
	}
}

// --------- Requests ---------

type CreateServiceRequestBody struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceType    string `json:"service_type" binding:"required"`
	Notes          string `json:"notes" binding:"max=2000"`
}

type RateAppointmentRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment" binding:"max=2000"`
}

type LocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// ======================================================
// CATALOG
// ======================================================

func (h *ClientHandler) ListCategories(c *gin.Context) {
	var list []models.Category
	if err := h.db.WithContext(c.Request.Context()).
		Order("name ASC").
		Find(&list).Error; err != nil {
		respondError(c, h.log, err, "failed_to_list_categories", "Erro ao listar categorias.")
		return
	}

	httpresp.List(c, list)
}

// ClientProfessionalRow usa o id do usuário: é ele que vai em
// professional_id ao abrir um chamado.
type ClientProfessionalRow struct {
	ID              uint   `json:"id"`
	ProfessionalID  uint   `json:"professional_id"`
	Name            string `json:"name"`
	PhotoURL        string `json:"photo_url"`
	Description     string `json:"description"`
	ExperienceYears int    `json:"experience_years"`
	CategoryName    string `json:"category_name"`
}

func (h *ClientHandler) ListProfessionals(c *gin.Context) {
	categoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var cat models.Category
	if err := h.db.WithContext(ctx).First(&cat, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Business(c, httperr.ErrBusiness("category_not_found"))
			return
		}
		respondError(c, h.log, err, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	q := h.db.WithContext(ctx).
		Table("professionals AS p").
		Select(`p.user_id AS id, p.id AS professional_id,
			pr.full_name AS name, pr.photo_url,
			p.description, p.experience_years`).
		Joins("LEFT JOIN profiles pr ON pr.user_id = p.user_id").
		Where("p.category_id = ? AND p.status = ?", cat.ID, models.ProfessionalActive)

	if term := strings.TrimSpace(c.Query("query")); term != "" {
		q = q.Where(`LOWER(pr.full_name) LIKE ? ESCAPE '\'`, containsPattern(term))
	}

	var rows []ClientProfessionalRow
	if err := q.Order("p.experience_years DESC, p.id ASC").Scan(&rows).Error; err != nil {
		respondError(c, h.log, err, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	for i := range rows {
		rows[i].CategoryName = cat.Name
		if rows[i].Name == "" {
			rows[i].Name = messaging.DefaultProfessionalName
		}
		if strings.TrimSpace(rows[i].Description) == "" {
			rows[i].Description = DefaultProfessionalDescription
		}
	}

	httpresp.List(c, rows)
}

func (h *ClientHandler) ServiceTypes(c *gin.Context) {
	httpresp.List(c, domainRequest.ServiceOptions())
}

// ======================================================
// REQUESTS
// ======================================================

func (h *ClientHandler) CreateRequest(c *gin.Context) {
	var body CreateServiceRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidRequest(c)
		return
	}

	res, err := h.createRequest.Execute(c.Request.Context(), ucRequest.CreateRequestInput{
		ClientID:       currentUserID(c),
		ProfessionalID: body.ProfessionalID,
		ServiceType:    body.ServiceType,
		Notes:          body.Notes,
	})
	if err != nil {
		respondError(c, h.log, err, "failed_to_create_request", "Erro ao criar solicitação.")
		return
	}

	h.metrics.RecordTransition(res.Request.Status)
	respondTransition(c, h.log, http.StatusCreated, res)
}

func (h *ClientHandler) ListRequests(c *gin.Context) {
	list, err := h.listRequests.ForClient(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.log, err, "failed_to_list_requests", "Erro ao listar solicitações.")
		return
	}

	httpresp.List(c, list)
}

// ======================================================
// HISTORY / RATING
// ======================================================

func (h *ClientHandler) History(c *gin.Context) {
	list, err := h.history.ForClient(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.log, err, "failed_to_list_history", "Erro ao listar histórico.")
		return
	}

	httpresp.List(c, list)
}

func (h *ClientHandler) Rate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req RateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ap, err := h.rate.Execute(c.Request.Context(), currentUserID(c), id, req.Rating, req.Comment)
	if err != nil {
		respondError(c, h.log, err, "failed_to_rate", "Erro ao avaliar atendimento.")
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LOCATION
// ======================================================

func (h *ClientHandler) UpdateLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	lat, lng := *req.Latitude, *req.Longitude
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		httperr.Business(c, httperr.ErrBusiness("invalid_location"))
		return
	}

	userID := currentUserID(c)
	db := h.db.WithContext(c.Request.Context())

	res := db.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"latitude": lat, "longitude": lng})
	if res.Error != nil {
		respondError(c, h.log, res.Error, "failed_to_update_location", "Erro ao salvar localização.")
		return
	}

	if res.RowsAffected == 0 {
		profile := models.Profile{UserID: userID, Latitude: &lat, Longitude: &lng}
		if err := db.Create(&profile).Error; err != nil {
			respondError(c, h.log, err, "failed_to_update_location", "Erro ao salvar localização.")
			return
		}
	}

	httpresp.OK(c, gin.H{"latitude": lat, "longitude": lng})
}

// ======================================================
// PLANS
// ======================================================

func (h *ClientHandler) ListPlans(c *gin.Context) {
	var list []models.Plan
	if err := h.db.WithContext(c.Request.Context()).
		Order("price ASC").
		Find(&list).Error; err != nil {
		respondError(c, h.log, err, "failed_to_list_plans", "Erro ao listar planos.")
		return
	}

	httpresp.List(c, list)
}

func (h *ClientHandler) Checkout(c *gin.Context) {
	if h.payments == nil {
		httperr.Business(c, httperr.ErrBusiness("payment_disabled"))
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)

	var plan models.Plan
	if err := h.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Business(c, httperr.ErrBusiness("plan_not_found"))
			return
		}
		respondError(c, h.log, err, "failed_to_checkout", "Erro ao iniciar pagamento.")
		return
	}

	out, err := h.payments.CreateCheckout(ctx, payment.CheckoutItem{
		Reference:   fmt.Sprintf("plan:%d:user:%d", plan.ID, userID),
		Title:       plan.Name,
		Description: plan.Description,
		Price:       plan.Price,
	})
	if err != nil {
		h.log.ErrorContext(ctx, "checkout_failed",
			slog.Uint64("plan_id", uint64(plan.ID)),
			logger.Err(err),
		)
		httperr.Business(c, httperr.ErrBusiness("payment_failed"))
		return
	}

	httpresp.OK(c, out)
}
