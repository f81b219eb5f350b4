package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/care-marketplace/internal/auth"
	"github.com/BruksfildServices01/care-marketplace/internal/metrics"
	"github.com/BruksfildServices01/care-marketplace/internal/middleware"
)

type AuthHandler struct {
	auth    *auth.Service
	metrics *metrics.Collector
	log     *slog.Logger
}

func NewAuthHandler(svc *auth.Service, m *metrics.Collector, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: svc, metrics: m, log: log}
}

// --------- Requests ---------

type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	AcceptedTerms   bool   `json:"accepted_terms"`

	FullName  string `json:"full_name" binding:"required"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	CPF       string `json:"cpf"`
	CEP       string `json:"cep"`
	City      string `json:"city"`
	Address   string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		AcceptedTerms:   req.AcceptedTerms,
		FullName:        req.FullName,
		Phone:           req.Phone,
		BirthDate:       req.BirthDate,
		CPF:             req.CPF,
		CEP:             req.CEP,
		City:            req.City,
		Address:         req.Address,
	})
	if err != nil {
		respondError(c, h.log, err, "register_failed", "Erro ao criar conta")
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	h.metrics.RecordLogin(err == nil)
	if err != nil {
		respondError(c, h.log, err, "login_failed", "Erro ao entrar.")
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionID)

	if err := h.auth.Logout(c.Request.Context(), sessionID); err != nil {
		respondError(c, h.log, err, "logout_failed", "Erro ao sair.")
		return
	}

	c.Status(http.StatusNoContent)
}
