package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/infra/storage"
	"github.com/BruksfildServices01/care-marketplace/internal/media"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

type MeHandler struct {
	db    *gorm.DB
	store storage.ObjectStore
	log   *slog.Logger
}

// NewMeHandler aceita store nil: o envio de foto responde 503.
func NewMeHandler(db *gorm.DB, store storage.ObjectStore, log *slog.Logger) *MeHandler {
	return &MeHandler{db: db, store: store, log: log}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := currentUserID(c)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Profile").
		First(&user, userID).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
			return
		}
		respondError(c, h.log, err, "me_failed", "Erro ao carregar usuário.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"role":      user.Role,
			"full_name": user.DisplayName(""),
		},
		"profile": user.Profile,
	})
}

// UploadPhoto recebe multipart (campo "photo"), converte para WebP e
// grava a URL no perfil.
func (h *MeHandler) UploadPhoto(c *gin.Context) {
	if h.store == nil {
		httperr.Business(c, httperr.ErrBusiness("photo_upload_disabled"))
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)

	// Perfil antes do upload: sem ele o objeto ficaria órfão no bucket.
	var profile models.Profile
	if err := h.db.WithContext(ctx).
		Select("id").
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "profile_not_found", "Perfil não encontrado.")
			return
		}
		respondError(c, h.log, err, "photo_save_failed", "Erro ao salvar a foto.")
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		invalidRequest(c)
		return
	}
	if fh.Size > media.MaxUploadBytes {
		httperr.Business(c, httperr.ErrBusiness("invalid_image"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		invalidRequest(c)
		return
	}
	defer f.Close()

	data, err := media.ProcessPhoto(f)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) {
			httperr.Business(c, httperr.ErrBusiness("invalid_image"))
			return
		}
		respondError(c, h.log, err, "photo_processing_failed", "Erro ao processar a foto.")
		return
	}

	key := fmt.Sprintf("profiles/%d/%d.webp", userID, time.Now().UnixNano())

	url, err := h.store.Put(ctx, key, media.ContentType, data)
	if err != nil {
		respondError(c, h.log, err, "photo_upload_failed", "Erro ao enviar a foto.")
		return
	}

	if err := h.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", profile.ID).
		Update("photo_url", url).Error; err != nil {
		respondError(c, h.log, err, "photo_save_failed", "Erro ao salvar a foto.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
