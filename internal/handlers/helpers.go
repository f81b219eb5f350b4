package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/logger"
	"github.com/BruksfildServices01/care-marketplace/internal/middleware"
	ucRequest "github.com/BruksfildServices01/care-marketplace/internal/usecase/request"
)

func currentUserID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}

func currentRole(c *gin.Context) string {
	return c.GetString(middleware.ContextUserRole)
}

// parseID lê um id de rota; em caso de erro já respondeu 400.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern monta o padrão de busca por trecho para usar com
// "LIKE ? ESCAPE '\'"; % e _ digitados valem como texto.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func invalidRequest(c *gin.Context) {
	httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
}

// respondError traduz erros de negócio; o resto vira 500 com o código
// informado.
func respondError(c *gin.Context, log *slog.Logger, err error, code, message string) {
	if httperr.Business(c, err) {
		return
	}

	log.ErrorContext(c.Request.Context(), code,
		slog.String("request_id", c.GetString(middleware.ContextRequestID)),
		logger.Err(err),
	)
	httperr.Internal(c, code, message)
}

// respondTransition devolve o chamado gravado. Falha parcial da conversa
// sai em "warnings" com o mesmo status de sucesso.
func respondTransition(c *gin.Context, log *slog.Logger, status int, res *ucRequest.TransitionResult) {
	body := gin.H{
		"request":              res.Request,
		"conversation":         res.Conversation,
		"conversation_created": res.ConversationCreated,
	}
	if res.Appointment != nil {
		body["appointment"] = res.Appointment
	}

	if warnings := res.Warnings(); len(warnings) > 0 {
		log.WarnContext(c.Request.Context(), "transition_partial_success",
			slog.Uint64("request_id", uint64(res.Request.ID)),
			logger.Err(res.ConversationErr),
		)
		body["warnings"] = warnings
	}

	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, body)
}
