package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainMessaging "github.com/BruksfildServices01/care-marketplace/internal/domain/messaging"
	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/metrics"
	ucMessaging "github.com/BruksfildServices01/care-marketplace/internal/usecase/messaging"
)

type ConversationHandler struct {
	listUC   *ucMessaging.ListConversations
	threadUC *ucMessaging.FetchThread
	sendUC   *ucMessaging.SendMessage
	readUC   *ucMessaging.MarkRead
	metrics  *metrics.Collector
	log      *slog.Logger
}

func NewConversationHandler(
	listUC *ucMessaging.ListConversations,
	threadUC *ucMessaging.FetchThread,
	sendUC *ucMessaging.SendMessage,
	readUC *ucMessaging.MarkRead,
	m *metrics.Collector,
	log *slog.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		listUC:   listUC,
		threadUC: threadUC,
		sendUC:   sendUC,
		readUC:   readUC,
		metrics:  m,
		log:      log,
	}
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *ConversationHandler) List(c *gin.Context) {
	out := h.listUC.Execute(c.Request.Context(), currentUserID(c), currentRole(c))
	c.JSON(http.StatusOK, out)
}

// Messages aceita since em RFC3339 e after_id, ambos devolvidos pela página
// anterior; sem since devolve a conversa inteira.
func (h *ConversationHandler) Messages(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var cursor domainMessaging.Cursor
	if s := c.Query("since"); s != "" {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			httperr.BadRequest(c, "invalid_since", "Parâmetro since inválido.")
			return
		}
		cursor.Since = t
	}
	if s := c.Query("after_id"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_after_id", "Parâmetro after_id inválido.")
			return
		}
		cursor.AfterID = uint(n)
	}

	page, err := h.threadUC.Execute(c.Request.Context(), id, currentUserID(c), cursor)
	if err != nil {
		respondError(c, h.log, err, "messages_failed", "Erro ao carregar mensagens.")
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *ConversationHandler) Send(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	msg, err := h.sendUC.Execute(c.Request.Context(), id, currentUserID(c), req.Content)
	if err != nil {
		respondError(c, h.log, err, "send_message_failed", "Erro ao enviar mensagem.")
		return
	}

	h.metrics.RecordMessageSent()
	c.JSON(http.StatusCreated, msg)
}

func (h *ConversationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	n, err := h.readUC.Execute(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondError(c, h.log, err, "mark_read_failed", "Erro ao marcar mensagens como lidas.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": n})
}
