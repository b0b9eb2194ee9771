package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/messaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	ucmessage "github.com/BruksfildServices01/salon-scheduler/internal/usecase/message"
)

// MessageHandler exposes the WhatsApp conversation log and manual sends.
type MessageHandler struct {
	db   *gorm.DB
	send *ucmessage.SendMessage
}

func NewMessageHandler(db *gorm.DB, send *ucmessage.SendMessage) *MessageHandler {
	return &MessageHandler{db: db, send: send}
}

type SendMessageRequest struct {
	To   string `json:"to" binding:"required"`
	Body string `json:"body" binding:"required"`
}

func (h *MessageHandler) List(c *gin.Context) {
	page, limit, offset := pagination(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.WhatsAppMessage{})

	if direction := c.Query("direction"); direction != "" {
		q = q.Where("direction = ?", direction)
	}
	if contact := c.Query("contact"); contact != "" {
		q = q.Where("from_wa_id = ? OR to_wa_id = ?", contact, contact)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "message_count_failed", "Failed to count messages.")
		return
	}

	var msgs []models.WhatsAppMessage
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error; err != nil {

		httperr.Internal(c, "message_list_failed", "Failed to list messages.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":     page,
		"limit":    limit,
		"total":    total,
		"messages": msgs,
	})
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	msg, err := h.send.Execute(c.Request.Context(), currentUserID(c), req.To, req.Body)

	var pe *messaging.ProviderError
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, msg)
	case errors.Is(err, messaging.ErrNotConfigured):
		httperr.Unavailable(c, "not_configured", "WhatsApp is not configured.")
	case errors.As(err, &pe):
		httperr.BadGateway(c, "provider_rejected", pe.Error())
	default:
		writeError(c, err, "failed_to_send_message")
	}
}
