package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/archive"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/messaging"
)

const maxWebhookBody = 1 << 20

// WebhookHandler receives WhatsApp Cloud API callbacks.
type WebhookHandler struct {
	verifyToken string
	appSecret   string
	store       domain.MessageStore
	archive     archive.Archiver
	logger      *zap.Logger
}

// NewWebhookHandler accepts a nil archive. Signatures are only checked when
// appSecret is set.
func NewWebhookHandler(
	verifyToken string,
	appSecret string,
	store domain.MessageStore,
	arch archive.Archiver,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		appSecret:   appSecret,
		store:       store,
		archive:     arch,
		logger:      logger.With(zap.String("component", "whatsapp-webhook")),
	}
}

// Verify answers Meta's subscription handshake with the raw challenge.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "subscribe" || h.verifyToken == "" || token != h.verifyToken {
		c.String(http.StatusForbidden, "Invalid verification token")
		return
	}

	c.String(http.StatusOK, challenge)
}

func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable_body"})
		return
	}

	if h.appSecret != "" && !messaging.VerifySignature(h.appSecret, body, c.GetHeader("X-Hub-Signature-256")) {
		h.logger.Warn("webhook signature mismatch")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_signature"})
		return
	}

	var payload messaging.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload"})
		return
	}

	ctx := c.Request.Context()

	inbound := payload.InboundMessages()
	for i := range inbound {
		if err := h.store.UpsertMessage(ctx, &inbound[i]); err != nil {
			h.logger.Error("store inbound message", zap.Error(err))
		}
	}

	statuses := payload.StatusUpdates()
	for _, st := range statuses {
		if st.WAMessageID == "" {
			h.logger.Warn("status without message id", zap.String("status", st.Status))
			continue
		}
		if err := h.store.UpsertMessageStatus(ctx, st.WAMessageID, st.Status, st.RecipientID, st.At); err != nil {
			h.logger.Error("store message status", zap.String("wa_message_id", st.WAMessageID), zap.Error(err))
		}
	}

	if h.archive != nil {
		if _, err := h.archive.Put(ctx, archive.KindWebhook, body); err != nil {
			h.logger.Warn("archive webhook payload", zap.Error(err))
		}
	}

	h.logger.Debug("webhook processed",
		zap.Int("messages", len(inbound)),
		zap.Int("statuses", len(statuses)),
	)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
