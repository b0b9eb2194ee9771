package message

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/messaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// MaxBodyLength is WhatsApp's limit for a text message body.
const MaxBodyLength = 4096

// Gateway is satisfied by messaging.WhatsAppClient.
type Gateway interface {
	IsConfigured() bool
	Send(ctx context.Context, to, body string) (*messaging.SendResult, error)
}

// SendMessage sends a free-text WhatsApp message on behalf of a staff member.
type SendMessage struct {
	gateway Gateway
	store   domain.MessageStore
	audit   audit.Recorder
	logger  *zap.Logger
	now     func() time.Time
}

func NewSendMessage(
	gateway Gateway,
	store domain.MessageStore,
	recorder audit.Recorder,
	logger *zap.Logger,
) *SendMessage {
	return &SendMessage{
		gateway: gateway,
		store:   store,
		audit:   recorder,
		logger:  logger.With(zap.String("component", "manual-message")),
		now:     time.Now,
	}
}

// Execute returns messaging.ErrNotConfigured without credentials and a
// *messaging.ProviderError when Meta rejects the message.
func (uc *SendMessage) Execute(
	ctx context.Context,
	userID uint,
	to string,
	body string,
) (*models.WhatsAppMessage, error) {

	if !validators.IsPhoneNumber(to) {
		return nil, httperr.ErrBusiness("invalid_phone")
	}
	recipient := strings.TrimPrefix(validators.NormalizePhone(to), "+")

	body = strings.TrimSpace(body)
	if body == "" || len(body) > MaxBodyLength {
		return nil, httperr.ErrBusiness("invalid_message_body")
	}

	if !uc.gateway.IsConfigured() {
		return nil, messaging.ErrNotConfigured
	}

	sent, err := uc.gateway.Send(ctx, recipient, body)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	at := uc.now()
	msg := &models.WhatsAppMessage{
		ToWAID:    recipient,
		Type:      "text",
		Body:      body,
		Direction: models.DirectionOutbound,
		Status:    messaging.StatusSent,
		SentAt:    &at,
	}
	if sent.MessageID != "" {
		id := sent.MessageID
		msg.WAMessageID = &id

		if err := uc.store.UpsertMessage(ctx, msg); err != nil {
			uc.logger.Warn("store outbound message", zap.String("wa_message_id", id), zap.Error(err))
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID: &userID,
		Action: audit.ActionMessageSent,
		Entity: "whatsapp_message",
		Metadata: map[string]any{
			"to":         recipient,
			"message_id": sent.MessageID,
		},
	})

	return msg, nil
}
