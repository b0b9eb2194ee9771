package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// --------------------------------------------------
// WhatsApp messages
// --------------------------------------------------

// UpsertMessage keys on wa_message_id so webhook retries never duplicate rows.
func (r *GormRepository) UpsertMessage(
	ctx context.Context,
	m *models.WhatsAppMessage,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "wa_message_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"from_wa_id", "to_wa_id", "type", "body",
				"direction", "status", "sent_at", "raw_payload", "updated_at",
			}),
		}).
		Create(m).Error
}

// UpsertMessageStatus records a delivery receipt. Receipts for messages sent
// outside this service create a bare outbound row.
func (r *GormRepository) UpsertMessageStatus(
	ctx context.Context,
	waMessageID string,
	status string,
	recipient string,
	at *time.Time,
) error {
	id := waMessageID
	m := &models.WhatsAppMessage{
		WAMessageID: &id,
		ToWAID:      recipient,
		Type:        "text",
		Direction:   models.DirectionOutbound,
		Status:      status,
		SentAt:      at,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wa_message_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "sent_at", "updated_at"}),
		}).
		Create(m).Error
}
