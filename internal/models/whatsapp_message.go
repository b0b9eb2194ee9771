package models

import "time"

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

type WhatsAppMessage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	WAMessageID *string `gorm:"column:wa_message_id;size:255;uniqueIndex" json:"wa_message_id"`
	FromWAID    string  `gorm:"column:from_wa_id;size:50;index" json:"from_wa_id"`
	ToWAID      string  `gorm:"column:to_wa_id;size:50;index" json:"to_wa_id"`

	Type      string `gorm:"size:30;index" json:"type"`
	Body      string `gorm:"type:text" json:"body"`
	Direction string `gorm:"size:10;default:'inbound';index" json:"direction"`
	Status    string `gorm:"size:20;index" json:"status"`

	SentAt     *time.Time `gorm:"index" json:"sent_at"`
	RawPayload string     `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WhatsAppMessage) TableName() string {
	return "whats_app_messages"
}
