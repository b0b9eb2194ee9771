package models

import "time"

// Reminder is the append-only record of a reminder that actually went out.
type Reminder struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID      *uint  `gorm:"index" json:"client_id"`
	AppointmentID uint   `gorm:"index;not null" json:"appointment_id"`
	Window        string `gorm:"column:window_label;size:50;index" json:"window"`

	ProviderMessageID string    `gorm:"size:255" json:"provider_message_id"`
	MessageSentAt     time.Time `json:"message_sent_at"`

	CreatedAt time.Time `json:"created_at"`
}
