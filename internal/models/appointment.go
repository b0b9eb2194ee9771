package models

import (
	"time"

	"github.com/lib/pq"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID *uint   `gorm:"index" json:"client_id"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	Service   string    `gorm:"size:100;not null" json:"service"`
	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	Duration  int       `gorm:"default:60" json:"duration"`

	Status           string  `gorm:"size:20;default:'scheduled'" json:"status"`
	AttendanceStatus *string `gorm:"size:20" json:"attendance_status"`

	// RemindersSent holds the labels of reminder windows already delivered.
	RemindersSent  pq.StringArray `gorm:"type:text[];default:'{}'" json:"reminders_sent"`
	ReminderSentAt *time.Time     `json:"reminder_sent_at"`

	Notes   string  `gorm:"type:text" json:"notes"`
	EventID *string `gorm:"size:255;uniqueIndex" json:"event_id"`

	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.Duration) * time.Minute)
}

func (a *Appointment) HasReminder(label string) bool {
	for _, l := range a.RemindersSent {
		if l == label {
			return true
		}
	}
	return false
}
