package dto

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID               uint      `json:"id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	LocalTime        string    `json:"local_time"`
	Duration         int       `json:"duration"`
	Service          string    `json:"service"`
	Status           string    `json:"status"`
	AttendanceStatus string    `json:"attendance_status"`
	ClientID         *uint     `json:"client_id"`
	ClientName       string    `json:"client_name"`
	ClientPhone      string    `json:"client_phone"`
	FromCalendar     bool      `json:"from_calendar"`
	RemindersSent    []string  `json:"reminders_sent"`
}

func NewAppointmentListDTO(ap *models.Appointment, loc *time.Location) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:            ap.ID,
		StartTime:     ap.StartTime,
		EndTime:       ap.EndTime(),
		LocalTime:     ap.StartTime.In(loc).Format("15:04"),
		Duration:      ap.Duration,
		Service:       ap.Service,
		Status:        ap.Status,
		ClientID:      ap.ClientID,
		FromCalendar:  ap.EventID != nil,
		RemindersSent: []string(ap.RemindersSent),
	}
	if out.RemindersSent == nil {
		out.RemindersSent = []string{}
	}
	if ap.AttendanceStatus != nil {
		out.AttendanceStatus = *ap.AttendanceStatus
	}
	if ap.Client != nil {
		out.ClientName = ap.Client.Name
		out.ClientPhone = ap.Client.PhoneNumber()
	}
	return out
}
