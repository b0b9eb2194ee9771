package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var ErrNotFound = errors.New("not found")

// Appointment columns that may be passed to UpdateAppointment.
const (
	FieldClientID         = "client_id"
	FieldService          = "service"
	FieldStartTime        = "start_time"
	FieldDuration         = "duration"
	FieldStatus           = "status"
	FieldAttendanceStatus = "attendance_status"
	FieldCancelledAt      = "cancelled_at"
	FieldNotes            = "notes"
	FieldRemindersSent    = "reminders_sent"
	FieldReminderSentAt   = "reminder_sent_at"
)

// -------- Client --------

type ClientStore interface {
	// FindClientByName matches case-insensitively; lowest id wins on ties.
	FindClientByName(ctx context.Context, name string) (*models.Client, error)
	CreateClient(ctx context.Context, c *models.Client) error
	SetClientPhone(ctx context.Context, clientID uint, phone string) error
}

// -------- Appointment --------

type AppointmentStore interface {
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	FindAppointmentByEventID(ctx context.Context, eventID string) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, ap *models.Appointment) error

	// UpdateAppointment writes only the listed columns, or the whole row when
	// fields is empty.
	UpdateAppointment(ctx context.Context, ap *models.Appointment, fields ...string) error
	DeleteAppointment(ctx context.Context, id uint) error

	ListAppointmentsForPeriod(ctx context.Context, start, end time.Time) ([]models.Appointment, error)

	// ListUnlinkedAppointments returns appointments without a client whose
	// service still contains the title separator.
	ListUnlinkedAppointments(ctx context.Context) ([]models.Appointment, error)
}

// AppointmentFilter narrows SearchAppointments. Zero values do not filter.
type AppointmentFilter struct {
	// Query matches client name or phone, service, notes and status.
	Query string

	// From and To bound start_time as [From, To).
	From time.Time
	To   time.Time

	Status     string
	Service    string
	Attendance string

	Limit  int
	Offset int
}

type AppointmentQuery interface {
	// SearchAppointments returns one page ordered by start time plus the
	// total number of matches, client preloaded.
	SearchAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, int64, error)
}

// -------- Reminders --------

type ReminderStore interface {
	// ListDueAppointments returns appointments starting in [start, end) whose
	// status is in statuses and that have not fired window yet, client preloaded.
	ListDueAppointments(ctx context.Context, start, end time.Time, statuses []string, window string) ([]models.Appointment, error)

	// MarkReminderSent reports false when the window was already marked.
	MarkReminderSent(ctx context.Context, appointmentID uint, window string, at time.Time) (bool, error)
	CreateReminder(ctx context.Context, r *models.Reminder) error
}

// -------- WhatsApp messages --------

type MessageStore interface {
	UpsertMessage(ctx context.Context, m *models.WhatsAppMessage) error
	UpsertMessageStatus(ctx context.Context, waMessageID, status, recipient string, at *time.Time) error
}

type Repository interface {
	ClientStore
	AppointmentStore
	AppointmentQuery
	ReminderStore
	MessageStore
}
