package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/messaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type memStore struct {
	appointments []*models.Appointment
	reminders    []models.Reminder
	messages     []models.WhatsAppMessage
	listErr      error
}

func (m *memStore) ListDueAppointments(_ context.Context, start, end time.Time, statuses []string, window string) ([]models.Appointment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	var out []models.Appointment
	for _, ap := range m.appointments {
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		if !contains(statuses, ap.Status) || ap.HasReminder(window) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (m *memStore) MarkReminderSent(_ context.Context, id uint, window string, at time.Time) (bool, error) {
	for _, ap := range m.appointments {
		if ap.ID != id {
			continue
		}
		if ap.HasReminder(window) {
			return false, nil
		}
		ap.RemindersSent = append(ap.RemindersSent, window)
		ap.ReminderSentAt = &at
		return true, nil
	}
	return false, errors.New("not found")
}

func (m *memStore) CreateReminder(_ context.Context, r *models.Reminder) error {
	m.reminders = append(m.reminders, *r)
	return nil
}

func (m *memStore) UpsertMessage(_ context.Context, msg *models.WhatsAppMessage) error {
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memStore) UpsertMessageStatus(context.Context, string, string, string, *time.Time) error {
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type sentMessage struct {
	to, body string
}

type fakeGateway struct {
	configured bool
	sent       []sentMessage
	failFor    map[string]error
}

func (g *fakeGateway) IsConfigured() bool { return g.configured }

func (g *fakeGateway) Send(_ context.Context, to, body string) (*messaging.SendResult, error) {
	if err := g.failFor[to]; err != nil {
		return &messaging.SendResult{ProviderStatus: 400}, err
	}
	g.sent = append(g.sent, sentMessage{to: to, body: body})
	return &messaging.SendResult{Success: true, ProviderStatus: 200, MessageID: "wamid." + to}, nil
}

type heldLocker struct{}

func (heldLocker) Acquire(context.Context, string, time.Duration) (lock.Release, error) {
	return nil, lock.ErrLocked
}
