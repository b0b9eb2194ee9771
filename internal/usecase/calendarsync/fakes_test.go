package calendarsync

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// memRepo implements domain.ClientStore and domain.AppointmentStore.
type memRepo struct {
	mu sync.Mutex

	clients      []*models.Client
	appointments []*models.Appointment
	nextID       uint

	updates      [][]string
	createApErr  map[string]error
	findEventErr error
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, createApErr: map[string]error{}}
}

func (m *memRepo) id() uint {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memRepo) FindClientByName(_ context.Context, name string) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) CreateClient(_ context.Context, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	cp := *c
	m.clients = append(m.clients, &cp)
	return nil
}

func (m *memRepo) SetClientPhone(_ context.Context, clientID uint, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if c.ID == clientID {
			c.Phone = &phone
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memRepo) client(name string) *models.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (m *memRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ap := range m.appointments {
		if ap.ID == id {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) FindAppointmentByEventID(_ context.Context, eventID string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findEventErr != nil {
		return nil, m.findEventErr
	}
	for _, ap := range m.appointments {
		if ap.EventID != nil && *ap.EventID == eventID {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ap.EventID != nil {
		if err := m.createApErr[*ap.EventID]; err != nil {
			return err
		}
	}
	ap.ID = m.id()
	cp := *ap
	m.appointments = append(m.appointments, &cp)
	return nil
}

func (m *memRepo) UpdateAppointment(_ context.Context, ap *models.Appointment, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, stored := range m.appointments {
		if stored.ID == ap.ID {
			cp := *ap
			m.appointments[i] = &cp
			m.updates = append(m.updates, fields)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memRepo) DeleteAppointment(_ context.Context, id uint) error {
	return errors.New("not supported")
}

func (m *memRepo) ListAppointmentsForPeriod(_ context.Context, start, end time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (m *memRepo) ListUnlinkedAppointments(_ context.Context) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, ap := range m.appointments {
		if ap.ClientID == nil && strings.Contains(ap.Service, " - ") {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (m *memRepo) byEventID(id string) *models.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ap := range m.appointments {
		if ap.EventID != nil && *ap.EventID == id {
			return ap
		}
	}
	return nil
}

type fakeSource struct {
	configured bool
	events     []calendar.ExternalEvent
	err        error

	start, end time.Time
	calls      int
}

func (f *fakeSource) IsConfigured() bool { return f.configured }

func (f *fakeSource) FetchEvents(_ context.Context, start, end time.Time) ([]calendar.ExternalEvent, error) {
	f.calls++
	f.start, f.end = start, end
	return f.events, f.err
}

type fakeRecorder struct {
	events []audit.Event
}

func (f *fakeRecorder) Dispatch(ev audit.Event) { f.events = append(f.events, ev) }

type fakeArchive struct {
	kinds  []string
	bodies [][]byte
}

func (f *fakeArchive) Put(_ context.Context, kind string, body []byte) (string, error) {
	f.kinds = append(f.kinds, kind)
	f.bodies = append(f.bodies, body)
	return kind + "/key.json", nil
}

type heldLocker struct{}

func (heldLocker) Acquire(context.Context, string, time.Duration) (lock.Release, error) {
	return nil, lock.ErrLocked
}
