package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Actions written by the sync and reminder jobs and the staff API.
const (
	ActionCalendarSynced      = "calendar_synced"
	ActionRemindersDispatched = "reminders_dispatched"
	ActionAppointmentCreated  = "appointment_created"
	ActionAppointmentCanceled = "appointment_canceled"
	ActionAppointmentUpdated  = "appointment_updated"
	ActionAppointmentDeleted  = "appointment_deleted"
	ActionAttendanceMarked    = "attendance_marked"
	ActionAppointmentsFixed   = "appointments_fixed"
	ActionMessageSent         = "message_sent"
	ActionClientUpdated       = "client_updated"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Recorder is what use cases depend on; *Dispatcher implements it.
type Recorder interface {
	Dispatch(ev Event)
}

type Dispatcher struct {
	store  Store
	logger *zap.Logger
	queue  chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(store Store, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		logger: logger.With(zap.String("component", "audit")),
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.store.Log(context.Background(), ev); err != nil {
			d.logger.Error("audit write failed",
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
	}
}

// Dispatch never blocks; events are dropped when the queue is full.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits until queued ones are written or
// ctx is done. Dispatch must not be called after Close.
func (d *Dispatcher) Close(ctx context.Context) {
	d.closeOnce.Do(func() { close(d.queue) })

	select {
	case <-d.done:
	case <-ctx.Done():
		d.logger.Warn("audit queue not drained before shutdown")
	}
}
