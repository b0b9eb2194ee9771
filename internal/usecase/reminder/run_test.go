package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	rdomain "github.com/BruksfildServices01/salon-scheduler/internal/domain/reminder"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/messaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type recorder struct{ events []audit.Event }

func (r *recorder) Dispatch(ev audit.Event) { r.events = append(r.events, ev) }

func newRun(t *testing.T, store *memStore, gw *fakeGateway, locker lock.Locker, rec *recorder) *RunReminders {
	uc := NewRunReminders(newDispatcher(t, store, gw), gw, []rdomain.Window{oneDay}, locker, rec, nil, zap.NewNop())
	uc.now = func() time.Time { return scenarioNow }
	return uc
}

func TestRunReminders_NotConfigured(t *testing.T) {
	store := &memStore{appointments: []*models.Appointment{scenarioAppointment()}}
	gw := &fakeGateway{configured: false}

	_, err := newRun(t, store, gw, lock.NewMemory(), &recorder{}).Execute(context.Background(), false)
	if !errors.Is(err, messaging.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	res, err := newRun(t, store, gw, lock.NewMemory(), &recorder{}).Execute(context.Background(), true)
	if err != nil || res.DryRun != 1 {
		t.Fatalf("dry run must work without credentials: %+v, %v", res, err)
	}
}

func TestRunReminders_AuditsRealRuns(t *testing.T) {
	store := &memStore{appointments: []*models.Appointment{scenarioAppointment()}}
	rec := &recorder{}

	res, err := newRun(t, store, &fakeGateway{configured: true}, lock.NewMemory(), rec).Execute(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sent != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(rec.events) != 1 || rec.events[0].Action != audit.ActionRemindersDispatched {
		t.Errorf("unexpected audit events %+v", rec.events)
	}
}

func TestRunReminders_SkipsWhenLocked(t *testing.T) {
	gw := &fakeGateway{configured: true}
	_, err := newRun(t, &memStore{}, gw, heldLocker{}, &recorder{}).Execute(context.Background(), false)
	if !errors.Is(err, lock.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}
