package calendarsync

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/client"
)

func TestFixAppointmentData(t *testing.T) {
	repo := newMemRepo()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	repo.appointments = []*models.Appointment{
		{ID: 100, Service: "Maria Rossi - Hair Cut", StartTime: start, Duration: 60},
		{ID: 101, Service: "Lunch Break", StartTime: start, Duration: 60},
		{ID: 102, Service: " - Beard Shaping", StartTime: start, Duration: 60},
	}
	repo.nextID = 200
	rec := &fakeRecorder{}

	uc := NewFixAppointmentData(repo, client.NewResolver(repo, zap.NewNop()), rec, zap.NewNop())

	fixed, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fixed != 1 {
		t.Fatalf("expected 1 fixed, got %d", fixed)
	}

	c := repo.client("Maria Rossi")
	if c == nil {
		t.Fatal("expected client created")
	}

	ap, _ := repo.GetAppointment(context.Background(), 100)
	if ap.ClientID == nil || *ap.ClientID != c.ID || ap.Service != "Hair Cut" {
		t.Errorf("unexpected appointment %+v", ap)
	}

	if len(rec.events) != 1 {
		t.Errorf("expected one audit event, got %d", len(rec.events))
	}

	again, _ := uc.Execute(context.Background())
	if again != 0 {
		t.Errorf("expected nothing left to fix, got %d", again)
	}
}
