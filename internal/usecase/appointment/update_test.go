package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func newUpdateCase(aps ...*models.Appointment) (*UpdateAppointment, *fakeStore, *nopRecorder, *time.Location) {
	loc := time.FixedZone("+06", 6*3600)
	store := newFakeStore(aps...)
	rec := &nopRecorder{}
	uc := NewUpdateAppointment(store, rec, loc)
	uc.now = func() time.Time { return time.Date(2025, 3, 9, 8, 0, 0, 0, loc) }
	return uc, store, rec, loc
}

func bookedAppointment(loc *time.Location) *models.Appointment {
	pending := string(domain.AttendancePending)
	return &models.Appointment{
		ID:               1,
		Service:          "Hair Cut",
		StartTime:        time.Date(2025, 3, 10, 10, 0, 0, 0, loc),
		Duration:         60,
		Status:           "scheduled",
		AttendanceStatus: &pending,
		RemindersSent:    pq.StringArray{"1_day"},
	}
}

func TestUpdateAppointment_Reschedule(t *testing.T) {
	loc := time.FixedZone("+06", 6*3600)
	uc, store, rec, _ := newUpdateCase(bookedAppointment(loc))

	ap, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		UserID:        9,
		AppointmentID: 1,
		Time:          strp("15:30"),
		Duration:      intp(45),
		Notes:         strp("bring photo"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := time.Date(2025, 3, 10, 15, 30, 0, 0, loc); !ap.StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", ap.StartTime, want)
	}
	if ap.Duration != 45 || ap.Notes != "bring photo" {
		t.Errorf("unexpected appointment %+v", ap)
	}
	if len(ap.RemindersSent) != 0 || ap.ReminderSentAt != nil {
		t.Errorf("moving an appointment must re-arm reminders, got %v", ap.RemindersSent)
	}

	want := []string{
		domain.FieldStartTime,
		domain.FieldRemindersSent,
		domain.FieldReminderSentAt,
		domain.FieldDuration,
		domain.FieldNotes,
	}
	if len(store.updated) != len(want) {
		t.Fatalf("updated %v, want %v", store.updated, want)
	}
	for i := range want {
		if store.updated[i] != want[i] {
			t.Errorf("updated[%d] = %q, want %q", i, store.updated[i], want[i])
		}
	}

	if len(rec.events) != 1 || rec.events[0].Action != audit.ActionAppointmentUpdated {
		t.Errorf("unexpected audit %+v", rec.events)
	}
}

func TestUpdateAppointment_NoChanges(t *testing.T) {
	loc := time.FixedZone("+06", 6*3600)
	uc, store, rec, _ := newUpdateCase(bookedAppointment(loc))

	ap, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		AppointmentID: 1,
		Service:       strp("Hair Cut"),
		Date:          strp("2025-03-10"),
		Time:          strp("10:00"),
		Status:        strp("scheduled"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.updated != nil || len(rec.events) != 0 {
		t.Errorf("nothing changed, got write %v audit %v", store.updated, rec.events)
	}
	if len(ap.RemindersSent) != 1 {
		t.Error("unchanged start must keep sent reminders")
	}
}

func TestUpdateAppointment_StatusChanges(t *testing.T) {
	loc := time.FixedZone("+06", 6*3600)
	uc, store, _, _ := newUpdateCase(bookedAppointment(loc))

	ap, err := uc.Execute(context.Background(), UpdateAppointmentInput{AppointmentID: 1, Status: strp("confirmed")})
	if err != nil || ap.Status != "confirmed" {
		t.Fatalf("confirm: %+v, %v", ap, err)
	}
	if len(store.updated) != 1 || store.updated[0] != domain.FieldStatus {
		t.Errorf("unexpected columns %v", store.updated)
	}

	ap, err = uc.Execute(context.Background(), UpdateAppointmentInput{AppointmentID: 1, Status: strp("canceled")})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ap.Status != "canceled" || ap.CancelledAt == nil || *ap.AttendanceStatus != "canceled" {
		t.Errorf("cancel must go through the domain rule, got %+v", ap)
	}
	if len(store.updated) != 3 {
		t.Errorf("unexpected columns %v", store.updated)
	}

	if _, err := uc.Execute(context.Background(), UpdateAppointmentInput{AppointmentID: 1, Notes: strp("called back")}); err != nil {
		t.Errorf("notes stay editable after cancel: %v", err)
	}
	if _, err := uc.Execute(context.Background(), UpdateAppointmentInput{AppointmentID: 1, Time: strp("11:00")}); businessCode(err) != "invalid_state" {
		t.Errorf("expected invalid_state, got %v", err)
	}
}

func TestUpdateAppointment_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   UpdateAppointmentInput
		code string
	}{
		{"missing", UpdateAppointmentInput{AppointmentID: 404, Notes: strp("x")}, "appointment_not_found"},
		{"unknown service", UpdateAppointmentInput{AppointmentID: 1, Service: strp("Massage")}, "invalid_service"},
		{"bad date", UpdateAppointmentInput{AppointmentID: 1, Date: strp("10/03/2025")}, "invalid_date_or_time"},
		{"bad time", UpdateAppointmentInput{AppointmentID: 1, Time: strp("25:00")}, "invalid_date_or_time"},
		{"past", UpdateAppointmentInput{AppointmentID: 1, Date: strp("2025-03-08")}, "in_the_past"},
		{"zero duration", UpdateAppointmentInput{AppointmentID: 1, Duration: intp(0)}, "invalid_duration"},
		{"long duration", UpdateAppointmentInput{AppointmentID: 1, Duration: intp(481)}, "invalid_duration"},
		{"unknown status", UpdateAppointmentInput{AppointmentID: 1, Status: strp("done")}, "invalid_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := time.FixedZone("+06", 6*3600)
			uc, store, _, _ := newUpdateCase(bookedAppointment(loc))

			_, err := uc.Execute(context.Background(), tt.in)
			if got := businessCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
			if store.updated != nil {
				t.Errorf("rejected update must not write, got %v", store.updated)
			}
		})
	}
}
