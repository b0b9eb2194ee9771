package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
)

// EventDeleter is satisfied by calendar.GoogleCalendar.
type EventDeleter interface {
	IsConfigured() bool
	DeleteEvent(ctx context.Context, eventID string) error
}

type DeleteAppointment struct {
	repo     domain.AppointmentStore
	calendar EventDeleter
	audit    audit.Recorder
	logger   *zap.Logger
}

func NewDeleteAppointment(
	repo domain.AppointmentStore,
	calendar EventDeleter,
	recorder audit.Recorder,
	logger *zap.Logger,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:     repo,
		calendar: calendar,
		audit:    recorder,
		logger:   logger.With(zap.String("component", "appointment-delete")),
	}
}

// Execute deletes the appointment locally, then tries to delete the linked
// calendar event. A calendar failure is logged and reported as false.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (calendarDeleted bool, err error) {

	ap, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return false, err
	}

	if err := uc.repo.DeleteAppointment(ctx, ap.ID); err != nil {
		return false, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   audit.ActionAppointmentDeleted,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	if ap.EventID == nil || *ap.EventID == "" || uc.calendar == nil || !uc.calendar.IsConfigured() {
		return false, nil
	}

	if err := uc.calendar.DeleteEvent(ctx, *ap.EventID); err != nil {
		uc.logger.Warn("calendar event not deleted",
			zap.Uint("appointment_id", ap.ID),
			zap.String("event_id", *ap.EventID),
			zap.Error(err),
		)
		return false, nil
	}

	return true, nil
}
