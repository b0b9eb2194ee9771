package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type MarkAttendance struct {
	repo  domain.AppointmentStore
	audit audit.Recorder
}

func NewMarkAttendance(
	repo domain.AppointmentStore,
	recorder audit.Recorder,
) *MarkAttendance {
	return &MarkAttendance{
		repo:  repo,
		audit: recorder,
	}
}

func (uc *MarkAttendance) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
	attendance string,
) (*models.Appointment, error) {

	a, ok := domain.ParseAttendance(attendance)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_attendance")
	}

	ap, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.MarkAttendance(ap, a); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap, domain.FieldAttendanceStatus); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   audit.ActionAttendanceMarked,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"attendance": string(a)},
	})

	return ap, nil
}
