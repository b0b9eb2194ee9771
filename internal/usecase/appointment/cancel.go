package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type CancelAppointment struct {
	repo  domain.AppointmentStore
	audit audit.Recorder
	now   func() time.Time
}

func NewCancelAppointment(
	repo domain.AppointmentStore,
	recorder audit.Recorder,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: recorder,
		now:   time.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap,
		domain.FieldStatus,
		domain.FieldAttendanceStatus,
		domain.FieldCancelledAt,
	); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   audit.ActionAppointmentCanceled,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

func loadAppointment(ctx context.Context, repo domain.AppointmentStore, id uint) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return ap, err
}
