package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// UpdateAppointmentInput only changes the fields that are set. Date and Time
// may be sent alone; the missing half keeps its current local value.
type UpdateAppointmentInput struct {
	UserID        uint
	AppointmentID uint

	Service  *string
	Date     *string
	Time     *string
	Duration *int
	Notes    *string
	Status   *string
}

type UpdateAppointment struct {
	repo  domain.AppointmentStore
	audit audit.Recorder
	loc   *time.Location
	now   func() time.Time
}

func NewUpdateAppointment(
	repo domain.AppointmentStore,
	recorder audit.Recorder,
	loc *time.Location,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: recorder,
		loc:   loc,
		now:   time.Now,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	fields, err := uc.apply(ap, in)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return ap, nil
	}

	if err := uc.repo.UpdateAppointment(ctx, ap, fields...); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   audit.ActionAppointmentUpdated,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"fields": fields},
	})

	return ap, nil
}

// apply mutates ap and returns the columns that changed. Canceled
// appointments only accept notes.
func (uc *UpdateAppointment) apply(ap *models.Appointment, in UpdateAppointmentInput) ([]string, error) {
	var fields []string
	canceled := domain.Status(ap.Status) == domain.StatusCanceled

	if canceled && (in.Service != nil || in.Date != nil || in.Time != nil || in.Duration != nil || in.Status != nil) {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	if in.Service != nil {
		service := strings.TrimSpace(*in.Service)
		if !domain.IsBookableService(service) {
			return nil, httperr.ErrBusiness("invalid_service")
		}
		if service != ap.Service {
			ap.Service = service
			fields = append(fields, domain.FieldService)
		}
	}

	if in.Date != nil || in.Time != nil {
		local := ap.StartTime.In(uc.loc)
		date, clock := local.Format(dateLayout), local.Format("15:04")
		if in.Date != nil {
			date = strings.TrimSpace(*in.Date)
		}
		if in.Time != nil {
			clock = strings.TrimSpace(*in.Time)
		}

		start, err := time.ParseInLocation(dateLayout+" 15:04", date+" "+clock, uc.loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		if !start.Equal(ap.StartTime) {
			if start.Before(uc.now()) {
				return nil, httperr.ErrBusiness("in_the_past")
			}
			// A moved appointment is reminded again for its new time.
			ap.StartTime = start
			ap.RemindersSent = pq.StringArray{}
			ap.ReminderSentAt = nil
			fields = append(fields,
				domain.FieldStartTime,
				domain.FieldRemindersSent,
				domain.FieldReminderSentAt,
			)
		}
	}

	if in.Duration != nil {
		if *in.Duration <= 0 || *in.Duration > maxDuration {
			return nil, httperr.ErrBusiness("invalid_duration")
		}
		if *in.Duration != ap.Duration {
			ap.Duration = *in.Duration
			fields = append(fields, domain.FieldDuration)
		}
	}

	if in.Notes != nil && *in.Notes != ap.Notes {
		ap.Notes = *in.Notes
		fields = append(fields, domain.FieldNotes)
	}

	if in.Status != nil {
		st, ok := domain.ParseStatus(strings.TrimSpace(*in.Status))
		if !ok {
			return nil, httperr.ErrBusiness("invalid_status")
		}
		switch {
		case st == domain.StatusCanceled:
			if err := domain.Cancel(ap, uc.now()); err != nil {
				return nil, err
			}
			fields = append(fields,
				domain.FieldStatus,
				domain.FieldAttendanceStatus,
				domain.FieldCancelledAt,
			)
		case string(st) != ap.Status:
			ap.Status = string(st)
			fields = append(fields, domain.FieldStatus)
		}
	}

	return fields, nil
}
