package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

const (
	DefaultDuration = 60
	maxDuration     = 8 * 60
)

// ClientResolver is satisfied by client.Resolver.
type ClientResolver interface {
	Resolve(ctx context.Context, clientName *string, phoneHint string) (*models.Client, error)
}

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	UserID uint

	ClientName  string
	ClientPhone string

	Service  string
	Date     string
	Time     string
	Duration int
	Notes    string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.AppointmentStore
	resolver ClientResolver
	audit    audit.Recorder
	loc      *time.Location
	now      func() time.Time
}

func NewCreateAppointment(
	repo domain.AppointmentStore,
	resolver ClientResolver,
	recorder audit.Recorder,
	loc *time.Location,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		resolver: resolver,
		audit:    recorder,
		loc:      loc,
		now:      time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Service
	// --------------------------------------------------
	service := strings.TrimSpace(in.Service)
	if !domain.IsBookableService(service) {
		return nil, httperr.ErrBusiness("invalid_service")
	}

	// --------------------------------------------------
	// 2️⃣ Date / time in the business timezone
	// --------------------------------------------------
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		strings.TrimSpace(in.Date)+" "+strings.TrimSpace(in.Time),
		uc.loc,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	if start.Before(uc.now()) {
		return nil, httperr.ErrBusiness("in_the_past")
	}

	duration := in.Duration
	if duration == 0 {
		duration = DefaultDuration
	}
	if duration < 0 || duration > maxDuration {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	// --------------------------------------------------
	// 3️⃣ Client (find or create)
	// --------------------------------------------------
	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		return nil, httperr.ErrBusiness("client_name_required")
	}

	phone := ""
	if strings.TrimSpace(in.ClientPhone) != "" {
		if !validators.IsPhoneNumber(in.ClientPhone) {
			return nil, httperr.ErrBusiness("invalid_phone")
		}
		phone = validators.NormalizePhone(in.ClientPhone)
	}

	client, err := uc.resolver.Resolve(ctx, &name, phone)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Appointment (overlaps are allowed)
	// --------------------------------------------------
	attendance := string(domain.AttendancePending)
	clientID := client.ID

	ap := &models.Appointment{
		ClientID:         &clientID,
		Client:           client,
		Service:          service,
		StartTime:        start,
		Duration:         duration,
		Status:           string(domain.InitialStatus()),
		AttendanceStatus: &attendance,
		Notes:            in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   audit.ActionAppointmentCreated,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
