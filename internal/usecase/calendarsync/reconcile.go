// Package calendarsync mirrors the salon's external calendar into local
// appointments.
package calendarsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/eventname"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var (
	errMissingID      = errors.New("event has no id")
	errMissingStart   = errors.New("event has no start time")
	errEndBeforeStart = errors.New("event ends before it starts")
	errMissingService = errors.New("missing service name")
)

// ClientResolver is satisfied by client.Resolver.
type ClientResolver interface {
	Resolve(ctx context.Context, clientName *string, phoneHint string) (*models.Client, error)
}

type SyncError struct {
	ExternalID string `json:"external_id"`
	Message    string `json:"message"`
}

type SyncResult struct {
	Created int         `json:"created"`
	Updated int         `json:"updated"`
	Errors  []SyncError `json:"errors"`
}

type Reconciler struct {
	store    domain.AppointmentStore
	resolver ClientResolver
	logger   *zap.Logger
}

func NewReconciler(
	store domain.AppointmentStore,
	resolver ClientResolver,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		store:    store,
		resolver: resolver,
		logger:   logger.With(zap.String("component", "reconciler")),
	}
}

// Reconcile applies every event independently. A failing event is recorded
// in the result and never stops the others.
func (r *Reconciler) Reconcile(ctx context.Context, events []calendar.ExternalEvent) *SyncResult {
	res := &SyncResult{Errors: []SyncError{}}

	for _, ev := range events {
		created, updated, err := r.apply(ctx, ev)
		if err != nil {
			r.logger.Warn("event not synced",
				zap.String("event_id", ev.ExternalID),
				zap.String("title", ev.Title),
				zap.Error(err),
			)
			res.Errors = append(res.Errors, SyncError{
				ExternalID: ev.ExternalID,
				Message:    err.Error(),
			})
			continue
		}

		if created {
			res.Created++
		}
		if updated {
			res.Updated++
		}
	}

	return res
}

func (r *Reconciler) apply(ctx context.Context, ev calendar.ExternalEvent) (created, updated bool, err error) {
	switch {
	case ev.ExternalID == "":
		return false, false, errMissingID
	case ev.Start.IsZero():
		return false, false, errMissingStart
	case ev.End.Before(ev.Start):
		return false, false, errEndBeforeStart
	}

	parsed := eventname.Parse(ev.Title)

	existing, err := r.store.FindAppointmentByEventID(ctx, ev.ExternalID)
	if errors.Is(err, domain.ErrNotFound) {
		if err := r.create(ctx, ev, parsed); err != nil {
			return false, false, err
		}
		return true, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("find appointment: %w", err)
	}

	updated, err = r.update(ctx, existing, ev, parsed)
	return false, updated, err
}

func (r *Reconciler) create(ctx context.Context, ev calendar.ExternalEvent, parsed eventname.Parsed) error {
	if parsed.Service == "" {
		return errMissingService
	}

	client, err := r.resolver.Resolve(ctx, parsed.ClientName, parsed.PhoneHint())
	if err != nil {
		return fmt.Errorf("resolve client: %w", err)
	}

	eventID := ev.ExternalID
	attendance := string(domain.AttendancePending)

	ap := &models.Appointment{
		ClientID:         clientID(client),
		Service:          parsed.Service,
		StartTime:        ev.Start,
		Duration:         durationMinutes(ev),
		Status:           string(domain.SyncedStatus()),
		AttendanceStatus: &attendance,
		EventID:          &eventID,
	}

	if err := r.store.CreateAppointment(ctx, ap); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	r.logger.Info("appointment created from calendar",
		zap.Uint("appointment_id", ap.ID),
		zap.String("event_id", eventID),
		zap.String("service", ap.Service),
	)

	return nil
}

// update writes only the columns whose values differ from the event.
func (r *Reconciler) update(
	ctx context.Context,
	ap *models.Appointment,
	ev calendar.ExternalEvent,
	parsed eventname.Parsed,
) (bool, error) {

	var fields []string

	if !ap.StartTime.Truncate(time.Second).Equal(ev.Start.Truncate(time.Second)) {
		ap.StartTime = ev.Start
		fields = append(fields, domain.FieldStartTime)
	}

	if d := durationMinutes(ev); ap.Duration != d {
		ap.Duration = d
		fields = append(fields, domain.FieldDuration)
	}

	// an empty service in the title leaves the stored one alone
	if parsed.Service != "" && ap.Service != parsed.Service {
		ap.Service = parsed.Service
		fields = append(fields, domain.FieldService)
	}

	var wantClient *uint
	if parsed.HasClient() {
		client, err := r.resolver.Resolve(ctx, parsed.ClientName, parsed.PhoneHint())
		if err != nil {
			return false, fmt.Errorf("resolve client: %w", err)
		}
		wantClient = clientID(client)
	}
	if !sameID(ap.ClientID, wantClient) {
		ap.ClientID = wantClient
		ap.Client = nil
		fields = append(fields, domain.FieldClientID)
	}

	if len(fields) == 0 {
		return false, nil
	}

	if err := r.store.UpdateAppointment(ctx, ap, fields...); err != nil {
		return false, fmt.Errorf("update appointment: %w", err)
	}

	r.logger.Info("appointment updated from calendar",
		zap.Uint("appointment_id", ap.ID),
		zap.String("event_id", ev.ExternalID),
		zap.Strings("fields", fields),
	)

	return true, nil
}

// durationMinutes treats zero-length events like events without an end.
func durationMinutes(ev calendar.ExternalEvent) int {
	if d := ev.DurationMinutes(); d > 0 {
		return d
	}
	return int(calendar.DefaultEventLength / time.Minute)
}

func clientID(c *models.Client) *uint {
	if c == nil {
		return nil
	}
	id := c.ID
	return &id
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
