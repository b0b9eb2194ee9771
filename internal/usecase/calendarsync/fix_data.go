package calendarsync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/eventname"
)

// FixAppointmentData repairs appointments imported before titles were
// parsed, whose service still holds the whole "Client - Service" title.
type FixAppointmentData struct {
	store    domain.AppointmentStore
	resolver ClientResolver
	audit    audit.Recorder
	logger   *zap.Logger
}

func NewFixAppointmentData(
	store domain.AppointmentStore,
	resolver ClientResolver,
	recorder audit.Recorder,
	logger *zap.Logger,
) *FixAppointmentData {
	return &FixAppointmentData{
		store:    store,
		resolver: resolver,
		audit:    recorder,
		logger:   logger.With(zap.String("job", "fix-data")),
	}
}

func (uc *FixAppointmentData) Execute(ctx context.Context) (int, error) {
	appointments, err := uc.store.ListUnlinkedAppointments(ctx)
	if err != nil {
		return 0, fmt.Errorf("list unlinked appointments: %w", err)
	}

	fixed := 0
	for i := range appointments {
		ap := &appointments[i]

		parsed := eventname.Parse(ap.Service)
		if !parsed.HasClient() {
			continue
		}

		client, err := uc.resolver.Resolve(ctx, parsed.ClientName, parsed.PhoneHint())
		if err != nil || client == nil {
			uc.logger.Warn("appointment not fixed",
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err),
			)
			continue
		}

		id := client.ID
		ap.ClientID = &id
		fields := []string{domain.FieldClientID}

		if parsed.Service != "" {
			ap.Service = parsed.Service
			fields = append(fields, domain.FieldService)
		}

		if err := uc.store.UpdateAppointment(ctx, ap, fields...); err != nil {
			uc.logger.Warn("appointment not fixed",
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err),
			)
			continue
		}

		fixed++
	}

	uc.logger.Info("appointment data fixed",
		zap.Int("candidates", len(appointments)),
		zap.Int("fixed", fixed),
	)

	if fixed > 0 {
		uc.audit.Dispatch(audit.Event{
			Action:   audit.ActionAppointmentsFixed,
			Entity:   "appointment",
			Metadata: map[string]int{"fixed": fixed},
		})
	}

	return fixed, nil
}
