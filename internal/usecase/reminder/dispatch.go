// Package reminder sends appointment reminders over WhatsApp, once per
// appointment and reminder window.
package reminder

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	rdomain "github.com/BruksfildServices01/salon-scheduler/internal/domain/reminder"
	"github.com/BruksfildServices01/salon-scheduler/internal/messaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

const TimeLayout = "03:04 PM"

// Gateway is satisfied by messaging.WhatsAppClient.
type Gateway interface {
	IsConfigured() bool
	Send(ctx context.Context, to, body string) (*messaging.SendResult, error)
}

type DispatchResult struct {
	Sent         int `json:"sent"`
	Skipped      int `json:"skipped"`
	Failed       int `json:"failed"`
	DryRun       int `json:"dry_run"`
	WindowErrors int `json:"window_errors"`
}

type Options struct {
	Template       string
	ActiveStatuses []string
	BusinessLoc    *time.Location
	DisplayLoc     *time.Location
}

type Dispatcher struct {
	store    domain.ReminderStore
	messages domain.MessageStore
	gateway  Gateway
	opts     Options
	logger   *zap.Logger
}

func NewDispatcher(
	store domain.ReminderStore,
	messages domain.MessageStore,
	gateway Gateway,
	opts Options,
	logger *zap.Logger,
) *Dispatcher {
	if opts.BusinessLoc == nil {
		opts.BusinessLoc = time.UTC
	}
	if opts.DisplayLoc == nil {
		opts.DisplayLoc = opts.BusinessLoc
	}
	return &Dispatcher{
		store:    store,
		messages: messages,
		gateway:  gateway,
		opts:     opts,
		logger:   logger.With(zap.String("component", "reminder-dispatcher")),
	}
}

// DispatchDue sends the reminders due for each window on the day the
// window points at. Failed sends leave the window unmarked so the next run
// retries them.
func (d *Dispatcher) DispatchDue(
	ctx context.Context,
	windows []rdomain.Window,
	now time.Time,
	dryRun bool,
) DispatchResult {

	var res DispatchResult

	for _, w := range windows {
		start, end := w.DayInterval(now, d.opts.BusinessLoc)
		log := d.logger.With(
			zap.String("window", w.Label),
			zap.Time("from", start),
			zap.Time("to", end),
			zap.Bool("dry_run", dryRun),
		)

		appointments, err := d.store.ListDueAppointments(ctx, start, end, d.opts.ActiveStatuses, w.Label)
		if err != nil {
			log.Error("list due appointments", zap.Error(err))
			res.WindowErrors++
			continue
		}

		log.Info("scanning reminder window", zap.Int("due", len(appointments)))

		for i := range appointments {
			d.dispatchOne(ctx, log, &appointments[i], w, now, dryRun, &res)
		}
	}

	return res
}

func (d *Dispatcher) dispatchOne(
	ctx context.Context,
	log *zap.Logger,
	ap *models.Appointment,
	w rdomain.Window,
	now time.Time,
	dryRun bool,
	res *DispatchResult,
) {
	log = log.With(zap.Uint("appointment_id", ap.ID))

	raw := strings.TrimSpace(ap.Client.PhoneNumber())
	if raw == "" {
		log.Info("reminder skipped: no client phone")
		res.Skipped++
		return
	}
	to, ok := recipient(raw)
	if !ok {
		log.Warn("reminder skipped: invalid client phone", zap.String("phone", raw))
		res.Skipped++
		return
	}

	body := Render(d.opts.Template, map[string]string{
		"name": ap.Client.Name,
		"time": ap.StartTime.In(d.opts.DisplayLoc).Format(TimeLayout),
		"days": w.Humanize(),
	})

	if dryRun {
		log.Info("dry run: would send reminder",
			zap.String("to", to),
			zap.String("message", body),
		)
		res.DryRun++
		return
	}

	sent, err := d.gateway.Send(ctx, to, body)
	if err != nil {
		fields := []zap.Field{zap.String("to", to), zap.Error(err)}
		var perr *messaging.ProviderError
		if errors.As(err, &perr) {
			fields = append(fields,
				zap.Int("status", perr.Status),
				zap.Int("code", perr.Code),
				zap.String("body", perr.Body),
			)
		}
		log.Error("reminder send failed", fields...)
		res.Failed++
		return
	}

	marked, err := d.store.MarkReminderSent(ctx, ap.ID, w.Label, now)
	if err != nil {
		// the message is out; the next run may send it again
		log.Error("mark reminder sent", zap.Error(err))
	} else if !marked {
		log.Warn("reminder already marked by a concurrent run")
	}

	d.record(ctx, log, ap, w, to, body, sent, now)

	log.Info("reminder sent", zap.String("to", to), zap.String("message_id", sent.MessageID))
	res.Sent++
}

func (d *Dispatcher) record(
	ctx context.Context,
	log *zap.Logger,
	ap *models.Appointment,
	w rdomain.Window,
	to, body string,
	sent *messaging.SendResult,
	now time.Time,
) {
	at := now
	r := &models.Reminder{
		ClientID:          ap.ClientID,
		AppointmentID:     ap.ID,
		Window:            w.Label,
		ProviderMessageID: sent.MessageID,
		MessageSentAt:     now,
	}
	if err := d.store.CreateReminder(ctx, r); err != nil {
		log.Warn("write reminder row", zap.Error(err))
	}

	if d.messages == nil || sent.MessageID == "" {
		return
	}

	id := sent.MessageID
	msg := &models.WhatsAppMessage{
		WAMessageID: &id,
		ToWAID:      to,
		Type:        "text",
		Body:        body,
		Direction:   models.DirectionOutbound,
		Status:      messaging.StatusSent,
		SentAt:      &at,
	}
	if err := d.messages.UpsertMessage(ctx, msg); err != nil {
		log.Warn("store outbound message", zap.Error(err))
	}
}

// recipient returns the gateway address for a stored phone, digits only.
func recipient(phone string) (string, bool) {
	if !validators.IsPhoneNumber(phone) {
		return "", false
	}
	return strings.TrimPrefix(validators.NormalizePhone(phone), "+"), true
}
