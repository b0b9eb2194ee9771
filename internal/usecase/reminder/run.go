package reminder

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/archive"
	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	rdomain "github.com/BruksfildServices01/salon-scheduler/internal/domain/reminder"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/messaging"
)

const (
	JobName = "reminders"
	lockTTL = 30 * time.Minute
)

// RunReminders is the reminder trigger for the configured windows.
type RunReminders struct {
	dispatcher *Dispatcher
	gateway    Gateway
	windows    []rdomain.Window
	locker     lock.Locker
	audit      audit.Recorder
	archive    archive.Archiver
	logger     *zap.Logger
	now        func() time.Time
}

// NewRunReminders accepts a nil archive.
func NewRunReminders(
	dispatcher *Dispatcher,
	gateway Gateway,
	windows []rdomain.Window,
	locker lock.Locker,
	recorder audit.Recorder,
	arch archive.Archiver,
	logger *zap.Logger,
) *RunReminders {
	return &RunReminders{
		dispatcher: dispatcher,
		gateway:    gateway,
		windows:    windows,
		locker:     locker,
		audit:      recorder,
		archive:    arch,
		logger:     logger.With(zap.String("job", JobName)),
		now:        time.Now,
	}
}

// Execute returns lock.ErrLocked when another run is active and
// messaging.ErrNotConfigured when a real run has no gateway credentials.
func (uc *RunReminders) Execute(ctx context.Context, dryRun bool) (*DispatchResult, error) {
	release, err := uc.locker.Acquire(ctx, JobName, lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	runID := uuid.NewString()
	log := uc.logger.With(zap.String("run_id", runID), zap.Bool("dry_run", dryRun))

	if !dryRun && !uc.gateway.IsConfigured() {
		log.Error("reminder run aborted", zap.Error(messaging.ErrNotConfigured))
		return nil, messaging.ErrNotConfigured
	}

	startedAt := uc.now()
	res := uc.dispatcher.DispatchDue(ctx, uc.windows, startedAt, dryRun)

	log.Info("reminder run finished",
		zap.Int("sent", res.Sent),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
		zap.Int("dry_run_count", res.DryRun),
		zap.Int("window_errors", res.WindowErrors),
	)

	if dryRun {
		return &res, nil
	}

	uc.audit.Dispatch(audit.Event{
		Action: audit.ActionRemindersDispatched,
		Entity: "reminder",
		Metadata: map[string]any{
			"run_id":  runID,
			"sent":    res.Sent,
			"skipped": res.Skipped,
			"failed":  res.Failed,
		},
	})

	if uc.archive != nil {
		body, err := json.Marshal(map[string]any{
			"run_id":     runID,
			"started_at": startedAt,
			"windows":    uc.windows,
			"result":     res,
		})
		if err == nil {
			if _, err := uc.archive.Put(ctx, archive.KindReminderRuns, body); err != nil {
				log.Warn("archive reminder run", zap.Error(err))
			}
		}
	}

	return &res, nil
}
