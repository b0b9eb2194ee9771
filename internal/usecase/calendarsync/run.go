package calendarsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/archive"
	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/calendar"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
)

const (
	JobName = "sync"
	lockTTL = 10 * time.Minute
)

// EventSource is satisfied by calendar.GoogleCalendar.
type EventSource interface {
	IsConfigured() bool
	FetchEvents(ctx context.Context, start, end time.Time) ([]calendar.ExternalEvent, error)
}

type report struct {
	RunID       string      `json:"run_id"`
	StartedAt   time.Time   `json:"started_at"`
	FinishedAt  time.Time   `json:"finished_at"`
	WindowStart time.Time   `json:"window_start"`
	WindowEnd   time.Time   `json:"window_end"`
	Fetched     int         `json:"fetched"`
	Result      *SyncResult `json:"result"`
}

// RunSync is the sync trigger: fetch the configured window and reconcile it.
type RunSync struct {
	source     EventSource
	reconciler *Reconciler
	locker     lock.Locker
	audit      audit.Recorder
	archive    archive.Archiver
	cfg        config.CalendarConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewRunSync accepts a nil archive.
func NewRunSync(
	source EventSource,
	reconciler *Reconciler,
	locker lock.Locker,
	recorder audit.Recorder,
	arch archive.Archiver,
	cfg config.CalendarConfig,
	logger *zap.Logger,
) *RunSync {
	return &RunSync{
		source:     source,
		reconciler: reconciler,
		locker:     locker,
		audit:      recorder,
		archive:    arch,
		cfg:        cfg,
		logger:     logger.With(zap.String("job", JobName)),
		now:        time.Now,
	}
}

// Execute returns lock.ErrLocked when another sync is running and a
// *calendar.FetchError when the calendar cannot be read. Per-event problems
// only show up in the result.
func (uc *RunSync) Execute(ctx context.Context) (*SyncResult, error) {
	release, err := uc.locker.Acquire(ctx, JobName, lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	runID := uuid.NewString()
	log := uc.logger.With(zap.String("run_id", runID))

	if !uc.source.IsConfigured() {
		err := &calendar.FetchError{
			Kind: calendar.KindNotConfigured,
			Err:  errors.New("GOOGLE_CREDENTIALS_PATH is not set or the file does not exist"),
		}
		log.Error("calendar sync aborted", zap.Error(err))
		return nil, err
	}

	startedAt := uc.now()
	windowStart := startedAt.Add(-uc.cfg.LookBack)
	windowEnd := startedAt.Add(uc.cfg.LookAhead)

	events, err := uc.source.FetchEvents(ctx, windowStart, windowEnd)
	if err != nil {
		log.Error("calendar sync aborted", zap.Error(err))
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	res := uc.reconciler.Reconcile(ctx, events)

	log.Info("calendar sync finished",
		zap.Int("fetched", len(events)),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("errors", len(res.Errors)),
	)

	uc.audit.Dispatch(audit.Event{
		Action: audit.ActionCalendarSynced,
		Entity: "calendar",
		Metadata: map[string]any{
			"run_id":  runID,
			"fetched": len(events),
			"created": res.Created,
			"updated": res.Updated,
			"errors":  len(res.Errors),
		},
	})

	uc.archiveReport(ctx, log, report{
		RunID:       runID,
		StartedAt:   startedAt,
		FinishedAt:  uc.now(),
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Fetched:     len(events),
		Result:      res,
	})

	return res, nil
}

func (uc *RunSync) archiveReport(ctx context.Context, log *zap.Logger, r report) {
	if uc.archive == nil {
		return
	}

	body, err := json.Marshal(r)
	if err != nil {
		log.Warn("encode sync report", zap.Error(err))
		return
	}

	key, err := uc.archive.Put(ctx, archive.KindSyncReport, body)
	if err != nil {
		log.Warn("archive sync report", zap.Error(err))
		return
	}

	log.Debug("sync report archived", zap.String("key", key))
}
