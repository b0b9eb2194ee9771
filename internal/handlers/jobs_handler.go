package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/calendar"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/messaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/calendarsync"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/reminder"
)

type SyncRunner interface {
	Execute(ctx context.Context) (*calendarsync.SyncResult, error)
}

type ReminderRunner interface {
	Execute(ctx context.Context, dryRun bool) (*reminder.DispatchResult, error)
}

// JobsHandler exposes the sync and reminder triggers to staff.
type JobsHandler struct {
	sync      SyncRunner
	reminders ReminderRunner
}

func NewJobsHandler(sync SyncRunner, reminders ReminderRunner) *JobsHandler {
	return &JobsHandler{sync: sync, reminders: reminders}
}

func (h *JobsHandler) RunSync(c *gin.Context) {
	res, err := h.sync.Execute(c.Request.Context())
	if err != nil {
		writeJobError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *JobsHandler) RunReminders(c *gin.Context) {
	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))

	res, err := h.reminders.Execute(c.Request.Context(), dryRun)
	if err != nil {
		writeJobError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"dry_run": dryRun,
		"result":  res,
	})
}

func writeJobError(c *gin.Context, err error) {
	var fe *calendar.FetchError

	switch {
	case errors.Is(err, lock.ErrLocked):
		httperr.Conflict(c, "job_running", "This job is already running.")
	case errors.Is(err, messaging.ErrNotConfigured), calendar.IsConfigurationError(err):
		httperr.Unavailable(c, "not_configured", err.Error())
	case errors.As(err, &fe):
		httperr.BadGateway(c, "calendar_unavailable", err.Error())
	default:
		httperr.Internal(c, "job_failed", "Job failed.")
	}
}
