package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/calendar"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/messaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/calendarsync"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/reminder"
)

type stubSync struct {
	err error
}

func (s stubSync) Execute(context.Context) (*calendarsync.SyncResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &calendarsync.SyncResult{Created: 1, Errors: []calendarsync.SyncError{}}, nil
}

type stubReminders struct {
	err    error
	dryRun bool
}

func (s *stubReminders) Execute(_ context.Context, dryRun bool) (*reminder.DispatchResult, error) {
	s.dryRun = dryRun
	if s.err != nil {
		return nil, s.err
	}
	return &reminder.DispatchResult{}, nil
}

func TestJobsHandlerRunSyncStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"locked", lock.ErrLocked, http.StatusConflict},
		{"not configured", &calendar.FetchError{Kind: calendar.KindNotConfigured, Err: errors.New("no credentials")}, http.StatusServiceUnavailable},
		{"provider", fmt.Errorf("fetch events: %w", &calendar.FetchError{Kind: calendar.KindProvider, StatusCode: 500, Err: errors.New("boom")}), http.StatusBadGateway},
		{"other", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/sync", NewJobsHandler(stubSync{err: tc.err}, &stubReminders{}).RunSync)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync", nil))
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestJobsHandlerRunRemindersDryRun(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rem := &stubReminders{}
	r := gin.New()
	r.POST("/reminders", NewJobsHandler(stubSync{}, rem).RunReminders)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reminders?dry_run=true", nil))
	if w.Code != http.StatusOK || !rem.dryRun {
		t.Fatalf("expected dry run 200, got %d dryRun=%v", w.Code, rem.dryRun)
	}

	rem.err = messaging.ErrNotConfigured
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reminders", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
