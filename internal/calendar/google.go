package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/httpclient"
)

const pageSize = 250

// GoogleCalendar reads and deletes events of one Google calendar.
type GoogleCalendar struct {
	cfg    config.CalendarConfig
	loc    *time.Location
	logger *zap.Logger

	mu      sync.Mutex
	service *gcal.Service
}

func NewGoogleCalendar(cfg config.CalendarConfig, loc *time.Location, logger *zap.Logger) *GoogleCalendar {
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	return &GoogleCalendar{
		cfg:    cfg,
		loc:    loc,
		logger: logger.With(zap.String("component", "calendar")),
	}
}

// NewGoogleCalendarWithService wraps an already authenticated service.
func NewGoogleCalendarWithService(svc *gcal.Service, calendarID string, loc *time.Location, logger *zap.Logger) *GoogleCalendar {
	g := NewGoogleCalendar(config.CalendarConfig{CalendarID: calendarID}, loc, logger)
	g.service = svc
	return g
}

// IsConfigured reports whether a credentials file is available. A missing
// OAuth token is only detected when the client is built.
func (g *GoogleCalendar) IsConfigured() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.service != nil {
		return true
	}
	if g.cfg.CredentialsPath == "" {
		return false
	}
	_, err := os.Stat(g.cfg.CredentialsPath)
	return err == nil
}

// FetchEvents returns the single (recurrence-expanded) events starting in
// [start, end), ordered by start time.
func (g *GoogleCalendar) FetchEvents(ctx context.Context, start, end time.Time) ([]ExternalEvent, error) {
	svc, err := g.calendarService()
	if err != nil {
		return nil, err
	}

	call := svc.Events.List(g.cfg.CalendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		ShowDeleted(false).
		OrderBy("startTime").
		MaxResults(pageSize)

	var events []ExternalEvent
	err = call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			ev := toExternalEvent(item, g.loc)
			// the API also returns events that started earlier and are still running
			if !ev.Start.IsZero() && ev.Start.Before(start) {
				continue
			}
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		fe := Classify(err)
		g.logger.Error("fetch events failed",
			zap.String("kind", fe.Kind.String()),
			zap.Int("status", fe.StatusCode),
			zap.Error(fe),
		)
		return nil, fe
	}

	g.logger.Debug("fetched events",
		zap.Int("count", len(events)),
		zap.Time("window_start", start),
		zap.Time("window_end", end),
	)

	return events, nil
}

// DeleteEvent removes an event. Events that are already gone count as deleted.
func (g *GoogleCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	svc, err := g.calendarService()
	if err != nil {
		return err
	}

	err = svc.Events.Delete(g.cfg.CalendarID, eventID).
		SendUpdates("none").
		Context(ctx).
		Do()
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
		return nil
	}

	return Classify(err)
}

func (g *GoogleCalendar) calendarService() (*gcal.Service, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.service != nil {
		return g.service, nil
	}

	svc, err := g.buildService()
	if err != nil {
		return nil, err
	}
	g.service = svc
	return svc, nil
}

func (g *GoogleCalendar) buildService() (*gcal.Service, error) {
	if g.cfg.CredentialsPath == "" {
		return nil, notConfigured("GOOGLE_CREDENTIALS_PATH is not set")
	}

	data, err := os.ReadFile(g.cfg.CredentialsPath)
	if err != nil {
		return nil, notConfigured("read credentials: %w", err)
	}

	base := httpclient.New(httpclient.Options{SkipTLSVerify: !g.cfg.SSLVerify})

	// token refreshes go through the bounded client too and must not be tied
	// to the lifetime of a single request
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	source, err := g.tokenSource(tokenCtx, data)
	if err != nil {
		return nil, err
	}

	client := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, source),
			Base:   base.Transport,
		},
		Timeout: base.Timeout,
	}

	svc, err := gcal.NewService(tokenCtx, option.WithHTTPClient(client))
	if err != nil {
		return nil, notConfigured("create calendar service: %w", err)
	}

	return svc, nil
}

func (g *GoogleCalendar) tokenSource(ctx context.Context, data []byte) (oauth2.TokenSource, error) {
	if !isOAuthClientJSON(data) {
		creds, err := google.CredentialsFromJSON(ctx, data, gcal.CalendarScope)
		if err != nil {
			return nil, notConfigured("parse credentials: %w", err)
		}
		return creds.TokenSource, nil
	}

	oc, err := google.ConfigFromJSON(data, gcal.CalendarScope)
	if err != nil {
		return nil, notConfigured("parse oauth client: %w", err)
	}

	if g.cfg.TokenPath == "" {
		return nil, notConfigured("GOOGLE_TOKEN_PATH is required for oauth client credentials")
	}

	tok, err := tokenFromFile(g.cfg.TokenPath)
	if err != nil {
		return nil, notConfigured("load token: %w", err)
	}

	return oc.TokenSource(ctx, tok), nil
}

// isOAuthClientJSON detects desktop ("installed") and web client secrets,
// which need a separately stored user token.
func isOAuthClientJSON(data []byte) bool {
	var probe struct {
		Installed json.RawMessage `json:"installed"`
		Web       json.RawMessage `json:"web"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return len(probe.Installed) > 0 || len(probe.Web) > 0
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return tok, nil
}
