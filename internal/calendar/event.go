// Package calendar fetches appointments booked directly in the salon's
// Google Calendar and normalizes them for reconciliation.
package calendar

import (
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

// DefaultEventLength applies when the provider returns an event without an end.
const DefaultEventLength = 60 * time.Minute

type ExternalEvent struct {
	ExternalID   string    `json:"external_id"`
	Title        string    `json:"title"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	LastModified time.Time `json:"last_modified"`
}

// DurationMinutes is the whole number of minutes between Start and End.
func (e ExternalEvent) DurationMinutes() int {
	return int(e.End.Sub(e.Start) / time.Minute)
}

func toExternalEvent(item *gcal.Event, loc *time.Location) ExternalEvent {
	ev := ExternalEvent{
		ExternalID: item.Id,
		Title:      item.Summary,
	}

	start, ok := parseEventTime(item.Start, loc)
	if !ok {
		return ev
	}
	ev.Start = start

	if end, ok := parseEventTime(item.End, loc); ok {
		ev.End = end
	} else {
		ev.End = start.Add(DefaultEventLength)
	}

	if item.Updated != "" {
		if updated, err := time.Parse(time.RFC3339, item.Updated); err == nil {
			ev.LastModified = updated
		}
	}

	return ev
}

// parseEventTime handles both timed events (dateTime) and all-day events
// (date only, interpreted at local midnight).
func parseEventTime(edt *gcal.EventDateTime, loc *time.Location) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}

	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	if edt.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", edt.Date, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	return time.Time{}, false
}
