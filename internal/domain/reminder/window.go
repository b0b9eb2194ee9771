package reminder

import (
	"strings"
	"time"
)

// Window is a reminder look-ahead: appointments on the local calendar day
// that is LeadTime away from now get the reminder labelled Label.
type Window struct {
	Label    string        `json:"label"`
	LeadTime time.Duration `json:"lead_time"`
}

const day = 24 * time.Hour

// DayInterval returns the half-open [start, end) of the target day in loc.
// Whole days of LeadTime move the local calendar date, so 23 and 25 hour
// days around DST changes still land on the right day.
func (w Window) DayInterval(now time.Time, loc *time.Location) (time.Time, time.Time) {
	days := int(w.LeadTime / day)
	target := now.In(loc).AddDate(0, 0, days).Add(w.LeadTime % day)
	start := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// Humanize renders the label for messages: "3_days" -> "3 days".
func (w Window) Humanize() string {
	return strings.ReplaceAll(w.Label, "_", " ")
}
