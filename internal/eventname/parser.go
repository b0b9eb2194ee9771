// Package eventname turns free-text calendar event titles into the client and
// service they describe. Titles follow the "Client Name - Service" convention
// used by the salon staff, optionally followed by a third segment (usually a
// phone number).
package eventname

import (
	"strings"

	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

const Separator = " - "

type Parsed struct {
	ClientName *string
	Service    string
	Extra      string
}

// Parse never fails: a title without a separator is a service-only event
// ("Lunch", "Closed") and keeps the whole trimmed title as the service.
func Parse(title string) Parsed {
	if !strings.Contains(title, Separator) {
		return Parsed{Service: strings.TrimSpace(title)}
	}

	parts := strings.SplitN(title, Separator, 3)

	out := Parsed{Service: strings.TrimSpace(parts[1])}
	if name := strings.TrimSpace(parts[0]); name != "" {
		out.ClientName = &name
	}
	if len(parts) == 3 {
		out.Extra = strings.TrimSpace(parts[2])
	}

	return out
}

// PhoneHint returns the third segment only when it looks like a phone
// number. Anything else is free text and must not reach the client record.
func (p Parsed) PhoneHint() string {
	if p.Extra == "" || !validators.IsPhoneNumber(p.Extra) {
		return ""
	}
	return validators.NormalizePhone(p.Extra)
}

func (p Parsed) HasClient() bool {
	return p.ClientName != nil
}
