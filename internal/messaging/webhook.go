package messaging

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Status values stored for messages.
const (
	StatusReceived = "received"
	StatusSent     = "sent"
)

// WebhookPayload is the subset of Meta's change notification we store.
type WebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string       `json:"field"`
			Value webhookValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookValue struct {
	Metadata struct {
		DisplayPhoneNumber string `json:"display_phone_number"`
		PhoneNumberID      string `json:"phone_number_id"`
	} `json:"metadata"`
	Messages []json.RawMessage `json:"messages"`
	Statuses []webhookStatus   `json:"statuses"`
}

type inboundMessage struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive *struct {
		ButtonReply *struct {
			Title string `json:"title"`
		} `json:"button_reply"`
		ListReply *struct {
			Title string `json:"title"`
		} `json:"list_reply"`
	} `json:"interactive"`
}

type webhookStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// StatusUpdate is a delivery receipt for a message we sent.
type StatusUpdate struct {
	WAMessageID string
	Status      string
	RecipientID string
	At          *time.Time
}

// InboundMessages flattens every message in the payload. Messages without
// an id are skipped since they cannot be deduplicated.
func (p *WebhookPayload) InboundMessages() []models.WhatsAppMessage {
	var out []models.WhatsAppMessage

	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			to := change.Value.Metadata.DisplayPhoneNumber

			for _, raw := range change.Value.Messages {
				var msg inboundMessage
				if err := json.Unmarshal(raw, &msg); err != nil || msg.ID == "" {
					continue
				}

				id := msg.ID
				typ := msg.Type
				if typ == "" {
					typ = "unknown"
				}

				out = append(out, models.WhatsAppMessage{
					WAMessageID: &id,
					FromWAID:    msg.From,
					ToWAID:      to,
					Type:        typ,
					Body:        msg.body(),
					Direction:   models.DirectionInbound,
					Status:      StatusReceived,
					SentAt:      unixTime(msg.Timestamp),
					RawPayload:  string(raw),
				})
			}
		}
	}

	return out
}

func (p *WebhookPayload) StatusUpdates() []StatusUpdate {
	var out []StatusUpdate

	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, st := range change.Value.Statuses {
				out = append(out, StatusUpdate{
					WAMessageID: st.ID,
					Status:      st.Status,
					RecipientID: st.RecipientID,
					At:          unixTime(st.Timestamp),
				})
			}
		}
	}

	return out
}

func (m inboundMessage) body() string {
	switch m.Type {
	case "text":
		if m.Text != nil {
			return m.Text.Body
		}
	case "interactive":
		if m.Interactive == nil {
			return ""
		}
		if m.Interactive.ButtonReply != nil {
			return m.Interactive.ButtonReply.Title
		}
		if m.Interactive.ListReply != nil {
			return m.Interactive.ListReply.Title
		}
	}
	return ""
}

func unixTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

// VerifySignature checks the X-Hub-Signature-256 header ("sha256=<hex>").
func VerifySignature(appSecret string, body []byte, header string) bool {
	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}

	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)

	return hmac.Equal(got, mac.Sum(nil))
}
