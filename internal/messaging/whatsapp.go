// Package messaging talks to the WhatsApp Cloud API.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/httpclient"
)

// ErrNotConfigured is returned when no token or sender id is set.
var ErrNotConfigured = errors.New("whatsapp token or phone number id is not configured")

// maxBodyLog caps how much of a provider response is kept for logs.
const maxBodyLog = 4096

type SendResult struct {
	Success        bool
	ProviderStatus int
	ProviderBody   string
	MessageID      string
}

// ProviderError is a non-2xx answer from the Graph API.
type ProviderError struct {
	Status  int
	Code    int
	Message string
	Body    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("whatsapp send failed (status %d)", e.Status)
	}
	return fmt.Sprintf("whatsapp send failed (status %d, code %d): %s", e.Status, e.Code, e.Message)
}

type WhatsAppClient struct {
	cfg    config.MessagingConfig
	http   *http.Client
	logger *zap.Logger
}

func NewWhatsAppClient(cfg config.MessagingConfig, logger *zap.Logger) *WhatsAppClient {
	return &WhatsAppClient{
		cfg:    cfg,
		http:   httpclient.New(httpclient.Options{SkipTLSVerify: !cfg.SSLVerify}),
		logger: logger.With(zap.String("component", "whatsapp")),
	}
}

func (c *WhatsAppClient) IsConfigured() bool {
	return c.cfg.Token != "" && c.cfg.PhoneNumberID != ""
}

type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Send posts a text message. A *ProviderError is returned together with
// the result when the API rejects the request.
func (c *WhatsAppClient) Send(ctx context.Context, to, body string) (*SendResult, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/%s/messages",
		strings.TrimRight(c.cfg.BaseURL, "/"),
		c.cfg.APIVersion,
		c.cfg.PhoneNumberID,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp send: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyLog))
	if err != nil {
		return nil, fmt.Errorf("whatsapp read response: %w", err)
	}

	res := &SendResult{
		ProviderStatus: resp.StatusCode,
		ProviderBody:   string(raw),
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		perr := &ProviderError{Status: resp.StatusCode, Body: string(raw)}

		var er errorResponse
		if json.Unmarshal(raw, &er) == nil {
			perr.Code = er.Error.Code
			perr.Message = er.Error.Message
		}

		return res, perr
	}

	var sr sendResponse
	if json.Unmarshal(raw, &sr) == nil && len(sr.Messages) > 0 {
		res.MessageID = sr.Messages[0].ID
	}

	res.Success = true
	return res, nil
}
