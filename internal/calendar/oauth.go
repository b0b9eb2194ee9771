package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

// OAuthConfig loads the desktop/web client secret used for the one-time
// consent flow. The redirect is the secret's first redirect_uris entry
// (http://localhost for desktop clients). Service account credentials need
// no token and are rejected.
func OAuthConfig(cfg config.CalendarConfig) (*oauth2.Config, error) {
	if cfg.CredentialsPath == "" {
		return nil, notConfigured("GOOGLE_CREDENTIALS_PATH is not set")
	}

	data, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, notConfigured("read credentials: %w", err)
	}

	if !isOAuthClientJSON(data) {
		return nil, fmt.Errorf("%s is not an oauth client secret; service accounts do not need a token", cfg.CredentialsPath)
	}

	oc, err := google.ConfigFromJSON(data, gcal.CalendarScope)
	if err != nil {
		return nil, notConfigured("parse oauth client: %w", err)
	}
	return oc, nil
}

// AuthCodeURL asks for offline access so the stored token carries a refresh token.
func AuthCodeURL(oc *oauth2.Config) string {
	return oc.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// CodeFromInput accepts either the bare authorization code or the whole
// redirect URL the browser ended on after consent.
func CodeFromInput(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("no authorization code entered")
	}

	if !strings.Contains(input, "://") {
		return input, nil
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("parse redirect url: %w", err)
	}
	if e := u.Query().Get("error"); e != "" {
		return "", fmt.Errorf("consent denied: %s", e)
	}
	code := u.Query().Get("code")
	if code == "" {
		return "", errors.New("redirect url has no code parameter")
	}
	return code, nil
}

func ExchangeCode(ctx context.Context, oc *oauth2.Config, code string) (*oauth2.Token, error) {
	tok, err := oc.Exchange(ctx, code)
	if err != nil {
		return nil, Classify(err)
	}
	return tok, nil
}

// SaveToken writes the token readable by the owner only.
func SaveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(tok)
}
