package calendar

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

type ErrorKind int

const (
	KindNotConfigured ErrorKind = iota + 1
	KindTransport
	KindAuth
	KindProvider
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotConfigured:
		return "not_configured"
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	case KindProvider:
		return "provider"
	}
	return "unknown"
}

const certificateHint = "certificate validation failed; set GOOGLE_SSL_VERIFY=false to disable certificate validation in this environment"

// FetchError classifies a failed call to the calendar provider.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Hint       string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Hint != "":
		return fmt.Sprintf("calendar %s error: %s", e.Kind, e.Hint)
	case e.Kind == KindProvider:
		return fmt.Sprintf("calendar provider error (status %d): %v", e.StatusCode, e.Err)
	case e.Kind == KindNotConfigured:
		return fmt.Sprintf("calendar not configured: %v", e.Err)
	}
	return fmt.Sprintf("calendar %s error: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable is true for failures the next scheduled run may not hit again.
func (e *FetchError) Retryable() bool {
	return e.Kind == KindTransport
}

// IsConfiguration is true when no run can succeed until an operator acts.
func (e *FetchError) IsConfiguration() bool {
	return e.Kind == KindNotConfigured || e.Kind == KindAuth
}

func notConfigured(format string, args ...any) *FetchError {
	return &FetchError{Kind: KindNotConfigured, Err: fmt.Errorf(format, args...)}
}

// IsConfigurationError reports whether err aborts a whole run.
func IsConfigurationError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.IsConfiguration()
}

// Classify maps an error from the Google client stack to a FetchError.
func Classify(err error) *FetchError {
	if err == nil {
		return nil
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized {
			return &FetchError{Kind: KindAuth, StatusCode: apiErr.Code, Err: err}
		}
		return &FetchError{Kind: KindProvider, StatusCode: apiErr.Code, Err: err}
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return &FetchError{Kind: KindAuth, StatusCode: status, Err: err}
	}

	if isCertificateError(err) {
		return &FetchError{Kind: KindTransport, Hint: certificateHint, Err: err}
	}

	return &FetchError{Kind: KindTransport, Err: err}
}

func isCertificateError(err error) bool {
	var unknownAuthority x509.UnknownAuthorityError
	var invalid x509.CertificateInvalidError
	var hostname x509.HostnameError
	var verification *tls.CertificateVerificationError

	switch {
	case errors.As(err, &unknownAuthority),
		errors.As(err, &invalid),
		errors.As(err, &hostname),
		errors.As(err, &verification):
		return true
	}

	return strings.Contains(err.Error(), "x509:")
}
