package ticktick

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies API failures so callers can react without parsing
// response bodies.
type ErrorKind string

// Error kinds, in rough order of how often they show up in practice.
const (
	KindAuthentication ErrorKind = "authentication"
	KindNotFound       ErrorKind = "not_found"
	KindValidation     ErrorKind = "validation"
	KindConfiguration  ErrorKind = "configuration"
	KindRateLimit      ErrorKind = "rate_limit"
	KindQuota          ErrorKind = "quota"
	KindForbidden      ErrorKind = "forbidden"
	KindServer         ErrorKind = "server"
	KindUnknown        ErrorKind = "unknown"
)

// APIError represents an error from a TickTick API operation.
type APIError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Op is the operation that failed (e.g., "signon", "batchTasks").
	Op string

	// StatusCode is the HTTP status, or 0 when the request never left.
	StatusCode int

	// Message carries the server's error text or a local description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ticktick %s: %s", e.Op, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap implements the errors.Unwrap interface.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// IsAuthenticationError reports whether err is an authentication failure
// (missing/invalid/expired session, failed login or 2FA).
func IsAuthenticationError(err error) bool {
	return IsKind(err, KindAuthentication)
}

// IsNotFoundError reports whether err is a not-found failure.
func IsNotFoundError(err error) bool {
	return IsKind(err, KindNotFound)
}

// TwoFactorRequiredError signals that sign-on succeeded up to the point of
// needing a TOTP code. AuthID identifies the pending challenge and must be
// passed to Authenticate2FA. The challenge's expiry window is server-defined.
type TwoFactorRequiredError struct {
	AuthID string
}

// Error implements the error interface.
func (e *TwoFactorRequiredError) Error() string {
	return "ticktick signon: two-factor code required (authId " + e.AuthID + ")"
}

// IsTwoFactorRequired reports whether err signals a pending 2FA challenge.
func IsTwoFactorRequired(err error) bool {
	var tfa *TwoFactorRequiredError
	return errors.As(err, &tfa)
}

func authError(op, message string, err error) *APIError {
	return &APIError{Kind: KindAuthentication, Op: op, Message: message, Err: err}
}

func configError(op, message string) *APIError {
	return &APIError{Kind: KindConfiguration, Op: op, Message: message}
}

func transportError(op string, err error) *APIError {
	return &APIError{Kind: KindUnknown, Op: op, Message: "request failed", Err: err}
}

func decodeError(op string, err error) *APIError {
	return &APIError{Kind: KindUnknown, Op: op, Message: "malformed response body", Err: err}
}

// classifyStatus converts a non-2xx HTTP response into a typed error. The
// body text is kept verbatim so callers can surface the server's own wording.
func classifyStatus(op string, statusCode int, body string) *APIError {
	kind := KindUnknown
	switch {
	case statusCode == 401:
		kind = KindAuthentication
	case statusCode == 403:
		kind = KindForbidden
		// Quota violations come back as 403 with an exceed_* error code.
		if strings.Contains(body, "exceed") || strings.Contains(body, "quota") {
			kind = KindQuota
		}
	case statusCode == 404:
		kind = KindNotFound
	case statusCode == 429:
		kind = KindRateLimit
	case statusCode == 400 || statusCode == 422:
		kind = KindValidation
	case statusCode >= 500:
		kind = KindServer
	}

	return &APIError{
		Kind:       kind,
		Op:         op,
		StatusCode: statusCode,
		Message:    strings.TrimSpace(body),
	}
}
