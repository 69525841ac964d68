package ticktick

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/teemow/tickdone/internal/logging"
)

// sessionCookieName is the primary credential cookie returned by a
// successful sign-on. A token without it is useless.
const sessionCookieName = "t"

// userAgent is the fixed client identity string sent on every request.
// The service rejects requests with browser-unlike user agents.
const userAgent = "Mozilla/5.0 (rv:145.0) Firefox/145.0"

// SessionToken is an immutable snapshot of authentication state: the cookie
// jar from sign-on, the account's user and inbox ids, and an optional expiry
// hint. A new authentication attempt produces a new token; tokens are never
// mutated in place, so concurrent readers can hold one safely.
type SessionToken struct {
	cookies   map[string]string
	userID    string
	inboxID   string
	expiresAt time.Time
}

// NewSessionToken constructs a token from externally restored session state,
// e.g. cookies persisted from an earlier run. The cookie map is copied.
func NewSessionToken(cookies map[string]string, userID, inboxID string, expiresAt time.Time) (*SessionToken, error) {
	if cookies[sessionCookieName] == "" {
		return nil, fmt.Errorf("session cookie %q missing", sessionCookieName)
	}
	copied := make(map[string]string, len(cookies))
	for k, v := range cookies {
		copied[k] = v
	}
	return &SessionToken{
		cookies:   copied,
		userID:    userID,
		inboxID:   inboxID,
		expiresAt: expiresAt,
	}, nil
}

// UserID returns the account's user id.
func (t *SessionToken) UserID() string { return t.userID }

// InboxID returns the account's inbox project id, when the sign-on response
// carried it. Sync is the authoritative source.
func (t *SessionToken) InboxID() string { return t.inboxID }

// ExpiresAt returns the expiry hint, or the zero time when the server gave
// none.
func (t *SessionToken) ExpiresAt() time.Time { return t.expiresAt }

// Cookies returns a copy of the session cookies.
func (t *SessionToken) Cookies() map[string]string {
	copied := make(map[string]string, len(t.cookies))
	for k, v := range t.cookies {
		copied[k] = v
	}
	return copied
}

// CookieHeader joins all session cookies into a single Cookie header value,
// "name=value" pairs separated by "; ". Names are sorted so the header is
// stable across requests.
func (t *SessionToken) CookieHeader() string {
	names := make([]string, 0, len(t.cookies))
	for name := range t.cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+t.cookies[name])
	}
	return strings.Join(pairs, "; ")
}

// Expired reports whether the expiry hint has passed. Tokens without a hint
// never report expired; the server is the final authority either way.
func (t *SessionToken) Expired() bool {
	return !t.expiresAt.IsZero() && time.Now().After(t.expiresAt)
}

// AuthState identifies which phase of the login state machine the handler
// is in.
type AuthState string

// Login states. Transitions only happen through SessionHandler methods.
const (
	StateUnauthenticated  AuthState = "unauthenticated"
	StatePendingTwoFactor AuthState = "pending_2fa"
	StateAuthenticated    AuthState = "authenticated"
)

// SessionHandler owns the login state machine and the current session token.
//
// State transitions:
//
//	Unauthenticated  --Authenticate-->  Authenticated | PendingTwoFactor
//	PendingTwoFactor --Authenticate2FA--> Authenticated (stays pending on a
//	    rejected code; the authId survives for a retry)
//	Authenticated    --SetSession-->    Authenticated (token swapped atomically)
//	any state        --SignOut-->       Unauthenticated
//
// The token reference is replaced, never mutated, so in-flight requests keep
// reading a consistent cookie set.
type SessionHandler struct {
	baseURL    string
	deviceID   string
	httpClient *http.Client
	logger     *slog.Logger

	mu     sync.RWMutex
	state  AuthState
	authID string
	token  *SessionToken
}

// NewSessionHandler creates a handler in the Unauthenticated state. An empty
// deviceID gets a freshly generated one.
func NewSessionHandler(baseURL, deviceID string, httpClient *http.Client, logger *slog.Logger) *SessionHandler {
	if deviceID == "" {
		deviceID = NewDeviceID()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		baseURL:    baseURL,
		deviceID:   deviceID,
		httpClient: httpClient,
		logger:     logging.WithService(logger, "ticktick"),
		state:      StateUnauthenticated,
	}
}

// DeviceID returns the stable device identifier for this handler.
func (h *SessionHandler) DeviceID() string { return h.deviceID }

// State returns the current login state.
func (h *SessionHandler) State() AuthState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Session returns the current token, or nil when not authenticated.
func (h *SessionHandler) Session() *SessionToken {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// IsAuthenticated reports whether the handler holds a token that has not
// passed its expiry hint.
func (h *SessionHandler) IsAuthenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state == StateAuthenticated && h.token != nil && !h.token.Expired()
}

// SetSession installs an externally supplied or restored token, replacing any
// live one atomically, and moves the handler to Authenticated.
func (h *SessionHandler) SetSession(token *SessionToken) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
	h.authID = ""
	h.state = StateAuthenticated
}

// noteInboxID records the inbox project id learned from a sync snapshot by
// swapping in a token copy; the live token is never touched.
func (h *SessionHandler) noteInboxID(inboxID string) {
	if inboxID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.token == nil || h.token.inboxID == inboxID {
		return
	}
	updated := *h.token
	updated.inboxID = inboxID
	h.token = &updated
}

// SignOut drops the session and returns the handler to Unauthenticated.
func (h *SessionHandler) SignOut() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = nil
	h.authID = ""
	h.state = StateUnauthenticated
}

// signonResponse is the sign-on and 2FA completion payload. A 2FA-required
// sign-on carries only authId.
type signonResponse struct {
	Token   string `json:"token"`
	UserID  string `json:"userId"`
	InboxID string `json:"inboxId"`
	AuthID  string `json:"authId"`
}

// Authenticate signs on with username and password. On direct success the
// handler transitions to Authenticated and the new token is returned. When
// the account has two-factor enabled, the handler moves to PendingTwoFactor
// and a *TwoFactorRequiredError carrying the challenge's authId is returned;
// the caller must follow up with Authenticate2FA.
func (h *SessionHandler) Authenticate(ctx context.Context, username, password string) (*SessionToken, error) {
	const op = "signon"

	body := map[string]string{
		"username": username,
		"password": password,
	}
	resp, raw, err := h.postJSON(ctx, op, "/user/signon?wc=true&remember=true", body)
	if err != nil {
		h.toUnauthenticated()
		return nil, err
	}

	var parsed signonResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		h.toUnauthenticated()
		return nil, decodeError(op, err)
	}

	// A response carrying an authId but no session yet means the account
	// requires a TOTP code before the service will hand out cookies.
	if parsed.AuthID != "" && parsed.Token == "" && len(resp.Cookies()) == 0 {
		h.mu.Lock()
		h.state = StatePendingTwoFactor
		h.authID = parsed.AuthID
		h.token = nil
		h.mu.Unlock()
		h.logger.Info("sign-on requires two-factor code", logging.Operation(op))
		return nil, &TwoFactorRequiredError{AuthID: parsed.AuthID}
	}

	token, err := h.tokenFromResponse(op, resp, parsed)
	if err != nil {
		h.toUnauthenticated()
		return nil, err
	}

	h.SetSession(token)
	h.logger.Info("signed on",
		logging.Operation(op),
		logging.UserHash(username),
	)
	return token, nil
}

// AuthID returns the pending 2FA challenge id, or "" when no challenge is
// outstanding.
func (h *SessionHandler) AuthID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.authID
}

// Authenticate2FA completes a pending two-factor sign-on with a TOTP code.
// A rejected code leaves the handler in PendingTwoFactor with the same
// authId, so the caller can retry with a fresh code until the server expires
// the challenge.
func (h *SessionHandler) Authenticate2FA(ctx context.Context, authID, code string) (*SessionToken, error) {
	const op = "signon/totp"

	if authID == "" {
		return nil, authError(op, "no 2FA challenge in progress", nil)
	}

	body := map[string]string{
		"authId": authID,
		"code":   code,
	}
	resp, raw, err := h.postJSON(ctx, op, "/user/signon/totp", body)
	if err != nil {
		// An invalid or expired code must not discard the challenge:
		// the authId stays usable until the server says otherwise.
		return nil, err
	}

	var parsed signonResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, decodeError(op, err)
	}

	token, err := h.tokenFromResponse(op, resp, parsed)
	if err != nil {
		return nil, err
	}

	h.SetSession(token)
	h.logger.Info("two-factor sign-on completed", logging.Operation(op))
	return token, nil
}

// AuthHeaders returns the headers every authenticated request must carry:
// the fixed client identity, the device-identity JSON, and the joined
// session cookies. Returns an error when no valid session is held.
func (h *SessionHandler) AuthHeaders() (http.Header, error) {
	h.mu.RLock()
	token := h.token
	state := h.state
	h.mu.RUnlock()

	if state != StateAuthenticated || token == nil {
		return nil, authError("headers", "not authenticated - sign on first", nil)
	}
	if token.Expired() {
		return nil, authError("headers", "session expired - sign on again", nil)
	}

	headers := make(http.Header)
	headers.Set("User-Agent", userAgent)
	headers.Set("X-Device", deviceHeader(h.deviceID))
	headers.Set("Cookie", token.CookieHeader())
	return headers, nil
}

func (h *SessionHandler) toUnauthenticated() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = StateUnauthenticated
	h.authID = ""
	h.token = nil
}

// postJSON performs an unauthenticated JSON POST against the sign-on surface.
// It returns the response so callers can read Set-Cookie headers.
func (h *SessionHandler) postJSON(ctx context.Context, op, path string, body any) (*http.Response, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, nil, transportError(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, transportError(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Device", deviceHeader(h.deviceID))

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, nil, transportError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, transportError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := classifyStatus(op, resp.StatusCode, string(raw))
		// Bad credentials and rejected codes surface as 4xx with service
		// error codes; those are authentication failures regardless of the
		// precise status. Throttling keeps its own kind so callers can back
		// off instead of treating it as a credential problem.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && apiErr.Kind != KindRateLimit {
			apiErr.Kind = KindAuthentication
		}
		return nil, nil, apiErr
	}

	return resp, raw, nil
}

// tokenFromResponse assembles a SessionToken from the sign-on response:
// cookies from Set-Cookie headers, with the token field as a fallback for
// the primary session cookie, plus the ids and expiry hint from the body.
func (h *SessionHandler) tokenFromResponse(op string, resp *http.Response, parsed signonResponse) (*SessionToken, error) {
	cookies := make(map[string]string)
	var expiresAt time.Time
	for _, c := range resp.Cookies() {
		cookies[c.Name] = c.Value
		if c.Name == sessionCookieName && !c.Expires.IsZero() {
			expiresAt = c.Expires
		}
	}
	if cookies[sessionCookieName] == "" && parsed.Token != "" {
		cookies[sessionCookieName] = parsed.Token
	}
	if cookies[sessionCookieName] == "" {
		return nil, authError(op, "sign-on response carried no session cookie", nil)
	}

	return &SessionToken{
		cookies:   cookies,
		userID:    parsed.UserID,
		inboxID:   parsed.InboxID,
		expiresAt: expiresAt,
	}, nil
}
