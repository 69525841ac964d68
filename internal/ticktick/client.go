package ticktick

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/teemow/tickdone/internal/logging"
)

const (
	// DefaultDomain is the service domain for international accounts.
	// Accounts registered on the Chinese service use "dida365.com".
	DefaultDomain = "ticktick.com"

	// DefaultTimeout bounds each HTTP request when no custom client is
	// supplied.
	DefaultTimeout = 30 * time.Second
)

// BaseURLForDomain returns the v2 API base URL for a service domain.
func BaseURLForDomain(domain string) string {
	if domain == "" {
		domain = DefaultDomain
	}
	return "https://api." + domain + "/api/v2"
}

// Client talks to the TickTick v2 web API. It owns a SessionHandler for
// authentication state and adds the batch mutation, sync, and read
// operations on top.
//
// Requests are never retried; transient failures surface to the caller as
// typed errors so the caller decides whether to try again.
type Client struct {
	baseURL    string
	httpClient *http.Client
	handler    *SessionHandler
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*options)

type options struct {
	domain     string
	baseURL    string
	deviceID   string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// WithDomain selects the service domain, e.g. "dida365.com".
func WithDomain(domain string) Option {
	return func(o *options) { o.domain = domain }
}

// WithBaseURL overrides the full API base URL. Mostly useful in tests.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithDeviceID pins the device identity. Reusing the same id across
// process restarts keeps the service from treating each start as a new
// browser login.
func WithDeviceID(deviceID string) Option {
	return func(o *options) { o.deviceID = deviceID }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithHTTPClient supplies a custom HTTP client. Takes precedence over
// WithTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewClient creates a Client. The client starts unauthenticated; call
// Authenticate or SetSession before invoking any API operation.
func NewClient(opts ...Option) *Client {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	baseURL := o.baseURL
	if baseURL == "" {
		baseURL = BaseURLForDomain(o.domain)
	}
	hc := o.httpClient
	if hc == nil {
		timeout := o.timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: hc,
		handler:    NewSessionHandler(baseURL, o.deviceID, hc, logger),
		logger:     logging.WithService(logger, "ticktick"),
	}
}

// SessionHandler exposes the client's authentication state machine.
func (c *Client) SessionHandler() *SessionHandler { return c.handler }

// DeviceID returns the device identity used on every request.
func (c *Client) DeviceID() string { return c.handler.DeviceID() }

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// InboxID returns the inbox project id once known. It is learned either
// from the sign-on response or from the first Sync call.
func (c *Client) InboxID() string {
	if tok := c.handler.Session(); tok != nil {
		return tok.InboxID()
	}
	return ""
}

// do issues one authenticated request. It fails fast with an
// authentication error when no valid session exists, so callers never
// send doomed requests.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	headers, err := c.handler.AuthHeaders()
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: KindUnknown, Op: op, Message: "encoding request body", Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return &APIError{Kind: KindUnknown, Op: op, Message: "building request", Err: err}
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(op, err)
	}

	c.logger.DebugContext(ctx, "api request",
		logging.Operation(op),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(op, resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return decodeError(op, err)
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	return c.do(ctx, op, http.MethodGet, path, query, nil, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, body, out any) error {
	return c.do(ctx, op, http.MethodPost, path, nil, body, out)
}

func (c *Client) putJSON(ctx context.Context, op, path string, query url.Values, body, out any) error {
	return c.do(ctx, op, http.MethodPut, path, query, body, out)
}

func (c *Client) deleteReq(ctx context.Context, op, path string, query url.Values) error {
	return c.do(ctx, op, http.MethodDelete, path, query, nil, nil)
}

// pathEscape keeps ids safe inside URL paths.
func pathEscape(s string) string {
	return url.PathEscape(s)
}

// requireID returns a validation error when a required identifier is empty.
func requireID(op, name, value string) error {
	if value == "" {
		return &APIError{Kind: KindValidation, Op: op, Message: fmt.Sprintf("%s must not be empty", name)}
	}
	return nil
}
