package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/tickdone/internal/instrumentation"
	"github.com/teemow/tickdone/internal/logging"
	"github.com/teemow/tickdone/internal/ticktick"
)

// DefaultSessionCheckInterval is how often the keeper verifies the session.
const DefaultSessionCheckInterval = 30 * time.Minute

// SessionKeeper keeps the TickTick session alive for long-running servers.
// Web sessions expire after an interval the service controls; without the
// keeper, the first tool call after expiry would fail and every later one
// too, since the client never retries. The keeper re-signs-on with the
// stored credentials when the session goes stale.
//
// Accounts with two-factor auth cannot be re-authenticated unattended; the
// keeper logs the condition and leaves the session down for the operator.
type SessionKeeper struct {
	client   *ticktick.Client
	username string
	password string
	interval time.Duration
	logger   *slog.Logger
	metrics  *instrumentation.Metrics

	ticker  *time.Ticker
	done    chan bool
	running bool
	mu      sync.Mutex

	lastCheck  time.Time
	lastVerify error
}

// NewSessionKeeper creates a keeper for the given client and credentials.
// A non-positive interval falls back to the default.
func NewSessionKeeper(client *ticktick.Client, username, password string, interval time.Duration, logger *slog.Logger) *SessionKeeper {
	if interval <= 0 {
		interval = DefaultSessionCheckInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionKeeper{
		client:   client,
		username: username,
		password: password,
		interval: interval,
		logger:   logging.WithService(logger, "session-keeper"),
	}
}

// SetMetrics attaches a metrics recorder for renewal outcomes.
func (k *SessionKeeper) SetMetrics(m *instrumentation.Metrics) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.metrics = m
}

func (k *SessionKeeper) recordRenewal(ctx context.Context, result string) {
	k.mu.Lock()
	m := k.metrics
	k.mu.Unlock()
	if m != nil {
		m.RecordSessionRenewal(ctx, result)
	}
}

// Start launches the background check loop.
func (k *SessionKeeper) Start(ctx context.Context) {
	k.mu.Lock()
	if k.running {
		k.mu.Unlock()
		return
	}
	k.ticker = time.NewTicker(k.interval)
	k.done = make(chan bool)
	k.running = true
	ticker, done := k.ticker, k.done
	k.mu.Unlock()

	// The loop works on its own copies so Stop never races with the select.
	go k.loop(ctx, ticker, done)
}

func (k *SessionKeeper) loop(ctx context.Context, ticker *time.Ticker, done chan bool) {
	for {
		select {
		case <-ticker.C:
			k.CheckNow(ctx)
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// CheckNow verifies the session immediately and re-authenticates if needed.
// Returns the verification error, or nil when the session is live.
func (k *SessionKeeper) CheckNow(ctx context.Context) error {
	err := k.client.VerifyAuthentication(ctx)

	k.mu.Lock()
	k.lastCheck = time.Now()
	k.lastVerify = err
	k.mu.Unlock()

	if err == nil {
		return nil
	}
	if !ticktick.IsAuthenticationError(err) {
		// Transient failure; the session itself may still be fine.
		k.logger.Warn("session check failed", logging.Err(err))
		return err
	}

	k.logger.Info("session expired, signing on again")
	k.recordRenewal(ctx, instrumentation.SessionResultExpired)
	_, err = k.client.SessionHandler().Authenticate(ctx, k.username, k.password)
	if ticktick.IsTwoFactorRequired(err) {
		k.logger.Error("cannot renew session unattended: account requires a two-factor code")
		k.recordRenewal(ctx, instrumentation.SessionResultTwoFactor)
		return err
	}
	if err != nil {
		k.logger.Error("session renewal failed", logging.Err(err))
		k.recordRenewal(ctx, instrumentation.SessionResultFailure)
		return err
	}

	k.logger.Info("session renewed", logging.UserHash(k.username))
	k.recordRenewal(ctx, instrumentation.SessionResultSuccess)
	k.mu.Lock()
	k.lastVerify = nil
	k.mu.Unlock()
	return nil
}

// LastCheck returns when the session was last verified and the outcome.
func (k *SessionKeeper) LastCheck() (time.Time, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lastCheck, k.lastVerify
}

// Stop stops the background loop. It is safe to call more than once.
func (k *SessionKeeper) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.running {
		return
	}
	k.running = false
	k.ticker.Stop()
	close(k.done)
}
