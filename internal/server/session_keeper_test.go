package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/tickdone/internal/ticktick"
)

const keeperSyncResponse = `{"inboxId":"inbox-1","projectProfiles":[],"projectGroups":[],"tags":[],"syncTaskBean":{"update":[]}}`

func TestSessionKeeperHealthySession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(keeperSyncResponse))
	}))
	defer srv.Close()

	client := ticktick.NewClient(ticktick.WithBaseURL(srv.URL), ticktick.WithHTTPClient(srv.Client()))
	token, err := ticktick.NewSessionToken(map[string]string{"t": "live"}, "", "", time.Time{})
	require.NoError(t, err)
	client.SessionHandler().SetSession(token)

	k := NewSessionKeeper(client, "alice@example.com", "secret", 0, nil)
	require.NoError(t, k.CheckNow(context.Background()))

	when, verifyErr := k.LastCheck()
	assert.False(t, when.IsZero())
	assert.NoError(t, verifyErr)
}

func TestSessionKeeperRenewsExpiredSession(t *testing.T) {
	var signons int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/batch/check/0":
			w.Write([]byte(keeperSyncResponse))
		case "/user/signon":
			signons++
			http.SetCookie(w, &http.Cookie{Name: "t", Value: "renewed"})
			w.Write([]byte(`{"token":"renewed","userId":"user-1"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := ticktick.NewClient(ticktick.WithBaseURL(srv.URL), ticktick.WithHTTPClient(srv.Client()))
	expired, err := ticktick.NewSessionToken(map[string]string{"t": "stale"}, "", "", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	client.SessionHandler().SetSession(expired)

	k := NewSessionKeeper(client, "alice@example.com", "secret", 0, nil)
	require.NoError(t, k.CheckNow(context.Background()))

	assert.Equal(t, 1, signons)
	assert.True(t, client.SessionHandler().IsAuthenticated())
	assert.Equal(t, "renewed", client.SessionHandler().Session().Cookies()["t"])
}

func TestSessionKeeperTwoFactorAccountStaysDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/signon":
			w.Write([]byte(`{"authId":"challenge-1"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := ticktick.NewClient(ticktick.WithBaseURL(srv.URL), ticktick.WithHTTPClient(srv.Client()))

	k := NewSessionKeeper(client, "alice@example.com", "secret", 0, nil)
	err := k.CheckNow(context.Background())
	require.Error(t, err)
	assert.True(t, ticktick.IsTwoFactorRequired(err))
	assert.False(t, client.SessionHandler().IsAuthenticated())
}

func TestSessionKeeperStartStop(t *testing.T) {
	client := ticktick.NewClient()
	k := NewSessionKeeper(client, "alice@example.com", "secret", time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	k.Start(ctx)
	// Double start is a no-op.
	k.Start(ctx)
	k.Stop()
	// Double stop is safe.
	k.Stop()
}

func TestSessionKeeperStopWhileLoopRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(keeperSyncResponse))
	}))
	defer srv.Close()

	client := ticktick.NewClient(ticktick.WithBaseURL(srv.URL), ticktick.WithHTTPClient(srv.Client()))
	token, err := ticktick.NewSessionToken(map[string]string{"t": "live"}, "", "", time.Time{})
	require.NoError(t, err)
	client.SessionHandler().SetSession(token)

	// Stop must not race with the loop's ticker reads, even when it lands
	// while a check is in flight.
	for i := 0; i < 20; i++ {
		k := NewSessionKeeper(client, "alice@example.com", "secret", time.Millisecond, nil)
		k.Start(context.Background())
		time.Sleep(3 * time.Millisecond)
		k.Stop()
	}
}
