package ticktick

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenCookieHeader(t *testing.T) {
	token, err := NewSessionToken(map[string]string{
		"t":      "abc123",
		"AWSALB": "lb-cookie",
		"_csrf":  "xyz",
	}, "user-1", "inbox-1", time.Time{})
	require.NoError(t, err)

	// Sorted by name so the header is stable across calls.
	assert.Equal(t, "AWSALB=lb-cookie; _csrf=xyz; t=abc123", token.CookieHeader())
	assert.Equal(t, token.CookieHeader(), token.CookieHeader())
}

func TestNewSessionTokenRequiresSessionCookie(t *testing.T) {
	_, err := NewSessionToken(map[string]string{"other": "value"}, "", "", time.Time{})
	assert.Error(t, err)
}

func TestSessionTokenCopiesCookies(t *testing.T) {
	source := map[string]string{"t": "abc"}
	token, err := NewSessionToken(source, "", "", time.Time{})
	require.NoError(t, err)

	source["t"] = "mutated"
	assert.Equal(t, "abc", token.Cookies()["t"])

	// Mutating the returned copy must not affect the token either.
	token.Cookies()["t"] = "other"
	assert.Equal(t, "abc", token.Cookies()["t"])
}

func TestSessionTokenExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		expired   bool
	}{
		{name: "no hint never expires", expiresAt: time.Time{}, expired: false},
		{name: "future hint", expiresAt: time.Now().Add(time.Hour), expired: false},
		{name: "past hint", expiresAt: time.Now().Add(-time.Hour), expired: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := NewSessionToken(map[string]string{"t": "x"}, "", "", tt.expiresAt)
			require.NoError(t, err)
			assert.Equal(t, tt.expired, token.Expired())
		})
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/user/signon", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("wc"))
		assert.Equal(t, "true", r.URL.Query().Get("remember"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("X-Device"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice@example.com", body["username"])
		assert.Equal(t, "secret", body["password"])

		http.SetCookie(w, &http.Cookie{Name: "t", Value: "session-cookie"})
		json.NewEncoder(w).Encode(map[string]string{
			"token":   "session-cookie",
			"userId":  "user-42",
			"inboxId": "inbox-42",
		})
	}))
	defer srv.Close()

	h := NewSessionHandler(srv.URL, "", srv.Client(), nil)
	assert.Equal(t, StateUnauthenticated, h.State())

	token, err := h.Authenticate(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, h.State())
	assert.True(t, h.IsAuthenticated())
	assert.Equal(t, "user-42", token.UserID())
	assert.Equal(t, "inbox-42", token.InboxID())
	assert.Equal(t, "session-cookie", token.Cookies()["t"])
}

func TestAuthenticateBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"errorCode": "username_password_not_match"})
	}))
	defer srv.Close()

	h := NewSessionHandler(srv.URL, "", srv.Client(), nil)
	_, err := h.Authenticate(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
	assert.Equal(t, StateUnauthenticated, h.State())
	assert.False(t, h.IsAuthenticated())
}

func TestAuthenticateRateLimitKeepsKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"errorCode": "exceed_query_limit"})
	}))
	defer srv.Close()

	h := NewSessionHandler(srv.URL, "", srv.Client(), nil)
	_, err := h.Authenticate(context.Background(), "alice@example.com", "secret")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindRateLimit, apiErr.Kind)
	assert.False(t, IsAuthenticationError(err))
}

func TestAuthenticateTwoFactorFlow(t *testing.T) {
	var totpCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/signon":
			json.NewEncoder(w).Encode(map[string]string{"authId": "challenge-1"})
		case "/user/signon/totp":
			totpCalls++
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "challenge-1", body["authId"])
			if body["code"] != "654321" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"errorCode": "incorrect_verification_code"})
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "t", Value: "post-2fa-cookie"})
			json.NewEncoder(w).Encode(map[string]string{
				"token":  "post-2fa-cookie",
				"userId": "user-42",
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	h := NewSessionHandler(srv.URL, "", srv.Client(), nil)

	_, err := h.Authenticate(context.Background(), "alice@example.com", "secret")
	require.Error(t, err)
	var twoFactor *TwoFactorRequiredError
	require.ErrorAs(t, err, &twoFactor)
	assert.Equal(t, "challenge-1", twoFactor.AuthID)
	assert.Equal(t, StatePendingTwoFactor, h.State())
	assert.Equal(t, "challenge-1", h.AuthID())
	assert.False(t, h.IsAuthenticated())

	// A rejected code keeps the challenge alive for a retry.
	_, err = h.Authenticate2FA(context.Background(), h.AuthID(), "000000")
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
	assert.Equal(t, StatePendingTwoFactor, h.State())
	assert.Equal(t, "challenge-1", h.AuthID())

	token, err := h.Authenticate2FA(context.Background(), h.AuthID(), "654321")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, h.State())
	assert.Empty(t, h.AuthID())
	assert.Equal(t, "post-2fa-cookie", token.Cookies()["t"])
	assert.Equal(t, 2, totpCalls)
}

func TestAuthenticate2FAWithoutChallenge(t *testing.T) {
	h := NewSessionHandler("http://unused", "", nil, nil)
	_, err := h.Authenticate2FA(context.Background(), "", "123456")
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
}

func TestAuthHeaders(t *testing.T) {
	h := NewSessionHandler("http://unused", "device-abc", nil, nil)

	_, err := h.AuthHeaders()
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))

	token, err := NewSessionToken(map[string]string{"t": "abc", "b": "2"}, "", "", time.Time{})
	require.NoError(t, err)
	h.SetSession(token)

	headers, err := h.AuthHeaders()
	require.NoError(t, err)
	assert.Equal(t, userAgent, headers.Get("User-Agent"))
	assert.Equal(t, "b=2; t=abc", headers.Get("Cookie"))

	var device struct {
		Platform string `json:"platform"`
		Version  int    `json:"version"`
		ID       string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(headers.Get("X-Device")), &device))
	assert.Equal(t, "web", device.Platform)
	assert.Equal(t, 6430, device.Version)
	assert.Equal(t, "device-abc", device.ID)
}

func TestAuthHeadersExpiredSession(t *testing.T) {
	h := NewSessionHandler("http://unused", "", nil, nil)
	token, err := NewSessionToken(map[string]string{"t": "abc"}, "", "", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	h.SetSession(token)

	_, err = h.AuthHeaders()
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
}

func TestSignOut(t *testing.T) {
	h := NewSessionHandler("http://unused", "", nil, nil)
	token, err := NewSessionToken(map[string]string{"t": "abc"}, "", "", time.Time{})
	require.NoError(t, err)
	h.SetSession(token)
	require.True(t, h.IsAuthenticated())

	h.SignOut()
	assert.Equal(t, StateUnauthenticated, h.State())
	assert.Nil(t, h.Session())
}

func TestDeviceIDStableAcrossHandler(t *testing.T) {
	h := NewSessionHandler("http://unused", "", nil, nil)
	id := h.DeviceID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, h.DeviceID())

	// A supplied id is kept verbatim.
	h2 := NewSessionHandler("http://unused", "pinned-id", nil, nil)
	assert.Equal(t, "pinned-id", h2.DeviceID())
}

func TestSetSessionSwapsToken(t *testing.T) {
	h := NewSessionHandler("http://unused", "", nil, nil)
	first, err := NewSessionToken(map[string]string{"t": "first"}, "", "", time.Time{})
	require.NoError(t, err)
	h.SetSession(first)

	held := h.Session()
	second, err := NewSessionToken(map[string]string{"t": "second"}, "", "", time.Time{})
	require.NoError(t, err)
	h.SetSession(second)

	// The old reference is untouched; readers holding it see consistent state.
	assert.Equal(t, "first", held.Cookies()["t"])
	assert.Equal(t, "second", h.Session().Cookies()["t"])
}
