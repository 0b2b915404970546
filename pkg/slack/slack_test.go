package slack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(cfg Config) ISlack {
	cfg.RatePerSecond = 1000
	cfg.Burst = 100
	cfg.RetryDelay = time.Millisecond
	return New(nil, cfg)
}

func TestPostWebhook(t *testing.T) {
	tcs := map[string]struct {
		status        int
		body          string
		wantErr       bool
		wantTemporary bool
		wantCode      string
	}{
		"ok": {
			status: http.StatusOK,
			body:   "ok",
		},
		"channel not found": {
			status:   http.StatusNotFound,
			body:     "channel_not_found",
			wantErr:  true,
			wantCode: "channel_not_found",
		},
		"rate limited": {
			status:        http.StatusTooManyRequests,
			body:          "rate_limited",
			wantErr:       true,
			wantTemporary: true,
			wantCode:      "rate_limited",
		},
		"server error": {
			status:        http.StatusInternalServerError,
			wantErr:       true,
			wantTemporary: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			var got Payload
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
				b, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(b, &got)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := newTestClient(Config{})
			err := c.PostWebhook(context.Background(), srv.URL, &Payload{Text: "hello"})

			assert.Equal(t, "hello", got.Text)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.wantCode, apiErr.Code)
			assert.Equal(t, tc.wantTemporary, apiErr.Temporary())
		})
	}
}

func TestPostWebhook_RequiresURL(t *testing.T) {
	c := newTestClient(Config{})
	assert.ErrorIs(t, c.PostWebhook(context.Background(), " ", &Payload{}), errWebhookRequired)
}

func TestPostMessage(t *testing.T) {
	tcs := map[string]struct {
		response      string
		wantErr       bool
		wantCode      string
		wantTemporary bool
	}{
		"ok": {
			response: `{"ok":true}`,
		},
		"not in channel": {
			response: `{"ok":false,"error":"not_in_channel"}`,
			wantErr:  true,
			wantCode: "not_in_channel",
		},
		"ratelimited": {
			response:      `{"ok":false,"error":"ratelimited"}`,
			wantErr:       true,
			wantCode:      "ratelimited",
			wantTemporary: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, postMessagePath, r.URL.Path)
				assert.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))
				var p Payload
				b, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(b, &p)
				assert.Equal(t, "C123", p.Channel)
				_, _ = w.Write([]byte(tc.response))
			}))
			defer srv.Close()

			c := newTestClient(Config{APIBaseURL: srv.URL})
			err := c.PostMessage(context.Background(), "xoxb-test", &Payload{Channel: "C123", Text: "hi"})
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.wantCode, apiErr.Code)
			assert.Equal(t, tc.wantTemporary, apiErr.Temporary())
		})
	}
}

func TestPostMessage_Validation(t *testing.T) {
	c := newTestClient(Config{})
	assert.ErrorIs(t, c.PostMessage(context.Background(), "", &Payload{Channel: "C1"}), errTokenRequired)
	assert.ErrorIs(t, c.PostMessage(context.Background(), "xoxb", &Payload{}), errChannelRequired)
}

func TestReportBug(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		c := newTestClient(Config{})
		assert.False(t, c.OpsEnabled())
		assert.ErrorIs(t, c.ReportBug(context.Background(), "boom"), errOpsDisabled)
	})

	t.Run("retries temporary failures", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		c := newTestClient(Config{OpsWebhookURL: srv.URL, RetryCount: 2})
		require.NoError(t, c.ReportBug(context.Background(), "boom"))
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("stops on permanent failure", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("invalid_token"))
		}))
		defer srv.Close()

		c := newTestClient(Config{OpsWebhookURL: srv.URL, RetryCount: 2})
		require.Error(t, c.ReportBug(context.Background(), "boom"))
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab...", Truncate("abcdefgh", 5))

	// "é" and "€" are two and three bytes wide.
	got := Truncate("aéé€€", 7)
	assert.Equal(t, "aé...", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "...", Truncate("€€€", 5))
}

func TestWait_EvictsIdleLimiters(t *testing.T) {
	s := newTestClient(Config{}).(*slackImpl)
	now := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, s.wait(ctx, "https://hooks.slack.com/a"))
	require.NoError(t, s.wait(ctx, "https://hooks.slack.com/b"))
	assert.Len(t, s.limiters, 2)

	now = now.Add(limiterIdleTTL / 2)
	require.NoError(t, s.wait(ctx, "https://hooks.slack.com/a"))

	now = now.Add(limiterIdleTTL / 2)
	require.NoError(t, s.wait(ctx, "https://hooks.slack.com/c"))
	assert.Len(t, s.limiters, 2)
	assert.Contains(t, s.limiters, "https://hooks.slack.com/a")
	assert.NotContains(t, s.limiters, "https://hooks.slack.com/b")
}
