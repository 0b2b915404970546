package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adalert-srv/internal/channel"
	"adalert-srv/internal/model"
	"adalert-srv/pkg/signature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput() (model.NotificationRule, model.ChangeEvent) {
	rule := model.NotificationRule{ID: "rule-1", Name: "Budget", Priority: model.PriorityNormal}
	event := model.ChangeEvent{
		ID:         "evt-1",
		Platform:   model.PlatformGoogle,
		ChangeType: "campaign_budget_changed",
		EntityType: model.EntityCampaign,
		EntityID:   "987",
		EntityName: "Brand",
		Changes:    map[string]model.FieldChange{"daily_budget": {Before: json.Number("10"), After: json.Number("20")}},
		DetectedAt: time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC),
	}
	return rule, event
}

func TestRender(t *testing.T) {
	rule, event := testInput()
	msg, err := New(Config{}).Render(rule, event)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &doc))
	assert.Equal(t, "2026-05-04T03:02:01Z", doc["matchedAt"])
	assert.Equal(t, map[string]any{"id": "rule-1", "name": "Budget", "priority": "normal"}, doc["rule"])
	assert.Equal(t, "evt-1", doc["event"].(map[string]any)["id"])
	assert.Equal(t, "evt-1", msg.Subject)
}

func TestSend(t *testing.T) {
	tcs := map[string]struct {
		status        int
		secret        string
		wantErr       bool
		wantRetryable bool
	}{
		"ok":                   {status: http.StatusOK},
		"accepted with secret": {status: http.StatusAccepted, secret: "s3cret"},
		"bad request":          {status: http.StatusBadRequest, wantErr: true},
		"gone":                 {status: http.StatusGone, wantErr: true},
		"too many requests":    {status: http.StatusTooManyRequests, wantErr: true, wantRetryable: true},
		"bad gateway":          {status: http.StatusBadGateway, wantErr: true, wantRetryable: true},
	}

	rule, event := testInput()
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			var gotBody []byte
			var gotHeader http.Header
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotBody, _ = io.ReadAll(r.Body)
				gotHeader = r.Header.Clone()
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			s := New(Config{SigningSecret: tc.secret})
			msg, err := s.Render(rule, event)
			require.NoError(t, err)

			err = s.Send(context.Background(), channel.Target{URL: srv.URL}, msg)

			assert.Equal(t, msg.Payload, gotBody)
			assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
			assert.Equal(t, UserAgent, gotHeader.Get("User-Agent"))
			assert.Equal(t, "evt-1", gotHeader.Get(HeaderEventID))
			if tc.secret != "" {
				assert.True(t, signature.Verify(gotBody, gotHeader.Get(HeaderSignature), tc.secret))
			} else {
				assert.Empty(t, gotHeader.Get(HeaderSignature))
			}

			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			var ce *channel.Error
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tc.status, ce.StatusCode)
			assert.Equal(t, tc.wantRetryable, channel.IsRetryable(err))
		})
	}
}

func TestSend_InvalidTarget(t *testing.T) {
	for _, u := range []string{"", "ftp://x.io/hook", "not a url", "https://"} {
		err := New(Config{}).Send(context.Background(), channel.Target{URL: u}, channel.Message{})
		assert.ErrorIs(t, err, channel.ErrInvalidTarget, u)
		assert.False(t, channel.IsRetryable(err))
	}
}

func TestSend_ConnectionRefusedIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	err := New(Config{Timeout: time.Second}).Send(context.Background(), channel.Target{URL: addr}, channel.Message{Payload: []byte(`{}`)})
	require.Error(t, err)
	assert.True(t, channel.IsRetryable(err))
}
