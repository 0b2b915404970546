package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"adalert-srv/internal/channel"
	"adalert-srv/internal/dispatch"
	"adalert-srv/internal/dispatch/guard"
	"adalert-srv/internal/model"
	pkgLog "adalert-srv/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errPermanent = &channel.Error{Channel: model.ChannelSlack, StatusCode: 404, Err: errors.New("channel_not_found")}
	errTransient = &channel.Error{Channel: model.ChannelWebhook, StatusCode: 503, Retryable: true, Err: errors.New("unavailable")}
	errClient    = &channel.Error{Channel: model.ChannelWebhook, StatusCode: 400, Err: errors.New("bad request")}
)

type fakeSender struct {
	ch        model.Channel
	errs      []error
	renderErr error
	panics    bool

	mu      sync.Mutex
	targets []channel.Target
}

func (f *fakeSender) Channel() model.Channel { return f.ch }

func (f *fakeSender) Render(model.NotificationRule, model.ChangeEvent) (channel.Message, error) {
	return channel.Message{Text: "rendered"}, f.renderErr
}

func (f *fakeSender) Send(_ context.Context, target channel.Target, _ channel.Message) error {
	if f.panics {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.targets)
	f.targets = append(f.targets, target)
	if i < len(f.errs) {
		return f.errs[i]
	}
	return nil
}

func (f *fakeSender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.targets)
}

type fakeLogs struct {
	mu   sync.Mutex
	logs []model.NotificationLog
	err  error
}

func (f *fakeLogs) Append(_ context.Context, l model.NotificationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, l)
	return f.err
}

func (f *fakeLogs) byChannel() map[model.Channel][]model.NotificationLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[model.Channel][]model.NotificationLog)
	for _, l := range f.logs {
		out[l.Channel] = append(out[l.Channel], l)
	}
	return out
}

type fakeIntegrations struct {
	integ *model.SlackIntegration
	err   error
}

func (f *fakeIntegrations) GetSlackIntegration(context.Context, string) (*model.SlackIntegration, error) {
	return f.integ, f.err
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	uc           *implUseCase
	logs         *fakeLogs
	slack        *fakeSender
	email        *fakeSender
	webhook      *fakeSender
	guard        *guard.Memory
	clock        *testClock
	integrations *fakeIntegrations
}

func newFixture(t *testing.T, opts dispatch.Options) *fixture {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)}
	f := &fixture{
		logs:         &fakeLogs{},
		slack:        &fakeSender{ch: model.ChannelSlack},
		email:        &fakeSender{ch: model.ChannelEmail},
		webhook:      &fakeSender{ch: model.ChannelWebhook},
		guard:        guard.NewMemory(guard.WithClock(clock.Now)),
		clock:        clock,
		integrations: &fakeIntegrations{integ: &model.SlackIntegration{WebhookURL: "https://hooks.slack.test/T1"}},
	}
	t.Cleanup(f.guard.Close)

	uc := New(pkgLog.NewNop(), f.guard, f.integrations, f.logs, channel.NewRegistry(f.slack, f.email, f.webhook), opts).(*implUseCase)
	uc.clock = clock.Now
	f.uc = uc
	return f
}

func testRule(channels ...model.Channel) model.NotificationRule {
	return model.NotificationRule{
		ID:                   "rule-1",
		OrganizationID:       "org-1",
		Name:                 "Status watch",
		IsActive:             true,
		NotificationChannels: channels,
		EmailRecipients:      []string{"a@x.io", "b@x.io"},
		WebhookURL:           "https://hooks.example.com/adalert",
	}
}

func testEvent(id string) model.ChangeEvent {
	return model.ChangeEvent{
		ID:         id,
		ChangeType: "campaign_status_changed",
		EntityType: model.EntityCampaign,
		EntityID:   "120",
		Changes:    map[string]model.FieldChange{"status": {Before: "PAUSED", After: "ACTIVE"}},
	}
}

func resultsByChannel(rs []dispatch.Result) map[model.Channel]dispatch.Result {
	out := make(map[model.Channel]dispatch.Result, len(rs))
	for _, r := range rs {
		out[r.Channel] = r
	}
	return out
}

func fastOptions() dispatch.Options {
	return dispatch.Options{RetryDelay: 0, RateLimit: 100}
}

func TestDispatch_Deduplicates(t *testing.T) {
	f := newFixture(t, fastOptions())
	ctx := context.Background()

	first := f.uc.Dispatch(ctx, testRule(model.ChannelSlack), testEvent("evt-1"))
	require.Len(t, first, 1)
	assert.Equal(t, model.DispatchStatusSent, first[0].Status)

	// Same change under a new event id is still a duplicate.
	second := f.uc.Dispatch(ctx, testRule(model.ChannelSlack), testEvent("evt-2"))
	assert.Nil(t, second)
	assert.Equal(t, 1, f.slack.calls())
	assert.Len(t, f.logs.logs, 1)

	// A different rule is not a duplicate.
	other := testRule(model.ChannelSlack)
	other.ID = "rule-2"
	assert.Len(t, f.uc.Dispatch(ctx, other, testEvent("evt-1")), 1)
}

func TestDispatch_DedupWindowElapses(t *testing.T) {
	f := newFixture(t, dispatch.Options{DedupWindow: 5 * time.Minute})
	ctx := context.Background()
	rule := testRule(model.ChannelWebhook)

	require.Len(t, f.uc.Dispatch(ctx, rule, testEvent("evt-1")), 1)

	f.clock.Advance(4 * time.Minute)
	assert.Nil(t, f.uc.Dispatch(ctx, rule, testEvent("evt-2")))

	f.clock.Advance(time.Minute)
	again := f.uc.Dispatch(ctx, rule, testEvent("evt-3"))
	require.Len(t, again, 1)
	assert.Equal(t, model.DispatchStatusSent, again[0].Status)
	assert.Equal(t, 2, f.webhook.calls())
	assert.Len(t, f.logs.logs, 2)
}

func TestDispatch_UnresolvedTargetsDoNotConsumeDedup(t *testing.T) {
	f := newFixture(t, fastOptions())
	ctx := context.Background()
	rule := testRule(model.ChannelSlack)

	f.integrations.err = errors.New("db down")
	assert.Nil(t, f.uc.Dispatch(ctx, rule, testEvent("evt-1")))
	assert.Zero(t, f.slack.calls())

	// The platform redelivers the same change once the integration is readable.
	f.integrations.err = nil
	results := f.uc.Dispatch(ctx, rule, testEvent("evt-1"))
	require.Len(t, results, 1)
	assert.Equal(t, model.DispatchStatusSent, results[0].Status)
	assert.Equal(t, 1, f.slack.calls())
	assert.Len(t, f.logs.logs, 1)
}

func TestDispatch_ZeroRateLimitDisablesLimiting(t *testing.T) {
	f := newFixture(t, dispatch.Options{RateLimit: 0, RateWindow: time.Minute})
	assert.Zero(t, f.uc.opts.RateLimit)

	ctx := context.Background()
	rule := testRule(model.ChannelWebhook)
	for i := 0; i < 15; i++ {
		ev := testEvent(fmt.Sprintf("evt-%d", i))
		ev.EntityID = fmt.Sprintf("ent-%d", i)
		results := f.uc.Dispatch(ctx, rule, ev)
		require.Len(t, results, 1)
		assert.Equal(t, model.DispatchStatusSent, results[0].Status)
	}
	assert.Equal(t, 15, f.webhook.calls())
}

func TestOptions_WithDefaults(t *testing.T) {
	got := dispatch.Options{RateLimit: -3}.WithDefaults()
	assert.Zero(t, got.RateLimit)
	assert.Equal(t, 5*time.Minute, got.DedupWindow)
	assert.Equal(t, 2, got.MaxAttempts)

	assert.Equal(t, 7, dispatch.Options{RateLimit: 7}.WithDefaults().RateLimit)
}

func TestDispatch_FailureIsolation(t *testing.T) {
	f := newFixture(t, fastOptions())
	f.slack.errs = []error{errPermanent}

	results := resultsByChannel(f.uc.Dispatch(context.Background(), testRule(model.ChannelSlack, model.ChannelEmail), testEvent("evt-1")))

	require.Len(t, results, 2)
	assert.Equal(t, model.DispatchStatusFailed, results[model.ChannelSlack].Status)
	assert.Equal(t, 1, results[model.ChannelSlack].Attempts)
	assert.Equal(t, model.DispatchStatusSent, results[model.ChannelEmail].Status)
	assert.Equal(t, 1, f.email.calls())

	logs := f.logs.byChannel()
	require.Len(t, logs[model.ChannelSlack], 1)
	require.Len(t, logs[model.ChannelEmail], 1)
	assert.Equal(t, model.DispatchStatusFailed, logs[model.ChannelSlack][0].Status)
	require.NotNil(t, logs[model.ChannelSlack][0].Error)
	assert.Contains(t, *logs[model.ChannelSlack][0].Error, "channel_not_found")
	assert.Equal(t, model.DispatchStatusSent, logs[model.ChannelEmail][0].Status)
	assert.Nil(t, logs[model.ChannelEmail][0].Error)
	assert.Equal(t, "rule-1", logs[model.ChannelEmail][0].RuleID)
	assert.Equal(t, "evt-1", logs[model.ChannelEmail][0].ChangeEventID)
}

func TestDispatch_Retries(t *testing.T) {
	tcs := map[string]struct {
		errs         []error
		wantStatus   model.DispatchStatus
		wantAttempts int
	}{
		"success first try": {
			wantStatus:   model.DispatchStatusSent,
			wantAttempts: 1,
		},
		"transient then success": {
			errs:         []error{errTransient},
			wantStatus:   model.DispatchStatusSent,
			wantAttempts: 2,
		},
		"transient twice": {
			errs:         []error{errTransient, errTransient},
			wantStatus:   model.DispatchStatusFailed,
			wantAttempts: 2,
		},
		"client error is not retried": {
			errs:         []error{errClient},
			wantStatus:   model.DispatchStatusFailed,
			wantAttempts: 1,
		},
		"canceled is not retried": {
			errs:         []error{channel.Transport(model.ChannelWebhook, context.Canceled)},
			wantStatus:   model.DispatchStatusFailed,
			wantAttempts: 1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, fastOptions())
			f.webhook.errs = tc.errs

			results := f.uc.Dispatch(context.Background(), testRule(model.ChannelWebhook), testEvent("evt-1"))

			require.Len(t, results, 1)
			assert.Equal(t, tc.wantStatus, results[0].Status)
			assert.Equal(t, tc.wantAttempts, results[0].Attempts)
			assert.Equal(t, tc.wantAttempts, f.webhook.calls())
			require.Len(t, f.logs.logs, 1)
			assert.Equal(t, tc.wantStatus, f.logs.logs[0].Status)
		})
	}
}

func TestDispatch_EmailRetryNarrowsRecipients(t *testing.T) {
	f := newFixture(t, fastOptions())
	f.email.errs = []error{&channel.Error{Channel: model.ChannelEmail, Retryable: true, Failed: []string{"b@x.io"}, Err: errors.New("421")}}

	results := f.uc.Dispatch(context.Background(), testRule(model.ChannelEmail), testEvent("evt-1"))

	require.Len(t, results, 1)
	assert.Equal(t, model.DispatchStatusSent, results[0].Status)
	require.Len(t, f.email.targets, 2)
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, f.email.targets[0].Recipients)
	assert.Equal(t, []string{"b@x.io"}, f.email.targets[1].Recipients)
}

func TestDispatch_RateLimited(t *testing.T) {
	f := newFixture(t, dispatch.Options{RateLimit: 1, RateWindow: time.Minute})
	ctx := context.Background()
	rule := testRule(model.ChannelSlack, model.ChannelWebhook)

	first := f.uc.Dispatch(ctx, rule, testEvent("evt-1"))
	require.Len(t, first, 2)

	ev := testEvent("evt-2")
	ev.Changes = map[string]model.FieldChange{"status": {Before: "ACTIVE", After: "PAUSED"}}
	second := f.uc.Dispatch(ctx, rule, ev)

	require.Len(t, second, 2)
	for _, r := range second {
		assert.Equal(t, model.DispatchStatusRateLimited, r.Status)
		assert.ErrorIs(t, r.Err, dispatch.ErrRateLimited)
		assert.Zero(t, r.Attempts)
	}
	assert.Equal(t, 1, f.slack.calls())
	assert.Equal(t, 1, f.webhook.calls())

	logs := f.logs.byChannel()
	require.Len(t, logs[model.ChannelSlack], 2)
	assert.Equal(t, model.DispatchStatusRateLimited, logs[model.ChannelSlack][1].Status)
	assert.Equal(t, "evt-2", logs[model.ChannelSlack][1].ChangeEventID)
}

func TestDispatch_NoTargets(t *testing.T) {
	f := newFixture(t, fastOptions())
	rule := testRule(model.ChannelEmail, model.ChannelWebhook)
	rule.EmailRecipients = []string{" ", ""}
	rule.WebhookURL = "not a url"

	assert.Nil(t, f.uc.Dispatch(context.Background(), rule, testEvent("evt-1")))

	noChannels := testRule()
	noChannels.ID = "rule-2"
	assert.Nil(t, f.uc.Dispatch(context.Background(), noChannels, testEvent("evt-2")))
	assert.Empty(t, f.logs.logs)
}

func TestDispatch_CloseStopsRetries(t *testing.T) {
	f := newFixture(t, dispatch.Options{RetryDelay: time.Hour, RateLimit: 100})
	f.webhook.errs = []error{errTransient, errTransient}
	f.uc.Close()
	f.uc.Close()

	results := f.uc.Dispatch(context.Background(), testRule(model.ChannelWebhook), testEvent("evt-1"))

	require.Len(t, results, 1)
	assert.Equal(t, model.DispatchStatusFailed, results[0].Status)
	assert.Equal(t, 1, results[0].Attempts)
}

func TestDispatch_LogFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, fastOptions())
	f.logs.err = errors.New("db down")

	results := f.uc.Dispatch(context.Background(), testRule(model.ChannelWebhook), testEvent("evt-1"))

	require.Len(t, results, 1)
	assert.Equal(t, model.DispatchStatusSent, results[0].Status)
}

func TestDispatch_SenderPanicIsContained(t *testing.T) {
	f := newFixture(t, fastOptions())
	f.slack.panics = true

	results := resultsByChannel(f.uc.Dispatch(context.Background(), testRule(model.ChannelSlack, model.ChannelWebhook), testEvent("evt-1")))

	assert.Equal(t, model.DispatchStatusFailed, results[model.ChannelSlack].Status)
	assert.Equal(t, model.DispatchStatusSent, results[model.ChannelWebhook].Status)
	assert.Len(t, f.logs.logs, 2)
}

func TestDispatch_RenderFailure(t *testing.T) {
	f := newFixture(t, fastOptions())
	f.webhook.renderErr = errors.New("unencodable")

	results := f.uc.Dispatch(context.Background(), testRule(model.ChannelWebhook), testEvent("evt-1"))

	require.Len(t, results, 1)
	assert.Equal(t, model.DispatchStatusFailed, results[0].Status)
	assert.Zero(t, f.webhook.calls())
	assert.Len(t, f.logs.logs, 1)
}

func TestSlackTarget(t *testing.T) {
	tcs := map[string]struct {
		integ       *model.SlackIntegration
		err         error
		ruleChannel string
		want        channel.Target
		wantOK      bool
	}{
		"no integration": {},
		"lookup error": {
			err: errors.New("db down"),
		},
		"webhook": {
			integ:  &model.SlackIntegration{WebhookURL: "https://hooks.slack.test/1"},
			want:   channel.Target{URL: "https://hooks.slack.test/1"},
			wantOK: true,
		},
		"bot token with rule channel": {
			integ:       &model.SlackIntegration{WebhookURL: "https://hooks.slack.test/1", BotToken: "xoxb", DefaultChannelID: "CDEF"},
			ruleChannel: "CRULE",
			want:        channel.Target{BotToken: "xoxb", SlackChannel: "CRULE"},
			wantOK:      true,
		},
		"bot token with default channel": {
			integ:  &model.SlackIntegration{BotToken: "xoxb", DefaultChannelID: "CDEF"},
			want:   channel.Target{BotToken: "xoxb", SlackChannel: "CDEF"},
			wantOK: true,
		},
		"bot token without channel": {
			integ: &model.SlackIntegration{BotToken: "xoxb"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			uc := &implUseCase{l: pkgLog.NewNop(), integrations: &fakeIntegrations{integ: tc.integ, err: tc.err}}
			rule := testRule(model.ChannelSlack)
			rule.SlackChannelID = tc.ruleChannel

			got, ok := uc.slackTarget(context.Background(), rule)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEmailTarget(t *testing.T) {
	rule := model.NotificationRule{EmailRecipients: []string{" a@x.io ", "A@x.io", "", "b@x.io"}}
	got, ok := emailTarget(rule)
	assert.True(t, ok)
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, got.Recipients)
}

func TestFingerprint(t *testing.T) {
	rule := testRule()
	base := Fingerprint(rule, testEvent("evt-1"))

	assert.Len(t, base, 64)
	assert.Equal(t, base, Fingerprint(rule, testEvent("evt-2")))

	ev := testEvent("evt-1")
	ev.Changes = map[string]model.FieldChange{"status": {Before: "PAUSED", After: "ARCHIVED"}}
	assert.NotEqual(t, base, Fingerprint(rule, ev))

	ev = testEvent("evt-1")
	ev.EntityID = "121"
	assert.NotEqual(t, base, Fingerprint(rule, ev))

	ev = testEvent("evt-1")
	ev.Changes = map[string]model.FieldChange{
		"b": {After: json.Number("1")},
		"a": {After: json.Number("2")},
	}
	assert.Equal(t, Fingerprint(rule, ev), Fingerprint(rule, ev))
}
