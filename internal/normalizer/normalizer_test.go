package normalizer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"adalert-srv/internal/model"
	"adalert-srv/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) FindAccountByExternalID(ctx context.Context, platform model.Platform, externalID string) (*model.AdAccount, error) {
	args := m.Called(ctx, platform, externalID)
	account, _ := args.Get(0).(*model.AdAccount)
	return account, args.Error(1)
}

type stubDetector struct {
	result Detection
}

func (s stubDetector) DetectChanges(before, after any) Detection { return s.result }

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestNormalizer(accounts AccountResolver, detector ChangeDetector) *implNormalizer {
	return &implNormalizer{
		logger:   log.NewNop(),
		accounts: accounts,
		detector: detector,
		clock:    func() time.Time { return fixedNow },
		newID:    func() string { return "evt-fixed" },
	}
}

const statusPayload = `{"object":"ad_account","entry":[{"id":"act_42","time":1700000000,"changes":[
	{"field":"campaign","value":{"verb":"update","object_type":"campaign","object_id":"c-1","object_name":"Summer Sale","field":"status","before":"PAUSED","after":"ACTIVE"}}
]}]}`

func TestNormalizeStatusChange(t *testing.T) {
	accounts := &mockResolver{}
	accounts.On("FindAccountByExternalID", mock.Anything, model.PlatformMeta, "act_42").
		Return(&model.AdAccount{ID: "acc-1", OrganizationID: "org-1", Name: "Main"}, nil).Once()

	n := newTestNormalizer(accounts, NewFieldDiffDetector())
	events, err := n.Normalize(context.Background(), model.PlatformMeta, []byte(statusPayload))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "evt-fixed", ev.ID)
	assert.Equal(t, "org-1", ev.OrganizationID)
	assert.Equal(t, "acc-1", ev.AdAccountID)
	assert.Equal(t, model.PlatformMeta, ev.Platform)
	assert.Equal(t, "campaign_status_changed", ev.ChangeType)
	assert.Equal(t, model.EntityCampaign, ev.EntityType)
	assert.Equal(t, "c-1", ev.EntityID)
	assert.Equal(t, "Summer Sale", ev.EntityName)
	assert.Equal(t, map[string]model.FieldChange{"status": {Before: "PAUSED", After: "ACTIVE"}}, ev.Changes)
	assert.Equal(t, "update", ev.Metadata["verb"])
	assert.Equal(t, "act_42", ev.Metadata["external_account_id"])
	assert.Equal(t, int64(1700000000), ev.Metadata["entry_time"])
	assert.Equal(t, "Main", ev.Metadata["account_name"])
	assert.Equal(t, fixedNow, ev.DetectedAt)
	accounts.AssertExpectations(t)
}

func TestNormalizeObjectSnapshots(t *testing.T) {
	payload := `{"entry":[{"id":42,"changes":[
		{"value":{"verb":"update","object_type":"adset","object_id":7,"before":{"name":"Set A","daily_budget":"5000","updated_time":"1"},"after":{"name":"Set A","daily_budget":"20000","updated_time":"2"}}},
		{"value":{"verb":"update","object_type":"ad","object_id":"ad-1","before":{"name":"Old","status":"ACTIVE"},"after":{"name":"New","status":"PAUSED"}}},
		{"value":{"verb":"create","object_type":"campaign","object_id":"c-9","after":{"name":"Launch","status":"ACTIVE"}}}
	]}]}`

	accounts := &mockResolver{}
	accounts.On("FindAccountByExternalID", mock.Anything, model.PlatformGoogle, "42").
		Return(&model.AdAccount{ID: "acc-2", OrganizationID: "org-2"}, nil).Once()

	n := newTestNormalizer(accounts, NewFieldDiffDetector())
	events, err := n.Normalize(context.Background(), model.PlatformGoogle, []byte(payload))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "ad_set_budget_changed", events[0].ChangeType)
	assert.Equal(t, model.EntityAdSet, events[0].EntityType)
	assert.Equal(t, "7", events[0].EntityID)
	assert.Equal(t, "Set A", events[0].EntityName)
	assert.Equal(t, map[string]model.FieldChange{"daily_budget": {Before: "5000", After: "20000"}}, events[0].Changes)

	assert.Equal(t, "ad_updated", events[1].ChangeType)
	assert.Equal(t, "New", events[1].EntityName)
	assert.Len(t, events[1].Changes, 2)

	assert.Equal(t, "campaign_created", events[2].ChangeType)
	assert.Equal(t, model.FieldChange{Before: nil, After: "ACTIVE"}, events[2].Changes["status"])
}

func TestNormalizeDropsRecords(t *testing.T) {
	t.Run("unknown account", func(t *testing.T) {
		accounts := &mockResolver{}
		accounts.On("FindAccountByExternalID", mock.Anything, model.PlatformMeta, "act_42").Return(nil, nil).Once()

		events, err := newTestNormalizer(accounts, NewFieldDiffDetector()).
			Normalize(context.Background(), model.PlatformMeta, []byte(statusPayload))
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("lookup failure is absorbed", func(t *testing.T) {
		accounts := &mockResolver{}
		accounts.On("FindAccountByExternalID", mock.Anything, model.PlatformMeta, "act_42").Return(nil, errors.New("db down")).Once()

		events, err := newTestNormalizer(accounts, NewFieldDiffDetector()).
			Normalize(context.Background(), model.PlatformMeta, []byte(statusPayload))
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("detector reports no change", func(t *testing.T) {
		accounts := &mockResolver{}
		accounts.On("FindAccountByExternalID", mock.Anything, model.PlatformMeta, "act_42").
			Return(&model.AdAccount{ID: "acc-1", OrganizationID: "org-1"}, nil)

		events, err := newTestNormalizer(accounts, stubDetector{result: Detection{HasChanges: false}}).
			Normalize(context.Background(), model.PlatformMeta, []byte(statusPayload))
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("account resolved once per delivery", func(t *testing.T) {
		payload := `{"entry":[
			{"id":"act_42","changes":[{"value":{"object_type":"ad","object_id":"1","field":"status","before":"A","after":"B"}}]},
			{"id":"act_42","changes":[{"value":{"object_type":"ad","object_id":"2","field":"status","before":"A","after":"B"}}]}
		]}`
		accounts := &mockResolver{}
		accounts.On("FindAccountByExternalID", mock.Anything, model.PlatformMeta, "act_42").
			Return(&model.AdAccount{ID: "acc-1", OrganizationID: "org-1"}, nil).Once()

		events, err := newTestNormalizer(accounts, NewFieldDiffDetector()).
			Normalize(context.Background(), model.PlatformMeta, []byte(payload))
		require.NoError(t, err)
		assert.Len(t, events, 2)
		accounts.AssertExpectations(t)
	})
}

func TestNormalizeMalformed(t *testing.T) {
	bodies := map[string]string{
		"not json":             `invalid json`,
		"array":                `[]`,
		"null":                 `null`,
		"missing entry":        `{"object":"ad_account"}`,
		"entry not array":      `{"entry":{}}`,
		"entry without id":     `{"entry":[{"changes":[]}]}`,
		"blank id":             `{"entry":[{"id":" ","changes":[]}]}`,
		"change without value": `{"entry":[{"id":"a","changes":[{"field":"x"}]}]}`,
		"missing object type":  `{"entry":[{"id":"a","changes":[{"value":{"object_id":"1"}}]}]}`,
		"missing object id":    `{"entry":[{"id":"a","changes":[{"value":{"object_type":"ad"}}]}]}`,
		"fractional time":      `{"entry":[{"id":"a","time":1.5,"changes":[]}]}`,
		"trailing data":        `{"entry":[]} {"entry":[]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			accounts := &mockResolver{}
			_, err := newTestNormalizer(accounts, NewFieldDiffDetector()).
				Normalize(context.Background(), model.PlatformMeta, []byte(body))
			assert.ErrorIs(t, err, ErrMalformedPayload)
			accounts.AssertNotCalled(t, "FindAccountByExternalID", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestNormalizeEmptyEntryList(t *testing.T) {
	events, err := newTestNormalizer(&mockResolver{}, NewFieldDiffDetector()).
		Normalize(context.Background(), model.PlatformMeta, []byte(`{"entry":[]}`))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFieldDiffDetector(t *testing.T) {
	d := NewFieldDiffDetector()

	tests := []struct {
		name        string
		before      any
		after       any
		wantChanges map[string]model.FieldChange
	}{
		{
			name:        "identical",
			before:      map[string]any{"status": "ACTIVE"},
			after:       map[string]any{"status": "ACTIVE"},
			wantChanges: map[string]model.FieldChange{},
		},
		{
			name:        "ignored bookkeeping field",
			before:      map[string]any{"updated_time": "1"},
			after:       map[string]any{"updated_time": "2"},
			wantChanges: map[string]model.FieldChange{},
		},
		{
			name:   "added and removed keys",
			before: map[string]any{"a": "1"},
			after:  map[string]any{"b": "2"},
			wantChanges: map[string]model.FieldChange{
				"a": {Before: "1", After: nil},
				"b": {Before: nil, After: "2"},
			},
		},
		{
			name:        "nested values",
			before:      map[string]any{"targeting": map[string]any{"age_min": json.Number("18")}},
			after:       map[string]any{"targeting": map[string]any{"age_min": json.Number("18")}},
			wantChanges: map[string]model.FieldChange{},
		},
		{
			name:        "scalars",
			before:      "x",
			after:       "y",
			wantChanges: map[string]model.FieldChange{"value": {Before: "x", After: "y"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.DetectChanges(tt.before, tt.after)
			assert.Equal(t, len(tt.wantChanges) > 0, got.HasChanges)
			assert.Equal(t, tt.wantChanges, got.Changes)
		})
	}
}
