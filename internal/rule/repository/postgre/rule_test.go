package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"adalert-srv/internal/model"
	pkgLog "adalert-srv/pkg/log"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orgID = "4f6c1a57-2d8e-4c43-9d0e-0c6f3d1f6b11"

var columns = []string{
	"id", "organization_id", "name", "is_active", "priority", "platforms", "change_types",
	"conditions", "notification_channels", "slack_channel_id", "email_recipients", "webhook_url",
}

func TestFindActiveRules(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM notification_rules")).
		WithArgs(orgID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("r1", orgID, "Status", true, "HIGH", "{meta}", "{campaign_status_changed}",
				`{"operator":"AND","rules":[{"field":"status","operator":"changed_to","value":"ACTIVE"}]}`,
				"{slack,email}", "C123", "{a@x.io}", nil).
			AddRow("r2", orgID, "Broken", true, nil, "{}", "{}", `{"rules":"nope"}`, "{webhook}", nil, "{}", "https://h.example.com"))

	repo := New(pkgLog.NewNop(), db)
	rules, err := repo.FindActiveRules(context.Background(), orgID)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	r1 := rules[0]
	assert.Equal(t, "r1", r1.ID)
	assert.Equal(t, model.PriorityHigh, r1.Priority)
	assert.Equal(t, []model.Platform{model.PlatformMeta}, r1.Platforms)
	assert.Equal(t, []string{"campaign_status_changed"}, r1.ChangeTypes)
	assert.Equal(t, []model.Channel{model.ChannelSlack, model.ChannelEmail}, r1.NotificationChannels)
	assert.Equal(t, "C123", r1.SlackChannelID)
	assert.Equal(t, []string{"a@x.io"}, r1.EmailRecipients)
	assert.Empty(t, r1.WebhookURL)
	group, ok := r1.Conditions.(model.Group)
	require.True(t, ok)
	assert.Equal(t, model.GroupAnd, group.Operator)
	assert.Len(t, group.Rules, 1)

	r2 := rules[1]
	assert.Equal(t, model.PriorityNormal, r2.Priority)
	assert.Empty(t, r2.Platforms)
	assert.IsType(t, model.Invalid{}, r2.Conditions)
	assert.Equal(t, "https://h.example.com", r2.WebhookURL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveRules_Errors(t *testing.T) {
	t.Run("invalid organization id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		_, err = New(pkgLog.NewNop(), db).FindActiveRules(context.Background(), "not-a-uuid")
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("FROM notification_rules")).
			WithArgs(orgID).
			WillReturnError(errors.New("timeout"))

		_, err = New(pkgLog.NewNop(), db).FindActiveRules(context.Background(), orgID)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rules", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("FROM notification_rules")).
			WithArgs(orgID).
			WillReturnRows(sqlmock.NewRows(columns))

		rules, err := New(pkgLog.NewNop(), db).FindActiveRules(context.Background(), orgID)
		require.NoError(t, err)
		assert.Empty(t, rules)
	})
}
