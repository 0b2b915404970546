package postgres

import (
	"github.com/aarondl/null/v8"
	"github.com/lib/pq"
)

const findActiveRulesQuery = `
SELECT id, organization_id, name, is_active, priority, platforms, change_types,
       conditions, notification_channels, slack_channel_id, email_recipients, webhook_url
FROM notification_rules
WHERE organization_id = $1 AND is_active = TRUE AND deleted_at IS NULL
ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'normal' THEN 1 ELSE 2 END, created_at`

type dbRule struct {
	ID                   string         `boil:"id"`
	OrganizationID       string         `boil:"organization_id"`
	Name                 string         `boil:"name"`
	IsActive             bool           `boil:"is_active"`
	Priority             null.String    `boil:"priority"`
	Platforms            pq.StringArray `boil:"platforms"`
	ChangeTypes          pq.StringArray `boil:"change_types"`
	Conditions           null.JSON      `boil:"conditions"`
	NotificationChannels pq.StringArray `boil:"notification_channels"`
	SlackChannelID       null.String    `boil:"slack_channel_id"`
	EmailRecipients      pq.StringArray `boil:"email_recipients"`
	WebhookURL           null.String    `boil:"webhook_url"`
}
