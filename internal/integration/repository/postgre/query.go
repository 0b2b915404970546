package postgres

import "github.com/aarondl/null/v8"

const getSlackIntegrationQuery = `
SELECT organization_id, webhook_url, bot_token, default_channel_id, team_name
FROM slack_integrations
WHERE organization_id = $1
LIMIT 1`

type dbSlackIntegration struct {
	OrganizationID   string      `boil:"organization_id"`
	WebhookURL       null.String `boil:"webhook_url"`
	BotToken         null.String `boil:"bot_token"`
	DefaultChannelID null.String `boil:"default_channel_id"`
	TeamName         null.String `boil:"team_name"`
}
