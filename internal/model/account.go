package model

// AdAccount is a connected advertising account.
type AdAccount struct {
	ID             string
	OrganizationID string
	Platform       Platform
	ExternalID     string
	Name           string
}

// SlackIntegration holds an organization's Slack delivery credentials.
type SlackIntegration struct {
	OrganizationID   string
	WebhookURL       string
	BotToken         string
	DefaultChannelID string
	TeamName         string
}
