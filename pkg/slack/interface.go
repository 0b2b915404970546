package slack

import "context"

// ISlack posts messages to Slack.
type ISlack interface {
	// PostWebhook posts payload to an incoming webhook URL.
	PostWebhook(ctx context.Context, webhookURL string, payload *Payload) error
	// PostMessage posts payload with chat.postMessage using a bot token. payload.Channel must be set.
	PostMessage(ctx context.Context, token string, payload *Payload) error
	// ReportBug posts an operational error report to the ops webhook.
	ReportBug(ctx context.Context, message string) error
	// OpsEnabled reports whether ReportBug has somewhere to go.
	OpsEnabled() bool
	Close() error
}
