package model

import "slices"

// NotificationRule is an organization scoped alert rule. The pipeline only reads it.
type NotificationRule struct {
	ID                   string
	OrganizationID       string
	Name                 string
	IsActive             bool
	Priority             Priority
	Platforms            []Platform
	ChangeTypes          []string
	Conditions           Node
	NotificationChannels []Channel
	SlackChannelID       string
	EmailRecipients      []string
	WebhookURL           string
}

// AppliesToPlatform reports whether the rule's platform filter admits p. An empty filter admits all.
func (r NotificationRule) AppliesToPlatform(p Platform) bool {
	return len(r.Platforms) == 0 || slices.Contains(r.Platforms, p)
}

// AppliesToChangeType reports whether the rule's change type filter admits t. An empty filter admits all.
func (r NotificationRule) AppliesToChangeType(t string) bool {
	return len(r.ChangeTypes) == 0 || slices.Contains(r.ChangeTypes, t)
}

// Channels returns the configured channels without duplicates, in configuration order.
func (r NotificationRule) Channels() []Channel {
	out := make([]Channel, 0, len(r.NotificationChannels))
	for _, c := range r.NotificationChannels {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
