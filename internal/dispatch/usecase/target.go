package usecase

import (
	"context"
	"strings"

	"adalert-srv/internal/channel"
	"adalert-srv/internal/channel/webhook"
	"adalert-srv/internal/model"
)

type plan struct {
	channel model.Channel
	sender  channel.Sender
	target  channel.Target
}

// resolveTargets returns one plan per configured channel that has both a
// sender and a valid target, in the rule's channel order.
func (uc *implUseCase) resolveTargets(ctx context.Context, rule model.NotificationRule) []plan {
	var plans []plan
	for _, ch := range rule.Channels() {
		sender, ok := uc.senders[ch]
		if !ok {
			uc.l.Warnf(ctx, "internal.dispatch.usecase.resolveTargets: %v: %s", channel.ErrNoSender, ch)
			continue
		}

		var (
			target channel.Target
			valid  bool
		)
		switch ch {
		case model.ChannelSlack:
			target, valid = uc.slackTarget(ctx, rule)
		case model.ChannelEmail:
			target, valid = emailTarget(rule)
		case model.ChannelWebhook:
			target, valid = channel.Target{URL: strings.TrimSpace(rule.WebhookURL)}, webhook.ValidURL(strings.TrimSpace(rule.WebhookURL))
		}
		if !valid {
			uc.l.Debugf(ctx, "internal.dispatch.usecase.resolveTargets: rule %s has no %s target", rule.ID, ch)
			continue
		}

		plans = append(plans, plan{channel: ch, sender: sender, target: target})
	}
	return plans
}

// slackTarget prefers the bot token when the rule names a channel, then the
// incoming webhook, then the bot token with the integration's default channel.
func (uc *implUseCase) slackTarget(ctx context.Context, rule model.NotificationRule) (channel.Target, bool) {
	integ, err := uc.integrations.GetSlackIntegration(ctx, rule.OrganizationID)
	if err != nil {
		uc.l.Warnf(ctx, "internal.dispatch.usecase.slackTarget.GetSlackIntegration: %v", err)
		return channel.Target{}, false
	}
	if integ == nil {
		return channel.Target{}, false
	}

	token := strings.TrimSpace(integ.BotToken)
	ruleChannel := strings.TrimSpace(rule.SlackChannelID)
	switch {
	case token != "" && ruleChannel != "":
		return channel.Target{BotToken: token, SlackChannel: ruleChannel}, true
	case strings.TrimSpace(integ.WebhookURL) != "":
		return channel.Target{URL: strings.TrimSpace(integ.WebhookURL)}, true
	case token != "" && strings.TrimSpace(integ.DefaultChannelID) != "":
		return channel.Target{BotToken: token, SlackChannel: strings.TrimSpace(integ.DefaultChannelID)}, true
	}
	return channel.Target{}, false
}

func emailTarget(rule model.NotificationRule) (channel.Target, bool) {
	seen := make(map[string]struct{}, len(rule.EmailRecipients))
	recipients := make([]string, 0, len(rule.EmailRecipients))
	for _, r := range rule.EmailRecipients {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		key := strings.ToLower(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		recipients = append(recipients, r)
	}
	return channel.Target{Recipients: recipients}, len(recipients) > 0
}
