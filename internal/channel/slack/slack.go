package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"adalert-srv/internal/channel"
	"adalert-srv/internal/model"
	pkgSlack "adalert-srv/pkg/slack"
)

type sender struct {
	client pkgSlack.ISlack
}

// New returns the Slack channel sender.
func New(client pkgSlack.ISlack) channel.Sender {
	return &sender{client: client}
}

func (s *sender) Channel() model.Channel { return model.ChannelSlack }

func (s *sender) Render(rule model.NotificationRule, event model.ChangeEvent) (channel.Message, error) {
	summary := channel.Summary(rule, event)

	fields := make([]pkgSlack.Field, 0, len(event.Changes))
	for _, name := range channel.SortedFields(event.Changes) {
		if len(fields) == pkgSlack.MaxAttachmentFields {
			break
		}
		fc := event.Changes[name]
		fields = append(fields, pkgSlack.Field{
			Title: name,
			Value: pkgSlack.Truncate(fmt.Sprintf("%s %s %s", channel.FormatValue(fc.Before), channel.Arrow, channel.FormatValue(fc.After)), pkgSlack.MaxFieldValueLength),
			Short: len(event.Changes) > 1,
		})
	}

	payload := pkgSlack.Payload{
		Text: pkgSlack.Truncate(summary, pkgSlack.MaxTextLength),
		Attachments: []pkgSlack.Attachment{{
			Fallback: summary,
			Color:    priorityColor(rule.Priority),
			Title:    channel.Humanize(event.ChangeType),
			Fields:   fields,
			Footer:   footer(event),
		}},
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return channel.Message{}, err
	}
	return channel.Message{Text: summary, Payload: b}, nil
}

func (s *sender) Send(ctx context.Context, target channel.Target, msg channel.Message) error {
	var payload pkgSlack.Payload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return &channel.Error{Channel: model.ChannelSlack, Err: err}
	}

	var err error
	switch {
	case strings.TrimSpace(target.URL) != "":
		err = s.client.PostWebhook(ctx, target.URL, &payload)
	case target.BotToken != "" && target.SlackChannel != "":
		payload.Channel = target.SlackChannel
		err = s.client.PostMessage(ctx, target.BotToken, &payload)
	default:
		return &channel.Error{Channel: model.ChannelSlack, Err: channel.ErrInvalidTarget}
	}

	return classify(err)
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *pkgSlack.APIError
	if errors.As(err, &apiErr) {
		return &channel.Error{
			Channel:    model.ChannelSlack,
			StatusCode: apiErr.StatusCode,
			Retryable:  apiErr.Temporary(),
			Err:        err,
		}
	}
	return channel.Transport(model.ChannelSlack, err)
}

func priorityColor(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return pkgSlack.ColorDanger
	case model.PriorityLow:
		return pkgSlack.ColorInfo
	default:
		return pkgSlack.ColorWarning
	}
}

func footer(event model.ChangeEvent) string {
	parts := []string{string(event.Platform)}
	if name, ok := event.Metadata["account_name"].(string); ok && name != "" {
		parts = append(parts, name)
	}
	parts = append(parts, event.EntityID)
	if !event.DetectedAt.IsZero() {
		parts = append(parts, event.DetectedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	return strings.Join(parts, " | ")
}
