package email

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"adalert-srv/internal/channel"
	"adalert-srv/internal/model"
	pkgEmail "adalert-srv/pkg/email"

	"go.uber.org/multierr"
)

const subjectPrefix = "[AdAlert]"

type sender struct {
	mailer pkgEmail.Mailer
}

// New returns the email channel sender. Each recipient gets its own message.
func New(mailer pkgEmail.Mailer) channel.Sender {
	return &sender{mailer: mailer}
}

func (s *sender) Channel() model.Channel { return model.ChannelEmail }

func (s *sender) Render(rule model.NotificationRule, event model.ChangeEvent) (channel.Message, error) {
	v := view{
		Summary:    channel.Summary(rule, event),
		RuleName:   rule.Name,
		Entity:     fmt.Sprintf("%s %q", channel.EntityLabel(event.EntityType), event.EntityName),
		EntityID:   event.EntityID,
		Platform:   string(event.Platform),
		ChangeType: channel.Humanize(event.ChangeType),
		DetectedAt: event.DetectedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
	}

	var text strings.Builder
	text.WriteString(v.Summary)
	text.WriteString("\n\n")
	for _, name := range channel.SortedFields(event.Changes) {
		fc := event.Changes[name]
		r := row{Field: name, Before: channel.FormatValue(fc.Before), After: channel.FormatValue(fc.After)}
		v.Rows = append(v.Rows, r)
		fmt.Fprintf(&text, "%s: %s %s %s\n", r.Field, r.Before, channel.Arrow, r.After)
	}
	fmt.Fprintf(&text, "\n%s (%s) on %s, detected %s.\n", v.Entity, v.EntityID, v.Platform, v.DetectedAt)

	var html bytes.Buffer
	if err := bodyTmpl.Execute(&html, v); err != nil {
		return channel.Message{}, err
	}

	return channel.Message{
		Subject: subject(event),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

func (s *sender) Send(ctx context.Context, target channel.Target, msg channel.Message) error {
	if len(target.Recipients) == 0 {
		return &channel.Error{Channel: model.ChannelEmail, Err: channel.ErrInvalidTarget}
	}

	var (
		errs      error
		failed    []string
		retryable bool
	)
	for _, to := range target.Recipients {
		err := s.mailer.Send(ctx, pkgEmail.Message{
			To:      to,
			Subject: msg.Subject,
			HTML:    msg.HTML,
			Text:    msg.Text,
		})
		if err == nil {
			continue
		}
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", to, err))
		failed = append(failed, to)
		retryable = retryable || pkgEmail.IsTemporary(err)
	}

	if errs == nil {
		return nil
	}
	return &channel.Error{
		Channel:   model.ChannelEmail,
		Retryable: retryable,
		Failed:    failed,
		Err:       errs,
	}
}

func subject(event model.ChangeEvent) string {
	name := event.EntityName
	if name == "" {
		name = event.EntityID
	}
	return fmt.Sprintf("%s %s: %s", subjectPrefix, channel.Humanize(event.ChangeType), name)
}
