package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
)

type resendMailer struct {
	from   string
	client *resend.Client
}

func newResend(cfg Config) (Mailer, error) {
	key := strings.TrimSpace(cfg.Resend.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	return &resendMailer{
		from:   cfg.From,
		client: resend.NewClient(key),
	}, nil
}

func (m *resendMailer) Provider() string { return ProviderResend }

func (m *resendMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrMissingRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	if _, err := m.client.Emails.Send(params); err != nil {
		return classifyText(fmt.Errorf("resend send: %w", err))
	}
	return nil
}
