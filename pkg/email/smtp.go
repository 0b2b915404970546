package email

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type smtpMailer struct {
	from   string
	dialer *gomail.Dialer
}

func newSMTP(cfg Config) (Mailer, error) {
	host := strings.TrimSpace(cfg.SMTP.Host)
	if host == "" {
		return nil, ErrMissingSMTPHost
	}
	port := cfg.SMTP.Port
	if port <= 0 {
		port = defaultSMTPPort
	}

	return &smtpMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(host, port, cfg.SMTP.Username, cfg.SMTP.Password),
	}, nil
}

func (m *smtpMailer) Provider() string { return ProviderSMTP }

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrMissingRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		gm.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			gm.AddAlternative("text/html", msg.HTML)
		}
	} else {
		gm.SetBody("text/html", msg.HTML)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return classifyText(fmt.Errorf("smtp send: %w", err))
	}
	return nil
}
