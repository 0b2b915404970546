package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"adalert-srv/internal/channel"
	"adalert-srv/internal/model"
	"adalert-srv/pkg/signature"
)

const (
	UserAgent       = "adalert-srv/1.0"
	HeaderEventID   = "X-Adalert-Event-Id"
	HeaderSignature = "X-Adalert-Signature"

	defaultTimeout = 10 * time.Second
)

// Config configures outbound callbacks.
type Config struct {
	// SigningSecret, when set, signs every body with HMAC-SHA256.
	SigningSecret string
	Timeout       time.Duration
}

type sender struct {
	secret string
	client *http.Client
}

// New returns the generic HTTP callback sender.
func New(cfg Config) channel.Sender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &sender{
		secret: cfg.SigningSecret,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *sender) Channel() model.Channel { return model.ChannelWebhook }

func (s *sender) Render(rule model.NotificationRule, event model.ChangeEvent) (channel.Message, error) {
	b, err := json.Marshal(channel.NewDocument(rule, event))
	if err != nil {
		return channel.Message{}, err
	}
	return channel.Message{Subject: event.ID, Payload: b}, nil
}

func (s *sender) Send(ctx context.Context, target channel.Target, msg channel.Message) error {
	if !ValidURL(target.URL) {
		return &channel.Error{Channel: model.ChannelWebhook, Err: channel.ErrInvalidTarget}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(msg.Payload))
	if err != nil {
		return &channel.Error{Channel: model.ChannelWebhook, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if msg.Subject != "" {
		req.Header.Set(HeaderEventID, msg.Subject)
	}
	if s.secret != "" {
		req.Header.Set(HeaderSignature, signature.Sign(msg.Payload, s.secret))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return channel.Transport(model.ChannelWebhook, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return channel.ClassifyStatus(model.ChannelWebhook, resp.StatusCode, string(body))
}

// ValidURL reports whether raw is an absolute http(s) URL with a host.
func ValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
