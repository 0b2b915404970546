package slack

import (
	"net/http"
	"strings"
	"time"

	"adalert-srv/pkg/log"
)

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:       DefaultTimeout,
		RatePerSecond: DefaultRatePerSecond,
		Burst:         DefaultBurst,
		APIBaseURL:    defaultAPIBaseURL,
		RetryCount:    DefaultRetryCount,
		RetryDelay:    DefaultRetryDelay,
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        50,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

// New creates a Slack client. Zero values in cfg fall back to DefaultConfig.
// The logger may be nil.
func New(l log.Logger, cfg Config) ISlack {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = def.RatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = def.APIBaseURL
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	cfg.OpsWebhookURL = strings.TrimSpace(cfg.OpsWebhookURL)

	return &slackImpl{
		l:        l,
		config:   cfg,
		client:   newHTTPClient(cfg.Timeout),
		limiters: make(map[string]*limiterEntry),
		now:      time.Now,
	}
}

func (s *slackImpl) OpsEnabled() bool {
	return s.config.OpsWebhookURL != ""
}

func (s *slackImpl) Close() error {
	if s.client != nil {
		s.client.CloseIdleConnections()
	}
	return nil
}
