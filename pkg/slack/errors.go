package slack

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	errWebhookRequired = errors.New("slack: webhook URL is required")
	errTokenRequired   = errors.New("slack: bot token is required")
	errChannelRequired = errors.New("slack: channel is required")
	errOpsDisabled     = errors.New("slack: ops webhook is not configured")
)

// APIError is returned when Slack answers with a failure.
type APIError struct {
	StatusCode int
	// Code is Slack's error string, e.g. "channel_not_found" or "ratelimited".
	Code       string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("slack: status %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("slack: status %d", e.StatusCode)
}

// Temporary reports whether the request may succeed if repeated.
func (e *APIError) Temporary() bool {
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500 {
		return true
	}
	switch e.Code {
	case "ratelimited", "rate_limited", "service_unavailable", "internal_error", "request_timeout", "fatal_error":
		return true
	}
	return false
}
