package slack

import (
	"net/http"
	"sync"
	"time"

	"adalert-srv/pkg/log"

	"golang.org/x/time/rate"
)

// Payload is a chat message in Slack's legacy attachment format, accepted
// both by incoming webhooks and chat.postMessage.
type Payload struct {
	Channel     string       `json:"channel,omitempty"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a colored block under the message text.
type Attachment struct {
	Fallback string  `json:"fallback,omitempty"`
	Color    string  `json:"color,omitempty"`
	Title    string  `json:"title,omitempty"`
	Text     string  `json:"text,omitempty"`
	Fields   []Field `json:"fields,omitempty"`
	Footer   string  `json:"footer,omitempty"`
	Ts       int64   `json:"ts,omitempty"`
}

// Field is a title/value pair inside an attachment.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Config configures the client.
type Config struct {
	Timeout time.Duration
	// RatePerSecond and Burst pace requests per destination.
	RatePerSecond float64
	Burst         int
	// OpsWebhookURL receives ReportBug messages. Empty disables them.
	OpsWebhookURL string
	APIBaseURL    string
	RetryCount    int
	RetryDelay    time.Duration
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type slackImpl struct {
	l      log.Logger
	config Config
	client *http.Client

	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastUsed time.Time
}
