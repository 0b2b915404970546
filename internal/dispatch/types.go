package dispatch

import (
	"time"

	"adalert-srv/internal/model"
)

// Result is the terminal outcome for one channel.
type Result struct {
	Channel  model.Channel
	Status   model.DispatchStatus
	Attempts int
	Err      error
}

// Options tunes dispatch. Unset fields fall back to DefaultOptions, except
// RateLimit: a RateLimit <= 0 disables rate limiting. A zero RetryDelay
// retries immediately.
type Options struct {
	DedupWindow time.Duration
	RateLimit   int
	RateWindow  time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

func DefaultOptions() Options {
	return Options{
		DedupWindow: 5 * time.Minute,
		RateLimit:   10,
		RateWindow:  time.Minute,
		MaxAttempts: 2,
		RetryDelay:  time.Second,
	}
}

// WithDefaults fills unset fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if o.DedupWindow <= 0 {
		o.DedupWindow = def.DedupWindow
	}
	if o.RateLimit < 0 {
		o.RateLimit = 0
	}
	if o.RateWindow <= 0 {
		o.RateWindow = def.RateWindow
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = def.MaxAttempts
	}
	if o.RetryDelay < 0 {
		o.RetryDelay = def.RetryDelay
	}
	return o
}
