package channel

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"unicode/utf8"

	"adalert-srv/internal/model"
)

var (
	ErrInvalidTarget = errors.New("invalid channel target")
	ErrNoSender      = errors.New("no sender registered for channel")
)

// Error is a classified delivery failure.
type Error struct {
	Channel    model.Channel
	StatusCode int
	Retryable  bool
	// Failed lists the recipients that were not delivered, for partial email failures.
	Failed []string
	Err    error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Channel, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Channel, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ClassifyStatus turns a non-2xx HTTP status into an *Error. 429 and 5xx are
// retryable, every other 4xx is permanent. 2xx returns nil.
func ClassifyStatus(ch model.Channel, status int, body string) error {
	if status >= 200 && status < 300 {
		return nil
	}
	return &Error{
		Channel:    ch,
		StatusCode: status,
		Retryable:  status == http.StatusTooManyRequests || status >= 500,
		Err:        fmt.Errorf("unexpected response: %s", truncate(body, 256)),
	}
}

// Transport wraps a failure that happened before a response was received.
// Network errors are retryable, cancellation is not.
func Transport(ch model.Channel, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Channel: ch, Retryable: isTransient(err), Err: err}
}

// IsRetryable reports whether err is a transient delivery failure.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return isTransient(err)
}

// FailedRecipients returns the recipients recorded on err, if any.
func FailedRecipients(err error) []string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Failed
	}
	return nil
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// truncate caps s at max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
