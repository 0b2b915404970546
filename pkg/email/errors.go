package email

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strings"
)

var (
	ErrUnknownProvider  = errors.New("email: unknown provider")
	ErrMissingFrom      = errors.New("email: sender address is required")
	ErrMissingRecipient = errors.New("email: recipient is required")
	ErrMissingAPIKey    = errors.New("email: resend api key is required")
	ErrMissingSMTPHost  = errors.New("email: smtp host is required")
)

// TemporaryError marks a provider failure that may succeed on a later attempt.
type TemporaryError struct {
	Err error
}

func (e *TemporaryError) Error() string   { return e.Err.Error() }
func (e *TemporaryError) Unwrap() error   { return e.Err }
func (e *TemporaryError) Temporary() bool { return true }

// IsTemporary reports whether err is transient: a TemporaryError, a network
// error or a deadline. Cancellation is never temporary.
func IsTemporary(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var te *TemporaryError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func temporary(err error) error {
	if err == nil {
		return nil
	}
	return &TemporaryError{Err: err}
}

// SMTP 4xx replies are transient by definition.
var smtpTransient = regexp.MustCompile(`(^|[\s:])4[0-9]{2}[\s-]`)

var transientText = []string{
	"timeout",
	"connection refused",
	"connection reset",
	"temporar",
	"rate limit",
	"throttl",
	"too many requests",
	"try again",
	"502",
	"503",
	"504",
}

var permanentText = []string{
	"not verified",
	"validation",
	"invalid",
	"malformed",
}

// classifyText marks err temporary when its message looks transient. Used
// for providers that do not expose typed errors.
func classifyText(err error) error {
	if err == nil {
		return nil
	}
	if IsTemporary(err) {
		return err
	}
	msg := strings.ToLower(err.Error())
	for _, s := range permanentText {
		if strings.Contains(msg, s) {
			return err
		}
	}
	if smtpTransient.MatchString(msg) {
		return temporary(err)
	}
	for _, s := range transientText {
		if strings.Contains(msg, s) {
			return temporary(err)
		}
	}
	return err
}
