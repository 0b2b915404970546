package email

import (
	"context"
	"fmt"
	"strings"
)

// Mailer sends one message to one recipient. Errors for which IsTemporary
// returns true may succeed if the message is sent again.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	Provider() string
}

// New builds the Mailer named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Mailer, error) {
	if strings.TrimSpace(cfg.From) == "" {
		return nil, ErrMissingFrom
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderSMTP:
		return newSMTP(cfg)
	case ProviderResend:
		return newResend(cfg)
	case ProviderSES:
		return newSES(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
