package channel

import (
	"context"

	"adalert-srv/internal/model"
)

// Sender delivers a notification over one channel. Render must be
// deterministic for a given (rule, event) so a retry resends the same payload.
//
//go:generate mockery --name Sender
type Sender interface {
	Channel() model.Channel
	Render(rule model.NotificationRule, event model.ChangeEvent) (Message, error)
	Send(ctx context.Context, target Target, msg Message) error
}
