package dispatch

import (
	"context"
	"time"

	"adalert-srv/internal/model"
)

// UseCase fans a matched (rule, event) pair out to the rule's channels.
//
//go:generate mockery --name UseCase
type UseCase interface {
	// Dispatch delivers to every eligible channel and waits for all of them.
	// It returns nil when the pair is a duplicate or no channel has a valid target.
	Dispatch(ctx context.Context, rule model.NotificationRule, event model.ChangeEvent) []Result
	// Close stops scheduling retries. In-flight attempts finish.
	Close()
}

// Guard holds the shared dedup and rate-limit state. Both operations are
// atomic check-and-set.
type Guard interface {
	// MarkSeen records key for ttl and reports whether it was not already present.
	MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Allow records one hit on key and reports whether it fits within limit
	// hits per sliding window. Denied hits are not recorded.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
