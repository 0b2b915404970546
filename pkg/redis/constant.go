package redis

import "time"

const (
	DefaultConnectTimeout = 5 * time.Second

	// Guard checks sit on the notification hot path; keep them short.
	DefaultDialTimeout  = 3 * time.Second
	DefaultReadTimeout  = 500 * time.Millisecond
	DefaultWriteTimeout = 500 * time.Millisecond
)
