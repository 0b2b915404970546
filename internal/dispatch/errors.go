package dispatch

import "errors"

var (
	ErrRateLimited = errors.New("rule rate limit exceeded")
	ErrNoTarget    = errors.New("channel has no valid target")
)
