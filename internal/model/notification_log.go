package model

import "time"

// DispatchStatus is the terminal outcome of one channel attempt sequence.
type DispatchStatus string

const (
	DispatchStatusSent        DispatchStatus = "sent"
	DispatchStatusFailed      DispatchStatus = "failed"
	DispatchStatusRateLimited DispatchStatus = "rate_limited"
)

// NotificationLog is the append-only record of one (rule, channel, event) delivery.
type NotificationLog struct {
	ID            string
	RuleID        string
	ChangeEventID string
	Channel       Channel
	Status        DispatchStatus
	Error         *string
	SentAt        time.Time
}
