package model

import (
	"errors"
	"strings"
)

// Platform is an advertising platform that emits change webhooks.
type Platform string

const (
	PlatformMeta   Platform = "meta"
	PlatformGoogle Platform = "google"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// ParsePlatform maps a path segment to a Platform.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformMeta:
		return PlatformMeta, nil
	case PlatformGoogle:
		return PlatformGoogle, nil
	default:
		return "", ErrUnknownPlatform
	}
}

func (p Platform) String() string { return string(p) }

// EntityType is the kind of ad object a change refers to.
type EntityType string

const (
	EntityCampaign EntityType = "campaign"
	EntityAdSet    EntityType = "ad_set"
	EntityAd       EntityType = "ad"
)

// Channel is a notification delivery channel.
type Channel string

const (
	ChannelSlack   Channel = "slack"
	ChannelEmail   Channel = "email"
	ChannelWebhook Channel = "webhook"
)

// Priority is used for display and ordering only.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)
