package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAccepted         = "accepted"
	outcomeUnknownPlatform  = "unknown_platform"
	outcomeInvalidSignature = "invalid_signature"
	outcomeMalformed        = "malformed"
	outcomeRejected         = "rejected"
)

var (
	deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adalert",
		Name:      "webhook_deliveries_total",
		Help:      "Inbound webhook deliveries by platform and outcome.",
	}, []string{"platform", "outcome"})

	changeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adalert",
		Name:      "change_events_total",
		Help:      "Change events extracted from accepted deliveries.",
	}, []string{"platform"})
)
