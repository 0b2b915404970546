package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adalert",
			Name:      "dispatch_total",
			Help:      "Terminal channel outcomes by channel and status.",
		},
		[]string{"channel", "status"},
	)
	dedupTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "adalert",
			Name:      "dispatch_deduplicated_total",
			Help:      "Matched rule/event pairs dropped as duplicates.",
		},
	)
)
