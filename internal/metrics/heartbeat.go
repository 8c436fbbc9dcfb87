package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HeartbeatSweeps counts completed reconciliation sweeps by outcome.
	HeartbeatSweeps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "botfarm",
			Name:      "heartbeat_sweeps_total",
			Help:      "Total number of heartbeat sweeps by outcome",
		},
		[]string{"outcome"},
	)

	// HeartbeatBotsUpdated counts bots refreshed across all sweeps.
	HeartbeatBotsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "botfarm",
			Name:      "heartbeat_bots_updated_total",
			Help:      "Total number of bot usage refreshes performed",
		},
	)

	// HeartbeatSweepDuration observes how long one sweep takes.
	HeartbeatSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "botfarm",
			Name:      "heartbeat_sweep_duration_seconds",
			Help:      "Heartbeat sweep duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
