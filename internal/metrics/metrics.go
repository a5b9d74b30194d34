package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "alwell"

var (
	once sync.Once

	healthFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_fetch_total",
			Help:      "Health data fetches by type and outcome.",
		},
		[]string{"type", "outcome"},
	)

	snapshotUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_updates_total",
			Help:      "Completions applied to or discarded by the snapshot store.",
		},
		[]string{"result"},
	)

	samplesIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_ingested_total",
			Help:      "Health samples stored through the batch endpoint.",
		},
	)

	assistantReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_replies_total",
			Help:      "Assistant replies by outcome.",
		},
		[]string{"outcome"},
	)

	assistantLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assistant_request_seconds",
			Help:      "Latency of conversational API requests.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	reportsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_created_total",
			Help:      "Exported reports by format.",
		},
		[]string{"format"},
	)
)

// Register registers collectors with the default registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			healthFetches,
			snapshotUpdates,
			samplesIngested,
			assistantReplies,
			assistantLatency,
			reportsCreated,
		)
	})
}

func IncHealthFetch(healthType, outcome string) {
	healthFetches.WithLabelValues(healthType, outcome).Inc()
}

func IncSnapshotUpdate(result string) {
	snapshotUpdates.WithLabelValues(result).Inc()
}

func AddSamplesIngested(n int) {
	if n > 0 {
		samplesIngested.Add(float64(n))
	}
}

func IncAssistantReply(outcome string) {
	assistantReplies.WithLabelValues(outcome).Inc()
}

func ObserveAssistantLatency(seconds float64) {
	assistantLatency.Observe(seconds)
}

func IncReportCreated(format string) {
	reportsCreated.WithLabelValues(format).Inc()
}
