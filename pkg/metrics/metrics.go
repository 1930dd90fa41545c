package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	QuoteOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotes_computed_total",
			Help: "Quotes computed by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)
	QuoteWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_warnings_total",
			Help: "Inconsistent snapshot records skipped while quoting",
		},
		[]string{"code"},
	)
	PackageCombinations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "package_combinations_evaluated",
			Help:    "Combinations enumerated per package search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
	SnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snapshot_load_duration_seconds",
			Help:    "Time spent reading the fleet snapshot",
			Buckets: prometheus.DefBuckets,
		},
	)

	KafkaMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_total",
			Help: "Kafka messages by direction, topic and status",
		},
		[]string{"direction", "topic", "status"},
	)
	KafkaDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_message_duration_seconds",
			Help:    "Kafka publish and handle duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"direction", "topic"},
	)
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// NormalizePath keeps label cardinality bounded: the segment following a
// collection name is replaced by ":id".
func NormalizePath(p string) string {
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "/"
	}
	segments := strings.Split(p, "/")
	for i := 1; i < len(segments); i++ {
		if segments[i-1] == "units" {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
