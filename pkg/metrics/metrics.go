package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Workflow operation latency (seconds), labeled by operation and result.
	WorkflowOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workflow_op_duration_seconds",
			Help:    "Workflow operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "result"},
	)

	// Submission state transitions.
	SubmissionTransitionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_transition_count",
			Help: "Total number of submission status transitions",
		},
		[]string{"to_status"},
	)

	// Notification fan-out size per workflow event.
	NotificationFanoutCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_fanout_count",
			Help: "Total number of per-recipient notifications produced",
		},
		[]string{"status"},
	)

	// Database query latency (seconds).
	DBQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	// HTTP request latency (seconds).
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	// MQ consumption latency (milliseconds).
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)
)

// RecordWorkflowOp records one workflow operation outcome.
func RecordWorkflowOp(operation, result string, duration time.Duration) {
	WorkflowOpDuration.WithLabelValues(operation, result).Observe(duration.Seconds())
}

// RecordSubmissionTransition records one submission status change.
func RecordSubmissionTransition(toStatus string) {
	SubmissionTransitionCount.WithLabelValues(toStatus).Inc()
}

// RecordNotificationFanout records how many recipients one event reached.
func RecordNotificationFanout(status string, recipients int) {
	NotificationFanoutCount.WithLabelValues(status).Add(float64(recipients))
}

// RecordDBQueryDuration records one database query.
func RecordDBQueryDuration(duration time.Duration) {
	DBQueryDuration.Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records one HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordMQConsumeLatency records one consumed MQ message.
func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}
