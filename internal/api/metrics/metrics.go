// Package metrics defines and registers all custom Prometheus metrics for
// the marketing API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketing_api"

// OperationsTotal counts handler invocations.
// Labels:
//   - operation: the operation name (e.g. "account.disconnect")
//   - outcome: "success" or "failure"
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of handler invocations, labelled by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// OperationFailuresTotal counts failure envelopes by status code.
// Label:
//   - code: the registry status code carried in the envelope
var OperationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operation_failures_total",
		Help:      "Total number of failure envelopes returned, labelled by status code.",
	},
	[]string{"code"},
)

// OperationDuration measures end-to-end handler latency.
// Label:
//   - operation: the operation name
var OperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of handler invocations from dispatch to envelope.",
	},
	[]string{"operation"},
)

// FetchQueueDepth tracks jobs waiting in the event-bus publisher's buffer.
var FetchQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "fetch_queue_depth",
		Help:      "Current number of fetch jobs buffered in the event-bus publisher.",
	},
)

// FetchPublishedTotal counts fetch jobs accepted by the publisher, labelled
// by ad network.
var FetchPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_published_total",
		Help:      "Total number of fetch jobs accepted for asynchronous processing.",
	},
	[]string{"network"},
)
