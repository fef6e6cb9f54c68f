// ABOUTME: Prometheus counters for session transitions and identity API calls
// ABOUTME: Exported to a node_exporter textfile since the CLI has no HTTP listener

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hrdesk"

// Registry holds every hrdesk collector. It is separate from the default
// registry so textfile output carries no Go runtime noise.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// RequestsTotal counts identity API calls.
// Labels:
//   - op: login, logout, profile, validate, dashboard_hr, dashboard_employee
//   - outcome: ok, auth_error, network_error, server_error
var RequestsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_requests_total",
		Help:      "Total number of identity API requests by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// RequestDuration observes identity API latency.
var RequestDuration = factory.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "client_request_duration_seconds",
		Help:      "Identity API request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// TransitionsTotal counts applied session reducer actions.
var TransitionsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions by action.",
	},
	[]string{"action"},
)

// UnauthorizedTotal counts 401 responses that triggered the unauthorized event.
var UnauthorizedTotal = factory.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unauthorized_events_total",
		Help:      "Total number of unauthorized responses seen on authenticated requests.",
	},
)

// ObserveRequest records one identity API call.
func ObserveRequest(op, outcome string, elapsed time.Duration) {
	RequestsTotal.WithLabelValues(op, outcome).Inc()
	RequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveTransition records one applied session action.
func ObserveTransition(action string) {
	TransitionsTotal.WithLabelValues(action).Inc()
}

// WriteTextfile writes the registry to path in the text exposition format.
// An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
