package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fedmgr_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fedmgr_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Federation metrics
	ProvidersTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fedmgr_providers_total",
			Help: "Total number of resource providers by status",
		},
		[]string{"status"},
	)

	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fedmgr_provider_status_transitions_total",
			Help: "Total number of provider status transitions by source and target",
		},
		[]string{"from", "to"},
	)

	EvaluationTasks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fedmgr_evaluation_tasks_total",
			Help: "Total number of enqueued provider evaluation tasks",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
	prometheus.MustRegister(ProvidersTotal)
	prometheus.MustRegister(StatusTransitions)
	prometheus.MustRegister(EvaluationTasks)
}

// ProviderRegistered accounts for a new provider in its initial status.
func ProviderRegistered(status string) {
	ProvidersTotal.WithLabelValues(status).Inc()
}

// ProviderDeregistered removes a provider from its status bucket.
func ProviderDeregistered(status string) {
	ProvidersTotal.WithLabelValues(status).Dec()
}

// ProviderStatusChanged moves a provider between status buckets and
// counts the transition.
func ProviderStatusChanged(from, to string) {
	ProvidersTotal.WithLabelValues(from).Dec()
	ProvidersTotal.WithLabelValues(to).Inc()
	StatusTransitions.WithLabelValues(from, to).Inc()
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
