package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the client core.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestLatency   *prometheus.HistogramVec
	RenewalsTotal    prometheus.Counter
	RenewalFailures  prometheus.Counter
	RetriesTotal     prometheus.Counter
	LoginsTotal      prometheus.Counter
	LoginFailures    prometheus.Counter
	ContextCommits   *prometheus.CounterVec
	SessionTeardowns prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_requests_total",
			Help: "Total outbound requests through the gateway, labeled by outcome",
		}, []string{"outcome"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "praxis_request_latency_seconds",
			Help:    "Latency of outbound requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		RenewalsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "praxis_renewals_total",
			Help: "Total credential renewal calls issued",
		}),
		RenewalFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "praxis_renewal_failures_total",
			Help: "Total credential renewals that failed terminally",
		}),
		RetriesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "praxis_retries_total",
			Help: "Total requests resubmitted after a successful renewal",
		}),
		LoginsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "praxis_logins_total",
			Help: "Total successful logins",
		}),
		LoginFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "praxis_login_failures_total",
			Help: "Total failed login attempts",
		}),
		ContextCommits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_context_commits_total",
			Help: "Total operating-context commits, labeled by mode",
		}, []string{"mode"}),
		SessionTeardowns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "praxis_session_teardowns_total",
			Help: "Total hard session terminations after unrecoverable renewal failure",
		}),
	}
}
