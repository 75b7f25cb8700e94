// Package metrics exposes prometheus instrumentation for the assistant
// core. Collectors are package-level and registered on the default
// registry; the HTTP server serves them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request metrics
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partnerai_requests_total",
		Help: "Total architect requests by outcome",
	}, []string{"outcome"}) // "success", "failure", "rejected"

	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "partnerai_request_duration_seconds",
		Help:    "Model call duration",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	})

	// Usage metrics
	TokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partnerai_tokens_total",
		Help: "Estimated tokens by direction",
	}, []string{"direction"}) // "in", "out"

	CostUSDTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partnerai_cost_usd_total",
		Help: "Estimated cumulative model spend in USD",
	})

	// Safety metrics
	PIIRedactionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partnerai_pii_redactions_total",
		Help: "Requests whose input was scrubbed before egress",
	})

	IncidentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partnerai_incidents_total",
		Help: "Synthesized incidents by type and severity",
	}, []string{"type", "severity"})

	// Safe-mode metrics
	SafeModeActivations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partnerai_safe_mode_activations_total",
		Help: "Circuit breaker NORMAL to LOCKED transitions",
	})

	SafeModeActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "partnerai_safe_mode_active",
		Help: "1 while the submission circuit breaker is locked",
	})
)
