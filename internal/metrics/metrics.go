// Package metrics exposes Prometheus instruments for the participation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ValidatorCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "participation_validator_rows",
		Help: "Number of validator rows in the store at the last network-wide computation.",
	})

	NetworkParticipationRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "participation_network_rate",
		Help: "Most recently computed network-wide participation rate.",
	})

	IngestedValidators = promauto.NewCounter(prometheus.CounterOpts{
		Name: "participation_ingested_validators_total",
		Help: "Validator records submitted to the store by ingestion runs.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "participation_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	}, []string{"route", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "participation_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)
