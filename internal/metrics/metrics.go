// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"status"}, // "success", "partial", "invalid", "error"
	)

	RecommendRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "End-to-end recommendation request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	StrategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_strategy_duration_seconds",
			Help:    "Duration of a single recommendation strategy in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"strategy"},
	)

	StrategyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_strategy_failures_total",
			Help: "Total number of strategy failures by reason",
		},
		[]string{"strategy", "reason"},
	)

	StrategyResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_strategy_result_size",
			Help:    "Number of titles returned by a strategy",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 10},
		},
		[]string{"strategy"},
	)

	// Dataset Metrics
	DatasetRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_ratings",
			Help: "Number of rating records in the loaded baseline",
		},
	)

	DatasetUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_users",
			Help: "Number of distinct users in the loaded baseline",
		},
	)

	DatasetTitles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_titles",
			Help: "Number of distinct titles in the loaded baseline",
		},
	)

	DatasetLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_loads_total",
			Help: "Total number of dataset load attempts",
		},
		[]string{"source", "status"}, // status: "success", "failure", "rejected"
	)

	DatasetLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataset_load_duration_seconds",
			Help:    "Duration of dataset loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	DatasetLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_last_success_timestamp",
			Help: "Unix timestamp of the last successful dataset load",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendRequest records the outcome of a recommendation request.
func RecordRecommendRequest(status string, duration time.Duration) {
	RecommendRequestsTotal.WithLabelValues(status).Inc()
	RecommendRequestDuration.Observe(duration.Seconds())
}

// RecordStrategyRun records one strategy execution. An empty reason means success.
func RecordStrategyRun(strategy string, duration time.Duration, reason string, resultSize int) {
	StrategyDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if reason != "" {
		StrategyFailures.WithLabelValues(strategy, reason).Inc()
		return
	}
	StrategyResultSize.WithLabelValues(strategy).Observe(float64(resultSize))
}

// RecordDatasetLoad records a dataset load attempt.
func RecordDatasetLoad(source, status string, duration time.Duration) {
	DatasetLoadsTotal.WithLabelValues(source, status).Inc()
	DatasetLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	if status == "success" {
		DatasetLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// SetDatasetSize publishes the size of the loaded baseline.
func SetDatasetSize(ratings, users, titles int) {
	DatasetRatings.Set(float64(ratings))
	DatasetUsers.Set(float64(users))
	DatasetTitles.Set(float64(titles))
}

// RecordCircuitBreakerTransition records a breaker state change.
// States are encoded 0=closed, 1=half-open, 2=open.
func RecordCircuitBreakerTransition(name, from, to string, toCode int) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(float64(toCode))
}
