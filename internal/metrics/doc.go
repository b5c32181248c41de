// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

/*
Package metrics provides Prometheus metrics collection and export for observability.

Metrics are registered at package init through promauto and exposed by the API
server at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Requests in flight (gauge)

Recommendation Metrics:
  - recommend_requests_total: Requests by outcome (counter)
    Labels: status (success, partial, invalid, error)
  - recommend_request_duration_seconds: End-to-end latency (histogram)
  - recommend_strategy_duration_seconds: Per-strategy latency (histogram)
    Labels: strategy
  - recommend_strategy_failures_total: Strategy failures (counter)
    Labels: strategy, reason
  - recommend_strategy_result_size: Titles returned per strategy (histogram)

Dataset Metrics:
  - dataset_ratings, dataset_users, dataset_titles: Baseline size (gauges)
  - dataset_loads_total: Load attempts (counter)
    Labels: source, status
  - dataset_load_duration_seconds: Load latency (histogram)
  - dataset_last_success_timestamp: Last successful load (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_state_transitions_total: Transitions (counter)
*/
package metrics
