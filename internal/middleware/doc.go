// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

/*
Package middleware provides the infrastructure HTTP middleware for Filmrec.

Key Components:

  - RequestID: reuses or generates an X-Request-ID and puts it into the
    logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - AccessLog: one structured log entry per request; slow and 5xx requests
    at warn level

All middleware have the chi signature func(http.Handler) http.Handler. The
router installs them in this order:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(middleware.PrometheusMetrics)

RequestID must run first so that every later log line carries request_id.
*/
package middleware
