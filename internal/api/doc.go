// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

/*
Package api exposes the recommendation engine over HTTP using the chi router.

Endpoints:

	POST /api/v1/recommendations             run strategies for three rated films
	GET  /api/v1/recommendations/strategies  strategy catalogue
	GET  /api/v1/recommendations/status      engine counters and dataset status
	GET  /api/v1/titles                      paginated title catalogue (?q=, ?genre=)
	GET  /api/v1/health                      summary health
	GET  /api/v1/health/live                 liveness probe
	GET  /api/v1/health/ready                readiness probe (503 until a dataset is loaded)
	GET  /metrics                            Prometheus exposition

Every JSON response uses the models.APIResponse envelope:

	{"status":"success","data":{...},"metadata":{"timestamp":"...","request_id":"..."}}
	{"status":"error","data":null,"error":{"code":"VALIDATION_ERROR","message":"..."}}

A recommendation request is answered with 200 even when individual
strategies fail; failures appear inside the per-strategy results. Request
level problems map to 400 (VALIDATION_ERROR) and a missing dataset to 503
(DATASET_UNAVAILABLE).

Example request:

	curl -X POST localhost:8080/api/v1/recommendations -d '{
	  "selections": [
	    {"title": "Heat (1995)", "rating": 5},
	    {"title": "Toy Story (1995)", "rating": 3.5},
	    {"title": "Alien (1979)", "rating": 4}
	  ],
	  "strategies": ["item_user", "content"]
	}'
*/
package api
