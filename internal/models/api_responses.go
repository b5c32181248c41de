// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package models

import (
	"time"
)

// APIResponse is the envelope of every HTTP response.
//
// Status is "success" (see Data) or "error" (see Error).
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a structured error.
//
// Codes:
//   - VALIDATION_ERROR: malformed body or invalid selections (400)
//   - NOT_FOUND: unknown route (404)
//   - METHOD_NOT_ALLOWED: wrong verb (405)
//   - DATASET_UNAVAILABLE: no baseline loaded or the source is failing (503)
//   - INTERNAL_ERROR: anything else (500)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
