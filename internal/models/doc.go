// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

// Package models defines the HTTP wire types of the Filmrec API.
//
// Every endpoint answers with an APIResponse envelope:
//
//	{
//	  "status": "success",
//	  "data": {...},
//	  "metadata": {"timestamp": "2026-01-02T15:04:05Z", "query_time_ms": 12}
//	}
//
// Failures carry an APIError with a machine-readable code instead of data.
// Request types carry validate tags consumed by the validation package.
package models
