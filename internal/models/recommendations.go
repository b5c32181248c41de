// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package models

import "time"

// SelectionRequest is one rated film in a recommendation request.
type SelectionRequest struct {
	Title  string  `json:"title" validate:"required,max=300"`
	Rating float64 `json:"rating" validate:"rating"`
	Genres string  `json:"genres,omitempty" validate:"omitempty,max=500"`
}

// RecommendationRequest is the body of POST /api/v1/recommendations.
// The exact selection count is enforced by the engine configuration.
type RecommendationRequest struct {
	Selections []SelectionRequest `json:"selections" validate:"required,min=1,max=10,dive"`
	Strategies []string           `json:"strategies,omitempty" validate:"omitempty,max=12,dive,strategy"`
}

// StrategyInfo describes one recommendation strategy.
type StrategyInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	ScoreKind   string `json:"score_kind"`
	Registered  bool   `json:"registered"`
	Default     bool   `json:"default"`
}

// DatasetInfo describes the loaded baseline.
type DatasetInfo struct {
	Source       string    `json:"source"`
	Loaded       bool      `json:"loaded"`
	Ratings      int       `json:"ratings"`
	Users        int       `json:"users"`
	Titles       int       `json:"titles"`
	Genres       int       `json:"genres"`
	LoadedAt     time.Time `json:"loaded_at,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
	BreakerState string    `json:"breaker_state"`
}

// EngineStatus is the body of GET /api/v1/recommendations/status.
type EngineStatus struct {
	Dataset          DatasetInfo      `json:"dataset"`
	Strategies       []string         `json:"strategies"`
	RequestCount     int64            `json:"request_count"`
	ErrorCount       int64            `json:"error_count"`
	StrategyRuns     map[string]int64 `json:"strategy_runs"`
	StrategyFailures map[string]int64 `json:"strategy_failures"`
	Config           interface{}      `json:"config"`
}

// TitleEntry is one catalogue title with its genres.
type TitleEntry struct {
	Title  string `json:"title"`
	Genres string `json:"genres"`
}

// TitlesResponse is the body of GET /api/v1/titles.
type TitlesResponse struct {
	Titles []TitleEntry `json:"titles"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	DatasetLoaded bool      `json:"dataset_loaded"`
	Uptime        float64   `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}
