// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/filmrec/internal/dataset"
	"github.com/tomtom215/filmrec/internal/logging"
	"github.com/tomtom215/filmrec/internal/models"
	"github.com/tomtom215/filmrec/internal/recommend"
)

// Recommend runs the requested strategies for a set of rated films.
//
// Method: POST
// Endpoint: /api/v1/recommendations
//
// Request Body: models.RecommendationRequest
//
// Response: recommend.Response. Per-strategy failures are reported inside
// results and do not change the status code.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body models.RecommendationRequest
	if err := decodeJSONBody(w, r, &body); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), err)
		return
	}
	if apiErr := validateRequest(&body); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	req, err := toEngineRequest(r.Context(), &body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), err)
		return
	}

	ctx := r.Context()
	if h.config != nil && h.config.Server.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Server.Timeout)
		defer cancel()
	}

	resp, err := h.engine.Recommend(ctx, req)
	if err != nil {
		h.respondRecommendError(w, r, err)
		return
	}

	respondSuccess(w, r, resp, time.Since(start))
}

// respondRecommendError maps engine errors to HTTP status codes.
func (h *Handler) respondRecommendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), err)
	case errors.Is(err, dataset.ErrNotLoaded),
		errors.Is(err, recommend.ErrNoBaseline),
		errors.Is(err, recommend.ErrEmptyMatrix):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeDatasetUnavailable,
			"Ratings dataset is not available", err)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeTimeout,
			"Recommendation timed out", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal,
			"Failed to compute recommendations", err)
	}
}

// toEngineRequest converts the wire request. Strategy names accept wire and
// display names; unknown names wrap recommend.ErrInvalidRequest.
func toEngineRequest(ctx context.Context, body *models.RecommendationRequest) (recommend.Request, error) {
	req := recommend.Request{
		RequestID:  logging.RequestIDFromContext(ctx),
		Selections: make([]recommend.Selection, len(body.Selections)),
	}
	for i, sel := range body.Selections {
		req.Selections[i] = recommend.Selection{
			Title:  sel.Title,
			Rating: sel.Rating,
			Genres: sel.Genres,
		}
	}
	for _, name := range body.Strategies {
		s, err := recommend.ParseStrategy(name)
		if err != nil {
			return recommend.Request{}, err
		}
		req.Strategies = append(req.Strategies, s)
	}
	return req, nil
}

// Strategies lists every strategy with its registration and default state.
//
// Method: GET
// Endpoint: /api/v1/recommendations/strategies
func (h *Handler) Strategies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	registered := make(map[recommend.Strategy]bool)
	for _, s := range h.engine.Strategies() {
		registered[s] = true
	}
	defaults := make(map[recommend.Strategy]bool)
	for _, s := range h.engine.GetConfig().DefaultStrategies {
		defaults[s] = true
	}

	all := recommend.AllStrategies()
	infos := make([]models.StrategyInfo, 0, len(all))
	for _, s := range all {
		infos = append(infos, models.StrategyInfo{
			Name:        s.String(),
			DisplayName: s.DisplayName(),
			ScoreKind:   s.ScoreKind().String(),
			Registered:  registered[s],
			Default:     defaults[s],
		})
	}

	respondSuccess(w, r, infos, time.Since(start))
}

// Status reports engine counters, the dataset state and the active configuration.
//
// Method: GET
// Endpoint: /api/v1/recommendations/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	m := h.engine.GetMetrics()
	names := make([]string, 0, len(recommend.AllStrategies()))
	for _, s := range h.engine.Strategies() {
		names = append(names, s.String())
	}

	status := models.EngineStatus{
		Dataset:          datasetInfo(h.store.Status()),
		Strategies:       names,
		RequestCount:     m.RequestCount,
		ErrorCount:       m.ErrorCount,
		StrategyRuns:     m.StrategyRuns,
		StrategyFailures: m.StrategyFailures,
		Config:           h.engine.GetConfig(),
	}

	respondSuccess(w, r, status, time.Since(start))
}

func datasetInfo(st dataset.Status) models.DatasetInfo {
	return models.DatasetInfo{
		Source:       st.Source,
		Loaded:       st.Loaded,
		Ratings:      st.Stats.Ratings,
		Users:        st.Stats.Users,
		Titles:       st.Stats.Titles,
		Genres:       st.Stats.Genres,
		LoadedAt:     st.LoadedAt,
		LastError:    st.LastError,
		BreakerState: st.BreakerState,
	}
}
