// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/filmrec/internal/models"
)

// Health status values
const (
	healthStatusHealthy  = "healthy"
	healthStatusDegraded = "degraded"
)

// Health returns overall service health. A service without a dataset is
// degraded but still answers 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	loaded := h.store.Status().Loaded
	status := healthStatusHealthy
	if !loaded {
		status = healthStatusDegraded
	}

	respondSuccess(w, r, h.healthStatus(status, loaded), time.Since(start))
}

// HealthLive is the Kubernetes liveness probe. It only confirms the process
// is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, h.healthStatus("alive", h.store.Status().Loaded), time.Since(start))
}

// HealthReady is the Kubernetes readiness probe. It fails until a baseline
// dataset has been loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	st := h.store.Status()
	if !st.Loaded {
		apiErr := &models.APIError{
			Code:    ErrCodeDatasetUnavailable,
			Message: "Ratings dataset not loaded",
		}
		if st.LastError != "" {
			apiErr.Details = map[string]interface{}{
				"last_error":    st.LastError,
				"breaker_state": st.BreakerState,
			}
		}
		respondAPIError(w, r, http.StatusServiceUnavailable, apiErr)
		return
	}

	respondSuccess(w, r, h.healthStatus("ready", true), time.Since(start))
}

func (h *Handler) healthStatus(status string, loaded bool) models.HealthStatus {
	return models.HealthStatus{
		Status:        status,
		Version:       h.version,
		DatasetLoaded: loaded,
		Uptime:        time.Since(h.startTime).Seconds(),
		Timestamp:     time.Now(),
	}
}
