// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/filmrec/internal/models"
	"github.com/tomtom215/filmrec/internal/ratings"
)

// Titles lists the catalogue so clients can offer valid selections.
//
// Method: GET
// Endpoint: /api/v1/titles
//
// Query Parameters:
//   - q: case-insensitive substring of the title
//   - genre: exact genre token, case-insensitive (e.g. "Sci-Fi")
//   - limit: page size (default api.default_page_size, capped at api.max_page_size)
//   - offset: number of matches to skip
func (h *Handler) Titles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	table, err := h.store.Table()
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeDatasetUnavailable,
			"Ratings dataset is not available", err)
		return
	}

	limit, offset, ok := h.pagination(w, r)
	if !ok {
		return
	}

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	genre := strings.TrimSpace(r.URL.Query().Get("genre"))

	matches := h.searchTitles(table, titleQuery{
		snapshot: table,
		text:     query,
		genre:    strings.ToLower(genre),
	})

	total := len(matches)
	lo := min(offset, total)
	page := matches[lo : lo+min(limit, total-lo)]

	respondSuccess(w, r, models.TitlesResponse{
		Titles: page,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, time.Since(start))
}

// titleQuery keys the search cache. snapshot pins a result to the table it
// was computed from, so a reload never serves stale matches.
type titleQuery struct {
	snapshot *ratings.Table
	text     string
	genre    string
}

// searchTitles returns every catalogue entry matching q, in title order.
// The returned slice is shared with the cache and must not be modified.
func (h *Handler) searchTitles(table *ratings.Table, q titleQuery) []models.TitleEntry {
	if h.titleCache != nil {
		if hit, ok := h.titleCache.Get(q); ok {
			return hit
		}
	}

	matches := make([]models.TitleEntry, 0)
	for _, title := range table.Titles() {
		if q.text != "" && !strings.Contains(strings.ToLower(title), q.text) {
			continue
		}
		genres, _ := table.GenresOf(title)
		if q.genre != "" && !hasGenre(genres, q.genre) {
			continue
		}
		matches = append(matches, models.TitleEntry{Title: title, Genres: genres})
	}

	if h.titleCache != nil {
		h.titleCache.Add(q, matches)
	}
	return matches
}

// pagination reads limit and offset. It writes a 400 and returns false on
// out-of-range values.
func (h *Handler) pagination(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	defaultSize, maxSize := 20, 100
	if h.config != nil {
		defaultSize, maxSize = h.config.API.DefaultPageSize, h.config.API.MaxPageSize
	}

	limit = getIntParam(r, "limit", defaultSize)
	if limit < 1 || limit > maxSize {
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeValidation,
			Message: "limit is out of range",
			Details: map[string]interface{}{"min": 1, "max": maxSize},
		})
		return 0, 0, false
	}

	offset = getIntParam(r, "offset", 0)
	if offset < 0 {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "offset must not be negative", nil)
		return 0, 0, false
	}
	return limit, offset, true
}

func hasGenre(genres, want string) bool {
	for _, g := range ratings.SplitGenres(genres) {
		if strings.EqualFold(g, want) {
			return true
		}
	}
	return false
}
