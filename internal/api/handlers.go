// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package api

import (
	"time"

	"github.com/tomtom215/filmrec/internal/cache"
	"github.com/tomtom215/filmrec/internal/config"
	"github.com/tomtom215/filmrec/internal/dataset"
	"github.com/tomtom215/filmrec/internal/models"
	"github.com/tomtom215/filmrec/internal/ratings"
	"github.com/tomtom215/filmrec/internal/recommend"
)

// DatasetStore is the read side of the dataset store used by the handlers.
type DatasetStore interface {
	Table() (*ratings.Table, error)
	Status() dataset.Status
}

// Handler handles all API requests.
type Handler struct {
	engine    *recommend.Engine
	store     DatasetStore
	config    *config.Config
	startTime time.Time
	version   string

	// titleCache memoises catalogue searches per dataset snapshot; nil when disabled.
	titleCache *cache.LRU[titleQuery, []models.TitleEntry]
}

// NewHandler creates a new API handler.
func NewHandler(engine *recommend.Engine, store DatasetStore, cfg *config.Config, version string) *Handler {
	if version == "" {
		version = "dev"
	}
	h := &Handler{
		engine:    engine,
		store:     store,
		config:    cfg,
		startTime: time.Now(),
		version:   version,
	}
	if cfg != nil && cfg.API.TitleCacheSize > 0 {
		h.titleCache = cache.NewLRU[titleQuery, []models.TitleEntry](cfg.API.TitleCacheSize, cfg.API.TitleCacheTTL)
	}
	return h
}
