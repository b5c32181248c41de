// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

// Package dataset loads the baseline ratings table the recommendation engine
// reads from.
//
// A Source knows how to produce a *ratings.Table (a CSV file or a MongoDB
// collection). The Store wraps a Source with a circuit breaker and publishes
// the last successfully loaded table as an immutable snapshot:
//
//	src, err := dataset.NewSource(cfg.Dataset)
//	store := dataset.NewStore(src, dataset.StoreConfigFrom(cfg.Dataset))
//	if err := store.Load(ctx); err != nil { ... }
//	engine.SetTableProvider(store)
//
// Readers never observe a partially loaded table: a reload either replaces
// the snapshot atomically or leaves the previous one in place.
package dataset

import (
	"context"
	"fmt"

	"github.com/tomtom215/filmrec/internal/config"
	"github.com/tomtom215/filmrec/internal/ratings"
)

// Source produces a baseline ratings table.
type Source interface {
	// Name identifies the source kind in logs and metrics ("csv", "mongo").
	Name() string

	// Load reads the full table. Implementations must honour ctx.
	Load(ctx context.Context) (*ratings.Table, error)
}

// NewSource builds the Source selected by cfg.Source.
func NewSource(cfg config.DatasetConfig) (Source, error) {
	switch cfg.Source {
	case config.SourceCSV:
		if cfg.Path == "" {
			return nil, fmt.Errorf("csv source requires a path")
		}
		return NewCSVSource(cfg.Path), nil
	case config.SourceMongo:
		return NewMongoSource(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection), nil
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}
