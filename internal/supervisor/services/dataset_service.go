// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmrec/internal/logging"
)

// DatasetLoader loads the baseline ratings into the serving snapshot.
// Satisfied by *dataset.Store.
type DatasetLoader interface {
	Load(ctx context.Context) error
	Loaded() bool
}

// DatasetLoaderConfig controls load scheduling.
type DatasetLoaderConfig struct {
	// ReloadInterval refreshes a loaded dataset. Zero loads once.
	ReloadInterval time.Duration

	// RetryInterval is the wait between attempts until the first load
	// succeeds. Default: 30s
	RetryInterval time.Duration
}

// DatasetLoaderService loads the dataset at start-up, retries until the
// first load succeeds and then reloads on ReloadInterval.
//
// Load failures are logged, never returned: a failed reload keeps the
// previous snapshot serving, and returning would only make suture restart a
// loop that is already retrying.
type DatasetLoaderService struct {
	loader DatasetLoader
	config DatasetLoaderConfig
	logger zerolog.Logger
	name   string
}

// NewDatasetLoaderService creates the loader service.
func NewDatasetLoaderService(loader DatasetLoader, cfg DatasetLoaderConfig) *DatasetLoaderService {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 30 * time.Second
	}
	return &DatasetLoaderService{
		loader: loader,
		config: cfg,
		logger: logging.WithComponent("dataset-loader"),
		name:   "dataset-loader",
	}
}

// Serve implements suture.Service.
func (s *DatasetLoaderService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("reload_interval", s.config.ReloadInterval).
		Dur("retry_interval", s.config.RetryInterval).
		Msg("dataset loader starting")

	s.load(ctx)

	for {
		wait := s.config.ReloadInterval
		if !s.loader.Loaded() {
			wait = s.config.RetryInterval
		}
		if wait <= 0 {
			<-ctx.Done()
			return ctx.Err()
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("dataset loader stopping")
			return ctx.Err()
		case <-timer.C:
			s.load(ctx)
		}
	}
}

func (s *DatasetLoaderService) load(ctx context.Context) {
	if err := s.loader.Load(ctx); err != nil && ctx.Err() == nil {
		s.logger.Warn().Err(err).Bool("loaded", s.loader.Loaded()).Msg("dataset load failed")
	}
}

// String identifies the service in supervisor events.
func (s *DatasetLoaderService) String() string {
	return s.name
}
