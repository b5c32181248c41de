// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmrec/internal/config"
	"github.com/tomtom215/filmrec/internal/dataset"
	"github.com/tomtom215/filmrec/internal/recommend"
	"github.com/tomtom215/filmrec/internal/recommend/algorithms"
	"github.com/tomtom215/filmrec/internal/supervisor/services"
)

// initRecommend creates the engine and registers every strategy. The
// configured strategy list only selects the defaults a request runs.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, logger zerolog.Logger) (*recommend.Engine, error) {
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}

	engine, err := recommend.NewEngine(engineCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	if err := algorithms.RegisterAll(engine, engineCfg); err != nil {
		return nil, err
	}

	defaults := make([]string, len(engineCfg.DefaultStrategies))
	for i, s := range engineCfg.DefaultStrategies {
		defaults[i] = s.String()
	}
	logger.Info().
		Strs("default_strategies", defaults).
		Int("top_k", engineCfg.Request.TopK).
		Int("rank", engineCfg.Factorization.Rank).
		Str("nmf_init", engineCfg.Factorization.NMFInit).
		Bool("parallel", engineCfg.Parallel).
		Msg("recommendation engine initialized")

	return engine, nil
}

// initDataset builds the dataset store and the loader schedule.
func initDataset(cfg *config.Config) (*dataset.Store, services.DatasetLoaderConfig, error) {
	source, err := dataset.NewSource(cfg.Dataset)
	if err != nil {
		return nil, services.DatasetLoaderConfig{}, err
	}

	store := dataset.NewStore(source, dataset.StoreConfigFrom(cfg.Dataset))
	loaderCfg := services.DatasetLoaderConfig{
		ReloadInterval: cfg.Dataset.ReloadInterval,
		// Retrying faster than the breaker timeout would only be rejected.
		RetryInterval: cfg.Dataset.BreakerTimeout,
	}
	return store, loaderCfg, nil
}
