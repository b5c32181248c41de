// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

// Package config loads Filmrec configuration with Koanf v2.
//
// Sources are layered, later ones winning:
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/filmrec/config.yaml)
//  3. A fixed set of environment variables (see envTransformFunc)
//
// Example config.yaml:
//
//	server:
//	  port: 8080
//	dataset:
//	  source: csv
//	  path: /data/ratings.csv
//	recommend:
//	  top_k: 5
//	  strategies: [item_user, user_item, content]
//
// Config is immutable after LoadWithKoanf returns and safe for concurrent reads.
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/filmrec/internal/recommend"
)

// Dataset source kinds.
const (
	SourceCSV   = "csv"
	SourceMongo = "mongo"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds pagination limits and the catalogue search cache.
// A TitleCacheSize of zero disables the cache.
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size"`
	MaxPageSize     int           `koanf:"max_page_size"`
	TitleCacheSize  int           `koanf:"title_cache_size"`
	TitleCacheTTL   time.Duration `koanf:"title_cache_ttl"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatasetConfig describes where the baseline ratings come from.
//
// Environment Variables:
//   - DATASET_SOURCE: csv or mongo (default: csv)
//   - DATASET_PATH: CSV file path
//   - MONGO_URI, MONGO_DATABASE, MONGO_COLLECTION: MongoDB location
//   - DATASET_RELOAD_INTERVAL: periodic reload, 0 disables (default: 0)
type DatasetConfig struct {
	Source          string        `koanf:"source"`
	Path            string        `koanf:"path"`
	MongoURI        string        `koanf:"mongo_uri"`
	MongoDatabase   string        `koanf:"mongo_database"`
	MongoCollection string        `koanf:"mongo_collection"`
	LoadTimeout     time.Duration `koanf:"load_timeout"`
	ReloadInterval  time.Duration `koanf:"reload_interval"`

	// BreakerFailures consecutive load failures open the circuit breaker.
	BreakerFailures uint32 `koanf:"breaker_failures"`
	// BreakerTimeout is how long the breaker stays open before a trial load.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// RecommendConfig holds engine settings. It is converted to
// recommend.Config by EngineConfig.
type RecommendConfig struct {
	Selections      int           `koanf:"selections"`
	TopK            int           `koanf:"top_k"`
	NewUserID       string        `koanf:"new_user_id"`
	Rank            int           `koanf:"rank"`
	NMFMaxIter      int           `koanf:"nmf_max_iter"`
	NMFTolerance    float64       `koanf:"nmf_tolerance"`
	NMFInit         string        `koanf:"nmf_init"`
	StrategyTimeout time.Duration `koanf:"strategy_timeout"`
	Strategies      []string      `koanf:"strategies"`
	Parallel        bool          `koanf:"parallel"`
	Seed            int64         `koanf:"seed"`
}

// EngineConfig converts the recommend section to an engine configuration.
func (c *Config) EngineConfig() (*recommend.Config, error) {
	rc := c.Recommend
	strategies := make([]recommend.Strategy, 0, len(rc.Strategies))
	for _, name := range rc.Strategies {
		s, err := recommend.ParseStrategy(name)
		if err != nil {
			return nil, fmt.Errorf("recommend.strategies: %w", err)
		}
		strategies = append(strategies, s)
	}
	if len(strategies) == 0 {
		strategies = recommend.AllStrategies()
	}

	return &recommend.Config{
		Request: recommend.RequestConfig{
			Selections: rc.Selections,
			TopK:       rc.TopK,
			NewUserID:  rc.NewUserID,
		},
		Factorization: recommend.FactorizationConfig{
			Rank:         rc.Rank,
			NMFMaxIter:   rc.NMFMaxIter,
			NMFTolerance: rc.NMFTolerance,
			NMFInit:      rc.NMFInit,
		},
		Limits: recommend.LimitsConfig{
			StrategyTimeout: rc.StrategyTimeout,
		},
		DefaultStrategies: strategies,
		Parallel:          rc.Parallel,
		Seed:              rc.Seed,
	}, nil
}
