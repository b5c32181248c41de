// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/filmrec/internal/recommend"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/filmrec/config.yaml",
	"/etc/filmrec/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. The recommend section mirrors
// recommend.DefaultConfig.
func defaultConfig() *Config {
	engine := recommend.DefaultConfig()
	strategies := make([]string, len(engine.DefaultStrategies))
	for i, s := range engine.DefaultStrategies {
		strategies[i] = s.String()
	}

	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		API: APIConfig{
			DefaultPageSize: 100,
			MaxPageSize:     1000,
			TitleCacheSize:  256,
			TitleCacheTTL:   5 * time.Minute,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Dataset: DatasetConfig{
			Source:          SourceCSV,
			Path:            "data/ratings.csv",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "filmrec",
			MongoCollection: "ratings",
			LoadTimeout:     30 * time.Second,
			ReloadInterval:  0,
			BreakerFailures: 3,
			BreakerTimeout:  time.Minute,
		},
		Recommend: RecommendConfig{
			Selections:      engine.Request.Selections,
			TopK:            engine.Request.TopK,
			NewUserID:       engine.Request.NewUserID,
			Rank:            engine.Factorization.Rank,
			NMFMaxIter:      engine.Factorization.NMFMaxIter,
			NMFTolerance:    engine.Factorization.NMFTolerance,
			NMFInit:         engine.Factorization.NMFInit,
			StrategyTimeout: engine.Limits.StrategyTimeout,
			Strategies:      strategies,
			Parallel:        engine.Parallel,
			Seed:            engine.Seed,
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// environment variables (ENV > file > defaults), then validates it.
func LoadWithKoanf() (*Config, error) {
	return load(findConfigFile())
}

// load is LoadWithKoanf with an explicit config file path ("" for none).
func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"recommend.strategies",
}

// processSliceFields splits comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",
	"api_title_cache_size":  "api.title_cache_size",
	"api_title_cache_ttl":   "api.title_cache_ttl",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Dataset
	"dataset_source":           "dataset.source",
	"dataset_path":             "dataset.path",
	"mongo_uri":                "dataset.mongo_uri",
	"mongo_database":           "dataset.mongo_database",
	"mongo_collection":         "dataset.mongo_collection",
	"dataset_load_timeout":     "dataset.load_timeout",
	"dataset_reload_interval":  "dataset.reload_interval",
	"dataset_breaker_failures": "dataset.breaker_failures",
	"dataset_breaker_timeout":  "dataset.breaker_timeout",

	// Recommendation engine
	"recommend_selections":       "recommend.selections",
	"recommend_top_k":            "recommend.top_k",
	"recommend_new_user_id":      "recommend.new_user_id",
	"recommend_rank":             "recommend.rank",
	"recommend_nmf_max_iter":     "recommend.nmf_max_iter",
	"recommend_nmf_tolerance":    "recommend.nmf_tolerance",
	"recommend_nmf_init":         "recommend.nmf_init",
	"recommend_strategy_timeout": "recommend.strategy_timeout",
	"recommend_strategies":       "recommend.strategies",
	"recommend_parallel":         "recommend.parallel",
	"recommend_seed":             "recommend.seed",
}

// envTransformFunc maps an environment variable to its koanf path.
// Unmapped variables return "" and are ignored.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DATASET_PATH -> dataset.path
//   - RECOMMEND_SEED -> recommend.seed
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
