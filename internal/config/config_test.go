// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/filmrec/internal/recommend"
)

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 9000}
	if got := s.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:9000", got)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string // empty means valid
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, errMsg: "HTTP_PORT"},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, errMsg: "HTTP_PORT"},
		{name: "zero timeout", mutate: func(c *Config) { c.Server.Timeout = 0 }, errMsg: "HTTP_TIMEOUT"},
		{name: "page sizes inverted", mutate: func(c *Config) { c.API.MaxPageSize = 10 }, errMsg: "API_MAX_PAGE_SIZE"},
		{name: "negative title cache", mutate: func(c *Config) { c.API.TitleCacheSize = -1 }, errMsg: "API_TITLE_CACHE_SIZE"},
		{name: "title cache without ttl", mutate: func(c *Config) { c.API.TitleCacheTTL = 0 }, errMsg: "API_TITLE_CACHE_TTL"},
		{name: "title cache disabled", mutate: func(c *Config) {
			c.API.TitleCacheSize = 0
			c.API.TitleCacheTTL = 0
		}},
		{name: "empty cors entry", mutate: func(c *Config) { c.Security.CORSOrigins = []string{"https://a", " "} }, errMsg: "CORS_ORIGINS"},
		{name: "rate limit zero", mutate: func(c *Config) { c.Security.RateLimitReqs = 0 }, errMsg: "RATE_LIMIT_REQUESTS"},
		{name: "rate limit disabled skips bounds", mutate: func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}},
		{name: "rate window too short", mutate: func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, errMsg: "RATE_LIMIT_WINDOW"},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, errMsg: "LOG_LEVEL"},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, errMsg: "LOG_FORMAT"},
		{name: "unknown source", mutate: func(c *Config) { c.Dataset.Source = "s3" }, errMsg: "DATASET_SOURCE"},
		{name: "csv without path", mutate: func(c *Config) { c.Dataset.Path = "" }, errMsg: "DATASET_PATH"},
		{name: "mongo ok", mutate: func(c *Config) { c.Dataset.Source = SourceMongo }},
		{name: "mongo srv ok", mutate: func(c *Config) {
			c.Dataset.Source = SourceMongo
			c.Dataset.MongoURI = "mongodb+srv://cluster0.example.net"
		}},
		{name: "mongo bad scheme", mutate: func(c *Config) {
			c.Dataset.Source = SourceMongo
			c.Dataset.MongoURI = "http://localhost:27017"
		}, errMsg: "MONGO_URI"},
		{name: "mongo without collection", mutate: func(c *Config) {
			c.Dataset.Source = SourceMongo
			c.Dataset.MongoCollection = ""
		}, errMsg: "MONGO_COLLECTION"},
		{name: "negative reload", mutate: func(c *Config) { c.Dataset.ReloadInterval = -time.Second }, errMsg: "DATASET_RELOAD_INTERVAL"},
		{name: "zero breaker failures", mutate: func(c *Config) { c.Dataset.BreakerFailures = 0 }, errMsg: "DATASET_BREAKER_FAILURES"},
		{name: "unknown strategy", mutate: func(c *Config) { c.Recommend.Strategies = []string{"nmf", "als"} }, errMsg: "recommend.strategies"},
		{name: "bad nmf init", mutate: func(c *Config) { c.Recommend.NMFInit = "svd" }, errMsg: "recommend:"},
		{name: "zero top k", mutate: func(c *Config) { c.Recommend.TopK = 0 }, errMsg: "top_k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.errMsg == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.errMsg)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestIsProduction(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if cfg.IsProduction() {
		t.Error("IsProduction() = true for development")
	}
	cfg.Server.Environment = "Production"
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false for Production")
	}
}

func TestEngineConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults match engine defaults", func(t *testing.T) {
		t.Parallel()

		got, err := defaultConfig().EngineConfig()
		if err != nil {
			t.Fatalf("EngineConfig() error = %v", err)
		}
		want := recommend.DefaultConfig()
		if got.Request != want.Request {
			t.Errorf("Request = %+v, want %+v", got.Request, want.Request)
		}
		if got.Factorization != want.Factorization {
			t.Errorf("Factorization = %+v, want %+v", got.Factorization, want.Factorization)
		}
		if got.Limits != want.Limits {
			t.Errorf("Limits = %+v, want %+v", got.Limits, want.Limits)
		}
		if len(got.DefaultStrategies) != len(want.DefaultStrategies) {
			t.Fatalf("len(DefaultStrategies) = %d, want %d", len(got.DefaultStrategies), len(want.DefaultStrategies))
		}
		for i := range want.DefaultStrategies {
			if got.DefaultStrategies[i] != want.DefaultStrategies[i] {
				t.Errorf("DefaultStrategies[%d] = %v, want %v", i, got.DefaultStrategies[i], want.DefaultStrategies[i])
			}
		}
	})

	t.Run("display names parsed", func(t *testing.T) {
		t.Parallel()

		cfg := defaultConfig()
		cfg.Recommend.Strategies = []string{"Contenu", "svd"}
		cfg.Recommend.Seed = 42
		cfg.Recommend.Parallel = true

		got, err := cfg.EngineConfig()
		if err != nil {
			t.Fatalf("EngineConfig() error = %v", err)
		}
		want := []recommend.Strategy{recommend.StrategyContent, recommend.StrategySVD}
		if len(got.DefaultStrategies) != 2 || got.DefaultStrategies[0] != want[0] || got.DefaultStrategies[1] != want[1] {
			t.Errorf("DefaultStrategies = %v, want %v", got.DefaultStrategies, want)
		}
		if got.Seed != 42 || !got.Parallel {
			t.Errorf("Seed, Parallel = %d, %v, want 42, true", got.Seed, got.Parallel)
		}
	})

	t.Run("empty list means all", func(t *testing.T) {
		t.Parallel()

		cfg := defaultConfig()
		cfg.Recommend.Strategies = nil
		got, err := cfg.EngineConfig()
		if err != nil {
			t.Fatalf("EngineConfig() error = %v", err)
		}
		if len(got.DefaultStrategies) != len(recommend.AllStrategies()) {
			t.Errorf("len(DefaultStrategies) = %d, want %d", len(got.DefaultStrategies), len(recommend.AllStrategies()))
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()

		cfg := defaultConfig()
		cfg.Recommend.Strategies = []string{"bogus"}
		_, err := cfg.EngineConfig()
		if !errors.Is(err, recommend.ErrInvalidRequest) {
			t.Errorf("EngineConfig() error = %v, want ErrInvalidRequest", err)
		}
	})
}
