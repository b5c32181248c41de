// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/filmrec/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateDataset(); err != nil {
		return err
	}

	return c.validateRecommend()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be >= API_DEFAULT_PAGE_SIZE (%d)", c.API.DefaultPageSize)
	}
	if c.API.TitleCacheSize < 0 {
		return fmt.Errorf("API_TITLE_CACHE_SIZE must not be negative")
	}
	if c.API.TitleCacheSize > 0 && c.API.TitleCacheTTL <= 0 {
		return fmt.Errorf("API_TITLE_CACHE_TTL must be positive when the title cache is enabled")
	}
	return nil
}

// IsProduction reports whether the server runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	for _, origin := range c.Security.CORSOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("CORS_ORIGINS must not contain empty entries")
		}
	}
	return c.validateRateLimits()
}

// validateRateLimits bounds the limiter settings unless limiting is disabled.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateDataset() error {
	d := c.Dataset
	switch d.Source {
	case SourceCSV:
		if strings.TrimSpace(d.Path) == "" {
			return fmt.Errorf("DATASET_PATH is required when DATASET_SOURCE=csv")
		}
	case SourceMongo:
		if err := validateMongoURI(d.MongoURI); err != nil {
			return fmt.Errorf("MONGO_URI is invalid: %w", err)
		}
		if d.MongoDatabase == "" || d.MongoCollection == "" {
			return fmt.Errorf("MONGO_DATABASE and MONGO_COLLECTION are required when DATASET_SOURCE=mongo")
		}
	default:
		return fmt.Errorf("DATASET_SOURCE must be one of: %s, %s", SourceCSV, SourceMongo)
	}

	if d.LoadTimeout <= 0 {
		return fmt.Errorf("DATASET_LOAD_TIMEOUT must be positive")
	}
	if d.ReloadInterval < 0 {
		return fmt.Errorf("DATASET_RELOAD_INTERVAL must not be negative")
	}
	if d.BreakerFailures < 1 {
		return fmt.Errorf("DATASET_BREAKER_FAILURES must be at least 1")
	}
	if d.BreakerTimeout <= 0 {
		return fmt.Errorf("DATASET_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateMongoURI accepts mongodb:// and mongodb+srv:// URIs with a host.
func validateMongoURI(raw string) error {
	if raw == "" {
		return fmt.Errorf("URI is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URI format: %w", err)
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return fmt.Errorf("URI scheme must be mongodb or mongodb+srv, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URI must include a host")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	engineCfg, err := c.EngineConfig()
	if err != nil {
		return err
	}
	if err := engineCfg.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}
