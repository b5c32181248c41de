// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// NMF initialisation schemes.
const (
	// NMFInitNNDSVDA seeds the factors from the SVD of the matrix, with zeros
	// replaced by the matrix mean. Deterministic.
	NMFInitNNDSVDA = "nndsvda"

	// NMFInitRandom draws scaled half-normal factors from the seeded source.
	NMFInitRandom = "random"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Request contains request shape parameters.
	Request RequestConfig `json:"request"`

	// Factorization contains parameters shared by NMF and SVD.
	Factorization FactorizationConfig `json:"factorization"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// DefaultStrategies run when a request names none.
	DefaultStrategies []Strategy `json:"default_strategies"`

	// Parallel runs the strategies of a request concurrently.
	Parallel bool `json:"parallel"`

	// Seed seeds the random NMF initialisation.
	// Zero leaves it unseeded: each request draws a time-based seed.
	Seed int64 `json:"seed"`
}

// RequestConfig describes what a valid request looks like.
type RequestConfig struct {
	// Selections is the exact number of rated films a request carries.
	Selections int `json:"selections"`

	// TopK is the maximum number of titles per strategy.
	TopK int `json:"top_k"`

	// NewUserID is the synthetic user id the selections are merged under.
	NewUserID string `json:"new_user_id"`
}

// FactorizationConfig contains latent-space parameters.
type FactorizationConfig struct {
	// Rank is the number of latent components.
	Rank int `json:"rank"`

	// NMFMaxIter bounds the multiplicative update loop.
	NMFMaxIter int `json:"nmf_max_iter"`

	// NMFTolerance stops the loop once the relative error change drops below it.
	NMFTolerance float64 `json:"nmf_tolerance"`

	// NMFInit is the initialisation scheme, NMFInitNNDSVDA or NMFInitRandom.
	NMFInit string `json:"nmf_init"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// StrategyTimeout bounds a single strategy. Zero disables the timeout.
	StrategyTimeout time.Duration `json:"strategy_timeout"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Selections: 3,
			TopK:       5,
			NewUserID:  "new_user",
		},
		Factorization: FactorizationConfig{
			Rank:         5,
			NMFMaxIter:   200,
			NMFTolerance: 1e-4,
			NMFInit:      NMFInitNNDSVDA,
		},
		Limits: LimitsConfig{
			StrategyTimeout: 30 * time.Second,
		},
		DefaultStrategies: AllStrategies(),
		Parallel:          false,
		Seed:              0,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Request.Selections < 1 {
		return fmt.Errorf("request.selections must be positive, got %d", c.Request.Selections)
	}
	if c.Request.TopK < 1 {
		return fmt.Errorf("request.top_k must be positive, got %d", c.Request.TopK)
	}
	if c.Request.NewUserID == "" {
		return fmt.Errorf("request.new_user_id must not be empty")
	}

	if c.Factorization.Rank < 1 {
		return fmt.Errorf("factorization.rank must be positive, got %d", c.Factorization.Rank)
	}
	if c.Factorization.NMFMaxIter < 1 {
		return fmt.Errorf("factorization.nmf_max_iter must be positive, got %d", c.Factorization.NMFMaxIter)
	}
	if c.Factorization.NMFTolerance < 0 {
		return fmt.Errorf("factorization.nmf_tolerance must be non-negative, got %f", c.Factorization.NMFTolerance)
	}
	switch c.Factorization.NMFInit {
	case NMFInitNNDSVDA, NMFInitRandom:
	default:
		return fmt.Errorf("factorization.nmf_init must be %q or %q, got %q", NMFInitNNDSVDA, NMFInitRandom, c.Factorization.NMFInit)
	}

	if c.Limits.StrategyTimeout < 0 {
		return fmt.Errorf("limits.strategy_timeout must be non-negative, got %s", c.Limits.StrategyTimeout)
	}

	for _, s := range c.DefaultStrategies {
		if !s.Valid() {
			return fmt.Errorf("default_strategies contains invalid strategy %d", int(s))
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	cp.DefaultStrategies = append([]Strategy(nil), c.DefaultStrategies...)
	return &cp
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		Limits struct {
			StrategyTimeout string `json:"strategy_timeout"`
		} `json:"limits"`
	}{
		Alias: (*Alias)(c),
		Limits: struct {
			StrategyTimeout string `json:"strategy_timeout"`
		}{
			StrategyTimeout: c.Limits.StrategyTimeout.String(),
		},
	})
}
