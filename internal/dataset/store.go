// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/filmrec/internal/config"
	"github.com/tomtom215/filmrec/internal/logging"
	"github.com/tomtom215/filmrec/internal/metrics"
	"github.com/tomtom215/filmrec/internal/ratings"
)

// ErrNotLoaded is returned by Table before the first successful load.
var ErrNotLoaded = errors.New("dataset not loaded")

// ErrLoadRejected is returned when the circuit breaker refuses a load.
var ErrLoadRejected = errors.New("dataset load rejected by circuit breaker")

// StoreConfig controls load timeouts and the circuit breaker.
type StoreConfig struct {
	// LoadTimeout bounds a single Source.Load. Zero disables it.
	LoadTimeout time.Duration

	// BreakerFailures consecutive failures open the breaker.
	BreakerFailures uint32

	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration
}

// StoreConfigFrom extracts store settings from the dataset configuration.
func StoreConfigFrom(cfg config.DatasetConfig) StoreConfig {
	return StoreConfig{
		LoadTimeout:     cfg.LoadTimeout,
		BreakerFailures: cfg.BreakerFailures,
		BreakerTimeout:  cfg.BreakerTimeout,
	}
}

// snapshot is an immutable loaded table with its precomputed stats.
type snapshot struct {
	table    *ratings.Table
	stats    ratings.Stats
	loadedAt time.Time
}

// Status describes the store for the status and readiness endpoints.
type Status struct {
	Source       string        `json:"source"`
	Loaded       bool          `json:"loaded"`
	Stats        ratings.Stats `json:"stats"`
	LoadedAt     time.Time     `json:"loaded_at,omitempty"`
	LastError    string        `json:"last_error,omitempty"`
	BreakerState string        `json:"breaker_state"`
}

// Store holds the current baseline table. It implements
// recommend.TableProvider.
type Store struct {
	source Source
	cfg    StoreConfig
	cb     *gobreaker.CircuitBreaker[*ratings.Table]
	name   string
	logger zerolog.Logger

	current atomic.Pointer[snapshot]

	errMu   sync.RWMutex
	lastErr error
}

// NewStore wraps source with a circuit breaker.
func NewStore(source Source, cfg StoreConfig) *Store {
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = time.Minute
	}

	s := &Store{
		source: source,
		cfg:    cfg,
		name:   "dataset-" + source.Name(),
		logger: logging.WithComponent("dataset"),
	}

	metrics.CircuitBreakerState.WithLabelValues(s.name).Set(0)

	s.cb = gobreaker.NewCircuitBreaker[*ratings.Table](gobreaker.Settings{
		Name:        s.name,
		MaxRequests: 1, // a single trial load in half-open state
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			s.logger.Warn().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, fromStr, toStr, stateToCode(to))
		},
	})

	return s
}

// Load reads the source through the breaker and, on success, publishes the
// new table. On failure the previous table stays in place.
func (s *Store) Load(ctx context.Context) error {
	start := time.Now()
	source := s.source.Name()

	table, err := s.cb.Execute(func() (*ratings.Table, error) {
		loadCtx := ctx
		if s.cfg.LoadTimeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(ctx, s.cfg.LoadTimeout)
			defer cancel()
		}
		return s.source.Load(loadCtx)
	})
	duration := time.Since(start)

	if err != nil {
		status := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = "rejected"
			err = fmt.Errorf("%w: %w", ErrLoadRejected, err)
		}
		metrics.RecordDatasetLoad(source, status, duration)
		s.setLastErr(err)
		s.logger.Error().Err(err).Str("source", source).Dur("duration", duration).Msg("Dataset load failed")
		return err
	}

	snap := &snapshot{table: table, stats: table.Stats(), loadedAt: time.Now()}
	s.current.Store(snap)
	s.setLastErr(nil)

	metrics.RecordDatasetLoad(source, "success", duration)
	metrics.SetDatasetSize(snap.stats.Ratings, snap.stats.Users, snap.stats.Titles)

	s.logger.Info().
		Str("source", source).
		Int("ratings", snap.stats.Ratings).
		Int("users", snap.stats.Users).
		Int("titles", snap.stats.Titles).
		Int("genres", snap.stats.Genres).
		Dur("duration", duration).
		Msg("Dataset loaded")
	return nil
}

// Table returns the current baseline, or ErrNotLoaded.
func (s *Store) Table() (*ratings.Table, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.table, nil
}

// Loaded reports whether a table is available.
func (s *Store) Loaded() bool {
	return s.current.Load() != nil
}

// Status returns a point-in-time description of the store.
func (s *Store) Status() Status {
	st := Status{
		Source:       s.source.Name(),
		BreakerState: stateToString(s.cb.State()),
	}
	if snap := s.current.Load(); snap != nil {
		st.Loaded = true
		st.Stats = snap.stats
		st.LoadedAt = snap.loadedAt
	}
	if err := s.lastError(); err != nil {
		st.LastError = err.Error()
	}
	return st
}

func (s *Store) setLastErr(err error) {
	s.errMu.Lock()
	s.lastErr = err
	s.errMu.Unlock()
}

func (s *Store) lastError() error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()
	return s.lastErr
}

// stateToCode encodes breaker state for the gauge: 0=closed, 1=half-open, 2=open.
func stateToCode(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
