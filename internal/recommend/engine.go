// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/filmrec/internal/metrics"
	"github.com/tomtom215/filmrec/internal/ratings"
	"github.com/tomtom215/filmrec/internal/recommend/matrix"
)

// ErrNoBaseline is returned when no baseline table is available.
var ErrNoBaseline = errors.New("no baseline ratings table loaded")

// TableProvider supplies the current baseline ratings table.
// This is typically implemented by the dataset store.
type TableProvider interface {
	Table() (*ratings.Table, error)
}

// Engine runs recommendation strategies against a baseline ratings table.
// It is safe for concurrent use: every request builds its own working copy
// and pivots, and the baseline is only ever read.
type Engine struct {
	config *Config
	cfgMu  sync.RWMutex
	logger zerolog.Logger

	algorithms map[Strategy]Algorithm
	algMu      sync.RWMutex

	provider TableProvider

	requestCount atomic.Int64
	errorCount   atomic.Int64
	runs         [numStrategies]atomic.Int64
	failures     [numStrategies]atomic.Int64
}

// Metrics is a snapshot of engine counters.
type Metrics struct {
	RequestCount     int64            `json:"request_count"`
	ErrorCount       int64            `json:"error_count"`
	StrategyRuns     map[string]int64 `json:"strategy_runs"`
	StrategyFailures map[string]int64 `json:"strategy_failures"`
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		algorithms: make(map[Strategy]Algorithm),
	}, nil
}

// SetTableProvider sets the source of the baseline table used by Recommend.
func (e *Engine) SetTableProvider(p TableProvider) {
	e.algMu.Lock()
	defer e.algMu.Unlock()
	e.provider = p
}

// RegisterAlgorithm adds an algorithm, replacing any previous one for the same strategy.
func (e *Engine) RegisterAlgorithm(alg Algorithm) error {
	s := alg.Strategy()
	if !s.Valid() {
		return fmt.Errorf("register algorithm: invalid strategy %d", int(s))
	}

	e.algMu.Lock()
	defer e.algMu.Unlock()

	if _, exists := e.algorithms[s]; exists {
		e.logger.Warn().Str("strategy", s.String()).Msg("replacing registered algorithm")
	}
	e.algorithms[s] = alg

	e.logger.Info().Str("strategy", s.String()).Msg("registered algorithm")
	return nil
}

// Strategies returns the registered strategies in display order.
func (e *Engine) Strategies() []Strategy {
	e.algMu.RLock()
	defer e.algMu.RUnlock()

	out := make([]Strategy, 0, len(e.algorithms))
	for _, s := range AllStrategies() {
		if _, ok := e.algorithms[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Recommend runs the request against the provider's current baseline.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	e.algMu.RLock()
	p := e.provider
	e.algMu.RUnlock()

	if p == nil {
		return nil, ErrNoBaseline
	}
	baseline, err := p.Table()
	if err != nil {
		return nil, fmt.Errorf("get baseline: %w", err)
	}
	return e.RecommendFrom(ctx, baseline, req)
}

// RecommendFrom runs the request against the given baseline.
//
// Request-level problems (wrong number of selections, out-of-range ratings,
// unknown strategy names, an empty baseline) return an error. Failures inside
// a strategy never do: they are reported in that strategy's result and the
// other strategies still run.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) RecommendFrom(ctx context.Context, baseline *ratings.Table, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)
	cfg := e.GetConfig()

	strategies, err := e.prepareRequest(cfg, &req)
	if err != nil {
		e.errorCount.Add(1)
		metrics.RecordRecommendRequest("invalid", time.Since(start))
		return nil, err
	}

	logger := e.createRequestLogger(req)

	in, resolved, unknown, err := buildInput(cfg, baseline, req)
	if err != nil {
		e.errorCount.Add(1)
		metrics.RecordRecommendRequest("error", time.Since(start))
		return nil, fmt.Errorf("build input: %w", err)
	}

	logger.Debug().
		Str("anchor", in.Anchor.Title).
		Int("strategies", len(strategies)).
		Int("ratings", in.Table.Len()).
		Msg("running strategies")

	results := e.runAlgorithms(ctx, cfg, in, strategies, logger)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	resp := &Response{
		RequestID:     req.RequestID,
		Anchor:        in.Anchor,
		Selections:    resolved,
		UnknownTitles: unknown,
		GenreSummary:  genreSummary(resolved),
		Results:       results,
		Metadata: ResponseMetadata{
			StrategiesRun:    len(results),
			StrategiesFailed: failed,
			LatencyMS:        time.Since(start).Milliseconds(),
			Timestamp:        time.Now(),
		},
	}

	status := "success"
	if failed > 0 {
		status = "partial"
	}
	metrics.RecordRecommendRequest(status, time.Since(start))

	logger.Info().
		Str("anchor", in.Anchor.Title).
		Int("failed", failed).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest validates the request, fills in defaults and returns the
// deduplicated strategy list in request order.
func (e *Engine) prepareRequest(cfg *Config, req *Request) ([]Strategy, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	if len(req.Selections) != cfg.Request.Selections {
		return nil, fmt.Errorf("%w: expected %d selections, got %d",
			ErrInvalidRequest, cfg.Request.Selections, len(req.Selections))
	}
	for i, sel := range req.Selections {
		if sel.Title == "" {
			return nil, fmt.Errorf("%w: selection %d has an empty title", ErrInvalidRequest, i)
		}
		if !ratings.ValidRating(sel.Rating) {
			return nil, fmt.Errorf("%w: selection %d rating %v must be in [%.1f, %.1f] in steps of %.1f",
				ErrInvalidRequest, i, sel.Rating, ratings.MinRating, ratings.MaxRating, ratings.RatingStep)
		}
	}

	requested := req.Strategies
	if len(requested) == 0 {
		requested = cfg.DefaultStrategies
	}

	seen := make(map[Strategy]bool, len(requested))
	strategies := make([]Strategy, 0, len(requested))
	for _, s := range requested {
		if !s.Valid() {
			return nil, fmt.Errorf("%w: invalid strategy %d", ErrInvalidRequest, int(s))
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		strategies = append(strategies, s)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("%w: no strategies requested", ErrInvalidRequest)
	}

	return strategies, nil
}

// createRequestLogger returns a logger carrying request fields.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Logger()
}

// AnchorOf returns the highest-rated selection. The first one wins ties.
func AnchorOf(selections []Selection) (Selection, bool) {
	if len(selections) == 0 {
		return Selection{}, false
	}
	best := selections[0]
	for _, s := range selections[1:] {
		if s.Rating > best.Rating {
			best = s
		}
	}
	return best, true
}

// buildInput resolves genres, merges the selections into a working copy of
// the baseline and pivots it once for all strategies.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func buildInput(cfg *Config, baseline *ratings.Table, req Request) (*Input, []Selection, []string, error) {
	if baseline.Len() == 0 {
		return nil, nil, nil, ErrEmptyMatrix
	}

	resolved := make([]Selection, len(req.Selections))
	rows := make([]ratings.Rating, len(req.Selections))
	var unknown []string

	for i, sel := range req.Selections {
		if sel.Genres == "" {
			if g, ok := baseline.GenresOf(sel.Title); ok {
				sel.Genres = g
			} else {
				unknown = append(unknown, sel.Title)
			}
		}
		resolved[i] = sel
		rows[i] = ratings.Rating{
			UserID: cfg.Request.NewUserID,
			Title:  sel.Title,
			Rating: sel.Rating,
			Genres: sel.Genres,
		}
	}

	anchor, _ := AnchorOf(resolved)
	work := baseline.Merge(rows)

	userTitle, err := matrix.Build(work)
	if err != nil {
		return nil, nil, nil, err
	}

	in := &Input{
		Table:     work,
		UserTitle: userTitle,
		TitleUser: userTitle.Transpose(),
		Anchor:    anchor,
		UserID:    cfg.Request.NewUserID,
		TopK:      cfg.Request.TopK,
	}
	return in, resolved, unknown, nil
}

// runAlgorithms runs every strategy and returns results in strategy order.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) runAlgorithms(ctx context.Context, cfg *Config, in *Input, strategies []Strategy, logger zerolog.Logger) []StrategyResult {
	results := make([]StrategyResult, len(strategies))

	if !cfg.Parallel {
		for i, s := range strategies {
			results[i] = e.runSingleAlgorithm(ctx, cfg, in, s, logger)
		}
		return results
	}

	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Add(1)
		go func(idx int, strategy Strategy) {
			defer wg.Done()
			results[idx] = e.runSingleAlgorithm(ctx, cfg, in, strategy, logger)
		}(i, s)
	}
	wg.Wait()

	return results
}

// runSingleAlgorithm runs one strategy with panic recovery and an optional timeout.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) runSingleAlgorithm(ctx context.Context, cfg *Config, in *Input, s Strategy, logger zerolog.Logger) (result StrategyResult) {
	start := time.Now()
	result.Strategy = s
	e.runs[s].Add(1)

	defer func() {
		if r := recover(); r != nil {
			result.Items = nil
			result.Err = fmt.Errorf("%w: %v", ErrStrategyPanic, r)
		}
		elapsed := time.Since(start)
		result.LatencyMS = elapsed.Milliseconds()

		reason := ""
		if result.Err != nil {
			reason = failureReason(result.Err)
			e.failures[s].Add(1)
			logger.Warn().
				Str("strategy", s.String()).
				Str("reason", reason).
				Err(result.Err).
				Msg("strategy failed")
			result.Err = &StrategyError{Strategy: s, Err: result.Err}
		}
		metrics.RecordStrategyRun(s.String(), elapsed, reason, len(result.Items))
	}()

	e.algMu.RLock()
	alg, ok := e.algorithms[s]
	e.algMu.RUnlock()
	if !ok {
		result.Err = ErrStrategyNotRegistered
		return result
	}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	algCtx := ctx
	if cfg.Limits.StrategyTimeout > 0 {
		var cancel context.CancelFunc
		algCtx, cancel = context.WithTimeout(ctx, cfg.Limits.StrategyTimeout)
		defer cancel()
	}

	items, err := alg.Recommend(algCtx, in)
	if err != nil {
		result.Err = err
		return result
	}
	result.Items = sanitizeItems(items, in.Anchor.Title, in.TopK)
	return result
}

// sanitizeItems enforces the result contract: no anchor, no non-finite
// scores, at most topK entries.
func sanitizeItems(items []ScoredTitle, anchor string, topK int) []ScoredTitle {
	out := make([]ScoredTitle, 0, min(len(items), topK))
	for _, it := range items {
		if len(out) == topK {
			break
		}
		if it.Title == anchor {
			continue
		}
		if math.IsNaN(it.Score) || math.IsInf(it.Score, 0) {
			it.Score = 0
		}
		out = append(out, it)
	}
	return out
}

// genreSummary counts selections per genre string, most frequent first.
func genreSummary(selections []Selection) []GenreCount {
	counts := make([]GenreCount, 0, len(selections))
	index := make(map[string]int)
	for _, s := range selections {
		if s.Genres == "" {
			continue
		}
		if i, ok := index[s.Genres]; ok {
			counts[i].Count++
			continue
		}
		index[s.Genres] = len(counts)
		counts = append(counts, GenreCount{Genres: s.Genres, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// GetMetrics returns the current engine counters.
func (e *Engine) GetMetrics() Metrics {
	m := Metrics{
		RequestCount:     e.requestCount.Load(),
		ErrorCount:       e.errorCount.Load(),
		StrategyRuns:     make(map[string]int64),
		StrategyFailures: make(map[string]int64),
	}
	for _, s := range AllStrategies() {
		m.StrategyRuns[s.String()] = e.runs[s].Load()
		m.StrategyFailures[s.String()] = e.failures[s].Load()
	}
	return m
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()
	return e.config.Clone()
}

// UpdateConfig replaces the engine configuration.
func (e *Engine) UpdateConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	e.cfgMu.Lock()
	e.config = cfg.Clone()
	e.cfgMu.Unlock()

	e.logger.Info().Msg("configuration updated")
	return nil
}
