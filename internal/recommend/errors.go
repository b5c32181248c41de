// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/filmrec/internal/recommend/matrix"
)

var (
	// ErrInvalidRequest is returned when a request fails validation.
	ErrInvalidRequest = errors.New("invalid recommendation request")

	// ErrUnknownTitle means a title is not in the baseline and has no genres.
	ErrUnknownTitle = errors.New("unknown title")

	// ErrNoNeighborFound means no other user has positive similarity to the new user.
	ErrNoNeighborFound = errors.New("no similar user found")

	// ErrRankTooLarge means the latent rank does not fit the matrix.
	ErrRankTooLarge = errors.New("factorization rank too large for matrix")

	// ErrNotConverged means a factorization produced non-finite values.
	ErrNotConverged = errors.New("factorization did not converge")

	// ErrStrategyPanic wraps a recovered panic inside an algorithm.
	ErrStrategyPanic = errors.New("strategy panicked")

	// ErrStrategyNotRegistered means no algorithm is registered for a strategy.
	ErrStrategyNotRegistered = errors.New("strategy not registered")

	// ErrEmptyMatrix is returned when the working table cannot be pivoted.
	ErrEmptyMatrix = matrix.ErrEmptyMatrix
)

// StrategyError attributes a failure to a single strategy.
type StrategyError struct {
	Strategy Strategy
	Err      error
}

// Error implements error.
func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Strategy, e.Err)
}

// Unwrap returns the underlying error.
func (e *StrategyError) Unwrap() error {
	return e.Err
}

// failureReason maps an error to a low-cardinality metrics label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownTitle):
		return "unknown_title"
	case errors.Is(err, ErrNoNeighborFound):
		return "no_neighbor"
	case errors.Is(err, ErrRankTooLarge):
		return "rank_too_large"
	case errors.Is(err, ErrNotConverged):
		return "not_converged"
	case errors.Is(err, ErrStrategyPanic):
		return "panic"
	case errors.Is(err, ErrStrategyNotRegistered):
		return "not_registered"
	case errors.Is(err, ErrEmptyMatrix):
		return "empty_matrix"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
