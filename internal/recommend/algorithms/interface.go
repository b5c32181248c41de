// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

// Package algorithms implements the recommendation strategies.
//
// Each algorithm implements the recommend.Algorithm interface and is
// registered with the engine through RegisterAll.
//
// # Algorithm Categories
//
//   - Memory-based collaborative filtering: ItemUser, UserItem
//   - Latent factor models: NMF, SVD (see Factorization)
//   - Nearest neighbour search: KNN
//   - Content-based: Content (genre vectors)
//
// # Thread Safety
//
// Algorithms hold configuration only. All request data arrives in the
// recommend.Input, which is read-only, so every algorithm is safe for
// concurrent use.
package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/filmrec/internal/recommend"
)

// Compile-time interface checks.
var (
	_ recommend.Algorithm = (*ItemUser)(nil)
	_ recommend.Algorithm = (*UserItem)(nil)
	_ recommend.Algorithm = (*Factorization)(nil)
	_ recommend.Algorithm = (*KNN)(nil)
	_ recommend.Algorithm = (*Content)(nil)
)

// New returns the algorithms for every strategy, configured from cfg.
func New(cfg *recommend.Config) []recommend.Algorithm {
	return []recommend.Algorithm{
		NewItemUser(),
		NewUserItem(),
		NewNMF(cfg.Factorization, cfg.Seed),
		NewSVD(cfg.Factorization),
		NewKNN(),
		NewContent(),
	}
}

// RegisterAll registers the algorithms for every strategy with the engine.
func RegisterAll(e *recommend.Engine, cfg *recommend.Config) error {
	for _, alg := range New(cfg) {
		if err := e.RegisterAlgorithm(alg); err != nil {
			return fmt.Errorf("register %s: %w", alg.Strategy(), err)
		}
	}
	return nil
}

// rankIndices returns 0..len(scores)-1 ordered by descending score.
// Equal scores keep index order.
func rankIndices(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

// pinFirst moves idx to the front of order, keeping the rest in place.
func pinFirst(order []int, idx int) []int {
	for pos, v := range order {
		if v != idx {
			continue
		}
		copy(order[1:pos+1], order[:pos])
		order[0] = idx
		break
	}
	return order
}

// topTitles takes labelled scores in rank order, skipping skip, up to k.
func topTitles(order []int, labels []string, scores []float64, skip, k int) []recommend.ScoredTitle {
	out := make([]recommend.ScoredTitle, 0, k)
	for _, idx := range order {
		if len(out) == k {
			break
		}
		if idx == skip {
			continue
		}
		out = append(out, recommend.ScoredTitle{Title: labels[idx], Score: scores[idx]})
	}
	return out
}

// anchorRow returns the row of the anchor title in the title×user pivot.
func anchorRow(in *recommend.Input) (int, error) {
	idx, ok := in.TitleUser.RowIndex(in.Anchor.Title)
	if !ok {
		return 0, fmt.Errorf("%w: %q", recommend.ErrUnknownTitle, in.Anchor.Title)
	}
	return idx, nil
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
