// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/filmrec/internal/recommend"
	"github.com/tomtom215/filmrec/internal/recommend/matrix"
)

// UserItem finds the single most similar other user to the new user and
// recommends that neighbour's highest-rated titles the new user has not rated.
//
// Similarity is cosine over rows of the user×title pivot. The neighbour must
// have strictly positive similarity; the first user in sorted id order wins
// ties. Titles the neighbour never rated are not candidates even though
// their pivot cell is zero.
type UserItem struct{}

// NewUserItem creates the user-item strategy.
func NewUserItem() *UserItem {
	return &UserItem{}
}

// Strategy implements recommend.Algorithm.
func (a *UserItem) Strategy() recommend.Strategy {
	return recommend.StrategyUserItem
}

// Recommend returns up to TopK titles scored by the neighbour's rating.
func (a *UserItem) Recommend(ctx context.Context, in *recommend.Input) ([]recommend.ScoredTitle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := in.UserTitle
	u, ok := p.RowIndex(in.UserID)
	if !ok {
		return nil, fmt.Errorf("user %q missing from pivot", in.UserID)
	}

	n, ok := nearestUser(p, u)
	if !ok {
		return nil, recommend.ErrNoNeighborFound
	}

	type candidate struct {
		col    int
		rating float64
	}

	_, cols := p.Dims()
	candidates := make([]candidate, 0)
	for j := 0; j < cols; j++ {
		if p.Present(u, j) || !p.Present(n, j) {
			continue
		}
		candidates = append(candidates, candidate{col: j, rating: p.At(n, j)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].rating > candidates[j].rating
	})

	titles := p.ColLabels()
	out := make([]recommend.ScoredTitle, 0, min(len(candidates), in.TopK))
	for _, c := range candidates {
		if len(out) == in.TopK {
			break
		}
		out = append(out, recommend.ScoredTitle{Title: titles[c.col], Score: c.rating})
	}
	return out, nil
}

// nearestUser returns the row most similar to row u, excluding u itself.
// It reports false when no row has positive similarity.
func nearestUser(p *matrix.Pivot, u int) (int, bool) {
	sims := matrix.CosineToRows(p.Matrix(), p.Row(u))

	best, bestSim := -1, 0.0
	for i, s := range sims {
		if i == u {
			continue
		}
		if s > bestSim {
			best, bestSim = i, s
		}
	}
	return best, best >= 0
}
