// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package algorithms

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/filmrec/internal/recommend"
	"github.com/tomtom215/filmrec/internal/recommend/matrix"
)

// Neighbor is a row and its cosine distance to the query row.
type Neighbor struct {
	Index    int
	Distance float64
}

// KNearest returns the k rows of m closest to row query by cosine distance
// (1 − cosine similarity), nearest first. The search is exact brute force.
// The query row itself is always the first entry.
func KNearest(m mat.Matrix, query, k int) []Neighbor {
	r, _ := m.Dims()
	if query < 0 || query >= r || k <= 0 {
		return nil
	}

	sims := matrix.CosineToRows(m, mat.Row(nil, query, m))
	neighbors := make([]Neighbor, 0, r)
	neighbors = append(neighbors, Neighbor{Index: query, Distance: 0})
	for i, s := range sims {
		if i == query {
			continue
		}
		neighbors = append(neighbors, Neighbor{Index: i, Distance: 1 - s})
	}

	rest := neighbors[1:]
	sort.SliceStable(rest, func(a, b int) bool {
		return rest[a].Distance < rest[b].Distance
	})

	if k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// KNN returns the anchor's nearest neighbours in the title×user pivot.
// Results carry titles; the score is the cosine similarity.
type KNN struct{}

// NewKNN creates the nearest-neighbour strategy.
func NewKNN() *KNN {
	return &KNN{}
}

// Strategy implements recommend.Algorithm.
func (a *KNN) Strategy() recommend.Strategy {
	return recommend.StrategyKNN
}

// Recommend requests TopK+1 neighbours and drops the anchor.
func (a *KNN) Recommend(ctx context.Context, in *recommend.Input) ([]recommend.ScoredTitle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ai, err := anchorRow(in)
	if err != nil {
		return nil, err
	}

	labels := in.TitleUser.RowLabels()
	neighbors := KNearest(in.TitleUser.Matrix(), ai, in.TopK+1)

	out := make([]recommend.ScoredTitle, 0, in.TopK)
	for _, n := range neighbors[1:] {
		out = append(out, recommend.ScoredTitle{Title: labels[n.Index], Score: 1 - n.Distance})
	}
	return out, nil
}
