// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package algorithms

import (
	"context"

	"github.com/tomtom215/filmrec/internal/recommend"
	"github.com/tomtom215/filmrec/internal/recommend/matrix"
)

// ItemUser ranks titles by cosine similarity of their rating columns to the
// anchor's, i.e. rows of the title×user pivot.
//
// Only the anchor's row of the item-item similarity matrix is computed; the
// values are identical to the corresponding row of the full matrix.
type ItemUser struct{}

// NewItemUser creates the item-user strategy.
func NewItemUser() *ItemUser {
	return &ItemUser{}
}

// Strategy implements recommend.Algorithm.
func (a *ItemUser) Strategy() recommend.Strategy {
	return recommend.StrategyItemUser
}

// Recommend returns the TopK titles most similar to the anchor, with scores.
func (a *ItemUser) Recommend(ctx context.Context, in *recommend.Input) ([]recommend.ScoredTitle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ai, err := anchorRow(in)
	if err != nil {
		return nil, err
	}

	p := in.TitleUser
	sims := matrix.CosineToRows(p.Matrix(), p.Row(ai))
	order := rankIndices(sims)

	return topTitles(order, p.RowLabels(), sims, ai, in.TopK), nil
}
