// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/filmrec/internal/ratings"
	"github.com/tomtom215/filmrec/internal/recommend"
	"github.com/tomtom215/filmrec/internal/recommend/matrix"
)

// GenreMatrix is a binary genre encoding with one row per rating record.
type GenreMatrix struct {
	// Vocabulary holds the distinct genre tokens in sorted order.
	Vocabulary []string

	// Features is records × len(Vocabulary); 1 when the record's title has the genre.
	Features *mat.Dense
}

// GenreFeatures encodes every record of t as a binary genre vector.
// Rows follow table order, so a title rated by many users appears many times.
func GenreFeatures(t *ratings.Table) *GenreMatrix {
	index := make(map[string]int)
	t.Each(func(_ int, r ratings.Rating) bool {
		for _, g := range r.GenreTokens() {
			index[g] = 0
		}
		return true
	})

	vocab := make([]string, 0, len(index))
	for g := range index {
		vocab = append(vocab, g)
	}
	sort.Strings(vocab)
	for i, g := range vocab {
		index[g] = i
	}

	gm := &GenreMatrix{Vocabulary: vocab}
	if t.Len() == 0 || len(vocab) == 0 {
		return gm
	}

	gm.Features = mat.NewDense(t.Len(), len(vocab), nil)
	t.Each(func(i int, r ratings.Rating) bool {
		for _, g := range r.GenreTokens() {
			gm.Features.Set(i, index[g], 1)
		}
		return true
	})
	return gm
}

// Content ranks titles by cosine similarity of their genre vectors to the
// anchor's first record.
//
// Because rows are per record, popular titles occupy several rows. The
// ranking is therefore deduplicated by title, keeping each title's first
// (highest) position, and rows of the anchor title itself are skipped.
type Content struct{}

// NewContent creates the content strategy.
func NewContent() *Content {
	return &Content{}
}

// Strategy implements recommend.Algorithm.
func (a *Content) Strategy() recommend.Strategy {
	return recommend.StrategyContent
}

// Recommend returns up to TopK distinct titles, best first.
func (a *Content) Recommend(ctx context.Context, in *recommend.Input) ([]recommend.ScoredTitle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	anchor := in.Anchor.Title
	query := -1
	in.Table.Each(func(i int, r ratings.Rating) bool {
		if r.Title == anchor {
			query = i
			return false
		}
		return true
	})
	if query < 0 {
		return nil, fmt.Errorf("%w: %q", recommend.ErrUnknownTitle, anchor)
	}
	if len(in.Table.At(query).GenreTokens()) == 0 {
		return nil, fmt.Errorf("%w: %q has no genres", recommend.ErrUnknownTitle, anchor)
	}

	gm := GenreFeatures(in.Table)
	sims := matrix.CosineToRows(gm.Features, mat.Row(nil, query, gm.Features))
	order := pinFirst(rankIndices(sims), query)

	seen := map[string]bool{anchor: true}
	out := make([]recommend.ScoredTitle, 0, in.TopK)
	for _, idx := range order[1:] {
		if len(out) == in.TopK {
			break
		}
		title := in.Table.At(idx).Title
		if seen[title] {
			continue
		}
		seen[title] = true
		out = append(out, recommend.ScoredTitle{Title: title, Score: sims[idx]})
	}
	return out, nil
}
