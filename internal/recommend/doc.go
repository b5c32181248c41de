// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

// Package recommend runs film recommendation strategies for a new user.
//
// # Request Flow
//
// A request carries exactly three rated films. The engine:
//
//  1. Validates the selections (title present, rating in [0.5, 5] on a half step)
//  2. Picks the anchor: the highest-rated selection, first one on ties
//  3. Resolves genres from the baseline for selections that carry none
//  4. Merges the selections into a working copy of the baseline under a
//     synthetic user id, leaving the baseline untouched
//  5. Pivots the working copy once (user×title and title×user)
//  6. Runs each requested strategy against the shared, read-only input
//
// # Strategies
//
//   - Item-User: cosine similarity between title rows
//   - User-Item: the nearest other user's ratings for unseen titles
//   - NMF / SVD: cosine similarity in a latent title space
//   - KNN: brute-force cosine nearest neighbours
//   - Content: cosine similarity of binary genre vectors
//
// Implementations live in the algorithms subpackage and register themselves
// through RegisterAlgorithm.
//
// # Failure Isolation
//
// A failing or panicking strategy produces a StrategyResult carrying a
// StrategyError; the remaining strategies still run. Only request-level
// problems (bad selections, an empty baseline) fail the whole request.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	if err := algorithms.RegisterAll(engine, engine.GetConfig()); err != nil {
//	    return err
//	}
//	engine.SetTableProvider(store)
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    Selections: []recommend.Selection{
//	        {Title: "Alien", Rating: 5},
//	        {Title: "Heat", Rating: 2},
//	        {Title: "Up", Rating: 1},
//	    },
//	})
package recommend
