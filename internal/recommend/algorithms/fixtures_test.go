// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package algorithms

import (
	"testing"

	"github.com/tomtom215/filmrec/internal/ratings"
	"github.com/tomtom215/filmrec/internal/recommend"
	"github.com/tomtom215/filmrec/internal/recommend/matrix"
)

const testUserID = "new_user"

var testGenres = map[string]string{
	"Alien":        "Horror|Sci-Fi",
	"Aliens":       "Action|Horror|Sci-Fi",
	"Predator":     "Action|Sci-Fi|Thriller",
	"Blade Runner": "Sci-Fi|Thriller",
	"Heat":         "Action|Crime|Thriller",
	"Ronin":        "Action|Crime|Thriller",
	"Collateral":   "Action|Crime|Drama|Thriller",
	"Up":           "Adventure|Animation|Children",
	"Toy Story":    "Adventure|Animation|Children|Comedy|Fantasy",
	"Cars":         "Animation|Children|Comedy",
}

func rating(user, title string, r float64) ratings.Rating {
	return ratings.Rating{UserID: user, Title: title, Rating: r, Genres: testGenres[title]}
}

// testBaseline has a sci-fi cluster (u1, u2), a crime cluster (u3, u5) and
// an animation cluster (u4).
func testBaseline() *ratings.Table {
	return ratings.NewTable([]ratings.Rating{
		rating("u1", "Alien", 5),
		rating("u1", "Aliens", 5),
		rating("u1", "Predator", 4),
		rating("u1", "Heat", 1),
		rating("u2", "Alien", 4),
		rating("u2", "Aliens", 5),
		rating("u2", "Predator", 5),
		rating("u2", "Blade Runner", 4),
		rating("u3", "Heat", 5),
		rating("u3", "Ronin", 5),
		rating("u3", "Collateral", 4),
		rating("u4", "Up", 5),
		rating("u4", "Toy Story", 5),
		rating("u4", "Cars", 4),
		rating("u5", "Heat", 4),
		rating("u5", "Ronin", 4),
		rating("u5", "Up", 1),
	})
}

func defaultSelections() []recommend.Selection {
	return []recommend.Selection{
		{Title: "Alien", Rating: 5.0},
		{Title: "Heat", Rating: 2.0},
		{Title: "Up", Rating: 1.0},
	}
}

// buildInput merges selections into base the way the engine does.
func buildInput(t *testing.T, base *ratings.Table, sels []recommend.Selection) *recommend.Input {
	t.Helper()

	rows := make([]ratings.Rating, len(sels))
	for i, s := range sels {
		genres := s.Genres
		if genres == "" {
			genres, _ = base.GenresOf(s.Title)
		}
		rows[i] = ratings.Rating{UserID: testUserID, Title: s.Title, Rating: s.Rating, Genres: genres}
	}

	work := base.Merge(rows)
	ut, err := matrix.Build(work)
	if err != nil {
		t.Fatalf("matrix.Build() error = %v", err)
	}

	anchor, _ := recommend.AnchorOf(sels)
	return &recommend.Input{
		Table:     work,
		UserTitle: ut,
		TitleUser: ut.Transpose(),
		Anchor:    anchor,
		UserID:    testUserID,
		TopK:      5,
	}
}

func titlesOf(items []recommend.ScoredTitle) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

// checkContract verifies the properties every strategy result must have.
func checkContract(t *testing.T, items []recommend.ScoredTitle, anchor string, topK int) {
	t.Helper()

	if len(items) > topK {
		t.Errorf("len(items) = %d, want <= %d", len(items), topK)
	}
	seen := make(map[string]bool)
	for _, it := range items {
		if it.Title == anchor {
			t.Errorf("anchor %q appears in its own results", anchor)
		}
		if seen[it.Title] {
			t.Errorf("title %q appears twice", it.Title)
		}
		seen[it.Title] = true
	}
}
