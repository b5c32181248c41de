// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

// Package ratings holds the in-memory ratings table the recommendation engine
// reads from.
//
// A Table is an ordered list of (user, title, rating, genres) records. Tables
// are immutable once built: Merge returns a new table and never touches the
// receiver, so a single baseline can be shared by any number of concurrent
// requests.
package ratings

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// GenreSeparator splits the genres field into tokens.
const GenreSeparator = "|"

// MinRating and MaxRating bound a valid rating; ratings move in RatingStep increments.
const (
	MinRating  = 0.5
	MaxRating  = 5.0
	RatingStep = 0.5
)

// ErrEmptyTable is returned when a table without records is required to have some.
var ErrEmptyTable = errors.New("ratings table is empty")

// Rating is a single rating record.
type Rating struct {
	// UserID identifies the rater. Baseline ids are opaque strings.
	UserID string `json:"user_id"`

	// Title is the film title. Titles are the item identity; there is no
	// separate movie id.
	Title string `json:"title"`

	// Rating is the score in [0.5, 5.0] with 0.5 granularity.
	Rating float64 `json:"rating"`

	// Genres is the pipe-delimited genre string, e.g. "Action|Sci-Fi".
	Genres string `json:"genres"`
}

// GenreTokens splits the genre string on the separator, dropping empty tokens.
func (r Rating) GenreTokens() []string {
	return SplitGenres(r.Genres)
}

// SplitGenres splits a pipe-delimited genre string into its non-empty tokens.
func SplitGenres(genres string) []string {
	if genres == "" {
		return nil
	}
	parts := strings.Split(genres, GenreSeparator)
	tokens := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// ValidRating reports whether v lies in [MinRating, MaxRating] on a RatingStep boundary.
func ValidRating(v float64) bool {
	if math.IsNaN(v) || v < MinRating || v > MaxRating {
		return false
	}
	steps := v / RatingStep
	return math.Abs(steps-math.Round(steps)) < 1e-9
}

// Table is an immutable, ordered ratings table.
type Table struct {
	rows []Rating

	// genresOnce builds genres, the first-match title index, on first lookup.
	genresOnce sync.Once
	genres     map[string]string
}

// NewTable builds a table from rows. The slice is copied.
func NewTable(rows []Rating) *Table {
	cp := make([]Rating, len(rows))
	copy(cp, rows)
	return &Table{rows: cp}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// At returns the i-th record.
func (t *Table) At(i int) Rating {
	return t.rows[i]
}

// Rows returns a copy of all records in table order.
func (t *Table) Rows() []Rating {
	cp := make([]Rating, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Each calls fn for every record in order until fn returns false.
func (t *Table) Each(fn func(i int, r Rating) bool) {
	for i, r := range t.rows {
		if !fn(i, r) {
			return
		}
	}
}

// Merge returns a new table holding the receiver's records followed by extra.
// The receiver is not modified.
func (t *Table) Merge(extra []Rating) *Table {
	merged := make([]Rating, 0, len(t.rows)+len(extra))
	merged = append(merged, t.rows...)
	merged = append(merged, extra...)
	return &Table{rows: merged}
}

// GenresOf returns the genres of the first record carrying title.
// The title index is built once per table and shared by later calls.
func (t *Table) GenresOf(title string) (string, bool) {
	t.genresOnce.Do(func() {
		t.genres = make(map[string]string, len(t.rows))
		for _, r := range t.rows {
			if _, ok := t.genres[r.Title]; !ok {
				t.genres[r.Title] = r.Genres
			}
		}
	})
	g, ok := t.genres[title]
	return g, ok
}

// Titles returns the distinct titles in sorted order.
func (t *Table) Titles() []string {
	return t.distinct(func(r Rating) string { return r.Title })
}

// Users returns the distinct user ids in sorted order.
func (t *Table) Users() []string {
	return t.distinct(func(r Rating) string { return r.UserID })
}

func (t *Table) distinct(key func(Rating) string) []string {
	seen := make(map[string]struct{}, len(t.rows))
	out := make([]string, 0)
	for _, r := range t.rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Stats summarises a table.
type Stats struct {
	Ratings int `json:"ratings"`
	Users   int `json:"users"`
	Titles  int `json:"titles"`
	Genres  int `json:"genres"`
}

// Stats computes record, user, title and genre counts.
func (t *Table) Stats() Stats {
	genres := make(map[string]struct{})
	for _, r := range t.rows {
		for _, g := range r.GenreTokens() {
			genres[g] = struct{}{}
		}
	}
	return Stats{
		Ratings: len(t.rows),
		Users:   len(t.Users()),
		Titles:  len(t.Titles()),
		Genres:  len(genres),
	}
}

// Validate checks every record for a non-empty user and title and a valid rating.
func (t *Table) Validate() error {
	if len(t.rows) == 0 {
		return ErrEmptyTable
	}
	for i, r := range t.rows {
		if r.UserID == "" {
			return fmt.Errorf("row %d: empty user id", i)
		}
		if r.Title == "" {
			return fmt.Errorf("row %d: empty title", i)
		}
		if !ValidRating(r.Rating) {
			return fmt.Errorf("row %d: rating %v out of range [%.1f, %.1f] step %.1f", i, r.Rating, MinRating, MaxRating, RatingStep)
		}
	}
	return nil
}
