// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/filmrec/internal/ratings"
	"github.com/tomtom215/filmrec/internal/recommend/matrix"
)

// Algorithm is implemented by every recommendation strategy.
//
// An Algorithm is stateless with respect to requests: everything it needs is
// passed in the Input, which is shared read-only between all algorithms of a
// request. Implementations must be safe for concurrent use.
type Algorithm interface {
	// Strategy identifies which strategy this algorithm implements.
	Strategy() Strategy

	// Recommend returns up to in.TopK titles, best first. The anchor title
	// must never appear in the result.
	Recommend(ctx context.Context, in *Input) ([]ScoredTitle, error)
}

// Input is the per-request data handed to every algorithm.
type Input struct {
	// Table is the working copy: baseline plus the new user's selections.
	Table *ratings.Table

	// UserTitle is the user×title pivot of Table.
	UserTitle *matrix.Pivot

	// TitleUser is the title×user pivot of Table.
	TitleUser *matrix.Pivot

	// Anchor is the highest-rated selection.
	Anchor Selection

	// UserID is the synthetic id the selections were merged under.
	UserID string

	// TopK is the maximum result length.
	TopK int
}

// Strategy enumerates the recommendation strategies.
type Strategy int

const (
	// StrategyUnknown is the zero value and never valid in a request.
	StrategyUnknown Strategy = iota
	// StrategyItemUser ranks titles by item-item cosine similarity to the anchor.
	StrategyItemUser
	// StrategyUserItem recommends what the most similar other user rated highest.
	StrategyUserItem
	// StrategyNMF ranks titles by similarity in an NMF latent space.
	StrategyNMF
	// StrategySVD ranks titles by similarity in a truncated SVD latent space.
	StrategySVD
	// StrategyKNN returns the anchor's nearest neighbours by cosine distance.
	StrategyKNN
	// StrategyContent ranks titles by genre-vector similarity.
	StrategyContent

	numStrategies = int(StrategyContent) + 1
)

var strategyNames = map[Strategy]string{
	StrategyItemUser: "item_user",
	StrategyUserItem: "user_item",
	StrategyNMF:      "nmf",
	StrategySVD:      "svd",
	StrategyKNN:      "knn",
	StrategyContent:  "content",
}

var strategyDisplayNames = map[Strategy]string{
	StrategyItemUser: "Item-User",
	StrategyUserItem: "User-Item",
	StrategyNMF:      "NMF",
	StrategySVD:      "SVD",
	StrategyKNN:      "KNN",
	StrategyContent:  "Content",
}

// AllStrategies returns every strategy in display order.
func AllStrategies() []Strategy {
	return []Strategy{
		StrategyItemUser,
		StrategyUserItem,
		StrategyNMF,
		StrategySVD,
		StrategyKNN,
		StrategyContent,
	}
}

// String returns the wire name of the strategy.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// DisplayName returns the human-facing name of the strategy.
func (s Strategy) DisplayName() string {
	if name, ok := strategyDisplayNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether s names a real strategy.
func (s Strategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

// ScoreKind says what the scores of this strategy's results mean.
func (s Strategy) ScoreKind() ScoreKind {
	switch s {
	case StrategyItemUser, StrategyNMF, StrategySVD:
		return ScoreSimilarity
	case StrategyUserItem:
		return ScoreRating
	default:
		return ScoreNone
	}
}

// ParseStrategy accepts a wire name or display name, case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	switch key {
	case "item_user", "itemuser":
		return StrategyItemUser, nil
	case "user_item", "useritem":
		return StrategyUserItem, nil
	case "nmf":
		return StrategyNMF, nil
	case "svd":
		return StrategySVD, nil
	case "knn":
		return StrategyKNN, nil
	case "content", "contenu":
		return StrategyContent, nil
	default:
		return StrategyUnknown, fmt.Errorf("%w: unknown strategy %q", ErrInvalidRequest, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ScoreKind describes the meaning of ScoredTitle.Score.
type ScoreKind int

const (
	// ScoreNone means the strategy reports titles only.
	ScoreNone ScoreKind = iota
	// ScoreSimilarity means the score is a cosine similarity.
	ScoreSimilarity
	// ScoreRating means the score is a neighbour's rating.
	ScoreRating
)

// String returns the wire name of the score kind.
func (k ScoreKind) String() string {
	switch k {
	case ScoreSimilarity:
		return "similarity"
	case ScoreRating:
		return "rating"
	default:
		return "none"
	}
}

// Selection is one of the new user's rated films.
type Selection struct {
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
	// Genres overrides the baseline lookup when set.
	Genres string `json:"genres,omitempty"`
}

// Request is a recommendation request.
type Request struct {
	// RequestID is optional; one is generated when empty.
	RequestID string `json:"request_id,omitempty"`

	// Selections are the new user's ratings.
	Selections []Selection `json:"selections"`

	// Strategies to run, in result order. Duplicates are collapsed.
	Strategies []Strategy `json:"strategies"`
}

// ScoredTitle is a single ranked title.
type ScoredTitle struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// StrategyResult holds the outcome of one strategy: items, or an error.
type StrategyResult struct {
	Strategy  Strategy
	Items     []ScoredTitle
	Err       error
	LatencyMS int64
}

// OK reports whether the strategy succeeded.
func (r StrategyResult) OK() bool { return r.Err == nil }

// Titles returns just the titles, in rank order.
func (r StrategyResult) Titles() []string {
	out := make([]string, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Title
	}
	return out
}

type ratedTitle struct {
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
}

type strategyResultJSON struct {
	Strategy  string      `json:"strategy"`
	Name      string      `json:"name"`
	ScoreKind string      `json:"score_kind"`
	Items     interface{} `json:"items"`
	Error     string      `json:"error,omitempty"`
	LatencyMS int64       `json:"latency_ms"`
}

// MarshalJSON shapes items by score kind: similarity strategies emit
// {title, score}, user-item emits {title, rating}, the rest emit bare titles.
//
//nolint:gocritic // hugeParam: value receiver so both values and pointers marshal
func (r StrategyResult) MarshalJSON() ([]byte, error) {
	out := strategyResultJSON{
		Strategy:  r.Strategy.String(),
		Name:      r.Strategy.DisplayName(),
		ScoreKind: r.Strategy.ScoreKind().String(),
		LatencyMS: r.LatencyMS,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}

	switch r.Strategy.ScoreKind() {
	case ScoreSimilarity:
		items := r.Items
		if items == nil {
			items = []ScoredTitle{}
		}
		out.Items = items
	case ScoreRating:
		items := make([]ratedTitle, len(r.Items))
		for i, it := range r.Items {
			items[i] = ratedTitle{Title: it.Title, Rating: it.Score}
		}
		out.Items = items
	default:
		out.Items = r.Titles()
	}

	return json.Marshal(out)
}

// GenreCount is one line of the genre summary.
type GenreCount struct {
	Genres string `json:"genres"`
	Count  int    `json:"count"`
}

// Response is the result of a recommendation request.
type Response struct {
	RequestID string `json:"request_id"`

	// Anchor is the highest-rated selection; ties go to the first.
	Anchor Selection `json:"anchor"`

	// Selections echoes the request with genres resolved.
	Selections []Selection `json:"selections"`

	// UnknownTitles lists selections that are not in the baseline and
	// carried no genres of their own.
	UnknownTitles []string `json:"unknown_titles,omitempty"`

	// GenreSummary counts selections per genre string.
	GenreSummary []GenreCount `json:"genre_summary"`

	// Results has one entry per requested strategy, in request order.
	Results []StrategyResult `json:"results"`

	Metadata ResponseMetadata `json:"metadata"`
}

// Result returns the result for strategy s.
func (r *Response) Result(s Strategy) (StrategyResult, bool) {
	for _, res := range r.Results {
		if res.Strategy == s {
			return res, true
		}
	}
	return StrategyResult{}, false
}

// ResponseMetadata contains request-level bookkeeping.
type ResponseMetadata struct {
	StrategiesRun    int       `json:"strategies_run"`
	StrategiesFailed int       `json:"strategies_failed"`
	LatencyMS        int64     `json:"latency_ms"`
	Timestamp        time.Time `json:"timestamp"`
}
