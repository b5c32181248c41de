// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/filmrec/internal/config"
	"github.com/tomtom215/filmrec/internal/dataset"
	"github.com/tomtom215/filmrec/internal/models"
	"github.com/tomtom215/filmrec/internal/ratings"
	"github.com/tomtom215/filmrec/internal/recommend"
	"github.com/tomtom215/filmrec/internal/recommend/algorithms"
)

// fakeStore serves a fixed table. A nil table behaves like an unloaded store.
type fakeStore struct {
	table     *ratings.Table
	lastError string
}

func (s *fakeStore) Table() (*ratings.Table, error) {
	if s.table == nil {
		return nil, dataset.ErrNotLoaded
	}
	return s.table, nil
}

func (s *fakeStore) Status() dataset.Status {
	st := dataset.Status{Source: "csv", BreakerState: "closed", LastError: s.lastError}
	if s.table != nil {
		st.Loaded = true
		st.Stats = s.table.Stats()
		st.LoadedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return st
}

func testTable() *ratings.Table {
	genres := map[string]string{
		"Alien":      "Horror|Sci-Fi",
		"Aliens":     "Action|Horror|Sci-Fi",
		"Predator":   "Action|Sci-Fi|Thriller",
		"Heat":       "Action|Crime|Thriller",
		"Ronin":      "Action|Crime|Thriller",
		"Up":         "Adventure|Animation|Children",
		"Toy Story":  "Adventure|Animation|Children|Comedy",
		"Cars":       "Animation|Children|Comedy",
		"Collateral": "Action|Crime|Drama|Thriller",
	}
	row := func(user, title string, r float64) ratings.Rating {
		return ratings.Rating{UserID: user, Title: title, Rating: r, Genres: genres[title]}
	}
	return ratings.NewTable([]ratings.Rating{
		row("u1", "Alien", 5), row("u1", "Aliens", 5), row("u1", "Predator", 4),
		row("u2", "Alien", 4), row("u2", "Aliens", 4), row("u2", "Heat", 2),
		row("u3", "Heat", 5), row("u3", "Ronin", 5), row("u3", "Collateral", 4),
		row("u4", "Up", 5), row("u4", "Toy Story", 5), row("u4", "Cars", 4),
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Timeout: 5 * time.Second},
		API:    config.APIConfig{DefaultPageSize: 4, MaxPageSize: 5},
	}
}

// newTestServer returns the full route tree over store with rate limiting off.
func newTestServer(t *testing.T, store DatasetStore) (http.Handler, *recommend.Engine) {
	t.Helper()

	engineCfg := recommend.DefaultConfig()
	engine, err := recommend.NewEngine(engineCfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if err := algorithms.RegisterAll(engine, engineCfg); err != nil {
		t.Fatalf("RegisterAll() error = %v", err)
	}
	engine.SetTableProvider(store)

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	router := NewRouter(NewHandler(engine, store, testConfig(), "test"), NewChiMiddleware(mwCfg))
	return router.SetupChi(), engine
}

// envelope mirrors models.APIResponse with raw data for per-test decoding.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: response is not an envelope: %v\n%s", method, path, err, rec.Body.String())
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
}
