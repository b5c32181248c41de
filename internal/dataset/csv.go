// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/filmrec/internal/ratings"
)

// CSV column names. Matching is case-insensitive; other columns are ignored.
const (
	ColumnUserID = "userId"
	ColumnTitle  = "title"
	ColumnRating = "rating"
	ColumnGenres = "genres"
)

// ctxCheckEvery is how many rows are read between context checks.
const ctxCheckEvery = 4096

// ErrMissingColumn is returned when a required CSV column is absent.
var ErrMissingColumn = errors.New("missing required column")

// CSVSource reads ratings from a CSV file with a header row.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source for the file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name implements Source.
func (s *CSVSource) Name() string { return "csv" }

// Path returns the file path.
func (s *CSVSource) Path() string { return s.path }

// Load implements Source.
func (s *CSVSource) Load(ctx context.Context) (*ratings.Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open ratings file: %w", err)
	}
	defer f.Close()

	table, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return table, nil
}

// columnIndex maps the columns we read to their position in a record.
type columnIndex struct {
	user, title, rating, genres int
}

func parseHeader(header []string) (columnIndex, error) {
	idx := columnIndex{user: -1, title: -1, rating: -1, genres: -1}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, ColumnUserID):
			idx.user = i
		case strings.EqualFold(name, ColumnTitle):
			idx.title = i
		case strings.EqualFold(name, ColumnRating):
			idx.rating = i
		case strings.EqualFold(name, ColumnGenres):
			idx.genres = i
		}
	}

	var missing []string
	if idx.user < 0 {
		missing = append(missing, ColumnUserID)
	}
	if idx.title < 0 {
		missing = append(missing, ColumnTitle)
	}
	if idx.rating < 0 {
		missing = append(missing, ColumnRating)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

// ReadCSV parses a ratings CSV. The header must name userId, title and
// rating; genres is optional. Rows are kept in file order and must pass
// ratings.Table.Validate.
func ReadCSV(ctx context.Context, r io.Reader) (*ratings.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ratings.ErrEmptyTable
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []ratings.Rating
	for line := 2; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row, err := recordToRating(record, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	table := ratings.NewTable(rows)
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func recordToRating(record []string, idx columnIndex) (ratings.Rating, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	raw := field(idx.rating)
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ratings.Rating{}, fmt.Errorf("invalid rating %q", raw)
	}

	return ratings.Rating{
		UserID: field(idx.user),
		Title:  field(idx.title),
		Rating: value,
		Genres: field(idx.genres),
	}, nil
}
