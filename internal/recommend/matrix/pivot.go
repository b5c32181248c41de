// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

// Package matrix builds dense rating matrices from a ratings table and
// computes cosine similarity over their rows.
//
// A Pivot is a labelled gonum matrix: rows and columns are addressed by the
// sorted distinct user ids and titles of the source table. Unrated cells hold
// zero; a presence bitmap alongside the values records which cells were
// actually rated, so "rated 0" and "not rated" never need to be inferred from
// the value.
package matrix

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/filmrec/internal/ratings"
)

// ErrEmptyMatrix is returned when a pivot would have no rows or no columns.
var ErrEmptyMatrix = errors.New("cannot pivot an empty ratings table")

// Pivot is a labelled dense matrix with a presence bitmap.
// A Pivot is read-only once built and safe for concurrent readers.
type Pivot struct {
	rows     []string
	cols     []string
	rowIndex map[string]int
	colIndex map[string]int
	data     *mat.Dense
	present  []bool
}

// Build pivots the table into a user×title matrix. When a (user, title) pair
// occurs more than once, the later record wins.
func Build(t *ratings.Table) (*Pivot, error) {
	if t.Len() == 0 {
		return nil, ErrEmptyMatrix
	}

	users := t.Users()
	titles := t.Titles()
	p := newPivot(users, titles)

	t.Each(func(_ int, r ratings.Rating) bool {
		i := p.rowIndex[r.UserID]
		j := p.colIndex[r.Title]
		p.data.Set(i, j, r.Rating)
		p.present[i*len(p.cols)+j] = true
		return true
	})

	return p, nil
}

func newPivot(rows, cols []string) *Pivot {
	p := &Pivot{
		rows:     rows,
		cols:     cols,
		rowIndex: indexOf(rows),
		colIndex: indexOf(cols),
		data:     mat.NewDense(len(rows), len(cols), nil),
		present:  make([]bool, len(rows)*len(cols)),
	}
	return p
}

func indexOf(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}

// Transpose returns a new pivot with rows and columns swapped.
func (p *Pivot) Transpose() *Pivot {
	t := &Pivot{
		rows:     p.cols,
		cols:     p.rows,
		rowIndex: p.colIndex,
		colIndex: p.rowIndex,
		data:     mat.DenseCopyOf(p.data.T()),
		present:  make([]bool, len(p.present)),
	}
	nr, nc := len(p.rows), len(p.cols)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			t.present[j*nr+i] = p.present[i*nc+j]
		}
	}
	return t
}

// Dims returns the number of rows and columns.
func (p *Pivot) Dims() (r, c int) {
	return len(p.rows), len(p.cols)
}

// RowLabels returns the row labels in matrix order. The slice must not be modified.
func (p *Pivot) RowLabels() []string { return p.rows }

// ColLabels returns the column labels in matrix order. The slice must not be modified.
func (p *Pivot) ColLabels() []string { return p.cols }

// RowIndex returns the row position of label.
func (p *Pivot) RowIndex(label string) (int, bool) {
	i, ok := p.rowIndex[label]
	return i, ok
}

// ColIndex returns the column position of label.
func (p *Pivot) ColIndex(label string) (int, bool) {
	j, ok := p.colIndex[label]
	return j, ok
}

// At returns the cell value, zero when unrated.
func (p *Pivot) At(i, j int) float64 {
	return p.data.At(i, j)
}

// Present reports whether cell (i, j) was rated.
func (p *Pivot) Present(i, j int) bool {
	return p.present[i*len(p.cols)+j]
}

// Row returns a copy of row i.
func (p *Pivot) Row(i int) []float64 {
	return mat.Row(nil, i, p.data)
}

// Matrix exposes the values as a read-only gonum matrix.
func (p *Pivot) Matrix() mat.Matrix {
	return p.data
}
