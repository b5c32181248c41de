// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package matrix

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Cosine returns the cosine similarity of a and b.
// Returns 0 if either vector has zero norm, so the result is never NaN.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(floats.Dot(a, b) / (na * nb))
}

// CosineSimilarity computes the pairwise cosine similarity of the rows of m.
//
// The result is symmetric. The diagonal is 1 for every non-zero row; any pair
// involving an all-zero row scores 0.
func CosineSimilarity(m mat.Matrix) *mat.SymDense {
	r, _ := m.Dims()
	norms := RowNorms(m)

	var gram mat.SymDense
	gram.SymOuterK(1, m)

	sim := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		if norms[i] == 0 {
			continue
		}
		sim.SetSym(i, i, 1)
		for j := i + 1; j < r; j++ {
			if norms[j] == 0 {
				continue
			}
			sim.SetSym(i, j, clamp(gram.At(i, j)/(norms[i]*norms[j])))
		}
	}
	return sim
}

// CosineToRows returns the cosine similarity of query against every row of m.
// It is the single-row form of CosineSimilarity and gives identical values.
func CosineToRows(m mat.Matrix, query []float64) []float64 {
	r, c := m.Dims()
	out := make([]float64, r)
	if len(query) != c {
		return out
	}
	qn := floats.Norm(query, 2)
	if qn == 0 {
		return out
	}

	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		n := floats.Norm(row, 2)
		if n == 0 {
			continue
		}
		out[i] = clamp(floats.Dot(row, query) / (n * qn))
	}
	return out
}

// RowNorms returns the Euclidean norm of each row of m.
func RowNorms(m mat.Matrix) []float64 {
	r, c := m.Dims()
	norms := make([]float64, r)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		norms[i] = floats.Norm(row, 2)
	}
	return norms
}

// clamp keeps rounding error from pushing a cosine outside [-1, 1].
func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
