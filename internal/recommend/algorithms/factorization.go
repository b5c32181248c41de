// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package algorithms

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/filmrec/internal/recommend"
	"github.com/tomtom215/filmrec/internal/recommend/matrix"
)

// nmfEpsilon keeps multiplicative update denominators away from zero.
const nmfEpsilon = 1e-10

// NMFOptions configures EmbedNMF.
type NMFOptions struct {
	// MaxIter bounds the number of multiplicative updates.
	MaxIter int

	// Tol stops iteration when the relative reconstruction error improvement
	// over ten iterations falls below it.
	Tol float64

	// Init is recommend.NMFInitNNDSVDA or recommend.NMFInitRandom.
	Init string

	// Seed seeds the random initialisation. Zero draws a time-based seed.
	Seed int64
}

// Factorization ranks titles by cosine similarity to the anchor in a latent
// space learned from the title×user pivot.
//
// The embedding is either the NMF factor W (titles × rank) or the truncated
// SVD projection U_k·Σ_k. The anchor is always placed first in the ranking
// and skipped, so it never appears in its own results even when its
// embedding is all zeros.
type Factorization struct {
	strategy recommend.Strategy
	config   recommend.FactorizationConfig
	seed     int64
}

// NewNMF creates the NMF strategy.
func NewNMF(cfg recommend.FactorizationConfig, seed int64) *Factorization {
	return &Factorization{
		strategy: recommend.StrategyNMF,
		config:   withFactorizationDefaults(cfg),
		seed:     seed,
	}
}

// NewSVD creates the truncated SVD strategy.
func NewSVD(cfg recommend.FactorizationConfig) *Factorization {
	return &Factorization{
		strategy: recommend.StrategySVD,
		config:   withFactorizationDefaults(cfg),
	}
}

func withFactorizationDefaults(cfg recommend.FactorizationConfig) recommend.FactorizationConfig {
	if cfg.Rank <= 0 {
		cfg.Rank = 5
	}
	if cfg.NMFMaxIter <= 0 {
		cfg.NMFMaxIter = 200
	}
	if cfg.NMFTolerance <= 0 {
		cfg.NMFTolerance = 1e-4
	}
	if cfg.NMFInit == "" {
		cfg.NMFInit = recommend.NMFInitNNDSVDA
	}
	return cfg
}

// Strategy implements recommend.Algorithm.
func (f *Factorization) Strategy() recommend.Strategy {
	return f.strategy
}

// Recommend returns the TopK titles nearest the anchor in latent space.
func (f *Factorization) Recommend(ctx context.Context, in *recommend.Input) ([]recommend.ScoredTitle, error) {
	ai, err := anchorRow(in)
	if err != nil {
		return nil, err
	}

	emb, err := f.embed(ctx, in.TitleUser.Matrix())
	if err != nil {
		return nil, err
	}

	sims := matrix.CosineToRows(emb, mat.Row(nil, ai, emb))
	order := pinFirst(rankIndices(sims), ai)

	return topTitles(order[1:], in.TitleUser.RowLabels(), sims, ai, in.TopK), nil
}

func (f *Factorization) embed(ctx context.Context, m mat.Matrix) (*mat.Dense, error) {
	if f.strategy == recommend.StrategySVD {
		return EmbedSVD(m, f.config.Rank)
	}
	return EmbedNMF(ctx, m, f.config.Rank, NMFOptions{
		MaxIter: f.config.NMFMaxIter,
		Tol:     f.config.NMFTolerance,
		Init:    f.config.NMFInit,
		Seed:    f.seed,
	})
}

// ========== Truncated SVD ==========

// EmbedSVD projects the rows of m onto its top rank singular directions,
// returning U_k·Σ_k (rows × rank). The rank must be below the column count
// and no larger than the row count.
func EmbedSVD(m mat.Matrix, rank int) (*mat.Dense, error) {
	r, c := m.Dims()
	if rank < 1 || rank >= c || rank > r {
		return nil, fmt.Errorf("%w: rank %d for %dx%d matrix", recommend.ErrRankTooLarge, rank, r, c)
	}

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: svd factorization failed", recommend.ErrNotConverged)
	}

	var u mat.Dense
	svd.UTo(&u)
	values := svd.Values(nil)

	emb := mat.NewDense(r, rank, nil)
	for i := 0; i < r; i++ {
		for k := 0; k < rank; k++ {
			emb.Set(i, k, u.At(i, k)*values[k])
		}
	}

	if !allFinite(emb) {
		return nil, fmt.Errorf("%w: svd produced non-finite values", recommend.ErrNotConverged)
	}
	return emb, nil
}

// ========== Non-negative Matrix Factorization ==========

// EmbedNMF factorizes the non-negative matrix m ≈ W·H with multiplicative
// updates on the Frobenius loss and returns W (rows × rank).
func EmbedNMF(ctx context.Context, m mat.Matrix, rank int, opts NMFOptions) (*mat.Dense, error) {
	r, c := m.Dims()
	if rank < 1 || rank > r || rank > c {
		return nil, fmt.Errorf("%w: rank %d for %dx%d matrix", recommend.ErrRankTooLarge, rank, r, c)
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 200
	}

	x := mat.DenseCopyOf(m)

	var w, h *mat.Dense
	var err error
	switch opts.Init {
	case recommend.NMFInitRandom:
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		w, h = initRandom(x, rank, rand.New(rand.NewSource(seed))) //nolint:gosec // math/rand is fine for factor initialisation
	default:
		w, h, err = initNNDSVDA(x, rank)
		if err != nil {
			return nil, err
		}
	}

	initialErr := reconstructionError(x, w, h)
	prevErr := initialErr

	var (
		wtx, wtw, wtwh mat.Dense
		xht, hht, whht mat.Dense
	)

	for iter := 1; iter <= opts.MaxIter; iter++ {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		// H ← H ∘ (WᵀX) / (WᵀW H)
		wtx.Mul(w.T(), x)
		wtw.Mul(w.T(), w)
		wtwh.Mul(&wtw, h)
		h.Apply(func(i, j int, v float64) float64 {
			return v * wtx.At(i, j) / (wtwh.At(i, j) + nmfEpsilon)
		}, h)

		// W ← W ∘ (XHᵀ) / (W HHᵀ)
		xht.Mul(x, h.T())
		hht.Mul(h, h.T())
		whht.Mul(w, &hht)
		w.Apply(func(i, j int, v float64) float64 {
			return v * xht.At(i, j) / (whht.At(i, j) + nmfEpsilon)
		}, w)

		if opts.Tol > 0 && iter%10 == 0 && initialErr > 0 {
			cur := reconstructionError(x, w, h)
			if (prevErr-cur)/initialErr < opts.Tol {
				break
			}
			prevErr = cur
		}
	}

	if !allFinite(w) {
		return nil, fmt.Errorf("%w: nmf produced non-finite values", recommend.ErrNotConverged)
	}
	return w, nil
}

// initRandom draws factors as |N(0,1)| scaled by sqrt(mean(X)/rank).
func initRandom(x *mat.Dense, rank int, rng *rand.Rand) (w, h *mat.Dense) {
	r, c := x.Dims()
	scale := math.Sqrt(mean(x) / float64(rank))

	w = mat.NewDense(r, rank, nil)
	h = mat.NewDense(rank, c, nil)
	w.Apply(func(_, _ int, _ float64) float64 { return scale * math.Abs(rng.NormFloat64()) }, w)
	h.Apply(func(_, _ int, _ float64) float64 { return scale * math.Abs(rng.NormFloat64()) }, h)
	return w, h
}

// initNNDSVDA seeds the factors from the leading singular triplets, keeping
// the dominant sign-part of each, then fills zeros with the mean of X.
func initNNDSVDA(x *mat.Dense, rank int) (w, h *mat.Dense, err error) {
	r, c := x.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, nil, fmt.Errorf("%w: nndsvd initialisation failed", recommend.ErrNotConverged)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	w = mat.NewDense(r, rank, nil)
	h = mat.NewDense(rank, c, nil)

	uCol := make([]float64, r)
	vCol := make([]float64, c)
	for k := 0; k < rank; k++ {
		mat.Col(uCol, k, &u)
		mat.Col(vCol, k, &v)

		if k == 0 {
			root := math.Sqrt(s[0])
			for i := range uCol {
				w.Set(i, 0, root*math.Abs(uCol[i]))
			}
			for j := range vCol {
				h.Set(0, j, root*math.Abs(vCol[j]))
			}
			continue
		}

		up, un := splitSigns(uCol)
		vp, vn := splitSigns(vCol)
		upN, unN := norm2(up), norm2(un)
		vpN, vnN := norm2(vp), norm2(vn)

		uSel, vSel := up, vp
		uN, vN := upN, vpN
		sigma := upN * vpN
		if neg := unN * vnN; neg > sigma {
			uSel, vSel = un, vn
			uN, vN = unN, vnN
			sigma = neg
		}
		if sigma == 0 {
			continue
		}

		lambda := math.Sqrt(s[k] * sigma)
		for i := range uSel {
			w.Set(i, k, lambda*uSel[i]/uN)
		}
		for j := range vSel {
			h.Set(k, j, lambda*vSel[j]/vN)
		}
	}

	avg := mean(x)
	fill := func(_, _ int, v float64) float64 {
		if v < 1e-6 {
			return avg
		}
		return v
	}
	w.Apply(fill, w)
	h.Apply(fill, h)
	return w, h, nil
}

func splitSigns(v []float64) (pos, neg []float64) {
	pos = make([]float64, len(v))
	neg = make([]float64, len(v))
	for i, x := range v {
		if x > 0 {
			pos[i] = x
		} else {
			neg[i] = -x
		}
	}
	return pos, neg
}

func norm2(v []float64) float64 {
	return mat.Norm(mat.NewVecDense(len(v), v), 2)
}

func mean(x *mat.Dense) float64 {
	r, c := x.Dims()
	return mat.Sum(x) / float64(r*c)
}

// reconstructionError returns ‖X − WH‖_F.
func reconstructionError(x, w, h *mat.Dense) float64 {
	var wh, diff mat.Dense
	wh.Mul(w, h)
	diff.Sub(x, &wh)
	return mat.Norm(&diff, 2)
}

func allFinite(m *mat.Dense) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
