// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package qmatrix builds the biallelic diffusion generator
// for a given maximum allele count and mutation parameters,
// and extracts its stationary (orthogonal) vector.
package qmatrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// A Q is the banded generator of the biallelic diffusion process
// over states (n, r), 1 ≤ n ≤ N, 0 ≤ r ≤ n.
//
// The state space and its packing match ppm.PPM's triangular body:
// state (n, r) sits at index n(n+1)/2 - 1 + r.
type Q struct {
	n     int
	u, v  float64
	theta float64
	dense *mat.Dense
}

// New builds the generator for allele count n and mutation parameters u, v
// (forward and reverse substitution rates) and theta (the branch-scaled
// population parameter).
//
// The rates follow the standard SNAPP embedded generator (Bryant et al.
// 2012): two "red" lineages coalesce at rate r(r-1)/theta, two "green"
// lineages coalesce at rate (n-r)(n-r-1)/theta, a green lineage mutates to
// red at rate (n-r)*u, and a red lineage mutates to green at rate r*v.
func New(n int, u, v, theta float64) *Q {
	if n <= 0 {
		panic("qmatrix: non-positive allele count")
	}
	if u <= 0 || v <= 0 || theta <= 0 {
		panic("qmatrix: mutation rates and theta must be positive")
	}

	size := stateCount(n)
	dense := mat.NewDense(size, size, nil)

	for s := 0; s < n; s++ {
		// iterate states in the order n=1..n (s is n-1), r=0..n.
		curN := s + 1
		for r := 0; r <= curN; r++ {
			i := stateIndex(curN, r)
			var out float64

			if r >= 2 {
				rate := float64(r*(r-1)) / theta
				j := stateIndex(curN-1, r-1)
				dense.Set(i, j, dense.At(i, j)+rate)
				out += rate
			}
			g := curN - r
			if g >= 2 {
				rate := float64(g*(g-1)) / theta
				j := stateIndex(curN-1, r)
				dense.Set(i, j, dense.At(i, j)+rate)
				out += rate
			}
			if g >= 1 && r < curN {
				rate := float64(g) * u
				j := stateIndex(curN, r+1)
				dense.Set(i, j, dense.At(i, j)+rate)
				out += rate
			}
			if r >= 1 {
				rate := float64(r) * v
				j := stateIndex(curN, r-1)
				dense.Set(i, j, dense.At(i, j)+rate)
				out += rate
			}
			dense.Set(i, i, dense.At(i, i)-out)
		}
	}

	return &Q{n: n, u: u, v: v, theta: theta, dense: dense}
}

// stateCount returns the number of states (n, r) for 1 ≤ n ≤ maxN.
func stateCount(maxN int) int {
	return maxN * (maxN + 3) / 2
}

// stateIndex returns the packed index of state (n, r), matching ppm's
// triangular body indexing. A zero or negative n has no valid state and
// stateIndex is only called where the caller has already checked bounds.
func stateIndex(n, r int) int {
	return n*(n+1)/2 - 1 + r
}

// Capacity returns the maximum allele count N the generator was built for.
func (q *Q) Capacity() int {
	return q.n
}

// Dense returns the underlying dense matrix representation of the
// generator, for use by the matrix exponential.
func (q *Q) Dense() *mat.Dense {
	return q.dense
}

// Size returns the dimension of the generator (the number of states).
func (q *Q) Size() int {
	return stateCount(q.n)
}

// StationaryVector returns a vector x of length N(N+3)/2 satisfying
// xᵀQ ≈ 0, the stationary distribution of the generator.
//
// It factorizes Q with a singular value decomposition: Q = UΣVᵀ, so the
// column of U paired with the smallest singular value spans the null space
// of Qᵀ, i.e. satisfies xᵀQ = 0. This is the "numerically stable method"
// the generator's stationary vector requires, without a hand-rolled sparse
// solver. Negative entries (numerical noise near zero) are clamped to zero.
//
// xᵀQ = 0 is a homogeneous linear relation: it holds for x if and only if
// it holds for every scalar multiple of x, so only a single, global scale
// factor may be applied afterward without disturbing it — independently
// rescaling each n-block would pick N different scalars for the N pieces
// of one null vector, which breaks the relation everywhere two blocks
// interact (every coalescence term couples block n to block n-1). The
// embedded generator's null vector already carries, block by block, the
// correct relative proportions for the n = 1 block (the 2-state
// mutation-only stationary distribution of a single lineage) and every
// other block to agree once correctly scaled, so a single global scale
// factor, chosen so the n = 1 block sums to 1, brings every other block to
// sum to 1 too while leaving xᵀQ = 0 intact.
func (q *Q) StationaryVector() []float64 {
	var svd mat.SVD
	ok := svd.Factorize(q.dense, mat.SVDFull)
	if !ok {
		panic(fmt.Sprintf("qmatrix: SVD factorization failed for generator of size %d", q.Size()))
	}

	var u mat.Dense
	svd.UTo(&u)
	values := svd.Values(nil)

	// the smallest singular value is last, since gonum orders them
	// in decreasing order.
	last := len(values) - 1
	rows := u.RawMatrix().Rows
	x := make([]float64, rows)
	var sum float64
	for i := range x {
		x[i] = u.At(i, last)
		sum += x[i]
	}
	// the singular vector's sign is arbitrary; orient it so the
	// distribution is predominantly positive before clamping.
	if sum < 0 {
		for i := range x {
			x[i] = -x[i]
		}
	}
	clampNegativeInPlace(x)
	normalizeGlobally(x)
	return x
}

// clampNegativeInPlace maps every negative entry to zero.
func clampNegativeInPlace(x []float64) {
	for i, v := range x {
		if v < 0 {
			x[i] = 0
		}
	}
}

// normalizeGlobally scales every entry of x by a single constant, chosen so
// the n = 1 block (states (1, 0) and (1, 1)) sums to 1.
func normalizeGlobally(x []float64) {
	start := stateIndex(1, 0)
	end := stateIndex(1, 1)
	sum := x[start] + x[end]
	if sum == 0 {
		return
	}
	for i := range x {
		x[i] /= sum
	}
}
