// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package expm implements the matrix exponentiation step
// that propagates a pattern probability matrix along a branch:
// P(t)·x, where P(t) = exp(Qᵀt) for the biallelic diffusion generator Q.
package expm

import (
	"github.com/js-arias/snapnet/ppm"
	"github.com/js-arias/snapnet/qmatrix"
	"gonum.org/v1/gonum/mat"
)

// An Exponentiator computes branch propagations.
//
// It caches its scratch matrices so that repeated calls on branches of the
// same generator size reuse the same backing storage instead of
// reallocating; each goroutine evaluating partial likelihoods concurrently
// is expected to hold its own Exponentiator, never sharing one across
// goroutines.
type Exponentiator struct {
	scaled *mat.Dense
	expm   *mat.Dense
}

// New creates an Exponentiator with no cached scratch matrices.
func New() *Exponentiator {
	return &Exponentiator{}
}

// Propagate returns P(t)·x, where P(t) = exp(Qᵀt) is the transition
// probability matrix for the backward diffusion generator over an
// interval of length t. The returned PPM has the same capacity as x; the
// dedicated (0, 0) cell is a separate model quantity, unaffected by branch
// evolution, and this function leaves it untouched.
//
// The exponential itself is computed with (*mat.Dense).Exp, which uses
// the scaling-and-squaring technique with Padé approximation described by
// Moler & Van Loan.
func (e *Exponentiator) Propagate(q *qmatrix.Q, t float64, x *ppm.PPM) *ppm.PPM {
	if q.Capacity() != x.Capacity() {
		panic("expm: generator and input PPM capacities differ")
	}

	size := q.Size()
	if e.scaled == nil || rows(e.scaled) != size {
		e.scaled = mat.NewDense(size, size, nil)
		e.expm = mat.NewDense(size, size, nil)
	}
	e.scaled.Scale(t, q.Dense().T())
	e.expm.Exp(e.scaled)

	body := mat.NewVecDense(size, append([]float64(nil), x.Body()...))
	var out mat.VecDense
	out.MulVec(e.expm, body)

	result := ppm.New(x.Capacity())
	result.SetBody(out.RawVector().Data)
	return result
}

func rows(m *mat.Dense) int {
	r, _ := m.Dims()
	return r
}
