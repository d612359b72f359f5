// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package partials

import (
	"github.com/js-arias/snapnet/expm"
	"github.com/js-arias/snapnet/mutation"
	"github.com/js-arias/snapnet/ppm"
	"github.com/js-arias/snapnet/qmatrix"
)

// An Engine evaluates the partials algorithm for a single goroutine of
// execution. It owns its own Exponentiator so its scratch matrices are
// never shared across goroutines.
type Engine struct {
	exp *expm.Exponentiator
}

// NewEngine creates an Engine with a fresh Exponentiator.
func NewEngine() *Engine {
	return &Engine{exp: expm.New()}
}

// BranchTop computes the top-of-branch PPM from a node's bottom-of-branch
// PPM, propagating it along a branch of the given length under the
// diffusion generator built from mm and the node's population size.
//
// The branch length is scaled by mm.Rate before it reaches the matrix
// exponential: theta already carries mm.Rate (via mutation.Model.Theta), and
// the exponential's time argument must carry the same factor for the
// rate/height/popSize rescaling invariance (scaling rate by alpha and height
// and every population size by 1/alpha leaves the log-likelihood unchanged)
// to hold.
//
// The dedicated (0, 0) cell is copied unchanged from bottom to top: the
// "no alleles sampled" mass is a model assumption treated as invariant
// under branch evolution, not something the matrix exponential touches.
//
// A zero-capacity bottom (an all-missing subtree) propagates to a
// zero-capacity top without building a generator.
func (e *Engine) BranchTop(mm mutation.Model, popSize, length float64, bottom *ppm.PPM) *ppm.PPM {
	if bottom.IsZeroCapacity() {
		top := ppm.New(0)
		top.SetZero(bottom.Zero())
		return top
	}

	theta := mm.Theta(popSize)
	q := qmatrix.New(bottom.Capacity(), mm.U, mm.V, theta)
	top := e.exp.Propagate(q, length*mm.Rate, bottom)
	top.SetZero(bottom.Zero())
	return top
}
