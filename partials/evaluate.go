// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package partials

import (
	"fmt"
	"math"

	"github.com/js-arias/snapnet/mutation"
	"github.com/js-arias/snapnet/network"
	"github.com/js-arias/snapnet/ppm"
	"github.com/js-arias/snapnet/qmatrix"
)

// Evaluate walks a tree or network bottom-up and returns the log-likelihood
// of the pattern already loaded into its leaves' bottom-of-branch PPMs (by
// a prior call to LeafInit per leaf). ok is false when the pattern
// likelihood is zero or numerically degenerate, in which case logL is 0
// and the caller should treat the pattern as contributing -Inf.
//
// The traversal is post-order over children, skipping a reticulation once
// it has already been processed through one of its two parents: every
// recursive call carries a visited set scoped to this one evaluation, so a
// reticulation's partials are computed exactly once regardless of how many
// parents reach it.
func (e *Engine) Evaluate(t *network.Tree, mm mutation.Model) (logL float64, ok bool) {
	visited := make(map[network.ID]bool)

	var process func(id network.ID)
	process = func(id network.ID) {
		n, exists := t.Node(id)
		if !exists {
			panic(fmt.Sprintf("partials: unknown node %d", id))
		}
		if n.IsReticulation() && visited[id] {
			return
		}

		for _, c := range n.Children {
			process(c)
		}

		// raw is this node's bottom-of-branch PPM before any splitting
		// between parents: the leaf's own observation, or the merge of
		// its children's incoming tops.
		var raw *ppm.PPM
		if n.IsLeaf() {
			raw = n.Bottom(0)
		} else {
			tops := make([]*ppm.PPM, len(n.Children))
			for i, c := range n.Children {
				cn, _ := t.Node(c)
				tops[i] = cn.Top(parentIndex(cn, id))
			}
			raw = Merge(true, tops...)
		}

		if n.IsReticulation() {
			g0 := n.InheritanceProportion(0)
			g1 := n.InheritanceProportion(1)
			b0, b1 := Split(raw, g0, g1)
			n.SetBottom(0, b0)
			n.SetBottom(1, b1)
			e.propagateUp(t, mm, n, 0)
			e.propagateUp(t, mm, n, 1)
			visited[id] = true
			return
		}

		n.SetBottom(0, raw)
		if !n.IsRoot() {
			e.propagateUp(t, mm, n, 0)
		}
	}
	process(t.Root())

	root, _ := t.Node(t.Root())
	bottom := root.Bottom(0)
	if bottom.IsZeroCapacity() {
		// every leaf under the root was missing: the pattern contributes
		// a likelihood of 1.
		return 0, true
	}

	theta := mm.Theta(root.PopSize.Value())
	stationary := qmatrix.New(bottom.Capacity(), mm.U, mm.V, theta).StationaryVector()
	l := RootLikelihood(bottom, stationary)
	if l <= 0 {
		return 0, false
	}
	return math.Log(l), true
}

// propagateUp computes the top-of-branch PPM for node n's i-th parent
// branch from its already-computed bottom-of-branch PPM, and stores it.
func (e *Engine) propagateUp(t *network.Tree, mm mutation.Model, n *network.Node, i int) {
	length, err := t.Length(n.ID, i)
	if err != nil {
		panic(fmt.Sprintf("partials: %v", err))
	}
	top := e.BranchTop(mm, n.PopSize.Value(), length, n.Bottom(i))
	n.SetTop(i, top)
}

func parentIndex(n *network.Node, parent network.ID) int {
	for i, p := range n.Parents {
		if p == parent {
			return i
		}
	}
	panic(fmt.Sprintf("partials: %q has no parent %d", n.Label, parent))
}
