// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package network implements the node graph of a rooted tree or
// phylogenetic network with reticulation: an arena of nodes addressed by
// integer ID, strong ownership of children living in the arena, and
// non-owning parent references.
package network

import (
	"fmt"

	"github.com/js-arias/snapnet/param"
	"github.com/js-arias/snapnet/ppm"
)

// An ID identifies a node within a Tree's arena.
// IDs are never reused within a tree.
type ID int

// A Node is a vertex of a tree or phylogenetic network.
//
// A node is a leaf iff it has no children, a root iff it has no parents,
// and a reticulation iff it has two parents (this package only supports
// binary reticulation: a hybrid lineage formed from exactly two parental
// lineages). A node is a polytomy iff it has more than two children.
type Node struct {
	ID    ID
	Label string

	// Index is the leaf population index in the data matrix.
	// It is -1 for internal nodes.
	Index int

	Height   *param.Cell
	PopSize  *param.Cell
	Children []ID

	// Parents holds the IDs of this node's parents, in the same order
	// as Gamma. Ordinary nodes have at most one parent; reticulations
	// have exactly two.
	Parents []ID

	// Gamma holds the inheritance proportion for each entry in Parents.
	// It is only meaningful, and kept summing to 1, for reticulations.
	Gamma []float64

	// Split is a bitset over the leaf set, used by equality checks and
	// display; the partials engine never reads it.
	Split []bool

	dirty bool

	allele int

	// bottom and top hold one PPM per parent branch: a single entry for
	// ordinary nodes, two for a reticulation.
	bottom []*ppm.PPM
	top    []*ppm.PPM
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsRoot reports whether the node has no parents.
func (n *Node) IsRoot() bool {
	return len(n.Parents) == 0
}

// IsReticulation reports whether the node has two parents.
func (n *Node) IsReticulation() bool {
	return len(n.Parents) == 2
}

// IsPolytomy reports whether the node has more than two children.
func (n *Node) IsPolytomy() bool {
	return len(n.Children) > 2
}

// AlleleCount returns the node's current PPM capacity.
func (n *Node) AlleleCount() int {
	return n.allele
}

// InheritanceProportion returns the probability that an allele descending
// into this node came from its i-th parent.
//
// It requires the node to be a reticulation.
func (n *Node) InheritanceProportion(i int) float64 {
	if !n.IsReticulation() {
		panic(fmt.Sprintf("network: node %q is not a reticulation", n.Label))
	}
	if i < 0 || i >= len(n.Gamma) {
		panic(fmt.Sprintf("network: parent index %d out of range for node %q", i, n.Label))
	}
	return n.Gamma[i]
}

// Dirty reports whether the node is marked for recomputation.
func (n *Node) Dirty() bool {
	return n.dirty
}

// Bottom returns the bottom-of-branch PPM for the i-th parent branch
// (always i = 0 except for reticulations).
func (n *Node) Bottom(i int) *ppm.PPM {
	n.checkBranchIndex(i)
	return n.bottom[i]
}

// SetBottom assigns the bottom-of-branch PPM for the i-th parent branch.
func (n *Node) SetBottom(i int, p *ppm.PPM) {
	n.checkBranchIndex(i)
	n.bottom[i] = p
}

// Top returns the top-of-branch PPM for the i-th parent branch.
func (n *Node) Top(i int) *ppm.PPM {
	n.checkBranchIndex(i)
	return n.top[i]
}

// SetTop assigns the top-of-branch PPM for the i-th parent branch.
func (n *Node) SetTop(i int, p *ppm.PPM) {
	n.checkBranchIndex(i)
	n.top[i] = p
}

func (n *Node) checkBranchIndex(i int) {
	branches := len(n.Parents)
	if branches == 0 {
		branches = 1
	}
	if i < 0 || i >= branches {
		panic(fmt.Sprintf("network: branch index %d out of range for node %q", i, n.Label))
	}
}
