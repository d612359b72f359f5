// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package network

import (
	"fmt"

	"github.com/js-arias/snapnet/param"
	"github.com/js-arias/snapnet/ppm"
)

// A Tree is an arena of nodes forming a rooted tree or, when some node has
// two parents, a phylogenetic network. Nodes own no pointers to each other;
// all structural references are by ID into the arena's node map.
type Tree struct {
	nodes map[ID]*Node
	root  ID
	next  ID
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[ID]*Node)}
}

// AddLeaf adds a leaf node with no children and returns its ID.
// Index is the leaf's column in the data matrix.
func (t *Tree) AddLeaf(label string, index int, height, popSize *param.Cell) ID {
	return t.addNode(label, index, height, popSize)
}

// AddNode adds an internal node with no children yet and returns its ID.
// Children are attached afterward with AddChild.
func (t *Tree) AddNode(label string, height, popSize *param.Cell) ID {
	return t.addNode(label, -1, height, popSize)
}

func (t *Tree) addNode(label string, index int, height, popSize *param.Cell) ID {
	id := t.next
	t.next++
	t.nodes[id] = &Node{
		ID:      id,
		Label:   label,
		Index:   index,
		Height:  height,
		PopSize: popSize,
		bottom:  make([]*ppm.PPM, 1),
		top:     make([]*ppm.PPM, 1),
	}
	return id
}

// AddChild attaches child as a child of parent, and records parent as
// child's (first) parent with an inheritance proportion of 1.
//
// It returns an error if either ID is unknown, or if child already has a
// parent (use AddReticulationParent to attach a second one).
func (t *Tree) AddChild(parent, child ID) error {
	p, ok := t.nodes[parent]
	if !ok {
		return fmt.Errorf("network: unknown parent node %d", parent)
	}
	c, ok := t.nodes[child]
	if !ok {
		return fmt.Errorf("network: unknown child node %d", child)
	}
	if len(c.Parents) > 0 {
		return fmt.Errorf("network: node %q already has a parent; use AddReticulationParent for a second one", c.Label)
	}
	p.Children = append(p.Children, child)
	c.Parents = append(c.Parents, parent)
	c.Gamma = append(c.Gamma, 1)
	return nil
}

// AddReticulationParent attaches parent as a second parent of child,
// turning child into a reticulation. Gamma is the inheritance proportion
// attributed to parent; the existing parent's proportion is set to 1-gamma.
//
// It returns an error if either ID is unknown, if child does not already
// have exactly one parent, or if gamma is out of [0, 1].
func (t *Tree) AddReticulationParent(child, parent ID, gamma float64) error {
	c, ok := t.nodes[child]
	if !ok {
		return fmt.Errorf("network: unknown child node %d", child)
	}
	p, ok := t.nodes[parent]
	if !ok {
		return fmt.Errorf("network: unknown parent node %d", parent)
	}
	if len(c.Parents) != 1 {
		return fmt.Errorf("network: node %q must have exactly one parent before a second is added", c.Label)
	}
	if gamma < 0 || gamma > 1 {
		return fmt.Errorf("network: inheritance proportion %v out of range [0, 1]", gamma)
	}
	p.Children = append(p.Children, child)
	c.Parents = append(c.Parents, parent)
	c.Gamma[0] = 1 - gamma
	c.Gamma = append(c.Gamma, gamma)
	c.bottom = append(c.bottom, nil)
	c.top = append(c.top, nil)
	return nil
}

// RemoveChild detaches child from parent. If child was a reticulation, it
// reverts to a single remaining parent, whose inheritance proportion
// absorbs the removed one (capped at 1).
func (t *Tree) RemoveChild(parent, child ID) error {
	p, ok := t.nodes[parent]
	if !ok {
		return fmt.Errorf("network: unknown parent node %d", parent)
	}
	c, ok := t.nodes[child]
	if !ok {
		return fmt.Errorf("network: unknown child node %d", child)
	}
	pi := idIndex(p.Children, child)
	if pi < 0 {
		return fmt.Errorf("network: %q is not a child of %q", c.Label, p.Label)
	}
	ci := idIndex(c.Parents, parent)
	if ci < 0 {
		return fmt.Errorf("network: %q is not a parent of %q", p.Label, c.Label)
	}

	p.Children = append(p.Children[:pi], p.Children[pi+1:]...)

	removed := c.Gamma[ci]
	c.Parents = append(c.Parents[:ci], c.Parents[ci+1:]...)
	c.Gamma = append(c.Gamma[:ci], c.Gamma[ci+1:]...)
	c.bottom = append(c.bottom[:ci], c.bottom[ci+1:]...)
	c.top = append(c.top[:ci], c.top[ci+1:]...)

	if len(c.Gamma) == 1 {
		c.Gamma[0] += removed
		if c.Gamma[0] > 1 {
			c.Gamma[0] = 1
		}
	}
	return nil
}

func idIndex(ids []ID, target ID) int {
	for i, id := range ids {
		if id == target {
			return i
		}
	}
	return -1
}

// SetRoot marks id as the tree's root. It is an error for id to have any
// parent.
func (t *Tree) SetRoot(id ID) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("network: unknown node %d", id)
	}
	if len(n.Parents) != 0 {
		return fmt.Errorf("network: node %q has a parent, it cannot be the root", n.Label)
	}
	t.root = id
	return nil
}

// Root returns the tree's root ID.
func (t *Tree) Root() ID {
	return t.root
}

// Node returns the node with the given ID, and whether it exists.
func (t *Tree) Node(id ID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// mustNode returns the node with the given ID, panicking if it is unknown.
// It is used internally where an invalid ID indicates a programming error,
// not a reachable data condition, matching ppm's own bounds-checking style.
func (t *Tree) mustNode(id ID) *Node {
	n, ok := t.nodes[id]
	if !ok {
		panic(fmt.Sprintf("network: unknown node %d", id))
	}
	return n
}

// Length returns the length of the branch connecting id to its parent at
// parentIdx, computed as the parent's height minus id's height.
//
// Like the rest of this package, Length trusts that the caller has kept
// node heights consistent with the tree's topology (a child's height never
// exceeds its parent's); it performs no such check itself.
func (t *Tree) Length(id ID, parentIdx int) (float64, error) {
	n := t.mustNode(id)
	if parentIdx < 0 || parentIdx >= len(n.Parents) {
		return 0, fmt.Errorf("network: node %q has no parent at index %d", n.Label, parentIdx)
	}
	p := t.mustNode(n.Parents[parentIdx])
	return p.Height.Value() - n.Height.Value(), nil
}

// InheritanceProportion returns the probability that an allele descending
// into id came from its i-th parent. It is an error for id not to be a
// reticulation, or for i to be out of range.
func (t *Tree) InheritanceProportion(id ID, i int) (float64, error) {
	n := t.mustNode(id)
	if !n.IsReticulation() {
		return 0, fmt.Errorf("network: node %q is not a reticulation", n.Label)
	}
	if i < 0 || i >= len(n.Gamma) {
		return 0, fmt.Errorf("network: parent index %d out of range for node %q", i, n.Label)
	}
	return n.Gamma[i], nil
}

// AlleleCount returns the node's current PPM capacity, as last computed by
// ResizeAll.
func (t *Tree) AlleleCount(id ID) int {
	return t.mustNode(id).allele
}

// MakeDirty marks id, and every one of its ancestors, as needing
// recomputation.
func (t *Tree) MakeDirty(id ID) {
	n := t.mustNode(id)
	if n.dirty {
		return
	}
	n.dirty = true
	for _, p := range n.Parents {
		t.MakeDirty(p)
	}
}

// ClearDirty clears the dirty flag across the whole tree, typically after
// a fresh evaluation has been completed.
func (t *Tree) ClearDirty() {
	for _, n := range t.nodes {
		n.dirty = false
	}
}

// CladeHasDirt reports whether id, or any node reachable from it through
// Children, is marked dirty.
func (t *Tree) CladeHasDirt(id ID) bool {
	visited := make(map[ID]bool)
	var walk func(id ID) bool
	walk = func(id ID) bool {
		if visited[id] {
			return false
		}
		visited[id] = true
		n := t.mustNode(id)
		if n.dirty {
			return true
		}
		for _, c := range n.Children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	return walk(id)
}

// ResizeAll recomputes every node's allele-count capacity from the leaf
// totals given in totals, keyed by leaf ID. A leaf's capacity is its own
// total; an internal node's capacity is the sum of the totals of the
// distinct leaves reachable from it, so a leaf reached through two
// different paths of a reticulation is counted only once.
func (t *Tree) ResizeAll(totals map[ID]int) error {
	cache := make(map[ID]map[ID]int)
	var leaves func(id ID) (map[ID]int, error)
	leaves = func(id ID) (map[ID]int, error) {
		if ls, ok := cache[id]; ok {
			return ls, nil
		}
		n, ok := t.nodes[id]
		if !ok {
			return nil, fmt.Errorf("network: unknown node %d", id)
		}
		if n.IsLeaf() {
			total, ok := totals[id]
			if !ok {
				return nil, fmt.Errorf("network: leaf %q has no allele total", n.Label)
			}
			ls := map[ID]int{id: total}
			cache[id] = ls
			n.allele = total
			return ls, nil
		}
		merged := make(map[ID]int)
		for _, c := range n.Children {
			cl, err := leaves(c)
			if err != nil {
				return nil, err
			}
			for k, v := range cl {
				merged[k] = v
			}
		}
		cache[id] = merged
		sum := 0
		for _, v := range merged {
			sum += v
		}
		n.allele = sum
		return merged, nil
	}
	_, err := leaves(t.root)
	return err
}

// Leaves returns the IDs of every leaf node, in no particular order.
func (t *Tree) Leaves() []ID {
	var out []ID
	for id, n := range t.nodes {
		if n.IsLeaf() {
			out = append(out, id)
		}
	}
	return out
}

// StoreAll copies every node's Height and PopSize current value into its
// stored value, across the whole tree. Cells shared by more than one node
// are stored only once.
func (t *Tree) StoreAll() {
	seen := make(map[*param.Cell]bool)
	for _, n := range t.nodes {
		storeCellOnce(seen, n.Height)
		storeCellOnce(seen, n.PopSize)
	}
}

func storeCellOnce(seen map[*param.Cell]bool, c *param.Cell) {
	if c == nil || seen[c] {
		return
	}
	seen[c] = true
	c.Store()
}

// RestoreAll is the inverse of StoreAll: every Height and PopSize cell
// reachable from the tree is reset to its last stored value.
func (t *Tree) RestoreAll() {
	seen := make(map[*param.Cell]bool)
	for _, n := range t.nodes {
		restoreCellOnce(seen, n.Height)
		restoreCellOnce(seen, n.PopSize)
	}
}

func restoreCellOnce(seen map[*param.Cell]bool, c *param.Cell) {
	if c == nil || seen[c] {
		return
	}
	seen[c] = true
	c.Restore()
}

// MakeAllDirty marks every node in the tree dirty, forcing a full
// recomputation on the next evaluation.
func (t *Tree) MakeAllDirty() {
	for _, n := range t.nodes {
		n.dirty = true
	}
}

// Clone returns a structurally independent copy of t: every node is
// duplicated with fresh topology slices, but Height and PopSize cells are
// shared with the original (read-only during an evaluation), and bottom/top
// PPM slots start out empty for the clone to fill in on its own.
//
// This is the thread-local cloning operation used to give each worker
// goroutine its own PPM storage while parameter values stay shared.
func (t *Tree) Clone() *Tree {
	nodes := make(map[ID]*Node, len(t.nodes))
	for id, n := range t.nodes {
		clone := &Node{
			ID:       n.ID,
			Label:    n.Label,
			Index:    n.Index,
			Height:   n.Height,
			PopSize:  n.PopSize,
			Children: append([]ID(nil), n.Children...),
			Parents:  append([]ID(nil), n.Parents...),
			Gamma:    append([]float64(nil), n.Gamma...),
			Split:    append([]bool(nil), n.Split...),
			allele:   n.allele,
		}
		branches := len(clone.Parents)
		if branches == 0 {
			branches = 1
		}
		clone.bottom = make([]*ppm.PPM, branches)
		clone.top = make([]*ppm.PPM, branches)
		nodes[id] = clone
	}
	return &Tree{nodes: nodes, root: t.root, next: t.next}
}
