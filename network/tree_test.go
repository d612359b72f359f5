// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package network_test

import (
	"testing"

	"github.com/js-arias/snapnet/network"
	"github.com/js-arias/snapnet/param"
)

func heightCell(v float64) *param.Cell {
	return param.NewCell("height", v)
}

// buildSimpleTree builds ((A,B)root), a two-leaf bifurcating tree.
func buildSimpleTree(t *testing.T) (*network.Tree, network.ID, network.ID, network.ID) {
	t.Helper()
	tr := network.NewTree()
	a := tr.AddLeaf("A", 0, heightCell(0), heightCell(100))
	b := tr.AddLeaf("B", 1, heightCell(0), heightCell(100))
	root := tr.AddNode("root", heightCell(1), heightCell(100))
	if err := tr.AddChild(root, a); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := tr.AddChild(root, b); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := tr.SetRoot(root); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	return tr, a, b, root
}

func TestTopologyPredicates(t *testing.T) {
	tr, a, _, root := buildSimpleTree(t)

	an, _ := tr.Node(a)
	if !an.IsLeaf() {
		t.Errorf("A should be a leaf")
	}
	if an.IsRoot() {
		t.Errorf("A should not be a root")
	}

	rn, _ := tr.Node(root)
	if rn.IsLeaf() {
		t.Errorf("root should not be a leaf")
	}
	if !rn.IsRoot() {
		t.Errorf("root should be a root")
	}
	if rn.IsPolytomy() {
		t.Errorf("root should not be a polytomy with only two children")
	}
}

func TestAddChildRejectsSecondParentWithoutReticulation(t *testing.T) {
	tr, a, _, root := buildSimpleTree(t)
	other := tr.AddNode("other", heightCell(2), heightCell(100))
	if err := tr.AddChild(other, a); err == nil {
		t.Fatalf("expected error attaching a second plain parent to %d (root %d)", a, root)
	}
}

func TestReticulation(t *testing.T) {
	tr := network.NewTree()
	leaf := tr.AddLeaf("X", 0, heightCell(0), heightCell(50))
	p1 := tr.AddNode("p1", heightCell(1), heightCell(50))
	p2 := tr.AddNode("p2", heightCell(1), heightCell(50))

	if err := tr.AddChild(p1, leaf); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := tr.AddReticulationParent(leaf, p2, 0.3); err != nil {
		t.Fatalf("AddReticulationParent: %v", err)
	}

	ln, _ := tr.Node(leaf)
	if !ln.IsReticulation() {
		t.Fatalf("leaf should be a reticulation")
	}
	g0, err := tr.InheritanceProportion(leaf, 0)
	if err != nil {
		t.Fatalf("InheritanceProportion(0): %v", err)
	}
	g1, err := tr.InheritanceProportion(leaf, 1)
	if err != nil {
		t.Fatalf("InheritanceProportion(1): %v", err)
	}
	if g0 != 0.7 {
		t.Errorf("gamma0: got %v, want 0.7", g0)
	}
	if g1 != 0.3 {
		t.Errorf("gamma1: got %v, want 0.3", g1)
	}

	if err := tr.RemoveChild(p2, leaf); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	if ln.IsReticulation() {
		t.Errorf("leaf should no longer be a reticulation after removal")
	}
	g0, err = tr.InheritanceProportion(leaf, 0)
	if err == nil {
		t.Errorf("InheritanceProportion should now error, %q is not a reticulation anymore", ln.Label)
	}
	_ = g0
}

func TestLength(t *testing.T) {
	tr, a, _, root := buildSimpleTree(t)
	length, err := tr.Length(a, 0)
	if err != nil {
		t.Fatalf("Length: %v", err)
	}
	if length != 1 {
		t.Errorf("length: got %v, want 1", length)
	}
	_ = root
}

func TestResizeAllDedupsReticulationLeaf(t *testing.T) {
	tr := network.NewTree()
	shared := tr.AddLeaf("shared", 0, heightCell(0), heightCell(50))
	other := tr.AddLeaf("other", 1, heightCell(0), heightCell(50))

	p1 := tr.AddNode("p1", heightCell(1), heightCell(50))
	p2 := tr.AddNode("p2", heightCell(1), heightCell(50))
	root := tr.AddNode("root", heightCell(2), heightCell(50))

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	must(tr.AddChild(p1, shared))
	must(tr.AddReticulationParent(shared, p2, 0.5))
	must(tr.AddChild(p2, other))
	must(tr.AddChild(root, p1))
	must(tr.AddChild(root, p2))
	must(tr.SetRoot(root))

	totals := map[network.ID]int{shared: 10, other: 6}
	if err := tr.ResizeAll(totals); err != nil {
		t.Fatalf("ResizeAll: %v", err)
	}

	if got := tr.AlleleCount(p1); got != 10 {
		t.Errorf("p1 allele count: got %d, want 10", got)
	}
	if got := tr.AlleleCount(p2); got != 16 {
		t.Errorf("p2 allele count: got %d, want 16", got)
	}
	// root reaches "shared" through both p1 and p2; it must be counted once.
	if got := tr.AlleleCount(root); got != 16 {
		t.Errorf("root allele count: got %d, want 16 (shared leaf counted once)", got)
	}
}

func TestMakeDirtyPropagatesToAncestors(t *testing.T) {
	tr, a, _, root := buildSimpleTree(t)
	tr.MakeDirty(a)

	rn, _ := tr.Node(root)
	if !rn.Dirty() {
		t.Errorf("root should be dirty after a leaf is made dirty")
	}
	if !tr.CladeHasDirt(root) {
		t.Errorf("CladeHasDirt(root) should be true")
	}

	tr.ClearDirty()
	if tr.CladeHasDirt(root) {
		t.Errorf("CladeHasDirt(root) should be false after ClearDirty")
	}
}

func TestClonePreservesTopologyAndSharesCells(t *testing.T) {
	tr, a, _, root := buildSimpleTree(t)
	clone := tr.Clone()

	an, _ := tr.Node(a)
	can, _ := clone.Node(a)
	if can.Height != an.Height {
		t.Errorf("clone should share the Height cell pointer")
	}
	if &can.Children == &an.Children {
		t.Errorf("clone should not alias the original's Children slice header")
	}
	if len(can.Children) != len(an.Children) {
		t.Errorf("clone topology mismatch")
	}

	cn, _ := clone.Node(root)
	if cn.Bottom(0) != nil {
		t.Errorf("clone should start with empty PPM slots")
	}
}
