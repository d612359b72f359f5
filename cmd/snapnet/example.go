// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import (
	"github.com/js-arias/snapnet/allele"
	"github.com/js-arias/snapnet/likelihood"
	"github.com/js-arias/snapnet/mutation"
	"github.com/js-arias/snapnet/network"
	"github.com/js-arias/snapnet/param"
)

// exampleNetwork builds a three-population network,
//
//	R (height 0.05)
//	├─ P1 (height 0.02)
//	│  ├─ A (leaf, height 0)
//	│  └─ H (reticulation leaf, height 0, gamma from P1)
//	└─ P2 (height 0.02)
//	   ├─ B (leaf, height 0)
//	   └─ H (second parent, gamma from P2 = 1 - gamma)
//
// H is a hybrid leaf population descended from both P1 and P2, inheriting
// gamma of its ancestry from P1 and 1-gamma from P2.
func exampleNetwork(gamma float64) (*network.Tree, error) {
	t := network.NewTree()

	a := t.AddLeaf("A", 0, param.NewCell("height.A", 0), param.NewCell("theta.A", 5))
	b := t.AddLeaf("B", 1, param.NewCell("height.B", 0), param.NewCell("theta.B", 5))
	h := t.AddLeaf("H", 2, param.NewCell("height.H", 0), param.NewCell("theta.H", 5))

	p1 := t.AddNode("P1", param.NewCell("height.P1", 0.02), param.NewCell("theta.P1", 5))
	p2 := t.AddNode("P2", param.NewCell("height.P2", 0.02), param.NewCell("theta.P2", 5))
	root := t.AddNode("R", param.NewCell("height.R", 0.05), param.NewCell("theta.R", 5))

	if err := t.AddChild(p1, a); err != nil {
		return nil, err
	}
	if err := t.AddChild(p1, h); err != nil {
		return nil, err
	}
	if err := t.AddReticulationParent(h, p2, 1-gamma); err != nil {
		return nil, err
	}
	if err := t.AddChild(p2, b); err != nil {
		return nil, err
	}
	if err := t.AddChild(root, p1); err != nil {
		return nil, err
	}
	if err := t.AddChild(root, p2); err != nil {
		return nil, err
	}
	if err := t.SetRoot(root); err != nil {
		return nil, err
	}
	return t, nil
}

// exampleMutationModel returns a mutation model with a modest transition
// bias (u != v) and diploid ploidy, the asymmetric-rates case of the
// spec's testable properties.
func exampleMutationModel() (mutation.Model, error) {
	return mutation.New(1, 0.8, 1, 2)
}

// examplePatterns returns a small, hand-picked set of weighted biallelic
// site patterns over the three leaf populations (A, B, H), each sampled at
// two alleles.
func examplePatterns() []allele.Weighted {
	sites := []allele.Pattern{
		{Red: []int{0, 1, 1}, Total: []int{2, 2, 2}},
		{Red: []int{1, 1, 2}, Total: []int{2, 2, 2}},
		{Red: []int{2, 0, 1}, Total: []int{2, 2, 2}},
		{Red: []int{0, 0, 1}, Total: []int{2, 2, 2}},
		{Red: []int{1, 1, 1}, Total: []int{2, 2, 2}},
		{Red: []int{0, 1, 1}, Total: []int{2, 2, 2}},
	}
	return allele.Collapse(sites)
}

// logLikelihood is a thin wrapper kept so the example's dependency on
// likelihood.LogLikelihood is explicit and easy to find from main.go.
func logLikelihood(t *network.Tree, patterns []allele.Weighted, mm mutation.Model, dominant bool, threads int) float64 {
	return likelihood.LogLikelihood(t, patterns, mm, dominant, threads)
}

// totalWeight sums the site multiplicities across patterns.
func totalWeight(patterns []allele.Weighted) int {
	var n int
	for _, w := range patterns {
		n += w.Weight
	}
	return n
}
