// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package partials implements the pattern probability matrix algebra that
// propagates allele-count distributions up a tree or network: leaf
// initialization, branch propagation, sibling merges, reticulation splits,
// and root contraction against the generator's stationary vector.
package partials

import (
	"github.com/js-arias/snapnet/ppm"
)

// LeafInit builds the bottom-of-branch PPM for a leaf observation of red
// alleles out of total sampled alleles, given the leaf's configured
// maximum allele count maxN.
//
// If total is zero (no data sampled at this leaf), the returned PPM has
// zero capacity and an (0, 0) mass of 1: the leaf contributes no
// information to its parent's merge.
//
// For co-dominant markers, the PPM has capacity maxN and a single nonzero
// cell, f(total, red) = 1. For dominant markers, homozygous and
// heterozygous red calls are indistinguishable, so the observation is
// converted to its co-dominant equivalent over 2·total alleles, in a PPM of
// capacity 2·total (maxN is not used), using the inductive
// hypergeometric-like recurrence described in the doc comment of
// nextDominantCell.
func LeafInit(total, red, maxN int, dominant bool) *ppm.PPM {
	if total == 0 {
		p := ppm.New(0)
		p.SetZero(1)
		return p
	}

	if !dominant {
		p := ppm.New(maxN)
		p.Set(total, red, 1)
		return p
	}

	n := 2 * total
	p := ppm.New(n)
	if red == 0 {
		p.Set(n, 0, 1)
		return p
	}

	seed := 1.0
	for r := 1; r <= red; r++ {
		seed *= 2 * float64(total-r+1) / float64(2*total-r+1)
	}
	p.Set(n, red, seed)

	prev := seed
	for k := red + 1; k <= 2*red; k++ {
		v := nextDominantCell(prev, red, total, k)
		p.Set(n, k, v)
		prev = v
	}
	return p
}

// nextDominantCell advances the dominant-marker recurrence one step,
// computing f(2·total, k) from f(2·total, k-1):
//
//	f(2·total, k) = f(2·total, k-1) · (2·red - k + 1) · k / (2 · (k - red) · (2·total - k + 1))
func nextDominantCell(prevVal float64, red, total, k int) float64 {
	num := float64(2*red-k+1) * float64(k)
	den := 2 * float64(k-red) * float64(2*total-k+1)
	return prevVal * num / den
}
