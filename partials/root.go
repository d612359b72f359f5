// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package partials

import (
	"math"

	"github.com/js-arias/snapnet/ppm"
)

// RootLikelihood contracts the root's bottom-of-branch PPM against the
// generator's stationary vector, returning the pattern likelihood L (not
// its logarithm):
//
//	L = Σ_n Σ_r stationary(n, r) · bottom(n, r)
//
// stationary is indexed the same way as a PPM's triangular body, over
// n = 1..N, r = 0..n; the root's (0, 0) mass never contributes, since the
// stationary vector has no corresponding entry.
//
// A negative or NaN result, an artifact of numerical noise rather than a
// real probability, is reported as zero.
func RootLikelihood(bottom *ppm.PPM, stationary []float64) float64 {
	n := bottom.Capacity()
	var l float64
	for nn := 1; nn <= n; nn++ {
		for r := 0; r <= nn; r++ {
			idx := nn*(nn+1)/2 - 1 + r
			l += stationary[idx] * bottom.Get(nn, r)
		}
	}
	if math.IsNaN(l) || l < 0 {
		return 0
	}
	return l
}
