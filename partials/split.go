// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package partials

import "github.com/js-arias/snapnet/ppm"

// Split distributes a reticulation's single top-of-branch PPM d between its
// two parents, given the inheritance proportions gamma1 and gamma2 (which
// must sum to 1).
//
// For every state (n, r) of d and every decomposition of its r red and
// n-r green alleles between the two parents, the joint probability of a
// given assignment is weighted by gamma1^(alleles from parent 1) times
// gamma2^(alleles from parent 2); when both parents receive at least one
// red (or one green) allele, a binomial coefficient accounts for the
// number of ways to choose which concrete alleles went to which parent.
func Split(d *ppm.PPM, gamma1, gamma2 float64) (p1, p2 *ppm.PPM) {
	n := d.Capacity()
	p1 = ppm.New(n)
	p2 = ppm.New(n)

	for nn := 0; nn <= n; nn++ {
		for r := 0; r <= nn; r++ {
			fd := cellOf(d, nn, r)
			if fd == 0 {
				continue
			}
			g := nn - r
			for r1 := 0; r1 <= r; r1++ {
				r2 := r - r1
				for g1 := 0; g1 <= g; g1++ {
					g2 := g - g1

					p := fd * pow(gamma1, r1+g1) * pow(gamma2, r2+g2)
					if r1 > 0 && r2 > 0 {
						p *= binomial(r, r1)
					}
					if g1 > 0 && g2 > 0 {
						p *= binomial(g, g1)
					}

					accumulate(p1, r1+g1, r1, p)
					accumulate(p2, r2+g2, r2, p)
				}
			}
		}
	}
	return p1, p2
}

func accumulate(p *ppm.PPM, n, r int, v float64) {
	if n == 0 {
		p.SetZero(p.Zero() + v)
		return
	}
	p.Add(n, r, v)
}

func pow(base float64, exp int) float64 {
	out := 1.0
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}

// binomial returns C(n, k) as a float64.
func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	out := 1.0
	for i := 0; i < k; i++ {
		out *= float64(n-i) / float64(i+1)
	}
	return out
}
