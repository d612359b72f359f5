// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package partials

import "github.com/js-arias/snapnet/ppm"

// Merge combines a node's children's top-of-branch PPMs into the node's own
// bottom-of-branch PPM, by convolving independent coalescent histories.
//
// Children whose PPM has zero capacity (pure missing data) are skipped; if
// every child is missing, Merge returns a zero-capacity PPM so the caller's
// own parent treats this node, in turn, as contributing nothing.
//
// Combining more than two children is a left fold, pairing the running
// accumulator with each subsequent child using the same two-PPM merge rule,
// so the result does not depend on which child is processed first beyond
// floating-point order of operations.
//
// When hypergeometricScaling is true (the default for sibling merges),
// each operand is pre-multiplied by the binomial coefficient C(n, r) before
// convolving, and the result is divided back out afterward, clamping any
// negative residual to zero. This converts between "this exact labelled
// outcome" and "any outcome with this count" across the convolution.
func Merge(hypergeometricScaling bool, children ...*ppm.PPM) *ppm.PPM {
	var present []*ppm.PPM
	for _, c := range children {
		if c != nil && !c.IsZeroCapacity() {
			present = append(present, c)
		}
	}
	if len(present) == 0 {
		p := ppm.New(0)
		p.SetZero(1)
		return p
	}
	if len(present) == 1 {
		return present[0].Clone()
	}

	acc := present[0]
	for _, next := range present[1:] {
		acc = mergeTwo(acc, next, hypergeometricScaling)
	}
	return acc
}

func mergeTwo(a, b *ppm.PPM, scaling bool) *ppm.PPM {
	sa, sb := a, b
	if scaling {
		sa = scaleByBinomial(a)
		sb = scaleByBinomial(b)
	}

	n1 := sa.Capacity()
	n2 := sb.Capacity()
	out := ppm.New(n1 + n2)

	for p1 := 0; p1 <= n1; p1++ {
		for r1 := 0; r1 <= p1; r1++ {
			f1 := cellOf(sa, p1, r1)
			if f1 == 0 {
				continue
			}
			for p2 := 0; p2 <= n2; p2++ {
				for r2 := 0; r2 <= p2; r2++ {
					f2 := cellOf(sb, p2, r2)
					if f2 == 0 {
						continue
					}
					n := p1 + p2
					r := r1 + r2
					if n == 0 {
						out.SetZero(out.Zero() + f1*f2)
						continue
					}
					out.Add(n, r, f1*f2)
				}
			}
		}
	}

	if scaling {
		descaleByBinomial(out)
	}
	return out
}

func cellOf(p *ppm.PPM, n, r int) float64 {
	if n == 0 {
		return p.Zero()
	}
	return p.Get(n, r)
}

// scaleByBinomial returns a copy of p with every f(n, r), n ≥ 1, multiplied
// by the binomial coefficient C(n, r), computed with the recurrence
// b(n, r+1) = b(n, r) · (n-r)/(r+1), b(n, 0) = 1.
func scaleByBinomial(p *ppm.PPM) *ppm.PPM {
	out := p.Clone()
	n := out.Capacity()
	for nn := 1; nn <= n; nn++ {
		b := 1.0
		for r := 0; r <= nn; r++ {
			out.Set(nn, r, out.Get(nn, r)*b)
			if r < nn {
				b *= float64(nn-r) / float64(r+1)
			}
		}
	}
	return out
}

// descaleByBinomial divides every f(n, r), n ≥ 1, of p in place by C(n, r),
// clamping any negative residual to zero.
func descaleByBinomial(p *ppm.PPM) {
	n := p.Capacity()
	for nn := 1; nn <= n; nn++ {
		b := 1.0
		for r := 0; r <= nn; r++ {
			v := p.Get(nn, r) / b
			if v < 0 {
				v = 0
			}
			p.Set(nn, r, v)
			if r < nn {
				b *= float64(nn-r) / float64(r+1)
			}
		}
	}
}
