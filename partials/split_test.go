// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package partials_test

import (
	"math"
	"testing"

	"github.com/js-arias/snapnet/partials"
	"github.com/js-arias/snapnet/ppm"
)

func TestSplitSingleAlleleEvenOdds(t *testing.T) {
	d := ppm.New(1)
	d.Set(1, 1, 1)

	p1, p2 := partials.Split(d, 0.5, 0.5)

	if math.Abs(p1.Zero()-0.5) > 1e-12 {
		t.Errorf("p1 zero mass: got %v, want 0.5", p1.Zero())
	}
	if math.Abs(p1.Get(1, 1)-0.5) > 1e-12 {
		t.Errorf("p1(1,1): got %v, want 0.5", p1.Get(1, 1))
	}
	if math.Abs(p2.Zero()-0.5) > 1e-12 {
		t.Errorf("p2 zero mass: got %v, want 0.5", p2.Zero())
	}
	if math.Abs(p2.Get(1, 1)-0.5) > 1e-12 {
		t.Errorf("p2(1,1): got %v, want 0.5", p2.Get(1, 1))
	}
}

func TestSplitGammaOneSendsEverythingToOneParent(t *testing.T) {
	d := ppm.New(2)
	d.Set(2, 1, 1)

	p1, p2 := partials.Split(d, 1, 0)

	if math.Abs(p1.Get(2, 1)-1) > 1e-9 {
		t.Errorf("p1(2,1): got %v, want 1", p1.Get(2, 1))
	}
	if math.Abs(p2.Zero()-1) > 1e-9 {
		t.Errorf("p2 zero mass: got %v, want 1", p2.Zero())
	}
}

func TestSplitConservesTotalMass(t *testing.T) {
	d := ppm.New(3)
	d.Set(3, 0, 0.2)
	d.Set(3, 1, 0.3)
	d.Set(3, 2, 0.4)
	d.Set(3, 3, 0.1)

	p1, p2 := partials.Split(d, 0.3, 0.7)

	sum := func(p *ppm.PPM) float64 {
		total := p.Zero()
		for n := 1; n <= p.Capacity(); n++ {
			for r := 0; r <= n; r++ {
				total += p.Get(n, r)
			}
		}
		return total
	}
	// each parent receives the full probability mass of d, since every
	// allele is assigned to exactly one parent.
	if math.Abs(sum(p1)-1) > 1e-9 {
		t.Errorf("p1 total mass: got %v, want 1", sum(p1))
	}
	if math.Abs(sum(p2)-1) > 1e-9 {
		t.Errorf("p2 total mass: got %v, want 1", sum(p2))
	}
}
