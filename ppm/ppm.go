// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package ppm implements the pattern probability matrix,
// a fixed-size lower-triangular table
// that holds the probability of observing r "red" alleles
// out of n sampled alleles,
// for n from 0 up to a fixed capacity.
package ppm

import "fmt"

// A PPM is a pattern probability matrix of a given capacity.
//
// The cell (0, 0), the "no alleles sampled" case, is stored apart from the
// triangular body, which holds f(n, r) for 1 ≤ n ≤ capacity, 0 ≤ r ≤ n.
type PPM struct {
	n    int
	zero float64
	body []float64
}

// New creates a PPM with the indicated capacity.
// All cells are zero.
func New(n int) *PPM {
	if n < 0 {
		panic("ppm: negative capacity")
	}
	return &PPM{
		n:    n,
		body: make([]float64, bodyLen(n)),
	}
}

// bodyLen returns the number of cells of the triangular body
// for a PPM of capacity n.
func bodyLen(n int) int {
	if n == 0 {
		return 0
	}
	return n * (n + 3) / 2
}

// index returns the position of cell (n, r), n ≥ 1, in the body slice.
func index(n, r int) int {
	return n*(n+1)/2 - 1 + r
}

// Capacity returns the maximum allele count stored in the PPM.
func (p *PPM) Capacity() int {
	if p == nil {
		return 0
	}
	return p.n
}

// Reset reassigns the PPM a new capacity and zeroes every cell.
func (p *PPM) Reset(n int) {
	if n < 0 {
		panic("ppm: negative capacity")
	}
	p.n = n
	p.zero = 0
	bl := bodyLen(n)
	if cap(p.body) < bl {
		p.body = make([]float64, bl)
		return
	}
	p.body = p.body[:bl]
	for i := range p.body {
		p.body[i] = 0
	}
}

// Get returns the value of cell (n, r).
// It requires 0 ≤ r ≤ n ≤ capacity.
func (p *PPM) Get(n, r int) float64 {
	p.checkBounds(n, r)
	if n == 0 {
		return p.zero
	}
	return p.body[index(n, r)]
}

// Set assigns a value to cell (n, r).
// It requires 0 ≤ r ≤ n ≤ capacity.
func (p *PPM) Set(n, r int, v float64) {
	p.checkBounds(n, r)
	if n == 0 {
		p.zero = v
		return
	}
	p.body[index(n, r)] = v
}

// Add accumulates a value into cell (n, r).
func (p *PPM) Add(n, r int, v float64) {
	p.Set(n, r, p.Get(n, r)+v)
}

func (p *PPM) checkBounds(n, r int) {
	if n < 0 || n > p.n || r < 0 || r > n {
		panic(fmt.Sprintf("ppm: index (%d, %d) out of bounds for capacity %d", n, r, p.n))
	}
}

// Zero returns the value of the dedicated (0, 0) cell.
func (p *PPM) Zero() float64 {
	return p.zero
}

// SetZero assigns the value of the dedicated (0, 0) cell.
func (p *PPM) SetZero(v float64) {
	p.zero = v
}

// Body returns the underlying triangular body,
// the cells f(n, r) for n ≥ 1,
// in the packed order used by qmatrix and expm.
//
// The returned slice aliases the PPM's internal storage;
// callers must not retain it past the next Reset.
func (p *PPM) Body() []float64 {
	return p.body
}

// SetBody overwrites the triangular body in place.
// len(v) must equal the body length for the PPM's capacity.
func (p *PPM) SetBody(v []float64) {
	if len(v) != len(p.body) {
		panic(fmt.Sprintf("ppm: body length %d does not match capacity %d", len(v), p.n))
	}
	copy(p.body, v)
}

// CloneFrom copies the contents of another PPM of equal capacity.
func (p *PPM) CloneFrom(o *PPM) {
	if o.n != p.n {
		panic(fmt.Sprintf("ppm: capacity mismatch: %d != %d", p.n, o.n))
	}
	p.zero = o.zero
	copy(p.body, o.body)
}

// Clone returns an independent copy of the PPM.
func (p *PPM) Clone() *PPM {
	n := New(p.n)
	n.CloneFrom(p)
	return n
}

// IsZeroCapacity reports whether the PPM has no allele states at all,
// the "no data" representation used for missing leaves
// and for nodes whose children carry no alleles.
func (p *PPM) IsZeroCapacity() bool {
	return p.n == 0
}
