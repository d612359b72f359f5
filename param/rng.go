// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package param

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// GoRNG adapts golang.org/x/exp/rand.Rand, the source already pulled in
// transitively through gonum/stat/distuv, to the RNG capability.
//
// It is a convenience default; callers may supply any RNG implementation.
type GoRNG struct {
	src *rand.Rand
}

// NewGoRNG creates a GoRNG seeded with the given value.
func NewGoRNG(seed uint64) *GoRNG {
	return &GoRNG{src: rand.New(rand.NewSource(seed))}
}

// UniformReal returns a uniformly distributed value in [a, b).
func (g *GoRNG) UniformReal(a, b float64) float64 {
	return a + g.src.Float64()*(b-a)
}

// UniformInt returns a uniformly distributed integer in [a, b].
func (g *GoRNG) UniformInt(a, b int) int {
	return a + g.src.Intn(b-a+1)
}

// Gamma returns a value drawn from a Gamma(shape, scale) distribution.
func (g *GoRNG) Gamma(shape, scale float64) float64 {
	d := distuv.Gamma{Alpha: shape, Beta: 1 / scale, Src: g.src}
	return d.Rand()
}
