// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mutation implements the nucleotide substitution model
// shared by the partials and likelihood packages.
package mutation

import "fmt"

// A Model is the collection of scalars
// that define a biallelic mutation process.
//
// U is the forward rate (green to red)
// and V is the reverse rate (red to green).
// By convention the stationary frequency of the red state
// is U / (U + V).
type Model struct {
	U      float64
	V      float64
	Rate   float64 // mutation rate scalar
	Ploidy float64
}

// New creates a mutation model.
// Ploidy defaults to 2 (diploid) when zero is given.
func New(u, v, rate, ploidy float64) (Model, error) {
	if u <= 0 || v <= 0 {
		return Model{}, fmt.Errorf("mutation: rates must be positive: u=%v, v=%v", u, v)
	}
	if rate <= 0 {
		return Model{}, fmt.Errorf("mutation: mutation rate must be positive: %v", rate)
	}
	if ploidy == 0 {
		ploidy = 2
	}
	return Model{U: u, V: v, Rate: rate, Ploidy: ploidy}, nil
}

// Symmetric returns a mutation model with u = v = 1, the "state
// frequencies constrained" case, which forces π₁ = 0.5.
func Symmetric(rate, ploidy float64) (Model, error) {
	return New(1, 1, rate, ploidy)
}

// Pi1 returns the stationary frequency of the red state, u / (u + v).
func (m Model) Pi1() float64 {
	return m.U / (m.U + m.V)
}

// Theta returns θ = 2 · ploidy · populationSize · mutationRate
// for a branch with the given population size.
func (m Model) Theta(populationSize float64) float64 {
	return 2 * m.Ploidy * populationSize * m.Rate
}
