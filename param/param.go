// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package param implements ParameterCell,
// a named mutable scalar shared by reference across network nodes,
// and the prior/RNG capabilities consumed from external collaborators.
package param

// A Prior is a continuous distribution
// attached to a parameter cell.
//
// It is the capability the core consumes from an external prior object,
// not a prior implementation of its own.
type Prior interface {
	// LnPDF returns the log-density of the prior at x.
	LnPDF(x float64) float64

	// Sample draws a value from the prior using the given RNG.
	Sample(rng RNG) float64

	// Mean returns the mean of the prior.
	Mean() float64

	// Variance returns the variance of the prior.
	Variance() float64
}

// An RNG is the random-number capability the core consumes
// from an external collaborator.
type RNG interface {
	UniformReal(a, b float64) float64
	UniformInt(a, b int) int
	Gamma(shape, scale float64) float64
}

// A Cell is a named mutable scalar,
// shared by reference across the nodes that use it as a height
// or a population size.
//
// Mutating a Cell's value through one reference is visible to every node
// that holds the same *Cell.
type Cell struct {
	name   string
	value  float64
	stored float64
	fixed  bool
	prior  Prior
}

// NewCell creates a parameter cell with the given name and initial value.
func NewCell(name string, value float64) *Cell {
	return &Cell{name: name, value: value, stored: value}
}

// Name returns the cell's name.
func (c *Cell) Name() string {
	return c.name
}

// Value returns the cell's current value.
func (c *Cell) Value() float64 {
	return c.value
}

// SetValue assigns a new current value.
// It does not touch the stored (previous) value.
func (c *Cell) SetValue(v float64) {
	c.value = v
}

// Store copies the current value into the stored value,
// to be recovered later with Restore.
func (c *Cell) Store() {
	c.stored = c.value
}

// Restore copies the stored value back into the current value,
// undoing any SetValue calls since the last Store.
func (c *Cell) Restore() {
	c.value = c.stored
}

// IsFixed reports whether the cell is held fixed
// rather than estimated.
func (c *Cell) IsFixed() bool {
	return c.fixed
}

// SetFixed sets the fixed/estimate flag.
func (c *Cell) SetFixed(fixed bool) {
	c.fixed = fixed
}

// Prior returns the cell's attached prior, or nil if none was set.
func (c *Cell) Prior() Prior {
	return c.prior
}

// SetPrior attaches a prior to the cell.
func (c *Cell) SetPrior(p Prior) {
	c.prior = p
}

// LnPrior returns the log-density of the attached prior
// at the cell's current value, or 0 if no prior is attached.
func (c *Cell) LnPrior() float64 {
	if c.prior == nil {
		return 0
	}
	return c.prior.LnPDF(c.value)
}
