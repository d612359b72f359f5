// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package param

import "gonum.org/v1/gonum/stat/distuv"

// A GammaPrior is a Prior backed by a Gamma distribution.
type GammaPrior struct {
	Param distuv.Gamma
}

// LnPDF returns the log-density of the prior at x.
func (g GammaPrior) LnPDF(x float64) float64 {
	return g.Param.LogProb(x)
}

// Sample draws a value from the prior.
// The RNG argument is accepted to satisfy the Prior capability;
// the distuv distribution uses its own configured source.
func (g GammaPrior) Sample(rng RNG) float64 {
	return g.Param.Rand()
}

// Mean returns the mean of the prior.
func (g GammaPrior) Mean() float64 {
	return g.Param.Mean()
}

// Variance returns the variance of the prior.
func (g GammaPrior) Variance() float64 {
	return g.Param.Variance()
}

// A LogNormalPrior is a Prior backed by a LogNormal distribution.
type LogNormalPrior struct {
	Param distuv.LogNormal
}

// LnPDF returns the log-density of the prior at x.
func (ln LogNormalPrior) LnPDF(x float64) float64 {
	return ln.Param.LogProb(x)
}

// Sample draws a value from the prior.
func (ln LogNormalPrior) Sample(rng RNG) float64 {
	return ln.Param.Rand()
}

// Mean returns the mean of the prior.
func (ln LogNormalPrior) Mean() float64 {
	return ln.Param.Mean()
}

// Variance returns the variance of the prior.
func (ln LogNormalPrior) Variance() float64 {
	return ln.Param.Variance()
}

// A NormalPrior is a Prior backed by a Normal distribution.
type NormalPrior struct {
	Param distuv.Normal
}

// LnPDF returns the log-density of the prior at x.
func (n NormalPrior) LnPDF(x float64) float64 {
	return n.Param.LogProb(x)
}

// Sample draws a value from the prior.
func (n NormalPrior) Sample(rng RNG) float64 {
	return n.Param.Rand()
}

// Mean returns the mean of the prior.
func (n NormalPrior) Mean() float64 {
	return n.Param.Mean()
}

// Variance returns the variance of the prior.
func (n NormalPrior) Variance() float64 {
	return n.Param.Sigma * n.Param.Sigma
}

// A UniformPrior is a Prior backed by a Uniform distribution.
type UniformPrior struct {
	Param distuv.Uniform
}

// LnPDF returns the log-density of the prior at x.
func (u UniformPrior) LnPDF(x float64) float64 {
	return u.Param.LogProb(x)
}

// Sample draws a value from the prior.
func (u UniformPrior) Sample(rng RNG) float64 {
	return u.Param.Rand()
}

// Mean returns the mean of the prior.
func (u UniformPrior) Mean() float64 {
	return u.Param.Mean()
}

// Variance returns the variance of the prior.
func (u UniformPrior) Variance() float64 {
	width := u.Param.Max - u.Param.Min
	return width * width / 12
}
