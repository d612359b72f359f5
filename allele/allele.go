// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package allele implements the biallelic site pattern data model:
// per-leaf-population counts of sampled alleles
// and how many of them were of the "red" (derived) state.
package allele

import (
	"fmt"
	"strconv"
	"strings"
)

// A Pattern is an observation of red and total allele counts
// over a set of leaf populations.
//
// Red[k] and Total[k] are the counts for population k;
// 0 ≤ Red[k] ≤ Total[k] for every k.
type Pattern struct {
	Red   []int
	Total []int
}

// Validate reports an error if the pattern violates
// 0 ≤ red[k] ≤ total[k] or the two vectors differ in length.
func (p Pattern) Validate() error {
	if len(p.Red) != len(p.Total) {
		return fmt.Errorf("allele: red and total vectors differ in length: %d != %d", len(p.Red), len(p.Total))
	}
	for k, r := range p.Red {
		if r < 0 || r > p.Total[k] {
			return fmt.Errorf("allele: population %d: red count %d out of range [0, %d]", k, r, p.Total[k])
		}
	}
	return nil
}

// Constant reports whether a pattern is constant:
// every observed allele, across all populations, is of the same state.
func (p Pattern) Constant() bool {
	allGreen := true
	allRed := true
	for k, r := range p.Red {
		if r != 0 {
			allGreen = false
		}
		if r != p.Total[k] {
			allRed = false
		}
		if !allGreen && !allRed {
			return false
		}
	}
	return allGreen || allRed
}

// Missing reports whether a pattern has no sampled alleles
// in any population.
func (p Pattern) Missing() bool {
	for _, n := range p.Total {
		if n != 0 {
			return false
		}
	}
	return true
}

// Fold replaces red[k] with total[k] - red[k] wherever red[k] > total[k]/2.
//
// Folding is only a meaningful operation when state frequencies are
// symmetric; the caller is responsible for that precondition, the same way
// network.Tree's branch length accessor trusts caller-maintained height
// ordering instead of checking it itself.
func (p Pattern) Fold() Pattern {
	red := make([]int, len(p.Red))
	for k, r := range p.Red {
		n := p.Total[k]
		if r > n/2 {
			r = n - r
		}
		red[k] = r
	}
	return Pattern{Red: red, Total: p.Total}
}

// A Weighted pairs a pattern, or a total-count vector for the
// constant-site correction, with its integer site multiplicity.
type Weighted struct {
	Pattern Pattern
	Weight  int
}

// Collapse groups an alignment's per-site patterns into distinct patterns
// and their site multiplicities, folding repeated observations into a
// single Weighted entry the same value regardless of which site in sites
// first contributed it. The likelihood of a column that appears k times is
// evaluated once and its log-likelihood multiplied by k, rather than
// evaluated k separate times.
func Collapse(sites []Pattern) []Weighted {
	index := make(map[string]int)
	var out []Weighted
	for _, p := range sites {
		key := patternKey(p.Red, p.Total)
		if i, ok := index[key]; ok {
			out[i].Weight++
			continue
		}
		index[key] = len(out)
		out = append(out, Weighted{Pattern: p, Weight: 1})
	}
	return out
}

// UniqueTotals collapses a collection of weighted patterns down to their
// distinct total-allele-count vectors, summing weights across every
// pattern sharing a total vector regardless of its red counts. This is the
// "unique total-count patterns" input the constant-site correction (§4.6)
// consumes: the correction only depends on how many alleles were sampled
// at each population, not on which were red.
func UniqueTotals(patterns []Weighted) []Weighted {
	index := make(map[string]int)
	var out []Weighted
	for _, w := range patterns {
		key := patternKey(nil, w.Pattern.Total)
		if i, ok := index[key]; ok {
			out[i].Weight += w.Weight
			continue
		}
		index[key] = len(out)
		total := append([]int(nil), w.Pattern.Total...)
		out = append(out, Weighted{Pattern: Pattern{Total: total}, Weight: w.Weight})
	}
	return out
}

// patternKey encodes red and total into a string suitable as a map key;
// red may be nil when only the total vector distinguishes entries.
func patternKey(red, total []int) string {
	var b strings.Builder
	for _, r := range red {
		b.WriteString(strconv.Itoa(r))
		b.WriteByte(',')
	}
	b.WriteByte(';')
	for _, n := range total {
		b.WriteString(strconv.Itoa(n))
		b.WriteByte(',')
	}
	return b.String()
}
