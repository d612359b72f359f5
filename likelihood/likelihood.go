// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package likelihood drives the full-alignment log-likelihood computation:
// it walks a slice of weighted site patterns over a network, dispatching
// each pattern's pruning pass to a pool of worker goroutines. The
// constant-site ascertainment correction is a separate call,
// ConstantSiteCorrection, which runs on the calling goroutine; LogLikelihood
// neither computes nor applies it.
package likelihood

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/js-arias/snapnet/allele"
	"github.com/js-arias/snapnet/mutation"
	"github.com/js-arias/snapnet/network"
	"github.com/js-arias/snapnet/partials"
)

// chunkSize is the number of patterns a worker claims per trip to the
// shared cursor. Small enough to keep the goroutines load balanced when
// patterns have uneven leaf counts, large enough that the atomic traffic
// does not dominate.
const chunkSize = 8

// LogLikelihood returns the sum, over patterns, of each pattern's weight
// times its log-likelihood under mm on root.
//
// Every pattern carries its own per-leaf allele totals, so each one resizes
// its evaluating clone's PPM capacities (via Tree.ResizeAll) before leaf
// initialization, per §5's "resized at the beginning of each evaluation".
//
// When threads is less than 2, patterns are evaluated on a single clone of
// root with no goroutines spawned. Otherwise threads goroutines are
// started, each holding its own clone of root and its own partials.Engine,
// claiming disjoint chunks of the pattern slice from a shared atomic
// cursor until the slice is exhausted. A pattern whose likelihood is
// degenerate (Evaluate reports ok=false) contributes -Inf; IEEE 754
// arithmetic then carries that -Inf through the rest of the sum, so the
// overall result is -Inf without any special-cased early return.
func LogLikelihood(root *network.Tree, patterns []allele.Weighted, mm mutation.Model, dominant bool, threads int) float64 {
	if len(patterns) == 0 {
		return 0
	}

	if threads < 2 {
		clone := root.Clone()
		engine := partials.NewEngine()
		leaves := leafNodesByIndex(clone)
		return evalChunk(clone, engine, leaves, patterns, mm, dominant, 0, len(patterns))
	}

	var cursor int64
	results := make(chan float64, threads)
	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clone := root.Clone()
			engine := partials.NewEngine()
			leaves := leafNodesByIndex(clone)

			var sum float64
			for {
				start := int(atomic.AddInt64(&cursor, chunkSize)) - chunkSize
				if start >= len(patterns) {
					break
				}
				end := start + chunkSize
				if end > len(patterns) {
					end = len(patterns)
				}
				sum += evalChunk(clone, engine, leaves, patterns, mm, dominant, start, end)
			}
			results <- sum
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var total float64
	for s := range results {
		total += s
	}
	return total
}

// evalChunk evaluates patterns[start:end] on clone using engine, returning
// the weighted sum of their log-likelihoods.
func evalChunk(clone *network.Tree, engine *partials.Engine, leaves map[int]*network.Node, patterns []allele.Weighted, mm mutation.Model, dominant bool, start, end int) float64 {
	var sum float64
	for p := start; p < end; p++ {
		w := patterns[p]
		if err := resizeForPattern(clone, leaves, w.Pattern); err != nil {
			panic(fmt.Sprintf("likelihood: %v", err))
		}
		setLeafPattern(leaves, w.Pattern, dominant)
		logL, ok := engine.Evaluate(clone, mm)
		if !ok {
			sum += math.Inf(-1)
			continue
		}
		sum += float64(w.Weight) * logL
	}
	return sum
}

// resizeForPattern recomputes every node's PPM capacity in clone from pat's
// own per-leaf totals, the resize step §5 requires at the start of each
// pattern's evaluation (patterns may differ in which leaves carry missing
// data, so a single tree-wide capacity computed once would be wrong for
// every pattern but the one it was computed from).
func resizeForPattern(clone *network.Tree, leaves map[int]*network.Node, pat allele.Pattern) error {
	totals := make(map[network.ID]int, len(leaves))
	for k, n := range leaves {
		totals[n.ID] = pat.Total[k]
	}
	return clone.ResizeAll(totals)
}

// setLeafPattern initializes every leaf's bottom PPM from pat, keyed by
// each leaf's Index into pat.Red and pat.Total.
func setLeafPattern(leaves map[int]*network.Node, pat allele.Pattern, dominant bool) {
	for k, n := range leaves {
		n.SetBottom(0, partials.LeafInit(pat.Total[k], pat.Red[k], n.AlleleCount(), dominant))
	}
}

// leafNodesByIndex returns every leaf of t, keyed by its population index.
func leafNodesByIndex(t *network.Tree) map[int]*network.Node {
	m := make(map[int]*network.Node)
	for _, id := range t.Leaves() {
		n, ok := t.Node(id)
		if !ok {
			continue
		}
		m[n.Index] = n
	}
	return m
}

// ConstantSiteCorrection returns the log of the ascertainment correction
// factor for a set of invariant (all-green or all-red) patterns excluded
// from sampling, one totals vector per distinct sampling configuration,
// each weighted by how many sites in the alignment share that
// configuration.
//
// For every entry, it evaluates the all-green pattern (red=0 everywhere)
// and, unless symmetric is true, the all-red pattern (red=total
// everywhere); under symmetric state frequencies the two are equal and
// only one evaluation is needed. The contribution to the correction is
// weight * ln(1 - Lgreen - Lred). If 1 - Lgreen - Lred is not positive for
// any entry, the correction is -Inf.
//
// The entries are evaluated one after another on a single clone of root,
// on the calling goroutine.
func ConstantSiteCorrection(root *network.Tree, totals []allele.Weighted, mm mutation.Model, dominant, symmetric bool) float64 {
	if len(totals) == 0 {
		return 0
	}

	clone := root.Clone()
	engine := partials.NewEngine()
	leaves := leafNodesByIndex(clone)

	var sum float64
	for _, w := range totals {
		lGreen := invariantLikelihood(clone, engine, leaves, mm, w.Pattern.Total, false, dominant)

		lRed := lGreen
		if !symmetric {
			lRed = invariantLikelihood(clone, engine, leaves, mm, w.Pattern.Total, true, dominant)
		}

		denom := 1 - lGreen - lRed
		if denom <= 0 {
			return math.Inf(-1)
		}
		sum += float64(w.Weight) * math.Log(denom)
	}
	return sum
}

// invariantLikelihood returns the plain (non-log) likelihood of the
// pattern where every population is fixed at the green state (allRed
// false) or the red state (allRed true), given a total-count vector.
func invariantLikelihood(clone *network.Tree, engine *partials.Engine, leaves map[int]*network.Node, mm mutation.Model, totals []int, allRed, dominant bool) float64 {
	red := make([]int, len(totals))
	if allRed {
		copy(red, totals)
	}
	pat := allele.Pattern{Red: red, Total: totals}
	if err := resizeForPattern(clone, leaves, pat); err != nil {
		panic(fmt.Sprintf("likelihood: %v", err))
	}
	setLeafPattern(leaves, pat, dominant)

	logL, ok := engine.Evaluate(clone, mm)
	if !ok {
		return 0
	}
	return math.Exp(logL)
}
