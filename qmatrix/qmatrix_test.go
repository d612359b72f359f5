// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package qmatrix_test

import (
	"math"
	"testing"

	"github.com/js-arias/snapnet/qmatrix"
	"gonum.org/v1/gonum/mat"
)

func TestRowsSumToZero(t *testing.T) {
	for _, n := range []int{2, 5, 20} {
		q := qmatrix.New(n, 1, 1, 1)
		d := q.Dense()
		rows, cols := d.Dims()
		for i := 0; i < rows; i++ {
			var sum float64
			for j := 0; j < cols; j++ {
				sum += d.At(i, j)
			}
			if math.Abs(sum) > 1e-9 {
				t.Errorf("n=%d: row %d sums to %v, want 0", n, i, sum)
			}
		}
	}
}

func TestStationaryVectorSatisfiesOrthogonality(t *testing.T) {
	for _, n := range []int{2, 5, 20} {
		q := qmatrix.New(n, 1, 1, 1)
		x := q.StationaryVector()

		size := q.Size()
		if len(x) != size {
			t.Fatalf("n=%d: stationary vector length %d, want %d", n, len(x), size)
		}

		xv := mat.NewVecDense(size, x)
		var xq mat.VecDense
		xq.MulVec(q.Dense().T(), xv)

		var maxAbs float64
		for i := 0; i < size; i++ {
			if v := math.Abs(xq.AtVec(i)); v > maxAbs {
				maxAbs = v
			}
		}
		if maxAbs > 1e-6 {
			t.Errorf("n=%d: |xᵀQ|∞ = %v, want < 1e-6", n, maxAbs)
		}
	}
}

func TestStationaryVectorBlocksSumToOne(t *testing.T) {
	q := qmatrix.New(5, 1, 1, 1)
	x := q.StationaryVector()

	idx := func(n, r int) int { return n*(n+1)/2 - 1 + r }
	for n := 1; n <= 5; n++ {
		var sum float64
		for r := 0; r <= n; r++ {
			v := x[idx(n, r)]
			if v < 0 {
				t.Errorf("n=5: block %d cell %d is negative: %v", n, r, v)
			}
			sum += v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("n=5: block %d sums to %v, want 1", n, sum)
		}
	}
}

func TestNewPanicsOnInvalidInput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	qmatrix.New(0, 1, 1, 1)
}
