/*
Copyright © 2026 the thermsim authors.
This file is part of thermsim.

thermsim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

thermsim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with thermsim.  If not, see <http://www.gnu.org/licenses/>.
*/

package dmat

import "fmt"

// NDiagProductInto computes dst = A·x for an A whose nonzero entries lie
// within ⌊n/2⌋ diagonals of the main diagonal. For each output row i it
// only sums A's columns in [i-⌊n/2⌋, i+⌊n/2⌋], which is the perf-critical
// path for the thermal solver's tri-diagonal (n=3) RK4 evaluations. x and
// dst must be column vectors (cols == 1); dst may not alias x.
func NDiagProductInto(dst *Matrix, a *Matrix, x *Matrix, n int) error {
	if n < 1 || n%2 == 0 {
		return fmt.Errorf("dmat: NDiagProductInto: bandwidth n=%d must be a positive odd number", n)
	}
	if a.rows != a.cols {
		return fmt.Errorf("dmat: NDiagProductInto: A must be square, got %dx%d", a.rows, a.cols)
	}
	if x.cols != 1 || dst.cols != 1 {
		return fmt.Errorf("dmat: NDiagProductInto: x and dst must be column vectors")
	}
	if x.rows != a.cols {
		return fmt.Errorf("dmat: NDiagProductInto: A cols %d does not match x rows %d", a.cols, x.rows)
	}
	if dst.rows != a.rows {
		return fmt.Errorf("dmat: NDiagProductInto: dst rows %d does not match A rows %d", dst.rows, a.rows)
	}
	half := n / 2
	for i := 0; i < a.rows; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > a.cols-1 {
			hi = a.cols - 1
		}
		var sum float64
		base := i * a.cols
		for j := lo; j <= hi; j++ {
			sum += a.data[base+j] * x.data[j]
		}
		dst.data[i] = sum
	}
	return nil
}

// NDiagProduct returns a new column vector holding A·x, computed via the
// banded specialization described in NDiagProductInto.
func NDiagProduct(a, x *Matrix, n int) (*Matrix, error) {
	out := Zeros(a.rows, 1)
	if err := NDiagProductInto(out, a, x, n); err != nil {
		return nil, err
	}
	return out, nil
}

// pivotThreshold is the magnitude below which a pivot during banded
// Gaussian elimination is treated as singular.
const pivotThreshold = 1e-12

// SolveBanded destructively solves A·x = b for a banded A with bandwidth n
// (nonzeros within ⌊n/2⌋ diagonals of the main diagonal), writing the
// solution into x. A and b are both modified in place by the elimination.
// Returns an error (rather than panicking) if a pivot is found to be
// singular within pivotThreshold.
func SolveBanded(a *Matrix, b *Matrix, x *Matrix, n int) error {
	if n < 1 || n%2 == 0 {
		return fmt.Errorf("dmat: SolveBanded: bandwidth n=%d must be a positive odd number", n)
	}
	if a.rows != a.cols {
		return fmt.Errorf("dmat: SolveBanded: A must be square, got %dx%d", a.rows, a.cols)
	}
	size := a.rows
	if b.rows != size || b.cols != 1 {
		return fmt.Errorf("dmat: SolveBanded: b must be a %d-row column vector, got %dx%d", size, b.rows, b.cols)
	}
	if x.rows != size || x.cols != 1 {
		return fmt.Errorf("dmat: SolveBanded: x must be a %d-row column vector, got %dx%d", size, x.rows, x.cols)
	}
	half := n / 2

	// Forward elimination, restricted to the band.
	for k := 0; k < size-1; k++ {
		pivot := a.data[k*size+k]
		if abs(pivot) < pivotThreshold {
			return fmt.Errorf("dmat: SolveBanded: singular pivot at row %d (|%.3g| < %.3g)", k, pivot, pivotThreshold)
		}
		maxI := k + half
		if maxI > size-1 {
			maxI = size - 1
		}
		for i := k + 1; i <= maxI; i++ {
			factor := a.data[i*size+k] / pivot
			if factor == 0 {
				continue
			}
			maxJ := k + half
			if maxJ > size-1 {
				maxJ = size - 1
			}
			for j := k; j <= maxJ; j++ {
				a.data[i*size+j] -= factor * a.data[k*size+j]
			}
			b.data[i] -= factor * b.data[k]
		}
	}

	last := a.data[(size-1)*size+(size-1)]
	if abs(last) < pivotThreshold {
		return fmt.Errorf("dmat: SolveBanded: singular pivot at row %d (|%.3g| < %.3g)", size-1, last, pivotThreshold)
	}

	// Back substitution, restricted to the band.
	for i := size - 1; i >= 0; i-- {
		sum := b.data[i]
		maxJ := i + half
		if maxJ > size-1 {
			maxJ = size - 1
		}
		for j := i + 1; j <= maxJ; j++ {
			sum -= a.data[i*size+j] * x.data[j]
		}
		x.data[i] = sum / a.data[i*size+i]
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
