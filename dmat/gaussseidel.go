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

// GaussSeidelResult reports the outcome of an iterative solve.
type GaussSeidelResult struct {
	Converged  bool
	Iterations int
	Residual   float64
}

// GaussSeidel solves A·x = b iteratively for a diagonally-dominant A,
// writing successive iterates into x (x's initial contents are the starting
// guess). It never panics on non-convergence; instead it returns a result
// with Converged=false and the caller decides whether to keep the
// best-so-far iterate, matching spec 4.A's "reports non-convergence as a
// failure value, not a panic".
func GaussSeidel(a, b, x *Matrix, maxIterations int, tolerance float64) (GaussSeidelResult, error) {
	if a.rows != a.cols {
		return GaussSeidelResult{}, fmt.Errorf("dmat: GaussSeidel: A must be square, got %dx%d", a.rows, a.cols)
	}
	n := a.rows
	if b.rows != n || b.cols != 1 {
		return GaussSeidelResult{}, fmt.Errorf("dmat: GaussSeidel: b must be a %d-row column vector", n)
	}
	if x.rows != n || x.cols != 1 {
		return GaussSeidelResult{}, fmt.Errorf("dmat: GaussSeidel: x must be a %d-row column vector", n)
	}
	if maxIterations < 1 {
		return GaussSeidelResult{}, fmt.Errorf("dmat: GaussSeidel: maxIterations must be >= 1, got %d", maxIterations)
	}

	var residual float64
	for iter := 1; iter <= maxIterations; iter++ {
		residual = 0
		for i := 0; i < n; i++ {
			diag := a.data[i*n+i]
			if abs(diag) < pivotThreshold {
				return GaussSeidelResult{}, fmt.Errorf("dmat: GaussSeidel: near-zero diagonal at row %d", i)
			}
			var sum float64
			base := i * n
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				sum += a.data[base+j] * x.data[j]
			}
			newXi := (b.data[i] - sum) / diag
			residual += abs(newXi - x.data[i])
			x.data[i] = newXi
		}
		if residual < tolerance {
			return GaussSeidelResult{Converged: true, Iterations: iter, Residual: residual}, nil
		}
	}
	return GaussSeidelResult{Converged: false, Iterations: maxIterations, Residual: residual}, nil
}
