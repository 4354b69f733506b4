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

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const testTolerance = 1e-9

func TestAddSubRoundTrip(t *testing.T) {
	a, _ := New(0, 3, 3)
	b, _ := New(0, 3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a.Set(i, j, float64(i*3+j))
			b.Set(i, j, float64(j-i))
		}
	}
	sum, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Sub(sum, b)
	if err != nil {
		t.Fatal(err)
	}
	for i := range back.data {
		if math.Abs(back.data[i]-a.data[i]) > testTolerance {
			t.Errorf("(A+B)-B != A at %d: got %v want %v", i, back.data[i], a.data[i])
		}
	}
}

func TestMulShapeMismatch(t *testing.T) {
	a := Zeros(2, 3)
	b := Zeros(2, 3)
	if _, err := Mul(a, b); err == nil {
		t.Error("expected shape mismatch error, got nil")
	}
}

func TestMulIdentity(t *testing.T) {
	eye, err := Eye(4)
	if err != nil {
		t.Fatal(err)
	}
	a := Zeros(4, 4)
	for i := 0; i < 16; i++ {
		a.data[i] = float64(i)
	}
	prod, err := Mul(a, eye)
	if err != nil {
		t.Fatal(err)
	}
	for i := range prod.data {
		if math.Abs(prod.data[i]-a.data[i]) > testTolerance {
			t.Errorf("A·I != A at %d: got %v want %v", i, prod.data[i], a.data[i])
		}
	}
}

func tridiag(n int, sub, diag, sup float64) *Matrix {
	m := Zeros(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, diag)
		if i > 0 {
			m.Set(i, i-1, sub)
		}
		if i < n-1 {
			m.Set(i, i+1, sup)
		}
	}
	return m
}

func TestNDiagProductMatchesDenseForTridiagonal(t *testing.T) {
	n := 6
	a := tridiag(n, -1, 2, -1)
	x := Zeros(n, 1)
	for i := 0; i < n; i++ {
		x.data[i] = float64(i + 1)
	}
	want, err := Mul(a, x)
	if err != nil {
		t.Fatal(err)
	}
	got, err := NDiagProduct(a, x, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if math.Abs(got.data[i]-want.data[i]) > testTolerance {
			t.Errorf("row %d: NDiagProduct=%v dense=%v", i, got.data[i], want.data[i])
		}
	}
}

// TestMulMatchesGonumDense cross-checks MulInto's hand-rolled dense product
// against gonum/mat's own Dense.Mul, routed through Dense/FromDense so a
// caller mixing dmat.Matrix into a larger gonum/mat-based program has a
// verified round trip to lean on.
func TestMulMatchesGonumDense(t *testing.T) {
	a := tridiag(4, -1, 2, -1)
	b := Zeros(4, 2)
	for i := 0; i < 4; i++ {
		b.Set(i, 0, float64(i+1))
		b.Set(i, 1, float64(4-i))
	}

	want, err := Mul(a, b)
	if err != nil {
		t.Fatal(err)
	}

	var gotDense mat.Dense
	gotDense.Mul(a.Dense(), b.Dense())
	got := FromDense(&gotDense)

	for i := 0; i < want.Rows(); i++ {
		for j := 0; j < want.Cols(); j++ {
			wv, _ := want.At(i, j)
			gv, _ := got.At(i, j)
			if math.Abs(wv-gv) > testTolerance {
				t.Errorf("(%d,%d): MulInto=%v gonum/mat=%v", i, j, wv, gv)
			}
		}
	}
}

func TestSolveBandedMatchesKnownSolution(t *testing.T) {
	n := 5
	a := tridiag(n, -1, 2, -1)
	xExpected := Zeros(n, 1)
	for i := 0; i < n; i++ {
		xExpected.data[i] = float64(i + 1)
	}
	b, err := NDiagProduct(a, xExpected, 3)
	if err != nil {
		t.Fatal(err)
	}
	x := Zeros(n, 1)
	if err := SolveBanded(a, b, x, 3); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if math.Abs(x.data[i]-xExpected.data[i]) > 1e-6 {
			t.Errorf("row %d: got %v want %v", i, x.data[i], xExpected.data[i])
		}
	}
}

func TestSolveBandedSingularFails(t *testing.T) {
	n := 3
	a := Zeros(n, n) // all-zero diagonal: singular
	b := Zeros(n, 1)
	x := Zeros(n, 1)
	if err := SolveBanded(a, b, x, 3); err == nil {
		t.Error("expected singular-pivot error, got nil")
	}
}

func TestGaussSeidelConverges(t *testing.T) {
	n := 4
	a := tridiag(n, -1, 4, -1)
	xExpected := Zeros(n, 1)
	for i := 0; i < n; i++ {
		xExpected.data[i] = float64(i + 1)
	}
	b, err := Mul(a, xExpected)
	if err != nil {
		t.Fatal(err)
	}
	x := Zeros(n, 1)
	res, err := GaussSeidel(a, b, x, 200, 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Converged {
		t.Fatalf("expected convergence, got %+v", res)
	}
	for i := 0; i < n; i++ {
		if math.Abs(x.data[i]-xExpected.data[i]) > 1e-6 {
			t.Errorf("row %d: got %v want %v", i, x.data[i], xExpected.data[i])
		}
	}
}

func TestGaussSeidelNonConvergenceReportsFailureNotPanic(t *testing.T) {
	n := 3
	// Diagonally weak matrix: Gauss-Seidel will not converge in so few steps.
	a := Zeros(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, 1.0)
		}
		a.Set(i, i, 1.01)
	}
	b := Zeros(n, 1)
	for i := range b.data {
		b.data[i] = 1
	}
	x := Zeros(n, 1)
	res, err := GaussSeidel(a, b, x, 2, 1e-14)
	if err != nil {
		t.Fatal(err)
	}
	if res.Converged {
		t.Skip("converged faster than expected; not a failure of the contract")
	}
	if res.Iterations != 2 {
		t.Errorf("expected to run the full iteration cap, got %d", res.Iterations)
	}
}
