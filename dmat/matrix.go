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

// Package dmat implements a dense, row-major matrix kernel with the
// banded-multiply and banded-solve specializations the thermal solver
// needs. Every operation reports shape mismatches as an error instead of
// panicking, and writes only to its named destination, so independent
// matrices can be driven from separate goroutines without synchronization.
package dmat

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense, row-major, owned 2-D array of float64.
type Matrix struct {
	rows, cols int
	data       []float64
}

// New allocates a rows×cols matrix filled with v.
func New(v float64, rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("dmat: New: invalid shape %dx%d", rows, cols)
	}
	m := &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
	if v != 0 {
		for i := range m.data {
			m.data[i] = v
		}
	}
	return m, nil
}

// Zeros allocates a rows×cols matrix of zeros.
func Zeros(rows, cols int) *Matrix {
	m, _ := New(0, rows, cols)
	return m
}

// FromData wraps buf (row-major, length rows*cols) as a Matrix. buf is not
// copied; callers must not mutate it elsewhere afterward.
func FromData(rows, cols int, buf []float64) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("dmat: FromData: invalid shape %dx%d", rows, cols)
	}
	if len(buf) != rows*cols {
		return nil, fmt.Errorf("dmat: FromData: buffer length %d does not match shape %dx%d", len(buf), rows, cols)
	}
	return &Matrix{rows: rows, cols: cols, data: buf}, nil
}

// Eye returns the n×n identity matrix.
func Eye(n int) (*Matrix, error) {
	m, err := New(0, n, n)
	if err != nil {
		return nil, fmt.Errorf("dmat: Eye: %v", err)
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m, nil
}

// Diag returns the diagonal matrix whose diagonal is v.
func Diag(v []float64) *Matrix {
	n := len(v)
	m := Zeros(n, n)
	for i, x := range v {
		m.data[i*n+i] = x
	}
	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Data exposes the underlying row-major buffer. Callers must not resize it.
func (m *Matrix) Data() []float64 { return m.data }

func (m *Matrix) index(i, j int) (int, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, fmt.Errorf("dmat: index (%d,%d) out of bounds for %dx%d matrix", i, j, m.rows, m.cols)
	}
	return i*m.cols + j, nil
}

// At returns the element at (i,j).
func (m *Matrix) At(i, j int) (float64, error) {
	idx, err := m.index(i, j)
	if err != nil {
		return 0, err
	}
	return m.data[idx], nil
}

// Set assigns the element at (i,j).
func (m *Matrix) Set(i, j int, v float64) error {
	idx, err := m.index(i, j)
	if err != nil {
		return err
	}
	m.data[idx] = v
	return nil
}

// AddAt accumulates v into the element at (i,j).
func (m *Matrix) AddAt(i, j int, v float64) error {
	idx, err := m.index(i, j)
	if err != nil {
		return err
	}
	m.data[idx] += v
	return nil
}

func sameShape(a, b *Matrix) bool {
	return a.rows == b.rows && a.cols == b.cols
}

// Clear zeros every element of m in place.
func (m *Matrix) Clear() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// CopyFrom overwrites m's contents with src's. Shapes must match.
func (m *Matrix) CopyFrom(src *Matrix) error {
	if !sameShape(m, src) {
		return fmt.Errorf("dmat: CopyFrom: shape mismatch %dx%d vs %dx%d", m.rows, m.cols, src.rows, src.cols)
	}
	copy(m.data, src.data)
	return nil
}

// Clone returns an independent copy of m.
func (m *Matrix) Clone() *Matrix {
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return &Matrix{rows: m.rows, cols: m.cols, data: data}
}

// AddInto computes dst = a + b elementwise. dst may alias a or b.
func AddInto(dst, a, b *Matrix) error {
	if !sameShape(a, b) || !sameShape(a, dst) {
		return fmt.Errorf("dmat: AddInto: shape mismatch")
	}
	for i := range dst.data {
		dst.data[i] = a.data[i] + b.data[i]
	}
	return nil
}

// SubInto computes dst = a - b elementwise. dst may alias a or b.
func SubInto(dst, a, b *Matrix) error {
	if !sameShape(a, b) || !sameShape(a, dst) {
		return fmt.Errorf("dmat: SubInto: shape mismatch")
	}
	for i := range dst.data {
		dst.data[i] = a.data[i] - b.data[i]
	}
	return nil
}

// Add returns a new matrix holding a+b.
func Add(a, b *Matrix) (*Matrix, error) {
	if !sameShape(a, b) {
		return nil, fmt.Errorf("dmat: Add: shape mismatch %dx%d vs %dx%d", a.rows, a.cols, b.rows, b.cols)
	}
	out := Zeros(a.rows, a.cols)
	_ = AddInto(out, a, b)
	return out, nil
}

// Sub returns a new matrix holding a-b.
func Sub(a, b *Matrix) (*Matrix, error) {
	if !sameShape(a, b) {
		return nil, fmt.Errorf("dmat: Sub: shape mismatch %dx%d vs %dx%d", a.rows, a.cols, b.rows, b.cols)
	}
	out := Zeros(a.rows, a.cols)
	_ = SubInto(out, a, b)
	return out, nil
}

// ScaleInto computes dst = a*s. dst may alias a.
func ScaleInto(dst, a *Matrix, s float64) error {
	if !sameShape(dst, a) {
		return fmt.Errorf("dmat: ScaleInto: shape mismatch")
	}
	for i := range dst.data {
		dst.data[i] = a.data[i] * s
	}
	return nil
}

// Scale returns a new matrix holding a*s.
func Scale(a *Matrix, s float64) *Matrix {
	out := a.Clone()
	for i := range out.data {
		out.data[i] *= s
	}
	return out
}

// DivInto computes dst = a/s elementwise. dst may alias a. Returns an error
// for division by zero rather than producing Inf/NaN silently.
func DivInto(dst, a *Matrix, s float64) error {
	if !sameShape(dst, a) {
		return fmt.Errorf("dmat: DivInto: shape mismatch")
	}
	if s == 0 {
		return fmt.Errorf("dmat: DivInto: division by zero")
	}
	inv := 1 / s
	for i := range dst.data {
		dst.data[i] = a.data[i] * inv
	}
	return nil
}

// MulInto computes dst = a·b (standard dense product) and clears dst first.
// dst must not alias a or b.
func MulInto(dst, a, b *Matrix) error {
	if a.cols != b.rows {
		return fmt.Errorf("dmat: MulInto: inner dimension mismatch %dx%d · %dx%d", a.rows, a.cols, b.rows, b.cols)
	}
	if dst.rows != a.rows || dst.cols != b.cols {
		return fmt.Errorf("dmat: MulInto: destination shape %dx%d does not match product shape %dx%d", dst.rows, dst.cols, a.rows, b.cols)
	}
	dst.Clear()
	// Parallel row-chunk strategy for large products; see parallelThreshold.
	if a.rows*b.cols*a.cols > parallelThreshold {
		mulParallel(dst, a, b)
		return nil
	}
	mulSerial(dst, a, b)
	return nil
}

// parallelThreshold is the product-of-dimensions size above which MulInto
// splits work across goroutines by output row chunks. Below it the overhead
// of spawning goroutines outweighs the benefit.
const parallelThreshold = 1 << 16

func mulSerial(dst, a, b *Matrix) {
	for i := 0; i < a.rows; i++ {
		for k := 0; k < a.cols; k++ {
			aik := a.data[i*a.cols+k]
			if aik == 0 {
				continue
			}
			rowB := b.data[k*b.cols : k*b.cols+b.cols]
			rowC := dst.data[i*dst.cols : i*dst.cols+dst.cols]
			for j, bv := range rowB {
				rowC[j] += aik * bv
			}
		}
	}
}

func mulParallel(dst, a, b *Matrix) {
	nWorkers := 4
	if a.rows < nWorkers {
		nWorkers = a.rows
	}
	rowsPer := (a.rows + nWorkers - 1) / nWorkers
	done := make(chan struct{}, nWorkers)
	for w := 0; w < nWorkers; w++ {
		lo := w * rowsPer
		hi := lo + rowsPer
		if hi > a.rows {
			hi = a.rows
		}
		go func(lo, hi int) {
			for i := lo; i < hi; i++ {
				for k := 0; k < a.cols; k++ {
					aik := a.data[i*a.cols+k]
					if aik == 0 {
						continue
					}
					rowB := b.data[k*b.cols : k*b.cols+b.cols]
					rowC := dst.data[i*dst.cols : i*dst.cols+dst.cols]
					for j, bv := range rowB {
						rowC[j] += aik * bv
					}
				}
			}
			done <- struct{}{}
		}(lo, hi)
	}
	for w := 0; w < nWorkers; w++ {
		<-done
	}
}

// Mul returns a new matrix holding a·b.
func Mul(a, b *Matrix) (*Matrix, error) {
	if a.cols != b.rows {
		return nil, fmt.Errorf("dmat: Mul: inner dimension mismatch %dx%d · %dx%d", a.rows, a.cols, b.rows, b.cols)
	}
	out := Zeros(a.rows, b.cols)
	_ = MulInto(out, a, b)
	return out, nil
}

// Dense returns a *gonum.org/v1/gonum/mat.Dense view sharing no storage
// with m (gonum's Dense does not expose a raw-slice constructor that avoids
// a copy for arbitrary row-major data, so this always copies).
func (m *Matrix) Dense() *mat.Dense {
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return mat.NewDense(m.rows, m.cols, data)
}

// FromDense builds a Matrix from a *gonum/mat.Dense, copying its data.
func FromDense(d *mat.Dense) *Matrix {
	r, c := d.Dims()
	data := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = d.At(i, j)
		}
	}
	m, _ := FromData(r, c, data)
	return m
}
