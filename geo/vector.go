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

// Package geo implements the 3-D planar-loop geometry kernel: points,
// vectors, and closed oriented polygons with area/normal/perimeter,
// point-in-polygon tests, and clip/split operations.
package geo

import "math"

// ParallelTolerance is the default tolerance used when comparing two
// vectors' directions (spec 4.B: "tolerance ≈ 1e-7").
const ParallelTolerance = 1e-7

// Point3D is a point in 3-space.
type Point3D struct {
	X, Y, Z float64
}

// Sub returns p-q as a vector.
func (p Point3D) Sub(q Point3D) Vector3D {
	return Vector3D{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Add returns p+v.
func (p Point3D) Add(v Vector3D) Point3D {
	return Point3D{p.X + v.X, p.Y + v.Y, p.Z + v.Z}
}

// Distance returns the Euclidean distance between p and q.
func (p Point3D) Distance(q Point3D) float64 {
	return p.Sub(q).Length()
}

// Equal reports whether p and q are within tol of each other.
func (p Point3D) Equal(q Point3D, tol float64) bool {
	return p.Distance(q) <= tol
}

// Vector3D is a displacement/direction in 3-space.
type Vector3D struct {
	X, Y, Z float64
}

// Dot returns the scalar (dot) product of v and w.
func (v Vector3D) Dot(w Vector3D) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product v×w.
func (v Vector3D) Cross(w Vector3D) Vector3D {
	return Vector3D{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the Euclidean norm of v.
func (v Vector3D) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Scale returns v*s.
func (v Vector3D) Scale(s float64) Vector3D {
	return Vector3D{v.X * s, v.Y * s, v.Z * s}
}

// Add returns v+w.
func (v Vector3D) Add(w Vector3D) Vector3D {
	return Vector3D{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Normalize returns v scaled to unit length. It returns the zero vector if v
// is (numerically) the zero vector.
func (v Vector3D) Normalize() Vector3D {
	l := v.Length()
	if l < 1e-300 {
		return Vector3D{}
	}
	return v.Scale(1 / l)
}

// IsZero reports whether v is the zero vector within tol.
func (v Vector3D) IsZero(tol float64) bool {
	return v.Length() <= tol
}

// Parallel reports whether v and w point along the same or opposite line
// within tol: the magnitude of their normalized cross product must be
// near-zero.
func Parallel(v, w Vector3D, tol float64) bool {
	nv := v.Normalize()
	nw := w.Normalize()
	if nv.IsZero(tol) || nw.IsZero(tol) {
		return false
	}
	return nv.Cross(nw).Length() <= tol
}

// Collinear reports whether points a, b, c are collinear within tol: the
// vectors (b-a) and (c-b) are parallel (or either is degenerate).
func Collinear(a, b, c Point3D, tol float64) bool {
	v1 := b.Sub(a)
	v2 := c.Sub(b)
	if v1.IsZero(tol) || v2.IsZero(tol) {
		return true
	}
	return Parallel(v1, v2, tol)
}
