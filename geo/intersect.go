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

package geo

import "math"

const intersectEps = 1e-9

// segmentIntersection returns the single intersection point of two coplanar
// segments, if one exists. Overlapping-collinear segments are reported as
// not intersecting here (the loop invariants reject collinear consecutive
// edges before this is ever reached for adjacent edges; non-adjacent
// collinear overlaps are a degenerate case this kernel does not attempt to
// resolve beyond refusing the push/close that would create one).
func segmentIntersection(a, b [2]Point3D) (Point3D, bool) {
	r := a[1].Sub(a[0])
	s := b[1].Sub(b[0])
	rs := r.Cross(s)
	denom := rs.Dot(rs)
	if denom <= intersectEps*intersectEps {
		return Point3D{}, false // parallel or anti-parallel
	}
	qp := b[0].Sub(a[0])
	t := qp.Cross(s).Dot(rs) / denom
	u := qp.Cross(r).Dot(rs) / denom
	if t < -intersectEps || t > 1+intersectEps || u < -intersectEps || u > 1+intersectEps {
		return Point3D{}, false
	}
	return a[0].Add(r.Scale(t)), true
}

// pointOnSegment reports whether p lies on segment seg within tol.
func pointOnSegment(p Point3D, seg [2]Point3D, tol float64) bool {
	v := seg[1].Sub(seg[0])
	length := v.Length()
	if length <= tol {
		return p.Equal(seg[0], tol)
	}
	w := p.Sub(seg[0])
	t := w.Dot(v) / (length * length)
	if t < -tol/length || t > 1+tol/length {
		return false
	}
	proj := seg[0].Add(v.Scale(t))
	return p.Distance(proj) <= tol
}

// localBasis returns an orthonormal (u,v) basis spanning the loop's plane.
func (l *Loop3D) localBasis() (u, v Vector3D) {
	n := l.normal
	// Pick an arbitrary vector not parallel to n.
	ref := Vector3D{1, 0, 0}
	if math.Abs(n.X) > 0.9 {
		ref = Vector3D{0, 1, 0}
	}
	u = n.Cross(ref).Normalize()
	v = n.Cross(u).Normalize()
	return u, v
}

// project2D expresses p in the loop's local (u,v) plane coordinates.
func (l *Loop3D) project2D(p Point3D, u, v Vector3D) (float64, float64) {
	w := p.Sub(l.planeOrig)
	return w.Dot(u), w.Dot(v)
}

// TestPoint reports whether p lies on an edge (within tolerance) or strictly
// inside the closed loop, via ray casting from p through the midpoint of
// edge 0.
func (l *Loop3D) TestPoint(p Point3D) (bool, error) {
	if !l.closed {
		return false, errLoopNotClosed("TestPoint")
	}
	n := len(l.points)
	for i := 0; i < n; i++ {
		edge := [2]Point3D{l.points[i], l.points[(i+1)%n]}
		if pointOnSegment(p, edge, vertexHitTolerance) {
			return true, nil
		}
	}

	u, v := l.localBasis()
	px, py := l.project2D(p, u, v)
	mid := l.points[0].Add(l.points[1].Sub(l.points[0]).Scale(0.5))
	mx, my := l.project2D(mid, u, v)

	// Extend the ray far beyond the loop's extent.
	var maxExtent float64
	for _, q := range l.points {
		qx, qy := l.project2D(q, u, v)
		d := math.Hypot(qx-px, qy-py)
		if d > maxExtent {
			maxExtent = d
		}
	}
	dirx, diry := mx-px, my-py
	dirLen := math.Hypot(dirx, diry)
	if dirLen <= intersectEps {
		dirx, diry = 1, 0
		dirLen = 1
	}
	scale := (maxExtent*4 + 1) / dirLen
	rayEnd := [2]float64{px + dirx*scale, py + diry*scale}
	rayStart := [2]float64{px, py}

	crossings := 0
	for i := 0; i < n; i++ {
		ax, ay := l.project2D(l.points[i], u, v)
		bx, by := l.project2D(l.points[(i+1)%n], u, v)
		if segments2DIntersect(rayStart, rayEnd, [2]float64{ax, ay}, [2]float64{bx, by}) {
			crossings++
		}
	}
	return crossings%2 == 1, nil
}

// segments2DIntersect is a standard orientation-based 2-D segment
// intersection test with the half-open convention (an endpoint exactly on
// the other segment counts as a crossing only on one side) so that a ray
// passing exactly through a shared vertex of two edges is not double
// counted.
func segments2DIntersect(p1, p2, p3, p4 [2]float64) bool {
	d1 := cross2D(p4, p3, p1)
	d2 := cross2D(p4, p3, p2)
	d3 := cross2D(p2, p1, p3)
	d4 := cross2D(p2, p1, p4)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	// The ray passes exactly through an endpoint of the edge (a shared
	// vertex): count the edge only when its other endpoint lies strictly on
	// the left of the ray. Of the vertex's two adjacent edges, exactly one is
	// counted when the boundary crosses the ray there, and zero or two when
	// it only touches the ray, so the crossing parity stays correct.
	if math.Abs(d3) < intersectEps && onSegment2D(p1, p2, p3) {
		return d4 > 0
	}
	if math.Abs(d4) < intersectEps && onSegment2D(p1, p2, p4) {
		return d3 > 0
	}
	return false
}

func cross2D(a, b, c [2]float64) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment2D(a, b, p [2]float64) bool {
	return math.Min(a[0], b[0])-intersectEps <= p[0] && p[0] <= math.Max(a[0], b[0])+intersectEps &&
		math.Min(a[1], b[1])-intersectEps <= p[1] && p[1] <= math.Max(a[1], b[1])+intersectEps
}

func errLoopNotClosed(op string) error {
	return &loopError{op: op, msg: "loop is not closed"}
}

type loopError struct {
	op  string
	msg string
}

func (e *loopError) Error() string { return "geo: " + e.op + ": " + e.msg }
