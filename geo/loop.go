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

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnsupportedSplit is returned by Split when the cutting segment
// intersects the loop's boundary more than twice (zero or one intersection
// returns the loop unchanged with no error). Per spec.md's
// open question, this is a warning value, not a fatal error: Split still
// returns the original loop unchanged alongside this error.
var ErrUnsupportedSplit = errors.New("geo: split with a cut count other than 0, 1, or 2 is not supported; loop returned unchanged")

// coplanarTolerance is the tolerance used to test whether a new vertex lies
// in the loop's established plane (spec 4.B: "1e-7").
const coplanarTolerance = 1e-7

// vertexHitTolerance is the distance tolerance for "point lies on a vertex
// or edge" tests.
const vertexHitTolerance = 1e-9

// Loop3D is an ordered, possibly-closed sequence of coplanar points with
// cached derived scalars. See spec.md 4.B for the full invariant list.
type Loop3D struct {
	points []Point3D
	closed bool

	normal    Vector3D // zero until >=3 non-collinear points are known
	hasPlane  bool
	planeOrig Point3D

	area      float64 // -1 until closed
	perimeter float64 // -1 until closed
}

// New returns an empty, open Loop3D.
func New() *Loop3D {
	return &Loop3D{area: -1, perimeter: -1}
}

// NewFromPoints pushes each point in order and returns the resulting open
// loop, stopping at the first error.
func NewFromPoints(pts []Point3D) (*Loop3D, error) {
	l := New()
	for i, p := range pts {
		if err := l.Push(p); err != nil {
			return nil, fmt.Errorf("geo: NewFromPoints: vertex %d: %w", i, err)
		}
	}
	return l, nil
}

// Points returns the loop's vertex list. Callers must not mutate the
// returned slice.
func (l *Loop3D) Points() []Point3D { return l.points }

// Closed reports whether Close has been called successfully.
func (l *Loop3D) Closed() bool { return l.closed }

// Normal returns the loop's cached unit normal (zero vector if not yet
// established).
func (l *Loop3D) Normal() Vector3D { return l.normal }

// Area returns the loop's area, or -1 if not yet closed.
func (l *Loop3D) Area() float64 { return l.area }

// Perimeter returns the loop's perimeter, or -1 if not yet closed.
func (l *Loop3D) Perimeter() float64 { return l.perimeter }

// newellNormal computes the (unnormalized) Newell normal of a point ring,
// whose magnitude is twice the polygon's area.
func newellNormal(pts []Point3D) Vector3D {
	var n Vector3D
	m := len(pts)
	for i := 0; i < m; i++ {
		a := pts[i]
		b := pts[(i+1)%m]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

// establishPlane computes the provisional plane normal once >=3 non-collinear
// points are available, used to validate coplanarity of subsequent pushes.
func (l *Loop3D) establishPlane() {
	if l.hasPlane || len(l.points) < 3 {
		return
	}
	n := newellNormal(l.points)
	if n.Length() <= ParallelTolerance {
		return // still collinear so far
	}
	l.normal = n.Normalize()
	l.planeOrig = l.points[0]
	l.hasPlane = true
}

// Push appends p to the loop. See spec.md 4.B for the full contract.
func (l *Loop3D) Push(p Point3D) error {
	if l.closed {
		return errors.New("geo: Push: loop is already closed")
	}
	if n := len(l.points); n > 0 && p.Equal(l.points[n-1], vertexHitTolerance) {
		return nil // no-op: duplicate of last vertex
	}
	if l.hasPlane {
		d := p.Sub(l.planeOrig).Dot(l.normal)
		if math.Abs(d) > coplanarTolerance {
			return fmt.Errorf("geo: Push: point %+v is not coplanar (deviation %g)", p, d)
		}
	}
	if n := len(l.points); n >= 2 && Collinear(l.points[n-2], l.points[n-1], p, ParallelTolerance) {
		// Replace the last vertex instead of appending a redundant one.
		l.points[n-1] = p
		l.establishPlane()
		return nil
	}
	if n := len(l.points); n >= 2 {
		newEdge := [2]Point3D{l.points[n-1], p}
		for i := 0; i < n-2; i++ { // skip the edge adjacent to the new one
			edge := [2]Point3D{l.points[i], l.points[i+1]}
			if pt, ok := segmentIntersection(newEdge, edge); ok && !isSharedEndpoint(pt, newEdge, edge) {
				return fmt.Errorf("geo: Push: new edge would intersect a prior edge at %+v", pt)
			}
		}
	}
	l.points = append(l.points, p)
	l.establishPlane()
	return nil
}

func isSharedEndpoint(pt Point3D, a, b [2]Point3D) bool {
	for _, x := range a {
		if pt.Equal(x, vertexHitTolerance) {
			for _, y := range b {
				if pt.Equal(y, vertexHitTolerance) {
					return true
				}
			}
		}
	}
	return false
}

// dropWrapCollinear removes a point at index idx (mod len) from pts if it is
// collinear with its two ring-neighbors.
func dropWrapCollinear(pts []Point3D, idx int) []Point3D {
	n := len(pts)
	if n < 3 {
		return pts
	}
	prev := pts[(idx-1+n)%n]
	cur := pts[idx]
	next := pts[(idx+1)%n]
	if !Collinear(prev, cur, next, ParallelTolerance) {
		return pts
	}
	out := make([]Point3D, 0, n-1)
	for i, p := range pts {
		if i == idx {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Close finalizes the loop: it validates the closing edge, computes area and
// perimeter, and orients the normal so the signed area is non-negative.
func (l *Loop3D) Close() error {
	if l.closed {
		return errors.New("geo: Close: loop is already closed")
	}
	if len(l.points) < 3 {
		return fmt.Errorf("geo: Close: need at least 3 vertices, have %d", len(l.points))
	}
	// Drop a wrap-around collinear vertex at the end, then the start.
	l.points = dropWrapCollinear(l.points, len(l.points)-1)
	if len(l.points) >= 3 {
		l.points = dropWrapCollinear(l.points, 0)
	}
	if len(l.points) < 3 {
		return fmt.Errorf("geo: Close: fewer than 3 vertices remain after dropping collinear wrap points")
	}

	n := len(l.points)
	closingEdge := [2]Point3D{l.points[n-1], l.points[0]}
	for i := 0; i < n-2; i++ {
		edge := [2]Point3D{l.points[i], l.points[i+1]}
		if pt, ok := segmentIntersection(closingEdge, edge); ok && !isSharedEndpoint(pt, closingEdge, edge) {
			return fmt.Errorf("geo: Close: closing edge would intersect edge %d at %+v", i, pt)
		}
	}

	unnorm := newellNormal(l.points)
	mag := unnorm.Length()
	if mag <= ParallelTolerance {
		return errors.New("geo: Close: vertices are collinear or degenerate; no well-defined normal")
	}
	l.normal = unnorm.Normalize()
	l.hasPlane = true
	l.planeOrig = l.points[0]
	l.area = 0.5 * mag

	var perim float64
	for i := 0; i < n; i++ {
		perim += l.points[i].Distance(l.points[(i+1)%n])
	}
	l.perimeter = perim
	l.closed = true
	return nil
}

// Reverse flips the vertex order and the cached normal. It is its own
// inverse: Reverse(Reverse(l)) restores l.
func (l *Loop3D) Reverse() {
	for i, j := 0, len(l.points)-1; i < j; i, j = i+1, j-1 {
		l.points[i], l.points[j] = l.points[j], l.points[i]
	}
	l.normal = l.normal.Scale(-1)
}

// Sanitize rebuilds the loop from its current vertices with collinear
// points removed, discarding and recomputing area/perimeter/normal. The
// loop must already be closed.
func (l *Loop3D) Sanitize() (*Loop3D, error) {
	if !l.closed {
		return nil, errors.New("geo: Sanitize: loop is not closed")
	}
	fresh := New()
	for _, p := range l.points {
		if err := fresh.Push(p); err != nil {
			return nil, fmt.Errorf("geo: Sanitize: %w", err)
		}
	}
	if err := fresh.Close(); err != nil {
		return nil, fmt.Errorf("geo: Sanitize: %w", err)
	}
	return fresh, nil
}

// Snap overwrites each vertex that lies within eps of some point in ref with
// that reference point, and reports how many vertices were snapped.
func (l *Loop3D) Snap(ref []Point3D, eps float64) (int, error) {
	count := 0
	for i, p := range l.points {
		for _, r := range ref {
			if p.Distance(r) <= eps {
				l.points[i] = r
				count++
				break
			}
		}
	}
	if count == 0 {
		return 0, nil
	}
	return count, nil
}

// ProjectIntoPlane moves each of l's vertices orthogonally onto other's
// plane. Both loops must be closed.
func (l *Loop3D) ProjectIntoPlane(other *Loop3D) error {
	if !l.closed || !other.closed {
		return errors.New("geo: ProjectIntoPlane: both loops must be closed")
	}
	for i, p := range l.points {
		d := p.Sub(other.planeOrig).Dot(other.normal)
		l.points[i] = p.Add(other.normal.Scale(-d))
	}
	return nil
}

// NormalDistance returns the perpendicular distance between l's plane and
// other's plane. Both loops must be closed and their normals must be
// parallel within ParallelTolerance.
func (l *Loop3D) NormalDistance(other *Loop3D) (float64, error) {
	if !l.closed || !other.closed {
		return 0, errors.New("geo: NormalDistance: both loops must be closed")
	}
	if !Parallel(l.normal, other.normal, ParallelTolerance) {
		return 0, errors.New("geo: NormalDistance: loop normals are not parallel")
	}
	return other.planeOrig.Sub(l.planeOrig).Dot(other.normal), nil
}
