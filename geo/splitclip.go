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

// congruentLengthTolerance is the tolerance used by IsDiagonal to decide
// whether a candidate segment has the same length as some loop edge (spec
// 4.B: "different length tolerance 1e-7").
const congruentLengthTolerance = 1e-7

// IsDiagonal reports whether segment s is a valid internal diagonal of the
// closed loop: it must not intersect any edge, must not be congruent to (or
// contained inside) any edge, and its midpoint must lie strictly inside.
func (l *Loop3D) IsDiagonal(s [2]Point3D) (bool, error) {
	if !l.closed {
		return false, errLoopNotClosed("IsDiagonal")
	}
	n := len(l.points)
	segLen := s[0].Distance(s[1])
	for i := 0; i < n; i++ {
		edge := [2]Point3D{l.points[i], l.points[(i+1)%n]}
		if pt, ok := segmentIntersection(s, edge); ok && !isSharedEndpoint(pt, s, edge) {
			return false, nil
		}
		if math.Abs(segLen-edge[0].Distance(edge[1])) <= congruentLengthTolerance {
			if (s[0].Equal(edge[0], vertexHitTolerance) && s[1].Equal(edge[1], vertexHitTolerance)) ||
				(s[0].Equal(edge[1], vertexHitTolerance) && s[1].Equal(edge[0], vertexHitTolerance)) {
				return false, nil
			}
		}
		if pointOnSegment(s[0], edge, vertexHitTolerance) && pointOnSegment(s[1], edge, vertexHitTolerance) {
			return false, nil // s is contained inside this edge
		}
	}
	mid := s[0].Add(s[1].Sub(s[0]).Scale(0.5))
	inside, err := l.TestPoint(mid)
	if err != nil {
		return false, err
	}
	if !inside {
		return false, nil
	}
	// TestPoint also returns true for points exactly on an edge; reject those.
	for i := 0; i < n; i++ {
		edge := [2]Point3D{l.points[i], l.points[(i+1)%n]}
		if pointOnSegment(mid, edge, vertexHitTolerance) {
			return false, nil
		}
	}
	return true, nil
}

// planeTolerance is used when deciding whether a cutting segment's
// endpoints already lie in the loop's plane (spec 4.B: "within 1e-3").
const planeTolerance = 1e-3

// Split cuts the loop along seg into two child loops. If seg is degenerate
// or already an edge of the loop, or intersects the loop's boundary zero
// times or once, Split returns []*Loop3D{l} with a nil error. If seg
// intersects the boundary more than twice, Split returns the loop unchanged
// along with ErrUnsupportedSplit, per spec.md's documented open question.
func (l *Loop3D) Split(seg [2]Point3D) ([]*Loop3D, error) {
	if !l.closed {
		return nil, errLoopNotClosed("Split")
	}
	if seg[0].Distance(seg[1]) < 1e-6 {
		return []*Loop3D{l}, nil
	}

	a, b := seg[0], seg[1]
	if math.Abs(a.Sub(l.planeOrig).Dot(l.normal)) <= planeTolerance &&
		math.Abs(b.Sub(l.planeOrig).Dot(l.normal)) <= planeTolerance {
		da := a.Sub(l.planeOrig).Dot(l.normal)
		db := b.Sub(l.planeOrig).Dot(l.normal)
		a = a.Add(l.normal.Scale(-da))
		b = b.Add(l.normal.Scale(-db))
		seg = [2]Point3D{a, b}
	}

	n := len(l.points)
	for i := 0; i < n; i++ {
		edge := [2]Point3D{l.points[i], l.points[(i+1)%n]}
		if (seg[0].Equal(edge[0], vertexHitTolerance) && seg[1].Equal(edge[1], vertexHitTolerance)) ||
			(seg[0].Equal(edge[1], vertexHitTolerance) && seg[1].Equal(edge[0], vertexHitTolerance)) {
			return []*Loop3D{l}, nil
		}
	}

	type hit struct {
		edgeIdx int
		point   Point3D
	}
	var hits []hit
	for i := 0; i < n; i++ {
		edge := [2]Point3D{l.points[i], l.points[(i+1)%n]}
		if pt, ok := segmentIntersection(seg, edge); ok {
			hits = append(hits, hit{edgeIdx: i, point: pt})
		}
	}
	if len(hits) == 0 || len(hits) == 1 {
		return []*Loop3D{l}, nil
	}
	if len(hits) != 2 {
		return []*Loop3D{l}, ErrUnsupportedSplit
	}
	first, second := hits[0], hits[1]

	left := New()
	right := New()
	for i := 0; i <= first.edgeIdx; i++ {
		_ = left.Push(l.points[i])
	}
	_ = left.Push(first.point)
	_ = right.Push(first.point)
	for i := first.edgeIdx + 1; i <= second.edgeIdx; i++ {
		_ = right.Push(l.points[i])
	}
	_ = right.Push(second.point)
	_ = left.Push(second.point)
	for i := second.edgeIdx + 1; i < n; i++ {
		_ = left.Push(l.points[i])
	}

	var out []*Loop3D
	for _, child := range []*Loop3D{left, right} {
		if len(child.points) < 3 {
			continue
		}
		if err := child.Close(); err != nil {
			continue
		}
		out = append(out, child)
	}
	if len(out) == 0 {
		return []*Loop3D{l}, fmt.Errorf("geo: Split: both children degenerated to fewer than 3 vertices")
	}
	return out, nil
}

// Clip returns the Sutherland-Hodgman intersection of l against the cutter
// loop: each vertex of l is classified inside/outside via cutter.TestPoint,
// and the output polygon is re-closed.
func (l *Loop3D) Clip(cutter *Loop3D) (*Loop3D, error) {
	if !l.closed || !cutter.closed {
		return nil, errors.New("geo: Clip: both loops must be closed")
	}
	output := l.points
	n := len(cutter.points)
	for i := 0; i < n; i++ {
		edgeA := cutter.points[i]
		edgeB := cutter.points[(i+1)%n]
		if len(output) == 0 {
			break
		}
		var input []Point3D
		for j, cur := range output {
			prev := output[(j-1+len(output))%len(output)]
			curIn, err := cutter.TestPoint(cur)
			if err != nil {
				return nil, err
			}
			prevIn, err := cutter.TestPoint(prev)
			if err != nil {
				return nil, err
			}
			if curIn {
				if !prevIn {
					if pt, ok := segmentIntersection([2]Point3D{prev, cur}, [2]Point3D{edgeA, edgeB}); ok {
						input = append(input, pt)
					}
				}
				input = append(input, cur)
			} else if prevIn {
				if pt, ok := segmentIntersection([2]Point3D{prev, cur}, [2]Point3D{edgeA, edgeB}); ok {
					input = append(input, pt)
				}
			}
		}
		output = input
	}
	if len(output) < 3 {
		return nil, errors.New("geo: Clip: result has fewer than 3 vertices")
	}
	out := New()
	for _, p := range output {
		if err := out.Push(p); err != nil {
			return nil, fmt.Errorf("geo: Clip: %w", err)
		}
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("geo: Clip: %w", err)
	}
	return out, nil
}
