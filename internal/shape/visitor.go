/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import "goshapestudio/internal/geom"

// ControlPoint is one draggable handle collected from a shape. Connected
// is nil for primary path points; for secondary handles it maps each
// anchor address the handle is tied to onto that anchor's position, for
// preview line drawing and for the center/radius move rules.
type ControlPoint struct {
	Pos       geom.Vec2
	Connected map[PointRef]geom.Vec2
}

// Secondary reports whether the point is a handle rather than a vertex.
func (c ControlPoint) Secondary() bool { return c.Connected != nil }

// This file is the single source of truth for traversal order. Leaf
// shapes are visited depth-first pre-order; groups recurse without
// consuming a shape index; Empty and Callback consume an index but
// expose no points. Per-kind point order:
//
//	LineSegment      [p0, p1]
//	Path             stored order
//	Circle           [center, radius handle at center+(r,0)]
//	Ellipse          [center, x handle at center+(rx,0), y handle at center+(0,ry)]
//	Rect             [min, max] (re-normalized after every mutation)
//	Text             [anchor]
//	Mesh             vertex order
//	QuadraticBezier  [p0, control, p2]
//	CubicBezier      [p0, c1, c2, p3]
//	Callback         none
//
// Bezier handles connect to their index neighbors; radius handles connect
// to the center. All callbacks return true to stop the traversal early.

// EachShape visits every leaf shape with its shape index. Returns true
// when the traversal was stopped by fn.
func EachShape(root Shape, fn func(i int, s Shape) bool) bool {
	next := 0
	return walkShapes(root, &next, fn)
}

func walkShapes(s Shape, next *int, fn func(int, Shape) bool) bool {
	if s == nil {
		return false
	}
	if g, ok := s.(*Group); ok {
		for _, c := range g.Children {
			if walkShapes(c, next, fn) {
				return true
			}
		}
		return false
	}
	i := *next
	*next = i + 1
	return fn(i, s)
}

// EachShapeSlot visits every leaf shape through a settable slot, so the
// caller can replace the shape at an index in place. Replacing a leaf
// with a Group re-parents future traversals; actions only ever swap
// leaves for leaves.
func EachShapeSlot(root *Shape, fn func(i int, slot *Shape) bool) bool {
	next := 0
	return walkSlots(root, &next, fn)
}

func walkSlots(slot *Shape, next *int, fn func(int, *Shape) bool) bool {
	if slot == nil || *slot == nil {
		return false
	}
	if g, ok := (*slot).(*Group); ok {
		for i := range g.Children {
			if walkSlots(&g.Children[i], next, fn) {
				return true
			}
		}
		return false
	}
	i := *next
	*next = i + 1
	return fn(i, slot)
}

// CountShapes returns the number of leaf shapes (addressable or not).
func CountShapes(root Shape) int {
	n := 0
	EachShape(root, func(int, Shape) bool {
		n++
		return false
	})
	return n
}

// ShapeAt returns the leaf shape at index i.
func ShapeAt(root Shape, i int) (Shape, bool) {
	var found Shape
	EachShape(root, func(j int, s Shape) bool {
		if j == i {
			found = s
			return true
		}
		return false
	})
	return found, found != nil
}

// EachControlPoint visits every control point in address order without
// mutating the tree. Returns true when stopped early.
func EachControlPoint(root Shape, fn func(ref PointRef, kind Kind, cp ControlPoint) bool) bool {
	next := 0
	return walkPoints(root, &next, fn)
}

func walkPoints(s Shape, next *int, fn func(PointRef, Kind, ControlPoint) bool) bool {
	if s == nil {
		return false
	}
	if g, ok := s.(*Group); ok {
		for _, c := range g.Children {
			if walkPoints(c, next, fn) {
				return true
			}
		}
		return false
	}
	si := *next
	*next = si + 1

	visit := func(p int, cp ControlPoint) bool {
		return fn(Ref(si, p), KindOf(s), cp)
	}
	primary := func(p int, pos geom.Vec2) bool {
		return visit(p, ControlPoint{Pos: pos})
	}
	handle := func(p int, pos geom.Vec2, connected map[PointRef]geom.Vec2) bool {
		return visit(p, ControlPoint{Pos: pos, Connected: connected})
	}

	switch s := s.(type) {
	case *LineSegment:
		return primary(0, s.Points[0]) || primary(1, s.Points[1])
	case *Path:
		for i, p := range s.Points {
			if primary(i, p) {
				return true
			}
		}
	case *Circle:
		if primary(0, s.Center) {
			return true
		}
		rp := s.Center.Add(geom.V(s.Radius, 0))
		return handle(1, rp, map[PointRef]geom.Vec2{Ref(si, 0): s.Center})
	case *Ellipse:
		if primary(0, s.Center) {
			return true
		}
		rx := s.Center.Add(geom.V(s.RadiusX, 0))
		if handle(1, rx, map[PointRef]geom.Vec2{Ref(si, 0): s.Center}) {
			return true
		}
		ry := s.Center.Add(geom.V(0, s.RadiusY))
		return handle(2, ry, map[PointRef]geom.Vec2{Ref(si, 0): s.Center})
	case *Rect:
		return primary(0, s.Min) || primary(1, s.Max)
	case *Text:
		return primary(0, s.Pos)
	case *Mesh:
		for i, v := range s.Vertices {
			if primary(i, v.Pos) {
				return true
			}
		}
	case *QuadraticBezier:
		if primary(0, s.Points[0]) {
			return true
		}
		c := map[PointRef]geom.Vec2{Ref(si, 0): s.Points[0], Ref(si, 2): s.Points[2]}
		if handle(1, s.Points[1], c) {
			return true
		}
		return primary(2, s.Points[2])
	case *CubicBezier:
		if primary(0, s.Points[0]) {
			return true
		}
		c1 := map[PointRef]geom.Vec2{Ref(si, 0): s.Points[0], Ref(si, 2): s.Points[2]}
		if handle(1, s.Points[1], c1) {
			return true
		}
		c2 := map[PointRef]geom.Vec2{Ref(si, 1): s.Points[1], Ref(si, 3): s.Points[3]}
		if handle(2, s.Points[2], c2) {
			return true
		}
		return primary(3, s.Points[3])
	case *Empty, *Callback:
		// consume the shape index, no points
	}
	return false
}

// EachControlPointMut visits every control point with a mutable position.
// Per-kind fixups run after a shape's points were visited: circle and
// ellipse radii are recomputed from handle-to-center distance and rects
// are re-normalized, so handle geometry stays consistent however the
// callback moved the points. Returns true when stopped early; fixups for
// the current shape still run.
func EachControlPointMut(root Shape, fn func(ref PointRef, kind Kind, pos *geom.Vec2, connected map[PointRef]geom.Vec2) bool) bool {
	next := 0
	return walkPointsMut(root, &next, fn)
}

func walkPointsMut(s Shape, next *int, fn func(PointRef, Kind, *geom.Vec2, map[PointRef]geom.Vec2) bool) bool {
	if s == nil {
		return false
	}
	if g, ok := s.(*Group); ok {
		for _, c := range g.Children {
			if walkPointsMut(c, next, fn) {
				return true
			}
		}
		return false
	}
	si := *next
	*next = si + 1
	kind := KindOf(s)

	switch s := s.(type) {
	case *LineSegment:
		return fn(Ref(si, 0), kind, &s.Points[0], nil) || fn(Ref(si, 1), kind, &s.Points[1], nil)
	case *Path:
		for i := range s.Points {
			if fn(Ref(si, i), kind, &s.Points[i], nil) {
				return true
			}
		}
	case *Circle:
		stop := fn(Ref(si, 0), kind, &s.Center, nil)
		rp := s.Center.Add(geom.V(s.Radius, 0))
		if !stop {
			stop = fn(Ref(si, 1), kind, &rp, map[PointRef]geom.Vec2{Ref(si, 0): s.Center})
		}
		s.Radius = rp.Distance(s.Center)
		return stop
	case *Ellipse:
		stop := fn(Ref(si, 0), kind, &s.Center, nil)
		rx := s.Center.Add(geom.V(s.RadiusX, 0))
		if !stop {
			stop = fn(Ref(si, 1), kind, &rx, map[PointRef]geom.Vec2{Ref(si, 0): s.Center})
		}
		ry := s.Center.Add(geom.V(0, s.RadiusY))
		if !stop {
			stop = fn(Ref(si, 2), kind, &ry, map[PointRef]geom.Vec2{Ref(si, 0): s.Center})
		}
		s.RadiusX = rx.Distance(s.Center)
		s.RadiusY = ry.Distance(s.Center)
		return stop
	case *Rect:
		stop := fn(Ref(si, 0), kind, &s.Min, nil)
		if !stop {
			stop = fn(Ref(si, 1), kind, &s.Max, nil)
		}
		r := geom.Rect{Min: s.Min, Max: s.Max}.Normalized()
		s.Min, s.Max = r.Min, r.Max
		return stop
	case *Text:
		return fn(Ref(si, 0), kind, &s.Pos, nil)
	case *Mesh:
		for i := range s.Vertices {
			if fn(Ref(si, i), kind, &s.Vertices[i].Pos, nil) {
				return true
			}
		}
	case *QuadraticBezier:
		if fn(Ref(si, 0), kind, &s.Points[0], nil) {
			return true
		}
		c := map[PointRef]geom.Vec2{Ref(si, 0): s.Points[0], Ref(si, 2): s.Points[2]}
		if fn(Ref(si, 1), kind, &s.Points[1], c) {
			return true
		}
		return fn(Ref(si, 2), kind, &s.Points[2], nil)
	case *CubicBezier:
		if fn(Ref(si, 0), kind, &s.Points[0], nil) {
			return true
		}
		c1 := map[PointRef]geom.Vec2{Ref(si, 0): s.Points[0], Ref(si, 2): s.Points[2]}
		if fn(Ref(si, 1), kind, &s.Points[1], c1) {
			return true
		}
		c2 := map[PointRef]geom.Vec2{Ref(si, 1): s.Points[1], Ref(si, 3): s.Points[3]}
		if fn(Ref(si, 2), kind, &s.Points[2], c2) {
			return true
		}
		return fn(Ref(si, 3), kind, &s.Points[3], nil)
	case *Empty, *Callback:
	}
	return false
}
