/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package constraint links control points so translations propagate
// between them, and bounds point positions to axis-aligned ranges. The
// move action consults the set before mutating the tree.
package constraint

import (
	"math"
	"slices"

	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

// rangeEpsilon tightens open bounds so a clamped point lands strictly
// inside them.
const rangeEpsilon = 1e-4

// AxisRange bounds one coordinate. Min and Max are inclusive unless the
// matching Open flag is set; unbounded sides use the float32 extremes.
type AxisRange struct {
	Min     float32 `json:"min"`
	Max     float32 `json:"max"`
	OpenMin bool    `json:"open_min,omitempty"`
	OpenMax bool    `json:"open_max,omitempty"`
}

// Axis builds an inclusive range. NaN bounds fall back to the unbounded
// extremes.
func Axis(min, max float32) AxisRange {
	if math.IsNaN(float64(min)) {
		min = -math.MaxFloat32
	}
	if math.IsNaN(float64(max)) {
		max = math.MaxFloat32
	}
	return AxisRange{Min: min, Max: max}
}

// AnyAxis is the unbounded range.
func AnyAxis() AxisRange {
	return AxisRange{Min: -math.MaxFloat32, Max: math.MaxFloat32}
}

// Range bounds a point position on both axes.
type Range struct {
	X AxisRange `json:"x"`
	Y AxisRange `json:"y"`
}

func (r AxisRange) clamp(t, pos float32) float32 {
	maxT := r.Max - pos
	if r.OpenMax {
		maxT -= rangeEpsilon
	}
	if t > maxT {
		t = maxT
	}
	minT := r.Min - pos
	if r.OpenMin {
		minT += rangeEpsilon
	}
	if t < minT {
		t = minT
	}
	return t
}

// ClampTranslation clips a proposed translation of a point at pos so the
// destination stays inside the range, per axis.
func (r Range) ClampTranslation(t geom.Vec2, pos geom.Vec2) geom.Vec2 {
	return geom.V(r.X.clamp(t.X, pos.X), r.Y.clamp(t.Y, pos.Y))
}

// Constraint is the closed union of constraint kinds.
type Constraint interface{ isConstraint() }

// LinkBidirectional propagates translations both ways between A and B.
type LinkBidirectional struct {
	A, B shape.PointRef
}

// LinkFromTo propagates translations of From onto To, but not back.
type LinkFromTo struct {
	From, To shape.PointRef
}

// PositionRange keeps the point at Ref inside Range.
type PositionRange struct {
	Ref   shape.PointRef
	Range Range
}

func (LinkBidirectional) isConstraint() {}
func (LinkFromTo) isConstraint()        {}
func (PositionRange) isConstraint()     {}

// Set holds the active constraints plus derived lookup structures. The
// zero value is an empty set.
type Set struct {
	constraints []Constraint
	propagation map[shape.PointRef][]shape.PointRef
	ranges      map[shape.PointRef]Range
}

// Add inserts a constraint and reports whether the set changed.
func (s *Set) Add(c Constraint) bool {
	if slices.Contains(s.constraints, c) {
		return false
	}
	s.constraints = append(s.constraints, c)
	s.rebuild()
	return true
}

// Remove deletes a constraint and reports whether it was present.
func (s *Set) Remove(c Constraint) bool {
	i := slices.Index(s.constraints, c)
	if i < 0 {
		return false
	}
	s.constraints = slices.Delete(s.constraints, i, i+1)
	s.rebuild()
	return true
}

// Len returns the number of constraints.
func (s *Set) Len() int { return len(s.constraints) }

// Each visits the constraints in insertion order.
func (s *Set) Each(fn func(Constraint) bool) {
	for _, c := range s.constraints {
		if fn(c) {
			return
		}
	}
}

func (s *Set) rebuild() {
	s.propagation = make(map[shape.PointRef][]shape.PointRef)
	s.ranges = make(map[shape.PointRef]Range)
	link := func(from, to shape.PointRef) {
		if !slices.Contains(s.propagation[from], to) {
			s.propagation[from] = append(s.propagation[from], to)
		}
	}
	for _, c := range s.constraints {
		switch c := c.(type) {
		case LinkBidirectional:
			link(c.A, c.B)
			link(c.B, c.A)
		case LinkFromTo:
			link(c.From, c.To)
		case PositionRange:
			s.ranges[c.Ref] = c.Range
		}
	}
}

// Resolve expands moves in place with the translations implied by the
// propagation graph: every transitive successor of a moved address
// receives that address's translation. Addresses already present keep
// their explicit translation, each address is filled at most once, and
// cycles terminate.
func (s *Set) Resolve(moves map[shape.PointRef]geom.Vec2) {
	if len(s.propagation) == 0 || len(moves) == 0 {
		return
	}
	sources := make([]shape.PointRef, 0, len(moves))
	for ref := range moves {
		sources = append(sources, ref)
	}
	slices.SortFunc(sources, shape.PointRef.Cmp)

	implied := make(map[shape.PointRef]geom.Vec2)
	for _, from := range sources {
		t := moves[from]
		queue := slices.Clone(s.propagation[from])
		for len(queue) > 0 {
			to := queue[0]
			queue = queue[1:]
			if _, explicit := moves[to]; explicit {
				continue
			}
			if _, seen := implied[to]; seen {
				continue
			}
			implied[to] = t
			queue = append(queue, s.propagation[to]...)
		}
	}
	for ref, t := range implied {
		moves[ref] = t
	}
}

// ClampFactor returns the factor the whole batch of translations must be
// scaled by so every range-constrained address stays inside its range.
// posOf resolves an address to its current position; unknown addresses
// are skipped. The factor is 1 when nothing clamps and never negative, so
// the drag direction is preserved.
func (s *Set) ClampFactor(moves map[shape.PointRef]geom.Vec2, posOf func(shape.PointRef) (geom.Vec2, bool)) float32 {
	factor := float32(1)
	for ref, t := range moves {
		r, ok := s.ranges[ref]
		if !ok {
			continue
		}
		pos, ok := posOf(ref)
		if !ok {
			continue
		}
		clamped := r.ClampTranslation(t, pos)
		if t.X != 0 && clamped.X/t.X < factor {
			factor = clamped.X / t.X
		}
		if t.Y != 0 && clamped.Y/t.Y < factor {
			factor = clamped.Y / t.Y
		}
	}
	if factor < 0 {
		return 0
	}
	return factor
}

// RangeOf returns the position range constraint for ref, if any.
func (s *Set) RangeOf(ref shape.PointRef) (Range, bool) {
	r, ok := s.ranges[ref]
	return r, ok
}

// HasRanges reports whether any position range constraint exists.
func (s *Set) HasRanges() bool { return len(s.ranges) > 0 }

// RangedRefs returns the addresses that carry a position range and appear
// in moves.
func (s *Set) RangedRefs(moves map[shape.PointRef]geom.Vec2) []shape.PointRef {
	var out []shape.PointRef
	for ref := range moves {
		if _, ok := s.ranges[ref]; ok {
			out = append(out, ref)
		}
	}
	slices.SortFunc(out, shape.PointRef.Cmp)
	return out
}

func refAlive(r shape.PointRef, removedShape int) bool { return r.Shape != removedShape }

// DropShape removes every constraint that references an address on shape
// index i.
func (s *Set) DropShape(i int) {
	s.filter(func(c Constraint) bool {
		switch c := c.(type) {
		case LinkBidirectional:
			return refAlive(c.A, i) && refAlive(c.B, i)
		case LinkFromTo:
			return refAlive(c.From, i) && refAlive(c.To, i)
		case PositionRange:
			return refAlive(c.Ref, i)
		}
		return true
	})
}

// ShiftAfterPointRemoval re-keys constraints on shape i after the point
// at index p was removed; constraints referencing the removed point are
// dropped.
func (s *Set) ShiftAfterPointRemoval(i, p int) {
	alive := true
	remap := func(r shape.PointRef) shape.PointRef {
		if r.Shape == i {
			if r.Point == p {
				alive = false
			} else if r.Point > p {
				r.Point--
			}
		}
		return r
	}
	s.remapAll(remap, &alive)
}

// ShiftAfterPointInsertion re-keys constraints on shape i after a point
// was inserted at index p.
func (s *Set) ShiftAfterPointInsertion(i, p int) {
	alive := true
	remap := func(r shape.PointRef) shape.PointRef {
		if r.Shape == i && r.Point >= p {
			r.Point++
		}
		return r
	}
	s.remapAll(remap, &alive)
}

func (s *Set) remapAll(remap func(shape.PointRef) shape.PointRef, alive *bool) {
	out := s.constraints[:0]
	for _, c := range s.constraints {
		*alive = true
		var mapped Constraint
		switch c := c.(type) {
		case LinkBidirectional:
			mapped = LinkBidirectional{A: remap(c.A), B: remap(c.B)}
		case LinkFromTo:
			mapped = LinkFromTo{From: remap(c.From), To: remap(c.To)}
		case PositionRange:
			mapped = PositionRange{Ref: remap(c.Ref), Range: c.Range}
		default:
			mapped = c
		}
		if *alive {
			out = append(out, mapped)
		}
	}
	s.constraints = out
	s.rebuild()
}

func (s *Set) filter(keep func(Constraint) bool) {
	out := s.constraints[:0]
	for _, c := range s.constraints {
		if keep(c) {
			out = append(out, c)
		}
	}
	s.constraints = out
	s.rebuild()
}
