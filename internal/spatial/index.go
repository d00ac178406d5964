/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package spatial

import (
	"slices"

	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

// Index is a point lookup structure collected from one snapshot of a
// shape tree. It is rebuilt whenever the tree changes; queries between
// rebuilds see the snapshot, not the live tree.
type Index struct {
	refs   []shape.PointRef
	points map[shape.PointRef]shape.ControlPoint
	kinds  map[int]shape.Kind
	x, y   AxisIndex[shape.PointRef]
}

// Collect walks the tree and indexes every control point.
func Collect(root shape.Shape) *Index {
	idx := &Index{
		points: make(map[shape.PointRef]shape.ControlPoint),
		kinds:  make(map[int]shape.Kind),
	}
	shape.EachControlPoint(root, func(ref shape.PointRef, kind shape.Kind, cp shape.ControlPoint) bool {
		idx.refs = append(idx.refs, ref)
		idx.points[ref] = cp
		idx.kinds[ref.Shape] = kind
		idx.x.Insert(cp.Pos.X, ref)
		idx.y.Insert(cp.Pos.Y, ref)
		return false
	})
	return idx
}

// Len returns the number of indexed points.
func (idx *Index) Len() int { return len(idx.refs) }

// At returns the control point stored for ref.
func (idx *Index) At(ref shape.PointRef) (shape.ControlPoint, bool) {
	cp, ok := idx.points[ref]
	return cp, ok
}

// PosOf returns the position stored for ref.
func (idx *Index) PosOf(ref shape.PointRef) (geom.Vec2, bool) {
	cp, ok := idx.points[ref]
	return cp.Pos, ok
}

// KindAt returns the kind of the shape at the given shape index.
func (idx *Index) KindAt(shapeIndex int) (shape.Kind, bool) {
	k, ok := idx.kinds[shapeIndex]
	return k, ok
}

// Last returns the highest point address in the snapshot.
func (idx *Index) Last() (shape.PointRef, bool) {
	if len(idx.refs) == 0 {
		return shape.PointRef{}, false
	}
	return idx.refs[len(idx.refs)-1], true
}

// Each visits every point in address order.
func (idx *Index) Each(fn func(ref shape.PointRef, cp shape.ControlPoint) bool) {
	for _, ref := range idx.refs {
		if fn(ref, idx.points[ref]) {
			return
		}
	}
}

// InRadius returns every point within Euclidean distance r of center.
// With r zero only exactly co-located points match.
func (idx *Index) InRadius(center geom.Vec2, r float32) map[shape.PointRef]shape.ControlPoint {
	out := make(map[shape.PointRef]shape.ControlPoint)
	if r < 0 {
		return out
	}
	idx.x.Visit(center.X-r, center.X+r, func(_ float32, refs []shape.PointRef) bool {
		for _, ref := range refs {
			cp := idx.points[ref]
			if cp.Pos.Distance(center) <= r {
				out[ref] = cp
			}
		}
		return false
	})
	return out
}

// InRect returns the addresses of all points inside r, bounds inclusive,
// in address order.
func (idx *Index) InRect(r geom.Rect) []shape.PointRef {
	r = r.Normalized()
	var out []shape.PointRef
	idx.x.Visit(r.Min.X, r.Max.X, func(_ float32, refs []shape.PointRef) bool {
		for _, ref := range refs {
			y := idx.points[ref].Pos.Y
			if y >= r.Min.Y && y <= r.Max.Y {
				out = append(out, ref)
			}
		}
		return false
	})
	slices.SortFunc(out, shape.PointRef.Cmp)
	return out
}

// SnapX finds the nearest indexed x coordinate within maxDist of v,
// skipping the ignored addresses, and returns it together with every
// non-ignored point sitting on that coordinate.
func (idx *Index) SnapX(v, maxDist float32, ignore map[shape.PointRef]struct{}) (float32, []shape.PointRef, bool) {
	return idx.x.ClosestWithin(v, maxDist, ignoreFunc(ignore))
}

// SnapY is SnapX for the y axis.
func (idx *Index) SnapY(v, maxDist float32, ignore map[shape.PointRef]struct{}) (float32, []shape.PointRef, bool) {
	return idx.y.ClosestWithin(v, maxDist, ignoreFunc(ignore))
}

func ignoreFunc(ignore map[shape.PointRef]struct{}) func(shape.PointRef) bool {
	if len(ignore) == 0 {
		return nil
	}
	return func(r shape.PointRef) bool {
		_, ok := ignore[r]
		return ok
	}
}

// HandleAnchoredAt returns the position of the first handle connected to
// the given primary point, in address order.
func (idx *Index) HandleAnchoredAt(ref shape.PointRef) (geom.Vec2, bool) {
	for _, r := range idx.refs {
		cp := idx.points[r]
		if _, ok := cp.Connected[ref]; ok {
			return cp.Pos, true
		}
	}
	return geom.Vec2{}, false
}
