/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package spatial

import (
	"math"
	"reflect"
	"testing"

	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

func TestAxisIndexKeepsKeysSortedAndDeduped(t *testing.T) {
	var a AxisIndex[int]
	a.Insert(3, 30)
	a.Insert(1, 10)
	a.Insert(2, 20)
	a.Insert(1, 11)
	a.Insert(1, 10)

	var keys []float32
	var vals [][]int
	a.Visit(float32(math.Inf(-1)), float32(math.Inf(1)), func(k float32, v []int) bool {
		keys = append(keys, k)
		vals = append(vals, v)
		return false
	})
	if !reflect.DeepEqual(keys, []float32{1, 2, 3}) {
		t.Fatalf("keys: got %v", keys)
	}
	if !reflect.DeepEqual(vals[0], []int{10, 11}) {
		t.Fatalf("values at 1: got %v", vals[0])
	}
	if a.Len() != 3 {
		t.Fatalf("len: got %d, want 3", a.Len())
	}
}

func TestClosestWithinTiePrefersLowerKey(t *testing.T) {
	var a AxisIndex[int]
	a.Insert(9, 1)
	a.Insert(11, 2)
	k, vals, ok := a.ClosestWithin(10, 5, nil)
	if !ok || k != 9 {
		t.Fatalf("tie: got key %v ok %v, want 9", k, ok)
	}
	if !reflect.DeepEqual(vals, []int{1}) {
		t.Fatalf("tie values: got %v", vals)
	}
}

func TestClosestWithinSkipsFullyIgnoredKeys(t *testing.T) {
	var a AxisIndex[int]
	a.Insert(10, 1)
	a.Insert(13, 2)
	k, vals, ok := a.ClosestWithin(10, 5, func(v int) bool { return v == 1 })
	if !ok || k != 13 {
		t.Fatalf("got key %v ok %v, want 13", k, ok)
	}
	if !reflect.DeepEqual(vals, []int{2}) {
		t.Fatalf("values: got %v", vals)
	}
}

func TestClosestWithinZeroDistanceExactOnly(t *testing.T) {
	var a AxisIndex[int]
	a.Insert(5, 1)
	if _, _, ok := a.ClosestWithin(5.001, 0, nil); ok {
		t.Fatalf("zero distance must only match the exact coordinate")
	}
	k, _, ok := a.ClosestWithin(5, 0, nil)
	if !ok || k != 5 {
		t.Fatalf("exact match failed: %v %v", k, ok)
	}
}

func TestNaNKeyStoredUnderMaxSentinel(t *testing.T) {
	var a AxisIndex[int]
	a.Insert(float32(math.NaN()), 7)
	k, vals, ok := a.ClosestWithin(math.MaxFloat32, 0, nil)
	if !ok || k != math.MaxFloat32 {
		t.Fatalf("sentinel lookup: got %v %v", k, ok)
	}
	if !reflect.DeepEqual(vals, []int{7}) {
		t.Fatalf("sentinel values: got %v", vals)
	}
}

func TestInRadiusUsesTrueDistance(t *testing.T) {
	root := &shape.Path{Points: []geom.Vec2{
		geom.V(0, 0),
		geom.V(3, 4),
		geom.V(5, 4.9),
	}}
	got := Collect(root).InRadius(geom.V(0, 0), 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %d: %v", len(got), got)
	}
	if _, ok := got[shape.Ref(0, 0)]; !ok {
		t.Fatalf("missing the origin point")
	}
	if _, ok := got[shape.Ref(0, 1)]; !ok {
		t.Fatalf("point at exact radius 5 must be included")
	}
	if _, ok := got[shape.Ref(0, 2)]; ok {
		t.Fatalf("point inside the x band but outside the radius must be excluded")
	}
}

func TestInRadiusZeroMatchesCoLocatedOnly(t *testing.T) {
	root := &shape.Path{Points: []geom.Vec2{geom.V(1, 1), geom.V(1, 1), geom.V(1, 1.0001)}}
	got := Collect(root).InRadius(geom.V(1, 1), 0)
	if len(got) != 2 {
		t.Fatalf("expected the 2 co-located points, got %d", len(got))
	}
}

func TestInRectInclusiveBounds(t *testing.T) {
	root := &shape.Path{Points: []geom.Vec2{
		geom.V(0, 0), geom.V(10, 10), geom.V(10.001, 5), geom.V(5, 5),
	}}
	got := Collect(root).InRect(geom.Rect{Min: geom.V(0, 0), Max: geom.V(10, 10)})
	want := []shape.PointRef{shape.Ref(0, 0), shape.Ref(0, 1), shape.Ref(0, 3)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("in rect: got %v, want %v", got, want)
	}
}

func TestSnapXReturnsEveryPointOnTheCoordinate(t *testing.T) {
	root := &shape.Group{Children: []shape.Shape{
		&shape.Path{Points: []geom.Vec2{geom.V(10, 0), geom.V(10, 5), geom.V(20, 0)}},
	}}
	v, refs, ok := Collect(root).SnapX(11, 3, nil)
	if !ok || v != 10 {
		t.Fatalf("snap x: got %v %v, want 10", v, ok)
	}
	want := []shape.PointRef{shape.Ref(0, 0), shape.Ref(0, 1)}
	if !reflect.DeepEqual(refs, want) {
		t.Fatalf("snap refs: got %v, want %v", refs, want)
	}
}

func TestSnapXIgnoresDraggedPoints(t *testing.T) {
	root := &shape.Path{Points: []geom.Vec2{geom.V(10, 0), geom.V(14, 0)}}
	ignore := map[shape.PointRef]struct{}{shape.Ref(0, 0): {}}
	v, refs, ok := Collect(root).SnapX(11, 5, ignore)
	if !ok || v != 14 {
		t.Fatalf("snap x with ignore: got %v %v, want 14", v, ok)
	}
	if !reflect.DeepEqual(refs, []shape.PointRef{shape.Ref(0, 1)}) {
		t.Fatalf("snap refs: got %v", refs)
	}
}

func TestHandleAnchoredAt(t *testing.T) {
	root := &shape.Circle{Center: geom.V(5, 5), Radius: 3}
	pos, ok := Collect(root).HandleAnchoredAt(shape.Ref(0, 0))
	if !ok || pos != geom.V(8, 5) {
		t.Fatalf("handle: got %v %v, want (8,5)", pos, ok)
	}
	if _, ok := Collect(root).HandleAnchoredAt(shape.Ref(0, 1)); ok {
		t.Fatalf("radius handle has no handle anchored to it")
	}
}

func TestLastAndKindAt(t *testing.T) {
	root := &shape.Group{Children: []shape.Shape{
		&shape.Empty{},
		&shape.Circle{Center: geom.V(0, 0), Radius: 1},
	}}
	idx := Collect(root)
	last, ok := idx.Last()
	if !ok || last != shape.Ref(1, 1) {
		t.Fatalf("last: got %v %v", last, ok)
	}
	k, ok := idx.KindAt(1)
	if !ok || k != shape.KindCircle {
		t.Fatalf("kind at 1: got %v %v", k, ok)
	}
	if _, ok := idx.KindAt(0); ok {
		t.Fatalf("empty shapes expose no points and no kind entry")
	}
}
