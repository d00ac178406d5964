/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package action

import (
	"reflect"
	"testing"

	"goshapestudio/internal/constraint"
	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

var testStroke = shape.Stroke{Width: 1, Color: shape.Black}

func lineBetween(a, b geom.Vec2) *shape.LineSegment {
	return &shape.LineSegment{Points: [2]geom.Vec2{a, b}, Stroke: testStroke}
}

func pathThrough(points ...geom.Vec2) *shape.Path {
	return &shape.Path{Points: points, Stroke: testStroke}
}

func envOf(root shape.Shape) (*Env, *shape.Shape) {
	r := root
	return &Env{Root: &r}, &r
}

func TestInsertIntoEmptyRootAndUndoTwice(t *testing.T) {
	env, root := envOf(&shape.Empty{})

	undoInsert := Apply(InsertShape{Shape: lineBetween(geom.V(0, 0), geom.V(10, 0))}, env)
	group, ok := (*root).(*shape.Group)
	if !ok {
		t.Fatalf("root after insert = %T, want group", *root)
	}
	if len(group.Children) != 1 {
		t.Fatalf("group has %d children, want 1", len(group.Children))
	}
	line, ok := group.Children[0].(*shape.LineSegment)
	if !ok {
		t.Fatalf("child = %T, want line segment", group.Children[0])
	}

	undoMove := Apply(MoveShapePoints{Translations: map[shape.PointRef]geom.Vec2{
		shape.Ref(0, 1): geom.V(0, 5),
	}}, env)
	if got := line.Points[1]; got != geom.V(10, 5) {
		t.Fatalf("endpoint after move = %v, want (10,5)", got)
	}

	Apply(undoMove, env)
	if got := line.Points[1]; got != geom.V(10, 0) {
		t.Fatalf("endpoint after undo = %v, want (10,0)", got)
	}
	Apply(undoInsert, env)
	if _, ok := (*root).(*shape.Empty); !ok {
		t.Fatalf("root after second undo = %T, want empty", *root)
	}
}

func TestInsertOnLeafRootWrapsThenUnwraps(t *testing.T) {
	first := lineBetween(geom.V(0, 0), geom.V(1, 1))
	env, root := envOf(first)

	undo := Apply(InsertShape{Shape: &shape.Circle{Center: geom.V(5, 5), Radius: 2, Stroke: testStroke}}, env)
	group, ok := (*root).(*shape.Group)
	if !ok || len(group.Children) != 2 {
		t.Fatalf("root after insert = %T, want group with 2 children", *root)
	}
	if group.Children[0] != shape.Shape(first) {
		t.Fatalf("existing shape must stay at index 0")
	}

	Apply(undo, env)
	if *root != shape.Shape(first) {
		t.Fatalf("undo must unwrap the group back to the original leaf, got %T", *root)
	}
}

func TestInsertReplaceSwapsShapeAndInverseCarriesDisplaced(t *testing.T) {
	displaced := pathThrough(geom.V(0, 0), geom.V(1, 0), geom.V(2, 0))
	env, root := envOf(&shape.Group{Children: []shape.Shape{
		lineBetween(geom.V(0, 0), geom.V(1, 1)),
		displaced,
	}})
	before := shape.Clone(*root)

	at := 1
	circle := &shape.Circle{Center: geom.V(3, 3), Radius: 1, Stroke: testStroke}
	undo := Apply(InsertShape{Shape: circle, Replace: &at}, env)

	swapped, _ := shape.ShapeAt(*root, 1)
	if swapped != shape.Shape(circle) {
		t.Fatalf("shape 1 after replace = %T, want the inserted circle", swapped)
	}
	inv, ok := undo.(InsertShape)
	if !ok || inv.Replace == nil || *inv.Replace != 1 || inv.Shape != shape.Shape(displaced) {
		t.Fatalf("inverse = %#v, want insert of the displaced path at 1", undo)
	}

	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("undo did not restore the original tree")
	}
}

func TestInsertReplaceMissingIndexIsNoop(t *testing.T) {
	env, root := envOf(lineBetween(geom.V(0, 0), geom.V(1, 1)))
	before := shape.Clone(*root)

	at := 9
	undo := Apply(InsertShape{Shape: &shape.Empty{}, Replace: &at}, env)
	if _, ok := undo.(Noop); !ok {
		t.Fatalf("inverse = %T, want noop", undo)
	}
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("tree changed by a replace at a missing index")
	}
}

func TestMoveInverseRestoresTree(t *testing.T) {
	env, root := envOf(&shape.Group{Children: []shape.Shape{
		pathThrough(geom.V(0, 0), geom.V(5, 0), geom.V(10, 0)),
		lineBetween(geom.V(1, 1), geom.V(2, 2)),
	}})
	before := shape.Clone(*root)

	undo := Apply(MoveAll([]shape.PointRef{shape.Ref(0, 0), shape.Ref(0, 2), shape.Ref(1, 1)}, geom.V(3, -2)), env)

	p, _ := shape.ShapeAt(*root, 0)
	if got := p.(*shape.Path).Points[2]; got != geom.V(13, -2) {
		t.Fatalf("path point 2 = %v, want (13,-2)", got)
	}
	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("tree differs after undo")
	}
}

func TestMoveCenterSuppressesHandleTranslation(t *testing.T) {
	circle := &shape.Circle{Center: geom.V(10, 20), Radius: 5, Stroke: testStroke}
	env, _ := envOf(circle)

	undo := Apply(MoveShapePoints{Translations: map[shape.PointRef]geom.Vec2{
		shape.Ref(0, 0): geom.V(3, 4),
		shape.Ref(0, 1): geom.V(100, 100),
	}}, env)

	if circle.Center != geom.V(13, 24) {
		t.Fatalf("center = %v, want (13,24)", circle.Center)
	}
	if circle.Radius != 5 {
		t.Fatalf("radius = %v, want 5: the handle translation must be suppressed", circle.Radius)
	}

	Apply(undo, env)
	if circle.Center != geom.V(10, 20) || circle.Radius != 5 {
		t.Fatalf("undo left circle at center %v radius %v", circle.Center, circle.Radius)
	}
}

func TestMoveRadiusHandleResizesAndUndoes(t *testing.T) {
	circle := &shape.Circle{Center: geom.V(10, 20), Radius: 5, Stroke: testStroke}
	env, _ := envOf(circle)

	undo := Apply(MoveAll([]shape.PointRef{shape.Ref(0, 1)}, geom.V(2, 0)), env)
	if circle.Radius != 7 {
		t.Fatalf("radius = %v, want 7", circle.Radius)
	}
	if circle.Center != geom.V(10, 20) {
		t.Fatalf("center moved to %v", circle.Center)
	}
	Apply(undo, env)
	if circle.Radius != 5 {
		t.Fatalf("radius after undo = %v, want 5", circle.Radius)
	}
}

func TestMoveStaleAddressIsSilentlySkipped(t *testing.T) {
	env, root := envOf(lineBetween(geom.V(0, 0), geom.V(1, 1)))
	before := shape.Clone(*root)

	undo := Apply(MoveAll([]shape.PointRef{shape.Ref(5, 0)}, geom.V(9, 9)), env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("tree changed by a move of a stale address")
	}
	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("tree changed by undoing a stale move")
	}
}

func TestMovePropagatesLinkedTranslations(t *testing.T) {
	env, _ := envOf(&shape.Group{Children: []shape.Shape{
		lineBetween(geom.V(0, 0), geom.V(10, 0)),
		lineBetween(geom.V(0, 5), geom.V(10, 5)),
	}})
	var set constraint.Set
	set.Add(constraint.LinkFromTo{From: shape.Ref(0, 0), To: shape.Ref(1, 0)})
	env.Constraints = &set

	Apply(MoveAll([]shape.PointRef{shape.Ref(0, 0)}, geom.V(3, 0)), env)

	a, _ := shape.ShapeAt(*env.Root, 0)
	b, _ := shape.ShapeAt(*env.Root, 1)
	if got := a.(*shape.LineSegment).Points[0]; got != geom.V(3, 0) {
		t.Fatalf("source point = %v, want (3,0)", got)
	}
	if got := b.(*shape.LineSegment).Points[0]; got != geom.V(3, 5) {
		t.Fatalf("linked point = %v, want (3,5)", got)
	}
}

func TestMoveClampScalesWholeBatch(t *testing.T) {
	line := lineBetween(geom.V(0, 0), geom.V(10, 0))
	env, _ := envOf(line)
	var set constraint.Set
	set.Add(constraint.PositionRange{
		Ref:   shape.Ref(0, 0),
		Range: constraint.Range{X: constraint.Axis(-100, 5), Y: constraint.AnyAxis()},
	})
	env.Constraints = &set

	undo := Apply(MoveAll([]shape.PointRef{shape.Ref(0, 0), shape.Ref(0, 1)}, geom.V(10, 0)), env)

	if line.Points[0] != geom.V(5, 0) {
		t.Fatalf("ranged point = %v, want clamped to (5,0)", line.Points[0])
	}
	if line.Points[1] != geom.V(15, 0) {
		t.Fatalf("batch peer = %v, want (15,0): the whole batch scales by the same factor", line.Points[1])
	}
	Apply(undo, env)
	if line.Points[0] != geom.V(0, 0) || line.Points[1] != geom.V(10, 0) {
		t.Fatalf("undo left points at %v and %v", line.Points[0], line.Points[1])
	}
}

func TestRemovePathPointPartialAndUndo(t *testing.T) {
	path := pathThrough(geom.V(0, 0), geom.V(1, 0), geom.V(2, 0), geom.V(3, 0))
	env, root := envOf(path)
	before := shape.Clone(*root)

	sel := shape.SelectionOf(shape.Ref(0, 3))
	env.Selection = &sel

	undo := Apply(RemoveShapePoints{Refs: []shape.PointRef{shape.Ref(0, 1)}}, env)
	if len(path.Points) != 3 {
		t.Fatalf("path has %d points, want 3", len(path.Points))
	}
	if path.Points[1] != geom.V(2, 0) {
		t.Fatalf("point 1 = %v, want (2,0)", path.Points[1])
	}
	if !sel.Contains(shape.Ref(0, 2)) {
		t.Fatalf("selection was not shifted down, refs %v", sel.Refs())
	}
	if _, ok := undo.(AddShapePoints); !ok {
		t.Fatalf("inverse = %T, want add points", undo)
	}

	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("undo did not restore the path")
	}
	if !sel.Contains(shape.Ref(0, 3)) {
		t.Fatalf("selection was not shifted back, refs %v", sel.Refs())
	}
}

func TestRemovePathAtFloorReplacesWithEmpty(t *testing.T) {
	env, root := envOf(pathThrough(geom.V(0, 0), geom.V(1, 0)))
	before := shape.Clone(*root)

	undo := Apply(RemoveShapePoints{Refs: []shape.PointRef{shape.Ref(0, 0)}}, env)
	if _, ok := (*root).(*shape.Empty); !ok {
		t.Fatalf("a path at the 2-point floor must be removed whole, got %T", *root)
	}
	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("undo did not restore the original path")
	}
}

func TestRemoveLineSegmentPointRemovesWholeShape(t *testing.T) {
	circle := &shape.Circle{Center: geom.V(5, 5), Radius: 1, Stroke: testStroke}
	env, root := envOf(&shape.Group{Children: []shape.Shape{
		lineBetween(geom.V(0, 0), geom.V(1, 1)),
		circle,
	}})
	before := shape.Clone(*root)

	undo := Apply(RemoveShapePoints{Refs: []shape.PointRef{shape.Ref(0, 0)}}, env)

	s0, _ := shape.ShapeAt(*root, 0)
	if _, ok := s0.(*shape.Empty); !ok {
		t.Fatalf("shape 0 = %T, want empty placeholder", s0)
	}
	s1, _ := shape.ShapeAt(*root, 1)
	if s1 != shape.Shape(circle) {
		t.Fatalf("the sibling must keep its index")
	}

	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("undo did not restore the removed line")
	}
}

func TestRemoveMeshVertexPairsIndexEntry(t *testing.T) {
	mesh := &shape.Mesh{
		Vertices: []shape.Vertex{
			{Pos: geom.V(0, 0)}, {Pos: geom.V(1, 0)}, {Pos: geom.V(0, 1)}, {Pos: geom.V(1, 1)},
		},
		Indices: []uint32{0, 1, 2, 3},
	}
	env, root := envOf(mesh)
	before := shape.Clone(*root)

	undo := Apply(RemoveShapePoints{Refs: []shape.PointRef{shape.Ref(0, 1)}}, env)
	if len(mesh.Vertices) != 3 || len(mesh.Indices) != 3 {
		t.Fatalf("mesh has %d vertices and %d indices, want 3 and 3", len(mesh.Vertices), len(mesh.Indices))
	}
	if mesh.Indices[1] != 2 {
		t.Fatalf("index entry 1 = %d, want 2", mesh.Indices[1])
	}

	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("undo did not restore vertices and indices")
	}
}

func TestRemoveMeshBelowFloorRemovesWholeShape(t *testing.T) {
	env, root := envOf(&shape.Mesh{
		Vertices: []shape.Vertex{{Pos: geom.V(0, 0)}, {Pos: geom.V(1, 0)}, {Pos: geom.V(0, 1)}},
		Indices:  []uint32{0, 1, 2},
	})
	before := shape.Clone(*root)

	undo := Apply(RemoveShapePoints{Refs: []shape.PointRef{shape.Ref(0, 2)}}, env)
	if _, ok := (*root).(*shape.Empty); !ok {
		t.Fatalf("a mesh at the 3-vertex floor must be removed whole, got %T", *root)
	}
	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("undo did not restore the mesh")
	}
}

func TestRemoveStaleRefsAreNoop(t *testing.T) {
	env, root := envOf(pathThrough(geom.V(0, 0), geom.V(1, 0), geom.V(2, 0)))
	before := shape.Clone(*root)

	undo := Apply(RemoveShapePoints{Refs: []shape.PointRef{shape.Ref(0, 99), shape.Ref(7, 0)}}, env)
	if _, ok := undo.(Noop); !ok {
		t.Fatalf("inverse = %T, want noop", undo)
	}
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("tree changed by removing stale refs")
	}
}

func TestAddPathPointShiftsSelection(t *testing.T) {
	path := pathThrough(geom.V(0, 0), geom.V(2, 0))
	env, root := envOf(path)
	before := shape.Clone(*root)
	sel := shape.SelectionOf(shape.Ref(0, 1))
	env.Selection = &sel

	undo := Apply(SingleAddPoint(shape.Ref(0, 1), PosPoint(geom.V(1, 0))), env)
	if len(path.Points) != 3 || path.Points[1] != geom.V(1, 0) {
		t.Fatalf("points after insert = %v", path.Points)
	}
	if !sel.Contains(shape.Ref(0, 2)) {
		t.Fatalf("selection was not shifted up, refs %v", sel.Refs())
	}
	inv, ok := undo.(RemoveShapePoints)
	if !ok || len(inv.Refs) != 1 || inv.Refs[0] != shape.Ref(0, 1) {
		t.Fatalf("inverse = %#v, want removal of (0,1)", undo)
	}

	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("undo did not remove the added point")
	}
}

func TestAddPointOutOfBoundsIsNoop(t *testing.T) {
	env, root := envOf(pathThrough(geom.V(0, 0), geom.V(1, 0)))
	before := shape.Clone(*root)

	undo := Apply(SingleAddPoint(shape.Ref(0, 9), PosPoint(geom.V(5, 5))), env)
	if _, ok := undo.(Noop); !ok {
		t.Fatalf("inverse = %T, want noop", undo)
	}
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("tree changed by an out-of-bounds insert")
	}
}

func TestCombinedInvertsInReverseOrder(t *testing.T) {
	env, root := envOf(&shape.Empty{})
	before := shape.Clone(*root)

	undo := Apply(Combined{Label: "Create Line", Actions: []Action{
		InsertShape{Shape: lineBetween(geom.V(0, 0), geom.V(0, 0))},
		MoveShapePoints{Translations: map[shape.PointRef]geom.Vec2{shape.Ref(0, 1): geom.V(4, 4)}},
	}}, env)

	combined, ok := undo.(Combined)
	if !ok {
		t.Fatalf("inverse = %T, want combined", undo)
	}
	if combined.Label != "Undo Create Line" {
		t.Fatalf("inverse label = %q", combined.Label)
	}
	if _, ok := combined.Actions[0].(MoveShapePoints); !ok {
		t.Fatalf("inverse must undo the move first, got %T", combined.Actions[0])
	}
	if _, ok := combined.Actions[1].(RemoveLastShape); !ok {
		t.Fatalf("inverse must remove the inserted shape last, got %T", combined.Actions[1])
	}

	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("combined undo did not restore the empty root")
	}
}

func TestReplaceShapesSwapsByIndex(t *testing.T) {
	env, root := envOf(&shape.Group{Children: []shape.Shape{
		lineBetween(geom.V(0, 0), geom.V(1, 1)),
		lineBetween(geom.V(2, 2), geom.V(3, 3)),
	}})
	before := shape.Clone(*root)

	undo := Apply(ReplaceShapes{Shapes: map[int]shape.Shape{
		1: &shape.Text{Pos: geom.V(9, 9), Text: "label", Size: 12},
	}}, env)

	s1, _ := shape.ShapeAt(*root, 1)
	if _, ok := s1.(*shape.Text); !ok {
		t.Fatalf("shape 1 = %T, want text", s1)
	}
	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("undo did not restore the replaced shape")
	}
}

func TestRemoveLastOnNonGroupRootIsNoop(t *testing.T) {
	env, root := envOf(lineBetween(geom.V(0, 0), geom.V(1, 1)))
	before := shape.Clone(*root)

	undo := Apply(RemoveLastShape{}, env)
	if _, ok := undo.(Noop); !ok {
		t.Fatalf("inverse = %T, want noop", undo)
	}
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("tree changed by removing from a non-group root")
	}
}

func TestRemoveLastDropsTrailingSelection(t *testing.T) {
	env, _ := envOf(&shape.Group{Children: []shape.Shape{
		lineBetween(geom.V(0, 0), geom.V(1, 1)),
		lineBetween(geom.V(2, 2), geom.V(3, 3)),
	}})
	sel := shape.SelectionOf(shape.Ref(0, 0), shape.Ref(1, 1))
	env.Selection = &sel

	Apply(RemoveLastShape{}, env)
	if sel.Contains(shape.Ref(1, 1)) {
		t.Fatalf("selection still references the removed shape")
	}
	if !sel.Contains(shape.Ref(0, 0)) {
		t.Fatalf("selection on the surviving shape was dropped")
	}
}

func TestNameLabels(t *testing.T) {
	cases := []struct {
		action Action
		want   string
	}{
		{Noop{}, "None"},
		{Combined{Label: "Create Rect"}, "Create Rect"},
		{MoveShapePoints{}, "Move"},
		{InsertShape{}, "Insert Shape"},
		{RemoveLastShape{}, "Remove Shape"},
		{ReplaceShapes{}, "Replace Shapes"},
		{RemoveShapePoints{}, "Remove points"},
		{AddShapePoints{}, "Add points"},
		{ApplyShapeParams{}, "Update Parameters"},
	}
	for _, tc := range cases {
		if got := Name(tc.action); got != tc.want {
			t.Fatalf("Name(%T) = %q, want %q", tc.action, got, tc.want)
		}
	}
}

func TestBezierContinuationMirrorsTangent(t *testing.T) {
	prev := geom.V(-1, 0)
	ins := InsertCubicBezier(geom.V(0, 0), &prev, geom.V(9, 0), testStroke)
	cubic, ok := ins.Shape.(*shape.CubicBezier)
	if !ok {
		t.Fatalf("shape = %T, want cubic bezier", ins.Shape)
	}
	want := [4]geom.Vec2{geom.V(0, 0), geom.V(3, 0), geom.V(6, 0), geom.V(9, 0)}
	if cubic.Points != want {
		t.Fatalf("cubic points = %v, want %v", cubic.Points, want)
	}
	if cubic.Closed || cubic.Fill != shape.Transparent {
		t.Fatalf("continuation must be open with transparent fill")
	}

	quad := InsertQuadraticBezier(geom.V(0, 0), &prev, geom.V(9, 0), testStroke).Shape.(*shape.QuadraticBezier)
	if quad.Points[1] != geom.V(3, 0) {
		t.Fatalf("quad control = %v, want (3,0)", quad.Points[1])
	}
}

func TestBezierContinuationDegenerateInputs(t *testing.T) {
	// No previous control: the start control collapses onto the start.
	quad := InsertQuadraticBezier(geom.V(2, 2), nil, geom.V(2, 2), testStroke).Shape.(*shape.QuadraticBezier)
	if quad.Points[1] != geom.V(2, 2) {
		t.Fatalf("quad control = %v, want the start point", quad.Points[1])
	}

	// Zero-length tangent: normalization falls back to a zero vector.
	prev := geom.V(0, 0)
	cubic := InsertCubicBezier(geom.V(0, 0), &prev, geom.V(6, 0), testStroke).Shape.(*shape.CubicBezier)
	if !cubic.Points[1].Finite() || !cubic.Points[2].Finite() {
		t.Fatalf("degenerate continuation produced non-finite controls: %v", cubic.Points)
	}
	if cubic.Points[1] != geom.V(0, 0) {
		t.Fatalf("zero tangent must leave the start control at start, got %v", cubic.Points[1])
	}
}

func TestInsertRectNormalizesCorners(t *testing.T) {
	r := InsertRect(geom.V(10, 2), geom.V(4, 8), testStroke).Shape.(*shape.Rect)
	if r.Min != geom.V(4, 2) || r.Max != geom.V(10, 8) {
		t.Fatalf("rect corners = %v %v, want (4,2) (10,8)", r.Min, r.Max)
	}
}

func TestActionJSONRoundTrip(t *testing.T) {
	at := 2
	actions := []Action{
		Noop{},
		MoveShapePoints{Translations: map[shape.PointRef]geom.Vec2{
			shape.Ref(0, 1): geom.V(3, -2),
			shape.Ref(4, 0): geom.V(0, 7),
		}},
		InsertShape{Shape: lineBetween(geom.V(0, 0), geom.V(10, 0))},
		InsertShape{Shape: &shape.Circle{Center: geom.V(1, 1), Radius: 4, Stroke: testStroke}, Replace: &at},
		RemoveLastShape{UnwrapGroup: true},
		RemoveLastShape{RootWasEmpty: true},
		ReplaceShapes{Shapes: map[int]shape.Shape{
			0: &shape.Empty{},
			3: pathThrough(geom.V(0, 0), geom.V(1, 1)),
		}},
		RemoveShapePoints{Refs: []shape.PointRef{shape.Ref(0, 0), shape.Ref(2, 5)}},
		AddShapePoints{Points: map[int]map[int]PointValue{
			1: {0: PosPoint(geom.V(5, 5))},
			2: {3: VertexPoint(shape.Vertex{Pos: geom.V(1, 2), UV: geom.V(0.5, 0.5), Color: shape.White}, 7)},
		}},
		ApplyShapeParams{Params: map[int]map[ParamKind]ParamValue{
			0: {
				ParamStrokeColor: ColorValue{Color: shape.Color{R: 255, A: 255}},
				ParamStrokeWidth: Float(2.5),
				ParamClosed:      BoolValue{Bool: true},
			},
			4: {
				ParamRounding: RoundingValue{Rounding: shape.Rounding{NW: 1, SE: 2}},
				ParamTexture:  TextureValue{Texture: "paper"},
				ParamRadius:   Float(9),
				ParamFillColor: ColorValue{
					Color: shape.Color{G: 128, A: 255},
				},
			},
		}},
		Combined{Label: "Create Line", Actions: []Action{
			InsertShape{Shape: lineBetween(geom.V(0, 0), geom.V(0, 0))},
			MoveShapePoints{Translations: map[shape.PointRef]geom.Vec2{shape.Ref(0, 1): geom.V(4, 4)}},
		}},
	}

	for _, a := range actions {
		data, err := MarshalAction(a)
		if err != nil {
			t.Fatalf("marshal %T: %v", a, err)
		}
		back, err := UnmarshalAction(data)
		if err != nil {
			t.Fatalf("unmarshal %T: %v\n%s", a, err, data)
		}
		if !reflect.DeepEqual(back, a) {
			t.Fatalf("round trip of %T:\n got %#v\nwant %#v", a, back, a)
		}
	}
}

func TestUnmarshalActionRejectsUnknownKind(t *testing.T) {
	if _, err := UnmarshalAction([]byte(`{"kind":"teleport"}`)); err == nil {
		t.Fatalf("unknown action kind must be rejected")
	}
}
