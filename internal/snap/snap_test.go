/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"testing"

	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
	"goshapestudio/internal/spatial"
)

// unitGrid covers content (0,0)-(100,100) at scale 1, so the step is 50:
// a zero line at 0, a primary at 50, secondaries at 25 and 75, and sub
// lines on the sixths of each step.
func unitGrid() *Grid {
	return FromTransform(geom.Identity(), geom.Rect{Max: geom.V(100, 100)})
}

func indexOf(shapes ...shape.Shape) *spatial.Index {
	return spatial.Collect(&shape.Group{Children: shapes})
}

func TestStepFollowsScaleOrders(t *testing.T) {
	cases := []struct{ scale, want float32 }{
		{1, 50},
		{5, 10},
		{25, 2},
		{0.2, 250},
		{0, 50},
	}
	for _, c := range cases {
		if got := Step(c.scale); got != c.want {
			t.Fatalf("Step(%v) = %v, want %v", c.scale, got, c.want)
		}
	}
}

func TestGridLineKindsAndCounts(t *testing.T) {
	g := unitGrid()

	countKinds := func(visit func(lo, hi float32, fn func(float32, []LineKind) bool)) map[LineKind]int {
		counts := make(map[LineKind]int)
		visit(0, 100, func(_ float32, kinds []LineKind) bool {
			for _, k := range kinds {
				counts[k]++
			}
			return false
		})
		return counts
	}

	for axis, counts := range map[string]map[LineKind]int{"x": countKinds(g.VisitX), "y": countKinds(g.VisitY)} {
		if counts[LineZero] != 1 || counts[LinePrimary] != 1 || counts[LineSecondary] != 2 || counts[LineSub] != 8 {
			t.Fatalf("%s axis line counts = %v, want zero:1 primary:1 secondary:2 sub:8", axis, counts)
		}
	}

	g.VisitX(0, 0, func(x float32, kinds []LineKind) bool {
		if len(kinds) != 1 || kinds[0] != LineZero {
			t.Fatalf("kinds at x=0: %v, want [LineZero]", kinds)
		}
		return false
	})
	g.VisitX(50, 50, func(x float32, kinds []LineKind) bool {
		if len(kinds) != 1 || kinds[0] != LinePrimary {
			t.Fatalf("kinds at x=50: %v, want [LinePrimary]", kinds)
		}
		return false
	})
}

func TestGridCoversTranslatedViewport(t *testing.T) {
	view := geom.Transform{Translation: geom.V(200, 200), Scale: 1}
	g := FromTransform(view, geom.Rect{Max: geom.V(100, 100)})

	counts := make(map[LineKind]int)
	g.VisitX(-200, -100, func(_ float32, kinds []LineKind) bool {
		for _, k := range kinds {
			counts[k]++
		}
		return false
	})
	if counts[LineZero] != 0 || counts[LinePrimary] != 2 || counts[LineSecondary] != 2 || counts[LineSub] != 8 {
		t.Fatalf("line counts = %v, want zero:0 primary:2 secondary:2 sub:8", counts)
	}

	if v, ok := g.SnapX(-148, 5); !ok || v != -150 {
		t.Fatalf("SnapX(-148) = %v, %v, want -150", v, ok)
	}
}

func TestGridStepShrinksWhenZoomedIn(t *testing.T) {
	view := geom.Transform{Scale: 5}
	g := FromTransform(view, geom.Rect{Max: geom.V(100, 100)})

	if v, ok := g.SnapX(9.5, 1); !ok || v != 10 {
		t.Fatalf("SnapX(9.5) = %v, %v, want primary at 10", v, ok)
	}
	if v, ok := g.SnapX(5, 0); !ok || v != 5 {
		t.Fatalf("SnapX(5) = %v, %v, want secondary at 5", v, ok)
	}
}

func TestGridSnapSkipsSubLines(t *testing.T) {
	g := unitGrid()

	if v, ok := g.SnapX(8, 2); ok {
		t.Fatalf("SnapX(8, 2) = %v, want no snap near the sub line", v)
	}
	if v, ok := g.SnapX(8, 10); !ok || v != 0 {
		t.Fatalf("SnapX(8, 10) = %v, %v, want the zero line", v, ok)
	}
	if v, ok := g.SnapX(24, 5); !ok || v != 25 {
		t.Fatalf("SnapX(24, 5) = %v, %v, want the secondary at 25", v, ok)
	}
}

func TestUpdatePrefersCloserCandidatePerAxis(t *testing.T) {
	idx := indexOf(&shape.LineSegment{Points: [2]geom.Vec2{geom.V(10, 5), geom.V(70, 80)}})

	var info Info
	info.Update(geom.V(9, 5), 5, unitGrid(), idx, nil)

	if info.Point == nil || *info.Point != geom.V(10, 5) {
		t.Fatalf("snap point = %v, want (10,5)", info.Point)
	}
	if len(info.Targets) != 2 {
		t.Fatalf("targets = %v, want one point target per axis", info.Targets)
	}
	for _, tg := range info.Targets {
		if tg.Kind != TargetPoint || tg.Pos != geom.V(10, 5) {
			t.Fatalf("unexpected target %+v", tg)
		}
	}
}

func TestUpdateTieResolvesToPointAndRecordsBoth(t *testing.T) {
	// Both endpoints share x=40; the probe at x=45 is exactly 5 from the
	// point column and 5 from the primary grid line at 50.
	idx := indexOf(&shape.LineSegment{Points: [2]geom.Vec2{geom.V(40, 1000), geom.V(40, 2000)}})

	var info Info
	info.Update(geom.V(45, 12.4), 5, unitGrid(), idx, nil)

	if info.Point == nil || *info.Point != geom.V(40, 12.4) {
		t.Fatalf("snap point = %v, want the point column at x=40", info.Point)
	}
	var gridTargets, pointTargets int
	for _, tg := range info.Targets {
		switch tg.Kind {
		case TargetGridX:
			gridTargets++
			if tg.Line != 50 {
				t.Fatalf("grid target at %v, want 50", tg.Line)
			}
		case TargetPoint:
			pointTargets++
			if tg.Pos.X != 40 {
				t.Fatalf("point target at %v, want x=40", tg.Pos)
			}
		default:
			t.Fatalf("unexpected target %+v", tg)
		}
	}
	if pointTargets != 2 || gridTargets != 1 {
		t.Fatalf("targets = %v, want both co-located points and the grid line", info.Targets)
	}
}

func TestUpdateSnapsToGridWhenCloser(t *testing.T) {
	idx := indexOf(&shape.LineSegment{Points: [2]geom.Vec2{geom.V(40, 1000), geom.V(40, 2000)}})

	var info Info
	info.Update(geom.V(46, 12.4), 10, unitGrid(), idx, nil)

	if info.Point == nil || *info.Point != geom.V(50, 12.4) {
		t.Fatalf("snap point = %v, want the grid line at x=50", info.Point)
	}
	if len(info.Targets) != 1 || info.Targets[0].Kind != TargetGridX || info.Targets[0].Line != 50 {
		t.Fatalf("targets = %v, want only the grid line", info.Targets)
	}
}

func TestUpdateIgnoresSelectedPoints(t *testing.T) {
	idx := indexOf(&shape.LineSegment{Points: [2]geom.Vec2{geom.V(10, 10), geom.V(30, 10)}})
	sel := shape.SelectionOf(shape.Ref(0, 0))

	var info Info
	info.Update(geom.V(11, 10), 5, unitGrid(), idx, &sel)

	if info.Point == nil || *info.Point != geom.V(11, 10) {
		t.Fatalf("snap point = %v, want x unsnapped and y on the unselected point", info.Point)
	}
	if len(info.Targets) != 1 || info.Targets[0] != PointTarget(geom.V(30, 10)) {
		t.Fatalf("targets = %v, want only the unselected point", info.Targets)
	}
}

func TestManualGuidePinsAxis(t *testing.T) {
	guide := float32(33)
	info := Info{ManualX: &guide}

	info.Update(geom.V(10, 12.4), 5, unitGrid(), nil, nil)
	if info.Point == nil || *info.Point != geom.V(33, 12.4) {
		t.Fatalf("snap point = %v, want x pinned to the guide", info.Point)
	}

	// An exact grid hit still beats the pin.
	info.Update(geom.V(50, 12.4), 5, unitGrid(), nil, nil)
	if info.Point == nil || *info.Point != geom.V(50, 12.4) {
		t.Fatalf("snap point = %v, want the exact grid line at 50", info.Point)
	}
}

func TestUpdateWithNoCandidatesClearsPoint(t *testing.T) {
	g := unitGrid()
	idx := indexOf(&shape.Empty{})

	var info Info
	info.Update(geom.V(50, 50), 5, g, idx, nil)
	if info.Point == nil {
		t.Fatalf("expected a grid snap at (50,50)")
	}

	info.Update(geom.V(12.4, 12.4), 1, g, idx, nil)
	if info.Point != nil || len(info.Targets) != 0 {
		t.Fatalf("point = %v targets = %v, want none", info.Point, info.Targets)
	}
}

func TestPointOrFallsBack(t *testing.T) {
	var info Info
	if got := info.PointOr(geom.V(3, 4)); got != geom.V(3, 4) {
		t.Fatalf("PointOr = %v, want the fallback", got)
	}
	p := geom.V(1, 2)
	info.Point = &p
	if got := info.PointOr(geom.V(3, 4)); got != geom.V(1, 2) {
		t.Fatalf("PointOr = %v, want the snap point", got)
	}
}

func TestClearDropsManualGuides(t *testing.T) {
	guide := float32(10)
	info := Info{ManualX: &guide, ManualY: &guide}

	info.Update(geom.V(1, 2), 5, nil, nil, nil)
	if info.Point == nil || *info.Point != geom.V(10, 10) {
		t.Fatalf("snap point = %v, want both axes pinned", info.Point)
	}

	info.Clear()
	if info.Point != nil || info.ManualX != nil || info.ManualY != nil || info.Targets != nil {
		t.Fatalf("state after clear: %+v", info)
	}

	info.Update(geom.V(1, 2), 5, nil, nil, nil)
	if info.Point != nil {
		t.Fatalf("snap point after clear = %v, want none", info.Point)
	}
}
