//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based UI components. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
//
// Ensure you have the Fyne dependencies installed and a working OS driver.
package ui

import (
	"testing"

	"fyne.io/fyne/v2"

	"goshapestudio/internal/editor"
	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
	"goshapestudio/internal/storage"
	"goshapestudio/internal/stylepack"
)

func newTestCanvas(t *testing.T) (*ShapeCanvas, *storage.DocumentHandle) {
	t.Helper()
	doc := storage.NewDocument("UI Test")
	doc.Root = shape.Tree{Root: &shape.Group{Children: []shape.Shape{
		&shape.LineSegment{Points: [2]geom.Vec2{geom.V(10, 10), geom.V(60, 40)}, Stroke: shape.Stroke{Width: 1, Color: shape.Black}},
		&shape.Circle{Center: geom.V(100, 80), Radius: 20, Stroke: shape.Stroke{Width: 1, Color: shape.Black}},
	}}}
	dh, err := storage.InitDocument(t.TempDir(), doc)
	if err != nil {
		t.Fatalf("init document: %v", err)
	}
	sc := NewShapeCanvas()
	sc.Attach(dh, editor.NewState(), stylepack.DefaultStyle(), editor.NewMemStore())
	return sc, dh
}

func TestShapeCanvas_Defaults(t *testing.T) {
	sc := NewShapeCanvas()
	sz := sc.PreferredSize()
	if sz.Width != 800 || sz.Height != 600 {
		t.Fatalf("unexpected PreferredSize: %v", sz)
	}
	if !sc.showGrid {
		t.Fatalf("expected grid enabled by default")
	}
	if sc.Undo() {
		t.Fatalf("detached canvas should not undo")
	}
}

func TestShapeCanvas_FramePointsFollowTree(t *testing.T) {
	sc, _ := newTestCanvas(t)
	// line: 2 points, circle: center + radius handle
	if got := len(sc.frame.Points); got != 4 {
		t.Fatalf("expected 4 control points in frame, got %d", got)
	}
}

func TestShapeCanvas_TapSelectsAndDeleteRecordsHistory(t *testing.T) {
	sc, _ := newTestCanvas(t)
	// Tap directly on the line's first point (identity view transform).
	sc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(10, 10)})
	if sc.state.Selection.Len() != 1 {
		t.Fatalf("expected one selected point, got %d", sc.state.Selection.Len())
	}
	sc.DeleteSelected()
	if sc.HistoryLen() == 0 {
		t.Fatalf("expected delete to be recorded in history")
	}
	if _, ok := sc.LastActionName(); !ok {
		t.Fatalf("expected a named history entry")
	}
	if !sc.Undo() {
		t.Fatalf("expected undo to revert the delete")
	}
}

func TestShapeCanvas_CreationGesture(t *testing.T) {
	sc, dh := newTestCanvas(t)
	before := shape.CountShapes(dh.Doc.Root.Root)
	if !sc.BeginCreation(2, editor.BuildLineSegment) {
		t.Fatalf("expected creation gesture to start")
	}
	sc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(200, 200)})
	sc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(260, 240)})
	if got := shape.CountShapes(dh.Doc.Root.Root); got != before+1 {
		t.Fatalf("expected %d shapes after creation, got %d", before+1, got)
	}
}

func TestShapeCanvasRenderer_LayoutPaints(t *testing.T) {
	sc, _ := newTestCanvas(t)
	r, ok := sc.CreateRenderer().(*shapeCanvasRenderer)
	if !ok {
		t.Fatalf("expected shapeCanvasRenderer, got %T", sc.CreateRenderer())
	}
	r.Layout(fyne.NewSize(400, 300))
	if len(r.objects) < 2 {
		t.Fatalf("expected painted objects beyond the background, got %d", len(r.objects))
	}
	// The line segment needs at least one line, the circle one circle,
	// the four control points four handle circles.
	if r.usedLines == 0 || r.usedCircles < 5 {
		t.Fatalf("unexpected pool usage: lines=%d circles=%d", r.usedLines, r.usedCircles)
	}
	// Pools shrink by hiding, not shrinking object slices.
	firstLines := r.usedLines
	r.Layout(fyne.NewSize(400, 300))
	if r.usedLines != firstLines {
		t.Fatalf("expected stable pool usage across layouts: %d then %d", firstLines, r.usedLines)
	}
}

func TestFlattenBezierEndpoints(t *testing.T) {
	q := flattenQuadratic(geom.V(0, 0), geom.V(10, 20), geom.V(20, 0))
	if q[0] != geom.V(0, 0) || q[len(q)-1] != geom.V(20, 0) {
		t.Fatalf("quadratic flatten endpoints wrong: %v .. %v", q[0], q[len(q)-1])
	}
	c := flattenCubic(geom.V(0, 0), geom.V(5, 10), geom.V(15, 10), geom.V(20, 0))
	if c[0] != geom.V(0, 0) || c[len(c)-1] != geom.V(20, 0) {
		t.Fatalf("cubic flatten endpoints wrong: %v .. %v", c[0], c[len(c)-1])
	}
}
