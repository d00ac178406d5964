/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"testing"

	"goshapestudio/internal/action"
	"goshapestudio/internal/constraint"
	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

func TestStateRoundTripThroughStore(t *testing.T) {
	st := NewState()
	st.Transform = geom.Transform{Translation: geom.V(5, 6), Scale: 2}
	st.Selection = shape.SelectionOf(shape.Ref(0, 1), shape.Ref(2, 0))
	st.Constraints.Add(constraint.LinkBidirectional{A: shape.Ref(0, 0), B: shape.Ref(1, 0)})
	st.History.Push(action.MoveAll([]shape.PointRef{shape.Ref(0, 0)}, geom.V(3, 4)), "Move")
	manual := float32(12.5)
	st.Snap.ManualX = &manual

	store := NewMemStore()
	if err := SaveState(store, "canvas-1", st); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadState(store, "canvas-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.Transform != st.Transform {
		t.Fatalf("transform = %+v, want %+v", got.Transform, st.Transform)
	}
	wantSelection(t, got, shape.Ref(0, 1), shape.Ref(2, 0))
	if got.Constraints.Len() != 1 {
		t.Fatalf("constraints = %d, want 1", got.Constraints.Len())
	}
	if got.History.Len() != 1 {
		t.Fatalf("history = %d entries, want 1", got.History.Len())
	}
	entry, _ := got.History.Pop()
	if entry.Name != "Move" {
		t.Fatalf("entry name = %q, want Move", entry.Name)
	}
	move, ok := entry.Inverse.(action.MoveShapePoints)
	if !ok {
		t.Fatalf("entry inverse = %T, want MoveShapePoints", entry.Inverse)
	}
	if move.Translations[shape.Ref(0, 0)] != geom.V(3, 4) {
		t.Fatalf("restored translation = %v, want (3,4)", move.Translations[shape.Ref(0, 0)])
	}
	if got.Snap.ManualX == nil || *got.Snap.ManualX != 12.5 {
		t.Fatalf("manual x guide not restored")
	}
	if got.Snap.ManualY != nil {
		t.Fatalf("manual y guide = %v, want none", *got.Snap.ManualY)
	}
}

func TestLoadStateWithoutBlobReturnsFresh(t *testing.T) {
	got, err := LoadState(NewMemStore(), "unknown")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Transform != geom.Identity() {
		t.Fatalf("transform = %+v, want identity", got.Transform)
	}
	if got.History.Len() != 0 || got.Selection.Len() != 0 {
		t.Fatalf("fresh state carries history or selection")
	}
}

func TestSavedStateOmitsGesturesAndCaches(t *testing.T) {
	_, st, ed := editorOver(lineBetween(geom.V(10, 10), geom.V(30, 10)))
	ed.Update(canvasRect, Input{Hover: hover(10, 10), PrimaryPressed: true})
	ed.Update(canvasRect, Input{Hover: hover(10, 10), PrimaryPressed: true, DragStarted: true})
	if !st.Dragging() {
		t.Fatalf("no gesture to persist around")
	}

	store := NewMemStore()
	if err := SaveState(store, "canvas-1", st); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadState(store, "canvas-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Dragging() {
		t.Fatalf("restored state has an active gesture")
	}
	wantSelection(t, got, shape.Ref(0, 0))
}
