/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor drives interactive editing of a shape tree: pointer
// gestures for selecting, moving and creating points, view pan and zoom,
// snapping against grid lines and existing points, and an undo history
// of reversible actions. The host calls Update once per frame with an
// input snapshot and paints the returned Frame; everything that must
// survive the frame lives in State.
package editor

import (
	"math"

	"goshapestudio/internal/action"
	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
	"goshapestudio/internal/spatial"
)

// Editor binds a shape tree, its retained state and the options for one
// frame. It holds no state of its own, so hosts rebuild it cheaply per
// frame. Not safe for concurrent use.
type Editor struct {
	root  *shape.Shape
	state *State
	opts  *Options
}

// New returns an editor over root. root and state must not be nil.
func New(root *shape.Shape, state *State, opts *Options) *Editor {
	return &Editor{root: root, state: state, opts: opts}
}

func (e *Editor) env() *action.Env {
	return &action.Env{Root: e.root, Selection: &e.state.Selection, Constraints: &e.state.Constraints}
}

func (e *Editor) ensureIndex() *spatial.Index {
	if e.state.index == nil {
		e.state.index = spatial.Collect(*e.root)
	}
	return e.state.index
}

// apply executes act against the tree and records its inverse in the
// history. No-op inverses are not recorded.
func (e *Editor) apply(act action.Action) {
	name := action.Name(act)
	inverse := action.Apply(act, e.env())
	if _, ok := inverse.(action.Noop); ok {
		return
	}
	e.state.History.Push(inverse, name)
	e.state.History.Trim(e.opts.HistoryDepth)
}

// Apply executes act and records it in the history, for hosts that build
// their own actions (parameter panels, scripted edits).
func (e *Editor) Apply(act action.Action) { e.apply(act) }

// Undo reverts the newest history entry. It reports whether anything was
// undone.
func (e *Editor) Undo() bool {
	entry, ok := e.state.History.Pop()
	if !ok {
		return false
	}
	action.Apply(entry.Inverse, e.env())
	return true
}

// LastActionName returns the name of the action Undo would revert, for
// "Undo <name>" menu labels.
func (e *Editor) LastActionName() (string, bool) {
	return e.state.History.LastName()
}

// AddPointAt extends the selected shape with a point at pos (content
// space). Paths get the point inserted after the selected one and the
// selection moves onto it; beziers get a continuation curve appended and
// its end point selected. Handle points, multi-selections and other
// shape kinds do nothing.
func (e *Editor) AddPointAt(pos geom.Vec2) {
	st := e.state
	ref, ok := st.Selection.Single()
	if !ok {
		return
	}
	idx := e.ensureIndex()
	cp, ok := idx.At(ref)
	if !ok || cp.Secondary() {
		return
	}
	kind, ok := idx.KindAt(ref.Shape)
	if !ok {
		return
	}
	switch kind {
	case shape.KindPath:
		next := ref.Next()
		e.apply(action.SingleAddPoint(next, action.PosPoint(pos)))
		st.Selection.Set(next)
	case shape.KindQuadraticBezier:
		e.apply(action.InsertQuadraticBezier(cp.Pos, e.handleAnchor(ref), pos, e.opts.Stroke))
		e.selectLastPoint()
	case shape.KindCubicBezier:
		e.apply(action.InsertCubicBezier(cp.Pos, e.handleAnchor(ref), pos, e.opts.Stroke))
		e.selectLastPoint()
	}
}

// handleAnchor returns the position of the handle attached to ref, used
// to aim the control points of a continuation curve.
func (e *Editor) handleAnchor(ref shape.PointRef) *geom.Vec2 {
	if pos, ok := e.ensureIndex().HandleAnchoredAt(ref); ok {
		p := pos
		return &p
	}
	return nil
}

// DeleteSelected removes every selected point from the tree.
func (e *Editor) DeleteSelected() {
	if e.state.Selection.Len() == 0 {
		return
	}
	refs := append([]shape.PointRef(nil), e.state.Selection.Refs()...)
	e.apply(action.RemoveShapePoints{Refs: refs})
}

// DropShapeAt inserts a degenerate shape of the given kind collapsed
// onto pos (content space), selects its last control point and starts a
// move gesture so the point follows the pointer until the next release.
// Context menus use this as their "add shape" flow. It reports whether
// the kind can be dropped.
func (e *Editor) DropShapeAt(kind shape.Kind, pos geom.Vec2) bool {
	var act action.Action
	switch kind {
	case shape.KindLineSegment:
		act = action.InsertLineSegment(pos, pos, e.opts.Stroke)
	case shape.KindPath:
		act = action.InsertPath([]geom.Vec2{pos, pos}, e.opts.Stroke)
	case shape.KindCircle:
		act = action.InsertCircle(pos, 0, e.opts.Stroke)
	case shape.KindRect:
		act = action.InsertRect(pos, pos, e.opts.Stroke)
	case shape.KindQuadraticBezier:
		act = action.InsertQuadraticBezier(pos, nil, pos, e.opts.Stroke)
	case shape.KindCubicBezier:
		act = action.InsertCubicBezier(pos, nil, pos, e.opts.Stroke)
	default:
		return false
	}
	e.apply(act)
	if ref, ok := lastPointRef(*e.root); ok {
		e.state.Selection.Set(ref)
		e.state.interaction = &movePoints{start: pos, pos: pos}
	}
	return true
}

// BeginCreation starts an n-click creation gesture: each primary click
// places one of count points, build shapes the preview and the final
// result. Seed points pre-fill the gesture for hosts that already know
// the first point. It reports false while another gesture is active.
func (e *Editor) BeginCreation(count int, build BuildShape, seed ...geom.Vec2) bool {
	if e.state.interaction != nil || count <= 0 || build == nil {
		return false
	}
	e.state.interaction = &createShape{
		points: append([]geom.Vec2(nil), seed...),
		count:  count,
		build:  build,
	}
	return true
}

func (e *Editor) selectLastPoint() {
	if ref, ok := lastPointRef(*e.root); ok {
		e.state.Selection.Set(ref)
	}
}

// lastPointRef returns the address of the last control point in tree
// order.
func lastPointRef(root shape.Shape) (shape.PointRef, bool) {
	var last shape.PointRef
	found := false
	shape.EachControlPoint(root, func(ref shape.PointRef, _ shape.Kind, _ shape.ControlPoint) bool {
		last, found = ref, true
		return false
	})
	return last, found
}

// closestSelected returns the position of the selected point nearest to
// pos, in content space.
func (e *Editor) closestSelected(pos geom.Vec2) (geom.Vec2, bool) {
	idx := e.ensureIndex()
	var best geom.Vec2
	bestDist := float32(math.MaxFloat32)
	found := false
	for _, ref := range e.state.Selection.Refs() {
		p, ok := idx.PosOf(ref)
		if !ok {
			continue
		}
		if d := p.Distance(pos); !found || d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, found
}
