/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"math"
	"slices"

	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
	"goshapestudio/internal/snap"
	"goshapestudio/internal/spatial"
)

// Frame is what one Update produced for the host to paint. Positions are
// in view space unless noted otherwise.
type Frame struct {
	// Points lists every control point with its paint state.
	Points []PointView
	// Hovered are the points under the pointer, in address order.
	Hovered []shape.PointRef
	// SelectionRect is the active rubber band rectangle, nil otherwise.
	SelectionRect *geom.Rect
	// PreviewShape and PreviewPoints trace an unfinished n-click
	// creation, in content space. PreviewShape may be nil while too few
	// points are placed.
	PreviewShape  shape.Shape
	PreviewPoints []geom.Vec2
	// Grid holds this frame's snap grid lines, in content space.
	Grid *snap.Grid
	// SnapPoint is the resolved snap position in content space, with the
	// targets that produced it.
	SnapPoint   *geom.Vec2
	SnapTargets []snap.Target
}

// PointView is one control point prepared for painting.
type PointView struct {
	Ref shape.PointRef
	Pos geom.Vec2
	// Connected holds the view positions of the points this handle is
	// attached to, for drawing handle stems.
	Connected []geom.Vec2
	Secondary bool
	Hovered   bool
	Selected  bool
}

// Update runs one editor frame over the input snapshot: keyboard
// shortcuts, snap resolution, the active gesture, scroll and zoom, then
// selection changes and new gestures. Selection runs before gesture
// starts so a single press can select a point and begin dragging it.
// viewRect is the canvas area in view coordinates.
func (e *Editor) Update(viewRect geom.Rect, in Input) Frame {
	st := e.state
	e.ensureIndex()

	mouse := st.lastHover
	if in.Hover != nil {
		mouse = *in.Hover
	}
	contentMouse := st.Transform.Unapply(mouse)

	e.handleActions(in, contentMouse)

	if e.opts.SnapByDefault != in.Mods.Alt {
		if st.grid == nil {
			st.grid = snap.FromTransform(st.Transform, viewRect)
		}
		st.Snap.Update(contentMouse, e.opts.SnapDistance/st.Transform.Scale, st.grid, st.index, &st.Selection)
	} else {
		st.Snap.ClearPoint()
	}

	var frame Frame
	e.updateInteraction(&frame, in, mouse, contentMouse)

	e.handleScrollAndZoom(in)

	if st.grid == nil {
		st.grid = snap.FromTransform(st.Transform, viewRect)
	}
	st.index = spatial.Collect(*e.root)

	hovered := e.hoveredRefs(in.Hover)

	e.handlePrimaryPressed(in, hovered)
	e.handleDragStarted(in, mouse, contentMouse)

	if in.Hover != nil {
		st.lastHover = *in.Hover
		st.lastContentHover = st.Transform.Unapply(*in.Hover)
	}

	e.assembleFrame(&frame, hovered)
	return frame
}

// handleActions runs the frame's keyboard shortcut, or ctrl+click point
// adding when no shortcut fired.
func (e *Editor) handleActions(in Input, contentMouse geom.Vec2) {
	switch e.opts.Bindings.Lookup(in.Keys) {
	case KeyActionAddPoint:
		e.AddPointAt(contentMouse)
		return
	case KeyActionDeletePoint:
		e.DeleteSelected()
		return
	case KeyActionUndo:
		e.Undo()
		return
	}
	if in.Mods.Ctrl && in.PrimaryClicked {
		e.AddPointAt(e.state.Snap.PointOr(contentMouse))
	}
}

// handleScrollAndZoom applies this frame's wheel scroll and pinch zoom.
// Zoom anchors at the pointer and steps that would leave the configured
// scale range are dropped.
func (e *Editor) handleScrollAndZoom(in Input) {
	st := e.state
	if !in.ScrollDelta.IsZero() {
		d := geom.V(in.ScrollDelta.X*e.opts.ScrollFactor.X, in.ScrollDelta.Y*e.opts.ScrollFactor.Y)
		st.setTransform(st.Transform.TranslateBy(d))
	}
	if in.Hover != nil && in.ZoomDelta > 0 && in.ZoomDelta != 1 {
		factor := float32(math.Pow(float64(in.ZoomDelta), float64(e.opts.ZoomFactor)))
		next := st.Transform.ResizeAt(*in.Hover, factor)
		if next.Scale >= e.opts.MinScale && next.Scale <= e.opts.MaxScale {
			st.setTransform(next)
		}
	}
}

// hoveredRefs returns the control points within the hover radius of the
// pointer, in address order.
func (e *Editor) hoveredRefs(hover *geom.Vec2) []shape.PointRef {
	if hover == nil {
		return nil
	}
	st := e.state
	center := st.Transform.Unapply(*hover)
	pts := st.index.InRadius(center, e.opts.HoverRadius/st.Transform.Scale)
	if len(pts) == 0 {
		return nil
	}
	refs := make([]shape.PointRef, 0, len(pts))
	for ref := range pts {
		refs = append(refs, ref)
	}
	slices.SortFunc(refs, shape.PointRef.Cmp)
	return refs
}

// handlePrimaryPressed updates the selection from a primary press over
// the canvas. Repeated presses over a stack of points cycle through them
// in address order; shift and ctrl keep the existing selection, as does
// grabbing an already selected point.
func (e *Editor) handlePrimaryPressed(in Input, hovered []shape.PointRef) {
	st := e.state
	if in.Hover == nil || !in.PrimaryPressed || st.interaction != nil {
		return
	}
	var next *shape.PointRef
	if single, ok := st.Selection.Single(); ok {
		for i := range hovered {
			if hovered[i] == single && i+1 < len(hovered) {
				next = &hovered[i+1]
				break
			}
		}
	}
	keep := in.Mods.Shift || in.Mods.Ctrl ||
		(in.DragStarted && e.anyHoveredSelected(hovered))
	if !keep {
		st.Selection.Clear()
	}
	switch {
	case next != nil:
		st.Selection.Add(*next)
	case len(hovered) > 0:
		st.Selection.Add(hovered[0])
	}
}

func (e *Editor) anyHoveredSelected(hovered []shape.PointRef) bool {
	for _, ref := range hovered {
		if e.state.Selection.Contains(ref) {
			return true
		}
	}
	return false
}

// handleDragStarted begins a new gesture from this frame's drag edge. A
// primary drag grabs the nearest selected point, or rubber bands when
// shift is held or nothing is selected; a secondary drag pans the view.
func (e *Editor) handleDragStarted(in Input, mouse, contentMouse geom.Vec2) {
	st := e.state
	if st.interaction != nil {
		return
	}
	switch {
	case in.primaryDragStarted():
		if !in.Mods.Shift {
			if pos, ok := e.closestSelected(contentMouse); ok {
				st.interaction = &movePoints{start: pos, pos: pos}
				return
			}
		}
		st.interaction = &rubberBand{rect: geom.Rect{Min: mouse, Max: mouse}}
	case in.secondaryDragStarted():
		st.interaction = &pan{last: mouse}
	}
}

func (e *Editor) assembleFrame(frame *Frame, hovered []shape.PointRef) {
	st := e.state
	hoveredSet := make(map[shape.PointRef]struct{}, len(hovered))
	for _, ref := range hovered {
		hoveredSet[ref] = struct{}{}
	}
	frame.Points = make([]PointView, 0, st.index.Len())
	st.index.Each(func(ref shape.PointRef, cp shape.ControlPoint) bool {
		pv := PointView{
			Ref:       ref,
			Pos:       st.Transform.Apply(cp.Pos),
			Secondary: cp.Secondary(),
			Selected:  st.Selection.Contains(ref),
		}
		_, pv.Hovered = hoveredSet[ref]
		if len(cp.Connected) > 0 {
			anchors := make([]shape.PointRef, 0, len(cp.Connected))
			for r := range cp.Connected {
				anchors = append(anchors, r)
			}
			slices.SortFunc(anchors, shape.PointRef.Cmp)
			for _, r := range anchors {
				pv.Connected = append(pv.Connected, st.Transform.Apply(cp.Connected[r]))
			}
		}
		frame.Points = append(frame.Points, pv)
		return false
	})
	frame.Hovered = hovered
	frame.Grid = st.grid
	if st.Snap.Point != nil {
		p := *st.Snap.Point
		frame.SnapPoint = &p
	}
	frame.SnapTargets = st.Snap.Targets
}
