/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"goshapestudio/internal/action"
	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

// interaction is a retained pointer gesture. At most one is active at a
// time; Update advances it each frame until it ends.
type interaction interface {
	isInteraction()
}

// movePoints drags the selected points. start and pos are in content
// space; pos tracks the grabbed point as increments are applied.
type movePoints struct {
	start geom.Vec2
	pos   geom.Vec2
}

// rubberBand selects every point inside a growing rectangle. The rect is
// in view space, Min anchored at the drag origin.
type rubberBand struct {
	rect geom.Rect
}

// pan moves the view with the secondary button. last is the previous
// pointer position in view space.
type pan struct {
	last geom.Vec2
}

// createShape collects primary clicks until count points are placed,
// then inserts build(points) as a new shape.
type createShape struct {
	points []geom.Vec2
	count  int
	build  BuildShape
}

func (*movePoints) isInteraction()  {}
func (*rubberBand) isInteraction()  {}
func (*pan) isInteraction()         {}
func (*createShape) isInteraction() {}

// updateInteraction advances the active gesture with this frame's input.
// Drags end on a drag release or a fresh primary press; point moves then
// record their net translation in the history, rubber bands and pans end
// silently. Creation ends once enough points are placed.
func (e *Editor) updateInteraction(frame *Frame, in Input, mouse, contentMouse geom.Vec2) {
	st := e.state
	switch it := st.interaction.(type) {
	case nil:
	case *movePoints:
		if in.DragReleased || in.PrimaryPressed {
			st.interaction = nil
			if it.pos != it.start && st.Selection.Len() > 0 {
				net := it.pos.Sub(it.start)
				st.History.Push(action.MoveAll(st.Selection.Refs(), net.Neg()), action.Name(action.MoveShapePoints{}))
				st.History.Trim(e.opts.HistoryDepth)
			}
			return
		}
		if it.pos != contentMouse {
			target := st.Snap.PointOr(contentMouse)
			action.Apply(action.MoveAll(st.Selection.Refs(), target.Sub(it.pos)), e.env())
			it.pos = target
		}
	case *rubberBand:
		if in.DragReleased || in.PrimaryPressed {
			st.interaction = nil
			return
		}
		if !in.Mods.Shift {
			st.Selection.Clear()
		}
		for _, ref := range st.index.InRect(st.Transform.UnapplyRect(it.rect.Normalized())) {
			st.Selection.Add(ref)
		}
		it.rect.Max = mouse
		r := it.rect.Normalized()
		frame.SelectionRect = &r
	case *pan:
		if in.DragReleased || in.PrimaryPressed {
			st.interaction = nil
			return
		}
		st.setTransform(st.Transform.TranslateBy(mouse.Sub(it.last)))
		it.last = mouse
	case *createShape:
		click := st.Snap.PointOr(contentMouse)
		if in.PrimaryClicked {
			it.points = append(it.points, click)
		}
		if len(it.points) >= it.count {
			if s := it.build(it.points, e.opts); s != nil {
				e.apply(action.InsertShape{Shape: s})
			}
			st.interaction = nil
			return
		}
		preview := append(append([]geom.Vec2{}, it.points...), click)
		frame.PreviewPoints = preview
		frame.PreviewShape = it.build(preview, e.opts)
	}
}

// BuildShape constructs a shape from the points placed so far during a
// creation gesture. It is also called with the pending cursor point
// appended to produce the preview and may return nil while there are too
// few points.
type BuildShape func(points []geom.Vec2, opts *Options) shape.Shape

// BuildLineSegment builds a line between the first two points.
func BuildLineSegment(points []geom.Vec2, opts *Options) shape.Shape {
	if len(points) < 2 {
		return nil
	}
	return &shape.LineSegment{Points: [2]geom.Vec2{points[0], points[1]}, Stroke: opts.Stroke}
}

// BuildPath builds an open path through all points.
func BuildPath(points []geom.Vec2, opts *Options) shape.Shape {
	if len(points) < 2 {
		return nil
	}
	return &shape.Path{Points: append([]geom.Vec2(nil), points...), Stroke: opts.Stroke}
}

// BuildRect builds the axis-aligned rectangle spanned by the first two
// points.
func BuildRect(points []geom.Vec2, opts *Options) shape.Shape {
	if len(points) < 2 {
		return nil
	}
	r := geom.FromPoints(points[0], points[1])
	return &shape.Rect{Min: r.Min, Max: r.Max, Stroke: opts.Stroke}
}

// BuildCircle builds a circle centered on the first point and passing
// through the second.
func BuildCircle(points []geom.Vec2, opts *Options) shape.Shape {
	if len(points) < 2 {
		return nil
	}
	return &shape.Circle{Center: points[0], Radius: points[0].Distance(points[1]), Stroke: opts.Stroke}
}
