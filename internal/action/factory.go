/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package action

import (
	"slices"

	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

// Insert constructors. Each builds an InsertShape command in append mode.
// The two-point variants accept coincident points so a shape can be
// dropped at the cursor and stretched by dragging its last point.

// InsertLineSegment builds an insert command for a segment between a and b.
func InsertLineSegment(a, b geom.Vec2, stroke shape.Stroke) InsertShape {
	return InsertShape{Shape: &shape.LineSegment{Points: [2]geom.Vec2{a, b}, Stroke: stroke}}
}

// InsertPath builds an insert command for an open, unfilled path through
// the given points.
func InsertPath(points []geom.Vec2, stroke shape.Stroke) InsertShape {
	return InsertShape{Shape: &shape.Path{Points: slices.Clone(points), Stroke: stroke}}
}

// InsertRect builds an insert command for the rectangle spanning two
// opposite corners.
func InsertRect(a, b geom.Vec2, stroke shape.Stroke) InsertShape {
	r := geom.FromPoints(a, b)
	return InsertShape{Shape: &shape.Rect{Min: r.Min, Max: r.Max, Stroke: stroke}}
}

// InsertCircle builds an insert command for a circle.
func InsertCircle(center geom.Vec2, radius float32, stroke shape.Stroke) InsertShape {
	return InsertShape{Shape: &shape.Circle{Center: center, Radius: radius, Stroke: stroke}}
}

// InsertQuadraticBezier builds an insert command for an open quadratic
// bezier from start to end. When startControl (the control handle of the
// segment being continued) is given, the new control point mirrors its
// tangent so the chain stays smooth at the joint; otherwise the control
// point collapses onto start.
func InsertQuadraticBezier(start geom.Vec2, startControl *geom.Vec2, end geom.Vec2, stroke shape.Stroke) InsertShape {
	control := continuationControl(start, startControl, end)
	return InsertShape{Shape: &shape.QuadraticBezier{
		Points: [3]geom.Vec2{start, control, end},
		Stroke: stroke,
	}}
}

// InsertCubicBezier builds an insert command for an open cubic bezier
// from start to end. The start control mirrors startControl as in
// InsertQuadraticBezier; the end control is pulled back from end along
// the line to the start control by a third of the chord length.
func InsertCubicBezier(start geom.Vec2, startControl *geom.Vec2, end geom.Vec2, stroke shape.Stroke) InsertShape {
	c1 := continuationControl(start, startControl, end)
	distance := start.Distance(end)
	c2 := end.Sub(end.Sub(c1).Normalized().Mul(distance / 3))
	return InsertShape{Shape: &shape.CubicBezier{
		Points: [4]geom.Vec2{start, c1, c2, end},
		Stroke: stroke,
	}}
}

func continuationControl(start geom.Vec2, prev *geom.Vec2, end geom.Vec2) geom.Vec2 {
	if prev == nil {
		return start
	}
	distance := start.Distance(end)
	return start.Add(start.Sub(*prev).Normalized().Mul(distance / 3))
}
