/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package snap resolves drag positions against an alignment grid and the
// existing control points. Each axis snaps independently to the nearer
// candidate; the resolved point and the candidates that produced it are
// kept for highlight rendering.
package snap

import (
	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
	"goshapestudio/internal/spatial"
)

// TargetKind says what produced a snap target.
type TargetKind uint8

const (
	// TargetPoint is an existing control point; Pos carries its position.
	TargetPoint TargetKind = iota
	// TargetGridX is a vertical grid line; Line carries its x coordinate.
	TargetGridX
	// TargetGridY is a horizontal grid line; Line carries its y coordinate.
	TargetGridY
)

// Target is one candidate that contributed to the resolved snap position.
type Target struct {
	Kind TargetKind
	Pos  geom.Vec2
	Line float32
}

func PointTarget(pos geom.Vec2) Target { return Target{Kind: TargetPoint, Pos: pos} }
func GridXTarget(x float32) Target     { return Target{Kind: TargetGridX, Line: x} }
func GridYTarget(y float32) Target     { return Target{Kind: TargetGridY, Line: y} }

// Info is the snap state carried across a drag: the targets behind the
// current snap point, optional per-axis manual guide lines, and the
// resolved point itself. The zero value is ready to use.
type Info struct {
	Targets []Target
	ManualX *float32
	ManualY *float32
	Point   *geom.Vec2
}

// Update resolves the snap point for pos against one frame's point index
// and grid. Per axis, the closest unselected control-point coordinate
// competes with the closest non-sub grid line within maxDist; the
// strictly closer one wins, and an exact tie resolves to the point value
// with both candidates recorded as targets. An axis with a manual guide
// accepts only exact coordinate matches and otherwise pins to the guide.
// index and grid may be nil, disabling their candidates.
func (s *Info) Update(pos geom.Vec2, maxDist float32, grid *Grid, index *spatial.Index, selection *shape.Selection) {
	s.Targets = s.Targets[:0]

	var ignore map[shape.PointRef]struct{}
	if selection != nil && selection.Len() > 0 {
		ignore = make(map[shape.PointRef]struct{}, selection.Len())
		for _, ref := range selection.Refs() {
			ignore[ref] = struct{}{}
		}
	}

	maxX, maxY := maxDist, maxDist
	if s.ManualX != nil {
		maxX = 0
	}
	if s.ManualY != nil {
		maxY = 0
	}

	var (
		px, gx     float32
		pxRefs     []shape.PointRef
		pxOK, gxOK bool
		py, gy     float32
		pyRefs     []shape.PointRef
		pyOK, gyOK bool
	)
	if index != nil {
		px, pxRefs, pxOK = index.SnapX(pos.X, maxX, ignore)
		py, pyRefs, pyOK = index.SnapY(pos.Y, maxY, ignore)
	}
	if grid != nil {
		gx, gxOK = grid.SnapX(pos.X, maxX)
		gy, gyOK = grid.SnapY(pos.Y, maxY)
	}

	snapX, okX := s.resolveAxis(pos.X, px, pxRefs, pxOK, gx, gxOK, index, GridXTarget)
	snapY, okY := s.resolveAxis(pos.Y, py, pyRefs, pyOK, gy, gyOK, index, GridYTarget)

	if !okX && !okY && s.ManualX == nil && s.ManualY == nil {
		s.Point = nil
		return
	}
	p := pos
	switch {
	case okX:
		p.X = snapX
	case s.ManualX != nil:
		p.X = *s.ManualX
	}
	switch {
	case okY:
		p.Y = snapY
	case s.ManualY != nil:
		p.Y = *s.ManualY
	}
	s.Point = &p
}

// resolveAxis picks between the point candidate and the grid candidate
// for one axis and records the winners as targets.
func (s *Info) resolveAxis(v, point float32, pointRefs []shape.PointRef, pointOK bool, gridLine float32, gridOK bool, index *spatial.Index, gridTarget func(float32) Target) (float32, bool) {
	switch {
	case pointOK && !gridOK:
		s.addPointTargets(index, pointRefs)
		return point, true
	case !pointOK && gridOK:
		s.Targets = append(s.Targets, gridTarget(gridLine))
		return gridLine, true
	case pointOK && gridOK:
		pd := abs(point - v)
		gd := abs(gridLine - v)
		switch {
		case pd < gd:
			s.addPointTargets(index, pointRefs)
			return point, true
		case pd == gd:
			s.addPointTargets(index, pointRefs)
			s.Targets = append(s.Targets, gridTarget(gridLine))
			return point, true
		default:
			s.Targets = append(s.Targets, gridTarget(gridLine))
			return gridLine, true
		}
	default:
		return 0, false
	}
}

func (s *Info) addPointTargets(index *spatial.Index, refs []shape.PointRef) {
	for _, ref := range refs {
		if pos, ok := index.PosOf(ref); ok {
			s.Targets = append(s.Targets, PointTarget(pos))
		}
	}
}

// PointOr returns the resolved snap point, or fallback when nothing
// snapped.
func (s *Info) PointOr(fallback geom.Vec2) geom.Vec2 {
	if s.Point != nil {
		return *s.Point
	}
	return fallback
}

// Clear drops all snap state including the manual guides.
func (s *Info) Clear() {
	s.Targets = nil
	s.ManualX = nil
	s.ManualY = nil
	s.Point = nil
}

// ClearPoint drops the resolved point and targets but keeps the manual
// guides, for frames where snapping is temporarily toggled off.
func (s *Info) ClearPoint() {
	s.Targets = nil
	s.Point = nil
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
