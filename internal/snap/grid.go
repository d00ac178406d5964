/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"math"

	"goshapestudio/internal/geom"
	"goshapestudio/internal/spatial"
)

// LineKind classifies an alignment grid line. Sub lines are painted but
// never snapped to.
type LineKind uint8

const (
	LineZero LineKind = iota
	LinePrimary
	LineSecondary
	LineSub
)

// Step returns the grid step in content units for a view scale. Scale 1
// yields a step of 50; each factor-of-five zoom moves the step one
// decimal order, so scale 5 yields 10 and scale 0.2 yields 250.
func Step(scale float32) float32 {
	if !(scale > 0) || math.IsInf(float64(scale), 1) {
		return 50
	}
	exp := math.Round(math.Log(float64(scale)) / math.Log(5))
	return float32(50 * math.Pow(5, -exp))
}

// Grid holds the alignment lines generated for one view, indexed per
// axis. It is rebuilt whenever the view transform changes.
type Grid struct {
	x spatial.AxisIndex[LineKind]
	y spatial.AxisIndex[LineKind]
}

// FromTransform generates the grid covering the content visible through
// view inside viewRect. Primary lines sit on whole steps, the secondary
// line halves each step and sub lines divide each half in three.
func FromTransform(view geom.Transform, viewRect geom.Rect) *Grid {
	g := &Grid{}
	content := view.UnapplyRect(viewRect).Normalized()
	step := Step(view.Scale)
	fillGridAxis(&g.x, content.Min.X, content.Max.X, step)
	fillGridAxis(&g.y, content.Min.Y, content.Max.Y, step)
	return g
}

func fillGridAxis(idx *spatial.AxisIndex[LineKind], lo, hi, step float32) {
	half := step / 2
	sub := half / 3
	eachStep(lo, hi, step, func(v float32) {
		if v == 0 {
			idx.Insert(v, LineZero)
		} else {
			idx.Insert(v, LinePrimary)
		}
		idx.Insert(v+half, LineSecondary)
		idx.Insert(v+sub, LineSub)
		idx.Insert(v+sub*2, LineSub)
		idx.Insert(v+half+sub, LineSub)
		idx.Insert(v+half+sub*2, LineSub)
	})
}

// eachStep calls fn at every multiple of step whose cell touches
// [lo, hi], in ascending order.
func eachStep(lo, hi, step float32, fn func(v float32)) {
	if !(step > 0) || !geom.V(lo, hi).Finite() {
		return
	}
	first := int(math.Floor(float64(lo) / float64(step)))
	last := int(math.Ceil(float64(hi) / float64(step)))
	for i := first; i < last; i++ {
		fn(float32(i) * step)
	}
}

// SnapX returns the nearest snappable vertical line within maxDist of x.
func (g *Grid) SnapX(x, maxDist float32) (float32, bool) {
	v, _, ok := g.x.ClosestWithin(x, maxDist, isSubLine)
	return v, ok
}

// SnapY returns the nearest snappable horizontal line within maxDist of y.
func (g *Grid) SnapY(y, maxDist float32) (float32, bool) {
	v, _, ok := g.y.ClosestWithin(y, maxDist, isSubLine)
	return v, ok
}

func isSubLine(k LineKind) bool { return k == LineSub }

// VisitX calls fn for every vertical line with x in [lo, hi] in ascending
// order, with the kinds present at that coordinate. fn returning true
// stops the visit.
func (g *Grid) VisitX(lo, hi float32, fn func(x float32, kinds []LineKind) bool) {
	g.x.Visit(lo, hi, fn)
}

// VisitY is VisitX for horizontal lines.
func (g *Grid) VisitY(lo, hi float32, fn func(y float32, kinds []LineKind) bool) {
	g.y.Visit(lo, hi, fn)
}
