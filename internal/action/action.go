/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package action implements the reversible commands that mutate a shape
// tree. Apply performs a command and returns its exact inverse, so
// applying the inverse restores the prior tree byte for byte. Commands
// referencing stale addresses skip them silently.
package action

import (
	"maps"

	"goshapestudio/internal/constraint"
	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

// Action is the closed union of reversible commands.
type Action interface{ isAction() }

// Noop does nothing and is its own inverse.
type Noop struct{}

// Combined applies sub-actions in order; its inverse applies their
// inverses in reverse order.
type Combined struct {
	Label   string
	Actions []Action
}

// MoveShapePoints translates the addressed points. Moving the center of a
// center-radius shape suppresses any translation requested for its radius
// handles in the same batch, since the handles follow the center.
type MoveShapePoints struct {
	Translations map[shape.PointRef]geom.Vec2
}

// InsertShape appends a shape, or swaps it in at the Replace index.
type InsertShape struct {
	Shape   shape.Shape
	Replace *int
}

// RemoveLastShape pops the most recently appended top-level shape. The
// flags restore the root form an append changed: UnwrapGroup collapses a
// single-child root group back to the bare child, RootWasEmpty collapses
// an emptied root group back to Empty.
type RemoveLastShape struct {
	UnwrapGroup  bool
	RootWasEmpty bool
}

// ReplaceShapes swaps whole shapes by index; its inverse carries the
// displaced shapes back.
type ReplaceShapes struct {
	Shapes map[int]shape.Shape
}

// RemoveShapePoints deletes the addressed points. Paths keep at least 2
// points and meshes at least 3; a removal that would go below the floor
// removes the whole shape instead, replacing it with Empty. Shapes of any
// other kind are removed whole when any of their points is addressed.
type RemoveShapePoints struct {
	Refs []shape.PointRef
}

// AddShapePoints inserts points into paths and meshes, keyed by shape
// index then insertion point index.
type AddShapePoints struct {
	Points map[int]map[int]PointValue
}

// ApplyShapeParams swaps named parameters per shape; its inverse carries
// the previous values of exactly the parameters that were applied.
type ApplyShapeParams struct {
	Params map[int]map[ParamKind]ParamValue
}

func (Noop) isAction()              {}
func (Combined) isAction()          {}
func (MoveShapePoints) isAction()   {}
func (InsertShape) isAction()       {}
func (RemoveLastShape) isAction()   {}
func (ReplaceShapes) isAction()     {}
func (RemoveShapePoints) isAction() {}
func (AddShapePoints) isAction()    {}
func (ApplyShapeParams) isAction()  {}

// PointValue is one inserted point: a bare position for paths, or a
// vertex plus its paired index entry for meshes.
type PointValue struct {
	Pos    geom.Vec2     `json:"pos"`
	Vertex *shape.Vertex `json:"vertex,omitempty"`
	Index  uint32        `json:"index,omitempty"`
}

// PosPoint wraps a path point position.
func PosPoint(pos geom.Vec2) PointValue { return PointValue{Pos: pos} }

// VertexPoint wraps a mesh vertex and its index entry.
func VertexPoint(v shape.Vertex, index uint32) PointValue {
	return PointValue{Pos: v.Pos, Vertex: &v, Index: index}
}

// Env is the mutable editor state an action operates on. Root is
// required; Selection and Constraints are re-keyed alongside structural
// edits when present and may be nil.
type Env struct {
	Root        *shape.Shape
	Selection   *shape.Selection
	Constraints *constraint.Set
}

// Name returns the human label of an action, used for history entries.
func Name(a Action) string {
	switch a := a.(type) {
	case Noop:
		return "None"
	case Combined:
		return a.Label
	case MoveShapePoints:
		return "Move"
	case InsertShape:
		return "Insert Shape"
	case RemoveLastShape:
		return "Remove Shape"
	case ReplaceShapes:
		return "Replace Shapes"
	case RemoveShapePoints:
		return "Remove points"
	case AddShapePoints:
		return "Add points"
	case ApplyShapeParams:
		return "Update Parameters"
	}
	return "Unknown"
}

// Apply executes a against env and returns the exact inverse.
func Apply(a Action, env *Env) Action {
	switch a := a.(type) {
	case Noop:
		return a
	case Combined:
		inverses := make([]Action, len(a.Actions))
		for i, sub := range a.Actions {
			inverses[len(a.Actions)-1-i] = Apply(sub, env)
		}
		return Combined{Label: "Undo " + a.Label, Actions: inverses}
	case MoveShapePoints:
		return applyMove(a, env)
	case InsertShape:
		return applyInsert(a, env)
	case RemoveLastShape:
		return applyRemoveLast(a, env)
	case ReplaceShapes:
		return applyReplace(a, env)
	case RemoveShapePoints:
		return applyRemovePoints(a, env)
	case AddShapePoints:
		return applyAddPoints(a, env)
	case ApplyShapeParams:
		return applyParams(a, env)
	}
	return Noop{}
}

func applyMove(a MoveShapePoints, env *Env) Action {
	if len(a.Translations) == 0 {
		return Noop{}
	}
	moves := maps.Clone(a.Translations)
	if env.Constraints != nil {
		env.Constraints.Resolve(moves)
		if env.Constraints.HasRanges() {
			need := env.Constraints.RangedRefs(moves)
			positions := positionsOf(*env.Root, need)
			factor := env.Constraints.ClampFactor(moves, func(r shape.PointRef) (geom.Vec2, bool) {
				p, ok := positions[r]
				return p, ok
			})
			if factor != 1 {
				for ref, t := range moves {
					moves[ref] = t.Mul(factor)
				}
			}
		}
	}

	inverse := make(map[shape.PointRef]geom.Vec2, len(moves))
	for ref, t := range moves {
		inverse[ref] = t.Neg()
	}

	remaining := len(moves)
	shape.EachControlPointMut(*env.Root, func(ref shape.PointRef, kind shape.Kind, pos *geom.Vec2, connected map[shape.PointRef]geom.Vec2) bool {
		t, ok := moves[ref]
		if !ok {
			return false
		}
		if connected != nil && kind.CenterRadius() {
			if _, centerMoving := moves[ref.First()]; centerMoving {
				delete(moves, ref)
				remaining--
				return remaining == 0
			}
		}
		*pos = pos.Add(t)
		delete(moves, ref)
		remaining--
		if connected == nil && kind.CenterRadius() {
			next := ref.Next()
			for i := 0; i < shape.RadiusHandleCount; i++ {
				if _, ok := moves[next]; ok {
					delete(moves, next)
					remaining--
				}
				next = next.Next()
			}
		}
		return remaining == 0
	})
	return MoveShapePoints{Translations: inverse}
}

// positionsOf collects the current positions of the needed addresses in
// one traversal pass.
func positionsOf(root shape.Shape, need []shape.PointRef) map[shape.PointRef]geom.Vec2 {
	out := make(map[shape.PointRef]geom.Vec2, len(need))
	if len(need) == 0 {
		return out
	}
	wanted := make(map[shape.PointRef]struct{}, len(need))
	for _, r := range need {
		wanted[r] = struct{}{}
	}
	shape.EachControlPoint(root, func(ref shape.PointRef, _ shape.Kind, cp shape.ControlPoint) bool {
		if _, ok := wanted[ref]; ok {
			out[ref] = cp.Pos
			delete(wanted, ref)
		}
		return len(wanted) == 0
	})
	return out
}
