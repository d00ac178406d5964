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

func applyInsert(a InsertShape, env *Env) Action {
	inserted := a.Shape
	if inserted == nil {
		inserted = &shape.Empty{}
	}
	if a.Replace != nil {
		return replaceShapes(map[int]shape.Shape{*a.Replace: inserted}, env, func(replaced map[int]shape.Shape) Action {
			displaced, ok := replaced[*a.Replace]
			if !ok {
				return Noop{}
			}
			return InsertShape{Shape: displaced, Replace: a.Replace}
		})
	}

	switch root := (*env.Root).(type) {
	case *shape.Group:
		root.Children = append(root.Children, inserted)
		return RemoveLastShape{}
	case *shape.Empty, nil:
		*env.Root = &shape.Group{Children: []shape.Shape{inserted}}
		return RemoveLastShape{RootWasEmpty: true}
	default:
		*env.Root = &shape.Group{Children: []shape.Shape{*env.Root, inserted}}
		return RemoveLastShape{UnwrapGroup: true}
	}
}

func applyRemoveLast(a RemoveLastShape, env *Env) Action {
	group, ok := (*env.Root).(*shape.Group)
	if !ok || len(group.Children) == 0 {
		return Noop{}
	}
	popped := group.Children[len(group.Children)-1]
	group.Children = group.Children[:len(group.Children)-1]

	base := shape.CountShapes(*env.Root)
	dropRefsFrom(env, base, shape.CountShapes(popped))

	switch {
	case a.RootWasEmpty && len(group.Children) == 0:
		*env.Root = &shape.Empty{}
	case a.UnwrapGroup && len(group.Children) == 1:
		*env.Root = group.Children[0]
	}
	return InsertShape{Shape: popped}
}

// dropRefsFrom prunes selection and constraint references to the count
// removed leaf shapes starting at index base.
func dropRefsFrom(env *Env, base, count int) {
	if env.Selection != nil {
		for _, ref := range slices.Clone(env.Selection.Refs()) {
			if ref.Shape >= base {
				env.Selection.Remove(ref)
			}
		}
	}
	if env.Constraints != nil {
		for i := base; i < base+count; i++ {
			env.Constraints.DropShape(i)
		}
	}
}

func applyReplace(a ReplaceShapes, env *Env) Action {
	return replaceShapes(a.Shapes, env, func(replaced map[int]shape.Shape) Action {
		return ReplaceShapes{Shapes: replaced}
	})
}

// replaceShapes swaps the given shapes into the tree and builds the
// inverse from the displaced ones via mkInverse. Selection and constraint
// entries that no longer resolve on a swapped shape are pruned.
func replaceShapes(toReplace map[int]shape.Shape, env *Env, mkInverse func(map[int]shape.Shape) Action) Action {
	if len(toReplace) == 0 {
		return Noop{}
	}
	replaced := make(map[int]shape.Shape, len(toReplace))
	remaining := len(toReplace)
	shape.EachShapeSlot(env.Root, func(i int, slot *shape.Shape) bool {
		replacement, ok := toReplace[i]
		if !ok {
			return false
		}
		if replacement == nil {
			replacement = &shape.Empty{}
		}
		replaced[i] = *slot
		*slot = replacement
		pruneShapeRefs(env, i, shape.PointCount(replacement))
		remaining--
		return remaining == 0
	})
	if len(replaced) == 0 {
		return Noop{}
	}
	return mkInverse(replaced)
}

// pruneShapeRefs drops selection and constraint entries on shape i whose
// point index no longer exists.
func pruneShapeRefs(env *Env, i, pointCount int) {
	if env.Selection != nil {
		for _, ref := range slices.Clone(env.Selection.Refs()) {
			if ref.Shape == i && ref.Point >= pointCount {
				env.Selection.Remove(ref)
			}
		}
	}
	if env.Constraints != nil && pointCount == 0 {
		env.Constraints.DropShape(i)
	}
}

func applyRemovePoints(a RemoveShapePoints, env *Env) Action {
	if len(a.Refs) == 0 {
		return Noop{}
	}
	byShape := make(map[int][]int)
	for _, ref := range a.Refs {
		if !slices.Contains(byShape[ref.Shape], ref.Point) {
			byShape[ref.Shape] = append(byShape[ref.Shape], ref.Point)
		}
	}

	removedPoints := make(map[int]map[int]PointValue)
	replacedShapes := make(map[int]shape.Shape)
	remaining := len(byShape)

	shape.EachShapeSlot(env.Root, func(i int, slot *shape.Shape) bool {
		points, ok := byShape[i]
		if !ok {
			return false
		}
		remaining--

		capture := func(p int, v PointValue) {
			if removedPoints[i] == nil {
				removedPoints[i] = make(map[int]PointValue)
			}
			removedPoints[i][p] = v
		}
		removeWhole := func() {
			replacedShapes[i] = *slot
			*slot = &shape.Empty{}
			if env.Selection != nil {
				env.Selection.DropShape(i)
			}
			if env.Constraints != nil {
				env.Constraints.DropShape(i)
			}
		}

		switch s := (*slot).(type) {
		case *shape.Path:
			valid := validPoints(points, len(s.Points))
			if len(valid) == 0 {
				break
			}
			if len(s.Points)-len(valid) < 2 {
				removeWhole()
				break
			}
			for _, p := range valid {
				capture(p, PosPoint(s.Points[p]))
				s.Points = slices.Delete(s.Points, p, p+1)
				shiftRefsAfterRemoval(env, i, p)
			}
		case *shape.Mesh:
			valid := validPoints(points, len(s.Vertices))
			if len(valid) == 0 {
				break
			}
			if len(s.Vertices)-len(valid) < 3 {
				removeWhole()
				break
			}
			for _, p := range valid {
				var index uint32
				if p < len(s.Indices) {
					index = s.Indices[p]
					s.Indices = slices.Delete(s.Indices, p, p+1)
				}
				capture(p, VertexPoint(s.Vertices[p], index))
				s.Vertices = slices.Delete(s.Vertices, p, p+1)
				shiftRefsAfterRemoval(env, i, p)
			}
		default:
			if len(validPoints(points, shape.PointCount(*slot))) == 0 {
				break
			}
			removeWhole()
		}
		return remaining == 0
	})

	switch {
	case len(replacedShapes) == 0 && len(removedPoints) == 0:
		return Noop{}
	case len(replacedShapes) == 0:
		return AddShapePoints{Points: removedPoints}
	case len(removedPoints) == 0:
		return ReplaceShapes{Shapes: replacedShapes}
	default:
		return Combined{Label: "Add Shapes and Points", Actions: []Action{
			ReplaceShapes{Shapes: replacedShapes},
			AddShapePoints{Points: removedPoints},
		}}
	}
}

// validPoints filters out-of-range point indices and returns the valid
// ones sorted highest first, so earlier indices stay valid mid-removal.
func validPoints(points []int, count int) []int {
	var valid []int
	for _, p := range points {
		if p >= 0 && p < count {
			valid = append(valid, p)
		}
	}
	slices.Sort(valid)
	slices.Reverse(valid)
	return valid
}

func shiftRefsAfterRemoval(env *Env, i, p int) {
	if env.Selection != nil {
		env.Selection.ShiftAfterPointRemoval(i, p)
	}
	if env.Constraints != nil {
		env.Constraints.ShiftAfterPointRemoval(i, p)
	}
}

func applyAddPoints(a AddShapePoints, env *Env) Action {
	if len(a.Points) == 0 {
		return Noop{}
	}
	var added []shape.PointRef
	remaining := len(a.Points)

	shape.EachShapeSlot(env.Root, func(i int, slot *shape.Shape) bool {
		toAdd, ok := a.Points[i]
		if !ok {
			return false
		}
		remaining--

		indices := make([]int, 0, len(toAdd))
		for p := range toAdd {
			indices = append(indices, p)
		}
		slices.Sort(indices)

		switch s := (*slot).(type) {
		case *shape.Path:
			for _, p := range indices {
				if p < 0 || p > len(s.Points) {
					continue
				}
				s.Points = slices.Insert(s.Points, p, toAdd[p].Pos)
				added = append(added, shape.Ref(i, p))
				shiftRefsAfterInsertion(env, i, p)
			}
		case *shape.Mesh:
			for _, p := range indices {
				v := toAdd[p]
				if v.Vertex == nil || p < 0 || p > len(s.Vertices) {
					continue
				}
				s.Vertices = slices.Insert(s.Vertices, p, *v.Vertex)
				if p <= len(s.Indices) {
					s.Indices = slices.Insert(s.Indices, p, v.Index)
				}
				added = append(added, shape.Ref(i, p))
				shiftRefsAfterInsertion(env, i, p)
			}
		}
		return remaining == 0
	})

	if len(added) == 0 {
		return Noop{}
	}
	return RemoveShapePoints{Refs: added}
}

func shiftRefsAfterInsertion(env *Env, i, p int) {
	if env.Selection != nil {
		env.Selection.ShiftAfterPointInsertion(i, p)
	}
	if env.Constraints != nil {
		env.Constraints.ShiftAfterPointInsertion(i, p)
	}
}

// SingleAddPoint builds an AddShapePoints for one point.
func SingleAddPoint(ref shape.PointRef, v PointValue) AddShapePoints {
	return AddShapePoints{Points: map[int]map[int]PointValue{
		ref.Shape: {ref.Point: v},
	}}
}

// MoveAll builds a MoveShapePoints translating every given address by the
// same vector.
func MoveAll(refs []shape.PointRef, t geom.Vec2) MoveShapePoints {
	m := make(map[shape.PointRef]geom.Vec2, len(refs))
	for _, ref := range refs {
		m[ref] = t
	}
	return MoveShapePoints{Translations: m}
}
