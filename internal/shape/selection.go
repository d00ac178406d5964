/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"slices"
	"sort"
)

// Selection is an ordered set of point addresses, kept sorted in address
// order. The zero value is an empty selection.
type Selection struct {
	refs []PointRef
}

// SelectionOf builds a selection from the given addresses.
func SelectionOf(refs ...PointRef) Selection {
	var s Selection
	for _, r := range refs {
		s.Add(r)
	}
	return s
}

func (s *Selection) search(r PointRef) (int, bool) {
	i := sort.Search(len(s.refs), func(i int) bool { return s.refs[i].Cmp(r) >= 0 })
	return i, i < len(s.refs) && s.refs[i] == r
}

// Add inserts r, keeping the set sorted. Adding a present address is a
// no-op.
func (s *Selection) Add(r PointRef) {
	i, ok := s.search(r)
	if ok {
		return
	}
	s.refs = slices.Insert(s.refs, i, r)
}

// Remove deletes r if present.
func (s *Selection) Remove(r PointRef) {
	if i, ok := s.search(r); ok {
		s.refs = slices.Delete(s.refs, i, i+1)
	}
}

// Toggle adds r when absent and removes it when present.
func (s *Selection) Toggle(r PointRef) {
	if s.Contains(r) {
		s.Remove(r)
	} else {
		s.Add(r)
	}
}

// Contains reports whether r is selected.
func (s *Selection) Contains(r PointRef) bool {
	_, ok := s.search(r)
	return ok
}

// Clear empties the selection.
func (s *Selection) Clear() { s.refs = s.refs[:0] }

// Set replaces the selection with exactly r.
func (s *Selection) Set(r PointRef) {
	s.refs = append(s.refs[:0], r)
}

// Len returns the number of selected addresses.
func (s *Selection) Len() int { return len(s.refs) }

// Refs returns the selected addresses in address order. The slice is
// owned by the selection; callers must not mutate it.
func (s *Selection) Refs() []PointRef { return s.refs }

// Single returns the only selected address, if exactly one is selected.
func (s *Selection) Single() (PointRef, bool) {
	if len(s.refs) == 1 {
		return s.refs[0], true
	}
	return PointRef{}, false
}

// DropShape removes every address on shape index i. Used when a shape
// collapses to Empty or is replaced wholesale.
func (s *Selection) DropShape(i int) {
	s.refs = slices.DeleteFunc(s.refs, func(r PointRef) bool { return r.Shape == i })
}

// ShiftAfterPointRemoval re-keys addresses on shape i after the point at
// index p was removed: the address itself is dropped and higher point
// indices on the same shape shift down by one.
func (s *Selection) ShiftAfterPointRemoval(i, p int) {
	out := s.refs[:0]
	for _, r := range s.refs {
		if r.Shape == i {
			if r.Point == p {
				continue
			}
			if r.Point > p {
				r.Point--
			}
		}
		out = append(out, r)
	}
	s.refs = out
}

// ShiftAfterPointInsertion re-keys addresses on shape i after a point was
// inserted at index p: point indices at or above p shift up by one.
func (s *Selection) ShiftAfterPointInsertion(i, p int) {
	for j := range s.refs {
		if s.refs[j].Shape == i && s.refs[j].Point >= p {
			s.refs[j].Point++
		}
	}
}
