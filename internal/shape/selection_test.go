/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"reflect"
	"testing"
)

func TestSelectionKeepsAddressOrder(t *testing.T) {
	var s Selection
	s.Add(Ref(2, 1))
	s.Add(Ref(0, 3))
	s.Add(Ref(2, 0))
	s.Add(Ref(0, 3))
	want := []PointRef{Ref(0, 3), Ref(2, 0), Ref(2, 1)}
	if !reflect.DeepEqual(s.Refs(), want) {
		t.Fatalf("refs: got %v, want %v", s.Refs(), want)
	}
	if s.Len() != 3 {
		t.Fatalf("duplicate add changed length: %d", s.Len())
	}
}

func TestSelectionToggle(t *testing.T) {
	var s Selection
	s.Toggle(Ref(1, 1))
	if !s.Contains(Ref(1, 1)) {
		t.Fatalf("toggle should add an absent address")
	}
	s.Toggle(Ref(1, 1))
	if s.Contains(Ref(1, 1)) {
		t.Fatalf("toggle should remove a present address")
	}
}

func TestSelectionSingle(t *testing.T) {
	var s Selection
	if _, ok := s.Single(); ok {
		t.Fatalf("empty selection reported single")
	}
	s.Add(Ref(4, 2))
	r, ok := s.Single()
	if !ok || r != Ref(4, 2) {
		t.Fatalf("single: got %v %v", r, ok)
	}
	s.Add(Ref(5, 0))
	if _, ok := s.Single(); ok {
		t.Fatalf("two-address selection reported single")
	}
}

func TestSelectionDropShape(t *testing.T) {
	s := SelectionOf(Ref(0, 0), Ref(1, 0), Ref(1, 2), Ref(2, 1))
	s.DropShape(1)
	want := []PointRef{Ref(0, 0), Ref(2, 1)}
	if !reflect.DeepEqual(s.Refs(), want) {
		t.Fatalf("refs after drop: got %v, want %v", s.Refs(), want)
	}
}

func TestSelectionShiftAfterPointRemoval(t *testing.T) {
	s := SelectionOf(Ref(1, 0), Ref(1, 1), Ref(1, 2), Ref(3, 2))
	s.ShiftAfterPointRemoval(1, 1)
	want := []PointRef{Ref(1, 0), Ref(1, 1), Ref(3, 2)}
	if !reflect.DeepEqual(s.Refs(), want) {
		t.Fatalf("refs after removal: got %v, want %v", s.Refs(), want)
	}
}

func TestSelectionShiftAfterPointInsertion(t *testing.T) {
	s := SelectionOf(Ref(1, 0), Ref(1, 1), Ref(2, 0))
	s.ShiftAfterPointInsertion(1, 1)
	want := []PointRef{Ref(1, 0), Ref(1, 2), Ref(2, 0)}
	if !reflect.DeepEqual(s.Refs(), want) {
		t.Fatalf("refs after insertion: got %v, want %v", s.Refs(), want)
	}
}
