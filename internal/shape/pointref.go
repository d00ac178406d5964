/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"fmt"
	"strconv"
	"strings"
)

// PointRef addresses one control point as (shape index, point index).
// Shape indices are assigned in depth-first pre-order over leaf shapes;
// point indices follow the fixed per-kind ordering of the traversal.
// Addresses are unique and totally ordered within one traversal pass but
// are NOT stable across structural edits; consumers that outlive an edit
// must be re-keyed (see Selection and constraint.Set).
type PointRef struct {
	Shape int `json:"shape"`
	Point int `json:"point"`
}

func Ref(shape, point int) PointRef { return PointRef{Shape: shape, Point: point} }

// Cmp orders refs lexicographically by (shape, point).
func (r PointRef) Cmp(o PointRef) int {
	switch {
	case r.Shape != o.Shape:
		if r.Shape < o.Shape {
			return -1
		}
		return 1
	case r.Point != o.Point:
		if r.Point < o.Point {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (r PointRef) Less(o PointRef) bool { return r.Cmp(o) < 0 }

// Next addresses the following point within the same shape.
func (r PointRef) Next() PointRef { return PointRef{Shape: r.Shape, Point: r.Point + 1} }

// Prev addresses the preceding point within the same shape; the caller is
// responsible for not stepping below point 0.
func (r PointRef) Prev() PointRef { return PointRef{Shape: r.Shape, Point: r.Point - 1} }

// First addresses point 0 of the same shape.
func (r PointRef) First() PointRef { return PointRef{Shape: r.Shape} }

// NextShape addresses point 0 of the following shape.
func (r PointRef) NextShape() PointRef { return PointRef{Shape: r.Shape + 1} }

func (r PointRef) String() string { return fmt.Sprintf("%d:%d", r.Shape, r.Point) }

// MarshalText encodes the ref as "shape:point" so PointRef can key JSON maps.
func (r PointRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *PointRef) UnmarshalText(b []byte) error {
	s, p, ok := strings.Cut(string(b), ":")
	if !ok {
		return fmt.Errorf("point ref %q: want shape:point", b)
	}
	si, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("point ref %q: %w", b, err)
	}
	pi, err := strconv.Atoi(p)
	if err != nil {
		return fmt.Errorf("point ref %q: %w", b, err)
	}
	r.Shape, r.Point = si, pi
	return nil
}
