/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package constraint

import (
	"encoding/json"
	"fmt"

	"goshapestudio/internal/shape"
)

type constraintWire struct {
	Kind  string          `json:"kind"`
	A     *shape.PointRef `json:"a,omitempty"`
	B     *shape.PointRef `json:"b,omitempty"`
	From  *shape.PointRef `json:"from,omitempty"`
	To    *shape.PointRef `json:"to,omitempty"`
	Ref   *shape.PointRef `json:"ref,omitempty"`
	Range *Range          `json:"range,omitempty"`
}

// MarshalJSON encodes the set as a JSON array of constraints in insertion
// order.
func (s Set) MarshalJSON() ([]byte, error) {
	wires := make([]constraintWire, 0, len(s.constraints))
	for _, c := range s.constraints {
		switch c := c.(type) {
		case LinkBidirectional:
			a, b := c.A, c.B
			wires = append(wires, constraintWire{Kind: "link_bidirectional", A: &a, B: &b})
		case LinkFromTo:
			from, to := c.From, c.To
			wires = append(wires, constraintWire{Kind: "link_from_to", From: &from, To: &to})
		case PositionRange:
			ref, r := c.Ref, c.Range
			wires = append(wires, constraintWire{Kind: "position_range", Ref: &ref, Range: &r})
		}
	}
	return json.Marshal(wires)
}

// UnmarshalJSON replaces the set contents with the decoded constraints.
func (s *Set) UnmarshalJSON(data []byte) error {
	var wires []constraintWire
	if err := json.Unmarshal(data, &wires); err != nil {
		return fmt.Errorf("constraint: decode: %w", err)
	}
	s.constraints = s.constraints[:0]
	for i, w := range wires {
		switch w.Kind {
		case "link_bidirectional":
			if w.A == nil || w.B == nil {
				return fmt.Errorf("constraint: entry %d: missing link endpoints", i)
			}
			s.constraints = append(s.constraints, LinkBidirectional{A: *w.A, B: *w.B})
		case "link_from_to":
			if w.From == nil || w.To == nil {
				return fmt.Errorf("constraint: entry %d: missing link endpoints", i)
			}
			s.constraints = append(s.constraints, LinkFromTo{From: *w.From, To: *w.To})
		case "position_range":
			if w.Ref == nil || w.Range == nil {
				return fmt.Errorf("constraint: entry %d: missing range fields", i)
			}
			s.constraints = append(s.constraints, PositionRange{Ref: *w.Ref, Range: *w.Range})
		default:
			return fmt.Errorf("constraint: entry %d: unknown kind %q", i, w.Kind)
		}
	}
	s.rebuild()
	return nil
}
