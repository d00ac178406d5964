/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import "goshapestudio/internal/geom"

// Color is an 8-bit RGBA color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{}
)

// Stroke describes outline drawing for a shape.
type Stroke struct {
	Width float32 `json:"width"`
	Color Color   `json:"color"`
}

// Rounding holds per-corner radii for rectangles.
type Rounding struct {
	NW float32 `json:"nw"`
	NE float32 `json:"ne"`
	SW float32 `json:"sw"`
	SE float32 `json:"se"`
}

func (r Rounding) IsZero() bool { return r == Rounding{} }

// Max returns the largest corner radius.
func (r Rounding) Max() float32 {
	m := r.NW
	if r.NE > m {
		m = r.NE
	}
	if r.SW > m {
		m = r.SW
	}
	if r.SE > m {
		m = r.SE
	}
	return m
}

// Vertex is one mesh vertex: position, texture coordinate and tint.
type Vertex struct {
	Pos   geom.Vec2 `json:"pos"`
	UV    geom.Vec2 `json:"uv"`
	Color Color     `json:"color"`
}
