/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Transform maps content (document) coordinates to view coordinates:
// view = content*Scale + Translation. Scale is uniform and must stay > 0;
// clamping to a configured range is the caller's responsibility.
type Transform struct {
	Translation Vec2    `json:"translation"`
	Scale       float32 `json:"scale"`
}

func Identity() Transform { return Transform{Scale: 1} }

// Apply maps a content point into view coordinates.
func (t Transform) Apply(p Vec2) Vec2 {
	return Vec2{p.X*t.Scale + t.Translation.X, p.Y*t.Scale + t.Translation.Y}
}

// Unapply maps a view point back into content coordinates.
func (t Transform) Unapply(p Vec2) Vec2 {
	return Vec2{(p.X - t.Translation.X) / t.Scale, (p.Y - t.Translation.Y) / t.Scale}
}

func (t Transform) ApplyRect(r Rect) Rect {
	return Rect{Min: t.Apply(r.Min), Max: t.Apply(r.Max)}
}

func (t Transform) UnapplyRect(r Rect) Rect {
	return Rect{Min: t.Unapply(r.Min), Max: t.Unapply(r.Max)}
}

// TranslateBy shifts the view by d (view coordinates).
func (t Transform) TranslateBy(d Vec2) Transform {
	t.Translation = t.Translation.Add(d)
	return t
}

// ResizeAt rescales by factor while keeping the view point anchor fixed,
// so zooming happens around the pointer rather than the origin.
func (t Transform) ResizeAt(anchor Vec2, factor float32) Transform {
	if factor == 1 || factor <= 0 {
		return t
	}
	t.Scale *= factor
	t.Translation = Vec2{
		anchor.X - (anchor.X-t.Translation.X)*factor,
		anchor.Y - (anchor.Y-t.Translation.Y)*factor,
	}
	return t
}
