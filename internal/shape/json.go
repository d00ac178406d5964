/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"encoding/json"
	"fmt"

	"goshapestudio/internal/geom"
)

// Shapes serialize as one JSON object per node with a "kind" discriminator
// and kind-specific payload fields. Callback shapes keep their index slot
// on disk but their draw function does not survive a round trip.

type shapeWire struct {
	Kind      string            `json:"kind"`
	Children  []json.RawMessage `json:"children,omitempty"`
	Points    []geom.Vec2       `json:"points,omitempty"`
	Stroke    *Stroke           `json:"stroke,omitempty"`
	Fill      *Color            `json:"fill,omitempty"`
	Closed    bool              `json:"closed,omitempty"`
	Center    *geom.Vec2        `json:"center,omitempty"`
	Radius    float32           `json:"radius,omitempty"`
	RadiusX   float32           `json:"radius_x,omitempty"`
	RadiusY   float32           `json:"radius_y,omitempty"`
	Min       *geom.Vec2        `json:"min,omitempty"`
	Max       *geom.Vec2        `json:"max,omitempty"`
	Rounding  *Rounding         `json:"rounding,omitempty"`
	TextureID string            `json:"texture_id,omitempty"`
	Pos       *geom.Vec2        `json:"pos,omitempty"`
	Text      string            `json:"text,omitempty"`
	Size      float32           `json:"size,omitempty"`
	Color     *Color            `json:"color,omitempty"`
	Vertices  []Vertex          `json:"vertices,omitempty"`
	Indices   []uint32          `json:"indices,omitempty"`
}

// MarshalShape encodes a shape tree as JSON.
func MarshalShape(s Shape) ([]byte, error) {
	w, err := toWire(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func toWire(s Shape) (*shapeWire, error) {
	if s == nil {
		return nil, fmt.Errorf("shape: cannot marshal nil shape")
	}
	w := &shapeWire{Kind: KindOf(s).String()}
	switch s := s.(type) {
	case *Group:
		w.Children = make([]json.RawMessage, 0, len(s.Children))
		for i, c := range s.Children {
			raw, err := MarshalShape(c)
			if err != nil {
				return nil, fmt.Errorf("shape: child %d: %w", i, err)
			}
			w.Children = append(w.Children, raw)
		}
	case *Empty, *Callback:
	case *LineSegment:
		w.Points = s.Points[:]
		w.Stroke = &s.Stroke
	case *Path:
		w.Points = s.Points
		w.Stroke = &s.Stroke
		w.Fill = &s.Fill
		w.Closed = s.Closed
	case *Circle:
		c := s.Center
		w.Center = &c
		w.Radius = s.Radius
		w.Stroke = &s.Stroke
		w.Fill = &s.Fill
	case *Ellipse:
		c := s.Center
		w.Center = &c
		w.RadiusX = s.RadiusX
		w.RadiusY = s.RadiusY
		w.Stroke = &s.Stroke
		w.Fill = &s.Fill
	case *Rect:
		mn, mx := s.Min, s.Max
		w.Min = &mn
		w.Max = &mx
		if !s.Rounding.IsZero() {
			r := s.Rounding
			w.Rounding = &r
		}
		w.Stroke = &s.Stroke
		w.Fill = &s.Fill
		w.TextureID = s.TextureID
	case *Text:
		p := s.Pos
		w.Pos = &p
		w.Text = s.Text
		w.Size = s.Size
		c := s.Color
		w.Color = &c
	case *Mesh:
		w.Vertices = s.Vertices
		w.Indices = s.Indices
		w.TextureID = s.TextureID
	case *QuadraticBezier:
		w.Points = s.Points[:]
		w.Stroke = &s.Stroke
		w.Fill = &s.Fill
		w.Closed = s.Closed
	case *CubicBezier:
		w.Points = s.Points[:]
		w.Stroke = &s.Stroke
		w.Fill = &s.Fill
		w.Closed = s.Closed
	default:
		return nil, fmt.Errorf("shape: cannot marshal %T", s)
	}
	return w, nil
}

// UnmarshalShape decodes a shape tree from JSON.
func UnmarshalShape(data []byte) (Shape, error) {
	var w shapeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("shape: decode: %w", err)
	}
	return fromWire(&w)
}

func fromWire(w *shapeWire) (Shape, error) {
	stroke := func() Stroke {
		if w.Stroke != nil {
			return *w.Stroke
		}
		return Stroke{}
	}
	fill := func() Color {
		if w.Fill != nil {
			return *w.Fill
		}
		return Color{}
	}
	vec := func(p *geom.Vec2) geom.Vec2 {
		if p != nil {
			return *p
		}
		return geom.Vec2{}
	}
	fixed := func(n int) ([]geom.Vec2, error) {
		if len(w.Points) != n {
			return nil, fmt.Errorf("shape: %s expects %d points, got %d", w.Kind, n, len(w.Points))
		}
		return w.Points, nil
	}

	switch w.Kind {
	case "group":
		g := &Group{Children: make([]Shape, 0, len(w.Children))}
		for i, raw := range w.Children {
			c, err := UnmarshalShape(raw)
			if err != nil {
				return nil, fmt.Errorf("shape: child %d: %w", i, err)
			}
			g.Children = append(g.Children, c)
		}
		return g, nil
	case "empty":
		return &Empty{}, nil
	case "callback":
		return &Callback{}, nil
	case "line_segment":
		pts, err := fixed(2)
		if err != nil {
			return nil, err
		}
		return &LineSegment{Points: [2]geom.Vec2{pts[0], pts[1]}, Stroke: stroke()}, nil
	case "path":
		return &Path{Points: w.Points, Stroke: stroke(), Fill: fill(), Closed: w.Closed}, nil
	case "circle":
		return &Circle{Center: vec(w.Center), Radius: w.Radius, Stroke: stroke(), Fill: fill()}, nil
	case "ellipse":
		return &Ellipse{Center: vec(w.Center), RadiusX: w.RadiusX, RadiusY: w.RadiusY, Stroke: stroke(), Fill: fill()}, nil
	case "rect":
		r := &Rect{Min: vec(w.Min), Max: vec(w.Max), Stroke: stroke(), Fill: fill(), TextureID: w.TextureID}
		if w.Rounding != nil {
			r.Rounding = *w.Rounding
		}
		return r, nil
	case "text":
		t := &Text{Pos: vec(w.Pos), Text: w.Text, Size: w.Size}
		if w.Color != nil {
			t.Color = *w.Color
		}
		return t, nil
	case "mesh":
		return &Mesh{Vertices: w.Vertices, Indices: w.Indices, TextureID: w.TextureID}, nil
	case "quadratic_bezier":
		pts, err := fixed(3)
		if err != nil {
			return nil, err
		}
		return &QuadraticBezier{Points: [3]geom.Vec2{pts[0], pts[1], pts[2]}, Stroke: stroke(), Fill: fill(), Closed: w.Closed}, nil
	case "cubic_bezier":
		pts, err := fixed(4)
		if err != nil {
			return nil, err
		}
		return &CubicBezier{Points: [4]geom.Vec2{pts[0], pts[1], pts[2], pts[3]}, Stroke: stroke(), Fill: fill(), Closed: w.Closed}, nil
	}
	return nil, fmt.Errorf("shape: unknown kind %q", w.Kind)
}

// Tree wraps a root shape so documents can embed one as a JSON field.
type Tree struct {
	Root Shape
}

func (t Tree) MarshalJSON() ([]byte, error) {
	if t.Root == nil {
		return []byte("null"), nil
	}
	return MarshalShape(t.Root)
}

func (t *Tree) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Root = nil
		return nil
	}
	s, err := UnmarshalShape(data)
	if err != nil {
		return err
	}
	t.Root = s
	return nil
}

func (s Selection) MarshalJSON() ([]byte, error) {
	if len(s.refs) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(s.refs)
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	var refs []PointRef
	if err := json.Unmarshal(data, &refs); err != nil {
		return err
	}
	*s = SelectionOf(refs...)
	return nil
}
