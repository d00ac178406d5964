/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package shape defines the editable shape tree: a closed union of
// primitive shapes, the (shape, point) addressing scheme, traversal, and
// the selection set. Every mutation goes through internal/action; the
// types here carry no behavior beyond structure, cloning and traversal.
package shape

import "goshapestudio/internal/geom"

// Shape is the closed tagged union of everything the editor can hold.
// Concrete variants are pointer types so tree mutation acts in place;
// consumers type-switch exhaustively.
type Shape interface{ isShape() }

// Group is an ordered collection of child shapes. Traversal flattens
// groups transparently: a Group consumes no shape index of its own.
type Group struct {
	Children []Shape
}

// Empty is a leaf placeholder. It consumes a shape index but exposes no
// control points; removed shapes collapse into Empty so sibling indices
// stay stable.
type Empty struct{}

type LineSegment struct {
	Points [2]geom.Vec2
	Stroke Stroke
}

type Path struct {
	Points []geom.Vec2
	Stroke Stroke
	Fill   Color
	Closed bool
}

type Circle struct {
	Center geom.Vec2
	Radius float32
	Stroke Stroke
	Fill   Color
}

type Ellipse struct {
	Center  geom.Vec2
	RadiusX float32
	RadiusY float32
	Stroke  Stroke
	Fill    Color
}

type Rect struct {
	Min       geom.Vec2
	Max       geom.Vec2
	Rounding  Rounding
	Stroke    Stroke
	Fill      Color
	TextureID string
}

type Text struct {
	Pos   geom.Vec2
	Text  string
	Size  float32
	Color Color
}

type Mesh struct {
	Vertices  []Vertex
	Indices   []uint32
	TextureID string
}

type QuadraticBezier struct {
	Points [3]geom.Vec2
	Stroke Stroke
	Fill   Color
	Closed bool
}

type CubicBezier struct {
	Points [4]geom.Vec2
	Stroke Stroke
	Fill   Color
	Closed bool
}

// Callback draws through an opaque function. It consumes a shape index
// but is not addressable and does not survive serialization.
type Callback struct {
	Draw func(bounds geom.Rect)
}

func (*Group) isShape()           {}
func (*Empty) isShape()           {}
func (*LineSegment) isShape()     {}
func (*Path) isShape()            {}
func (*Circle) isShape()          {}
func (*Ellipse) isShape()         {}
func (*Rect) isShape()            {}
func (*Text) isShape()            {}
func (*Mesh) isShape()            {}
func (*QuadraticBezier) isShape() {}
func (*CubicBezier) isShape()     {}
func (*Callback) isShape()        {}

// Kind identifies a shape variant without type assertions.
type Kind uint8

const (
	KindGroup Kind = iota
	KindEmpty
	KindLineSegment
	KindPath
	KindCircle
	KindEllipse
	KindRect
	KindText
	KindMesh
	KindQuadraticBezier
	KindCubicBezier
	KindCallback
)

var kindNames = map[Kind]string{
	KindGroup:           "group",
	KindEmpty:           "empty",
	KindLineSegment:     "line_segment",
	KindPath:            "path",
	KindCircle:          "circle",
	KindEllipse:         "ellipse",
	KindRect:            "rect",
	KindText:            "text",
	KindMesh:            "mesh",
	KindQuadraticBezier: "quadratic_bezier",
	KindCubicBezier:     "cubic_bezier",
	KindCallback:        "callback",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// CenterRadius reports whether the kind uses the center-plus-radius-handle
// point topology (point 0 is the center, the following points are handles
// whose distance to the center defines the radii).
func (k Kind) CenterRadius() bool {
	return k == KindCircle || k == KindEllipse
}

// RadiusHandleCount is the maximum number of radius handles any
// center-radius kind carries (ellipse: x and y).
const RadiusHandleCount = 2

func KindOf(s Shape) Kind {
	switch s.(type) {
	case *Group:
		return KindGroup
	case *Empty:
		return KindEmpty
	case *LineSegment:
		return KindLineSegment
	case *Path:
		return KindPath
	case *Circle:
		return KindCircle
	case *Ellipse:
		return KindEllipse
	case *Rect:
		return KindRect
	case *Text:
		return KindText
	case *Mesh:
		return KindMesh
	case *QuadraticBezier:
		return KindQuadraticBezier
	case *CubicBezier:
		return KindCubicBezier
	case *Callback:
		return KindCallback
	}
	return KindEmpty
}

// PointCount returns the number of addressable control points of a leaf
// shape (groups report 0; their children are addressed individually).
func PointCount(s Shape) int {
	switch s := s.(type) {
	case *LineSegment:
		return 2
	case *Path:
		return len(s.Points)
	case *Circle:
		return 2
	case *Ellipse:
		return 3
	case *Rect:
		return 2
	case *Text:
		return 1
	case *Mesh:
		return len(s.Vertices)
	case *QuadraticBezier:
		return 3
	case *CubicBezier:
		return 4
	default:
		return 0
	}
}

// Clone deep-copies a shape tree. Callback functions are shared, not
// copied; everything else is value-copied.
func Clone(s Shape) Shape {
	switch s := s.(type) {
	case nil:
		return nil
	case *Group:
		children := make([]Shape, len(s.Children))
		for i, c := range s.Children {
			children[i] = Clone(c)
		}
		return &Group{Children: children}
	case *Empty:
		return &Empty{}
	case *LineSegment:
		c := *s
		return &c
	case *Path:
		c := *s
		c.Points = append([]geom.Vec2(nil), s.Points...)
		return &c
	case *Circle:
		c := *s
		return &c
	case *Ellipse:
		c := *s
		return &c
	case *Rect:
		c := *s
		return &c
	case *Text:
		c := *s
		return &c
	case *Mesh:
		c := *s
		c.Vertices = append([]Vertex(nil), s.Vertices...)
		c.Indices = append([]uint32(nil), s.Indices...)
		return &c
	case *QuadraticBezier:
		c := *s
		return &c
	case *CubicBezier:
		c := *s
		return &c
	case *Callback:
		c := *s
		return &c
	}
	return &Empty{}
}
