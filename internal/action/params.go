/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package action

import (
	"fmt"
	"math"

	"goshapestudio/internal/shape"
)

// ParamKind names a mutable shape parameter. Not every shape kind accepts
// every parameter; unsupported pairs are skipped and excluded from the
// inverse.
type ParamKind uint8

const (
	ParamStrokeColor ParamKind = iota
	ParamStrokeWidth
	ParamRounding
	ParamFillColor
	ParamClosed
	ParamRadius
	ParamTexture
)

var paramKindNames = map[ParamKind]string{
	ParamStrokeColor: "stroke_color",
	ParamStrokeWidth: "stroke_width",
	ParamRounding:    "rounding",
	ParamFillColor:   "fill_color",
	ParamClosed:      "closed",
	ParamRadius:      "radius",
	ParamTexture:     "texture",
}

func (k ParamKind) String() string {
	if s, ok := paramKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText lets ParamKind key JSON maps by name.
func (k ParamKind) MarshalText() ([]byte, error) {
	s, ok := paramKindNames[k]
	if !ok {
		return nil, fmt.Errorf("action: unknown param kind %d", k)
	}
	return []byte(s), nil
}

func (k *ParamKind) UnmarshalText(text []byte) error {
	for kind, name := range paramKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("action: unknown param kind %q", text)
}

// ParamValue is the closed union of parameter payloads. All variants are
// comparable so values can be compared and used as map keys.
type ParamValue interface{ isParamValue() }

type ColorValue struct{ Color shape.Color }
type FloatValue struct{ Float float32 }
type RoundingValue struct{ Rounding shape.Rounding }
type BoolValue struct{ Bool bool }
type TextureValue struct{ Texture string }

func (ColorValue) isParamValue()    {}
func (FloatValue) isParamValue()    {}
func (RoundingValue) isParamValue() {}
func (BoolValue) isParamValue()     {}
func (TextureValue) isParamValue()  {}

// Float builds a FloatValue; NaN collapses to zero so values stay
// comparable.
func Float(v float32) FloatValue {
	if math.IsNaN(float64(v)) {
		v = 0
	}
	return FloatValue{Float: v}
}

func applyParams(a ApplyShapeParams, env *Env) Action {
	if len(a.Params) == 0 {
		return Noop{}
	}
	changed := make(map[int]map[ParamKind]ParamValue)
	remaining := len(a.Params)

	shape.EachShapeSlot(env.Root, func(i int, slot *shape.Shape) bool {
		params, ok := a.Params[i]
		if !ok {
			return false
		}
		remaining--

		prev := make(map[ParamKind]ParamValue)
		record := func(kind ParamKind, old ParamValue) {
			prev[kind] = old
		}
		swapStroke := func(s *shape.Stroke) {
			if v, ok := params[ParamStrokeColor].(ColorValue); ok {
				record(ParamStrokeColor, ColorValue{Color: s.Color})
				s.Color = v.Color
			}
			if v, ok := params[ParamStrokeWidth].(FloatValue); ok {
				record(ParamStrokeWidth, Float(s.Width))
				s.Width = v.Float
			}
		}
		swapFill := func(fill *shape.Color) {
			if v, ok := params[ParamFillColor].(ColorValue); ok {
				record(ParamFillColor, ColorValue{Color: *fill})
				*fill = v.Color
			}
		}
		swapClosed := func(closed *bool) {
			if v, ok := params[ParamClosed].(BoolValue); ok {
				record(ParamClosed, BoolValue{Bool: *closed})
				*closed = v.Bool
			}
		}

		switch s := (*slot).(type) {
		case *shape.LineSegment:
			swapStroke(&s.Stroke)
		case *shape.Path:
			swapStroke(&s.Stroke)
			swapClosed(&s.Closed)
			swapFill(&s.Fill)
		case *shape.Circle:
			swapStroke(&s.Stroke)
			swapFill(&s.Fill)
			if v, ok := params[ParamRadius].(FloatValue); ok {
				record(ParamRadius, Float(s.Radius))
				s.Radius = v.Float
			}
		case *shape.Ellipse:
			swapStroke(&s.Stroke)
			swapFill(&s.Fill)
		case *shape.Rect:
			swapStroke(&s.Stroke)
			swapFill(&s.Fill)
			if v, ok := params[ParamRounding].(RoundingValue); ok {
				record(ParamRounding, RoundingValue{Rounding: s.Rounding})
				s.Rounding = v.Rounding
			}
			if v, ok := params[ParamTexture].(TextureValue); ok {
				record(ParamTexture, TextureValue{Texture: s.TextureID})
				s.TextureID = v.Texture
			}
		case *shape.Mesh:
			if v, ok := params[ParamTexture].(TextureValue); ok {
				record(ParamTexture, TextureValue{Texture: s.TextureID})
				s.TextureID = v.Texture
			}
		case *shape.QuadraticBezier:
			swapStroke(&s.Stroke)
			swapClosed(&s.Closed)
			swapFill(&s.Fill)
		case *shape.CubicBezier:
			swapStroke(&s.Stroke)
			swapClosed(&s.Closed)
			swapFill(&s.Fill)
		}

		if len(prev) > 0 {
			changed[i] = prev
		}
		return remaining == 0
	})

	if len(changed) == 0 {
		return Noop{}
	}
	return ApplyShapeParams{Params: changed}
}

// ExtractParams reads the current parameter values of the given shape
// indices. Shapes without parameters (empty, text, callback, groups)
// contribute no entry.
func ExtractParams(root shape.Shape, indices map[int]struct{}) map[int]map[ParamKind]ParamValue {
	out := make(map[int]map[ParamKind]ParamValue)
	if len(indices) == 0 {
		return out
	}
	remaining := len(indices)
	shape.EachShape(root, func(i int, s shape.Shape) bool {
		if _, ok := indices[i]; !ok {
			return false
		}
		remaining--

		params := make(map[ParamKind]ParamValue)
		stroke := func(st shape.Stroke) {
			params[ParamStrokeColor] = ColorValue{Color: st.Color}
			params[ParamStrokeWidth] = Float(st.Width)
		}
		switch s := s.(type) {
		case *shape.LineSegment:
			stroke(s.Stroke)
		case *shape.Path:
			stroke(s.Stroke)
			params[ParamClosed] = BoolValue{Bool: s.Closed}
			params[ParamFillColor] = ColorValue{Color: s.Fill}
		case *shape.Circle:
			stroke(s.Stroke)
			params[ParamFillColor] = ColorValue{Color: s.Fill}
			params[ParamRadius] = Float(s.Radius)
		case *shape.Ellipse:
			stroke(s.Stroke)
			params[ParamFillColor] = ColorValue{Color: s.Fill}
		case *shape.Rect:
			stroke(s.Stroke)
			params[ParamFillColor] = ColorValue{Color: s.Fill}
			params[ParamRounding] = RoundingValue{Rounding: s.Rounding}
			params[ParamTexture] = TextureValue{Texture: s.TextureID}
		case *shape.Mesh:
			params[ParamTexture] = TextureValue{Texture: s.TextureID}
		case *shape.QuadraticBezier:
			stroke(s.Stroke)
			params[ParamClosed] = BoolValue{Bool: s.Closed}
			params[ParamFillColor] = ColorValue{Color: s.Fill}
		case *shape.CubicBezier:
			stroke(s.Stroke)
			params[ParamClosed] = BoolValue{Bool: s.Closed}
			params[ParamFillColor] = ColorValue{Color: s.Fill}
		default:
			return remaining == 0
		}
		out[i] = params
		return remaining == 0
	})
	return out
}

// CommonParams reduces per-shape parameters to the values shared by every
// shape: a parameter maps to nil when the shapes disagree on it.
func CommonParams(params map[int]map[ParamKind]ParamValue) map[ParamKind]ParamValue {
	common := make(map[ParamKind]ParamValue)
	mixed := make(map[ParamKind]bool)
	for _, shapeParams := range params {
		for kind, v := range shapeParams {
			if mixed[kind] {
				continue
			}
			if prev, ok := common[kind]; !ok {
				common[kind] = v
			} else if prev != v {
				mixed[kind] = true
				common[kind] = nil
			}
		}
	}
	return common
}

// SameParams builds an ApplyShapeParams applying one parameter set to
// every given shape index.
func SameParams(params map[ParamKind]ParamValue, indices []int) ApplyShapeParams {
	out := make(map[int]map[ParamKind]ParamValue, len(indices))
	for _, i := range indices {
		m := make(map[ParamKind]ParamValue, len(params))
		for k, v := range params {
			m[k] = v
		}
		out[i] = m
	}
	return ApplyShapeParams{Params: out}
}
