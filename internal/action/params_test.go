/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package action

import (
	"math"
	"reflect"
	"testing"

	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

var red = shape.Color{R: 255, A: 255}

func TestApplyParamsSwapsAndInverseCarriesPrevious(t *testing.T) {
	path := pathThrough(geom.V(0, 0), geom.V(1, 0), geom.V(2, 0))
	env, root := envOf(path)
	before := shape.Clone(*root)

	undo := Apply(ApplyShapeParams{Params: map[int]map[ParamKind]ParamValue{
		0: {
			ParamStrokeColor: ColorValue{Color: red},
			ParamStrokeWidth: Float(3),
		},
	}}, env)

	if path.Stroke.Color != red || path.Stroke.Width != 3 {
		t.Fatalf("stroke after apply = %+v", path.Stroke)
	}
	inv, ok := undo.(ApplyShapeParams)
	if !ok {
		t.Fatalf("inverse = %T, want apply params", undo)
	}
	want := map[int]map[ParamKind]ParamValue{
		0: {
			ParamStrokeColor: ColorValue{Color: shape.Black},
			ParamStrokeWidth: Float(1),
		},
	}
	if !reflect.DeepEqual(inv.Params, want) {
		t.Fatalf("inverse params = %#v, want %#v", inv.Params, want)
	}

	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("undo did not restore the original stroke")
	}
}

func TestApplyParamsSkipsUnsupportedKinds(t *testing.T) {
	path := pathThrough(geom.V(0, 0), geom.V(1, 0))
	env, _ := envOf(path)

	undo := Apply(ApplyShapeParams{Params: map[int]map[ParamKind]ParamValue{
		0: {
			ParamRadius:      Float(9),
			ParamStrokeWidth: Float(2),
		},
	}}, env)

	inv := undo.(ApplyShapeParams)
	if _, ok := inv.Params[0][ParamRadius]; ok {
		t.Fatalf("radius does not apply to a path and must not appear in the inverse")
	}
	if _, ok := inv.Params[0][ParamStrokeWidth]; !ok {
		t.Fatalf("the applied stroke width is missing from the inverse")
	}
}

func TestApplyParamsNothingAppliedIsNoop(t *testing.T) {
	env, root := envOf(&shape.Text{Pos: geom.V(0, 0), Text: "hi", Size: 10})
	before := shape.Clone(*root)

	undo := Apply(ApplyShapeParams{Params: map[int]map[ParamKind]ParamValue{
		0: {ParamStrokeWidth: Float(4)},
	}}, env)
	if _, ok := undo.(Noop); !ok {
		t.Fatalf("inverse = %T, want noop: text accepts no parameters", undo)
	}
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("text shape changed")
	}
}

func TestRadiusParamResizesCircle(t *testing.T) {
	circle := &shape.Circle{Center: geom.V(5, 5), Radius: 2, Stroke: testStroke}
	env, _ := envOf(circle)

	undo := Apply(ApplyShapeParams{Params: map[int]map[ParamKind]ParamValue{
		0: {ParamRadius: Float(8)},
	}}, env)
	if circle.Radius != 8 {
		t.Fatalf("radius = %v, want 8", circle.Radius)
	}
	Apply(undo, env)
	if circle.Radius != 2 {
		t.Fatalf("radius after undo = %v, want 2", circle.Radius)
	}
}

func TestRoundingAndTextureOnRect(t *testing.T) {
	rect := &shape.Rect{Min: geom.V(0, 0), Max: geom.V(10, 10), Stroke: testStroke}
	env, root := envOf(rect)
	before := shape.Clone(*root)

	undo := Apply(ApplyShapeParams{Params: map[int]map[ParamKind]ParamValue{
		0: {
			ParamRounding: RoundingValue{Rounding: shape.Rounding{NW: 2, NE: 2, SW: 2, SE: 2}},
			ParamTexture:  TextureValue{Texture: "paper"},
			ParamClosed:   BoolValue{Bool: true},
		},
	}}, env)

	if rect.Rounding.NW != 2 || rect.TextureID != "paper" {
		t.Fatalf("rect after apply = %+v", rect)
	}
	inv := undo.(ApplyShapeParams)
	if _, ok := inv.Params[0][ParamClosed]; ok {
		t.Fatalf("closed does not apply to a rect and must not appear in the inverse")
	}
	Apply(undo, env)
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("undo did not restore the rect")
	}
}

func TestClosedAndFillOnPath(t *testing.T) {
	path := pathThrough(geom.V(0, 0), geom.V(1, 0), geom.V(0, 1))
	env, _ := envOf(path)

	Apply(ApplyShapeParams{Params: map[int]map[ParamKind]ParamValue{
		0: {
			ParamClosed:    BoolValue{Bool: true},
			ParamFillColor: ColorValue{Color: red},
		},
	}}, env)
	if !path.Closed || path.Fill != red {
		t.Fatalf("path after apply: closed=%v fill=%+v", path.Closed, path.Fill)
	}
}

func TestApplyParamsStaleIndexIsNoop(t *testing.T) {
	env, root := envOf(pathThrough(geom.V(0, 0), geom.V(1, 0)))
	before := shape.Clone(*root)

	undo := Apply(ApplyShapeParams{Params: map[int]map[ParamKind]ParamValue{
		7: {ParamStrokeWidth: Float(4)},
	}}, env)
	if _, ok := undo.(Noop); !ok {
		t.Fatalf("inverse = %T, want noop", undo)
	}
	if !reflect.DeepEqual(*root, before) {
		t.Fatalf("tree changed by params on a stale index")
	}
}

func TestExtractParamsReadsCurrentValues(t *testing.T) {
	root := shape.Shape(&shape.Group{Children: []shape.Shape{
		&shape.Circle{Center: geom.V(0, 0), Radius: 4, Stroke: testStroke, Fill: red},
		&shape.Text{Pos: geom.V(1, 1), Text: "x", Size: 9},
	}})

	params := ExtractParams(root, map[int]struct{}{0: {}, 1: {}})
	circleParams, ok := params[0]
	if !ok {
		t.Fatalf("no params extracted for the circle")
	}
	if circleParams[ParamRadius] != (FloatValue{Float: 4}) {
		t.Fatalf("extracted radius = %#v", circleParams[ParamRadius])
	}
	if circleParams[ParamFillColor] != (ColorValue{Color: red}) {
		t.Fatalf("extracted fill = %#v", circleParams[ParamFillColor])
	}
	if _, ok := params[1]; ok {
		t.Fatalf("text contributes no parameters")
	}
}

func TestCommonParamsDropsMixedValues(t *testing.T) {
	params := map[int]map[ParamKind]ParamValue{
		0: {
			ParamStrokeWidth: Float(2),
			ParamStrokeColor: ColorValue{Color: shape.Black},
		},
		1: {
			ParamStrokeWidth: Float(2),
			ParamStrokeColor: ColorValue{Color: red},
		},
	}
	common := CommonParams(params)
	if common[ParamStrokeWidth] != (FloatValue{Float: 2}) {
		t.Fatalf("shared width missing: %#v", common[ParamStrokeWidth])
	}
	if common[ParamStrokeColor] != nil {
		t.Fatalf("mixed color must map to nil, got %#v", common[ParamStrokeColor])
	}
}

func TestSameParamsFansOutToIndices(t *testing.T) {
	a := SameParams(map[ParamKind]ParamValue{ParamStrokeWidth: Float(3)}, []int{0, 2})
	if len(a.Params) != 2 {
		t.Fatalf("params for %d shapes, want 2", len(a.Params))
	}
	for _, i := range []int{0, 2} {
		if a.Params[i][ParamStrokeWidth] != (FloatValue{Float: 3}) {
			t.Fatalf("shape %d missing the fanned-out width", i)
		}
	}
}

func TestParamKindNamesRoundTrip(t *testing.T) {
	kinds := []ParamKind{
		ParamStrokeColor, ParamStrokeWidth, ParamRounding, ParamFillColor,
		ParamClosed, ParamRadius, ParamTexture,
	}
	for _, k := range kinds {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", k, err)
		}
		var back ParamKind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("unmarshal %q: %v", text, err)
		}
		if back != k {
			t.Fatalf("round trip of %v came back as %v", k, back)
		}
	}
	var k ParamKind
	if err := k.UnmarshalText([]byte("wobble")); err == nil {
		t.Fatalf("unknown param kind must be rejected")
	}
}

func TestFloatParamCollapsesNaN(t *testing.T) {
	v := Float(float32(math.NaN()))
	if v.Float != 0 {
		t.Fatalf("NaN float param = %v, want 0", v.Float)
	}
}
