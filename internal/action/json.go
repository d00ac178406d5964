/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package action

import (
	"encoding/json"
	"fmt"

	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

// actionWire is the serialized form of every action variant. Kind selects
// the variant; the remaining fields are populated per kind and omitted
// otherwise. Param values carry no discriminator of their own because the
// param kind keying them already fixes the payload type.
type actionWire struct {
	Kind         string                                `json:"kind"`
	Label        string                                `json:"label,omitempty"`
	Actions      []json.RawMessage                     `json:"actions,omitempty"`
	Translations map[shape.PointRef]geom.Vec2          `json:"translations,omitempty"`
	Shape        json.RawMessage                       `json:"shape,omitempty"`
	Replace      *int                                  `json:"replace,omitempty"`
	UnwrapGroup  bool                                  `json:"unwrap_group,omitempty"`
	RootWasEmpty bool                                  `json:"root_was_empty,omitempty"`
	Shapes       map[int]json.RawMessage               `json:"shapes,omitempty"`
	Refs         []shape.PointRef                      `json:"refs,omitempty"`
	Points       map[int]map[int]PointValue            `json:"points,omitempty"`
	Params       map[int]map[ParamKind]json.RawMessage `json:"params,omitempty"`
}

const (
	kindNoop              = "noop"
	kindCombined          = "combined"
	kindMoveShapePoints   = "move_shape_points"
	kindInsertShape       = "insert_shape"
	kindRemoveLastShape   = "remove_last_shape"
	kindReplaceShapes     = "replace_shapes"
	kindRemoveShapePoints = "remove_shape_points"
	kindAddShapePoints    = "add_shape_points"
	kindApplyShapeParams  = "apply_shape_params"
)

// MarshalAction serializes an action. Callback shapes inside insert or
// replace payloads lose their draw function, like everywhere else in the
// document format.
func MarshalAction(a Action) ([]byte, error) {
	w, err := toActionWire(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalAction restores an action serialized by MarshalAction.
func UnmarshalAction(data []byte) (Action, error) {
	var w actionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return fromActionWire(&w)
}

func toActionWire(a Action) (*actionWire, error) {
	switch a := a.(type) {
	case Noop:
		return &actionWire{Kind: kindNoop}, nil
	case Combined:
		subs := make([]json.RawMessage, len(a.Actions))
		for i, sub := range a.Actions {
			b, err := MarshalAction(sub)
			if err != nil {
				return nil, err
			}
			subs[i] = b
		}
		return &actionWire{Kind: kindCombined, Label: a.Label, Actions: subs}, nil
	case MoveShapePoints:
		return &actionWire{Kind: kindMoveShapePoints, Translations: a.Translations}, nil
	case InsertShape:
		b, err := shape.MarshalShape(a.Shape)
		if err != nil {
			return nil, err
		}
		return &actionWire{Kind: kindInsertShape, Shape: b, Replace: a.Replace}, nil
	case RemoveLastShape:
		return &actionWire{
			Kind:         kindRemoveLastShape,
			UnwrapGroup:  a.UnwrapGroup,
			RootWasEmpty: a.RootWasEmpty,
		}, nil
	case ReplaceShapes:
		shapes := make(map[int]json.RawMessage, len(a.Shapes))
		for i, s := range a.Shapes {
			b, err := shape.MarshalShape(s)
			if err != nil {
				return nil, err
			}
			shapes[i] = b
		}
		return &actionWire{Kind: kindReplaceShapes, Shapes: shapes}, nil
	case RemoveShapePoints:
		return &actionWire{Kind: kindRemoveShapePoints, Refs: a.Refs}, nil
	case AddShapePoints:
		return &actionWire{Kind: kindAddShapePoints, Points: a.Points}, nil
	case ApplyShapeParams:
		params := make(map[int]map[ParamKind]json.RawMessage, len(a.Params))
		for i, perShape := range a.Params {
			wire := make(map[ParamKind]json.RawMessage, len(perShape))
			for kind, value := range perShape {
				b, err := marshalParamValue(value)
				if err != nil {
					return nil, err
				}
				wire[kind] = b
			}
			params[i] = wire
		}
		return &actionWire{Kind: kindApplyShapeParams, Params: params}, nil
	}
	return nil, fmt.Errorf("action: cannot serialize %T", a)
}

func fromActionWire(w *actionWire) (Action, error) {
	switch w.Kind {
	case kindNoop:
		return Noop{}, nil
	case kindCombined:
		actions := make([]Action, len(w.Actions))
		for i, raw := range w.Actions {
			sub, err := UnmarshalAction(raw)
			if err != nil {
				return nil, err
			}
			actions[i] = sub
		}
		return Combined{Label: w.Label, Actions: actions}, nil
	case kindMoveShapePoints:
		t := w.Translations
		if t == nil {
			t = map[shape.PointRef]geom.Vec2{}
		}
		return MoveShapePoints{Translations: t}, nil
	case kindInsertShape:
		if w.Shape == nil {
			return nil, fmt.Errorf("action: insert_shape requires a shape")
		}
		s, err := shape.UnmarshalShape(w.Shape)
		if err != nil {
			return nil, err
		}
		return InsertShape{Shape: s, Replace: w.Replace}, nil
	case kindRemoveLastShape:
		return RemoveLastShape{UnwrapGroup: w.UnwrapGroup, RootWasEmpty: w.RootWasEmpty}, nil
	case kindReplaceShapes:
		shapes := make(map[int]shape.Shape, len(w.Shapes))
		for i, raw := range w.Shapes {
			s, err := shape.UnmarshalShape(raw)
			if err != nil {
				return nil, err
			}
			shapes[i] = s
		}
		return ReplaceShapes{Shapes: shapes}, nil
	case kindRemoveShapePoints:
		return RemoveShapePoints{Refs: w.Refs}, nil
	case kindAddShapePoints:
		p := w.Points
		if p == nil {
			p = map[int]map[int]PointValue{}
		}
		return AddShapePoints{Points: p}, nil
	case kindApplyShapeParams:
		params := make(map[int]map[ParamKind]ParamValue, len(w.Params))
		for i, perShape := range w.Params {
			values := make(map[ParamKind]ParamValue, len(perShape))
			for kind, raw := range perShape {
				v, err := unmarshalParamValue(kind, raw)
				if err != nil {
					return nil, err
				}
				values[kind] = v
			}
			params[i] = values
		}
		return ApplyShapeParams{Params: params}, nil
	}
	return nil, fmt.Errorf("action: unknown action kind %q", w.Kind)
}

func marshalParamValue(v ParamValue) (json.RawMessage, error) {
	switch v := v.(type) {
	case ColorValue:
		return json.Marshal(v.Color)
	case FloatValue:
		return json.Marshal(v.Float)
	case RoundingValue:
		return json.Marshal(v.Rounding)
	case BoolValue:
		return json.Marshal(v.Bool)
	case TextureValue:
		return json.Marshal(v.Texture)
	}
	return nil, fmt.Errorf("action: cannot serialize param value %T", v)
}

func unmarshalParamValue(kind ParamKind, raw json.RawMessage) (ParamValue, error) {
	switch kind {
	case ParamStrokeColor, ParamFillColor:
		var c shape.Color
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return ColorValue{Color: c}, nil
	case ParamStrokeWidth, ParamRadius:
		var f float32
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return Float(f), nil
	case ParamRounding:
		var r shape.Rounding
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, err
		}
		return RoundingValue{Rounding: r}, nil
	case ParamClosed:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return BoolValue{Bool: b}, nil
	case ParamTexture:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return TextureValue{Texture: s}, nil
	}
	return nil, fmt.Errorf("action: param kind %q has no value form", kind)
}
