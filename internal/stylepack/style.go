/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package stylepack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"goshapestudio/internal/shape"
)

// StyleFileName is the editor style file under a document's styles dir.
const StyleFileName = "editor.yaml"

// EditorStyle is the visual style of the editor chrome: control point
// handles, grid lines, ruler labels and the snap highlight. It is saved
// per document under styles/editor.yaml and shareable via style packs.
type EditorStyle struct {
	StyleVersion int         `yaml:"style_version"`
	Handles      HandleStyle `yaml:"handles"`
	Grid         GridStyle   `yaml:"grid"`
	Ruler        RulerStyle  `yaml:"ruler"`
	Snap         SnapStyle   `yaml:"snap"`
}

// HandleStyle draws selection handles over control points.
type HandleStyle struct {
	Radius   float32     `yaml:"radius"`
	Fill     shape.Color `yaml:"fill"`
	Outline  shape.Color `yaml:"outline"`
	Selected shape.Color `yaml:"selected"`
}

// GridStyle holds one color per grid line kind.
type GridStyle struct {
	Axis  shape.Color `yaml:"axis"`
	Major shape.Color `yaml:"major"`
	Minor shape.Color `yaml:"minor"`
}

// RulerStyle controls the ruler strip. LabelFormat is a Sprintf verb
// applied to the tick value, e.g. "%g".
type RulerStyle struct {
	LabelFormat string      `yaml:"label_format"`
	Text        shape.Color `yaml:"text"`
	Background  shape.Color `yaml:"background"`
}

// SnapStyle controls the snap target highlight.
type SnapStyle struct {
	Highlight       shape.Color `yaml:"highlight"`
	HighlightRadius float32     `yaml:"highlight_radius"`
}

// DefaultStyle returns the built-in editor style.
func DefaultStyle() EditorStyle {
	return EditorStyle{
		StyleVersion: 1,
		Handles: HandleStyle{
			Radius:   4,
			Fill:     shape.White,
			Outline:  shape.Color{R: 30, G: 110, B: 230, A: 255},
			Selected: shape.Color{R: 230, G: 120, B: 30, A: 255},
		},
		Grid: GridStyle{
			Axis:  shape.Color{R: 120, G: 120, B: 120, A: 255},
			Major: shape.Color{R: 200, G: 200, B: 200, A: 255},
			Minor: shape.Color{R: 235, G: 235, B: 235, A: 255},
		},
		Ruler: RulerStyle{
			LabelFormat: "%g",
			Text:        shape.Black,
			Background:  shape.Color{R: 245, G: 245, B: 245, A: 255},
		},
		Snap: SnapStyle{
			Highlight:       shape.Color{R: 230, G: 60, B: 60, A: 255},
			HighlightRadius: 6,
		},
	}
}

// LoadStyle reads the editor style of a document. A missing file yields
// the defaults; file values are merged over them so partial files work.
func LoadStyle(docRoot string) (EditorStyle, error) {
	style := DefaultStyle()
	if strings.TrimSpace(docRoot) == "" {
		return style, errors.New("docRoot is required")
	}
	path := filepath.Join(docRoot, "styles", StyleFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return style, nil
		}
		return style, fmt.Errorf("read style: %w", err)
	}
	if err := yaml.Unmarshal(data, &style); err != nil {
		return DefaultStyle(), fmt.Errorf("parse style: %w", err)
	}
	if style.StyleVersion == 0 {
		style.StyleVersion = 1
	}
	return style, nil
}

// SaveStyle writes the editor style under the document's styles dir.
func SaveStyle(docRoot string, style EditorStyle) error {
	if strings.TrimSpace(docRoot) == "" {
		return errors.New("docRoot is required")
	}
	dir := filepath.Join(docRoot, "styles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure styles dir: %w", err)
	}
	data, err := yaml.Marshal(style)
	if err != nil {
		return fmt.Errorf("marshal style: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, StyleFileName), data, 0o644); err != nil {
		return fmt.Errorf("write style: %w", err)
	}
	return nil
}
