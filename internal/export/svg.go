/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"goshapestudio/internal/shape"
	"goshapestudio/internal/storage"
)

// SVGOptions controls SVG export behavior. Zero values select defaults:
// a 20pt margin, white background, no grid and no handles.
//
//nolint:revive // clarity is preferred
type SVGOptions struct {
	IncludeGrid    bool
	GridStep       float32 // default 50
	IncludeHandles bool
	HandleRadius   float32     // default 4
	Margin         float32     // default 20
	GridColor      shape.Color // default light gray
	HandleColor    shape.Color // default blue
}

func (o SVGOptions) withDefaults() SVGOptions {
	if o.GridStep <= 0 {
		o.GridStep = 50
	}
	if o.HandleRadius <= 0 {
		o.HandleRadius = 4
	}
	if o.Margin <= 0 {
		o.Margin = 20
	}
	if o.GridColor == (shape.Color{}) {
		o.GridColor = shape.Color{R: 220, G: 220, B: 220, A: 255}
	}
	if o.HandleColor == (shape.Color{}) {
		o.HandleColor = shape.Color{R: 30, G: 110, B: 230, A: 255}
	}
	return o
}

// ExportDocumentSVG writes the document as a single SVG file at outPath.
// Relative paths land under the document's exports folder.
func ExportDocumentSVG(dh *storage.DocumentHandle, outPath string, opt SVGOptions) error {
	if dh == nil {
		return fmt.Errorf("document handle is nil")
	}
	data, err := renderSVG(dh.Doc, opt)
	if err != nil {
		return err
	}
	outPath, err = resolveOutPath(dh, outPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func renderSVG(doc storage.Document, opt SVGOptions) ([]byte, error) {
	opt = opt.withDefaults()

	bounds, ok := documentBounds(doc.Root.Root)
	if !ok {
		bounds.Max = bounds.Min.Add(shapeUnitExtent())
	}
	view := bounds.Expand(opt.Margin)
	vw := view.Width()
	vh := view.Height()

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%g\" height=\"%g\" viewBox=\"%g %g %g %g\">\n",
		vw, vh, view.Min.X, view.Min.Y, vw, vh)
	wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", view.Min.X, view.Min.Y, vw, vh)

	if opt.IncludeGrid {
		gc := svgColor(opt.GridColor)
		step := opt.GridStep
		for x := float32(math.Ceil(float64(view.Min.X/step))) * step; x <= view.Max.X; x += step {
			wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"0.5\"/>\n", x, view.Min.Y, x, view.Max.Y, gc)
		}
		for y := float32(math.Ceil(float64(view.Min.Y/step))) * step; y <= view.Max.Y; y += step {
			wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"0.5\"/>\n", view.Min.X, y, view.Max.X, y, gc)
		}
	}

	shape.EachShape(doc.Root.Root, func(i int, s shape.Shape) bool {
		writeSVGShape(wf, s)
		return true
	})

	if opt.IncludeHandles {
		hc := svgColor(opt.HandleColor)
		shape.EachControlPoint(doc.Root.Root, func(ref shape.PointRef, kind shape.Kind, cp shape.ControlPoint) bool {
			wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"1\"/>\n",
				cp.Pos.X, cp.Pos.Y, opt.HandleRadius, hc)
			return true
		})
	}

	wf("</svg>\n")
	if werr != nil {
		return nil, fmt.Errorf("build svg: %w", werr)
	}
	return buf.Bytes(), nil
}

func writeSVGShape(wf func(string, ...any), s shape.Shape) {
	switch s := s.(type) {
	case *shape.LineSegment:
		wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" %s/>\n",
			s.Points[0].X, s.Points[0].Y, s.Points[1].X, s.Points[1].Y, svgStroke(s.Stroke, shape.Transparent))
	case *shape.Path:
		if len(s.Points) < 2 {
			return
		}
		var d bytes.Buffer
		fmt.Fprintf(&d, "M %g %g", s.Points[0].X, s.Points[0].Y)
		for _, p := range s.Points[1:] {
			fmt.Fprintf(&d, " L %g %g", p.X, p.Y)
		}
		if s.Closed {
			d.WriteString(" Z")
		}
		wf("  <path d=\"%s\" %s/>\n", d.String(), svgStroke(s.Stroke, s.Fill))
	case *shape.Circle:
		wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" %s/>\n", s.Center.X, s.Center.Y, s.Radius, svgStroke(s.Stroke, s.Fill))
	case *shape.Ellipse:
		wf("  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" %s/>\n", s.Center.X, s.Center.Y, s.RadiusX, s.RadiusY, svgStroke(s.Stroke, s.Fill))
	case *shape.Rect:
		r := s.Rounding.Max()
		if r > 0 {
			wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" rx=\"%g\" ry=\"%g\" %s/>\n",
				s.Min.X, s.Min.Y, s.Max.X-s.Min.X, s.Max.Y-s.Min.Y, r, r, svgStroke(s.Stroke, s.Fill))
		} else {
			wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" %s/>\n",
				s.Min.X, s.Min.Y, s.Max.X-s.Min.X, s.Max.Y-s.Min.Y, svgStroke(s.Stroke, s.Fill))
		}
	case *shape.Text:
		size := s.Size
		if size <= 0 {
			size = 12
		}
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%g\" fill=\"%s\">%s</text>\n",
			s.Pos.X, s.Pos.Y, size, svgColor(s.Color), escText(s.Text))
	case *shape.Mesh:
		for i := 0; i+2 < len(s.Indices); i += 3 {
			a := s.Vertices[s.Indices[i]]
			b := s.Vertices[s.Indices[i+1]]
			c := s.Vertices[s.Indices[i+2]]
			wf("  <polygon points=\"%g,%g %g,%g %g,%g\" fill=\"%s\"/>\n",
				a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y, c.Pos.X, c.Pos.Y, svgColor(a.Color))
		}
	case *shape.QuadraticBezier:
		var d bytes.Buffer
		fmt.Fprintf(&d, "M %g %g Q %g %g %g %g", s.Points[0].X, s.Points[0].Y, s.Points[1].X, s.Points[1].Y, s.Points[2].X, s.Points[2].Y)
		if s.Closed {
			d.WriteString(" Z")
		}
		wf("  <path d=\"%s\" %s/>\n", d.String(), svgStroke(s.Stroke, s.Fill))
	case *shape.CubicBezier:
		var d bytes.Buffer
		fmt.Fprintf(&d, "M %g %g C %g %g %g %g %g %g", s.Points[0].X, s.Points[0].Y,
			s.Points[1].X, s.Points[1].Y, s.Points[2].X, s.Points[2].Y, s.Points[3].X, s.Points[3].Y)
		if s.Closed {
			d.WriteString(" Z")
		}
		wf("  <path d=\"%s\" %s/>\n", d.String(), svgStroke(s.Stroke, s.Fill))
	case *shape.Group, *shape.Empty, *shape.Callback:
		// groups are traversed by the caller; empties and callbacks emit nothing
	}
}

func svgStroke(st shape.Stroke, fill shape.Color) string {
	fillAttr := "none"
	if fill.A > 0 {
		fillAttr = svgColor(fill)
	}
	if st.Width <= 0 || st.Color.A == 0 {
		return fmt.Sprintf("fill=\"%s\" stroke=\"none\"", fillAttr)
	}
	return fmt.Sprintf("fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"", fillAttr, svgColor(st.Color), st.Width)
}

func svgColor(c shape.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
