/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"goshapestudio/internal/shape"
	"goshapestudio/internal/storage"
)

// PDFOptions controls PDF export behavior. Units are points (pt).
// Built-in Helvetica keeps text vector without font embedding.
//
//nolint:revive // keep options grouped and explicit for clarity
type PDFOptions struct {
	Preset      string // page preset name; empty means A4
	IncludeGrid bool
	GridStep    float32     // default 50 (document units)
	GridColor   shape.Color // default light gray
}

func (o PDFOptions) withDefaults() PDFOptions {
	if o.GridStep <= 0 {
		o.GridStep = 50
	}
	if o.GridColor == (shape.Color{}) {
		o.GridColor = shape.Color{R: 220, G: 220, B: 220, A: 255}
	}
	return o
}

// ExportDocumentPDF exports the document to a single-page PDF at outPath,
// fitted into the chosen page preset.
func ExportDocumentPDF(dh *storage.DocumentHandle, outPath string, opt PDFOptions) error {
	if dh == nil {
		return fmt.Errorf("document handle is nil")
	}
	opt = opt.withDefaults()
	preset, ok := PresetByName(opt.Preset)
	if !ok {
		return fmt.Errorf("unknown page preset: %s", opt.Preset)
	}

	bounds, found := documentBounds(dh.Doc.Root.Root)
	if !found {
		bounds.Max = bounds.Min.Add(shapeUnitExtent())
	}
	scale, offX, offY := fitTransform(bounds, preset.Width, preset.Height, preset.Margin)
	tx := func(x float32) float64 { return float64(x)*scale + offX }
	ty := func(y float32) float64 { return float64(y)*scale + offY }

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: preset.Width, Ht: preset.Height},
		OrientationStr: "",
	})
	pdf.SetTitle(dh.Doc.Name, false)
	pdf.SetAuthor("Go Shape Studio", false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()

	if opt.IncludeGrid {
		setDrawColor(pdf, opt.GridColor)
		pdf.SetLineWidth(0.2)
		step := float64(opt.GridStep) * scale
		if step > 0.5 {
			for x := preset.Margin; x <= preset.Width-preset.Margin; x += step {
				pdf.Line(x, preset.Margin, x, preset.Height-preset.Margin)
			}
			for y := preset.Margin; y <= preset.Height-preset.Margin; y += step {
				pdf.Line(preset.Margin, y, preset.Width-preset.Margin, y)
			}
		}
	}

	shape.EachShape(dh.Doc.Root.Root, func(i int, s shape.Shape) bool {
		drawPDFShape(pdf, s, scale, tx, ty)
		return true
	})

	outPath, err := resolveOutPath(dh, outPath)
	if err != nil {
		return err
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawPDFShape(pdf *gofpdf.Fpdf, s shape.Shape, scale float64, tx, ty func(float32) float64) {
	switch s := s.(type) {
	case *shape.LineSegment:
		applyStroke(pdf, s.Stroke, scale)
		pdf.Line(tx(s.Points[0].X), ty(s.Points[0].Y), tx(s.Points[1].X), ty(s.Points[1].Y))
	case *shape.Path:
		if len(s.Points) < 2 {
			return
		}
		style := applyStyle(pdf, s.Stroke, s.Fill, scale)
		pdf.MoveTo(tx(s.Points[0].X), ty(s.Points[0].Y))
		for _, p := range s.Points[1:] {
			pdf.LineTo(tx(p.X), ty(p.Y))
		}
		if s.Closed {
			pdf.ClosePath()
		}
		pdf.DrawPath(style)
	case *shape.Circle:
		style := applyStyle(pdf, s.Stroke, s.Fill, scale)
		pdf.Circle(tx(s.Center.X), ty(s.Center.Y), float64(s.Radius)*scale, style)
	case *shape.Ellipse:
		style := applyStyle(pdf, s.Stroke, s.Fill, scale)
		pdf.Ellipse(tx(s.Center.X), ty(s.Center.Y), float64(s.RadiusX)*scale, float64(s.RadiusY)*scale, 0, style)
	case *shape.Rect:
		style := applyStyle(pdf, s.Stroke, s.Fill, scale)
		pdf.Rect(tx(s.Min.X), ty(s.Min.Y), float64(s.Max.X-s.Min.X)*scale, float64(s.Max.Y-s.Min.Y)*scale, style)
	case *shape.Text:
		size := s.Size
		if size <= 0 {
			size = 12
		}
		pdf.SetFont("Helvetica", "", float64(size)*scale)
		pdf.SetTextColor(int(s.Color.R), int(s.Color.G), int(s.Color.B))
		pdf.Text(tx(s.Pos.X), ty(s.Pos.Y), s.Text)
	case *shape.Mesh:
		for i := 0; i+2 < len(s.Indices); i += 3 {
			a := s.Vertices[s.Indices[i]]
			b := s.Vertices[s.Indices[i+1]]
			c := s.Vertices[s.Indices[i+2]]
			setFillColor(pdf, a.Color)
			pdf.Polygon([]gofpdf.PointType{
				{X: tx(a.Pos.X), Y: ty(a.Pos.Y)},
				{X: tx(b.Pos.X), Y: ty(b.Pos.Y)},
				{X: tx(c.Pos.X), Y: ty(c.Pos.Y)},
			}, "F")
		}
	case *shape.QuadraticBezier:
		style := applyStyle(pdf, s.Stroke, s.Fill, scale)
		pdf.MoveTo(tx(s.Points[0].X), ty(s.Points[0].Y))
		pdf.CurveTo(tx(s.Points[1].X), ty(s.Points[1].Y), tx(s.Points[2].X), ty(s.Points[2].Y))
		if s.Closed {
			pdf.ClosePath()
		}
		pdf.DrawPath(style)
	case *shape.CubicBezier:
		style := applyStyle(pdf, s.Stroke, s.Fill, scale)
		pdf.MoveTo(tx(s.Points[0].X), ty(s.Points[0].Y))
		pdf.CurveBezierCubicTo(tx(s.Points[1].X), ty(s.Points[1].Y), tx(s.Points[2].X), ty(s.Points[2].Y), tx(s.Points[3].X), ty(s.Points[3].Y))
		if s.Closed {
			pdf.ClosePath()
		}
		pdf.DrawPath(style)
	case *shape.Group, *shape.Empty, *shape.Callback:
		// traversed by the caller; nothing to draw
	}
}

// applyStyle sets stroke and fill state and returns the gofpdf path style
// string ("D", "F" or "FD") matching the shape's visible parts.
func applyStyle(pdf *gofpdf.Fpdf, st shape.Stroke, fill shape.Color, scale float64) string {
	hasStroke := st.Width > 0 && st.Color.A > 0
	hasFill := fill.A > 0
	if hasStroke {
		applyStroke(pdf, st, scale)
	}
	if hasFill {
		setFillColor(pdf, fill)
	}
	switch {
	case hasStroke && hasFill:
		return "FD"
	case hasFill:
		return "F"
	default:
		return "D"
	}
}

func applyStroke(pdf *gofpdf.Fpdf, st shape.Stroke, scale float64) {
	w := float64(st.Width) * scale
	if w <= 0 {
		w = 0.5
	}
	setDrawColor(pdf, st.Color)
	pdf.SetLineWidth(w)
}

func setDrawColor(pdf *gofpdf.Fpdf, c shape.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c shape.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
