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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/vector"
	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
	"goshapestudio/internal/storage"
	"goshapestudio/internal/textlayout"
)

// PNGOptions controls PNG export behavior. Zero values select defaults:
// 1024x768 canvas, 24px margin, white background, no grid.
//
//nolint:revive // clarity is preferred
type PNGOptions struct {
	Width       int // pixels, default 1024
	Height      int // pixels, default 768
	Margin      float64
	IncludeGrid bool
	GridStep    float32 // document units, default 50
	GridColor   shape.Color
	Background  shape.Color
}

func (o PNGOptions) withDefaults() PNGOptions {
	if o.Width <= 0 {
		o.Width = 1024
	}
	if o.Height <= 0 {
		o.Height = 768
	}
	if o.Margin <= 0 {
		o.Margin = 24
	}
	if o.GridStep <= 0 {
		o.GridStep = 50
	}
	if o.GridColor == (shape.Color{}) {
		o.GridColor = shape.Color{R: 220, G: 220, B: 220, A: 255}
	}
	if o.Background == (shape.Color{}) {
		o.Background = shape.White
	}
	return o
}

// ExportDocumentPNG rasterizes the document into a PNG file at outPath.
func ExportDocumentPNG(dh *storage.DocumentHandle, outPath string, opt PNGOptions) error {
	if dh == nil {
		return fmt.Errorf("document handle is nil")
	}
	img, err := renderPNG(dh.Doc, opt)
	if err != nil {
		return err
	}
	outPath, err = resolveOutPath(dh, outPath)
	if err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func renderPNG(doc storage.Document, opt PNGOptions) (*image.RGBA, error) {
	opt = opt.withDefaults()

	bounds, found := documentBounds(doc.Root.Root)
	if !found {
		bounds.Max = bounds.Min.Add(shapeUnitExtent())
	}
	scale, offX, offY := fitTransform(bounds, float64(opt.Width), float64(opt.Height), opt.Margin)

	img := image.NewRGBA(image.Rect(0, 0, opt.Width, opt.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: toRGBA(opt.Background)}, image.Point{}, draw.Src)

	cv := &canvas{img: img, scale: scale, offX: offX, offY: offY}

	if opt.IncludeGrid {
		step := float32(float64(opt.GridStep) * scale)
		if step >= 2 {
			m := float32(opt.Margin)
			w := float32(opt.Width)
			h := float32(opt.Height)
			for x := m; x <= w-m; x += step {
				cv.strokePolyline([]vecPx{{x, m}, {x, h - m}}, 1, opt.GridColor, false)
			}
			for y := m; y <= h-m; y += step {
				cv.strokePolyline([]vecPx{{m, y}, {w - m, y}}, 1, opt.GridColor, false)
			}
		}
	}

	shape.EachShape(doc.Root.Root, func(i int, s shape.Shape) bool {
		cv.drawShape(s)
		return true
	})
	return img, nil
}

// vecPx is a point in pixel space.
type vecPx struct{ x, y float32 }

type canvas struct {
	img        *image.RGBA
	scale      float64
	offX, offY float64
}

func (c *canvas) px(v geom.Vec2) vecPx {
	return vecPx{float32(float64(v.X)*c.scale + c.offX), float32(float64(v.Y)*c.scale + c.offY)}
}

func (c *canvas) lineWidth(w float32) float32 {
	lw := float32(float64(w) * c.scale)
	if lw < 1 {
		lw = 1
	}
	return lw
}

// fill rasterizes the path built by build with the given color.
func (c *canvas) fill(col shape.Color, build func(z *vector.Rasterizer)) {
	if col.A == 0 {
		return
	}
	b := c.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	build(z)
	z.Draw(c.img, b, image.NewUniform(toRGBA(col)), image.Point{})
}

// strokePolyline draws each segment as a filled quad of the given width.
func (c *canvas) strokePolyline(pts []vecPx, width float32, col shape.Color, closed bool) {
	if len(pts) < 2 || col.A == 0 {
		return
	}
	half := width / 2
	c.fill(col, func(z *vector.Rasterizer) {
		seg := func(a, b vecPx) {
			dx := b.x - a.x
			dy := b.y - a.y
			l := float32(math.Hypot(float64(dx), float64(dy)))
			if l == 0 {
				return
			}
			nx := -dy / l * half
			ny := dx / l * half
			z.MoveTo(a.x+nx, a.y+ny)
			z.LineTo(b.x+nx, b.y+ny)
			z.LineTo(b.x-nx, b.y-ny)
			z.LineTo(a.x-nx, a.y-ny)
			z.ClosePath()
		}
		for i := 0; i+1 < len(pts); i++ {
			seg(pts[i], pts[i+1])
		}
		if closed {
			seg(pts[len(pts)-1], pts[0])
		}
	})
}

func (c *canvas) drawShape(s shape.Shape) {
	switch s := s.(type) {
	case *shape.LineSegment:
		c.strokePolyline([]vecPx{c.px(s.Points[0]), c.px(s.Points[1])}, c.lineWidth(s.Stroke.Width), s.Stroke.Color, false)
	case *shape.Path:
		if len(s.Points) < 2 {
			return
		}
		pts := make([]vecPx, len(s.Points))
		for i, p := range s.Points {
			pts[i] = c.px(p)
		}
		if s.Closed && s.Fill.A > 0 {
			c.fill(s.Fill, func(z *vector.Rasterizer) {
				z.MoveTo(pts[0].x, pts[0].y)
				for _, p := range pts[1:] {
					z.LineTo(p.x, p.y)
				}
				z.ClosePath()
			})
		}
		c.strokePolyline(pts, c.lineWidth(s.Stroke.Width), s.Stroke.Color, s.Closed)
	case *shape.Circle:
		c.drawEllipse(s.Center, s.Radius, s.Radius, s.Stroke, s.Fill)
	case *shape.Ellipse:
		c.drawEllipse(s.Center, s.RadiusX, s.RadiusY, s.Stroke, s.Fill)
	case *shape.Rect:
		a := c.px(s.Min)
		b := c.px(s.Max)
		pts := []vecPx{a, {b.x, a.y}, b, {a.x, b.y}}
		if s.Fill.A > 0 {
			c.fill(s.Fill, func(z *vector.Rasterizer) {
				z.MoveTo(pts[0].x, pts[0].y)
				z.LineTo(pts[1].x, pts[1].y)
				z.LineTo(pts[2].x, pts[2].y)
				z.LineTo(pts[3].x, pts[3].y)
				z.ClosePath()
			})
		}
		c.strokePolyline(pts, c.lineWidth(s.Stroke.Width), s.Stroke.Color, true)
	case *shape.Text:
		size := s.Size
		if size <= 0 {
			size = 12
		}
		p := c.px(s.Pos)
		col := s.Color
		if col.A == 0 {
			col = shape.Black
		}
		textlayout.Draw(c.img, nil, textlayout.FontSpec{SizePt: float32(float64(size) * c.scale)}, p.x, p.y, toRGBA(col), s.Text)
	case *shape.Mesh:
		for i := 0; i+2 < len(s.Indices); i += 3 {
			a := c.px(s.Vertices[s.Indices[i]].Pos)
			b := c.px(s.Vertices[s.Indices[i+1]].Pos)
			d := c.px(s.Vertices[s.Indices[i+2]].Pos)
			c.fill(s.Vertices[s.Indices[i]].Color, func(z *vector.Rasterizer) {
				z.MoveTo(a.x, a.y)
				z.LineTo(b.x, b.y)
				z.LineTo(d.x, d.y)
				z.ClosePath()
			})
		}
	case *shape.QuadraticBezier:
		p0 := c.px(s.Points[0])
		p1 := c.px(s.Points[1])
		p2 := c.px(s.Points[2])
		if s.Closed && s.Fill.A > 0 {
			c.fill(s.Fill, func(z *vector.Rasterizer) {
				z.MoveTo(p0.x, p0.y)
				z.QuadTo(p1.x, p1.y, p2.x, p2.y)
				z.ClosePath()
			})
		}
		c.strokePolyline(flattenQuad(p0, p1, p2), c.lineWidth(s.Stroke.Width), s.Stroke.Color, s.Closed)
	case *shape.CubicBezier:
		p0 := c.px(s.Points[0])
		p1 := c.px(s.Points[1])
		p2 := c.px(s.Points[2])
		p3 := c.px(s.Points[3])
		if s.Closed && s.Fill.A > 0 {
			c.fill(s.Fill, func(z *vector.Rasterizer) {
				z.MoveTo(p0.x, p0.y)
				z.CubeTo(p1.x, p1.y, p2.x, p2.y, p3.x, p3.y)
				z.ClosePath()
			})
		}
		c.strokePolyline(flattenCube(p0, p1, p2, p3), c.lineWidth(s.Stroke.Width), s.Stroke.Color, s.Closed)
	case *shape.Group, *shape.Empty, *shape.Callback:
		// traversed by the caller; nothing to draw
	}
}

func (c *canvas) drawEllipse(center geom.Vec2, rx, ry float32, st shape.Stroke, fill shape.Color) {
	ctr := c.px(center)
	prx := float32(float64(rx) * c.scale)
	pry := float32(float64(ry) * c.scale)
	// Four cubic arcs approximate the ellipse closely enough at raster scale.
	const kappa = 0.5522848
	kx := prx * kappa
	ky := pry * kappa
	if fill.A > 0 {
		c.fill(fill, func(z *vector.Rasterizer) {
			z.MoveTo(ctr.x+prx, ctr.y)
			z.CubeTo(ctr.x+prx, ctr.y+ky, ctr.x+kx, ctr.y+pry, ctr.x, ctr.y+pry)
			z.CubeTo(ctr.x-kx, ctr.y+pry, ctr.x-prx, ctr.y+ky, ctr.x-prx, ctr.y)
			z.CubeTo(ctr.x-prx, ctr.y-ky, ctr.x-kx, ctr.y-pry, ctr.x, ctr.y-pry)
			z.CubeTo(ctr.x+kx, ctr.y-pry, ctr.x+prx, ctr.y-ky, ctr.x+prx, ctr.y)
			z.ClosePath()
		})
	}
	if st.Width > 0 && st.Color.A > 0 {
		const steps = 64
		pts := make([]vecPx, 0, steps)
		for i := 0; i < steps; i++ {
			a := 2 * math.Pi * float64(i) / steps
			pts = append(pts, vecPx{ctr.x + prx*float32(math.Cos(a)), ctr.y + pry*float32(math.Sin(a))})
		}
		c.strokePolyline(pts, c.lineWidth(st.Width), st.Color, true)
	}
}

func flattenQuad(p0, p1, p2 vecPx) []vecPx {
	const steps = 24
	out := make([]vecPx, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float32(i) / steps
		u := 1 - t
		out = append(out, vecPx{
			u*u*p0.x + 2*u*t*p1.x + t*t*p2.x,
			u*u*p0.y + 2*u*t*p1.y + t*t*p2.y,
		})
	}
	return out
}

func flattenCube(p0, p1, p2, p3 vecPx) []vecPx {
	const steps = 32
	out := make([]vecPx, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float32(i) / steps
		u := 1 - t
		out = append(out, vecPx{
			u*u*u*p0.x + 3*u*u*t*p1.x + 3*u*t*t*p2.x + t*t*t*p3.x,
			u*u*u*p0.y + 3*u*u*t*p1.y + 3*u*t*t*p2.y + t*t*t*p3.y,
		})
	}
	return out
}

func toRGBA(c shape.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
