/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
	"goshapestudio/internal/storage"
)

// PagePreset is a named page size in points with a uniform margin.
type PagePreset struct {
	Name   string
	Width  float64
	Height float64
	Margin float64
}

var pagePresets = []PagePreset{
	{Name: "a4", Width: 595.28, Height: 841.89, Margin: 36},
	{Name: "letter", Width: 612, Height: 792, Margin: 36},
	{Name: "square", Width: 600, Height: 600, Margin: 24},
	{Name: "screen", Width: 1280, Height: 720, Margin: 16},
}

// Presets returns the available page presets.
func Presets() []PagePreset {
	out := make([]PagePreset, len(pagePresets))
	copy(out, pagePresets)
	return out
}

// PresetByName looks up a preset case-insensitively. The empty name
// resolves to A4.
func PresetByName(name string) (PagePreset, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return pagePresets[0], true
	}
	for _, p := range pagePresets {
		if p.Name == n {
			return p, true
		}
	}
	return PagePreset{}, false
}

// documentBounds computes the union bounding box of all drawable shapes.
// An empty document reports ok=false.
func documentBounds(root shape.Shape) (geom.Rect, bool) {
	var (
		bounds geom.Rect
		found  bool
	)
	add := func(r geom.Rect) {
		if !found {
			bounds = r
			found = true
			return
		}
		bounds = bounds.Union(r)
	}
	shape.EachShape(root, func(i int, s shape.Shape) bool {
		switch s := s.(type) {
		case *shape.LineSegment:
			add(geom.FromPoints(s.Points[0], s.Points[1]))
		case *shape.Path:
			if len(s.Points) > 0 {
				r := geom.Rect{Min: s.Points[0], Max: s.Points[0]}
				for _, p := range s.Points[1:] {
					r = r.Union(geom.Rect{Min: p, Max: p})
				}
				add(r)
			}
		case *shape.Circle:
			add(geom.Rect{
				Min: geom.V(s.Center.X-s.Radius, s.Center.Y-s.Radius),
				Max: geom.V(s.Center.X+s.Radius, s.Center.Y+s.Radius),
			})
		case *shape.Ellipse:
			add(geom.Rect{
				Min: geom.V(s.Center.X-s.RadiusX, s.Center.Y-s.RadiusY),
				Max: geom.V(s.Center.X+s.RadiusX, s.Center.Y+s.RadiusY),
			})
		case *shape.Rect:
			add(geom.FromPoints(s.Min, s.Max))
		case *shape.Text:
			// Rough advance estimate; exact width needs a face, which
			// vector sinks do not require for framing.
			w := 0.6 * s.Size * float32(len(s.Text))
			add(geom.Rect{Min: geom.V(s.Pos.X, s.Pos.Y-s.Size), Max: geom.V(s.Pos.X+w, s.Pos.Y)})
		case *shape.Mesh:
			if len(s.Vertices) > 0 {
				r := geom.Rect{Min: s.Vertices[0].Pos, Max: s.Vertices[0].Pos}
				for _, v := range s.Vertices[1:] {
					r = r.Union(geom.Rect{Min: v.Pos, Max: v.Pos})
				}
				add(r)
			}
		case *shape.QuadraticBezier:
			r := geom.FromPoints(s.Points[0], s.Points[1])
			r = r.Union(geom.Rect{Min: s.Points[2], Max: s.Points[2]})
			add(r)
		case *shape.CubicBezier:
			r := geom.FromPoints(s.Points[0], s.Points[1])
			r = r.Union(geom.FromPoints(s.Points[2], s.Points[3]))
			add(r)
		case *shape.Group, *shape.Empty, *shape.Callback:
			// groups are traversed; empties and callbacks have no extent
		}
		return true
	})
	return bounds.Normalized(), found
}

// shapeUnitExtent is the fallback extent used when a document has no
// drawable shapes, so empty documents still export a sensible page.
func shapeUnitExtent() geom.Vec2 { return geom.V(100, 100) }

// fitTransform maps doc bounds into a page of the given size with margin,
// preserving aspect ratio and centering. Degenerate bounds map 1:1.
func fitTransform(bounds geom.Rect, pageW, pageH, margin float64) (scale, offX, offY float64) {
	bw := float64(bounds.Width())
	bh := float64(bounds.Height())
	innerW := pageW - 2*margin
	innerH := pageH - 2*margin
	if bw <= 0 && bh <= 0 {
		return 1, margin - float64(bounds.Min.X), margin - float64(bounds.Min.Y)
	}
	scale = 1.0
	if bw > 0 && bh > 0 {
		sx := innerW / bw
		sy := innerH / bh
		scale = sx
		if sy < sx {
			scale = sy
		}
	} else if bw > 0 {
		scale = innerW / bw
	} else {
		scale = innerH / bh
	}
	offX = margin + (innerW-bw*scale)/2 - float64(bounds.Min.X)*scale
	offY = margin + (innerH-bh*scale)/2 - float64(bounds.Min.Y)*scale
	return scale, offX, offY
}

// resolveOutPath places relative output paths under the document's
// exports folder and ensures the parent directory exists.
func resolveOutPath(dh *storage.DocumentHandle, outPath string) (string, error) {
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(dh.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	return outPath, nil
}
