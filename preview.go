// seehuhn.de/go/specmask - a spectrum mask editor core
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package specmask

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/specmask/raster"
)

// Default overlay colours.
var (
	DefaultFillColor   = color.NRGBA{R: 255, A: 77} // 30% opaque red
	DefaultStrokeColor = color.NRGBA{R: 255, A: 255}
)

// Preview draws the base image with the current shape on top.
//
// The base image is copied afresh for every frame, so repeated previews
// never accumulate.  A Preview reuses its buffers and is not safe for
// concurrent use.
type Preview struct {
	Fill   color.NRGBA
	Stroke color.NRGBA

	r    *raster.Rasterizer
	mask *image.Alpha
}

// NewPreview returns a Preview using the default colours.
func NewPreview() *Preview {
	return &Preview{
		Fill:   DefaultFillColor,
		Stroke: DefaultStrokeColor,
		r:      raster.NewRasterizer(rect.Rect{}),
	}
}

// Blit clears dst and copies base into it at 1:1 scale.
func (p *Preview) Blit(dst *image.RGBA, base image.Image) {
	clear(dst.Pix)
	if base != nil {
		draw.Draw(dst, dst.Bounds(), base, base.Bounds().Min, draw.Src)
	}
}

// Render draws base and then the shape into dst.
func (p *Preview) Render(dst *image.RGBA, base image.Image, s Shape) {
	p.Blit(dst, base)
	p.Overlay(dst, s)
}

// Overlay composites the shape over the current contents of dst.  Stroked
// shapes use the stroke colour, all others the fill colour.
func (p *Preview) Overlay(dst *image.RGBA, s Shape) {
	b := dst.Bounds()
	if b.Empty() {
		return
	}
	if p.mask == nil || p.mask.Rect != b {
		p.mask = image.NewAlpha(b)
	} else {
		clear(p.mask.Pix)
	}

	p.r.Reset(rect.Rect{
		LLx: float64(b.Min.X),
		LLy: float64(b.Min.Y),
		URx: float64(b.Max.X),
		URy: float64(b.Max.Y),
	})
	covered := false
	s.Rasterize(p.r, func(y, xMin int, coverage []float32) {
		row := p.mask.Pix[p.mask.PixOffset(xMin, y):]
		for i, c := range coverage {
			row[i] = uint8(min(max(c, 0), 1)*255 + 0.5)
		}
		covered = true
	})
	if !covered {
		return
	}

	col := p.Fill
	if s.IsStroked() {
		col = p.Stroke
	}
	draw.DrawMask(dst, b, image.NewUniform(col), image.Point{}, p.mask, b.Min, draw.Over)
}

// ScaleToDisplay resamples the canvas to its on-screen size.
func ScaleToDisplay(src image.Image, size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
