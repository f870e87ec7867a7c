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

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/specmask/raster"
)

// maskThreshold is the coverage from which a pixel counts as masked.
const maskThreshold = 0.5

// RequestShape converts an apply request into a shape in the pixel grid
// of a width×height image.  Coordinates are truncated to whole pixels.
func RequestShape(req ApplyRequest, width, height int) Shape {
	t := float64(max(req.Thickness, 1))
	return Shape{
		Kind: req.Shape,
		Start: vec.Vec2{
			X: float64(int(req.X0 * float64(width))),
			Y: float64(int(req.Y0 * float64(height))),
		},
		End: vec.Vec2{
			X: float64(int(req.X1 * float64(width))),
			Y: float64(int(req.Y1 * float64(height))),
		},
		ThicknessX: t,
		ThicknessY: t,
	}
}

// MaskFromRequest rasterizes the shape of an apply request into a keep-mask
// for a width×height image.  Masked pixels have alpha 0, all other pixels
// have alpha 255.
func MaskFromRequest(req ApplyRequest, width, height int) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, width, height))
	for i := range m.Pix {
		m.Pix[i] = 255
	}

	r := raster.NewRasterizer(rect.Rect{URx: float64(width), URy: float64(height)})
	RequestShape(req, width, height).Rasterize(r, func(y, xMin int, coverage []float32) {
		row := m.Pix[m.PixOffset(xMin, y):]
		for i, c := range coverage {
			if c >= maskThreshold {
				row[i] = 0
			}
		}
	})
	return m
}

// IntersectMasks combines two keep-masks of equal size.  A pixel is kept
// only if both masks keep it.  The result is stored in dst.
func IntersectMasks(dst, src *image.Alpha) {
	b := dst.Rect.Intersect(src.Rect)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		d := dst.Pix[dst.PixOffset(b.Min.X, y):]
		s := src.Pix[src.PixOffset(b.Min.X, y):]
		for i := range b.Dx() {
			d[i] = min(d[i], s[i])
		}
	}
}
