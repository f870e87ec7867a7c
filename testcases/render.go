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

package testcases

import (
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/specmask/raster"
)

// Render renders the test case into a grayscale buffer.  The buffer must be
// pre-initialized with zeros, in row-major order.  Each byte represents
// coverage from 0 (transparent) to 255 (opaque).
func (tc TestCase) Render(buf []byte, stride int) {
	r := raster.NewRasterizer(rect.Rect{URx: float64(tc.Width), URy: float64(tc.Height)})
	tc.Shape.Rasterize(r, func(y, xMin int, coverage []float32) {
		row := buf[y*stride+xMin:]
		for i, c := range coverage {
			row[i] = uint8(min(max(c, 0), 1)*255 + 0.5)
		}
	})
}
