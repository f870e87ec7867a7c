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

import "seehuhn.de/go/specmask"

// largeCases use canvases of the size of typical spectrum images.
var largeCases = []TestCase{
	{
		Name:   "large_rect",
		Shape:  shape(specmask.FilledRect, 50, 50, 462, 462, 0),
		Width:  512,
		Height: 512,
	},
	{
		Name:   "large_hollow",
		Shape:  shape(specmask.HollowRect, 64, 128, 448, 384, 10),
		Width:  512,
		Height: 512,
	},
	{
		Name:   "large_ellipse",
		Shape:  shape(specmask.FilledEllipse, 16, 100, 496, 412, 0),
		Width:  512,
		Height: 512,
	},
	{
		Name:   "large_ring",
		Shape:  shape(specmask.Ring, 128, 128, 256, 256, 10),
		Width:  512,
		Height: 512,
	},
	{
		Name:   "large_ring_wide",
		Shape:  shape(specmask.Ring, 16, 16, 496, 496, 40),
		Width:  512,
		Height: 512,
	},
}
