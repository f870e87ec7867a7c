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

// precisionCases use corners which are not on the pixel grid.
var precisionCases = []TestCase{
	{
		Name:   "subpixel_rect_25",
		Shape:  shape(specmask.FilledRect, 20.25, 20.25, 44.25, 44.25, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "subpixel_rect_50",
		Shape:  shape(specmask.FilledRect, 20.5, 20.5, 44.5, 44.5, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "subpixel_rect_mixed",
		Shape:  shape(specmask.FilledRect, 10.5, 12.25, 40.75, 50.5, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "subpixel_hollow",
		Shape:  shape(specmask.HollowRect, 10.5, 10.5, 53.5, 40.5, 3),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "subpixel_ellipse",
		Shape:  shape(specmask.FilledEllipse, 10.3, 7.7, 50.6, 57.1, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "subpixel_ring",
		Shape:  shape(specmask.Ring, 6.5, 9.25, 57.75, 54.5, 4.5),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "tiny_ellipse",
		Shape:  shape(specmask.FilledEllipse, 30.2, 30.4, 33.6, 32.9, 0),
		Width:  64,
		Height: 64,
	},
}
