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

var fillCases = []TestCase{
	{
		Name:   "rect",
		Shape:  shape(specmask.FilledRect, 10, 10, 54, 44, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "rect_reversed",
		Shape:  shape(specmask.FilledRect, 54, 44, 10, 10, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "rect_flipped_x",
		Shape:  shape(specmask.FilledRect, 54, 10, 10, 44, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "circle",
		Shape:  shape(specmask.FilledEllipse, 8, 8, 56, 56, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "ellipse_wide",
		Shape:  shape(specmask.FilledEllipse, 4, 20, 60, 44, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "ellipse_tall",
		Shape:  shape(specmask.FilledEllipse, 40, 60, 24, 4, 0),
		Width:  64,
		Height: 64,
	},
	{
		// the thickness is ignored for filled shapes
		Name:   "circle_thick",
		Shape:  shape(specmask.FilledEllipse, 8, 8, 56, 56, 20),
		Width:  64,
		Height: 64,
	},
}
