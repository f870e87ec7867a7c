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

// degenerateCases have no area.
var degenerateCases = []TestCase{
	{
		Name:   "rect_zero_width",
		Shape:  shape(specmask.FilledRect, 20, 10, 20, 50, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "rect_point",
		Shape:  shape(specmask.FilledRect, 20, 20, 20, 20, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "ellipse_zero_height",
		Shape:  shape(specmask.FilledEllipse, 10, 30, 50, 30, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "ring_zero_width",
		Shape:  shape(specmask.Ring, 32, 10, 32, 50, 5),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "ring_point",
		Shape:  shape(specmask.Ring, 32, 32, 32, 32, 5),
		Width:  64,
		Height: 64,
	},
}
