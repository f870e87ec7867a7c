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

var ringCases = []TestCase{
	{
		Name:   "ring_circle",
		Shape:  shape(specmask.Ring, 8, 8, 56, 56, 6),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "ring_ellipse",
		Shape:  shape(specmask.Ring, 4, 16, 60, 48, 5),
		Width:  64,
		Height: 64,
	},
	{
		Name: "ring_anisotropic",
		Shape: specmask.Shape{
			Kind:       specmask.Ring,
			Start:      pt(8, 8),
			End:        pt(56, 56),
			ThicknessX: 4,
			ThicknessY: 8,
		},
		Width:  64,
		Height: 64,
	},
	{
		// the inner ellipse vanishes, leaving a filled ellipse
		Name:   "ring_solid",
		Shape:  shape(specmask.Ring, 8, 16, 56, 48, 30),
		Width:  64,
		Height: 64,
	},
	{
		// only the inner y radius vanishes
		Name: "ring_half_solid",
		Shape: specmask.Shape{
			Kind:       specmask.Ring,
			Start:      pt(8, 16),
			End:        pt(56, 48),
			ThicknessX: 4,
			ThicknessY: 16,
		},
		Width:  64,
		Height: 64,
	},
}
