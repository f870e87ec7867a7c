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

var strokeCases = []TestCase{
	{
		Name:   "hollow_thin",
		Shape:  shape(specmask.HollowRect, 12, 12, 52, 52, 1),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "hollow_default",
		Shape:  shape(specmask.HollowRect, 12, 12, 52, 52, specmask.DefaultThickness),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "hollow_thick",
		Shape:  shape(specmask.HollowRect, 12, 16, 52, 48, 8),
		Width:  64,
		Height: 64,
	},
	{
		// the larger of the two thicknesses is used
		Name: "hollow_anisotropic",
		Shape: specmask.Shape{
			Kind:       specmask.HollowRect,
			Start:      pt(52, 48),
			End:        pt(12, 16),
			ThicknessX: 3,
			ThicknessY: 6,
		},
		Width:  64,
		Height: 64,
	},
	{
		// the stroke closes the hole
		Name:   "hollow_filled",
		Shape:  shape(specmask.HollowRect, 20, 20, 30, 44, 12),
		Width:  64,
		Height: 64,
	},
}
