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

// Package testcases contains mask shapes for testing the rasterizer.
package testcases

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/specmask"
)

// TestCase defines a single rendering test.
type TestCase struct {
	Name   string         // lowercase a-z, 0-9 and _ only
	Shape  specmask.Shape // in canvas pixels
	Width  int            // canvas width in pixels
	Height int            // canvas height in pixels
}

// Area returns the exact area covered by the shape.  The shape of every
// test case lies inside the canvas.
func (tc TestCase) Area() float64 {
	s := tc.Shape
	g := s.Geometry()
	w, h := g.Max.X-g.Min.X, g.Max.Y-g.Min.Y
	switch s.Kind {
	case specmask.FilledRect:
		return w * h
	case specmask.HollowRect:
		sw := s.StrokeWidth()
		outer := (w + sw) * (h + sw)
		inner := max(0, w-sw) * max(0, h-sw)
		return outer - inner
	case specmask.FilledEllipse:
		return math.Pi * g.RadiusX * g.RadiusY
	case specmask.Ring:
		if g.RadiusX == 0 || g.RadiusY == 0 {
			return 0
		}
		rx, ry := s.InnerRadii()
		return math.Pi * (g.RadiusX*g.RadiusY - rx*ry)
	}
	return 0
}

// IsCurved reports whether the outline of the shape contains curves.
func (tc TestCase) IsCurved() bool {
	return tc.Shape.Kind == specmask.FilledEllipse || tc.Shape.Kind == specmask.Ring
}

// Request returns the apply request for the shape, with coordinates
// normalized by the canvas size.
func (tc TestCase) Request(id string) specmask.ApplyRequest {
	s := tc.Shape
	return specmask.ApplyRequest{
		ID:        id,
		Shape:     s.Kind,
		X0:        s.Start.X / float64(tc.Width),
		Y0:        s.Start.Y / float64(tc.Height),
		X1:        s.End.X / float64(tc.Width),
		Y1:        s.End.Y / float64(tc.Height),
		Thickness: max(1, int(math.Round(max(s.ThicknessX, s.ThicknessY)))),
	}
}

func shape(kind specmask.ShapeKind, x0, y0, x1, y1, thickness float64) specmask.Shape {
	return specmask.Shape{
		Kind:       kind,
		Start:      pt(x0, y0),
		End:        pt(x1, y1),
		ThicknessX: thickness,
		ThicknessY: thickness,
	}
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}
