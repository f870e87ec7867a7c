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
	"fmt"
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/specmask/raster"
)

// ShapeKind selects one of the supported mask shapes.
type ShapeKind int

// These are the supported shape kinds.
const (
	FilledRect ShapeKind = iota
	HollowRect
	FilledEllipse
	Ring
)

// ShapeKinds lists all shape kinds, in the order they are offered to the
// user.
var ShapeKinds = []ShapeKind{FilledRect, HollowRect, FilledEllipse, Ring}

// String returns the name used for the shape on the wire.
func (k ShapeKind) String() string {
	switch k {
	case FilledRect:
		return "rect"
	case HollowRect:
		return "hollow_rect"
	case FilledEllipse:
		return "circle"
	case Ring:
		return "ring"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// ParseShapeKind is the inverse of ShapeKind.String.
func ParseShapeKind(s string) (ShapeKind, error) {
	for _, k := range ShapeKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k ShapeKind) MarshalText() ([]byte, error) {
	if k < FilledRect || k > Ring {
		return nil, fmt.Errorf("invalid shape kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ShapeKind) UnmarshalText(text []byte) error {
	kind, err := ParseShapeKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Geometry describes the box spanned by a drag gesture.
type Geometry struct {
	// Min and Max are the corners of the bounding box.  They do not depend
	// on the order in which the two drag points are given.
	Min, Max vec.Vec2

	// Width and Height are End-Start and can be negative.
	Width, Height float64

	Center           vec.Vec2
	RadiusX, RadiusY float64
}

// ComputeGeometry returns the geometry of the box between start and end.
func ComputeGeometry(start, end vec.Vec2) Geometry {
	lo := vec.Vec2{X: min(start.X, end.X), Y: min(start.Y, end.Y)}
	hi := vec.Vec2{X: max(start.X, end.X), Y: max(start.Y, end.Y)}
	w := end.X - start.X
	h := end.Y - start.Y
	return Geometry{
		Min:     lo,
		Max:     hi,
		Width:   w,
		Height:  h,
		Center:  vec.Vec2{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2},
		RadiusX: math.Abs(w / 2),
		RadiusY: math.Abs(h / 2),
	}
}

// StrokeThickness scales a thickness independently along both axes.  Both
// results are at least 1.
func StrokeThickness(t, scaleX, scaleY float64) (tx, ty float64) {
	return max(1, t*scaleX), max(1, t*scaleY)
}

// previewLineWidth is the outline width for shapes without a thickness.
const previewLineWidth = 2

// Shape is a mask shape in some pixel space.  Start and End are the two
// drag points.  The thickness is only used by HollowRect and Ring.
type Shape struct {
	Kind       ShapeKind
	Start, End vec.Vec2
	ThicknessX float64
	ThicknessY float64
}

// Geometry returns the bounding box, centre and radii of the shape.
func (s Shape) Geometry() Geometry {
	return ComputeGeometry(s.Start, s.End)
}

// InnerRadii returns the radii of the hole of a Ring.  Radii which would be
// negative are clamped to 0.
func (s Shape) InnerRadii() (rx, ry float64) {
	g := s.Geometry()
	return max(0, g.RadiusX-s.ThicknessX), max(0, g.RadiusY-s.ThicknessY)
}

// StrokeWidth returns the outline width of the shape.
func (s Shape) StrokeWidth() float64 {
	switch s.Kind {
	case HollowRect, Ring:
		return max(s.ThicknessX, s.ThicknessY)
	default:
		return previewLineWidth
	}
}

// IsStroked reports whether the shape is painted by stroking its path.
// All other shapes are filled using the nonzero winding rule.
func (s Shape) IsStroked() bool {
	return s.Kind == HollowRect
}

// Path returns the outline of the shape.  Degenerate shapes give paths
// without area.
func (s Shape) Path() *path.Data {
	g := s.Geometry()
	p := &path.Data{}
	switch s.Kind {
	case FilledRect, HollowRect:
		appendRect(p, g.Min, g.Max)
	case FilledEllipse:
		if g.RadiusX > 0 && g.RadiusY > 0 {
			appendEllipse(p, g.Center, g.RadiusX, g.RadiusY, false)
		}
	case Ring:
		if g.RadiusX > 0 && g.RadiusY > 0 {
			appendEllipse(p, g.Center, g.RadiusX, g.RadiusY, false)
			if rx, ry := s.InnerRadii(); rx > 0 && ry > 0 {
				appendEllipse(p, g.Center, rx, ry, true)
			}
		}
	}
	return p
}

// Rasterize computes the coverage of the shape.  The stroke parameters of
// r are overwritten.
func (s Shape) Rasterize(r *raster.Rasterizer, emit func(y, xMin int, coverage []float32)) {
	p := s.Path()
	if s.IsStroked() {
		r.Width = s.StrokeWidth()
		r.Join = graphics.LineJoinMiter
		r.Stroke(p, emit)
		return
	}
	r.FillNonZero(p, emit)
}

func appendRect(p *path.Data, lo, hi vec.Vec2) {
	p.MoveTo(lo).
		LineTo(vec.Vec2{X: hi.X, Y: lo.Y}).
		LineTo(hi).
		LineTo(vec.Vec2{X: lo.X, Y: hi.Y}).
		Close()
}

// kappa for the cubic Bézier approximation of a quarter ellipse
const kappa = 0.5522847498307936

// appendEllipse adds a closed ellipse made of four cubic Bézier curves.
// Both orientations start at the rightmost point.  With reverse set the
// ellipse is traversed in the opposite direction, so that it cuts a hole
// into an ellipse drawn without reverse.
func appendEllipse(p *path.Data, c vec.Vec2, rx, ry float64, reverse bool) {
	kx, ky := rx*kappa, ry*kappa
	pt := func(dx, dy float64) vec.Vec2 {
		return vec.Vec2{X: c.X + dx, Y: c.Y + dy}
	}

	if reverse {
		p.MoveTo(pt(rx, 0)).
			CubeTo(pt(rx, -ky), pt(kx, -ry), pt(0, -ry)).
			CubeTo(pt(-kx, -ry), pt(-rx, -ky), pt(-rx, 0)).
			CubeTo(pt(-rx, ky), pt(-kx, ry), pt(0, ry)).
			CubeTo(pt(kx, ry), pt(rx, ky), pt(rx, 0)).
			Close()
		return
	}
	p.MoveTo(pt(rx, 0)).
		CubeTo(pt(rx, ky), pt(kx, ry), pt(0, ry)).
		CubeTo(pt(-kx, ry), pt(-rx, ky), pt(-rx, 0)).
		CubeTo(pt(-rx, -ky), pt(-kx, -ry), pt(0, -ry)).
		CubeTo(pt(kx, -ry), pt(rx, -ky), pt(rx, 0)).
		Close()
}
