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
	"image"
	"math"

	"seehuhn.de/go/geom/rect"
)

// DisplayPoint is a pointer position in on-screen pixels, in the same
// coordinate system as the bounds rectangle passed alongside it.
type DisplayPoint struct {
	X, Y float64
}

// NormPoint is a position relative to the image size.  Points inside the
// image have coordinates in [0, 1].  Values outside this range are kept.
type NormPoint struct {
	X, Y float64
}

// ToCanvasSpace maps a pointer position to canvas buffer pixels.
//
// The bounds describe where the canvas is currently rendered on screen:
// LLx and LLy are the left and top edges, URx and URy the right and bottom
// edges.  Since the canvas may be moved or resized at any time, the caller
// must supply the current bounds with every event.
//
// Each axis is scaled independently and the result is rounded to the
// nearest pixel.  The second return value is false if either the bounds or
// the buffer are empty.
func ToCanvasSpace(p DisplayPoint, bounds rect.Rect, buffer image.Point) (image.Point, bool) {
	w := bounds.URx - bounds.LLx
	h := bounds.URy - bounds.LLy
	if !(w > 0 && h > 0) || buffer.X <= 0 || buffer.Y <= 0 {
		return image.Point{}, false
	}

	x := (p.X - bounds.LLx) * float64(buffer.X) / w
	y := (p.Y - bounds.LLy) * float64(buffer.Y) / h
	return image.Point{X: roundHalfUp(x), Y: roundHalfUp(y)}, true
}

// ToNormalized divides a canvas position by the buffer size.  No clamping
// is done.
func ToNormalized(c image.Point, buffer image.Point) (NormPoint, bool) {
	if buffer.X <= 0 || buffer.Y <= 0 {
		return NormPoint{}, false
	}
	return NormPoint{
		X: float64(c.X) / float64(buffer.X),
		Y: float64(c.Y) / float64(buffer.Y),
	}, true
}

// ScaleThicknessToImage converts a thickness in canvas pixels into image
// pixels.  The scale is the mean of the two per-axis ratios native/buffer.
// The result is rounded and is never smaller than 1.
func ScaleThicknessToImage(t int, buffer, native image.Point) (int, bool) {
	if buffer.X <= 0 || buffer.Y <= 0 || native.X <= 0 || native.Y <= 0 {
		return 0, false
	}
	sx := float64(native.X) / float64(buffer.X)
	sy := float64(native.Y) / float64(buffer.Y)
	scaled := roundHalfUp(float64(t) * (sx + sy) / 2)
	return max(scaled, 1), true
}

// roundHalfUp rounds to the nearest integer, with halves rounded towards
// positive infinity.  This keeps the mapping translation invariant for
// pointer positions left of or above the canvas.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Mapper binds the coordinate conversions to the canvas of one image
// session.  A nil *Mapper represents the state without a loaded image; all
// its methods then report the result as unavailable.
type Mapper struct {
	buffer image.Point
	native image.Point
}

// NewMapper returns a mapper for a canvas buffer of the given size, showing
// an image of the given native size.  The editor keeps the buffer at the
// native image size, so any difference is reported as ErrBufferMismatch.
func NewMapper(buffer, native image.Point) (*Mapper, error) {
	if buffer.X <= 0 || buffer.Y <= 0 || native.X <= 0 || native.Y <= 0 {
		return nil, fmt.Errorf("empty image %dx%d: %w", native.X, native.Y, ErrNoSession)
	}
	if buffer != native {
		return nil, fmt.Errorf("buffer %v, image %v: %w", buffer, native, ErrBufferMismatch)
	}
	return &Mapper{buffer: buffer, native: native}, nil
}

// Buffer returns the size of the canvas buffer.
func (m *Mapper) Buffer() (image.Point, bool) {
	if m == nil {
		return image.Point{}, false
	}
	return m.buffer, true
}

// ToCanvas maps a pointer position into the canvas buffer.
func (m *Mapper) ToCanvas(p DisplayPoint, bounds rect.Rect) (image.Point, bool) {
	if m == nil {
		return image.Point{}, false
	}
	return ToCanvasSpace(p, bounds, m.buffer)
}

// Normalize converts a canvas position into normalized image coordinates.
func (m *Mapper) Normalize(c image.Point) (NormPoint, bool) {
	if m == nil {
		return NormPoint{}, false
	}
	return ToNormalized(c, m.buffer)
}

// Thickness converts a canvas thickness into image pixels.
func (m *Mapper) Thickness(t int) (int, bool) {
	if m == nil {
		return 0, false
	}
	return ScaleThicknessToImage(t, m.buffer, m.native)
}

// Scale returns the per-axis factors from image pixels to canvas pixels,
// used to draw strokes at the right visual thickness.
func (m *Mapper) Scale() (sx, sy float64, ok bool) {
	if m == nil {
		return 0, 0, false
	}
	return float64(m.buffer.X) / float64(m.native.X),
		float64(m.buffer.Y) / float64(m.native.Y), true
}
