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
	"errors"
	"fmt"
	"image"
	"math"
	"testing"

	"seehuhn.de/go/geom/rect"
)

func screenRect(left, top, width, height float64) rect.Rect {
	return rect.Rect{LLx: left, LLy: top, URx: left + width, URy: top + height}
}

func TestToCanvasSpaceCorners(t *testing.T) {
	cases := []struct {
		buffer image.Point
		bounds rect.Rect
	}{
		{image.Pt(512, 512), screenRect(0, 0, 256, 256)},
		{image.Pt(512, 512), screenRect(10, 20, 256, 256)},
		{image.Pt(640, 480), screenRect(-5, 3.5, 320, 360)},
		{image.Pt(100, 300), screenRect(7, 9, 1000, 1000)},
		{image.Pt(33, 17), screenRect(0, 0, 33, 17)},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v_%gx%g", tc.buffer, tc.bounds.URx-tc.bounds.LLx, tc.bounds.URy-tc.bounds.LLy), func(t *testing.T) {
			topLeft := DisplayPoint{X: tc.bounds.LLx, Y: tc.bounds.LLy}
			c, ok := ToCanvasSpace(topLeft, tc.bounds, tc.buffer)
			if !ok || c != (image.Point{}) {
				t.Errorf("top left maps to %v (ok=%t)", c, ok)
			}

			bottomRight := DisplayPoint{X: tc.bounds.URx, Y: tc.bounds.URy}
			c, ok = ToCanvasSpace(bottomRight, tc.bounds, tc.buffer)
			if !ok || c != tc.buffer {
				t.Errorf("bottom right maps to %v (ok=%t), want %v", c, ok, tc.buffer)
			}
		})
	}
}

func TestToCanvasSpaceRounding(t *testing.T) {
	bounds := screenRect(0, 0, 100, 100)
	buffer := image.Pt(300, 50)

	c, _ := ToCanvasSpace(DisplayPoint{X: 10.1, Y: 10.1}, bounds, buffer)
	if want := image.Pt(30, 5); c != want {
		t.Errorf("got %v, want %v", c, want)
	}

	// x: 0.5*3 = 1.5 rounds up, y: 1*0.5 = 0.5 rounds up
	c, _ = ToCanvasSpace(DisplayPoint{X: 0.5, Y: 1}, bounds, buffer)
	if want := image.Pt(2, 1); c != want {
		t.Errorf("got %v, want %v", c, want)
	}

	// pointer left of and above the canvas
	c, _ = ToCanvasSpace(DisplayPoint{X: -10, Y: -4}, bounds, buffer)
	if want := image.Pt(-30, -2); c != want {
		t.Errorf("got %v, want %v", c, want)
	}
}

func TestToCanvasSpaceUnavailable(t *testing.T) {
	p := DisplayPoint{X: 1, Y: 1}
	if _, ok := ToCanvasSpace(p, rect.Rect{}, image.Pt(10, 10)); ok {
		t.Error("empty bounds accepted")
	}
	if _, ok := ToCanvasSpace(p, screenRect(0, 0, 10, 10), image.Point{}); ok {
		t.Error("empty buffer accepted")
	}
	if _, ok := ToNormalized(image.Pt(1, 1), image.Pt(0, 5)); ok {
		t.Error("empty buffer accepted")
	}
}

// TestNormalizeInverse checks that normalizing undoes the multiplication
// by the buffer size, for in-bounds pointer positions.
func TestNormalizeInverse(t *testing.T) {
	buffer := image.Pt(640, 360)
	bounds := screenRect(12, 34, 417, 211)
	for i := range 50 {
		p := DisplayPoint{
			X: bounds.LLx + float64(i)*8.31,
			Y: bounds.LLy + float64(i)*4.17,
		}
		c, ok := ToCanvasSpace(p, bounds, buffer)
		if !ok {
			t.Fatal("mapping unavailable")
		}
		n, ok := ToNormalized(c, buffer)
		if !ok {
			t.Fatal("normalizing unavailable")
		}
		if math.Abs(n.X*float64(buffer.X)-float64(c.X)) > 1e-9 ||
			math.Abs(n.Y*float64(buffer.Y)-float64(c.Y)) > 1e-9 {
			t.Errorf("%v -> %v -> %v", p, c, n)
		}
	}

	// no clamping outside the canvas
	n, _ := ToNormalized(image.Pt(-64, 720), buffer)
	if n.X != -0.1 || n.Y != 2 {
		t.Errorf("got %v", n)
	}
}

func TestScaleThicknessToImage(t *testing.T) {
	cases := []struct {
		t              int
		buffer, native image.Point
		want           int
	}{
		{10, image.Pt(512, 512), image.Pt(512, 512), 10},
		{0, image.Pt(512, 512), image.Pt(512, 512), 1},
		{-3, image.Pt(512, 512), image.Pt(512, 512), 1},
		{1, image.Pt(1000, 1000), image.Pt(10, 10), 1},
		{3, image.Pt(100, 100), image.Pt(200, 400), 9},
		{5, image.Pt(200, 200), image.Pt(100, 100), 3},
	}
	for _, tc := range cases {
		got, ok := ScaleThicknessToImage(tc.t, tc.buffer, tc.native)
		if !ok || got != tc.want {
			t.Errorf("ScaleThicknessToImage(%d, %v, %v) = %d, %t; want %d",
				tc.t, tc.buffer, tc.native, got, ok, tc.want)
		}
	}

	// monotonic and never below 1
	for _, native := range []image.Point{{5, 5}, {512, 512}, {4096, 1024}} {
		prev := 0
		for thickness := range 100 {
			got, _ := ScaleThicknessToImage(thickness, image.Pt(512, 512), native)
			if got < 1 || got < prev {
				t.Fatalf("native %v, thickness %d: got %d after %d", native, thickness, got, prev)
			}
			prev = got
		}
	}
}

func TestMapperWithoutSession(t *testing.T) {
	var m *Mapper
	if _, ok := m.ToCanvas(DisplayPoint{}, screenRect(0, 0, 1, 1)); ok {
		t.Error("ToCanvas available without session")
	}
	if _, ok := m.Normalize(image.Point{}); ok {
		t.Error("Normalize available without session")
	}
	if _, ok := m.Thickness(5); ok {
		t.Error("Thickness available without session")
	}
	if _, _, ok := m.Scale(); ok {
		t.Error("Scale available without session")
	}
}

func TestNewMapper(t *testing.T) {
	if _, err := NewMapper(image.Pt(512, 512), image.Pt(256, 512)); !errors.Is(err, ErrBufferMismatch) {
		t.Errorf("got %v, want ErrBufferMismatch", err)
	}
	if _, err := NewMapper(image.Point{}, image.Point{}); !errors.Is(err, ErrNoSession) {
		t.Errorf("got %v, want ErrNoSession", err)
	}

	m, err := NewMapper(image.Pt(300, 200), image.Pt(300, 200))
	if err != nil {
		t.Fatal(err)
	}
	sx, sy, _ := m.Scale()
	if sx != 1 || sy != 1 {
		t.Errorf("scale %g×%g", sx, sy)
	}
	if th, _ := m.Thickness(7); th != 7 {
		t.Errorf("thickness %d", th)
	}
}
