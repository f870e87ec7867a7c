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
	"image"
	"testing"
)

func countMasked(m *image.Alpha) int {
	n := 0
	for _, a := range m.Pix {
		if a == 0 {
			n++
		}
	}
	return n
}

func TestMaskFromRequestRect(t *testing.T) {
	req := ApplyRequest{ID: "x", Shape: FilledRect, X0: 0.5, Y0: 0.5, X1: 0.259, Y1: 0.25, Thickness: 1}
	m := MaskFromRequest(req, 100, 80)

	// corners are truncated to (25, 20) and (50, 40)
	if n := countMasked(m); n != 25*20 {
		t.Errorf("%d pixels masked, want %d", n, 25*20)
	}
	for _, tc := range []struct {
		x, y int
		a    uint8
	}{
		{25, 20, 0}, {49, 39, 0}, {24, 20, 255}, {50, 39, 255}, {30, 40, 255},
	} {
		if got := m.AlphaAt(tc.x, tc.y).A; got != tc.a {
			t.Errorf("pixel (%d,%d): alpha %d, want %d", tc.x, tc.y, got, tc.a)
		}
	}
}

// TestMaskMatchesPreview checks that the mask applied in image space covers
// the same pixels as the preview on a canvas of the same size.
func TestMaskMatchesPreview(t *testing.T) {
	const size = 256
	m, _ := NewMapper(image.Pt(size, size), image.Pt(size, size))
	sel := Selection{}.PointerDown(image.Pt(40, 200)).PointerUp(image.Pt(180, 64))

	for _, kind := range ShapeKinds {
		t.Run(kind.String(), func(t *testing.T) {
			req, err := BuildApply("id", m, sel, kind, 9)
			if err != nil {
				t.Fatal(err)
			}
			mask := MaskFromRequest(req, size, size)

			canvasShape := Shape{
				Kind:       kind,
				Start:      v(40, 200),
				End:        v(180, 64),
				ThicknessX: 9,
				ThicknessY: 9,
			}
			pix := coverage(canvasShape, size, size)
			for i, c := range pix {
				masked := mask.Pix[i] == 0
				if masked != (c >= maskThreshold) {
					t.Fatalf("pixel (%d,%d): coverage %g, masked %t", i%size, i/size, c, masked)
				}
			}
			if countMasked(mask) == 0 {
				t.Error("nothing masked")
			}
		})
	}
}

func TestIntersectMasks(t *testing.T) {
	a := MaskFromRequest(ApplyRequest{Shape: FilledRect, X0: 0, Y0: 0, X1: 0.5, Y1: 1}, 8, 8)
	b := MaskFromRequest(ApplyRequest{Shape: FilledRect, X0: 0.25, Y0: 0, X1: 0.75, Y1: 0.5}, 8, 8)
	IntersectMasks(a, b)

	// 4×8 from a plus the 2×4 part of b right of a
	if n := countMasked(a); n != 32+8 {
		t.Errorf("%d pixels masked, want 40", n)
	}
}
