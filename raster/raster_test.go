package raster

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

func square(x0, y0, x1, y1 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x0, y0)).
		LineTo(pt(x1, y0)).
		LineTo(pt(x1, y1)).
		LineTo(pt(x0, y1)).
		Close()
}

// grid collects emitted coverage into a w×h buffer.
type grid struct {
	w, h int
	pix  []float32
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, pix: make([]float32, w*h)}
}

func (g *grid) emit(y, xMin int, coverage []float32) {
	copy(g.pix[y*g.w+xMin:], coverage)
}

func (g *grid) at(x, y int) float32 {
	return g.pix[y*g.w+x]
}

func (g *grid) sum() float64 {
	var total float64
	for _, c := range g.pix {
		total += float64(c)
	}
	return total
}

func clipRect(w, h int) rect.Rect {
	return rect.Rect{LLx: 0, LLy: 0, URx: float64(w), URy: float64(h)}
}

// TestTriangleCoverage checks exact coverage for a triangle with the
// diagonal edge y = x/10.  Pixel x should be covered by (2x+1)/20.
func TestTriangleCoverage(t *testing.T) {
	triangle := (&path.Data{}).
		MoveTo(pt(0, 0)).
		LineTo(pt(10, 0)).
		LineTo(pt(10, 1)).
		Close()

	g := newGrid(10, 1)
	r := NewRasterizer(clipRect(10, 1))
	r.FillNonZero(triangle, g.emit)

	const epsilon = 1e-6
	for x := range 10 {
		expected := float64(2*x+1) / 20
		if got := float64(g.at(x, 0)); math.Abs(got-expected) > epsilon {
			t.Errorf("pixel %d: expected coverage %.4f, got %.4f", x, expected, got)
		}
	}
}

func TestFillRectangle(t *testing.T) {
	g := newGrid(10, 10)
	r := NewRasterizer(clipRect(10, 10))
	r.FillNonZero(square(2, 3, 7, 9), g.emit)

	for y := range 10 {
		for x := range 10 {
			inside := x >= 2 && x < 7 && y >= 3 && y < 9
			want := float32(0)
			if inside {
				want = 1
			}
			if got := g.at(x, y); got != want {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFillRules(t *testing.T) {
	// two squares with the same orientation
	same := square(0, 0, 20, 20)
	same.MoveTo(pt(5, 5)).LineTo(pt(15, 5)).LineTo(pt(15, 15)).LineTo(pt(5, 15)).Close()

	// inner square with the opposite orientation
	opposite := square(0, 0, 20, 20)
	opposite.MoveTo(pt(5, 5)).LineTo(pt(5, 15)).LineTo(pt(15, 15)).LineTo(pt(15, 5)).Close()

	cases := []struct {
		name    string
		p       *path.Data
		evenOdd bool
		area    float64
	}{
		{"same_nonzero", same, false, 400},
		{"same_evenodd", same, true, 300},
		{"opposite_nonzero", opposite, false, 300},
		{"opposite_evenodd", opposite, true, 300},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGrid(20, 20)
			r := NewRasterizer(clipRect(20, 20))
			if tc.evenOdd {
				r.FillEvenOdd(tc.p, g.emit)
			} else {
				r.FillNonZero(tc.p, g.emit)
			}
			if got := g.sum(); math.Abs(got-tc.area) > 1e-3 {
				t.Errorf("area %.3f, want %.3f", got, tc.area)
			}
		})
	}
}

func TestFillClipped(t *testing.T) {
	g := newGrid(8, 8)
	r := NewRasterizer(clipRect(8, 8))
	r.FillNonZero(square(-10, -10, 4, 4), g.emit)

	if got := g.sum(); math.Abs(got-16) > 1e-3 {
		t.Errorf("area %.3f, want 16", got)
	}
}

func TestFillWithCTM(t *testing.T) {
	g := newGrid(20, 20)
	r := NewRasterizer(clipRect(20, 20))
	r.CTM = matrix.Scale(2, 3)
	r.FillNonZero(square(1, 1, 6, 5), g.emit)

	// 5×4 user units scaled to 10×12 pixels
	if got := g.sum(); math.Abs(got-120) > 1e-3 {
		t.Errorf("area %.3f, want 120", got)
	}
}

func TestEmptyPath(t *testing.T) {
	r := NewRasterizer(clipRect(10, 10))
	called := false
	emit := func(int, int, []float32) { called = true }

	r.FillNonZero(&path.Data{}, emit)
	r.FillNonZero(square(3, 3, 3, 3), emit)
	r.Stroke(square(3, 3, 3, 3), emit)
	if called {
		t.Error("degenerate paths must not produce coverage")
	}
}

func TestStrokeRectangle(t *testing.T) {
	cases := []struct {
		name  string
		join  graphics.LineJoinStyle
		width float64
		area  float64
	}{
		// outer 24×24 minus inner 16×16
		{"miter", graphics.LineJoinMiter, 4, 24*24 - 16*16},
		// bevels cut a triangle of area 2 from each outer corner
		{"bevel", graphics.LineJoinBevel, 4, 24*24 - 16*16 - 4*2},
		// stroke wider than the rectangle covers the whole outer square
		{"thick", graphics.LineJoinMiter, 30, 50 * 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGrid(64, 64)
			r := NewRasterizer(clipRect(64, 64))
			r.Width = tc.width
			r.Join = tc.join
			r.Stroke(square(20, 20, 40, 40), g.emit)

			if got := g.sum(); math.Abs(got-tc.area) > 0.01 {
				t.Errorf("area %.3f, want %.3f", got, tc.area)
			}
			for _, c := range g.pix {
				if c < 0 || c > 1 {
					t.Fatalf("coverage %v outside [0,1]", c)
				}
			}
		})
	}
}

func TestStrokeReversedRectangle(t *testing.T) {
	forward := newGrid(40, 40)
	backward := newGrid(40, 40)

	r := NewRasterizer(clipRect(40, 40))
	r.Width = 3
	r.Stroke(square(5, 5, 30, 25), forward.emit)
	r.Stroke(square(30, 25, 5, 5), backward.emit)

	for i := range forward.pix {
		if math.Abs(float64(forward.pix[i]-backward.pix[i])) > 1e-5 {
			t.Fatalf("pixel %d differs: %v vs %v", i, forward.pix[i], backward.pix[i])
		}
	}
}

func TestStrokeRoundJoin(t *testing.T) {
	g := newGrid(64, 64)
	r := NewRasterizer(clipRect(64, 64))
	r.Width = 4
	r.Join = graphics.LineJoinRound
	r.Flatness = 0.01
	r.Stroke(square(10, 10, 30, 30), g.emit)

	// the four round corners together form a circle of radius 2
	want := 24*24 - 16*16 - 4*4 + math.Pi*4
	if got := g.sum(); math.Abs(got-want) > 0.2 {
		t.Errorf("area %.3f, want %.3f", got, want)
	}
}

func TestStrokeOpenLine(t *testing.T) {
	g := newGrid(32, 32)
	r := NewRasterizer(clipRect(32, 32))
	r.Width = 2
	r.Stroke((&path.Data{}).MoveTo(pt(4, 10)).LineTo(pt(24, 10)), g.emit)

	// butt caps: a 20×2 bar
	if got := g.sum(); math.Abs(got-40) > 1e-3 {
		t.Errorf("area %.3f, want 40", got)
	}
}

func TestResetKeepsBuffers(t *testing.T) {
	r := NewRasterizer(clipRect(16, 16))
	r.Width = 7
	r.Join = graphics.LineJoinBevel
	r.FillNonZero(square(0, 0, 16, 16), func(int, int, []float32) {})

	r.Reset(clipRect(4, 4))
	if r.Width != 1 || r.Join != graphics.LineJoinMiter || r.MiterLimit != defaultMiterLimit {
		t.Errorf("stroke parameters not reset: %+v", r)
	}
	if cap(r.cover) < 16 {
		t.Errorf("cover buffer was released")
	}

	g := newGrid(4, 4)
	r.FillNonZero(square(0, 0, 16, 16), g.emit)
	if got := g.sum(); math.Abs(got-16) > 1e-3 {
		t.Errorf("area %.3f, want 16", got)
	}
}
