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

package raster

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Stroke renders the outline of p with the current Width, Join and
// MiterLimit.  The stroke is centred on the path.  Open subpaths get butt
// caps.  The emit callback receives coverage row by row; its slice argument
// is valid only during the call.
func (r *Rasterizer) Stroke(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	d := r.Width / 2
	if !(d > 0) {
		return
	}

	r.flatten(p)

	r.outline = r.outline[:0]
	r.outlineOffsets = r.outlineOffsets[:0]
	for i := range r.polyOffsets {
		pts := r.subpath(i)
		if r.polyClosed[i] {
			r.strokeClosed(pts, d)
		} else {
			r.strokeOpen(pts, d)
		}
	}

	// The outline polygons are filled together, so that overlapping parts
	// of a thick stroke are not cancelled out.
	r.beginEdges()
	for i, start := range r.outlineOffsets {
		end := len(r.outline)
		if i+1 < len(r.outlineOffsets) {
			end = r.outlineOffsets[i+1]
		}
		poly := r.outline[start:end]
		for j := range poly {
			r.addEdge(poly[j], poly[(j+1)%len(poly)])
		}
	}
	r.scan(fillNonZero, emit)
}

// flatten converts p into polylines, one per subpath, dropping
// zero-length segments.
func (r *Rasterizer) flatten(p *path.Data) {
	r.poly = r.poly[:0]
	r.polyOffsets = r.polyOffsets[:0]
	r.polyClosed = r.polyClosed[:0]

	line := func(_, b vec.Vec2) {
		if len(r.polyOffsets) == 0 {
			return
		}
		last := r.poly[len(r.poly)-1]
		if b.Sub(last).Length() > zeroLengthThreshold {
			r.poly = append(r.poly, b)
		}
	}
	subpath := func(start vec.Vec2, closed bool) {
		if closed {
			r.polyClosed[len(r.polyClosed)-1] = true
			return
		}
		r.polyOffsets = append(r.polyOffsets, len(r.poly))
		r.polyClosed = append(r.polyClosed, false)
		r.poly = append(r.poly, start)
	}
	r.walk(p, line, subpath)
}

// subpath returns the points of flattened subpath i.  For closed subpaths
// a final point equal to the first one is removed.
func (r *Rasterizer) subpath(i int) []vec.Vec2 {
	start := r.polyOffsets[i]
	end := len(r.poly)
	if i+1 < len(r.polyOffsets) {
		end = r.polyOffsets[i+1]
	}
	pts := r.poly[start:end]
	if r.polyClosed[i] && len(pts) > 1 && pts[len(pts)-1].Sub(pts[0]).Length() <= zeroLengthThreshold {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// strokeClosed adds two outline polygons for a closed polyline: the offset
// curve on the +N side, and the offset curve on the -N side traversed
// backwards.  With the nonzero rule this covers exactly the band between
// the two.
func (r *Rasterizer) strokeClosed(pts []vec.Vec2, d float64) {
	n := len(pts)
	if n < 2 {
		return
	}

	for _, side := range []float64{1, -1} {
		start := len(r.outline)
		for j := range n {
			in := unit(pts[j].Sub(pts[(j+n-1)%n]))
			out := unit(pts[(j+1)%n].Sub(pts[j]))
			r.addCorner(pts[j], in, out, d, side)
		}
		if side < 0 {
			slices.Reverse(r.outline[start:])
		}
		r.outlineOffsets = append(r.outlineOffsets, start)
	}
}

// strokeOpen adds a single outline polygon for an open polyline with butt
// caps.
func (r *Rasterizer) strokeOpen(pts []vec.Vec2, d float64) {
	n := len(pts)
	if n < 2 {
		return
	}

	start := len(r.outline)
	for _, side := range []float64{1, -1} {
		sideStart := len(r.outline)
		first := unit(pts[1].Sub(pts[0]))
		r.outline = append(r.outline, pts[0].Add(normal(first).Mul(side*d)))
		for j := 1; j < n-1; j++ {
			in := unit(pts[j].Sub(pts[j-1]))
			out := unit(pts[j+1].Sub(pts[j]))
			r.addCorner(pts[j], in, out, d, side)
		}
		last := unit(pts[n-1].Sub(pts[n-2]))
		r.outline = append(r.outline, pts[n-1].Add(normal(last).Mul(side*d)))
		if side < 0 {
			slices.Reverse(r.outline[sideStart:])
		}
	}
	r.outlineOffsets = append(r.outlineOffsets, start)
}

// addCorner appends the offset points for the corner at P, where the
// direction changes from t1 to t2.  side selects the +N (1) or -N (-1)
// offset curve.
func (r *Rasterizer) addCorner(P, t1, t2 vec.Vec2, d, side float64) {
	n1 := normal(t1).Mul(side)
	n2 := normal(t2).Mul(side)

	cosTheta := t1.Dot(t2)
	sinTheta := t1.X*t2.Y - t1.Y*t2.X

	if math.Abs(sinTheta) < collinearityThreshold && cosTheta > 0 {
		r.outline = append(r.outline, P.Add(n2.Mul(d)))
		return
	}
	if cosTheta < cuspCosineThreshold {
		r.outline = append(r.outline, P.Add(n1.Mul(d)), P.Add(n2.Mul(d)))
		return
	}

	// cos of half the angle between the two offset directions
	halfCos := math.Sqrt((1 + cosTheta) / 2)
	bisector := unit(n1.Add(n2))

	// Turning towards +N makes +N the inner side of the corner.
	if side*sinTheta > 0 {
		r.outline = append(r.outline, P.Add(bisector.Mul(d/halfCos)))
		return
	}

	switch r.Join {
	case graphics.LineJoinMiter:
		if 1/halfCos <= r.MiterLimit {
			r.outline = append(r.outline, P.Add(bisector.Mul(d/halfCos)))
			return
		}
	case graphics.LineJoinRound:
		sweep := math.Atan2(n1.X*n2.Y-n1.Y*n2.X, n1.Dot(n2))
		r.addArc(P, d, n1, sweep)
		return
	}
	r.outline = append(r.outline, P.Add(n1.Mul(d)), P.Add(n2.Mul(d)))
}

// addArc appends a circular arc around center, starting in direction
// startDir and sweeping by the given angle (positive = towards +Y).  Both
// end points are included.
func (r *Rasterizer) addArc(center vec.Vec2, radius float64, startDir vec.Vec2, sweep float64) {
	devRadius := max(
		r.transformLinear(vec.Vec2{X: radius}).Length(),
		r.transformLinear(vec.Vec2{Y: radius}).Length(),
	)

	n := 1
	if devRadius > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/devRadius)
		if step > 0 && !math.IsNaN(step) {
			n = max(int(math.Ceil(math.Abs(sweep)/step)), 1)
		}
	}

	for i := 0; i <= n; i++ {
		sin, cos := math.Sincos(sweep * float64(i) / float64(n))
		dir := vec.Vec2{
			X: startDir.X*cos - startDir.Y*sin,
			Y: startDir.X*sin + startDir.Y*cos,
		}
		r.outline = append(r.outline, center.Add(dir.Mul(radius)))
	}
}

// normal returns t rotated by 90°.
func normal(t vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -t.Y, Y: t.X}
}

func unit(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}
