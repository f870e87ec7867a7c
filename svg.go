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
	"image/color"
	"io"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"seehuhn.de/go/geom/path"
)

// WriteSVG writes the shape as an SVG overlay for a width×height canvas.
// The colours are the default preview colours.
func WriteSVG(w io.Writer, s Shape, width, height int) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Title("mask " + s.Kind.String())
	if d := svgPathData(s.Path()); d != "" {
		canvas.Path(d, svgStyle(s))
	}
	canvas.End()
	return ew.err
}

func svgStyle(s Shape) string {
	if s.IsStroked() {
		return fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%s;stroke-width:%s;stroke-linejoin:miter",
			svgColor(DefaultStrokeColor), svgOpacity(DefaultStrokeColor), svgNumber(s.StrokeWidth()))
	}
	return fmt.Sprintf("fill:%s;fill-opacity:%s;fill-rule:nonzero;stroke:none",
		svgColor(DefaultFillColor), svgOpacity(DefaultFillColor))
}

func svgColor(c color.NRGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func svgOpacity(c color.NRGBA) string {
	return svgNumber(float64(c.A) / 255)
}

func svgNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// svgPathData converts p into the SVG path syntax.
func svgPathData(p *path.Data) string {
	var b strings.Builder
	k := 0
	emit := func(cmd byte, n int) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(cmd)
		for _, pt := range p.Coords[k : k+n] {
			b.WriteByte(' ')
			b.WriteString(svgNumber(pt.X))
			b.WriteByte(',')
			b.WriteString(svgNumber(pt.Y))
		}
		k += n
	}
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			emit('M', 1)
		case path.CmdLineTo:
			emit('L', 1)
		case path.CmdQuadTo:
			emit('Q', 2)
		case path.CmdCubeTo:
			emit('C', 3)
		case path.CmdClose:
			emit('Z', 0)
		}
	}
	return b.String()
}

// errWriter records the first write error.  Later writes are dropped.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return len(p), nil
	}
	n, err := ew.w.Write(p)
	if err != nil {
		ew.err = err
	}
	return n, err
}
