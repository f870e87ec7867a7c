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

import "errors"

var (
	// ErrNoSession is returned by operations which need a loaded image.
	ErrNoSession = errors.New("no image loaded")

	// ErrNoSelection is returned when a shape is applied before one has
	// been drawn.
	ErrNoSelection = errors.New("draw a shape first")

	// ErrStaleSession is returned when a backend response arrives after the
	// session it belongs to has been replaced.  The response is discarded.
	ErrStaleSession = errors.New("response for a replaced session")

	// ErrBufferMismatch indicates that the canvas buffer does not have the
	// native size of the spectrum image.
	ErrBufferMismatch = errors.New("canvas buffer size differs from image size")
)
