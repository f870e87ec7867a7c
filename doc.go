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

// Package specmask implements the core of an interactive mask editor for
// spectrum images.
//
// Three coordinate systems are involved.  Pointer events arrive in display
// pixels, relative to the on-screen rectangle of the canvas.  The canvas
// buffer has exactly the pixel size of the spectrum image, so canvas pixels
// and image pixels coincide.  Requests to the backend use coordinates
// normalized by the image size, together with a thickness in image pixels.
//
// An [Editor] ties the pieces together: it maps pointer events, runs the
// [Selection] state machine, draws the preview with a [Preview] and sends
// [ApplyRequest] and [ResetRequest] values to a [Backend].
package specmask

//go:generate go run ./testcases/export
