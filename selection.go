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
)

// Phase is the state of the drag gesture.
type Phase int

// These are the phases of a Selection.
const (
	Idle Phase = iota
	Dragging
	Committed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Selection tracks a drag gesture in canvas pixels.
//
//	Idle --down--> Dragging --move--> Dragging --up--> Committed
//	Committed --down--> Dragging
//	Committed --applied--> Idle
//
// The methods return the new state and leave the receiver unchanged.
// Events which do not apply to the current phase are ignored.
type Selection struct {
	Start, Current image.Point
	Phase          Phase
}

// PointerDown starts a new drag at p, discarding any previous selection.
func (s Selection) PointerDown(p image.Point) Selection {
	return Selection{Start: p, Current: p, Phase: Dragging}
}

// PointerMove updates the end point of an ongoing drag.
func (s Selection) PointerMove(p image.Point) Selection {
	if s.Phase != Dragging {
		return s
	}
	s.Current = p
	return s
}

// PointerUp ends a drag at p and enables applying the selection.
func (s Selection) PointerUp(p image.Point) Selection {
	if s.Phase != Dragging {
		return s
	}
	s.Current = p
	s.Phase = Committed
	return s
}

// CheckApply returns ErrNoSelection unless the selection is committed.
func (s Selection) CheckApply() error {
	if s.Phase != Committed {
		return ErrNoSelection
	}
	return nil
}

// Applied returns the state after the selection was applied successfully.
func (s Selection) Applied() Selection {
	if s.Phase != Committed {
		return s
	}
	return Selection{}
}

// Active reports whether there is a shape to show.
func (s Selection) Active() bool {
	return s.Phase != Idle
}
