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

// ResetRequest asks the backend to clear the mask of an image.
type ResetRequest struct {
	ID string `json:"id"`
}

// ApplyRequest asks the backend to mask out a shape.  The corners are in
// normalized image coordinates, the thickness is in image pixels.
type ApplyRequest struct {
	ID        string    `json:"id"`
	Shape     ShapeKind `json:"shape"`
	X0        float64   `json:"x0"`
	Y0        float64   `json:"y0"`
	X1        float64   `json:"x1"`
	Y1        float64   `json:"y1"`
	Thickness int       `json:"thickness"`
}

// BuildReset returns the reset request for the session with the given id.
func BuildReset(id string) (ResetRequest, error) {
	if id == "" {
		return ResetRequest{}, ErrNoSession
	}
	return ResetRequest{ID: id}, nil
}

// BuildApply returns the request for applying a committed selection.  The
// mapper must belong to the session with the given id.  Thickness is in
// canvas pixels.
func BuildApply(id string, m *Mapper, sel Selection, kind ShapeKind, thickness int) (ApplyRequest, error) {
	if id == "" || m == nil {
		return ApplyRequest{}, ErrNoSession
	}
	if err := sel.CheckApply(); err != nil {
		return ApplyRequest{}, err
	}

	p0, _ := m.Normalize(sel.Start)
	p1, _ := m.Normalize(sel.Current)
	t, _ := m.Thickness(thickness)
	return ApplyRequest{
		ID:        id,
		Shape:     kind,
		X0:        p0.X,
		Y0:        p0.Y,
		X1:        p1.X,
		Y1:        p1.Y,
		Thickness: t,
	}, nil
}
