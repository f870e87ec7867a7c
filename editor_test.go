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

package specmask_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/specmask"
	"seehuhn.de/go/specmask/backend/memory"
)

var testColor = color.NRGBA{R: 200, G: 180, B: 160, A: 255}

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, testColor)
		}
	}
	return img
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setup returns an editor with a w×h image loaded, shown on screen at
// 256×256 pixels.
func setup(t *testing.T, w, h int, opts ...specmask.Option) (*specmask.Editor, *memory.Backend) {
	t.Helper()
	backend := memory.New(discardLogger())
	res := backend.AddImage("test.png", testImage(w, h))

	opts = append([]specmask.Option{specmask.WithLogger(discardLogger())}, opts...)
	e := specmask.New(backend, opts...)
	if err := e.LoadSession(context.Background(), res.ID, res.ImageURLs); err != nil {
		t.Fatal(err)
	}
	return e, backend
}

var screen = rect.Rect{URx: 256, URy: 256}

func drag(t *testing.T, e *specmask.Editor, x0, y0, x1, y1 float64) {
	t.Helper()
	if err := e.PointerDown(specmask.DisplayPoint{X: x0, Y: y0}, screen); err != nil {
		t.Fatal(err)
	}
	e.PointerMove(specmask.DisplayPoint{X: (x0 + x1) / 2, Y: (y0 + y1) / 2}, screen)
	e.PointerMove(specmask.DisplayPoint{X: x1, Y: y1}, screen)
	e.PointerUp(specmask.DisplayPoint{X: x1, Y: y1}, screen)
}

// TestRingScenario drags a ring on a 512×512 image shown at 256×256.
func TestRingScenario(t *testing.T) {
	ctx := context.Background()
	e, backend := setup(t, 512, 512)
	e.SetShape(specmask.Ring)
	e.SetThickness(10)

	drag(t, e, 64, 64, 128, 128)

	st := e.State()
	if st.Selection.Phase != specmask.Committed {
		t.Fatalf("phase %s", st.Selection.Phase)
	}
	if st.Selection.Start != image.Pt(128, 128) || st.Selection.Current != image.Pt(256, 256) {
		t.Errorf("canvas points %v, %v", st.Selection.Start, st.Selection.Current)
	}

	if err := e.Apply(ctx); err != nil {
		t.Fatal(err)
	}
	applied := backend.Applied()
	if len(applied) != 1 {
		t.Fatalf("%d requests sent", len(applied))
	}
	want := specmask.ApplyRequest{
		ID:        st.Session.ID,
		Shape:     specmask.Ring,
		X0:        0.25,
		Y0:        0.25,
		X1:        0.5,
		Y1:        0.5,
		Thickness: 10,
	}
	if applied[0] != want {
		t.Errorf("got %+v, want %+v", applied[0], want)
	}
	if phase := e.State().Selection.Phase; phase != specmask.Idle {
		t.Errorf("phase after apply %s", phase)
	}
}

func TestApplyFailureKeepsSelection(t *testing.T) {
	ctx := context.Background()
	e, backend := setup(t, 64, 64)
	drag(t, e, 10, 10, 100, 100)

	boom := errors.New("connection refused")
	backend.FailNext(memory.OpApply, boom)
	if err := e.Apply(ctx); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if phase := e.State().Selection.Phase; phase != specmask.Committed {
		t.Errorf("phase after failed apply %s", phase)
	}

	// retry without redrawing
	if err := e.Apply(ctx); err != nil {
		t.Fatal(err)
	}
	if phase := e.State().Selection.Phase; phase != specmask.Idle {
		t.Errorf("phase after retry %s", phase)
	}
	if n := backend.Calls(memory.OpApply); n != 2 {
		t.Errorf("%d apply calls", n)
	}
}

func TestApplyWithoutSelection(t *testing.T) {
	ctx := context.Background()
	e, backend := setup(t, 64, 64)

	if err := e.Apply(ctx); !errors.Is(err, specmask.ErrNoSelection) {
		t.Errorf("idle: %v", err)
	}
	e.PointerDown(specmask.DisplayPoint{X: 1, Y: 1}, screen)
	if err := e.Apply(ctx); !errors.Is(err, specmask.ErrNoSelection) {
		t.Errorf("dragging: %v", err)
	}
	if n := backend.Calls(memory.OpApply); n != 0 {
		t.Errorf("%d requests sent", n)
	}
	if phase := e.State().Selection.Phase; phase != specmask.Dragging {
		t.Errorf("phase changed to %s", phase)
	}
}

func TestWithoutSession(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(nil)
	e := specmask.New(backend)

	if err := e.Reset(ctx); !errors.Is(err, specmask.ErrNoSession) {
		t.Errorf("reset: %v", err)
	}
	if err := e.Apply(ctx); !errors.Is(err, specmask.ErrNoSession) {
		t.Errorf("apply: %v", err)
	}
	if err := e.Refresh(ctx); !errors.Is(err, specmask.ErrNoSession) {
		t.Errorf("refresh: %v", err)
	}
	if err := e.PointerDown(specmask.DisplayPoint{X: 5, Y: 5}, screen); !errors.Is(err, specmask.ErrNoSession) {
		t.Errorf("pointer down: %v", err)
	}
	e.PointerMove(specmask.DisplayPoint{X: 6, Y: 6}, screen)
	e.PointerUp(specmask.DisplayPoint{X: 6, Y: 6}, screen)
	e.SetThickness(3)

	for _, op := range []memory.Op{memory.OpReset, memory.OpApply, memory.OpImages} {
		if n := backend.Calls(op); n != 0 {
			t.Errorf("%s called %d times", op, n)
		}
	}
	if _, ok := e.CurrentShape(); ok {
		t.Error("shape without session")
	}
	if e.Canvas() != nil {
		t.Error("canvas without session")
	}
}

// TestStaleApply uploads a new image while an apply request is in flight.
// The late response must not affect the new session.
func TestStaleApply(t *testing.T) {
	ctx := context.Background()
	e, backend := setup(t, 64, 64)
	oldID := e.State().Session.ID
	drag(t, e, 10, 10, 100, 100)

	pngData := &bytes.Buffer{}
	if err := png.Encode(pngData, testImage(32, 48)); err != nil {
		t.Fatal(err)
	}
	backend.SetHook(memory.OpApply, func() {
		backend.SetHook(memory.OpApply, nil)
		if err := e.Upload(ctx, "second.png", pngData); err != nil {
			t.Error(err)
		}
	})

	if err := e.Apply(ctx); !errors.Is(err, specmask.ErrStaleSession) {
		t.Fatalf("got %v", err)
	}

	st := e.State()
	if st.Session.ID == oldID {
		t.Fatal("session was not replaced")
	}
	if st.Session.Width != 32 || st.Session.Height != 48 {
		t.Errorf("session size %dx%d", st.Session.Width, st.Session.Height)
	}
	if st.Selection.Phase != specmask.Idle {
		t.Errorf("phase %s", st.Selection.Phase)
	}
	if n := backend.Calls(memory.OpImages); n != 0 {
		t.Errorf("stale response triggered %d refreshes", n)
	}
}

// TestSelectionDuringApply commits a second selection while the first one
// is being applied.  Only the first selection is sent and the second one
// stays committed.
func TestSelectionDuringApply(t *testing.T) {
	ctx := context.Background()
	e, backend := setup(t, 64, 64)
	drag(t, e, 10, 10, 50, 50)

	backend.SetHook(memory.OpApply, func() {
		backend.SetHook(memory.OpApply, nil)
		drag(t, e, 100, 100, 200, 200)
	})
	if err := e.Apply(ctx); err != nil {
		t.Fatal(err)
	}

	applied := backend.Applied()
	if len(applied) != 1 {
		t.Fatalf("%d requests", len(applied))
	}
	if req := applied[0]; req.X0 != 3.0/64 || req.X1 != 13.0/64 {
		t.Errorf("sent x range %g..%g", req.X0, req.X1)
	}

	sel := e.State().Selection
	want := specmask.Selection{
		Start:   image.Pt(25, 25),
		Current: image.Pt(50, 50),
		Phase:   specmask.Committed,
	}
	if sel != want {
		t.Errorf("selection %+v, want %+v", sel, want)
	}
}

// TestStaleReset replaces the session while a reset is in flight.
func TestStaleReset(t *testing.T) {
	ctx := context.Background()
	e, backend := setup(t, 64, 64)
	oldID := e.State().Session.ID

	pngData := &bytes.Buffer{}
	if err := png.Encode(pngData, testImage(32, 48)); err != nil {
		t.Fatal(err)
	}
	backend.SetHook(memory.OpReset, func() {
		backend.SetHook(memory.OpReset, nil)
		if err := e.Upload(ctx, "second.png", pngData); err != nil {
			t.Error(err)
		}
	})

	if err := e.Reset(ctx); !errors.Is(err, specmask.ErrStaleSession) {
		t.Fatalf("got %v", err)
	}

	st := e.State()
	if st.Session.ID == oldID {
		t.Fatal("session was not replaced")
	}
	if st.Session.Width != 32 || st.Session.Height != 48 {
		t.Errorf("session size %dx%d", st.Session.Width, st.Session.Height)
	}
	if n := backend.Calls(memory.OpImages); n != 0 {
		t.Errorf("stale response triggered %d refreshes", n)
	}
}

func TestRefreshKeepsSelection(t *testing.T) {
	ctx := context.Background()
	e, _ := setup(t, 64, 64)
	drag(t, e, 10, 10, 100, 100)

	if err := e.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if phase := e.State().Selection.Phase; phase != specmask.Committed {
		t.Errorf("phase after refresh %s", phase)
	}

	pngData := &bytes.Buffer{}
	png.Encode(pngData, testImage(16, 16))
	if err := e.Upload(ctx, "new.png", pngData); err != nil {
		t.Fatal(err)
	}
	if phase := e.State().Selection.Phase; phase != specmask.Idle {
		t.Errorf("phase after upload %s", phase)
	}
}

func TestPhaseListener(t *testing.T) {
	ctx := context.Background()
	e, _ := setup(t, 64, 64)

	var got []string
	e.OnPhaseChange(func(from, to specmask.Phase) {
		got = append(got, from.String()+">"+to.String())
	})
	drag(t, e, 10, 10, 100, 100)
	if err := e.Apply(ctx); err != nil {
		t.Fatal(err)
	}

	want := []string{"idle>dragging", "dragging>committed", "committed>idle"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPreviewWhileDragging(t *testing.T) {
	e, _ := setup(t, 256, 256)
	canvas := e.Canvas()
	base := canvas.RGBAAt(50, 50)

	e.PointerDown(specmask.DisplayPoint{X: 20, Y: 20}, screen)
	e.PointerMove(specmask.DisplayPoint{X: 80, Y: 80}, screen)
	if got := canvas.RGBAAt(50, 50); got == base {
		t.Error("preview not drawn during drag")
	}
	if got := canvas.RGBAAt(150, 150); got != base {
		t.Errorf("pixel outside the shape changed to %v", got)
	}

	// changing the shape redraws the preview
	e.SetThickness(4)
	e.SetShape(specmask.HollowRect)
	if got := canvas.RGBAAt(50, 50); got != base {
		t.Errorf("inside of hollow rect is %v", got)
	}
	s, ok := e.CurrentShape()
	if !ok || s.Kind != specmask.HollowRect || s.ThicknessX != 4 {
		t.Errorf("current shape %+v", s)
	}
}

func TestApplyMasksSpectrum(t *testing.T) {
	ctx := context.Background()
	e, backend := setup(t, 256, 256)
	drag(t, e, 40, 40, 80, 80)
	if err := e.Apply(ctx); err != nil {
		t.Fatal(err)
	}

	canvas := e.Canvas()
	if got := canvas.RGBAAt(60, 60); got != (color.RGBA{A: 255}) {
		t.Errorf("masked pixel %v", got)
	}
	if got := canvas.RGBAAt(100, 100); got.R == 0 {
		t.Errorf("unmasked pixel %v", got)
	}

	if err := e.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if got := e.Canvas().RGBAAt(60, 60); got.R == 0 {
		t.Errorf("pixel still masked after reset: %v", got)
	}
	if n := backend.Calls(memory.OpReset); n != 1 {
		t.Errorf("%d reset calls", n)
	}
}

func TestTransportErrorsPreserveState(t *testing.T) {
	ctx := context.Background()
	e, backend := setup(t, 64, 64)
	drag(t, e, 10, 10, 100, 100)
	before := e.State()

	backend.FailNext(memory.OpReset, errors.New("timeout"))
	if err := e.Reset(ctx); err == nil {
		t.Error("reset error lost")
	}
	backend.FailNext(memory.OpImages, errors.New("timeout"))
	if err := e.Refresh(ctx); err == nil {
		t.Error("refresh error lost")
	}

	after := e.State()
	if after.Session != before.Session || after.Selection != before.Selection {
		t.Errorf("state changed: %+v -> %+v", before, after)
	}
}

func TestLoadSessionError(t *testing.T) {
	backend := memory.New(nil)
	res := backend.AddImage("a.png", testImage(8, 8))
	e := specmask.New(backend)

	backend.FailNext(memory.OpFetch, errors.New("404"))
	if err := e.LoadSession(context.Background(), res.ID, res.ImageURLs); err == nil {
		t.Fatal("error lost")
	}
	if e.State().Session != nil {
		t.Error("session installed without image")
	}
}

func TestSetThicknessClamp(t *testing.T) {
	e, _ := setup(t, 16, 16, specmask.WithThickness(7))
	if th := e.State().Thickness; th != 7 {
		t.Errorf("initial thickness %d", th)
	}
	e.SetThickness(0)
	if th := e.State().Thickness; th != 1 {
		t.Errorf("thickness %d", th)
	}
}
