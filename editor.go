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
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// DefaultThickness is the initial thickness setting, in canvas pixels.
const DefaultThickness = 5

// ImageURLs are the locations of the three renditions of an image.
type ImageURLs struct {
	Original string `json:"original"`
	Spectrum string `json:"fft"`
	Inverse  string `json:"ifft"`
}

// UploadResult is the backend response to an upload.
type UploadResult struct {
	ID string `json:"id"`
	ImageURLs
}

// Backend performs the spectral processing for the editor.
type Backend interface {
	Upload(ctx context.Context, name string, r io.Reader) (UploadResult, error)
	ResetMask(ctx context.Context, req ResetRequest) error
	ApplyShape(ctx context.Context, req ApplyRequest) error

	// Images returns fresh URLs for the renditions of image id.  The URLs
	// change whenever the mask changes.
	Images(ctx context.Context, id string) (ImageURLs, error)

	FetchImage(ctx context.Context, url string) (image.Image, error)
}

// Session is a loaded image.  Sessions are never modified; loading new
// images replaces the session as a whole.
type Session struct {
	ID       string
	URLs     ImageURLs
	Spectrum image.Image
	Width    int
	Height   int
}

// EditorState is the complete user visible state of an Editor.
type EditorState struct {
	Session   *Session // nil if no image is loaded
	Selection Selection
	Thickness int // in canvas pixels
	Shape     ShapeKind
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger.  By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithThickness sets the initial thickness.
func WithThickness(t int) Option {
	return func(e *Editor) { e.state.Thickness = max(t, 1) }
}

// WithShape sets the initial shape kind.
func WithShape(k ShapeKind) Option {
	return func(e *Editor) { e.state.Shape = k }
}

// WithPreview replaces the default preview renderer.
func WithPreview(p *Preview) Option {
	return func(e *Editor) { e.preview = p }
}

// Editor is the controller of the mask editor.  It owns the editor state,
// maps pointer events into the canvas, draws the preview and talks to the
// backend.
//
// Requests to the backend are tagged with the id of the session they were
// made for.  If the session was replaced by the time the response arrives,
// the response is discarded and ErrStaleSession is returned.
type Editor struct {
	backend Backend
	logger  *slog.Logger
	preview *Preview

	mu        sync.Mutex
	state     EditorState
	mapper    *Mapper
	canvas    *image.RGBA
	listeners []func(from, to Phase)
	pending   []phaseChange
}

type phaseChange struct {
	from, to Phase
}

// New returns an editor without a loaded image.
func New(b Backend, opts ...Option) *Editor {
	e := &Editor{
		backend: b,
		logger:  NopLogger(),
		state: EditorState{
			Thickness: DefaultThickness,
			Shape:     FilledRect,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.preview == nil {
		e.preview = NewPreview()
	}
	return e
}

// OnPhaseChange registers a function which is called after every change of
// the selection phase.  Listeners are called without internal locks held.
func (e *Editor) OnPhaseChange(fn func(from, to Phase)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// State returns a copy of the current state.
func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Canvas returns the canvas buffer, or nil if no image is loaded.  The
// buffer is redrawn in place by later calls.
func (e *Editor) Canvas() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas
}

// CurrentShape returns the shape shown in the preview, in canvas pixels.
func (e *Editor) CurrentShape() (Shape, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentShape()
}

// PendingRequest returns the request which Apply would send.
func (e *Editor) PendingRequest() (ApplyRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildApply()
}

// Upload sends an image to the backend and loads the result.
func (e *Editor) Upload(ctx context.Context, name string, r io.Reader) error {
	res, err := e.backend.Upload(ctx, name, r)
	if err != nil {
		err = fmt.Errorf("upload %s: %w", name, err)
		e.logger.Error("upload failed", "name", name, "error", err)
		return err
	}
	e.logger.Info("image uploaded", "name", name, "id", res.ID)
	return e.LoadSession(ctx, res.ID, res.ImageURLs)
}

// LoadSession fetches the spectrum image and makes it the current session.
// The call blocks until the image size is known.  Loading a different
// image clears the selection; reloading the current one keeps it.
func (e *Editor) LoadSession(ctx context.Context, id string, urls ImageURLs) error {
	return e.load(ctx, id, urls, "")
}

// Refresh reloads the images of the current session.
func (e *Editor) Refresh(ctx context.Context) error {
	id, err := e.currentID()
	if err != nil {
		return err
	}
	return e.refresh(ctx, id)
}

// PointerDown starts a new selection.  Any committed selection is
// discarded.
func (e *Editor) PointerDown(p DisplayPoint, bounds rect.Rect) error {
	e.mu.Lock()
	defer e.unlock()

	if e.state.Session == nil {
		return ErrNoSession
	}
	c, ok := e.mapper.ToCanvas(p, bounds)
	if !ok {
		return nil
	}
	e.setSelection(e.state.Selection.PointerDown(c))
	e.redraw()
	return nil
}

// PointerMove updates the selection while dragging and redraws the
// preview.  In all other phases the event is ignored.
func (e *Editor) PointerMove(p DisplayPoint, bounds rect.Rect) {
	e.mu.Lock()
	defer e.unlock()

	if e.state.Selection.Phase != Dragging {
		return
	}
	c, ok := e.mapper.ToCanvas(p, bounds)
	if !ok {
		return
	}
	e.setSelection(e.state.Selection.PointerMove(c))
	e.redraw()
}

// PointerUp finishes the drag.  The selection can then be applied.
func (e *Editor) PointerUp(p DisplayPoint, bounds rect.Rect) {
	e.mu.Lock()
	defer e.unlock()

	if e.state.Selection.Phase != Dragging {
		return
	}
	c, ok := e.mapper.ToCanvas(p, bounds)
	if !ok {
		c = e.state.Selection.Current
	}
	e.setSelection(e.state.Selection.PointerUp(c))
	e.redraw()
}

// SetThickness changes the thickness setting.  Values below 1 are raised
// to 1.
func (e *Editor) SetThickness(t int) {
	e.mu.Lock()
	defer e.unlock()

	t = max(t, 1)
	if t == e.state.Thickness {
		return
	}
	e.state.Thickness = t
	if e.state.Selection.Active() {
		e.redraw()
	}
}

// SetShape changes the shape kind.
func (e *Editor) SetShape(k ShapeKind) {
	e.mu.Lock()
	defer e.unlock()

	if k == e.state.Shape {
		return
	}
	e.state.Shape = k
	if e.state.Selection.Active() {
		e.redraw()
	}
}

// Apply sends the committed selection to the backend and reloads the
// images.  Without a session or a committed selection nothing is sent.
// If the backend fails, the selection stays committed so that the user
// can retry.
func (e *Editor) Apply(ctx context.Context) error {
	e.mu.Lock()
	sent := e.state.Selection
	req, err := e.buildApply()
	e.mu.Unlock()
	if err != nil {
		e.logger.Warn("apply rejected", "error", err)
		return err
	}

	if err := e.backend.ApplyShape(ctx, req); err != nil {
		err = fmt.Errorf("apply %s to %s: %w", req.Shape, req.ID, err)
		e.logger.Error("apply failed", "id", req.ID, "error", err)
		return err
	}

	e.mu.Lock()
	if !e.isCurrent(req.ID) {
		e.unlock()
		e.logger.Warn("discarding apply response", "id", req.ID)
		return ErrStaleSession
	}
	// A selection made while the request was in flight was not sent.
	if e.state.Selection == sent {
		e.setSelection(sent.Applied())
	}
	e.unlock()

	e.logger.Info("shape applied",
		"id", req.ID,
		"shape", req.Shape.String(),
		"thickness", req.Thickness)
	return e.refresh(ctx, req.ID)
}

// Reset clears the mask of the current image.
func (e *Editor) Reset(ctx context.Context) error {
	id, _ := e.currentID()
	req, err := BuildReset(id)
	if err != nil {
		e.logger.Warn("reset rejected", "error", err)
		return err
	}

	if err := e.backend.ResetMask(ctx, req); err != nil {
		err = fmt.Errorf("reset mask of %s: %w", id, err)
		e.logger.Error("reset failed", "id", id, "error", err)
		return err
	}

	e.mu.Lock()
	current := e.isCurrent(id)
	e.mu.Unlock()
	if !current {
		e.logger.Warn("discarding reset response", "id", id)
		return ErrStaleSession
	}
	e.logger.Info("mask reset", "id", id)
	return e.refresh(ctx, id)
}

func (e *Editor) refresh(ctx context.Context, id string) error {
	urls, err := e.backend.Images(ctx, id)
	if err != nil {
		err = fmt.Errorf("refresh images of %s: %w", id, err)
		e.logger.Error("refresh failed", "id", id, "error", err)
		return err
	}
	return e.load(ctx, id, urls, id)
}

// load installs a new session.  If expect is not empty, the session is
// only replaced if expect is still the current session id.
func (e *Editor) load(ctx context.Context, id string, urls ImageURLs, expect string) error {
	img, err := e.backend.FetchImage(ctx, urls.Spectrum)
	if err != nil {
		err = fmt.Errorf("load spectrum of %s: %w", id, err)
		e.logger.Error("image load failed", "id", id, "error", err)
		return err
	}

	size := img.Bounds().Size()
	canvas := image.NewRGBA(image.Rectangle{Max: size})
	m, err := NewMapper(canvas.Rect.Size(), size)
	if err != nil {
		err = fmt.Errorf("load spectrum of %s: %w", id, err)
		e.logger.Error("image load failed", "id", id, "error", err)
		return err
	}

	e.mu.Lock()
	defer e.unlock()

	if expect != "" && !e.isCurrent(expect) {
		e.logger.Warn("discarding images", "id", id)
		return ErrStaleSession
	}

	prev := e.state.Session
	e.state.Session = &Session{
		ID:       id,
		URLs:     urls,
		Spectrum: img,
		Width:    size.X,
		Height:   size.Y,
	}
	e.mapper = m
	e.canvas = canvas
	if prev == nil || prev.ID != id {
		e.setSelection(Selection{})
	}
	e.redraw()

	e.logger.Info("session loaded", "id", id, "width", size.X, "height", size.Y)
	return nil
}

func (e *Editor) currentID() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Session == nil {
		return "", ErrNoSession
	}
	return e.state.Session.ID, nil
}

// isCurrent must be called with e.mu held.
func (e *Editor) isCurrent(id string) bool {
	return e.state.Session != nil && e.state.Session.ID == id
}

// buildApply must be called with e.mu held.
func (e *Editor) buildApply() (ApplyRequest, error) {
	if e.state.Session == nil {
		return ApplyRequest{}, ErrNoSession
	}
	return BuildApply(e.state.Session.ID, e.mapper, e.state.Selection, e.state.Shape, e.state.Thickness)
}

// currentShape must be called with e.mu held.
func (e *Editor) currentShape() (Shape, bool) {
	sel := e.state.Selection
	sx, sy, ok := e.mapper.Scale()
	if !ok || !sel.Active() {
		return Shape{}, false
	}
	tx, ty := StrokeThickness(float64(e.state.Thickness), sx, sy)
	return Shape{
		Kind:       e.state.Shape,
		Start:      vec.Vec2{X: float64(sel.Start.X), Y: float64(sel.Start.Y)},
		End:        vec.Vec2{X: float64(sel.Current.X), Y: float64(sel.Current.Y)},
		ThicknessX: tx,
		ThicknessY: ty,
	}, true
}

// redraw must be called with e.mu held.
func (e *Editor) redraw() {
	if e.canvas == nil {
		return
	}
	base := e.state.Session.Spectrum
	if s, ok := e.currentShape(); ok {
		e.preview.Render(e.canvas, base, s)
	} else {
		e.preview.Blit(e.canvas, base)
	}
}

// setSelection must be called with e.mu held.  Phase changes are
// delivered to the listeners by unlock.
func (e *Editor) setSelection(s Selection) {
	from := e.state.Selection.Phase
	e.state.Selection = s
	if from == s.Phase {
		return
	}
	e.logger.Debug("selection transition", "from", from.String(), "to", s.Phase.String())
	e.pending = append(e.pending, phaseChange{from: from, to: s.Phase})
}

// unlock releases e.mu and then notifies the phase change listeners.
func (e *Editor) unlock() {
	pending := e.pending
	e.pending = nil
	listeners := e.listeners
	e.mu.Unlock()

	for _, c := range pending {
		for _, fn := range listeners {
			fn(c.from, c.to)
		}
	}
}
