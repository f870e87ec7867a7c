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

// Package memory implements an in-process mask editor backend.
//
// No spectral transform is computed: the grayscale version of the uploaded
// image stands in for its spectrum, and masks are applied to it directly.
// The backend records all requests and can be told to fail, which makes it
// useful for tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"seehuhn.de/go/specmask"
)

// Op names a backend operation.
type Op string

// These are the operations of the backend.
const (
	OpUpload Op = "upload"
	OpReset  Op = "reset_mask"
	OpApply  Op = "apply_shape"
	OpImages Op = "get_images"
	OpFetch  Op = "image"
)

// Names of the image renditions.
const (
	KindOriginal = "original"
	KindSpectrum = "fft"
	KindInverse  = "ifft"
)

// ErrUnknownImage is returned for ids which were never uploaded.
var ErrUnknownImage = errors.New("unknown image id")

// Backend keeps uploaded images and their masks in memory.
// It is safe for concurrent use.
type Backend struct {
	logger *slog.Logger

	mu       sync.Mutex
	images   map[string]*entry
	calls    map[Op]int
	failures map[Op]error
	hooks    map[Op]func()
	applied  []specmask.ApplyRequest
}

type entry struct {
	name     string
	original *image.NRGBA
	spectrum *image.NRGBA
	mask     *image.Alpha
	version  int
}

var _ specmask.Backend = (*Backend)(nil)

// New returns an empty backend.  If logger is nil, nothing is logged.
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = specmask.NopLogger()
	}
	return &Backend{
		logger:   logger,
		images:   make(map[string]*entry),
		calls:    make(map[Op]int),
		failures: make(map[Op]error),
		hooks:    make(map[Op]func()),
	}
}

// FailNext makes the next call of op return err.
func (b *Backend) FailNext(op Op, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[op] = err
}

// SetHook registers fn to be called at the start of every call of op,
// before the operation takes effect.  Pass nil to remove the hook.
func (b *Backend) SetHook(op Op, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if fn == nil {
		delete(b.hooks, op)
		return
	}
	b.hooks[op] = fn
}

// Calls returns how often op was called, including failed calls.
func (b *Backend) Calls(op Op) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// Applied returns all successfully applied requests, oldest first.
func (b *Backend) Applied() []specmask.ApplyRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]specmask.ApplyRequest(nil), b.applied...)
}

// Mask returns a copy of the current keep-mask of an image.
func (b *Backend) Mask(id string) (*image.Alpha, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.images[id]
	if !ok {
		return nil, false
	}
	m := image.NewAlpha(e.mask.Rect)
	copy(m.Pix, e.mask.Pix)
	return m, true
}

// AddImage stores img as if it had been uploaded and returns its id.
func (b *Backend) AddImage(name string, img image.Image) specmask.UploadResult {
	original := imaging.Clone(img)
	bounds := original.Bounds()
	mask := image.NewAlpha(bounds)
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}

	id := uuid.NewString()
	b.mu.Lock()
	b.images[id] = &entry{
		name:     name,
		original: original,
		spectrum: imaging.Grayscale(original),
		mask:     mask,
	}
	b.mu.Unlock()

	b.logger.Info("image stored", "id", id, "name", name,
		"width", bounds.Dx(), "height", bounds.Dy())
	return specmask.UploadResult{ID: id, ImageURLs: memURLs(id, 0)}
}

// Upload implements specmask.Backend.
func (b *Backend) Upload(ctx context.Context, name string, r io.Reader) (specmask.UploadResult, error) {
	if err := b.begin(OpUpload); err != nil {
		return specmask.UploadResult{}, err
	}
	img, err := imaging.Decode(r)
	if err != nil {
		return specmask.UploadResult{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return b.AddImage(name, img), nil
}

// ResetMask implements specmask.Backend.
func (b *Backend) ResetMask(ctx context.Context, req specmask.ResetRequest) error {
	if err := b.begin(OpReset); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.images[req.ID]
	if !ok {
		return fmt.Errorf("%s: %w", req.ID, ErrUnknownImage)
	}
	for i := range e.mask.Pix {
		e.mask.Pix[i] = 255
	}
	e.version++
	return nil
}

// ApplyShape implements specmask.Backend.
func (b *Backend) ApplyShape(ctx context.Context, req specmask.ApplyRequest) error {
	if err := b.begin(OpApply); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.images[req.ID]
	if !ok {
		return fmt.Errorf("%s: %w", req.ID, ErrUnknownImage)
	}
	size := e.mask.Rect.Size()
	specmask.IntersectMasks(e.mask, specmask.MaskFromRequest(req, size.X, size.Y))
	e.version++
	b.applied = append(b.applied, req)

	b.logger.Debug("shape applied", "id", req.ID, "shape", req.Shape.String(),
		"thickness", req.Thickness)
	return nil
}

// Images implements specmask.Backend.
func (b *Backend) Images(ctx context.Context, id string) (specmask.ImageURLs, error) {
	if err := b.begin(OpImages); err != nil {
		return specmask.ImageURLs{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.images[id]
	if !ok {
		return specmask.ImageURLs{}, fmt.Errorf("%s: %w", id, ErrUnknownImage)
	}
	return memURLs(id, e.version), nil
}

// FetchImage implements specmask.Backend.  The URL must have been returned
// by Upload or Images.
func (b *Backend) FetchImage(ctx context.Context, rawURL string) (image.Image, error) {
	if err := b.begin(OpFetch); err != nil {
		return nil, err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "mem" {
		return nil, fmt.Errorf("unsupported URL %q", rawURL)
	}
	return b.Render(u.Host, strings.TrimPrefix(u.Path, "/"))
}

// Render returns one rendition of an image, with the current mask applied
// to the spectrum and inverse renditions.
func (b *Backend) Render(id, kind string) (image.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.images[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrUnknownImage)
	}
	switch kind {
	case KindOriginal:
		return imaging.Clone(e.original), nil
	case KindSpectrum:
		return applyMask(e.spectrum, e.mask), nil
	case KindInverse:
		return applyMask(e.original, e.mask), nil
	default:
		return nil, fmt.Errorf("image type %q: %w", kind, ErrUnknownImage)
	}
}

// begin counts a call, runs the hook and returns an injected failure.
func (b *Backend) begin(op Op) error {
	b.mu.Lock()
	b.calls[op]++
	hook := b.hooks[op]
	err, fail := b.failures[op]
	delete(b.failures, op)
	b.mu.Unlock()

	if hook != nil {
		hook()
	}
	if fail {
		b.logger.Debug("injected failure", "op", string(op), "error", err)
		return err
	}
	return nil
}

// applyMask scales the colour of every pixel by the mask value.
func applyMask(src *image.NRGBA, mask *image.Alpha) *image.NRGBA {
	dst := imaging.Clone(src)
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := uint16(mask.AlphaAt(x, y).A)
			if a == 255 {
				continue
			}
			c := dst.NRGBAAt(x, y)
			dst.SetNRGBA(x, y, color.NRGBA{
				R: uint8(uint16(c.R) * a / 255),
				G: uint8(uint16(c.G) * a / 255),
				B: uint8(uint16(c.B) * a / 255),
				A: c.A,
			})
		}
	}
	return dst
}

func memURLs(id string, version int) specmask.ImageURLs {
	u := func(kind string) string {
		return fmt.Sprintf("mem://%s/%s?v=%d", id, kind, version)
	}
	return specmask.ImageURLs{
		Original: u(KindOriginal),
		Spectrum: u(KindSpectrum),
		Inverse:  u(KindInverse),
	}
}
