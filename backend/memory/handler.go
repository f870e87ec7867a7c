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

package memory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/disintegration/imaging"

	"seehuhn.de/go/specmask"
)

// maxUploadSize limits the size of uploaded image files.
const maxUploadSize = 32 << 20

// Handler returns an HTTP handler which serves the backend with the
// endpoints of the mask editor server:
//
//	POST /upload              multipart form, field "file"
//	POST /reset_mask          {"id": ...}
//	POST /apply_shape         {"id": ..., "shape": ..., "x0": ..., ...}
//	GET  /get_images/{id}
//	GET  /image/{id}/{kind}   PNG
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", b.serveUpload)
	mux.HandleFunc("POST /reset_mask", b.serveReset)
	mux.HandleFunc("POST /apply_shape", b.serveApply)
	mux.HandleFunc("GET /get_images/{id}", b.serveImages)
	mux.HandleFunc("GET /image/{id}/{kind}", b.serveImage)
	return mux
}

func (b *Backend) serveUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		b.writeError(w, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	res, err := b.Upload(r.Context(), header.Filename, file)
	if err != nil {
		b.writeError(w, statusFor(err), err)
		return
	}
	b.writeJSON(w, specmask.UploadResult{ID: res.ID, ImageURLs: httpURLs(res.ID)})
}

func (b *Backend) serveReset(w http.ResponseWriter, r *http.Request) {
	var req specmask.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		b.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := b.ResetMask(r.Context(), req); err != nil {
		b.writeError(w, statusFor(err), err)
		return
	}
	b.writeJSON(w, map[string]string{"status": "ok"})
}

func (b *Backend) serveApply(w http.ResponseWriter, r *http.Request) {
	var req specmask.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		b.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := b.ApplyShape(r.Context(), req); err != nil {
		b.writeError(w, statusFor(err), err)
		return
	}
	b.writeJSON(w, map[string]string{"status": "ok"})
}

func (b *Backend) serveImages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := b.Images(r.Context(), id); err != nil {
		b.writeError(w, statusFor(err), err)
		return
	}
	b.writeJSON(w, httpURLs(id))
}

func (b *Backend) serveImage(w http.ResponseWriter, r *http.Request) {
	if err := b.begin(OpFetch); err != nil {
		b.writeError(w, statusFor(err), err)
		return
	}
	img, err := b.Render(r.PathValue("id"), r.PathValue("kind"))
	if err != nil {
		b.writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		b.logger.Error("png encoding failed", "error", err)
	}
}

func (b *Backend) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		b.logger.Error("writing response failed", "error", err)
	}
}

func (b *Backend) writeError(w http.ResponseWriter, status int, err error) {
	b.logger.Warn("request failed", "status", status, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	if errors.Is(err, ErrUnknownImage) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// httpURLs returns the image URLs relative to the server root.  Clients
// add their own cache-busting parameter.
func httpURLs(id string) specmask.ImageURLs {
	return specmask.ImageURLs{
		Original: "/image/" + id + "/" + KindOriginal,
		Spectrum: "/image/" + id + "/" + KindSpectrum,
		Inverse:  "/image/" + id + "/" + KindInverse,
	}
}
