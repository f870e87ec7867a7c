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

// Package httpapi talks to a mask editor server over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	_ "image/jpeg" // image formats served by the backend
	_ "image/png"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"

	"seehuhn.de/go/specmask"
)

// DefaultCacheSize is the number of decoded images kept by a Client.
const DefaultCacheSize = 16

// maxErrorBody limits how much of an error response is read.
const maxErrorBody = 64 << 10

// Client is a specmask.Backend using the JSON API of a mask editor server.
// It is safe for concurrent use.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
	cache  *lru.Cache[string, image.Image]

	// now is used for cache-busting image URLs.
	now func() time.Time
}

var _ specmask.Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithLogger sets the logger.  By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// WithCacheSize sets the number of decoded images kept in memory.
func WithCacheSize(n int) Option {
	return func(cl *Client) {
		if c, err := lru.New[string, image.Image](max(n, 1)); err == nil {
			cl.cache = c
		}
	}
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("server URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("server URL %q: unsupported scheme", baseURL)
	}

	c := &Client{
		base:   base,
		http:   http.DefaultClient,
		logger: specmask.NopLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache, err = lru.New[string, image.Image](DefaultCacheSize)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Upload implements specmask.Backend.  The file is sent as the multipart
// form field "file".
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (specmask.UploadResult, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return specmask.UploadResult{}, err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return specmask.UploadResult{}, err
	}
	if err := mw.Close(); err != nil {
		return specmask.UploadResult{}, err
	}
	c.logger.Debug("uploading", "name", name, "size", humanize.Bytes(uint64(body.Len())))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve("/upload"), body)
	if err != nil {
		return specmask.UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res specmask.UploadResult
	if err := c.do(req, &res); err != nil {
		return specmask.UploadResult{}, err
	}
	res.ImageURLs = c.bust(res.ImageURLs)
	return res, nil
}

// ResetMask implements specmask.Backend.
func (c *Client) ResetMask(ctx context.Context, req specmask.ResetRequest) error {
	return c.post(ctx, "/reset_mask", req)
}

// ApplyShape implements specmask.Backend.
func (c *Client) ApplyShape(ctx context.Context, req specmask.ApplyRequest) error {
	return c.post(ctx, "/apply_shape", req)
}

// Images implements specmask.Backend.  The returned URLs carry a
// cache-busting query parameter.
func (c *Client) Images(ctx context.Context, id string) (specmask.ImageURLs, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.resolve("/get_images/"+url.PathEscape(id)), nil)
	if err != nil {
		return specmask.ImageURLs{}, err
	}
	var urls specmask.ImageURLs
	if err := c.do(req, &urls); err != nil {
		return specmask.ImageURLs{}, err
	}
	return c.bust(urls), nil
}

// FetchImage implements specmask.Backend.  Decoded images are cached by
// URL.
func (c *Client) FetchImage(ctx context.Context, rawURL string) (image.Image, error) {
	u := c.resolve(rawURL)
	if img, ok := c.cache.Get(u); ok {
		return img, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	cr := &countingReader{r: resp.Body}
	img, format, err := image.Decode(cr)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", u, err)
	}
	c.cache.Add(u, img)

	b := img.Bounds()
	c.logger.Debug("image fetched",
		"url", u,
		"format", format,
		"width", b.Dx(),
		"height", b.Dy(),
		"size", humanize.Bytes(uint64(cr.n)))
	return img, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(endpoint), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

// do sends req and decodes a JSON response into v, if v is not nil.
func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if v == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%s %s: invalid response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// resolve turns a server path or URL into an absolute URL.
func (c *Client) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.base.ResolveReference(u).String()
}

// bust adds a time stamp query parameter to every URL, so that images are
// fetched again after the mask changes.
func (c *Client) bust(urls specmask.ImageURLs) specmask.ImageURLs {
	t := strconv.FormatInt(c.now().UnixNano(), 10)
	add := func(s string) string {
		u, err := url.Parse(s)
		if err != nil {
			return s
		}
		q := u.Query()
		q.Set("t", t)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return specmask.ImageURLs{
		Original: add(urls.Original),
		Spectrum: add(urls.Spectrum),
		Inverse:  add(urls.Inverse),
	}
}

// StatusError is returned for responses with a non-2xx status code.
type StatusError struct {
	Code    int
	Message string // from the "error" field of the response, if any
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(data, &body)
	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
