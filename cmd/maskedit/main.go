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

// Command maskedit drives the mask editor without a GUI.
//
// It uploads an image, replays a single drag gesture given in display
// coordinates, writes the preview and the shape overlay, and optionally
// applies the shape:
//
//	maskedit -image photo.png -shape ring -from 40,40 -to 200,180 -out preview.png -apply
//
// With -serve, maskedit instead runs the in-process backend as an HTTP
// server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/specmask"
	"seehuhn.de/go/specmask/backend/httpapi"
	"seehuhn.de/go/specmask/backend/memory"
	"seehuhn.de/go/specmask/config"
)

type options struct {
	configPath  string
	writeConfig bool
	serve       string

	imagePath string
	from, to  pointFlag
	apply     bool
	reset     bool
	out       string
	svg       string
}

func main() {
	var opt options
	cfgFlags := config.DefaultConfig()
	var shapeName string

	flag.StringVar(&opt.configPath, "config", "maskedit.json", "configuration file")
	flag.BoolVar(&opt.writeConfig, "write-config", false, "store the effective configuration and exit")
	flag.StringVar(&opt.serve, "serve", "", "run the in-process backend as an HTTP server on this address")
	flag.StringVar(&opt.imagePath, "image", "", "image to upload")
	flag.Var(&opt.from, "from", "start of the drag, as x,y in display pixels")
	flag.Var(&opt.to, "to", "end of the drag, as x,y in display pixels")
	flag.BoolVar(&opt.apply, "apply", false, "apply the shape to the mask")
	flag.BoolVar(&opt.reset, "reset", false, "clear the mask before drawing")
	flag.StringVar(&opt.out, "out", "", "write the canvas, scaled to the display size, to this image file")
	flag.StringVar(&opt.svg, "svg", "", "write the shape overlay to this SVG file")

	flag.BoolVar(&cfgFlags.Debug, "debug", false, "enable debug logging")
	flag.StringVar(&cfgFlags.Server, "server", "", "base URL of the mask server (default: in-process backend)")
	flag.StringVar(&shapeName, "shape", "", "shape: "+shapeNames())
	flag.IntVar(&cfgFlags.Thickness, "thickness", 0, "line thickness in canvas pixels")
	flag.IntVar(&cfgFlags.DisplayWidth, "width", 0, "display width in pixels (default: image width)")
	flag.IntVar(&cfgFlags.DisplayHeight, "height", 0, "display height in pixels (default: image height)")
	flag.Parse()

	cfg, err := config.Load(opt.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "maskedit: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug":
			cfg.Debug = cfgFlags.Debug
		case "server":
			cfg.Server = cfgFlags.Server
		case "thickness":
			cfg.Thickness = cfgFlags.Thickness
		case "width":
			cfg.DisplayWidth = cfgFlags.DisplayWidth
		case "height":
			cfg.DisplayHeight = cfgFlags.DisplayHeight
		}
	})
	if shapeName != "" {
		cfg.Shape, err = specmask.ParseShapeKind(shapeName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "maskedit: %v\n", err)
			os.Exit(2)
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "maskedit: %v\n", err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(os.Stderr, level)

	if opt.writeConfig {
		if err := cfg.Save(opt.configPath); err != nil {
			logger.Error("saving configuration failed", "path", opt.configPath, "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if opt.serve != "" {
		err = serve(ctx, opt.serve, logger)
	} else {
		err = run(ctx, cfg, &opt, logger)
	}
	if err != nil {
		logger.Error("maskedit failed", "error", err)
		os.Exit(1)
	}
}

func newBackend(cfg *config.Config, logger *slog.Logger) (specmask.Backend, error) {
	if cfg.Server == "" {
		return memory.New(logger.With("backend", "memory")), nil
	}
	return httpapi.New(cfg.Server,
		httpapi.WithLogger(logger.With("backend", cfg.Server)),
		httpapi.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		httpapi.WithCacheSize(cfg.CacheSize))
}

func run(ctx context.Context, cfg *config.Config, opt *options, logger *slog.Logger) error {
	if opt.imagePath == "" {
		return errors.New("no image given (use -image)")
	}
	backend, err := newBackend(cfg, logger)
	if err != nil {
		return err
	}
	e := specmask.New(backend,
		specmask.WithLogger(logger),
		specmask.WithShape(cfg.Shape),
		specmask.WithThickness(cfg.Thickness))
	e.OnPhaseChange(func(from, to specmask.Phase) {
		logger.Debug("phase changed", "from", from.String(), "to", to.String())
	})

	f, err := os.Open(opt.imagePath)
	if err != nil {
		return err
	}
	err = e.Upload(ctx, filepath.Base(opt.imagePath), f)
	f.Close()
	if err != nil {
		return err
	}
	session := e.State().Session

	if opt.reset {
		if err := e.Reset(ctx); err != nil {
			return err
		}
	}

	display := image.Pt(cfg.DisplayWidth, cfg.DisplayHeight)
	if display.X == 0 {
		display.X = session.Width
	}
	if display.Y == 0 {
		display.Y = session.Height
	}
	bounds := rect.Rect{URx: float64(display.X), URy: float64(display.Y)}

	if opt.from.set && opt.to.set {
		if err := e.PointerDown(opt.from.p, bounds); err != nil {
			return err
		}
		e.PointerMove(opt.to.p, bounds)
		e.PointerUp(opt.to.p, bounds)
	}

	if opt.svg != "" {
		if err := writeOverlay(e, opt.svg, session); err != nil {
			return err
		}
	}

	if req, err := e.PendingRequest(); err == nil {
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(req); err != nil {
			return err
		}
	}

	if opt.apply {
		if err := e.Apply(ctx); err != nil {
			return err
		}
	}

	if opt.out != "" {
		img := specmask.ScaleToDisplay(e.Canvas(), display)
		if err := imaging.Save(img, opt.out); err != nil {
			return err
		}
		logger.Info("canvas written", "path", opt.out, "width", display.X, "height", display.Y)
	}
	return nil
}

func writeOverlay(e *specmask.Editor, path string, session *specmask.Session) error {
	s, ok := e.CurrentShape()
	if !ok {
		return errors.New("no shape to export (use -from and -to)")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := specmask.WriteSVG(f, s, session.Width, session.Height); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func serve(ctx context.Context, addr string, logger *slog.Logger) error {
	b := memory.New(logger)
	srv := &http.Server{Addr: addr, Handler: b.Handler()}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	logger.Info("serving", "addr", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func shapeNames() string {
	var names []string
	for _, k := range specmask.ShapeKinds {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

// pointFlag is a display point given as "x,y".
type pointFlag struct {
	p   specmask.DisplayPoint
	set bool
}

func (f *pointFlag) String() string {
	if !f.set {
		return ""
	}
	return strconv.FormatFloat(f.p.X, 'g', -1, 64) + "," + strconv.FormatFloat(f.p.Y, 'g', -1, 64)
}

func (f *pointFlag) Set(s string) error {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return fmt.Errorf("%q: expected x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return err
	}
	f.p = specmask.DisplayPoint{X: x, Y: y}
	f.set = true
	return nil
}
