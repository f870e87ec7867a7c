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

// Package config holds the settings of the mask editor command.
package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"seehuhn.de/go/specmask"
	"seehuhn.de/go/specmask/backend/httpapi"
)

// Config holds runtime configuration.  Fields may be loaded from a JSON
// file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Server is the base URL of the mask editor server.  If empty, the
	// in-process backend is used.
	Server         string `json:"server"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	CacheSize      int    `json:"cache_size"`

	// Initial editor settings
	Shape     specmask.ShapeKind `json:"shape"`
	Thickness int                `json:"thickness"`

	// Size of the on-screen canvas, in display pixels.  Zero means the
	// native image size.
	DisplayWidth  int `json:"display_width"`
	DisplayHeight int `json:"display_height"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		TimeoutSeconds: 30,
		CacheSize:      httpapi.DefaultCacheSize,
		Shape:          specmask.FilledRect,
		Thickness:      specmask.DefaultThickness,
	}
}

// Validate clamps values to safe ranges.
func (c *Config) Validate() error {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.CacheSize <= 0 {
		c.CacheSize = httpapi.DefaultCacheSize
	}
	if c.Thickness < 1 {
		c.Thickness = 1
	}
	if c.DisplayWidth < 0 {
		c.DisplayWidth = 0
	}
	if c.DisplayHeight < 0 {
		c.DisplayHeight = 0
	}
	if c.Server != "" {
		if _, err := httpapi.New(c.Server); err != nil {
			return err
		}
	}
	return nil
}

// Timeout returns the timeout for a single backend request.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads configuration from the given JSON file.  If the file does not
// exist, DefaultConfig() is returned.  On errors the defaults are returned
// together with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
