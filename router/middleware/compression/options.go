// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compression

import (
	"compress/gzip"
	"log/slog"
)

// Option defines functional options for compression middleware configuration.
type Option func(*config)

type config struct {
	logger              *slog.Logger
	gzipLevel           int
	brotliLevel         int
	minSize             int
	enableGzip          bool
	enableBrotli        bool
	excludeContentTypes []string
}

func defaultConfig() *config {
	return &config{
		gzipLevel:    gzip.DefaultCompression,
		brotliLevel:  4,
		minSize:      256,
		enableGzip:   true,
		enableBrotli: true,
	}
}

// WithGzipLevel sets the gzip level (gzip.HuffmanOnly to gzip.BestCompression).
func WithGzipLevel(level int) Option {
	return func(c *config) {
		if level >= gzip.HuffmanOnly && level <= gzip.BestCompression {
			c.gzipLevel = level
		}
	}
}

// WithBrotliLevel sets the Brotli quality (0 to 11). Levels above 5 are
// expensive for dynamic content.
func WithBrotliLevel(level int) Option {
	return func(c *config) {
		if level >= 0 && level <= 11 {
			c.brotliLevel = level
		}
	}
}

// WithMinSize sets the body size below which responses are sent
// uncompressed. Default: 256 bytes. Zero compresses everything.
func WithMinSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minSize = n
		}
	}
}

// WithGzipDisabled disables gzip.
func WithGzipDisabled() Option {
	return func(c *config) {
		c.enableGzip = false
	}
}

// WithBrotliDisabled disables Brotli.
func WithBrotliDisabled() Option {
	return func(c *config) {
		c.enableBrotli = false
	}
}

// WithExcludeContentTypes skips responses whose Content-Type contains any
// of types.
func WithExcludeContentTypes(types ...string) Option {
	return func(c *config) {
		c.excludeContentTypes = append(c.excludeContentTypes, types...)
	}
}

// WithLogger sets the logger for compressor errors.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
