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

package timeout

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"rivaas.dev/fastroute/problem"
)

// Option defines functional options for timeout middleware configuration.
type Option func(*config)

type config struct {
	duration     time.Duration
	logger       *slog.Logger
	handler      func(w http.ResponseWriter, req *http.Request, after time.Duration)
	skipPaths    map[string]bool
	skipPrefixes []string
	skipFunc     func(req *http.Request) bool
}

func defaultConfig() *config {
	problems := problem.New("")
	return &config{
		duration: 30 * time.Second,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		handler: func(w http.ResponseWriter, req *http.Request, after time.Duration) {
			problems.Write(w, req, problem.Timeout(after))
		},
		skipPaths: make(map[string]bool),
	}
}

// WithDuration sets the deadline. Non-positive values are ignored.
// Default: 30s
func WithDuration(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.duration = d
		}
	}
}

// WithLogger sets the logger that receives timeout warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithHandler replaces the default 408 problem response.
func WithHandler(handler func(w http.ResponseWriter, req *http.Request, after time.Duration)) Option {
	return func(cfg *config) {
		if handler != nil {
			cfg.handler = handler
		}
	}
}

// WithSkipPaths disables the deadline for exact request paths.
func WithSkipPaths(paths ...string) Option {
	return func(cfg *config) {
		for _, p := range paths {
			cfg.skipPaths[p] = true
		}
	}
}

// WithSkipPrefix disables the deadline for paths starting with any prefix.
func WithSkipPrefix(prefixes ...string) Option {
	return func(cfg *config) {
		cfg.skipPrefixes = append(cfg.skipPrefixes, prefixes...)
	}
}

// WithSkip disables the deadline for requests fn reports true for.
func WithSkip(fn func(req *http.Request) bool) Option {
	return func(cfg *config) {
		cfg.skipFunc = fn
	}
}
