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

package bodylimit

import (
	"net/http"

	"rivaas.dev/fastroute/problem"
)

// Option defines functional options for bodylimit middleware configuration.
type Option func(*config)

type config struct {
	limit        int64
	errorHandler func(w http.ResponseWriter, req *http.Request, limit int64)
	skipPaths    map[string]bool
}

func defaultConfig() *config {
	problems := problem.New("")
	return &config{
		limit: 2 * 1024 * 1024,
		errorHandler: func(w http.ResponseWriter, req *http.Request, limit int64) {
			problems.Write(w, req, problem.TooLarge(limit))
		},
		skipPaths: make(map[string]bool),
	}
}

// WithLimit sets the maximum body size in bytes. Non-positive values are ignored.
func WithLimit(limit int64) Option {
	return func(cfg *config) {
		if limit > 0 {
			cfg.limit = limit
		}
	}
}

// WithErrorHandler replaces the default 413 problem response sent when
// Content-Length exceeds the limit.
func WithErrorHandler(handler func(w http.ResponseWriter, req *http.Request, limit int64)) Option {
	return func(cfg *config) {
		if handler != nil {
			cfg.errorHandler = handler
		}
	}
}

// WithSkipPaths disables the limit for exact request paths.
func WithSkipPaths(paths ...string) Option {
	return func(cfg *config) {
		for _, p := range paths {
			cfg.skipPaths[p] = true
		}
	}
}
