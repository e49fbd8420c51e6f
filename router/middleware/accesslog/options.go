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

package accesslog

import (
	"log/slog"
	"time"
)

// Option defines functional options for access log middleware.
type Option func(*config)

type config struct {
	logger          *slog.Logger
	excludePaths    map[string]bool
	excludePrefixes []string
	sampleRate      float64
	logErrorsOnly   bool
	slowThreshold   time.Duration
}

func defaultConfig() *config {
	return &config{
		excludePaths: make(map[string]bool),
		sampleRate:   1.0,
	}
}

// WithLogger sets the logger receiving access lines. Without a logger the
// middleware logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithExcludePaths skips logging for exact path matches.
//
// Example:
//
//	accesslog.New(accesslog.WithExcludePaths("/health", "/metrics"))
func WithExcludePaths(paths ...string) Option {
	return func(cfg *config) {
		for _, p := range paths {
			cfg.excludePaths[p] = true
		}
	}
}

// WithExcludePrefixes skips logging for paths starting with any prefix.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(cfg *config) {
		cfg.excludePrefixes = append(cfg.excludePrefixes, prefixes...)
	}
}

// WithSampleRate logs only a fraction of successful requests. Sampling is
// deterministic per request id. Errors and slow requests are always logged.
func WithSampleRate(rate float64) Option {
	return func(cfg *config) {
		cfg.sampleRate = max(0, min(rate, 1))
	}
}

// WithErrorsOnly logs only requests answered with a status of 400 or more,
// plus slow requests.
func WithErrorsOnly() Option {
	return func(cfg *config) {
		cfg.logErrorsOnly = true
	}
}

// WithSlowThreshold always logs requests slower than threshold, at warn
// level with slow=true.
func WithSlowThreshold(threshold time.Duration) Option {
	return func(cfg *config) {
		cfg.slowThreshold = threshold
	}
}
