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

package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/fastroute/router/route"
)

// Option defines functional options for router configuration.
type Option func(*Router)

// Middleware wraps a handler. Middleware are registered by name with
// Router.Use and referenced by name from route declarations.
type Middleware func(http.Handler) http.Handler

// ActionResolver turns a controller action into a handler. It is called
// once per route when the table is compiled.
type ActionResolver func(route.Action) (http.Handler, error)

// ReloadOption configures a single Router.Reload.
type ReloadOption func(*reloadConfig)

type reloadConfig struct {
	rootPath string
}

// ReloadRootPath replaces the root path together with the routes. An empty
// prefix stops stripping.
func ReloadRootPath(prefix string) ReloadOption {
	return func(c *reloadConfig) {
		c.rootPath = prefix
	}
}

// serverTimeouts holds the http.Server timeouts used by Serve.
type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

func defaultServerTimeouts() serverTimeouts {
	return serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}

// WithRootPath strips prefix from every request path before matching.
// It is typically the path an application is mounted under.
//
// Example:
//
//	r := router.MustNew(router.WithRootPath("/app"))
//	r.Get("/users", list) // serves /app/users
func WithRootPath(prefix string) Option {
	return func(r *Router) {
		r.rootPath = prefix
	}
}

// WithChunkSize sets the approximate number of variable routes combined
// into one regular expression. Default: 10.
func WithChunkSize(n int) Option {
	return func(r *Router) {
		r.chunkSize = n
	}
}

// WithStrictShadowing rejects a variable route that would match a static
// route registered before it, in addition to the default check of static
// routes against earlier variable routes.
func WithStrictShadowing(enabled bool) Option {
	return func(r *Router) {
		r.strictShadowing = enabled
	}
}

// WithLogger sets the logger used for compile-time messages and handler
// failures. Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDiagnostics sets a diagnostic handler for the router.
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider used for dispatch
// metrics. Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *Router) {
		r.meterProvider = mp
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider used for
// request spans. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Router) {
		r.tracerProvider = tp
	}
}

// WithPropagator sets the propagator used to extract the caller's trace
// context from request headers. Defaults to the global propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(r *Router) {
		r.propagator = p
	}
}

// WithActionResolver sets the resolver for route.Action targets.
//
// Example:
//
//	r := router.MustNew(router.WithActionResolver(func(a route.Action) (http.Handler, error) {
//	    return controllers.Lookup(a.Controller, a.Method)
//	}))
func WithActionResolver(resolver ActionResolver) Option {
	return func(r *Router) {
		r.resolver = resolver
	}
}

// WithNotFoundHandler replaces the default 404 problem response.
func WithNotFoundHandler(h http.Handler) Option {
	return func(r *Router) {
		r.notFound = h
	}
}

// WithProblemBaseURL sets the base URL of problem type URIs in 404 and 405
// responses.
func WithProblemBaseURL(baseURL string) Option {
	return func(r *Router) {
		r.problems.BaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithH2C enables HTTP/2 cleartext in Serve.
//
// Only use in development or behind a trusted load balancer.
func WithH2C(enable bool) Option {
	return func(r *Router) {
		r.enableH2C = enable
	}
}

// WithServerTimeouts configures the http.Server timeouts used by Serve.
//
// Defaults:
//
//	ReadHeaderTimeout: 5s
//	ReadTimeout:       15s
//	WriteTimeout:      30s
//	IdleTimeout:       60s
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(r *Router) {
		r.timeouts = serverTimeouts{readHeader: readHeader, read: read, write: write, idle: idle}
	}
}

func (r *Router) validate() error {
	if r.chunkSize < 1 {
		return fmt.Errorf("%w: %d", ErrChunkSizeInvalid, r.chunkSize)
	}
	if r.rootPath != "" && !strings.HasPrefix(r.rootPath, "/") {
		return fmt.Errorf("%w: %q", ErrRootPathInvalid, r.rootPath)
	}
	t := r.timeouts
	if t.readHeader <= 0 || t.read <= 0 || t.write <= 0 || t.idle <= 0 {
		return ErrServerTimeoutInvalid
	}
	return nil
}
