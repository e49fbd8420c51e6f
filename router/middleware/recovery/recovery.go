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

// Package recovery provides middleware that recovers from panics in
// handlers, logs them and answers 500 with an RFC 9457 problem body.
package recovery

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/fastroute/problem"
	"rivaas.dev/fastroute/router/middleware"
)

// Option defines functional options for recovery middleware configuration.
type Option func(*config)

type config struct {
	stackTrace bool
	stackSize  int
	logger     *slog.Logger
	problems   *problem.Formatter
	handler    func(w http.ResponseWriter, req *http.Request, err any)
}

func defaultConfig() *config {
	return &config{
		stackTrace: true,
		stackSize:  4 << 10,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		problems:   problem.New(""),
	}
}

// WithStackTrace enables or disables logging the stack of the panicking
// goroutine. Default: true
func WithStackTrace(enabled bool) Option {
	return func(cfg *config) {
		cfg.stackTrace = enabled
	}
}

// WithStackSize limits the logged stack to size bytes. Default: 4KB
func WithStackSize(size int) Option {
	return func(cfg *config) {
		cfg.stackSize = size
	}
}

// WithLogger sets the logger that receives panic reports.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithProblemFormatter sets the formatter of the default 500 response.
func WithProblemFormatter(f *problem.Formatter) Option {
	return func(cfg *config) {
		if f != nil {
			cfg.problems = f
		}
	}
}

// WithHandler replaces the default 500 response.
func WithHandler(handler func(w http.ResponseWriter, req *http.Request, err any)) Option {
	return func(cfg *config) {
		cfg.handler = handler
	}
}

// New returns middleware that recovers from panics.
//
// Register it under a name and list it after the middleware that should
// observe its response:
//
//	r.Use("recovery", recovery.New(recovery.WithLogger(logger)))
//	r.Group("/", declare, route.WithMiddleware("accesslog", "recovery"))
//
// http.ErrAbortHandler is re-panicked so net/http can abort the response.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				cfg.report(req, rec)
				if cfg.handler != nil {
					cfg.handler(w, req, rec)
					return
				}
				cfg.problems.Write(w, req, problem.Internal())
			}()
			next.ServeHTTP(w, req)
		})
	}
}

func (cfg *config) report(req *http.Request, rec any) {
	if span := trace.SpanFromContext(req.Context()); span.IsRecording() {
		span.SetStatus(codes.Error, "panic recovered")
		span.SetAttributes(
			attribute.Bool("exception.escaped", true),
			attribute.String("exception.type", fmt.Sprintf("%T", rec)),
			attribute.String("exception.message", fmt.Sprint(rec)),
		)
		if err, ok := rec.(error); ok {
			span.RecordError(err)
		}
	}

	attrs := []any{
		slog.Any("panic", rec),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	}
	if id := middleware.RequestID(req.Context()); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if cfg.stackTrace {
		stack := debug.Stack()
		if cfg.stackSize > 0 && len(stack) > cfg.stackSize {
			stack = stack[:cfg.stackSize]
		}
		attrs = append(attrs, slog.String("stack", string(stack)))
	}
	cfg.logger.ErrorContext(req.Context(), "panic recovered", attrs...)
}
