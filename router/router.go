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
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/fastroute/problem"
	"rivaas.dev/fastroute/router/compiler"
	"rivaas.dev/fastroute/router/dispatch"
	"rivaas.dev/fastroute/router/pattern"
	"rivaas.dev/fastroute/router/route"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Router collects route declarations, compiles them into a route table and
// serves HTTP requests from it.
//
// Registration methods are not safe for concurrent use and are expected to
// run during startup. Once compiled, the table is published atomically and
// ServeHTTP, Dispatch and Lookup may be called from any number of goroutines.
// Reload swaps in a new table without interrupting requests in flight.
//
// Example:
//
//	r := router.MustNew()
//	r.Use("requestid", requestid.New())
//	_ = r.Group("/api", func(api route.Scope) error {
//	    return api.Get("/users/{id:[0-9]+}", showUser)
//	}, route.WithMiddleware("requestid"))
//	if err := r.Compile(); err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", r)
type Router struct {
	rootPath        string
	chunkSize       int
	strictShadowing bool
	logger          *slog.Logger
	diagnostics     DiagnosticHandler
	meterProvider   metric.MeterProvider
	tracerProvider  trace.TracerProvider
	propagator      propagation.TextMapPropagator
	resolver        ActionResolver
	notFound        http.Handler
	problems        *problem.Formatter
	enableH2C       bool
	timeouts        serverTimeouts

	// registration state, replaced wholesale by Reload
	mu         sync.Mutex
	builder    *builder
	collector  *route.Collector
	middleware map[string]Middleware

	table atomic.Pointer[table]
	obs   *observability

	serverMu sync.Mutex
	server   *http.Server
	closed   bool
}

// New creates a router with the given options.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		chunkSize:  compiler.DefaultChunkSize,
		logger:     discardLogger,
		problems:   problem.New(""),
		timeouts:   defaultServerTimeouts(),
		middleware: make(map[string]Middleware),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	if r.meterProvider == nil {
		r.meterProvider = otel.GetMeterProvider()
	}
	if r.tracerProvider == nil {
		r.tracerProvider = otel.GetTracerProvider()
	}
	if r.propagator == nil {
		r.propagator = otel.GetTextMapPropagator()
	}

	obs, err := newObservability(r.meterProvider, r.tracerProvider, r.propagator)
	if err != nil {
		return nil, err
	}
	r.obs = obs
	r.builder, r.collector = r.newRegistration()
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Router) newRegistration() (*builder, *route.Collector) {
	b := &builder{
		Generator: compiler.NewGenerator(
			compiler.WithChunkSize(r.chunkSize),
			compiler.WithStrictShadowing(r.strictShadowing),
			compiler.WithLogger(r.logger),
		),
		router: r,
		refs:   make(map[*route.Handler]int),
	}
	return b, route.NewCollector(b)
}

// Use registers middleware under name. Routes refer to it with
// route.WithMiddleware(name). Registering a name again replaces it.
func (r *Router) Use(name string, mw Middleware) error {
	if mw == nil {
		return ErrNilMiddleware
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware[name] = mw
	return nil
}

// Scope returns the root registration scope.
func (r *Router) Scope() route.Scope {
	return r.collector.Scope
}

// AddRoute declares path for every method in methods.
func (r *Router) AddRoute(methods []string, path string, target any, opts ...route.Option) error {
	return r.collector.AddRoute(methods, path, target, opts...)
}

// Get declares a GET route.
func (r *Router) Get(path string, target any, opts ...route.Option) error {
	return r.collector.Get(path, target, opts...)
}

// Post declares a POST route.
func (r *Router) Post(path string, target any, opts ...route.Option) error {
	return r.collector.Post(path, target, opts...)
}

// Put declares a PUT route.
func (r *Router) Put(path string, target any, opts ...route.Option) error {
	return r.collector.Put(path, target, opts...)
}

// Delete declares a DELETE route.
func (r *Router) Delete(path string, target any, opts ...route.Option) error {
	return r.collector.Delete(path, target, opts...)
}

// Patch declares a PATCH route.
func (r *Router) Patch(path string, target any, opts ...route.Option) error {
	return r.collector.Patch(path, target, opts...)
}

// Head declares a HEAD route.
func (r *Router) Head(path string, target any, opts ...route.Option) error {
	return r.collector.Head(path, target, opts...)
}

// Options declares an OPTIONS route.
func (r *Router) Options(path string, target any, opts ...route.Option) error {
	return r.collector.Options(path, target, opts...)
}

// Any declares a route for every method without a route of its own.
func (r *Router) Any(path string, target any, opts ...route.Option) error {
	return r.collector.Any(path, target, opts...)
}

// Group declares routes sharing a path prefix and middleware.
func (r *Router) Group(prefix string, fn func(route.Scope) error, opts ...route.Option) error {
	return r.collector.Group(prefix, fn, opts...)
}

// Routes returns the declared routes in declaration order.
func (r *Router) Routes() []route.Info {
	return r.collector.Routes()
}

// Data returns the compiled route table, or nil before Compile.
func (r *Router) Data() *compiler.Data {
	if t := r.table.Load(); t != nil {
		return t.dispatcher.Data()
	}
	return nil
}

// Dispatch resolves method and uri against the compiled table. Before
// Compile every request is NotFound.
func (r *Router) Dispatch(method, uri string) dispatch.Result {
	res, _ := r.Lookup(method, uri)
	return res
}

// Lookup is like Dispatch but reports ErrNotCompiled when no table has
// been compiled.
func (r *Router) Lookup(method, uri string) (dispatch.Result, error) {
	t := r.table.Load()
	if t == nil {
		return dispatch.Result{Status: dispatch.NotFound}, ErrNotCompiled
	}
	return t.dispatcher.Dispatch(method, uri), nil
}

// builder forwards shapes to the generator and remembers every handler so
// the compiled table can prebuild middleware chains. refs counts the shapes
// registered per handler.
type builder struct {
	*compiler.Generator

	router   *Router
	handlers []*route.Handler
	refs     map[*route.Handler]int
}

func (b *builder) AddRoute(method string, shape pattern.Shape, handler any) error {
	if err := b.Generator.AddRoute(method, shape, handler); err != nil {
		return err
	}
	if h, ok := handler.(*route.Handler); ok {
		if b.refs[h] == 0 {
			b.handlers = append(b.handlers, h)
		}
		b.refs[h]++
	}

	vars := shape.Variables()
	b.router.emit(DiagRouteRegistered, "route registered", map[string]any{
		"method": method,
		"route":  shape.String(),
	})
	if len(vars) > highParamCount {
		b.router.emit(DiagHighParamCount, "route has many placeholders", map[string]any{
			"method": method,
			"route":  shape.String(),
			"count":  len(vars),
		})
	}
	return nil
}

// RemoveRoute undoes AddRoute and forgets the handler once none of its
// shapes remain.
func (b *builder) RemoveRoute(method string, shape pattern.Shape) (any, bool) {
	handler, ok := b.Generator.RemoveRoute(method, shape)
	if !ok {
		return nil, false
	}
	if h, isHandler := handler.(*route.Handler); isHandler {
		b.refs[h]--
		if b.refs[h] <= 0 {
			delete(b.refs, h)
			b.handlers = slices.DeleteFunc(b.handlers, func(x *route.Handler) bool { return x == h })
		}
	}
	return handler, true
}
