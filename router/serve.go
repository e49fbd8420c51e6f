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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"rivaas.dev/fastroute/problem"
	"rivaas.dev/fastroute/router/dispatch"
	"rivaas.dev/fastroute/router/route"
)

type varsKey struct{}

// Vars returns the path variables of the matched route. Handlers can also
// use req.PathValue(name).
func Vars(req *http.Request) map[string]string {
	if vars, ok := req.Context().Value(varsKey{}).(map[string]string); ok {
		return vars
	}
	return nil
}

// CurrentRoute returns the route handler that matched req, or nil.
func CurrentRoute(req *http.Request) *route.Handler {
	h, _ := req.Context().Value(routeKey{}).(*route.Handler)
	return h
}

type routeKey struct{}

// ServeHTTP implements http.Handler.
//
// For each request:
//  1. The route table is compiled if Compile was never called.
//  2. The request is dispatched on its method and escaped path.
//  3. On a match, path variables are stored on the request and the route's
//     middleware chain runs.
//  4. Otherwise a 405 with an Allow header or a 404 is written as an
//     RFC 9457 problem.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	t, err := r.ensureCompiled()
	if err != nil {
		r.logger.Error("route table compilation failed", slog.Any("error", err))
		r.problems.Write(w, req, problem.Internal())
		return
	}

	ctx, span := r.obs.start(req.Context(), req)
	rw := &responseWriter{ResponseWriter: w}
	method, label := req.Method, routeNotFound
	defer func() {
		if rec := recover(); rec != nil {
			span.SetStatus(codes.Error, fmt.Sprint(rec))
			r.obs.end(span, method, label, rw)
			panic(rec)
		}
		r.obs.end(span, method, label, rw)
	}()

	start := time.Now()
	res := t.dispatcher.Dispatch(req.Method, req.URL.EscapedPath())
	elapsed := time.Since(start)

	switch res.Status {
	case dispatch.Found:
		h := res.Handler.(*route.Handler)
		label = h.Template
		r.obs.recordDispatch(ctx, method, res, label, elapsed)

		ctx = context.WithValue(ctx, varsKey{}, res.Vars)
		ctx = context.WithValue(ctx, routeKey{}, h)
		req = req.WithContext(ctx)
		for name, value := range res.Vars {
			req.SetPathValue(name, value)
		}
		req.Pattern = h.Template

		t.chains[h].ServeHTTP(rw, req)

	case dispatch.MethodNotAllowed:
		label = routeMethodNotAllowed
		r.obs.recordDispatch(ctx, method, res, label, elapsed)
		rw.Header().Set("Allow", strings.Join(res.AllowedMethods, ", "))
		r.problems.Write(rw, req.WithContext(ctx), problem.MethodNotAllowed(res.AllowedMethods))

	default:
		r.obs.recordDispatch(ctx, method, res, label, elapsed)
		if r.notFound != nil {
			r.notFound.ServeHTTP(rw, req.WithContext(ctx))
		} else {
			r.problems.Write(rw, req.WithContext(ctx), problem.NotFound(req.URL.Path))
		}
	}
}

// Serve compiles the route table if needed and starts an HTTP server on
// addr. It blocks until the server stops; use Shutdown to stop it. Once
// Shutdown has been called, Serve returns http.ErrServerClosed without
// listening.
//
// Example:
//
//	go func() {
//	    if err := r.Serve(":8080"); err != nil && !errors.Is(err, http.ErrServerClosed) {
//	        log.Fatal(err)
//	    }
//	}()
func (r *Router) Serve(addr string) error {
	if _, err := r.ensureCompiled(); err != nil {
		return err
	}

	h := http.Handler(r)
	if r.enableH2C {
		h = h2c.NewHandler(h, &http2.Server{})
		r.emit(DiagH2CEnabled, "h2c enabled; use only in development or behind a trusted load balancer", nil)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: r.timeouts.readHeader,
		ReadTimeout:       r.timeouts.read,
		WriteTimeout:      r.timeouts.write,
		IdleTimeout:       r.timeouts.idle,
	}

	r.serverMu.Lock()
	if r.closed {
		r.serverMu.Unlock()
		return http.ErrServerClosed
	}
	r.server = srv
	r.serverMu.Unlock()

	r.logger.Info("serving", slog.String("addr", addr))
	return srv.ListenAndServe()
}

// Shutdown gracefully stops a server started with Serve. It returns nil
// when no server is running; a later Serve call does not start one.
func (r *Router) Shutdown(ctx context.Context) error {
	r.serverMu.Lock()
	r.closed = true
	srv := r.server
	r.server = nil
	r.serverMu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
