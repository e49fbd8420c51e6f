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
	"bufio"
	"context"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/fastroute/router/dispatch"
)

const instrumentationName = "rivaas.dev/fastroute/router"

// Route attribute values used when no route matched. They keep metric
// cardinality bounded.
const (
	routeNotFound         = "_not_found"
	routeMethodNotAllowed = "_method_not_allowed"
)

// observability holds the OpenTelemetry instruments of a router.
type observability struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	total      metric.Int64Counter
	duration   metric.Float64Histogram
}

func newObservability(mp metric.MeterProvider, tp trace.TracerProvider, prop propagation.TextMapPropagator) (*observability, error) {
	meter := mp.Meter(instrumentationName)

	total, err := meter.Int64Counter("router.dispatch.total",
		metric.WithDescription("Number of dispatched requests by result"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("router.dispatch.duration",
		metric.WithDescription("Time spent resolving a request to a route"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3),
	)
	if err != nil {
		return nil, err
	}

	return &observability{
		tracer:     tp.Tracer(instrumentationName),
		propagator: prop,
		total:      total,
		duration:   duration,
	}, nil
}

func (o *observability) start(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	ctx = o.propagator.Extract(ctx, propagation.HeaderCarrier(req.Header))
	return o.tracer.Start(ctx, req.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)
}

func (o *observability) recordDispatch(ctx context.Context, method string, res dispatch.Result, route string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("result", res.Status.String()),
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
	)
	o.total.Add(ctx, 1, attrs)
	o.duration.Record(ctx, elapsed.Seconds(), attrs)
}

func (o *observability) end(span trace.Span, method, route string, rw *responseWriter) {
	span.SetName(method + " " + route)
	span.SetAttributes(
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", rw.StatusCode()),
		attribute.Int64("http.response.body.size", rw.Size()),
	)
	if rw.StatusCode() >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(rw.StatusCode()))
	}
	span.End()
}

// ResponseInfo is implemented by response writers that track response
// metadata. Middleware can type-assert the writer they receive to it.
type ResponseInfo interface {
	StatusCode() int
	Size() int64
}

// responseWriter captures the status code and body size of a response.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
}

var _ ResponseInfo = (*responseWriter)(nil)

// WriteHeader records the status code and ignores repeated calls.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// StatusCode returns the response status, 200 when nothing was written.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Size returns the number of body bytes written.
func (rw *responseWriter) Size() int64 {
	return rw.size
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Hijack implements http.Hijacker.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher.
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
