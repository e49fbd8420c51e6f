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

package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Provider represents the available tracing providers.
type Provider string

const (
	// NoopProvider records spans without exporting them (default).
	NoopProvider Provider = "noop"
	// StdoutProvider prints spans as JSON.
	StdoutProvider Provider = "stdout"
	// OTLPProvider exports over OTLP/gRPC.
	OTLPProvider Provider = "otlp"
	// OTLPHTTPProvider exports over OTLP/HTTP.
	OTLPHTTPProvider Provider = "otlp-http"
)

var (
	// ErrUnknownProvider indicates an unsupported provider name.
	ErrUnknownProvider = errors.New("tracing: unknown provider")
	// ErrSampleRateInvalid indicates a sample rate outside [0, 1].
	ErrSampleRateInvalid = errors.New("tracing: sample rate must be between 0 and 1")
)

var discardLogger = slog.New(slog.DiscardHandler)

// Tracer owns an SDK tracer provider and its exporter.
type Tracer struct {
	provider       Provider
	serviceName    string
	serviceVersion string
	sampleRate     float64
	otlpEndpoint   string
	otlpInsecure   bool
	stdout         io.Writer
	registerGlobal bool
	logger         *slog.Logger

	sdkProvider *sdktrace.TracerProvider
	propagator  propagation.TextMapPropagator

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a Tracer. ctx bounds exporter construction only.
func New(ctx context.Context, opts ...Option) (*Tracer, error) {
	t := &Tracer{
		provider:    NoopProvider,
		serviceName: "fastroute",
		sampleRate:  1.0,
		stdout:      os.Stdout,
		logger:      discardLogger,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}

	exporter, err := t.exporter(ctx)
	if err != nil {
		return nil, err
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(t.resource()),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	}
	if exporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	t.sdkProvider = sdktrace.NewTracerProvider(tpOpts...)

	if t.registerGlobal {
		otel.SetTracerProvider(t.sdkProvider)
		otel.SetTextMapPropagator(t.propagator)
	}
	t.logger.Debug("tracing provider initialized",
		"provider", string(t.provider),
		"service", t.serviceName,
		"sample_rate", t.sampleRate,
	)
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(ctx context.Context, opts ...Option) *Tracer {
	t, err := New(ctx, opts...)
	if err != nil {
		panic(fmt.Sprintf("tracing: %v", err))
	}
	return t
}

func (t *Tracer) validate() error {
	switch t.provider {
	case NoopProvider, StdoutProvider, OTLPProvider, OTLPHTTPProvider:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, t.provider)
	}
	if t.sampleRate < 0 || t.sampleRate > 1 {
		return fmt.Errorf("%w: %v", ErrSampleRateInvalid, t.sampleRate)
	}
	return nil
}

func (t *Tracer) resource() *resource.Resource {
	attrs := []attribute.KeyValue{semconv.ServiceName(t.serviceName)}
	if t.serviceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(t.serviceVersion))
	}
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

// exporter returns nil for the noop provider.
func (t *Tracer) exporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	switch t.provider {
	case StdoutProvider:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(t.stdout), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		return exp, nil
	case OTLPProvider:
		var opts []otlptracegrpc.Option
		if t.otlpEndpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(t.otlpEndpoint))
		}
		if t.otlpInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
		}
		return exp, nil
	case OTLPHTTPProvider:
		var opts []otlptracehttp.Option
		if t.otlpEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(t.otlpEndpoint))
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, nil
	}
}

// TracerProvider returns the provider to hand to router.WithTracerProvider.
func (t *Tracer) TracerProvider() trace.TracerProvider {
	return t.sdkProvider
}

// Propagator returns the W3C trace-context and baggage propagator.
func (t *Tracer) Propagator() propagation.TextMapPropagator {
	return t.propagator
}

// Provider returns the configured provider kind.
func (t *Tracer) Provider() Provider {
	return t.provider
}

// ForceFlush exports all ended spans that have not been exported yet.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	return t.sdkProvider.ForceFlush(ctx)
}

// Shutdown flushes and stops the provider. Subsequent calls return the
// result of the first one.
func (t *Tracer) Shutdown(ctx context.Context) error {
	t.shutdownOnce.Do(func() {
		t.logger.Debug("shutting down tracing provider", "provider", string(t.provider))
		if err := t.sdkProvider.Shutdown(ctx); err != nil {
			t.shutdownErr = fmt.Errorf("tracing shutdown: %w", err)
		}
	})
	return t.shutdownErr
}
