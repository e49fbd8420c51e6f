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
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/propagation"
)

// Option configures a Tracer.
type Option func(*Tracer)

// OTLPOption configures OTLP provider behavior.
type OTLPOption func(*Tracer)

// OTLPInsecure disables TLS for the gRPC connection.
func OTLPInsecure() OTLPOption {
	return func(t *Tracer) {
		t.otlpInsecure = true
	}
}

// WithProvider selects the provider by name. Unknown names make New fail.
func WithProvider(p Provider) Option {
	return func(t *Tracer) {
		t.provider = p
	}
}

// WithNoop records spans without exporting them.
func WithNoop() Option {
	return WithProvider(NoopProvider)
}

// WithStdout prints spans to w.
func WithStdout(w io.Writer) Option {
	return func(t *Tracer) {
		t.provider = StdoutProvider
		if w != nil {
			t.stdout = w
		}
	}
}

// WithOTLP exports over gRPC to endpoint ("host:port").
func WithOTLP(endpoint string, opts ...OTLPOption) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.otlpEndpoint = endpoint
		for _, opt := range opts {
			opt(t)
		}
	}
}

// WithOTLPHTTP exports over HTTP to endpoint, a full URL such as
// "http://localhost:4318/v1/traces".
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.otlpEndpoint = endpoint
	}
}

// WithSampleRate sets the ratio of new traces that are sampled.
// Child spans follow their parent's decision. Default: 1.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) {
		t.sampleRate = rate
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) {
		t.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) {
		t.serviceVersion = version
	}
}

// WithPropagator replaces the default trace-context and baggage propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(t *Tracer) {
		if p != nil {
			t.propagator = p
		}
	}
}

// WithGlobalTracerProvider also installs the provider and propagator as the
// OpenTelemetry globals.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) {
		t.registerGlobal = true
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		if logger != nil {
			t.logger = logger
		}
	}
}
