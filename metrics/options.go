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

package metrics

import (
	"io"
	"log/slog"
	"time"
)

// Option defines functional options for Recorder configuration.
type Option func(*Recorder)

// WithProvider selects the exporter by name. Unknown names make New fail.
func WithProvider(p Provider) Option {
	return func(r *Recorder) {
		r.provider = p
	}
}

// WithPrometheus selects the Prometheus exporter.
func WithPrometheus() Option {
	return WithProvider(PrometheusProvider)
}

// WithOTLP selects the OTLP/HTTP exporter. endpoint may be "host:port" or a
// full URL such as "http://localhost:4318/v1/metrics"; empty uses the
// OTEL_EXPORTER_OTLP_* environment.
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.otlpEndpoint = endpoint
	}
}

// WithStdout selects the stdout exporter writing to w.
func WithStdout(w io.Writer) Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		if w != nil {
			r.stdout = w
		}
	}
}

// WithExportInterval sets the push interval for OTLP and stdout.
func WithExportInterval(d time.Duration) Option {
	return func(r *Recorder) {
		r.exportInterval = d
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithGlobalMeterProvider also registers the provider with otel.SetMeterProvider.
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) {
		r.registerGlobal = true
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}
