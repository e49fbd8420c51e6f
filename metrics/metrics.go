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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Provider represents the available metrics exporters.
type Provider string

const (
	// PrometheusProvider exposes metrics for scraping (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes metrics over OTLP/HTTP.
	OTLPProvider Provider = "otlp"
	// StdoutProvider writes metrics as JSON.
	StdoutProvider Provider = "stdout"
)

// DefaultExportInterval is the push interval of the OTLP and stdout exporters.
const DefaultExportInterval = 30 * time.Second

var (
	// ErrUnknownProvider indicates an unsupported provider name.
	ErrUnknownProvider = errors.New("metrics: unknown provider")
	// ErrExportIntervalInvalid indicates a non-positive export interval.
	ErrExportIntervalInvalid = errors.New("metrics: export interval must be positive")
)

var discardLogger = slog.New(slog.DiscardHandler)

// Recorder owns an SDK meter provider and its exporter.
// All methods are safe for concurrent use.
type Recorder struct {
	provider       Provider
	serviceName    string
	serviceVersion string
	otlpEndpoint   string
	exportInterval time.Duration
	stdout         io.Writer
	registerGlobal bool
	logger         *slog.Logger

	meterProvider *sdkmetric.MeterProvider
	registry      *promclient.Registry
	handler       http.Handler

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a Recorder. Without options it exports to a Prometheus
// registry served by [Recorder.Handler].
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider:       PrometheusProvider,
		serviceName:    "fastroute",
		exportInterval: DefaultExportInterval,
		stdout:         os.Stdout,
		logger:         discardLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}

	var reader sdkmetric.Reader
	var err error
	switch r.provider {
	case PrometheusProvider:
		reader, err = r.prometheusReader()
	case OTLPProvider:
		reader, err = r.otlpReader()
	case StdoutProvider:
		reader, err = r.stdoutReader()
	}
	if err != nil {
		return nil, err
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(r.resource()),
	)
	if r.registerGlobal {
		otel.SetMeterProvider(r.meterProvider)
	}
	r.logger.Debug("metrics provider initialized", "provider", string(r.provider), "service", r.serviceName)
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics: %v", err))
	}
	return r
}

func (r *Recorder) validate() error {
	switch r.provider {
	case PrometheusProvider, OTLPProvider, StdoutProvider:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, r.provider)
	}
	if r.exportInterval <= 0 {
		return ErrExportIntervalInvalid
	}
	return nil
}

func (r *Recorder) resource() *resource.Resource {
	attrs := []attribute.KeyValue{semconv.ServiceName(r.serviceName)}
	if r.serviceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(r.serviceVersion))
	}
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

func (r *Recorder) prometheusReader() (sdkmetric.Reader, error) {
	r.registry = promclient.NewRegistry()
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	exporter, err := prometheus.New(prometheus.WithRegisterer(r.registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	r.handler = promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
	return exporter, nil
}

func (r *Recorder) otlpReader() (sdkmetric.Reader, error) {
	var opts []otlpmetrichttp.Option
	if endpoint := r.otlpEndpoint; endpoint != "" {
		if strings.Contains(endpoint, "://") {
			opts = append(opts, otlpmetrichttp.WithEndpointURL(endpoint))
		} else {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
	}
	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval)), nil
}

func (r *Recorder) stdoutReader() (sdkmetric.Reader, error) {
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(r.stdout))
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval)), nil
}

// MeterProvider returns the provider to hand to router.WithMeterProvider.
func (r *Recorder) MeterProvider() metric.MeterProvider {
	return r.meterProvider
}

// Provider returns the configured exporter kind.
func (r *Recorder) Provider() Provider {
	return r.provider
}

// Handler serves the Prometheus exposition format. For push exporters it
// responds 404.
func (r *Recorder) Handler() http.Handler {
	if r.handler == nil {
		return http.NotFoundHandler()
	}
	return r.handler
}

// ForceFlush exports pending data of push exporters.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	return r.meterProvider.ForceFlush(ctx)
}

// Shutdown flushes and stops the provider. Subsequent calls return the
// result of the first one.
func (r *Recorder) Shutdown(ctx context.Context) error {
	r.shutdownOnce.Do(func() {
		r.logger.Debug("shutting down metrics provider", "provider", string(r.provider))
		if err := r.meterProvider.Shutdown(ctx); err != nil {
			r.shutdownErr = fmt.Errorf("metrics shutdown: %w", err)
		}
	})
	return r.shutdownErr
}
