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

// Package metrics builds the OpenTelemetry meter provider that the router
// records its dispatch instruments on.
//
// Three exporters are supported:
//
//   - Prometheus (default): a pull exporter on a private registry, served
//     by [Recorder.Handler]. Go runtime and process collectors are
//     registered on the same registry.
//   - OTLP over HTTP: periodic push to a collector.
//   - Stdout: periodic JSON dumps, useful during development.
//
// Example:
//
//	rec := metrics.MustNew(metrics.WithServiceName("api"))
//	defer rec.Shutdown(context.Background())
//
//	r := router.MustNew(router.WithMeterProvider(rec.MeterProvider()))
//	http.Handle("/metrics", rec.Handler())
package metrics
