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

// Package tracing builds the OpenTelemetry tracer provider that the router
// starts its request spans on.
//
// Providers:
//
//   - Noop (default): spans are created and sampled but never exported.
//   - Stdout: pretty-printed JSON spans, for development.
//   - OTLP over gRPC or HTTP, for a collector.
//
// Example:
//
//	tr, err := tracing.New(ctx,
//	    tracing.WithOTLP("localhost:4317", tracing.OTLPInsecure()),
//	    tracing.WithSampleRate(0.1),
//	    tracing.WithServiceName("api"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer tr.Shutdown(context.Background())
//
//	r := router.MustNew(
//	    router.WithTracerProvider(tr.TracerProvider()),
//	    router.WithPropagator(tr.Propagator()),
//	)
package tracing
