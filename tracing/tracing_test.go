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

package tracing_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/fastroute/router"
	"rivaas.dev/fastroute/tracing"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := tracing.New(ctx, tracing.WithProvider("zipkin"))
	require.ErrorIs(t, err, tracing.ErrUnknownProvider)

	_, err = tracing.New(ctx, tracing.WithSampleRate(1.5))
	require.ErrorIs(t, err, tracing.ErrSampleRateInvalid)

	_, err = tracing.New(ctx, tracing.WithSampleRate(-0.1))
	require.ErrorIs(t, err, tracing.ErrSampleRateInvalid)

	assert.Panics(t, func() {
		tracing.MustNew(ctx, tracing.WithProvider("zipkin"))
	})
}

func TestNoop(t *testing.T) {
	t.Parallel()

	tr := tracing.MustNew(context.Background())
	assert.Equal(t, tracing.NoopProvider, tr.Provider())

	_, span := tr.TracerProvider().Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, tr.Shutdown(context.Background()))
	require.NoError(t, tr.Shutdown(context.Background()))
}

func TestSampleRateZero(t *testing.T) {
	t.Parallel()

	tr := tracing.MustNew(context.Background(), tracing.WithSampleRate(0))
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })

	_, span := tr.TracerProvider().Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.False(t, span.SpanContext().IsSampled())
}

func TestStdout_RouterSpans(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := tracing.MustNew(context.Background(),
		tracing.WithStdout(&buf),
		tracing.WithServiceName("routes-test"),
	)

	r := router.MustNew(
		router.WithTracerProvider(tr.TracerProvider()),
		router.WithPropagator(tr.Propagator()),
	)
	require.NoError(t, r.Get("/user/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/user/7", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.NoError(t, tr.ForceFlush(context.Background()))
	out := buf.String()
	assert.Contains(t, out, `"GET /user/{id}"`)
	assert.Contains(t, out, "4bf92f3577b34da6a3ce929d0e0e4736")
	assert.Contains(t, out, "routes-test")

	require.NoError(t, tr.Shutdown(context.Background()))
}

func TestOTLP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  tracing.Option
		want tracing.Provider
	}{
		{"grpc", tracing.WithOTLP("127.0.0.1:4317", tracing.OTLPInsecure()), tracing.OTLPProvider},
		{"http", tracing.WithOTLPHTTP("http://127.0.0.1:4318/v1/traces"), tracing.OTLPHTTPProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr, err := tracing.New(context.Background(), tt.opt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tr.Provider())
			assert.NotNil(t, tr.TracerProvider())

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			_ = tr.Shutdown(ctx)
		})
	}
}
