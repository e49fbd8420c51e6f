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

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "default config"},
		{name: "json", opts: []Option{WithHandlerType(JSONHandler)}},
		{name: "text", opts: []Option{WithHandlerType(TextHandler)}},
		{name: "console", opts: []Option{WithHandlerType(ConsoleHandler)}},
		{name: "debug level", opts: []Option{WithLevel(slog.LevelDebug)}},
		{name: "source", opts: []Option{WithSource(true)}},
		{name: "nil output", opts: []Option{WithOutput(nil)}, wantErr: ErrNilOutput},
		{name: "unknown handler", opts: []Option{WithHandlerType("xml")}, wantErr: ErrUnknownHandler},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustNew(WithOutput(nil))
	})
}

func TestJSONHandler_ServiceAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(
		WithOutput(&buf),
		WithServiceName("api"),
		WithServiceVersion("v1.2.3"),
		WithEnvironment("staging"),
	)
	logger.Info("started", "port", 8080)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "started", entry["msg"])
	assert.Equal(t, "api", entry["service"])
	assert.Equal(t, "v1.2.3", entry["version"])
	assert.Equal(t, "staging", entry["env"])
	assert.InDelta(t, 8080, entry["port"], 0)
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithOutput(&buf), WithHandlerType(TextHandler), WithLevel(slog.LevelWarn))
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestTraceContext(t *testing.T) {
	t.Parallel()

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	t.Run("added when span is valid", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		MustNew(WithOutput(&buf)).With("k", "v").InfoContext(ctx, "traced")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
		assert.Equal(t, "v", entry["k"])
	})

	t.Run("absent without span", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		MustNew(WithOutput(&buf)).InfoContext(context.Background(), "plain")
		assert.NotContains(t, buf.String(), "trace_id")
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		MustNew(WithOutput(&buf), WithTraceContext(false)).InfoContext(ctx, "untraced")
		assert.NotContains(t, buf.String(), "trace_id")
	})
}

func TestConsoleHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithOutput(&buf), WithHandlerType(ConsoleHandler), WithLevel(slog.LevelDebug))
	logger.With("route", "/users/{id}").WithGroup("req").Error("failed",
		"status", 500,
		"took", 15*time.Millisecond,
		"err", errors.New("boom"),
		slog.Group("peer", "ip", "10.0.0.1"),
	)

	out := buf.String()
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "route=/users/{id}")
	assert.Contains(t, out, "req.status=500")
	assert.Contains(t, out, "req.took=15ms")
	assert.Contains(t, out, "req.err=boom")
	assert.Contains(t, out, "req.peer.ip=10.0.0.1")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestConsoleHandler_Source(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	MustNew(WithOutput(&buf), WithHandlerType(ConsoleHandler), WithSource(true)).Info("here")
	assert.Contains(t, buf.String(), "logging_test.go:")
}

func TestConsoleHandler_Concurrent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithOutput(&buf), WithHandlerType(ConsoleHandler))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("line", "i", i)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, strings.Count(buf.String(), "\n"))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("verbose")
	require.ErrorIs(t, err, ErrUnknownLevel)
}
