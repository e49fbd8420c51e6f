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

package accesslog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/fastroute/router/middleware"
)

func newLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func status(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte("body"))
	})
}

func TestAccessLog_Fields(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	h := New(WithLogger(logger))(status(http.StatusCreated))

	req := httptest.NewRequest(http.MethodPost, "/users/7", nil)
	req.Pattern = "/users/{id}"
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "rid-1"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "access", got[0]["msg"])
	assert.Equal(t, "INFO", got[0]["level"])
	assert.Equal(t, "POST", got[0]["method"])
	assert.Equal(t, "/users/7", got[0]["path"])
	assert.Equal(t, "/users/{id}", got[0]["route"])
	assert.InDelta(t, 201, got[0]["status"], 0)
	assert.InDelta(t, 4, got[0]["bytes_sent"], 0)
	assert.Equal(t, "rid-1", got[0]["request_id"])
	assert.Equal(t, "192.0.2.1", got[0]["client_ip"])
}

func TestAccessLog_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code  int
		level string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusBadGateway, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			t.Parallel()
			logger, buf := newLogger()
			New(WithLogger(logger))(status(tt.code)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
			got := lines(t, buf)
			require.Len(t, got, 1)
			assert.Equal(t, tt.level, got[0]["level"])
		})
	}
}

func TestAccessLog_Filters(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	mw := New(
		WithLogger(logger),
		WithExcludePaths("/health"),
		WithExcludePrefixes("/metrics"),
		WithErrorsOnly(),
	)

	mw(status(http.StatusOK)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	mw(status(http.StatusInternalServerError)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics/x", nil))
	mw(status(http.StatusOK)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	mw(status(http.StatusTeapot)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tea", nil))

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "/tea", got[0]["path"])
}

func TestAccessLog_Slow(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	slow := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		time.Sleep(5 * time.Millisecond)
	})
	New(WithLogger(logger), WithErrorsOnly(), WithSlowThreshold(time.Millisecond))(slow).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/slow", nil))

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, true, got[0]["slow"])
	assert.Equal(t, "WARN", got[0]["level"])
}

func TestAccessLog_NoLogger(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	New()(status(http.StatusOK)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSampleByHash(t *testing.T) {
	t.Parallel()

	assert.True(t, sampleByHash("", 0))
	assert.False(t, sampleByHash("abc", 0))
	assert.True(t, sampleByHash("abc", 1))
	assert.Equal(t, sampleByHash("req-42", 0.5), sampleByHash("req-42", 0.5))
}
