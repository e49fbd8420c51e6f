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

package compression

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var body = strings.Repeat("fastroute compiles routes into chunked regular expressions. ", 40)

func serve(t *testing.T, mw func(http.Handler) http.Handler, h http.HandlerFunc, method, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/", nil)
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	rec := httptest.NewRecorder()
	mw(h).ServeHTTP(rec, req)
	return rec
}

func write(s string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, s)
	}
}

func TestCompression_Gzip(t *testing.T) {
	t.Parallel()

	rec := serve(t, New(), write(body), http.MethodGet, "gzip")

	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")
	assert.Less(t, rec.Body.Len(), len(body))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestCompression_Brotli(t *testing.T) {
	t.Parallel()

	rec := serve(t, New(), write(body), http.MethodGet, "gzip, br")

	assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))
	got, err := io.ReadAll(brotli.NewReader(rec.Body))
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestCompression_PassThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		handler http.HandlerFunc
		method  string
		accept  string
		status  int
	}{
		{name: "no accept encoding", handler: write(body), method: http.MethodGet, status: http.StatusOK},
		{name: "identity only", handler: write(body), method: http.MethodGet, accept: "identity", status: http.StatusOK},
		{name: "below min size", handler: write("short"), method: http.MethodGet, accept: "gzip", status: http.StatusOK},
		{name: "head request", handler: write(body), method: http.MethodHead, accept: "gzip", status: http.StatusOK},
		{name: "gzip disabled", opts: []Option{WithGzipDisabled(), WithBrotliDisabled()}, handler: write(body), method: http.MethodGet, accept: "gzip, br", status: http.StatusOK},
		{
			name: "event stream",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/event-stream")
				_, _ = io.WriteString(w, body)
			},
			method: http.MethodGet, accept: "gzip", status: http.StatusOK,
		},
		{
			name: "excluded type",
			opts: []Option{WithExcludeContentTypes("image/")},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				_, _ = io.WriteString(w, body)
			},
			method: http.MethodGet, accept: "gzip", status: http.StatusOK,
		},
		{
			name: "partial content",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusPartialContent)
				_, _ = io.WriteString(w, body)
			},
			method: http.MethodGet, accept: "gzip", status: http.StatusPartialContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := serve(t, New(tt.opts...), tt.handler, tt.method, tt.accept)
			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, rec.Header().Get("Content-Encoding"))
			if tt.method != http.MethodHead {
				assert.NotEmpty(t, rec.Body.String())
			}
		})
	}
}

func TestCompression_NoContent(t *testing.T) {
	t.Parallel()

	rec := serve(t, New(), func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, http.MethodGet, "gzip")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Zero(t, rec.Body.Len())
}

func TestCompression_StatusPreserved(t *testing.T) {
	t.Parallel()

	rec := serve(t, New(WithMinSize(0)), func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, body)
	}, http.MethodPost, "gzip")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestCompression_PreEncoded(t *testing.T) {
	t.Parallel()

	rec := serve(t, New(), func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "zstd")
		_, _ = io.WriteString(w, body)
	}, http.MethodGet, "gzip")

	assert.Equal(t, "zstd", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, body, rec.Body.String())
}

func TestCompression_Flush(t *testing.T) {
	t.Parallel()

	rec := serve(t, New(), func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
		w.(http.Flusher).Flush()
		_, _ = io.WriteString(w, body)
	}, http.MethodGet, "gzip")

	require.True(t, rec.Flushed)
	zr, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, body+body, string(got))
}

func TestCompression_PoolReuse(t *testing.T) {
	t.Parallel()

	mw := New()
	for range 5 {
		rec := serve(t, mw, write(body), http.MethodGet, "gzip")
		zr, err := gzip.NewReader(rec.Body)
		require.NoError(t, err)
		got, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, body, string(got))
	}
}

func TestChooseEncoding(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	tests := []struct {
		accept string
		want   string
	}{
		{"", ""},
		{"gzip", "gzip"},
		{"br", "br"},
		{"gzip, br", "br"},
		{"br;q=0.5, gzip", "gzip"},
		{"br;q=0, gzip;q=0", ""},
		{"*", "br"},
		{"gzip, *;q=0", "gzip"},
		{"deflate", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chooseEncoding(tt.accept, cfg), tt.accept)
	}

	gzipOnly := defaultConfig()
	WithBrotliDisabled()(gzipOnly)
	assert.Equal(t, "gzip", chooseEncoding("br, gzip", gzipOnly))
}

func TestOptions_IgnoreInvalid(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	WithGzipLevel(42)(cfg)
	WithBrotliLevel(-1)(cfg)
	WithMinSize(-5)(cfg)
	assert.Equal(t, gzip.DefaultCompression, cfg.gzipLevel)
	assert.Equal(t, 4, cfg.brotliLevel)
	assert.Equal(t, 256, cfg.minSize)
}
