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
	"compress/gzip"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
)

// New returns a middleware that compresses response bodies.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	gzipPool := &sync.Pool{New: func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, cfg.gzipLevel)
		return w
	}}
	brotliPool := &sync.Pool{New: func() any {
		return brotli.NewWriterLevel(io.Discard, cfg.brotliLevel)
	}}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Add("Vary", "Accept-Encoding")
			if req.Method == http.MethodHead {
				next.ServeHTTP(w, req)
				return
			}
			encoding := chooseEncoding(req.Header.Get("Accept-Encoding"), cfg)
			if encoding == "" {
				next.ServeHTTP(w, req)
				return
			}

			pool := gzipPool
			if encoding == "br" {
				pool = brotliPool
			}
			cw := &compressWriter{
				ResponseWriter: w,
				cfg:            cfg,
				encoding:       encoding,
				pool:           pool,
				status:         http.StatusOK,
			}
			next.ServeHTTP(cw, req)
			if err := cw.Close(); err != nil && cfg.logger != nil {
				cfg.logger.ErrorContext(req.Context(), "compression finalization failed", "error", err)
			}
		})
	}
}

// compressWriter buffers the body until minSize bytes are known, then
// either starts compressing or passes everything through.
type compressWriter struct {
	http.ResponseWriter
	cfg      *config
	encoding string
	pool     *sync.Pool

	status      int
	wroteHeader bool
	decided     bool
	compress    bool
	buf         []byte
	enc         io.WriteCloser
}

func (cw *compressWriter) WriteHeader(code int) {
	if code >= 100 && code < 200 {
		cw.ResponseWriter.WriteHeader(code)
		return
	}
	if cw.wroteHeader || cw.decided {
		return
	}
	cw.status = code
	cw.wroteHeader = true
	if skipStatus(code) {
		cw.decide(false)
	}
}

func (cw *compressWriter) Write(p []byte) (int, error) {
	if !cw.decided {
		cw.buf = append(cw.buf, p...)
		if len(cw.buf) < cw.cfg.minSize {
			return len(p), nil
		}
		cw.decide(true)
		return len(p), cw.flushBuffer()
	}
	if cw.compress {
		return cw.enc.Write(p)
	}
	return cw.ResponseWriter.Write(p)
}

// decide sends the headers. want is overridden when the response cannot be
// compressed.
func (cw *compressWriter) decide(want bool) {
	cw.decided = true
	h := cw.Header()
	cw.compress = want &&
		h.Get("Content-Encoding") == "" &&
		!skipContentType(h.Get("Content-Type"), cw.cfg.excludeContentTypes)

	if cw.compress {
		h.Del("Content-Length")
		h.Set("Content-Encoding", cw.encoding)
		enc := cw.pool.Get()
		switch e := enc.(type) {
		case *gzip.Writer:
			e.Reset(cw.ResponseWriter)
			cw.enc = e
		case *brotli.Writer:
			e.Reset(cw.ResponseWriter)
			cw.enc = e
		}
	} else if len(cw.buf) > 0 && h.Get("Content-Length") == "" {
		h.Set("Content-Length", strconv.Itoa(len(cw.buf)))
	}
	cw.ResponseWriter.WriteHeader(cw.status)
}

func (cw *compressWriter) flushBuffer() error {
	if len(cw.buf) == 0 {
		return nil
	}
	buf := cw.buf
	cw.buf = nil
	var err error
	if cw.compress {
		_, err = cw.enc.Write(buf)
	} else {
		_, err = cw.ResponseWriter.Write(buf)
	}
	return err
}

// Flush implements http.Flusher. A pending body is flushed compressed only
// when it already reached the minimum size.
func (cw *compressWriter) Flush() {
	if !cw.decided {
		cw.decide(len(cw.buf) >= cw.cfg.minSize && len(cw.buf) > 0)
		_ = cw.flushBuffer()
	}
	if f, ok := cw.enc.(interface{ Flush() error }); ok && cw.compress {
		_ = f.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

// Close finishes the response and returns the encoder to its pool.
func (cw *compressWriter) Close() error {
	if !cw.decided {
		cw.decide(false)
		if err := cw.flushBuffer(); err != nil {
			return err
		}
	}
	if !cw.compress || cw.enc == nil {
		return nil
	}
	err := cw.enc.Close()
	switch e := cw.enc.(type) {
	case *gzip.Writer:
		e.Reset(io.Discard)
	case *brotli.Writer:
		e.Reset(io.Discard)
	}
	cw.pool.Put(cw.enc)
	cw.enc = nil
	return err
}

func skipStatus(code int) bool {
	return code == http.StatusNoContent ||
		code == http.StatusNotModified ||
		code == http.StatusPartialContent
}

func skipContentType(ct string, excludes []string) bool {
	if ct == "" {
		return false
	}
	ct = strings.ToLower(ct)
	if strings.Contains(ct, "text/event-stream") ||
		strings.Contains(ct, "application/grpc") ||
		strings.Contains(ct, "application/octet-stream") {
		return true
	}
	for _, ex := range excludes {
		if strings.Contains(ct, strings.ToLower(ex)) {
			return true
		}
	}
	return false
}

// chooseEncoding picks "br", "gzip" or "" from an Accept-Encoding header.
func chooseEncoding(acceptEncoding string, cfg *config) string {
	if acceptEncoding == "" {
		return ""
	}
	brQ, gzipQ := -1.0, -1.0
	for _, part := range strings.Split(strings.ToLower(acceptEncoding), ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				q = parsed
			}
		}
		switch strings.TrimSpace(name) {
		case "br":
			brQ = q
		case "gzip":
			gzipQ = q
		case "*":
			if brQ < 0 {
				brQ = q
			}
			if gzipQ < 0 {
				gzipQ = q
			}
		}
	}
	if cfg.enableBrotli && brQ > 0 && brQ >= gzipQ {
		return "br"
	}
	if cfg.enableGzip && gzipQ > 0 {
		return "gzip"
	}
	return ""
}
