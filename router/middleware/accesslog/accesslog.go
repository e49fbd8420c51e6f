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

// Package accesslog provides middleware writing one structured log line per
// request.
package accesslog

import (
	"bufio"
	"context"
	"hash/fnv"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"rivaas.dev/fastroute/router/middleware"
)

// statusSizer is implemented by the router's response writer.
type statusSizer interface {
	StatusCode() int
	Size() int64
}

// New returns access log middleware.
//
// The line carries method, path, matched route template, status, duration,
// response size and the request id when requestid runs before it:
//
//	r.Use("accesslog", accesslog.New(
//	    accesslog.WithLogger(logger),
//	    accesslog.WithExcludePaths("/health"),
//	    accesslog.WithSlowThreshold(time.Second),
//	))
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			path := req.URL.Path
			if cfg.logger == nil || cfg.excluded(path) {
				next.ServeHTTP(w, req)
				return
			}

			ss, ok := w.(statusSizer)
			if !ok {
				wrapped := &responseWriter{ResponseWriter: w}
				w, ss = wrapped, wrapped
			}

			start := time.Now()
			next.ServeHTTP(w, req)
			duration := time.Since(start)
			status := ss.StatusCode()

			isError := status >= http.StatusBadRequest
			isSlow := cfg.slowThreshold > 0 && duration >= cfg.slowThreshold
			requestID := middleware.RequestID(req.Context())
			if !isError && !isSlow {
				if cfg.logErrorsOnly {
					return
				}
				if cfg.sampleRate < 1 && !sampleByHash(requestID, cfg.sampleRate) {
					return
				}
			}

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
				slog.Int64("bytes_sent", ss.Size()),
				slog.String("user_agent", req.UserAgent()),
				slog.String("client_ip", clientIP(req)),
				slog.String("proto", req.Proto),
			}
			if req.Pattern != "" {
				attrs = append(attrs, slog.String("route", req.Pattern))
			}
			if requestID != "" {
				attrs = append(attrs, slog.String("request_id", requestID))
			}
			if isSlow {
				attrs = append(attrs, slog.Bool("slow", true))
			}

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case isError, isSlow:
				level = slog.LevelWarn
			}
			cfg.logger.LogAttrs(context.WithoutCancel(req.Context()), level, "access", attrs...)
		})
	}
}

func (cfg *config) excluded(path string) bool {
	if cfg.excludePaths[path] {
		return true
	}
	for _, prefix := range cfg.excludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// sampleByHash makes the same decision for the same id on every replica.
func sampleByHash(id string, rate float64) bool {
	if id == "" {
		return true
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return float64(h.Sum32())/float64(1<<32) < rate
}

func clientIP(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}

// responseWriter captures status and size when the middleware runs outside
// the router.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int64
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

func (rw *responseWriter) StatusCode() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

func (rw *responseWriter) Size() int64 {
	return rw.size
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}
