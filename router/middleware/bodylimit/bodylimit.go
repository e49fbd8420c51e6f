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

// Package bodylimit caps the size of request bodies.
//
// Requests whose Content-Length already exceeds the limit are answered with
// 413 before the handler runs. Every other body is wrapped so that reads past
// the limit fail with ErrBodyLimitExceeded, which covers chunked uploads and
// lying headers.
//
//	r.Use("bodylimit", bodylimit.New(bodylimit.WithLimit(10<<20)))
package bodylimit

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrBodyLimitExceeded is returned by body reads that go past the limit.
var ErrBodyLimitExceeded = errors.New("request body size exceeds limit")

// New returns middleware limiting request bodies. Default limit: 2MB.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if cfg.skipPaths[req.URL.Path] {
				next.ServeHTTP(w, req)
				return
			}

			if req.ContentLength > cfg.limit {
				cfg.errorHandler(w, req, cfg.limit)
				return
			}

			if req.Body != nil && req.Body != http.NoBody {
				req.Body = &limitedReader{reader: req.Body, limit: cfg.limit}
			}
			next.ServeHTTP(w, req)
		})
	}
}

// limitedReader behaves like io.LimitReader but fails instead of
// truncating when the underlying body continues past the limit.
type limitedReader struct {
	reader io.ReadCloser
	limit  int64
	read   int64
}

func (lr *limitedReader) Read(p []byte) (int, error) {
	if lr.read >= lr.limit {
		return lr.overflow(0)
	}

	if remaining := lr.limit - lr.read; int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := lr.reader.Read(p)
	lr.read += int64(n)
	if lr.read >= lr.limit && err == nil {
		return lr.overflow(n)
	}
	return n, err
}

// overflow peeks one byte past the limit. A body ending exactly at the
// limit is accepted.
func (lr *limitedReader) overflow(n int) (int, error) {
	var one [1]byte
	extra, err := lr.reader.Read(one[:])
	if extra > 0 {
		return n, fmt.Errorf("%w: %d bytes", ErrBodyLimitExceeded, lr.limit)
	}
	if err == nil {
		err = io.EOF
	}
	return n, err
}

func (lr *limitedReader) Close() error {
	return lr.reader.Close()
}
