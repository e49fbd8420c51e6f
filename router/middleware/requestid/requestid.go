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

package requestid

import (
	"context"
	"net/http"

	"rivaas.dev/fastroute/router/middleware"
)

// New returns middleware that reads or generates a request id, stores it in
// the request context and sets it on the response header.
//
// Basic usage:
//
//	r.Use("requestid", requestid.New())
//
// Reading the id in a handler:
//
//	func show(w http.ResponseWriter, req *http.Request) {
//	    id := requestid.Get(req.Context())
//	}
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			var id string
			if cfg.allowClientID {
				id = req.Header.Get(cfg.headerName)
				if len(id) > cfg.maxLength {
					id = ""
				}
			}
			if id == "" {
				id = cfg.generator()
			}

			w.Header().Set(cfg.headerName, id)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, id)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// Get returns the request id stored in ctx, or "".
func Get(ctx context.Context) string {
	return middleware.RequestID(ctx)
}
