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

// Package middleware holds the named middleware shipped with the router.
//
// Each middleware lives in its own sub-package and is a plain
// func(http.Handler) http.Handler, registered on a router by name:
//
//	r.Use("recovery", recovery.New(recovery.WithLogger(logger)))
//	r.Use("requestid", requestid.New())
//	r.Use("accesslog", accesslog.New(accesslog.WithLogger(logger)))
//
// and referenced from route declarations with route.WithMiddleware. The
// first name in a route's list is the outermost wrapper. Listing recovery
// after accesslog lets the access line record the 500 it writes:
//
//	route.WithMiddleware("requestid", "accesslog", "recovery")
//
// Available middleware:
//   - recovery: turns panics into 500 problem responses
//   - requestid: assigns a request id and echoes it in a response header
//   - accesslog: writes one structured log line per request
//   - compression: Brotli or gzip response bodies, negotiated per request
//   - security: protective response headers such as X-Frame-Options
//   - timeout: per-request deadline, answering 408 when the handler overruns
//   - bodylimit: 413 for request bodies larger than a byte limit
package middleware
