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

// Package compression provides response compression middleware.
//
// Responses are compressed with Brotli or gzip depending on the request's
// Accept-Encoding header and its q-values. Brotli wins ties. Responses
// smaller than the minimum size, 204/206/304 responses, HEAD requests,
// event streams, gRPC and octet streams pass through unchanged.
//
//	r.Use("compression", compression.New(compression.WithMinSize(512)))
//	r.Get("/report", report, route.WithMiddleware("compression"))
package compression
