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

// Package timeout provides middleware that bounds how long a handler may
// take to produce its response.
//
// The handler runs in its own goroutine with a request context that is
// cancelled at the deadline. Its response is buffered; when the deadline
// passes first, the buffer is discarded and a 408 problem response is
// written instead. Later writes by the handler fail with
// http.ErrHandlerTimeout.
//
// Handlers must watch req.Context().Done() for long operations. A timeout
// cancels the context, it does not stop running code.
//
//	r.Use("timeout", timeout.New(timeout.WithDuration(5*time.Second)))
//	r.Get("/report", report, route.WithMiddleware("recovery", "timeout"))
//
// Panics raised by the handler before the deadline are re-raised in the
// calling goroutine so recovery middleware listed before timeout sees them.
// Streaming responses do not work behind this middleware; skip those paths.
package timeout
