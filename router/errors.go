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

package router

import "errors"

var (
	// ErrChunkSizeInvalid indicates that the approximate chunk size is not positive.
	ErrChunkSizeInvalid = errors.New("chunk size must be positive")

	// ErrRootPathInvalid indicates that the root path does not start with '/'.
	ErrRootPathInvalid = errors.New("root path must start with '/'")

	// ErrServerTimeoutInvalid indicates that a server timeout is not positive.
	ErrServerTimeoutInvalid = errors.New("server timeout must be positive")

	// ErrUnknownMiddleware indicates that a route references middleware that
	// was never registered with Use.
	ErrUnknownMiddleware = errors.New("unknown middleware")

	// ErrNilMiddleware indicates that Use was called with a nil middleware.
	ErrNilMiddleware = errors.New("middleware is nil")

	// ErrNoActionResolver indicates that a route targets an Action but no
	// resolver was configured.
	ErrNoActionResolver = errors.New("no action resolver configured")

	// ErrNotCompiled indicates that the route table has not been compiled yet.
	ErrNotCompiled = errors.New("routes not compiled")
)
