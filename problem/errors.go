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

package problem

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Error is a generic problem error.
type Error struct {
	Status  int
	Slug    string
	Message string
	Extra   map[string]any
}

// Error implements error.
func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus implements StatusCoder.
func (e *Error) HTTPStatus() int {
	return e.Status
}

// Code implements Coder.
func (e *Error) Code() string {
	return e.Slug
}

// Details implements Detailer.
func (e *Error) Details() map[string]any {
	return e.Extra
}

// NotFound returns the error reported when no route matches path.
func NotFound(path string) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Slug:    "not-found",
		Message: fmt.Sprintf("no route matches %q", path),
	}
}

// MethodNotAllowed returns the error reported when only other methods
// match the requested path.
func MethodNotAllowed(allowed []string) *Error {
	return &Error{
		Status:  http.StatusMethodNotAllowed,
		Slug:    "method-not-allowed",
		Message: "method not allowed, use one of " + strings.Join(allowed, ", "),
		Extra:   map[string]any{"allowed": allowed},
	}
}

// Internal returns the error reported when a handler panics or fails.
func Internal() *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Slug:    "internal-error",
		Message: "the server encountered an internal error",
	}
}

// Timeout returns the error reported when a handler exceeds its deadline.
func Timeout(after time.Duration) *Error {
	return &Error{
		Status:  http.StatusRequestTimeout,
		Slug:    "timeout",
		Message: "request did not complete within " + after.String(),
		Extra:   map[string]any{"timeout": after.String()},
	}
}

// TooLarge returns the error reported when a request body exceeds limit
// bytes.
func TooLarge(limit int64) *Error {
	return &Error{
		Status:  http.StatusRequestEntityTooLarge,
		Slug:    "request-too-large",
		Message: fmt.Sprintf("request body exceeds %d bytes", limit),
		Extra:   map[string]any{"limit": limit},
	}
}
