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

package dispatch

import (
	"net/http"
	"net/url"
	"strings"

	"rivaas.dev/fastroute/router/compiler"
)

// Status is the outcome of a dispatch.
type Status uint8

const (
	// NotFound means no route matches the path for any method.
	NotFound Status = iota
	// Found means a route matched; Result.Handler and Result.Vars are set.
	Found
	// MethodNotAllowed means the path matches routes of other methods only.
	MethodNotAllowed
)

// String returns a lower-case name suitable for logs and metric attributes.
func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case MethodNotAllowed:
		return "method_not_allowed"
	default:
		return "not_found"
	}
}

// Result is the value returned by Dispatch.
type Result struct {
	Status         Status
	Handler        any               // set when Found
	Vars           map[string]string // set when Found, never nil
	AllowedMethods []string          // set when MethodNotAllowed, sorted
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRootPath strips prefix from request paths before matching.
// The prefix only matches at a path boundary: "/app" strips "/app" and
// "/app/x" but not "/apple".
func WithRootPath(prefix string) Option {
	return func(d *Dispatcher) {
		d.rootPath = strings.TrimRight(prefix, "/")
	}
}

// Dispatcher resolves requests against compiled route data.
type Dispatcher struct {
	data     *compiler.Data
	rootPath string
}

// New creates a Dispatcher for data.
func New(data *compiler.Data, opts ...Option) *Dispatcher {
	d := &Dispatcher{data: data}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Data returns the route data the dispatcher reads.
func (d *Dispatcher) Data() *compiler.Data {
	return d.data
}

// Dispatch resolves method and rawURI. It is total: malformed URIs yield
// NotFound rather than an error.
func (d *Dispatcher) Dispatch(method, rawURI string) Result {
	path, ok := d.normalize(rawURI)
	if !ok {
		return Result{Status: NotFound}
	}

	if res, found := d.lookup(method, path); found {
		return res
	}
	if method == http.MethodHead {
		if res, found := d.lookup(http.MethodGet, path); found {
			return res
		}
	}
	if method != compiler.MethodAny {
		if res, found := d.lookup(compiler.MethodAny, path); found {
			return res
		}
	}

	var allowed []string
	for _, m := range d.data.Methods() {
		if m == method || m == compiler.MethodAny || (method == http.MethodHead && m == http.MethodGet) {
			continue
		}
		if _, _, found := d.data.Lookup(m, path); found {
			allowed = append(allowed, m)
		}
	}
	if len(allowed) > 0 {
		return Result{Status: MethodNotAllowed, AllowedMethods: allowed}
	}
	return Result{Status: NotFound}
}

func (d *Dispatcher) lookup(method, path string) (Result, bool) {
	h, vars, ok := d.data.Lookup(method, path)
	if !ok {
		return Result{}, false
	}
	if vars == nil {
		vars = map[string]string{}
	}
	return Result{Status: Found, Handler: h, Vars: vars}, true
}

// normalize drops the query string and fragment, strips the root path and
// percent-decodes the rest. An empty path becomes "/".
func (d *Dispatcher) normalize(rawURI string) (string, bool) {
	path := rawURI
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	if d.rootPath != "" && strings.HasPrefix(path, d.rootPath) {
		if rest := path[len(d.rootPath):]; rest == "" || rest[0] == '/' {
			path = rest
		}
	}

	if strings.IndexByte(path, '%') >= 0 {
		decoded, err := url.PathUnescape(path)
		if err != nil {
			return "", false
		}
		path = decoded
	}

	if path == "" {
		path = "/"
	}
	return path, true
}
