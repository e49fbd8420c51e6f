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

package route

import (
	"net/http"
	"slices"
)

// Option configures a route or a group.
type Option func(*config)

type config struct {
	middleware []string
	name       string
}

// WithMiddleware appends middleware names. On a group they apply to every
// route declared inside it; on a route they follow the group's names.
// Duplicates are dropped, keeping the first occurrence.
func WithMiddleware(names ...string) Option {
	return func(c *config) {
		c.middleware = append(c.middleware, names...)
	}
}

// Name sets the route name. On a group it becomes a prefix for the names of
// routes declared inside it.
//
// Example:
//
//	c.Group("/api", func(api route.Scope) error {
//	    return api.Get("/users", list, route.Name("users.list")) // "api.users.list"
//	}, route.Name("api."))
func Name(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Scope is an immutable registration context. The zero value is not usable;
// obtain one from a Collector.
type Scope struct {
	c          *Collector
	prefix     string
	middleware []string
	namePrefix string
}

// Prefix returns the path prefix applied to routes declared in s.
func (s Scope) Prefix() string {
	return s.prefix
}

// Middleware returns the middleware names applied to routes declared in s.
func (s Scope) Middleware() []string {
	return slices.Clone(s.middleware)
}

// Group derives a child scope whose prefix is s's prefix followed by prefix
// and passes it to fn. The child's middleware are s's followed by those in
// opts.
func (s Scope) Group(prefix string, fn func(Scope) error, opts ...Option) error {
	cfg := newConfig(opts)
	child := Scope{
		c:          s.c,
		prefix:     s.prefix + prefix,
		middleware: merge(s.middleware, cfg.middleware),
		namePrefix: s.namePrefix + cfg.name,
	}
	return fn(child)
}

// AddRoute declares path for every method in methods.
func (s Scope) AddRoute(methods []string, path string, target any, opts ...Option) error {
	return s.c.add(s, methods, path, target, newConfig(opts))
}

// Get declares a GET route.
func (s Scope) Get(path string, target any, opts ...Option) error {
	return s.AddRoute([]string{http.MethodGet}, path, target, opts...)
}

// Post declares a POST route.
func (s Scope) Post(path string, target any, opts ...Option) error {
	return s.AddRoute([]string{http.MethodPost}, path, target, opts...)
}

// Put declares a PUT route.
func (s Scope) Put(path string, target any, opts ...Option) error {
	return s.AddRoute([]string{http.MethodPut}, path, target, opts...)
}

// Delete declares a DELETE route.
func (s Scope) Delete(path string, target any, opts ...Option) error {
	return s.AddRoute([]string{http.MethodDelete}, path, target, opts...)
}

// Patch declares a PATCH route.
func (s Scope) Patch(path string, target any, opts ...Option) error {
	return s.AddRoute([]string{http.MethodPatch}, path, target, opts...)
}

// Head declares a HEAD route. GET routes already answer HEAD requests.
func (s Scope) Head(path string, target any, opts ...Option) error {
	return s.AddRoute([]string{http.MethodHead}, path, target, opts...)
}

// Options declares an OPTIONS route.
func (s Scope) Options(path string, target any, opts ...Option) error {
	return s.AddRoute([]string{http.MethodOptions}, path, target, opts...)
}

// Any declares a route matching every method that has no route of its own.
func (s Scope) Any(path string, target any, opts ...Option) error {
	return s.AddRoute([]string{MethodAny}, path, target, opts...)
}

// merge returns base followed by the names in extra that are not already
// present.
func merge(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	for _, name := range extra {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
