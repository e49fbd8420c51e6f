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

package manifest

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"rivaas.dev/fastroute/router/route"
)

var (
	// ErrUnknownHandler indicates a handler name missing from the resolver.
	ErrUnknownHandler = errors.New("manifest: unknown handler")
	// ErrNoTarget indicates a route with neither handler nor action.
	ErrNoTarget = errors.New("manifest: route has no handler or action")
)

// Resolver maps handler names used in a manifest to route targets.
type Resolver interface {
	Resolve(name string) (any, error)
}

// Handlers is a Resolver backed by a map. Values may be any target the
// router accepts.
type Handlers map[string]any

// Resolve implements Resolver.
func (h Handlers) Resolve(name string) (any, error) {
	target, ok := h[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownHandler, name)
	}
	return target, nil
}

// Names returns the registered handler names, sorted.
func (h Handlers) Names() []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) (any, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(name string) (any, error) {
	return f(name)
}

// Apply declares every route of m on s. Top-level middleware apply to all
// routes. The first failing declaration aborts and is returned.
func (m *Manifest) Apply(s route.Scope, resolver Resolver) error {
	return s.Group("", func(s route.Scope) error {
		if err := applyRoutes(s, m.Routes, resolver); err != nil {
			return err
		}
		return applyGroups(s, m.Groups, resolver)
	}, route.WithMiddleware(m.Middleware...))
}

func applyGroups(s route.Scope, groups []Group, resolver Resolver) error {
	for _, g := range groups {
		err := s.Group(g.Prefix, func(s route.Scope) error {
			if err := applyRoutes(s, g.Routes, resolver); err != nil {
				return err
			}
			return applyGroups(s, g.Groups, resolver)
		}, route.WithMiddleware(g.Middleware...), route.Name(g.Name))
		if err != nil {
			return err
		}
	}
	return nil
}

func applyRoutes(s route.Scope, routes []Route, resolver Resolver) error {
	for _, r := range routes {
		target, err := r.target(resolver)
		if err != nil {
			return fmt.Errorf("%s %s: %w", strings.Join(r.AllMethods(), ","), s.Prefix()+r.Path, err)
		}
		opts := []route.Option{route.WithMiddleware(r.Middleware...)}
		if r.Name != "" {
			opts = append(opts, route.Name(r.Name))
		}
		if err := s.AddRoute(r.AllMethods(), r.Path, target, opts...); err != nil {
			return err
		}
	}
	return nil
}

func (r Route) target(resolver Resolver) (any, error) {
	switch {
	case r.Handler != "":
		if resolver == nil {
			return nil, fmt.Errorf("%w %q", ErrUnknownHandler, r.Handler)
		}
		return resolver.Resolve(r.Handler)
	case r.Action != "":
		controller, method, _ := strings.Cut(r.Action, ".")
		return route.Action{Controller: controller, Method: method}, nil
	default:
		return nil, ErrNoTarget
	}
}

// MiddlewareNames returns every middleware name the manifest references,
// in first-use order.
func (m *Manifest) MiddlewareNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(list []string) {
		for _, n := range list {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	var walk func(routes []Route, groups []Group)
	walk = func(routes []Route, groups []Group) {
		for _, r := range routes {
			add(r.Middleware)
		}
		for _, g := range groups {
			add(g.Middleware)
			walk(g.Routes, g.Groups)
		}
	}
	add(m.Middleware)
	walk(m.Routes, m.Groups)
	return names
}

// StaticHandler returns a handler that always writes body as text/plain.
// It is convenient for manifests served by routec.
func StaticHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(body))
	})
}
