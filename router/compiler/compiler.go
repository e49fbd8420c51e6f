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

package compiler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"

	"rivaas.dev/fastroute/router/pattern"
)

const (
	// DefaultChunkSize is the approximate number of variable routes combined
	// into one chunk regex.
	DefaultChunkSize = 10

	// MethodAny is the wildcard method matching any verb without a route of its own.
	MethodAny = "*"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// RouteItem is a variable route before chunking.
type RouteItem struct {
	Method    string
	Handler   any
	Regex     string   // unanchored regex, one group per variable
	Variables []string // variable names in group order
	Template  string   // shape in template syntax, for diagnostics

	re *regexp.Regexp // anchored Regex
}

// Matches reports whether the route alone matches path.
func (it *RouteItem) Matches(path string) bool {
	return it.re.MatchString(path)
}

// Option configures a Generator.
type Option func(*Generator)

// WithChunkSize sets the approximate number of routes per chunk.
// Values below 1 are ignored.
func WithChunkSize(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.approxChunkSize = n
		}
	}
}

// WithStrictShadowing makes the shadowed-static check order independent.
//
// By default a static route is rejected only when a variable route
// registered before it also matches its path; registering the static route
// first is allowed and the static route wins at dispatch. With strict
// shadowing the variable route is rejected in that case too.
func WithStrictShadowing(enabled bool) Option {
	return func(g *Generator) { g.strictShadowing = enabled }
}

// WithLogger sets the logger used for registration events.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator accumulates routes and compiles them into Data.
//
// A Generator is not safe for concurrent use. Routes are registered once at
// startup, after which Data produces an immutable snapshot.
type Generator struct {
	approxChunkSize int
	strictShadowing bool
	logger          *slog.Logger

	static      map[string]map[string]any // method -> path -> handler
	staticOrder map[string][]string       // method -> paths in registration order

	variable      map[string]map[string]*RouteItem // method -> regex -> item
	variableOrder map[string][]*RouteItem          // method -> items in registration order
}

// NewGenerator creates an empty Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		approxChunkSize: DefaultChunkSize,
		logger:          discardLogger,
		static:          make(map[string]map[string]any),
		staticOrder:     make(map[string][]string),
		variable:        make(map[string]map[string]*RouteItem),
		variableOrder:   make(map[string][]*RouteItem),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddRoute registers one route shape for method. It returns an
// *pattern.InvalidRouteError for duplicate and shadowed routes.
func (g *Generator) AddRoute(method string, shape pattern.Shape, handler any) error {
	if err := shape.Validate(); err != nil {
		return withMethod(err, method)
	}
	if shape.IsStatic() {
		return g.addStatic(method, shape.Path(), handler)
	}
	return g.addVariable(method, shape, handler)
}

func (g *Generator) addStatic(method, path string, handler any) error {
	if _, dup := g.static[method][path]; dup {
		return &pattern.InvalidRouteError{Method: method, Route: path, Err: pattern.ErrDuplicateStatic}
	}

	for _, item := range g.variableOrder[method] {
		if item.Matches(path) {
			return &pattern.InvalidRouteError{
				Method: method,
				Route:  path,
				Err:    pattern.ErrShadowedStatic,
				Detail: fmt.Sprintf("matched by previously defined route %q", item.Template),
			}
		}
	}

	if g.static[method] == nil {
		g.static[method] = make(map[string]any)
	}
	g.static[method][path] = handler
	g.staticOrder[method] = append(g.staticOrder[method], path)

	g.logger.Debug("static route registered", "method", method, "path", path)
	return nil
}

func (g *Generator) addVariable(method string, shape pattern.Shape, handler any) error {
	regex, variables := buildRegex(shape)
	template := shape.String()

	if existing, dup := g.variable[method][regex]; dup {
		return &pattern.InvalidRouteError{
			Method: method,
			Route:  template,
			Err:    pattern.ErrDuplicateVariable,
			Detail: fmt.Sprintf("same pattern as %q", existing.Template),
		}
	}

	re, err := regexp.Compile("^" + regex + "$")
	if err != nil {
		return &pattern.InvalidRouteError{Method: method, Route: template, Err: pattern.ErrInvalidPattern, Detail: err.Error()}
	}

	item := &RouteItem{
		Method:    method,
		Handler:   handler,
		Regex:     regex,
		Variables: variables,
		Template:  template,
		re:        re,
	}

	if g.strictShadowing {
		for _, path := range g.staticOrder[method] {
			if item.Matches(path) {
				return &pattern.InvalidRouteError{
					Method: method,
					Route:  template,
					Err:    pattern.ErrShadowedStatic,
					Detail: fmt.Sprintf("would shadow static route %q", path),
				}
			}
		}
	}

	if g.variable[method] == nil {
		g.variable[method] = make(map[string]*RouteItem)
	}
	g.variable[method][regex] = item
	g.variableOrder[method] = append(g.variableOrder[method], item)

	g.logger.Debug("variable route registered", "method", method, "route", template, "regex", regex)
	return nil
}

// RemoveRoute unregisters a shape added with AddRoute and returns its
// handler. It reports false when the shape is not registered for method.
func (g *Generator) RemoveRoute(method string, shape pattern.Shape) (any, bool) {
	if shape.IsStatic() {
		path := shape.Path()
		handler, ok := g.static[method][path]
		if !ok {
			return nil, false
		}
		delete(g.static[method], path)
		if len(g.static[method]) == 0 {
			delete(g.static, method)
		}
		g.staticOrder[method] = slices.DeleteFunc(g.staticOrder[method], func(p string) bool { return p == path })
		if len(g.staticOrder[method]) == 0 {
			delete(g.staticOrder, method)
		}
		return handler, true
	}

	regex, _ := buildRegex(shape)
	item, ok := g.variable[method][regex]
	if !ok {
		return nil, false
	}
	delete(g.variable[method], regex)
	if len(g.variable[method]) == 0 {
		delete(g.variable, method)
	}
	g.variableOrder[method] = slices.DeleteFunc(g.variableOrder[method], func(it *RouteItem) bool { return it == item })
	if len(g.variableOrder[method]) == 0 {
		delete(g.variableOrder, method)
	}
	return item.Handler, true
}

// buildRegex quotes literal segments and wraps each placeholder pattern in a
// capturing group.
func buildRegex(shape pattern.Shape) (string, []string) {
	var (
		sb        strings.Builder
		variables = make([]string, 0, len(shape))
	)
	for _, seg := range shape {
		if !seg.IsPlaceholder() {
			sb.WriteString(regexp.QuoteMeta(seg.Literal))
			continue
		}
		variables = append(variables, seg.Name)
		sb.WriteByte('(')
		sb.WriteString(seg.Pattern)
		sb.WriteByte(')')
	}
	return sb.String(), variables
}

// Items returns the variable routes of method in registration order.
func (g *Generator) Items(method string) []*RouteItem {
	return slices.Clone(g.variableOrder[method])
}

// Data compiles the registered routes. It does not modify the Generator and
// returns identical chunk regexes when called again without new routes.
func (g *Generator) Data() (*Data, error) {
	d := &Data{
		static:   make(map[string]*StaticTable, len(g.static)),
		variable: make(map[string][]*Chunk, len(g.variableOrder)),
	}

	for method, routes := range g.static {
		d.static[method] = newStaticTable(maps.Clone(routes))
	}

	chunkCount := 0
	for method, items := range g.variableOrder {
		chunks, err := buildChunks(items, g.approxChunkSize)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", method, err)
		}
		d.variable[method] = chunks
		chunkCount += len(chunks)
	}

	methods := make(map[string]struct{}, len(d.static)+len(d.variable))
	for m := range d.static {
		methods[m] = struct{}{}
	}
	for m := range d.variable {
		methods[m] = struct{}{}
	}
	d.methods = slices.Sorted(maps.Keys(methods))

	g.logger.Debug("route data compiled", "methods", len(d.methods), "chunks", chunkCount)
	return d, nil
}

func withMethod(err error, method string) error {
	var ire *pattern.InvalidRouteError
	if errors.As(err, &ire) {
		ire.Method = method
	}
	return err
}
