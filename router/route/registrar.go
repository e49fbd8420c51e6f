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
	"errors"
	"strings"

	"rivaas.dev/fastroute/router/compiler"
	"rivaas.dev/fastroute/router/pattern"
)

var (
	// ErrNoMethods is returned when a route is declared without methods.
	ErrNoMethods = errors.New("route declared without methods")
	// ErrNilTarget is returned when a route target is nil.
	ErrNilTarget = errors.New("route target is nil")
	// ErrUnsupportedTarget is returned for targets outside the supported set.
	ErrUnsupportedTarget = errors.New("unsupported route target")
)

// Builder is implemented by route table builders such as *compiler.Generator.
type Builder interface {
	AddRoute(method string, shape pattern.Shape, handler any) error
}

// Remover is implemented by builders that can undo AddRoute. When the
// builder is a Remover, a declaration that fails part way is rolled back so
// none of its shapes stay registered.
type Remover interface {
	RemoveRoute(method string, shape pattern.Shape) (any, bool)
}

// Collector records route declarations and forwards their shapes to a
// Builder. Its embedded root Scope has no prefix and no middleware.
type Collector struct {
	Scope

	builder Builder
	routes  []Info
}

// NewCollector returns a Collector feeding b.
func NewCollector(b Builder) *Collector {
	c := &Collector{builder: b}
	c.Scope = Scope{c: c}
	return c
}

// Routes returns every declared route in declaration order.
func (c *Collector) Routes() []Info {
	out := make([]Info, len(c.routes))
	copy(out, c.routes)
	return out
}

// MiddlewareNames returns the distinct middleware names referenced by any
// declared route, in first-use order.
func (c *Collector) MiddlewareNames() []string {
	var names []string
	for _, r := range c.routes {
		names = merge(names, r.Middleware)
	}
	return names
}

func (c *Collector) add(s Scope, methods []string, path string, target any, cfg *config) error {
	if len(methods) == 0 {
		return ErrNoMethods
	}
	if err := checkTarget(target); err != nil {
		return err
	}

	template := s.prefix + path
	shapes, err := pattern.Parse(template)
	if err != nil {
		var ire *pattern.InvalidRouteError
		if len(methods) == 1 && errors.As(err, &ire) {
			ire.Method = strings.ToUpper(methods[0])
		}
		return err
	}

	middleware := merge(s.middleware, cfg.middleware)
	name := ""
	if cfg.name != "" {
		name = s.namePrefix + cfg.name
	}
	shapeStrings := make([]string, len(shapes))
	for i, shape := range shapes {
		shapeStrings[i] = shape.String()
	}

	type registered struct {
		method string
		shape  pattern.Shape
	}
	var done []registered
	infos := make([]Info, 0, len(methods))

	for _, m := range methods {
		method := strings.ToUpper(m)
		h := &Handler{
			Target:     target,
			Middleware: middleware,
			Name:       name,
			Method:     method,
			Template:   template,
		}
		for _, shape := range shapes {
			if err := c.builder.AddRoute(method, shape, h); err != nil {
				if r, ok := c.builder.(Remover); ok {
					for i := len(done) - 1; i >= 0; i-- {
						r.RemoveRoute(done[i].method, done[i].shape)
					}
				}
				return err
			}
			done = append(done, registered{method, shape})
		}
		infos = append(infos, Info{
			Method:     method,
			Template:   template,
			Shapes:     shapeStrings,
			Middleware: middleware,
			Target:     TargetName(target),
			Name:       name,
		})
	}
	c.routes = append(c.routes, infos...)
	return nil
}

// MethodAny is the wildcard method used by Scope.Any.
const MethodAny = compiler.MethodAny
