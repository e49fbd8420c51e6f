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

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"rivaas.dev/fastroute/router/dispatch"
	"rivaas.dev/fastroute/router/route"
)

// table is an immutable compiled snapshot. It is published through an
// atomic pointer and never modified afterwards.
type table struct {
	dispatcher *dispatch.Dispatcher
	chains     map[*route.Handler]http.Handler
}

// Compile builds the route table from every route declared so far and
// publishes it. It fails when a route references unknown middleware or an
// Action cannot be resolved; the previously published table stays in place.
//
// Compile may be called again after declaring more routes.
func (r *Router) Compile() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.build(r.builder, r.rootPath)
	if err != nil {
		return err
	}
	r.table.Store(t)
	return nil
}

// Reload replaces every declared route with those declared by fn and
// publishes the new table. Requests in flight finish on the old table. On
// error nothing changes, including the root path.
//
// Example:
//
//	err := r.Reload(func(s route.Scope) error {
//	    return m.Apply(s, handlers)
//	}, router.ReloadRootPath(m.RootPath))
func (r *Router) Reload(fn func(route.Scope) error, opts ...ReloadOption) error {
	r.mu.Lock()
	cfg := reloadConfig{rootPath: r.rootPath}
	r.mu.Unlock()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rootPath != "" && !strings.HasPrefix(cfg.rootPath, "/") {
		return fmt.Errorf("%w: %q", ErrRootPathInvalid, cfg.rootPath)
	}

	b, c := r.newRegistration()
	if err := fn(c.Scope); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.build(b, cfg.rootPath)
	if err != nil {
		return err
	}
	if cfg.rootPath != r.rootPath {
		r.logger.Info("root path changed", slog.String("from", r.rootPath), slog.String("to", cfg.rootPath))
	}
	r.builder, r.collector, r.rootPath = b, c, cfg.rootPath
	r.table.Store(t)
	r.logger.Info("route table reloaded", slog.Int("routes", len(c.Routes())))
	return nil
}

// RootPath returns the prefix currently stripped before matching.
func (r *Router) RootPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rootPath
}

// ensureCompiled compiles on first use when Compile was never called.
func (r *Router) ensureCompiled() (*table, error) {
	if t := r.table.Load(); t != nil {
		return t, nil
	}
	if err := r.Compile(); err != nil {
		return nil, err
	}
	return r.table.Load(), nil
}

func (r *Router) build(b *builder, rootPath string) (*table, error) {
	data, err := b.Data()
	if err != nil {
		return nil, err
	}

	chains := make(map[*route.Handler]http.Handler, len(b.handlers))
	for _, h := range b.handlers {
		chain, err := r.chain(h)
		if err != nil {
			return nil, err
		}
		chains[h] = chain
	}

	var opts []dispatch.Option
	if rootPath != "" {
		opts = append(opts, dispatch.WithRootPath(rootPath))
	}

	chunks := 0
	for _, m := range data.Methods() {
		for i, c := range data.Chunks(m) {
			chunks++
			r.emit(DiagChunkBuilt, "chunk built", map[string]any{
				"method": m,
				"index":  i,
				"routes": c.Len(),
				"regex":  c.Regex(),
			})
		}
	}
	r.emit(DiagRoutesCompiled, "routes compiled", map[string]any{
		"methods":  len(data.Methods()),
		"handlers": len(b.handlers),
		"chunks":   chunks,
	})
	r.logger.LogAttrs(context.Background(), slog.LevelDebug, "routes compiled",
		slog.Int("methods", len(data.Methods())),
		slog.Int("handlers", len(b.handlers)),
		slog.Int("chunks", chunks),
	)

	return &table{dispatcher: dispatch.New(data, opts...), chains: chains}, nil
}

// chain resolves the target of h and wraps it in its middleware, the first
// name being the outermost.
func (r *Router) chain(h *route.Handler) (http.Handler, error) {
	target, err := r.resolve(h)
	if err != nil {
		return nil, err
	}
	for i := len(h.Middleware) - 1; i >= 0; i-- {
		name := h.Middleware[i]
		mw, ok := r.middleware[name]
		if !ok {
			return nil, fmt.Errorf("%w %q on %s %s", ErrUnknownMiddleware, name, h.Method, h.Template)
		}
		target = mw(target)
	}
	return target, nil
}

func (r *Router) resolve(h *route.Handler) (http.Handler, error) {
	switch t := h.Target.(type) {
	case http.Handler:
		return t, nil
	case func(http.ResponseWriter, *http.Request):
		return http.HandlerFunc(t), nil
	case route.Action:
		return r.resolveAction(h, t)
	case *route.Action:
		return r.resolveAction(h, *t)
	default:
		return nil, fmt.Errorf("%w: %T", route.ErrUnsupportedTarget, h.Target)
	}
}

func (r *Router) resolveAction(h *route.Handler, a route.Action) (http.Handler, error) {
	if r.resolver == nil {
		return nil, fmt.Errorf("%w for %s on %s %s", ErrNoActionResolver, a, h.Method, h.Template)
	}
	handler, err := r.resolver(a)
	if err != nil {
		return nil, fmt.Errorf("resolve %s on %s %s: %w", a, h.Method, h.Template, err)
	}
	if handler == nil {
		return nil, fmt.Errorf("resolve %s on %s %s: resolver returned nil", a, h.Method, h.Template)
	}
	return handler, nil
}
