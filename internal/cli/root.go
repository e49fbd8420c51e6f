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

// Package cli implements the routec command: inspecting, testing and
// serving route manifests.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"rivaas.dev/fastroute/logging"
	"rivaas.dev/fastroute/manifest"
	"rivaas.dev/fastroute/router"
	"rivaas.dev/fastroute/router/compiler"
	"rivaas.dev/fastroute/router/middleware/accesslog"
	"rivaas.dev/fastroute/router/middleware/bodylimit"
	"rivaas.dev/fastroute/router/middleware/compression"
	"rivaas.dev/fastroute/router/middleware/recovery"
	"rivaas.dev/fastroute/router/middleware/requestid"
	"rivaas.dev/fastroute/router/middleware/security"
	"rivaas.dev/fastroute/router/middleware/timeout"
	"rivaas.dev/fastroute/router/route"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// Root holds the flags shared by every subcommand.
type Root struct {
	Files           []string
	RootPath        string
	ChunkSize       int
	StrictShadowing bool
	LogLevel        string
	LogFormat       string
}

// New returns the routec root command.
func New() *cobra.Command {
	o := &Root{}

	cmd := &cobra.Command{
		Use:           "routec",
		Short:         "Compile, inspect and serve route manifests",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `
  # List the routes declared in routes.yaml
  routec routes -f routes.yaml

  # Show which route a request would hit
  routec match -f routes.yaml GET /user/42/posts
`,
	}
	cmd.CompletionOptions.HiddenDefaultCmd = true

	flags := cmd.PersistentFlags()
	flags.StringSliceVarP(&o.Files, "file", "f", []string{"routes.yaml"}, "Route manifest files, merged in order (yaml, toml or json)")
	flags.StringVar(&o.RootPath, "root-path", "", "Path prefix stripped before matching (default: the manifest's root_path)")
	flags.IntVar(&o.ChunkSize, "chunk-size", compiler.DefaultChunkSize, "Approximate number of routes per regex chunk")
	flags.BoolVar(&o.StrictShadowing, "strict-shadowing", false, "Also reject dynamic routes that match a static route declared before them")
	flags.StringVar(&o.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&o.LogFormat, "log-format", "console", "Log format (json, text, console)")

	cmd.AddCommand(
		newRoutes(o).command(),
		newDump(o).command(),
		newMatch(o).command(),
		newServe(o).command(),
	)
	return cmd
}

func (o *Root) logger(w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithHandlerType(logging.HandlerType(o.LogFormat)),
		logging.WithServiceName("routec"),
		logging.WithServiceVersion(Version),
	)
}

// builtinMiddleware lists the middleware names routec provides.
var builtinMiddleware = []string{
	"requestid", "accesslog", "recovery", "compression", "security", "timeout", "bodylimit",
}

// loader builds routers from the manifest files.
type loader struct {
	root   *Root
	logger *slog.Logger
}

func (l *loader) manifest() (*manifest.Manifest, error) {
	return manifest.LoadFiles(l.root.Files...)
}

// rootPath is the --root-path flag, falling back to the manifest's root_path.
func (l *loader) rootPath(m *manifest.Manifest) string {
	if l.root.RootPath != "" {
		return l.root.RootPath
	}
	return m.RootPath
}

// newRouter loads the manifests and declares their routes on a fresh router.
// The table is not compiled.
func (l *loader) newRouter(opts ...router.Option) (*router.Router, *manifest.Manifest, error) {
	m, err := l.manifest()
	if err != nil {
		return nil, nil, err
	}
	base := []router.Option{
		router.WithRootPath(l.rootPath(m)),
		router.WithChunkSize(l.root.ChunkSize),
		router.WithStrictShadowing(l.root.StrictShadowing),
		router.WithLogger(l.logger),
		router.WithActionResolver(func(a route.Action) (http.Handler, error) {
			return echoHandler(a.String()), nil
		}),
	}
	r, err := router.New(append(base, opts...)...)
	if err != nil {
		return nil, nil, err
	}

	for name, mw := range map[string]router.Middleware{
		"requestid":   requestid.New(),
		"accesslog":   accesslog.New(accesslog.WithLogger(l.logger)),
		"recovery":    recovery.New(recovery.WithLogger(l.logger)),
		"compression": compression.New(compression.WithLogger(l.logger)),
		"security":    security.New(),
		"timeout":     timeout.New(timeout.WithLogger(l.logger)),
		"bodylimit":   bodylimit.New(),
	} {
		if err := r.Use(name, mw); err != nil {
			return nil, nil, err
		}
	}
	if err := l.registerUnknown(r, m); err != nil {
		return nil, nil, err
	}
	if err := m.Apply(r.Scope(), resolver); err != nil {
		return nil, nil, err
	}
	return r, m, nil
}

// registerUnknown registers a pass-through for middleware names the manifest
// uses but routec does not provide, so the table still compiles.
func (l *loader) registerUnknown(r *router.Router, m *manifest.Manifest) error {
	for _, name := range m.MiddlewareNames() {
		if isBuiltin(name) {
			continue
		}
		l.logger.Warn("middleware not provided by routec, using pass-through", "middleware", name)
		if err := r.Use(name, passthrough); err != nil {
			return err
		}
	}
	return nil
}

func isBuiltin(name string) bool {
	for _, b := range builtinMiddleware {
		if b == name {
			return true
		}
	}
	return false
}

func passthrough(next http.Handler) http.Handler { return next }

// resolver turns every handler name into an echo handler.
var resolver = manifest.ResolverFunc(func(name string) (any, error) {
	return echoHandler(name), nil
})

// echoHandler responds with the matched route, the target name and the
// path variables as JSON.
func echoHandler(target string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body := map[string]any{
			"target": target,
			"vars":   router.Vars(req),
		}
		if h := router.CurrentRoute(req); h != nil {
			body["route"] = h.Template
			body["method"] = h.Method
			if h.Name != "" {
				body["name"] = h.Name
			}
		}
		if id := requestid.Get(req.Context()); id != "" {
			body["request_id"] = id
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
}

// display writes obj as JSON or YAML and reports whether format was one of
// those.
func display(w io.Writer, obj any, format string) (bool, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return true, err
		}
		_, err = fmt.Fprintln(w, string(data))
		return true, err
	case "yaml":
		data, err := yaml.Marshal(obj)
		if err != nil {
			return true, err
		}
		_, err = fmt.Fprint(w, string(data))
		return true, err
	default:
		return false, nil
	}
}
