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

package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/fastroute/router/dispatch"
	"rivaas.dev/fastroute/router/route"
)

// ErrNoMatch is returned by match when the request resolves to no route,
// so scripts can rely on the exit status.
var ErrNoMatch = errors.New("no route matched")

type matchCmd struct {
	root   *Root
	output string
}

func newMatch(root *Root) *matchCmd {
	return &matchCmd{root: root}
}

func (c *matchCmd) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match METHOD URI",
		Short: "Dispatch a request against the compiled manifests and print the result",
		Args:  cobra.ExactArgs(2),
		Example: `
  routec match GET '/user/42/posts?page=2'
  routec match -o json DELETE /admin/settings
`,
		RunE: c.run,
	}
	cmd.Flags().StringVarP(&c.output, "output", "o", "text", "Output format (text, json, yaml)")
	return cmd
}

// matchResult is the serialized form of a dispatch result.
type matchResult struct {
	Status         string            `json:"status"`
	Route          string            `json:"route,omitempty"`
	Method         string            `json:"method,omitempty"`
	Name           string            `json:"name,omitempty"`
	Target         string            `json:"target,omitempty"`
	Middleware     []string          `json:"middleware,omitempty"`
	Vars           map[string]string `json:"vars,omitempty"`
	AllowedMethods []string          `json:"allowed_methods,omitempty"`
}

func toMatchResult(res dispatch.Result) matchResult {
	out := matchResult{Status: res.Status.String(), Vars: res.Vars, AllowedMethods: res.AllowedMethods}
	if h, ok := res.Handler.(*route.Handler); ok {
		out.Route = h.Template
		out.Method = h.Method
		out.Name = h.Name
		out.Target = route.TargetName(h.Target)
		out.Middleware = h.Middleware
	}
	return out
}

func (c *matchCmd) run(cmd *cobra.Command, args []string) error {
	logger, err := c.root.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	l := &loader{root: c.root, logger: logger}
	r, _, err := l.newRouter()
	if err != nil {
		return err
	}
	if err := r.Compile(); err != nil {
		return err
	}

	res := toMatchResult(r.Dispatch(strings.ToUpper(args[0]), args[1]))
	if ok, err := display(cmd.OutOrStdout(), res, c.output); ok {
		if err != nil {
			return err
		}
	} else {
		printMatch(cmd, res)
	}
	if res.Status != dispatch.Found.String() {
		return fmt.Errorf("%w: %s %s", ErrNoMatch, args[0], args[1])
	}
	return nil
}

func printMatch(cmd *cobra.Command, res matchResult) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "status:  %s\n", res.Status)
	switch {
	case res.Route != "":
		_, _ = fmt.Fprintf(w, "route:   %s %s\n", res.Method, res.Route)
		if res.Name != "" {
			_, _ = fmt.Fprintf(w, "name:    %s\n", res.Name)
		}
		_, _ = fmt.Fprintf(w, "target:  %s\n", res.Target)
		if len(res.Middleware) > 0 {
			_, _ = fmt.Fprintf(w, "chain:   %s\n", strings.Join(res.Middleware, " -> "))
		}
		keys := make([]string, 0, len(res.Vars))
		for k := range res.Vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "var:     %s=%s\n", k, res.Vars[k])
		}
	case len(res.AllowedMethods) > 0:
		_, _ = fmt.Fprintf(w, "allow:   %s\n", strings.Join(res.AllowedMethods, ", "))
	}
}
