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
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rivaas.dev/fastroute/router/route"
)

type routesCmd struct {
	root   *Root
	output string
	color  bool
}

func newRoutes(root *Root) *routesCmd {
	return &routesCmd{root: root}
}

func (c *routesCmd) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "routes",
		Short:   "List declared routes with their shapes, middleware and targets",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE:    c.run,
	}
	cmd.Flags().StringVarP(&c.output, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&c.color, "color", true, "Colorize the table when writing to a terminal")
	return cmd
}

func (c *routesCmd) run(cmd *cobra.Command, _ []string) error {
	logger, err := c.root.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	l := &loader{root: c.root, logger: logger}
	r, _, err := l.newRouter()
	if err != nil {
		return err
	}

	infos := r.Routes()
	if ok, err := display(cmd.OutOrStdout(), infos, c.output); ok {
		return err
	}
	renderRoutes(cmd.OutOrStdout(), infos, c.color)
	return nil
}

var methodStyles = map[string]lipgloss.Style{
	http.MethodGet:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	http.MethodPost:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	http.MethodPut:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	http.MethodDelete:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	http.MethodPatch:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	http.MethodHead:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	http.MethodOptions: lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true),
	route.MethodAny:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
}

// renderRoutes writes a bordered table. Colors are downsampled to what the
// writer supports and stripped entirely for non-terminals.
func renderRoutes(w io.Writer, infos []route.Info, useColors bool) {
	cpw := colorprofile.NewWriter(w, os.Environ())
	if !useColors {
		cpw.Profile = colorprofile.NoTTY
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		method := info.Method
		if style, ok := methodStyles[method]; ok {
			method = style.Render(method)
		}
		name := info.Name
		if name == "" {
			name = "-"
		}
		mw := strings.Join(info.Middleware, ",")
		if mw == "" {
			mw = "-"
		}
		rows = append(rows, []string{method, info.Template, strings.Join(info.Shapes, "\n"), name, mw, info.Target})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				style = style.Bold(true).Foreground(lipgloss.Color("230"))
			}
			return style
		}).
		Headers("Method", "Template", "Shapes", "Name", "Middleware", "Target").
		Rows(rows...)

	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			t = t.Width(width)
		}
	}

	_, _ = fmt.Fprintln(cpw, t.Render())
	_, _ = fmt.Fprintf(cpw, "%d routes\n", len(infos))
}
