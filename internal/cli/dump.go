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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rivaas.dev/fastroute/router/compiler"
)

type dumpCmd struct {
	root   *Root
	output string
}

func newDump(root *Root) *dumpCmd {
	return &dumpCmd{root: root}
}

func (c *dumpCmd) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Compile the manifests and print the static tables and chunk regexes",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	cmd.Flags().StringVarP(&c.output, "output", "o", "text", "Output format (text, json, yaml)")
	return cmd
}

// methodDump is the serialized form of one method's compiled routes.
type methodDump struct {
	Method   string      `json:"method"`
	Static   []string    `json:"static,omitempty"`
	Filtered bool        `json:"bloom_filter,omitempty"`
	Chunks   []chunkDump `json:"chunks,omitempty"`
}

type chunkDump struct {
	Routes int    `json:"routes"`
	Regex  string `json:"regex"`
}

func dumpData(data *compiler.Data) []methodDump {
	out := make([]methodDump, 0, len(data.Methods()))
	for _, m := range data.Methods() {
		md := methodDump{
			Method:   m,
			Static:   data.Static(m).Paths(),
			Filtered: data.Static(m).Filtered(),
		}
		for _, ch := range data.Chunks(m) {
			md.Chunks = append(md.Chunks, chunkDump{Routes: ch.Len(), Regex: ch.Regex()})
		}
		out = append(out, md)
	}
	return out
}

func (c *dumpCmd) run(cmd *cobra.Command, _ []string) error {
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

	dump := dumpData(r.Data())
	if ok, err := display(cmd.OutOrStdout(), dump, c.output); ok {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, md := range dump {
		filter := ""
		if md.Filtered {
			filter = " (bloom filter)"
		}
		_, _ = fmt.Fprintf(tw, "%s\n", md.Method)
		_, _ = fmt.Fprintf(tw, "  static%s:\t%d\n", filter, len(md.Static))
		for _, p := range md.Static {
			_, _ = fmt.Fprintf(tw, "    %s\t\n", p)
		}
		for i, ch := range md.Chunks {
			_, _ = fmt.Fprintf(tw, "  chunk %d:\t%d routes\n", i, ch.Routes)
			_, _ = fmt.Fprintf(tw, "    %s\t\n", ch.Regex)
		}
	}
	return tw.Flush()
}
