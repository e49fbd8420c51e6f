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
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
)

type bannerInfo struct {
	addr        string
	metricsAddr string
	tracing     string
	h2c         bool
	routes      int
}

// printBanner writes the ASCII-art name followed by the listen addresses.
func printBanner(w io.Writer, info bannerInfo) {
	cpw := colorprofile.NewWriter(w, os.Environ())

	gradient := []string{"12", "14", "10", "11"}
	var art strings.Builder
	for _, line := range figure.NewFigure("routec", "", false).Slicify() {
		if strings.TrimSpace(line) == "" {
			art.WriteString("\n")
			continue
		}
		for i, char := range line {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradient[i%len(gradient)])).Bold(true)
			art.WriteString(style.Render(string(char)))
		}
		art.WriteString("\n")
	}

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(12).PaddingLeft(2)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	disabledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	line := func(label, value string) string {
		return labelStyle.Render(label) + "  " + value + "\n"
	}

	var out strings.Builder
	out.WriteString(line("Version:", valueStyle.Render(Version)))
	out.WriteString(line("Address:", valueStyle.Render(displayAddr(info.addr))))
	out.WriteString(line("Routes:", valueStyle.Render(strconv.Itoa(info.routes))))
	if info.metricsAddr != "" {
		out.WriteString(line("Metrics:", valueStyle.Render(displayAddr(info.metricsAddr)+"/metrics")))
	} else {
		out.WriteString(line("Metrics:", disabledStyle.Render("Disabled")))
	}
	out.WriteString(line("Tracing:", valueStyle.Render(info.tracing)))
	if info.h2c {
		out.WriteString(line("Protocol:", valueStyle.Render("HTTP/1.1, h2c")))
	}

	_, _ = fmt.Fprintln(cpw)
	_, _ = fmt.Fprint(cpw, art.String())
	_, _ = fmt.Fprintln(cpw)
	_, _ = fmt.Fprint(cpw, out.String())
	_, _ = fmt.Fprintln(cpw)
}

// displayAddr turns ":8080" into "http://0.0.0.0:8080".
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "0.0.0.0" + addr
	}
	return "http://" + addr
}
