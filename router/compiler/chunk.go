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
	"fmt"
	"math"
	"regexp"
	"strings"
)

// alternative locates one route inside a chunk regex.
type alternative struct {
	handler   any
	variables []string
	offset    int // group index preceding the route's first variable
}

// Chunk is a bounded batch of variable routes of one method combined into a
// single anchored alternation.
//
// RE2 has no branch-reset groups, so group numbers keep increasing across
// alternatives. Each alternative is followed by an empty marker group "()".
// Only the winning alternative has participating groups, which makes the
// highest participating group its marker; routes is indexed by that number.
type Chunk struct {
	regex  string
	re     *regexp.Regexp
	routes []*alternative // indexed by marker group number
	size   int
}

func buildChunk(items []*RouteItem) (*Chunk, error) {
	var sb strings.Builder
	sb.WriteString("^(?:")

	groups := 0
	markers := make([]int, len(items))
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(item.Regex)
		sb.WriteString("()")
		groups += len(item.Variables) + 1
		markers[i] = groups
	}
	sb.WriteString(")$")

	regex := sb.String()
	re, err := regexp.Compile(regex)
	if err != nil {
		return nil, fmt.Errorf("compile chunk: %w", err)
	}

	routes := make([]*alternative, groups+1)
	for i, item := range items {
		routes[markers[i]] = &alternative{
			handler:   item.Handler,
			variables: item.Variables,
			offset:    markers[i] - len(item.Variables) - 1,
		}
	}

	return &Chunk{regex: regex, re: re, routes: routes, size: len(items)}, nil
}

// Regex returns the combined regular expression of the chunk.
func (c *Chunk) Regex() string {
	return c.regex
}

// Len returns the number of routes in the chunk.
func (c *Chunk) Len() int {
	return c.size
}

// Match matches path against the chunk and extracts the variables of the
// first alternative, in registration order, that matches.
func (c *Chunk) Match(path string) (any, map[string]string, bool) {
	m := c.re.FindStringSubmatchIndex(path)
	if m == nil {
		return nil, nil, false
	}

	g := len(m)/2 - 1
	for g > 0 && m[2*g] < 0 {
		g--
	}
	alt := c.routes[g]
	if alt == nil {
		return nil, nil, false
	}

	vars := make(map[string]string, len(alt.variables))
	for i, name := range alt.variables {
		idx := alt.offset + 1 + i
		vars[name] = path[m[2*idx]:m[2*idx+1]]
	}
	return alt.handler, vars, true
}

// chunkSize spreads n items evenly over round(n/approx) chunks so no chunk
// is left with a small remainder.
func chunkSize(n, approx int) int {
	if n == 0 {
		return 0
	}
	parts := max(1, int(math.Round(float64(n)/float64(approx))))
	return int(math.Ceil(float64(n) / float64(parts)))
}

func buildChunks(items []*RouteItem, approx int) ([]*Chunk, error) {
	size := chunkSize(len(items), approx)
	chunks := make([]*Chunk, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunk, err := buildChunk(items[start:end])
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
