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

package pattern

import (
	"errors"
	"strings"
)

// Parse expands a route template into its concrete shapes, shortest first.
// The returned error is always an *InvalidRouteError.
func Parse(template string) ([]Shape, error) {
	trimmed := strings.TrimRight(template, "]")
	numOptionals := len(template) - len(trimmed)

	if hasClosingBracket(trimmed) {
		return nil, invalid(template, ErrOptionalNotTrailing, "")
	}
	parts := splitOptionals(trimmed)
	if numOptionals != len(parts)-1 {
		return nil, invalid(template, ErrUnbalancedOptional, "")
	}

	shapes := make([]Shape, 0, len(parts))
	var current strings.Builder
	for i, part := range parts {
		if part == "" && i != 0 {
			return nil, invalid(template, ErrEmptyOptional, "")
		}
		current.WriteString(part)

		shape := parseShape(current.String())
		if err := shape.Validate(); err != nil {
			var ire *InvalidRouteError
			if errors.As(err, &ire) {
				ire.Route = template
			}
			return nil, err
		}
		shapes = append(shapes, shape)
	}

	return shapes, nil
}

// MustParse is like Parse but panics on error.
func MustParse(template string) []Shape {
	shapes, err := Parse(template)
	if err != nil {
		panic(err)
	}
	return shapes
}

// splitOptionals splits s at every '[' that is not part of a placeholder.
func splitOptionals(s string) []string {
	parts := make([]string, 0, 2)
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if end, _, _, ok := scanPlaceholder(s, i); ok {
				i = end - 1
			}
		case '[':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// hasClosingBracket reports whether s contains a ']' outside placeholders.
func hasClosingBracket(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if end, _, _, ok := scanPlaceholder(s, i); ok {
				i = end - 1
			}
		case ']':
			return true
		}
	}
	return false
}

// parseShape splits an optional-free template into literal and placeholder
// segments. Adjacent literal text is merged into one segment.
func parseShape(s string) Shape {
	var (
		shape   Shape
		literal strings.Builder
	)
	for i := 0; i < len(s); i++ {
		if s[i] == '{' {
			if end, name, pat, ok := scanPlaceholder(s, i); ok {
				if literal.Len() > 0 {
					shape = append(shape, Lit(literal.String()))
					literal.Reset()
				}
				shape = append(shape, Var(name, pat))
				i = end - 1
				continue
			}
		}
		literal.WriteByte(s[i])
	}
	if literal.Len() > 0 {
		shape = append(shape, Lit(literal.String()))
	}
	return shape
}

// scanPlaceholder reads a placeholder starting at s[i] == '{'. It returns the
// offset just past the closing brace. Braces inside the regex part must be
// balanced. ok is false when s[i:] does not start with a placeholder, in
// which case the brace is literal text.
func scanPlaceholder(s string, i int) (end int, name, pat string, ok bool) {
	j := skipSpace(s, i+1)
	nameStart := j
	if j >= len(s) || !isNameStart(s[j]) {
		return 0, "", "", false
	}
	for j < len(s) && isNameChar(s[j]) {
		j++
	}
	name = s[nameStart:j]
	j = skipSpace(s, j)
	if j >= len(s) {
		return 0, "", "", false
	}

	switch s[j] {
	case '}':
		return j + 1, name, "", true
	case ':':
	default:
		return 0, "", "", false
	}

	j = skipSpace(s, j+1)
	patStart := j
	depth := 0
	for ; j < len(s); j++ {
		switch s[j] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return j + 1, name, strings.TrimSpace(s[patStart:j]), true
			}
			depth--
		}
	}
	return 0, "", "", false
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r' || s[i] == '\f' || s[i] == '\v') {
		i++
	}
	return i
}

func isNameStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c == '-' || ('0' <= c && c <= '9')
}
