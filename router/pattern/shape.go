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
	"regexp"
	"strings"
)

// DefaultPattern is the regex used by placeholders declared without one.
const DefaultPattern = `[^/]+`

// Segment is one part of a route shape: either literal text or a placeholder.
type Segment struct {
	Literal string // literal text, empty for placeholders
	Name    string // placeholder name, empty for literals
	Pattern string // placeholder regex fragment
}

// IsPlaceholder reports whether the segment is a placeholder.
func (s Segment) IsPlaceholder() bool {
	return s.Name != ""
}

// Lit returns a literal segment.
func Lit(text string) Segment {
	return Segment{Literal: text}
}

// Var returns a placeholder segment. An empty pattern selects DefaultPattern.
func Var(name, pattern string) Segment {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return Segment{Name: name, Pattern: pattern}
}

// Shape is an ordered sequence of segments describing one concrete route.
type Shape []Segment

// IsStatic reports whether the shape has no placeholders.
func (s Shape) IsStatic() bool {
	for _, seg := range s {
		if seg.IsPlaceholder() {
			return false
		}
	}
	return true
}

// Path returns the concatenated literal text. It is the match key of a
// static shape.
func (s Shape) Path() string {
	var sb strings.Builder
	for _, seg := range s {
		sb.WriteString(seg.Literal)
	}
	return sb.String()
}

// Variables returns the placeholder names in declaration order.
func (s Shape) Variables() []string {
	var names []string
	for _, seg := range s {
		if seg.IsPlaceholder() {
			names = append(names, seg.Name)
		}
	}
	return names
}

// String renders the shape back into template syntax.
func (s Shape) String() string {
	var sb strings.Builder
	for _, seg := range s {
		if !seg.IsPlaceholder() {
			sb.WriteString(seg.Literal)
			continue
		}
		sb.WriteByte('{')
		sb.WriteString(seg.Name)
		if seg.Pattern != DefaultPattern {
			sb.WriteByte(':')
			sb.WriteString(seg.Pattern)
		}
		sb.WriteByte('}')
	}
	return sb.String()
}

// Validate checks the placeholder rules of a shape: unique names and
// regex fragments that compile without capturing groups. Shapes returned
// by Parse are already valid.
func (s Shape) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, seg := range s {
		if !seg.IsPlaceholder() {
			continue
		}
		if _, dup := seen[seg.Name]; dup {
			return invalid(s.String(), ErrDuplicatePlaceholder, seg.Name)
		}
		seen[seg.Name] = struct{}{}

		re, err := regexp.Compile(seg.Pattern)
		if err != nil {
			return invalid(s.String(), ErrInvalidPattern, err.Error())
		}
		// Every placeholder must own exactly one group in the compiled route.
		if re.NumSubexp() > 0 {
			return invalid(s.String(), ErrCapturingGroup, seg.Pattern)
		}
	}
	return nil
}
