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

// Package pattern parses route templates into concrete route shapes.
//
// A template is made of literal text, placeholders and optional trailing
// parts:
//
//	/user/{id:[0-9]+}[/{tab}]
//
// Placeholders are written as {name} or {name:regex}. A placeholder without
// a regex matches a single path segment ([^/]+). The regex may contain
// balanced braces, for example {code:[a-z]{2}}.
//
// Optional parts are enclosed in square brackets and may only appear at the
// end of a template. Nested optionals form a suffix chain:
//
//	/archive[/{year}[/{month}]]
//
// A template with k optional parts expands into k+1 shapes, from the
// shortest to the longest:
//
//	shapes, err := pattern.Parse("/archive[/{year}[/{month}]]")
//	// shapes[0]: /archive
//	// shapes[1]: /archive/{year}
//	// shapes[2]: /archive/{year}/{month}
//
// Parse fails with an *InvalidRouteError when brackets are unbalanced, an
// optional part is not trailing, a placeholder name repeats, or a placeholder
// regex contains a capturing group. Capturing groups are rejected because the
// compiler relies on every placeholder owning exactly one group.
package pattern
