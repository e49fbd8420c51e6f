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

// Package compiler builds the route table used by the dispatcher.
//
// Routes are added one shape at a time with Generator.AddRoute. Shapes
// without placeholders are static routes and go into a per-method map.
// Shapes with placeholders are variable routes: each becomes a RouteItem
// holding a regex with one capturing group per placeholder.
//
// # Chunks
//
// Testing every variable route regex in turn costs one regex evaluation per
// route. Generator.Data instead combines the routes of a method into chunks
// of about DefaultChunkSize routes, each compiled into one alternation:
//
//	^(?:/user/([0-9]+)()|/user/([0-9]+)/([a-z]+)()|/post/([^/]+)())$
//
// A request is then matched with one evaluation per chunk. The empty group
// closing each alternative is a marker: since Go regular expressions have no
// branch-reset construct, the index of the highest participating group
// identifies the alternative that matched and, through it, the handler and
// variable groups.
//
// Chunk sizes are balanced: n routes are spread over round(n/size) chunks.
//
// # Declaration errors
//
// AddRoute rejects, with a *pattern.InvalidRouteError:
//
//   - a static path registered twice for a method;
//   - a static path already matched by a variable route of the same method;
//   - two variable routes of a method compiling to the same regex.
//
// # Static tables
//
// Static tables with ten or more routes carry a bloom filter so that paths
// which are certainly absent skip the map lookup.
//
// # Thread Safety
//
// Generator is meant for single-threaded use during startup. Data and
// everything reachable from it is immutable and safe for concurrent reads.
package compiler
