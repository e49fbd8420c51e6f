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

// Package router is an HTTP router built on a compiled route table.
//
// Routes are declared with templates such as
//
//	/user/{id:[0-9]+}[/{tab:[a-z]+}]
//
// where {name} and {name:regex} are placeholders and trailing [...] parts
// are optional. Each template expands into one concrete shape per optional
// part. Static shapes go into a hash table; variable shapes are combined
// into chunks of about ten alternatives per regular expression, so a lookup
// costs one regex evaluation per chunk rather than one per route.
//
// Conflicting declarations are rejected when they are made:
//
//	r.Get("/user/{name}", byName)
//	err := r.Get("/user/me", me) // pattern.ErrShadowedStatic
//
// # Packages
//
//   - pattern parses templates into shapes
//   - compiler builds static tables and chunks
//   - dispatch resolves (method, URI) to a route
//   - route collects declarations through nested groups
//
// This package ties them to net/http.
//
// # Middleware
//
// Middleware are registered by name and referenced by name from groups and
// routes. Names are resolved when the table is compiled, so a typo fails
// Compile instead of a request:
//
//	r.Use("auth", authMiddleware)
//	r.Group("/admin", func(s route.Scope) error {
//	    return s.Get("/stats", stats)
//	}, route.WithMiddleware("auth"))
//
// # Responses
//
// Unmatched requests get RFC 9457 problem responses: 405 with an Allow
// header when other methods match the path, 404 otherwise. HEAD requests
// are served by GET routes unless a HEAD route exists, and routes declared
// with Any serve every method without a route of its own.
//
// # Observability
//
// Each request gets an OpenTelemetry span named after the matched route and
// increments router.dispatch.total, labelled with the dispatch result. The
// time spent resolving the route is recorded in router.dispatch.duration.
package router
