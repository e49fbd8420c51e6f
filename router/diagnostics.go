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

package router

// DiagnosticEvent is an informational event emitted while routes are
// registered and compiled.
//
// Diagnostic events are optional. The router behaves the same whether they
// are collected or not.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// DiagRouteRegistered is emitted for every shape added to the table.
	DiagRouteRegistered DiagnosticKind = "route_registered"
	// DiagHighParamCount is emitted for shapes with more than 8 placeholders.
	DiagHighParamCount DiagnosticKind = "route_param_count_high"
	// DiagChunkBuilt is emitted for every compiled chunk.
	DiagChunkBuilt DiagnosticKind = "chunk_built"
	// DiagRoutesCompiled is emitted once per successful compilation.
	DiagRoutesCompiled DiagnosticKind = "routes_compiled"
	// DiagH2CEnabled is emitted when Serve wraps the router for h2c.
	DiagH2CEnabled DiagnosticKind = "h2c_enabled"
)

// highParamCount is the placeholder count above which DiagHighParamCount
// is emitted.
const highParamCount = 8

// DiagnosticHandler receives diagnostic events from the router.
//
// Example with logging:
//
//	handler := router.DiagnosticHandlerFunc(func(e router.DiagnosticEvent) {
//	    slog.Debug(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := router.MustNew(router.WithDiagnostics(handler))
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

// OnDiagnostic implements DiagnosticHandler.
func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

func (r *Router) emit(kind DiagnosticKind, msg string, fields map[string]any) {
	if r.diagnostics == nil {
		return
	}
	r.diagnostics.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: msg, Fields: fields})
}
