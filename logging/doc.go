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

// Package logging builds the *slog.Logger used by the router, its middleware
// and the routec command.
//
// Three handlers are available: JSON for production, text (key=value) and
// a colored console handler for development. Every record carries the
// configured service attributes and, when the context holds a recording
// OpenTelemetry span, its trace and span ids:
//
//	logger, err := logging.New(
//	    logging.WithHandlerType(logging.JSONHandler),
//	    logging.WithLevel(slog.LevelDebug),
//	    logging.WithServiceName("api"),
//	)
package logging
