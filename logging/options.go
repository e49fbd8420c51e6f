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

package logging

import (
	"io"
	"log/slog"
)

// WithHandlerType sets the output format. Default: JSONHandler.
func WithHandlerType(t HandlerType) Option {
	return func(c *config) {
		c.handlerType = t
	}
}

// WithOutput sets the destination. Default: os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// WithLevel sets the minimum level. Default: slog.LevelInfo.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithServiceName adds a "service" attribute to every record.
func WithServiceName(name string) Option {
	return func(c *config) {
		c.serviceName = name
	}
}

// WithServiceVersion adds a "version" attribute to every record.
func WithServiceVersion(version string) Option {
	return func(c *config) {
		c.serviceVersion = version
	}
}

// WithEnvironment adds an "env" attribute to every record.
func WithEnvironment(env string) Option {
	return func(c *config) {
		c.environment = env
	}
}

// WithSource includes the source file and line of each call.
func WithSource(enabled bool) Option {
	return func(c *config) {
		c.addSource = enabled
	}
}

// WithTraceContext controls whether trace_id and span_id are added from
// the record's context. Default: true.
func WithTraceContext(enabled bool) Option {
	return func(c *config) {
		c.traceContext = enabled
	}
}

// WithGlobalLogger also installs the logger with slog.SetDefault.
func WithGlobalLogger() Option {
	return func(c *config) {
		c.registerGlobal = true
	}
}
