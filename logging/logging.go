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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// HandlerType represents the type of logging handler.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
	// ConsoleHandler outputs human-readable colored logs.
	ConsoleHandler HandlerType = "console"
)

var (
	// ErrNilOutput indicates that the output writer is nil.
	ErrNilOutput = errors.New("logging: output writer is nil")
	// ErrUnknownHandler indicates an unsupported handler type.
	ErrUnknownHandler = errors.New("logging: unknown handler type")
	// ErrUnknownLevel indicates a level name ParseLevel does not know.
	ErrUnknownLevel = errors.New("logging: unknown level")
)

// Option is a functional option for configuring the logger.
type Option func(*config)

type config struct {
	handlerType    HandlerType
	output         io.Writer
	level          slog.Level
	serviceName    string
	serviceVersion string
	environment    string
	addSource      bool
	traceContext   bool
	registerGlobal bool
}

func defaultConfig() *config {
	return &config{
		handlerType:  JSONHandler,
		output:       os.Stderr,
		level:        slog.LevelInfo,
		traceContext: true,
	}
}

func (c *config) validate() error {
	if c.output == nil {
		return ErrNilOutput
	}
	switch c.handlerType {
	case JSONHandler, TextHandler, ConsoleHandler:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownHandler, c.handlerType)
	}
}

// New builds a logger from opts.
func New(opts ...Option) (*slog.Logger, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	hopts := &slog.HandlerOptions{Level: cfg.level, AddSource: cfg.addSource}
	var h slog.Handler
	switch cfg.handlerType {
	case TextHandler:
		h = slog.NewTextHandler(cfg.output, hopts)
	case ConsoleHandler:
		h = newConsoleHandler(cfg.output, hopts)
	default:
		h = slog.NewJSONHandler(cfg.output, hopts)
	}
	if cfg.traceContext {
		h = &traceHandler{Handler: h}
	}

	logger := slog.New(h)
	var attrs []any
	if cfg.serviceName != "" {
		attrs = append(attrs, slog.String("service", cfg.serviceName))
	}
	if cfg.serviceVersion != "" {
		attrs = append(attrs, slog.String("version", cfg.serviceVersion))
	}
	if cfg.environment != "" {
		attrs = append(attrs, slog.String("env", cfg.environment))
	}
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}

	if cfg.registerGlobal {
		slog.SetDefault(logger)
	}
	return logger, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *slog.Logger {
	logger, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return logger
}

// ParseLevel converts "debug", "info", "warn" or "error" to a level.
// The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}
