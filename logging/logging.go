// Copyright 2026 The GeneLab DAPI Authors
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

// Package logging builds the service's structured slog logger: handler
// selection (json, text, console), level parsing, and standard service
// attributes stamped on every line.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// HandlerType represents the type of logging handler.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs, one object per line.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
	// ConsoleHandler is a human-oriented alias for text output; split out
	// so config files can name intent even though the handler is shared.
	ConsoleHandler HandlerType = "console"
)

// Option configures the logger.
type Option func(*config)

type config struct {
	handlerType HandlerType
	output      io.Writer
	level       slog.Level
	addSource   bool

	serviceName    string
	serviceVersion string
	environment    string
}

// WithHandlerType selects the output format. Defaults to JSON.
func WithHandlerType(t HandlerType) Option {
	return func(c *config) { c.handlerType = t }
}

// WithOutput sets the log destination. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithSource annotates entries with file:line of the log call.
func WithSource(enable bool) Option {
	return func(c *config) { c.addSource = enable }
}

// WithService stamps service identity attributes on every entry.
func WithService(name, version, environment string) Option {
	return func(c *config) {
		c.serviceName = name
		c.serviceVersion = version
		c.environment = environment
	}
}

// New builds a logger from the options.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		handlerType: JSONHandler,
		output:      os.Stderr,
		level:       slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	hopts := &slog.HandlerOptions{Level: cfg.level, AddSource: cfg.addSource}

	var handler slog.Handler
	switch cfg.handlerType {
	case TextHandler, ConsoleHandler:
		handler = slog.NewTextHandler(cfg.output, hopts)
	default:
		handler = slog.NewJSONHandler(cfg.output, hopts)
	}

	logger := slog.New(handler)
	if cfg.serviceName != "" {
		attrs := []any{slog.String("service", cfg.serviceName)}
		if cfg.serviceVersion != "" {
			attrs = append(attrs, slog.String("version", cfg.serviceVersion))
		}
		if cfg.environment != "" {
			attrs = append(attrs, slog.String("env", cfg.environment))
		}
		logger = logger.With(attrs...)
	}
	return logger
}

// ParseLevel converts a config string into a slog level. Case-insensitive;
// "warning" is accepted as an alias for "warn".
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
		return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", s)
	}
}

// ParseHandlerType converts a config string into a HandlerType.
func ParseHandlerType(s string) (HandlerType, error) {
	switch HandlerType(strings.ToLower(strings.TrimSpace(s))) {
	case JSONHandler, "":
		return JSONHandler, nil
	case TextHandler:
		return TextHandler, nil
	case ConsoleHandler:
		return ConsoleHandler, nil
	default:
		return JSONHandler, fmt.Errorf("logging: unknown handler type %q", s)
	}
}
