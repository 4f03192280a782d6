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

// Package recovery converts handler panics into 500 responses instead of
// letting them tear down the connection.
package recovery

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"genelab.dev/dapi/router"
)

// Option configures the middleware.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	withStack bool
}

// WithLogger sets the logger used for panic reports. Defaults to the
// request-scoped logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithStackTrace controls whether the stack trace is logged. On by default.
func WithStackTrace(enable bool) Option {
	return func(c *config) { c.withStack = enable }
}

// New returns the panic recovery middleware.
func New(opts ...Option) router.HandlerFunc {
	cfg := &config{withStack: true}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *router.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// Re-raise so the server can close the connection; nothing
			// sane can be written after the handler hijacked it.
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger := cfg.logger
			if logger == nil {
				logger = c.Logger()
			}
			attrs := []any{
				slog.Any("panic", rec),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
			}
			if cfg.withStack {
				attrs = append(attrs, slog.String("stack", string(debug.Stack())))
			}
			logger.Error("panic recovered", attrs...)

			c.Abort()
			_ = c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "internal server error",
			})
		}()
		c.Next()
	}
}
