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

// Package accesslog emits one structured log line per request and installs
// a request-scoped logger on the context so handlers inherit the request's
// correlation attributes.
package accesslog

import (
	"log/slog"
	"net/http"
	"time"

	"genelab.dev/dapi/router"
	"genelab.dev/dapi/router/middleware/requestid"
)

// Option configures the middleware.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	skip       func(*router.Context) bool
	slowThresh time.Duration
}

// WithLogger sets the base logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithSkipper suppresses log lines for requests the predicate matches,
// typically health and metrics probes.
func WithSkipper(skip func(*router.Context) bool) Option {
	return func(c *config) { c.skip = skip }
}

// WithSlowThreshold logs requests slower than d at warn level. Zero
// disables the escalation.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *config) { c.slowThresh = d }
}

// New returns the access log middleware.
func New(opts ...Option) router.HandlerFunc {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *router.Context) {
		if cfg.skip != nil && cfg.skip(c) {
			c.Next()
			return
		}

		logger := cfg.logger
		if logger == nil {
			logger = slog.Default()
		}

		rec := &recorder{ResponseWriter: c.Response, status: http.StatusOK}
		c.Response = rec

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		}
		if id := requestid.FromRequest(c.Request); id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}
		if traceID := c.TraceID(); traceID != "" {
			attrs = append(attrs, slog.String("trace_id", traceID))
		}
		c.SetLogger(logger.With(attrs...))

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		level := slog.LevelInfo
		switch {
		case rec.status >= http.StatusInternalServerError:
			level = slog.LevelError
		case rec.status >= http.StatusBadRequest:
			level = slog.LevelWarn
		case cfg.slowThresh > 0 && elapsed >= cfg.slowThresh:
			level = slog.LevelWarn
		}

		c.Logger().Log(c.Request.Context(), level, "request",
			slog.String("route", c.RoutePattern()),
			slog.Int("status", rec.status),
			slog.Int64("bytes", rec.written),
			slog.Duration("duration", elapsed),
			slog.String("remote", c.Request.RemoteAddr),
		)
	}
}

// recorder captures the status code and byte count for the log line.
type recorder struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool
}

func (r *recorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.wroteHeader = true
	}
	n, err := r.ResponseWriter.Write(b)
	r.written += int64(n)
	return n, err
}

// Flush forwards to the underlying writer when it supports streaming.
func (r *recorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
