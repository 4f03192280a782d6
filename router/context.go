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

package router

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"go.opentelemetry.io/otel/trace"
)

// noopLogger backs Context.Logger when no logger was attached.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Context carries one request through the handler chain. Contexts are
// pooled: never retain one past the handler return, and never share one
// across goroutines. Copy the values you need before going async.
//
// Parameter storage is a fixed array of eight entries with a map fallback;
// the URL grammar this router exists for has at most five.
type Context struct {
	Request  *http.Request
	Response http.ResponseWriter

	handlers []HandlerFunc
	router   *Router

	index      int32
	paramCount int32

	paramKeys   [8]string
	paramValues [8]string

	// Params overflows the arrays for routes with more than 8 parameters.
	Params map[string]string

	pattern     string
	logger      *slog.Logger
	queryCache  url.Values
	queryParsed bool
	aborted     bool
}

// HandlerFunc is the signature shared by handlers and middleware.
// Middleware calls Next to continue the chain; not calling it (or calling
// Abort) stops execution.
type HandlerFunc func(*Context)

var contextPool = sync.Pool{
	New: func() any {
		return &Context{index: -1}
	},
}

func getContext() *Context {
	return contextPool.Get().(*Context)
}

func releaseContext(c *Context) {
	c.reset()
	contextPool.Put(c)
}

// NewContext builds an unpooled context. Intended for tests.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{Request: r, Response: w, index: -1}
}

func (c *Context) reset() {
	c.Request = nil
	c.Response = nil
	c.handlers = nil
	c.router = nil
	c.index = -1
	c.paramCount = 0
	c.Params = nil
	c.pattern = ""
	c.logger = nil
	c.queryCache = nil
	c.queryParsed = false
	c.aborted = false
	for i := range c.paramKeys {
		c.paramKeys[i] = ""
		c.paramValues[i] = ""
	}
}

// Next executes the remaining handler chain. Cancellation of the request
// context stops the chain between handlers.
func (c *Context) Next() {
	c.index++
	handlersLen := int32(len(c.handlers))
	for c.index < handlersLen {
		if c.aborted {
			return
		}
		if err := c.Request.Context().Err(); err != nil {
			return
		}
		c.handlers[c.index](c)
		c.index++
	}
}

// Abort stops the chain after the current handler returns.
func (c *Context) Abort() {
	c.aborted = true
}

// IsAborted reports whether Abort was called.
func (c *Context) IsAborted() bool {
	return c.aborted
}

// Param returns a URL parameter extracted during route matching, or "".
func (c *Context) Param(key string) string {
	v, _ := c.lookupParam(key)
	return v
}

func (c *Context) lookupParam(key string) (string, bool) {
	for i := int32(0); i < c.paramCount; i++ {
		if c.paramKeys[i] == key {
			return c.paramValues[i], true
		}
	}
	if c.Params != nil {
		v, ok := c.Params[key]
		return v, ok
	}
	return "", false
}

func (c *Context) setParam(key, value string) {
	if c.paramCount < 8 {
		c.paramKeys[c.paramCount] = key
		c.paramValues[c.paramCount] = value
		c.paramCount++
		return
	}
	if c.Params == nil {
		c.Params = make(map[string]string, 2)
	}
	c.Params[key] = value
}

// QueryValues returns the parsed query string, parsing it once per request.
func (c *Context) QueryValues() url.Values {
	if !c.queryParsed {
		c.queryCache = c.Request.URL.Query()
		c.queryParsed = true
	}
	return c.queryCache
}

// Query returns the last value for key, or "".
func (c *Context) Query(key string) string {
	vals := c.QueryValues()[key]
	if len(vals) == 0 {
		return ""
	}
	return vals[len(vals)-1]
}

// QueryDefault returns the value for key, or defaultValue when absent.
func (c *Context) QueryDefault(key, defaultValue string) string {
	if vals, ok := c.QueryValues()[key]; ok && len(vals) > 0 {
		return vals[len(vals)-1]
	}
	return defaultValue
}

// JSON writes obj as a JSON response.
func (c *Context) JSON(code int, obj any) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	c.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.Response.WriteHeader(code)
	_, err = c.Response.Write(data)
	return err
}

// String writes a plain-text response.
func (c *Context) String(code int, value string) error {
	c.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Response.WriteHeader(code)
	_, err := io.WriteString(c.Response, value)
	return err
}

// Stringf formats and writes a plain-text response.
func (c *Context) Stringf(code int, format string, values ...any) error {
	return c.String(code, fmt.Sprintf(format, values...))
}

// Data writes raw bytes with an explicit content type.
func (c *Context) Data(code int, contentType string, data []byte) error {
	if contentType != "" {
		c.Response.Header().Set("Content-Type", contentType)
	}
	c.Response.WriteHeader(code)
	_, err := c.Response.Write(data)
	return err
}

// Status writes the header with the given code and no body.
func (c *Context) Status(code int) {
	c.Response.WriteHeader(code)
}

// NoContent writes 204.
func (c *Context) NoContent() {
	c.Response.WriteHeader(http.StatusNoContent)
}

// Header sets a response header.
func (c *Context) Header(key, value string) {
	c.Response.Header().Set(key, value)
}

// RoutePattern returns the matched route pattern ("/:accession/:assay"),
// or a sentinel like "_not_found". Use it for metrics labels instead of the
// raw path to keep cardinality bounded.
func (c *Context) RoutePattern() string {
	return c.pattern
}

// Logger returns the request-scoped logger, or a no-op logger when none
// was attached.
func (c *Context) Logger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return noopLogger
}

// SetLogger attaches a request-scoped logger; middleware uses this to add
// request attributes once for the whole chain.
func (c *Context) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// TraceID returns the hex trace id of the current span, or "" when the
// request carries no recorded span. Useful for log correlation without
// depending on a tracing SDK.
func (c *Context) TraceID() string {
	span := trace.SpanContextFromContext(c.Request.Context())
	if !span.HasTraceID() {
		return ""
	}
	return span.TraceID().String()
}
