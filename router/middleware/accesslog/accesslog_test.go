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

package accesslog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genelab.dev/dapi/router"
)

func captureLog(t *testing.T, opts []Option, handler router.HandlerFunc, path string) []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := router.MustNew()
	r.Use(New(append([]Option{WithLogger(logger)}, opts...)...))
	r.GET("/:name", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var entries []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		entries = append(entries, entry)
	}
	return entries
}

// TestLogsRequestLine verifies one entry per request with method, route
// pattern, status, and byte count.
func TestLogsRequestLine(t *testing.T) {
	entries := captureLog(t, nil, func(c *router.Context) {
		c.String(http.StatusOK, "hello")
	}, "/world")

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "request", e["msg"])
	assert.Equal(t, "GET", e["method"])
	assert.Equal(t, "/world", e["path"])
	assert.Equal(t, "/:name", e["route"])
	assert.Equal(t, float64(http.StatusOK), e["status"])
	assert.Equal(t, float64(5), e["bytes"])
	assert.Equal(t, "INFO", e["level"])
}

// TestErrorStatusEscalatesLevel verifies 5xx responses log at error and
// 4xx at warn.
func TestErrorStatusEscalatesLevel(t *testing.T) {
	entries := captureLog(t, nil, func(c *router.Context) {
		c.String(http.StatusInternalServerError, "boom")
	}, "/x")
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])

	entries = captureLog(t, nil, func(c *router.Context) {
		c.String(http.StatusNotFound, "nope")
	}, "/x")
	require.Len(t, entries, 1)
	assert.Equal(t, "WARN", entries[0]["level"])
}

// TestHandlerInheritsRequestLogger verifies c.Logger() carries the request
// attributes installed by the middleware.
func TestHandlerInheritsRequestLogger(t *testing.T) {
	entries := captureLog(t, nil, func(c *router.Context) {
		c.Logger().Info("inside handler")
		c.String(http.StatusOK, "ok")
	}, "/x")

	require.Len(t, entries, 2)
	assert.Equal(t, "inside handler", entries[0]["msg"])
	assert.Equal(t, "GET", entries[0]["method"])
	assert.Equal(t, "/x", entries[0]["path"])
}

func TestSkipper(t *testing.T) {
	entries := captureLog(t, []Option{
		WithSkipper(func(c *router.Context) bool { return c.Request.URL.Path == "/health" }),
	}, func(c *router.Context) {
		c.String(http.StatusOK, "ok")
	}, "/health")
	assert.Empty(t, entries)
}
