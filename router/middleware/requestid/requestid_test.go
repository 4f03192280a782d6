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

package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genelab.dev/dapi/router"
)

func serve(mw router.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, string) {
	r := router.MustNew()
	r.Use(mw)
	var captured string
	r.GET("/", func(c *router.Context) {
		captured = FromRequest(c.Request)
		c.String(http.StatusOK, "ok")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, captured
}

// TestGeneratesID verifies a request without an inbound ID gets a fresh
// UUID, echoed in the response header and visible to handlers.
func TestGeneratesID(t *testing.T) {
	w, captured := serve(New(), httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Header().Get(HeaderXRequestID)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, captured)
}

func TestReusesInboundID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "upstream-id-42")

	w, captured := serve(New(), req)
	assert.Equal(t, "upstream-id-42", w.Header().Get(HeaderXRequestID))
	assert.Equal(t, "upstream-id-42", captured)
}

// TestRejectsUnsafeInboundID verifies IDs with control characters or
// excessive length are replaced instead of echoed.
func TestRejectsUnsafeInboundID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "bad\tid")

	w, _ := serve(New(), req)
	assert.NotEqual(t, "bad\tid", w.Header().Get(HeaderXRequestID))
	assert.NotEmpty(t, w.Header().Get(HeaderXRequestID))
}

func TestUntrustedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "spoofed")

	w, _ := serve(New(WithTrustedHeader(false)), req)
	assert.NotEqual(t, "spoofed", w.Header().Get(HeaderXRequestID))
}

func TestCustomGeneratorAndHeader(t *testing.T) {
	mw := New(WithHeader("X-Trace-Token"), WithGenerator(func() string { return "fixed" }))
	w, _ := serve(mw, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "fixed", w.Header().Get("X-Trace-Token"))
}

func TestFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, FromRequest(req))
}
