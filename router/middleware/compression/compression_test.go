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

package compression

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genelab.dev/dapi/router"
)

func compressedServer(opts ...Option) *router.Router {
	r := router.MustNew()
	r.Use(New(opts...))
	big := strings.Repeat("GLDS-4\tGround Control\t1.5\n", 100)
	r.GET("/big.tsv", func(c *router.Context) {
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(big))
	})
	r.GET("/small.tsv", func(c *router.Context) {
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte("tiny"))
	})
	r.GET("/blob", func(c *router.Context) {
		c.Data(http.StatusOK, "application/octet-stream", []byte(big))
	})
	return r
}

func request(r *router.Router, path, acceptEncoding string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestGzip verifies large compressible bodies are gzip-encoded and round-trip.
func TestGzip(t *testing.T) {
	w := request(compressedServer(), "/big.tsv", "gzip")

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Header().Values("Vary"), "Accept-Encoding")

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Ground Control")
}

// TestBrotliPreferred verifies brotli wins when the client accepts both.
func TestBrotliPreferred(t *testing.T) {
	w := request(compressedServer(), "/big.tsv", "gzip, br")

	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	body, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Contains(t, string(body), "Ground Control")
}

// TestSmallBodyPassthrough verifies bodies under the minimum size are not
// compressed.
func TestSmallBodyPassthrough(t *testing.T) {
	w := request(compressedServer(), "/small.tsv", "gzip")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "tiny", w.Body.String())
}

// TestUncompressibleContentType verifies content types outside the
// allowlist pass through untouched.
func TestUncompressibleContentType(t *testing.T) {
	w := request(compressedServer(), "/blob", "gzip")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

func TestNoAcceptEncoding(t *testing.T) {
	w := request(compressedServer(), "/big.tsv", "")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Body.String(), "Ground Control")
}

func TestRejectedEncoding(t *testing.T) {
	w := request(compressedServer(), "/big.tsv", "gzip;q=0")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

// TestCustomMinSize verifies the threshold option.
func TestCustomMinSize(t *testing.T) {
	w := request(compressedServer(WithMinSize(2)), "/small.tsv", "gzip")
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}
