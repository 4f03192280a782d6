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

// Package compression negotiates gzip or brotli response encoding for
// compressible content types. Tabular payloads compress an order of
// magnitude, which matters for multi-megabyte expression tables.
package compression

import (
	"compress/gzip"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"

	"genelab.dev/dapi/router"
)

const (
	encodingGzip     = "gzip"
	encodingBrotli   = "br"
	encodingIdentity = "identity"
)

// DefaultMinSize is the smallest response body worth compressing.
const DefaultMinSize = 512

// defaultMimeTypes mirrors the set commonly compressed by reverse proxies;
// everything the service produces (TSV, JSON, GCT, CLS) falls under
// text/plain or application/json.
var defaultMimeTypes = []string{
	"text/plain",
	"text/html",
	"text/css",
	"text/xml",
	"application/json",
	"application/javascript",
}

// Option configures the middleware.
type Option func(*config)

type config struct {
	level     int
	minSize   int
	mimeTypes []string
}

// WithLevel sets the gzip compression level (brotli uses its own mapping).
func WithLevel(level int) Option {
	return func(c *config) { c.level = level }
}

// WithMinSize sets the minimum body size, in bytes, before compressing.
func WithMinSize(n int) Option {
	return func(c *config) { c.minSize = n }
}

// WithMimeTypes replaces the default compressible content type list.
// Matching is by media type prefix, parameters ignored.
func WithMimeTypes(types ...string) Option {
	return func(c *config) { c.mimeTypes = types }
}

// New returns the compression middleware.
func New(opts ...Option) router.HandlerFunc {
	cfg := &config{
		level:     gzip.DefaultCompression,
		minSize:   DefaultMinSize,
		mimeTypes: defaultMimeTypes,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	gzipPool := &sync.Pool{New: func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, cfg.level)
		return w
	}}
	brotliPool := &sync.Pool{New: func() any {
		return brotli.NewWriterLevel(io.Discard, brotli.DefaultCompression)
	}}

	return func(c *router.Context) {
		encoding := negotiate(c.Request.Header.Get("Accept-Encoding"))
		if encoding == encodingIdentity {
			c.Next()
			return
		}

		cw := &compressWriter{
			ResponseWriter: c.Response,
			cfg:            cfg,
			encoding:       encoding,
			gzipPool:       gzipPool,
			brotliPool:     brotliPool,
		}
		c.Response = cw
		defer cw.close()

		c.Next()
	}
}

// negotiate picks brotli over gzip when both are acceptable. Quality
// values beyond outright rejection (q=0) are ignored.
func negotiate(acceptEncoding string) string {
	var gzipOK, brotliOK bool
	for _, part := range strings.Split(acceptEncoding, ",") {
		name, q, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.Contains(q, "q=0") && !strings.Contains(q, "q=0.") {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case encodingBrotli:
			brotliOK = true
		case encodingGzip:
			gzipOK = true
		}
	}
	switch {
	case brotliOK:
		return encodingBrotli
	case gzipOK:
		return encodingGzip
	default:
		return encodingIdentity
	}
}

// compressWriter defers the compress/passthrough decision until the first
// write, when the content type and an initial size estimate are known.
type compressWriter struct {
	http.ResponseWriter
	cfg        *config
	encoding   string
	gzipPool   *sync.Pool
	brotliPool *sync.Pool

	status      int
	decided     bool
	compressing bool
	buf         []byte
	gz          *gzip.Writer
	br          *brotli.Writer
}

func (w *compressWriter) WriteHeader(code int) {
	// Defer the actual WriteHeader until the compress decision; once the
	// header goes out, Content-Encoding cannot change.
	w.status = code
}

func (w *compressWriter) Write(b []byte) (int, error) {
	if w.decided {
		return w.sink().Write(b)
	}
	w.buf = append(w.buf, b...)
	if len(w.buf) >= w.cfg.minSize {
		if err := w.decide(); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

func (w *compressWriter) sink() io.Writer {
	if !w.compressing {
		return w.ResponseWriter
	}
	if w.encoding == encodingBrotli {
		return w.br
	}
	return w.gz
}

// decide commits to compressing or passing through and flushes the buffer.
func (w *compressWriter) decide() error {
	w.decided = true
	w.compressing = w.shouldCompress()

	if w.compressing {
		h := w.ResponseWriter.Header()
		h.Del("Content-Length")
		h.Set("Content-Encoding", w.encoding)
		h.Add("Vary", "Accept-Encoding")
		if w.encoding == encodingBrotli {
			w.br = w.brotliPool.Get().(*brotli.Writer)
			w.br.Reset(w.ResponseWriter)
		} else {
			w.gz = w.gzipPool.Get().(*gzip.Writer)
			w.gz.Reset(w.ResponseWriter)
		}
	}

	if w.status != 0 {
		w.ResponseWriter.WriteHeader(w.status)
	}
	if len(w.buf) > 0 {
		if _, err := w.sink().Write(w.buf); err != nil {
			return err
		}
		w.buf = nil
	}
	return nil
}

func (w *compressWriter) shouldCompress() bool {
	if w.status == http.StatusNoContent || w.status == http.StatusNotModified {
		return false
	}
	h := w.ResponseWriter.Header()
	if h.Get("Content-Encoding") != "" {
		return false
	}
	if cl := h.Get("Content-Length"); cl != "" {
		if n, err := strconv.Atoi(cl); err == nil && n < w.cfg.minSize {
			return false
		}
	}
	mediaType, _, _ := strings.Cut(h.Get("Content-Type"), ";")
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))
	for _, mt := range w.cfg.mimeTypes {
		if mediaType == mt {
			return true
		}
	}
	return false
}

// close finishes the stream. Small responses that never crossed minSize
// are passed through uncompressed here.
func (w *compressWriter) close() {
	if !w.decided {
		w.compressing = false
		w.decided = true
		if w.status != 0 {
			w.ResponseWriter.WriteHeader(w.status)
		}
		if len(w.buf) > 0 {
			_, _ = w.ResponseWriter.Write(w.buf)
			w.buf = nil
		}
		return
	}
	if !w.compressing {
		return
	}
	if w.br != nil {
		_ = w.br.Close()
		w.brotliPool.Put(w.br)
		w.br = nil
	}
	if w.gz != nil {
		_ = w.gz.Close()
		w.gzipPool.Put(w.gz)
		w.gz = nil
	}
}
