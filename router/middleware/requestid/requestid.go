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

// Package requestid assigns each request a unique identifier, reusing a
// valid inbound X-Request-ID when present so IDs survive proxy hops.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"genelab.dev/dapi/router"
)

// HeaderXRequestID is the default request ID header.
const HeaderXRequestID = "X-Request-ID"

type ctxKey struct{}

// Option configures the middleware.
type Option func(*config)

type config struct {
	header    string
	generator func() string
	trust     bool
}

// WithHeader overrides the header name used to read and echo the ID.
func WithHeader(header string) Option {
	return func(c *config) { c.header = header }
}

// WithGenerator overrides ID generation. The default is a random UUIDv4.
func WithGenerator(gen func() string) Option {
	return func(c *config) { c.generator = gen }
}

// WithTrustedHeader controls whether an inbound header value is reused.
// Enabled by default; disable when the service is directly exposed.
func WithTrustedHeader(trust bool) Option {
	return func(c *config) { c.trust = trust }
}

// New returns the request ID middleware.
func New(opts ...Option) router.HandlerFunc {
	cfg := &config{
		header:    HeaderXRequestID,
		generator: func() string { return uuid.NewString() },
		trust:     true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *router.Context) {
		id := ""
		if cfg.trust {
			id = sanitize(c.Request.Header.Get(cfg.header))
		}
		if id == "" {
			id = cfg.generator()
		}
		c.Response.Header().Set(cfg.header, id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxKey{}, id))
		c.Next()
	}
}

// FromContext returns the request ID stored by the middleware, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromRequest returns the request ID for the given request, or "".
func FromRequest(r *http.Request) string {
	return FromContext(r.Context())
}

// sanitize rejects inbound IDs that are empty, oversized, or carry
// characters that would break log lines or response headers.
func sanitize(id string) string {
	if id == "" || len(id) > 128 {
		return ""
	}
	for i := 0; i < len(id); i++ {
		b := id[i]
		if b < 0x21 || b > 0x7e {
			return ""
		}
	}
	return id
}
