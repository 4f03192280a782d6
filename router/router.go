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
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Option configures a Router.
type Option func(*Router)

// Router matches requests against the registered route tree and executes
// the handler chain. Configure and register during startup; the Router is
// safe for concurrent use once serving.
type Router struct {
	trees      map[string]*node
	middleware []HandlerFunc

	pendingRoutes []*Route
	pendingMu     sync.Mutex
	warmupOnce    sync.Once

	noRoute   HandlerFunc
	noRouteMu sync.RWMutex

	enableH2C bool
	timeouts  *serverTimeouts
}

type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

func defaultServerTimeouts() *serverTimeouts {
	return &serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}

// New creates a router.
func New(opts ...Option) (*Router, error) {
	r := &Router{trees: make(map[string]*node)}
	for _, opt := range opts {
		opt(r)
	}
	if r.timeouts != nil {
		for _, d := range []time.Duration{r.timeouts.readHeader, r.timeouts.read, r.timeouts.write, r.timeouts.idle} {
			if d < 0 {
				return nil, fmt.Errorf("router: negative server timeout %v", d)
			}
		}
	}
	return r, nil
}

// MustNew creates a router and panics on invalid configuration.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustNew: %v", err))
	}
	return r
}

// WithH2C enables HTTP/2 cleartext. Only for development or behind a
// trusted load balancer.
func WithH2C(enable bool) Option {
	return func(r *Router) { r.enableH2C = enable }
}

// WithServerTimeouts overrides the default server timeouts
// (read-header 5s, read 15s, write 30s, idle 60s).
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(r *Router) {
		r.timeouts = &serverTimeouts{readHeader: readHeader, read: read, write: write, idle: idle}
	}
}

// Use appends global middleware. Global middleware runs before every route
// handler, in the order added, regardless of whether Use is called before
// or after route registration (chains are assembled at warmup).
func (r *Router) Use(middleware ...HandlerFunc) {
	r.middleware = append(r.middleware, middleware...)
}

// NoRoute installs a custom handler for unmatched requests. nil restores
// the default JSON 404.
func (r *Router) NoRoute(handler HandlerFunc) {
	r.noRouteMu.Lock()
	r.noRoute = handler
	r.noRouteMu.Unlock()
}

// Handle registers a route. The returned Route accepts fluent constraints.
// Paths are normalized: a trailing slash is not significant.
func (r *Router) Handle(method, path string, handlers ...HandlerFunc) *Route {
	if len(handlers) == 0 {
		panic(fmt.Sprintf("router: no handlers for %s %s", method, path))
	}
	rt := &Route{router: r, method: method, path: normalizePath(path), handlers: handlers}
	r.pendingMu.Lock()
	r.pendingRoutes = append(r.pendingRoutes, rt)
	r.pendingMu.Unlock()
	return rt
}

// GET registers a GET route.
func (r *Router) GET(path string, handlers ...HandlerFunc) *Route {
	return r.Handle(http.MethodGet, path, handlers...)
}

// POST registers a POST route.
func (r *Router) POST(path string, handlers ...HandlerFunc) *Route {
	return r.Handle(http.MethodPost, path, handlers...)
}

// HEAD registers a HEAD route.
func (r *Router) HEAD(path string, handlers ...HandlerFunc) *Route {
	return r.Handle(http.MethodHead, path, handlers...)
}

// Group creates a route group with the given prefix and middleware.
func (r *Router) Group(prefix string, middleware ...HandlerFunc) *Group {
	return &Group{router: r, prefix: prefix, middleware: middleware}
}

// Warmup registers all pending routes. Called lazily on the first request;
// calling it eagerly after configuration is cheap and surfaces registration
// panics at startup instead.
func (r *Router) Warmup() {
	r.warmupOnce.Do(func() {
		r.pendingMu.Lock()
		routes := r.pendingRoutes
		r.pendingRoutes = nil
		r.pendingMu.Unlock()
		for _, rt := range routes {
			// Assemble the final chain here so Use order vs. registration
			// order does not matter.
			chain := make([]HandlerFunc, 0, len(r.middleware)+len(rt.handlers))
			chain = append(chain, r.middleware...)
			chain = append(chain, rt.handlers...)
			rt.handlers = chain
			rt.register()
		}
	})
}

func (r *Router) treeFor(method string) *node {
	tree, ok := r.trees[method]
	if !ok {
		tree = &node{}
		r.trees[method] = tree
	}
	return tree
}

// normalizePath strips the trailing slash; the documented URL grammar ends
// every level with one, but /GLDS-4 and /GLDS-4/ are the same resource.
func normalizePath(path string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		path = "/"
	}
	return path
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Warmup()

	path := normalizePath(req.URL.Path)

	tree := r.trees[req.Method]
	if tree != nil {
		c := getContext()
		c.Request = req
		c.Response = w
		c.router = r

		handlers, pattern := tree.getRoute(path, c)
		if handlers != nil {
			c.pattern = pattern
			c.handlers = handlers
			c.index = -1
			c.Next()
			releaseContext(c)
			return
		}
		releaseContext(c)
	}

	r.handleNotFound(w, req, path)
}

// handleNotFound distinguishes "path exists under another method" (405 with
// Allow) from a plain 404, then runs the custom NoRoute handler if any.
func (r *Router) handleNotFound(w http.ResponseWriter, req *http.Request, path string) {
	if allowed := r.allowedMethods(path, req.Method); len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"error":"method not allowed","allow":%q}`, strings.Join(allowed, ", "))
		return
	}

	r.noRouteMu.RLock()
	handler := r.noRoute
	r.noRouteMu.RUnlock()

	c := getContext()
	c.Request = req
	c.Response = w
	c.router = r
	c.pattern = "_not_found"
	if handler != nil {
		handler(c)
	} else {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"not found"}`)
	}
	releaseContext(c)
}

func (r *Router) allowedMethods(path, requested string) []string {
	var allowed []string
	for method, tree := range r.trees {
		if method == requested {
			continue
		}
		c := getContext()
		if handlers, _ := tree.getRoute(path, c); handlers != nil {
			allowed = append(allowed, method)
		}
		releaseContext(c)
	}
	slices.Sort(allowed)
	return allowed
}

// HTTPServer builds an http.Server around the router with the configured
// timeouts, wrapping for h2c when enabled. Callers own the lifecycle, which
// is what graceful shutdown wants.
func (r *Router) HTTPServer(addr string) *http.Server {
	h := http.Handler(r)
	if r.enableH2C {
		h = h2c.NewHandler(h, &http2.Server{})
	}
	timeouts := r.timeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}
}

// Serve starts an HTTP server on addr and blocks.
func (r *Router) Serve(addr string) error {
	return r.HTTPServer(addr).ListenAndServe()
}
