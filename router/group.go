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

import "net/http"

// Group registers routes under a shared prefix with extra middleware that
// runs after the router's global middleware.
type Group struct {
	router     *Router
	prefix     string
	middleware []HandlerFunc
}

// Group creates a nested group.
func (g *Group) Group(prefix string, middleware ...HandlerFunc) *Group {
	return &Group{
		router:     g.router,
		prefix:     g.prefix + prefix,
		middleware: append(append([]HandlerFunc{}, g.middleware...), middleware...),
	}
}

// Handle registers a route under the group prefix.
func (g *Group) Handle(method, path string, handlers ...HandlerFunc) *Route {
	combined := make([]HandlerFunc, 0, len(g.middleware)+len(handlers))
	combined = append(combined, g.middleware...)
	combined = append(combined, handlers...)
	return g.router.Handle(method, g.prefix+path, combined...)
}

// GET registers a GET route under the group prefix.
func (g *Group) GET(path string, handlers ...HandlerFunc) *Route {
	return g.Handle(http.MethodGet, path, handlers...)
}

// POST registers a POST route under the group prefix.
func (g *Group) POST(path string, handlers ...HandlerFunc) *Route {
	return g.Handle(http.MethodPost, path, handlers...)
}
