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

import "strings"

// edge is a per-segment child in the route tree. A linear scan over a small
// edge slice beats map hashing for the segment counts real route tables have.
type edge struct {
	label string
	node  *node
}

// node is one level of the route tree. Each node can have static children,
// at most one parameter child, and at most one wildcard child; lookup tries
// them in that order.
//
// Thread safety: routes are added during a single-threaded configuration
// phase. Once the router starts serving the tree is read-only, so lookups
// need no locking.
type node struct {
	handlers    []HandlerFunc
	edges       []edge
	staticPaths map[string]*node // full-path static routes, root node only
	param       *paramChild
	wildcard    *node
	constraints []Constraint
	pattern     string // registered route pattern for this node
}

// paramChild captures a dynamic segment like ":accession".
type paramChild struct {
	key  string
	node *node
}

func (n *node) findChild(segment string) *node {
	for i := range n.edges {
		if n.edges[i].label == segment {
			return n.edges[i].node
		}
	}
	return nil
}

func (n *node) findOrCreateChild(segment string) *node {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := &node{}
	n.edges = append(n.edges, edge{label: segment, node: child})
	return child
}

// addRoute registers a normalized path (no trailing slash except root).
// Returns ErrRouteConflict when the terminal node already has handlers.
func (n *node) addRoute(path string, handlers []HandlerFunc, constraints []Constraint) error {
	if path == "/" || path == "" {
		if n.handlers != nil {
			return ErrRouteConflict
		}
		n.handlers = handlers
		n.constraints = constraints
		n.pattern = "/"
		return nil
	}

	// Wildcard route: everything after the prefix matches.
	if prefix, ok := strings.CutSuffix(path, "/*"); ok {
		current := n
		for _, segment := range strings.Split(strings.Trim(prefix, "/"), "/") {
			if segment == "" {
				continue
			}
			current = current.findOrCreateChild(segment)
		}
		if current.wildcard != nil && current.wildcard.handlers != nil {
			return ErrRouteConflict
		}
		current.wildcard = &node{handlers: handlers, constraints: constraints, pattern: path}
		return nil
	}

	// Fully static route: stored as a full path at the root for O(1) hits.
	if !strings.Contains(path, ":") {
		if n.staticPaths == nil {
			n.staticPaths = make(map[string]*node, 8)
		}
		if existing := n.staticPaths[path]; existing != nil && existing.handlers != nil {
			return ErrRouteConflict
		}
		n.staticPaths[path] = &node{handlers: handlers, constraints: constraints, pattern: path}
		return nil
	}

	// Parameterized route: walk segment by segment.
	current := n
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment == "" {
			continue
		}
		if name, ok := strings.CutPrefix(segment, ":"); ok {
			if current.param == nil {
				current.param = &paramChild{key: name, node: &node{}}
			} else if current.param.key != name {
				// One param child per node; a second name for the same
				// position is a registration bug.
				return ErrRouteConflict
			}
			current = current.param.node
		} else {
			current = current.findOrCreateChild(segment)
		}
	}
	if current.handlers != nil {
		return ErrRouteConflict
	}
	current.handlers = handlers
	current.constraints = constraints
	current.pattern = path
	return nil
}

// getRoute matches a normalized path, filling extracted parameters into ctx.
// Returns the handler chain and the registered pattern, or (nil, "").
func (n *node) getRoute(path string, ctx *Context) ([]HandlerFunc, string) {
	if path == "/" || path == "" {
		return n.handlers, n.pattern
	}

	if n.staticPaths != nil {
		if child := n.staticPaths[path]; child != nil && child.handlers != nil {
			return child.handlers, child.pattern
		}
	}

	// Parse segments in place; strings.Split would allocate on every request.
	current := n
	start := 0
	if path[0] == '/' {
		start = 1
	}
	pathLen := len(path)

	for start < pathLen {
		end := start
		for end < pathLen && path[end] != '/' {
			end++
		}
		segment := path[start:end]
		isLast := end >= pathLen

		if next := current.findChild(segment); next != nil {
			current = next
		} else if current.param != nil {
			ctx.setParam(current.param.key, segment)
			current = current.param.node
		} else if current.wildcard != nil {
			ctx.setParam("filepath", path[start:])
			return current.wildcard.handlers, current.wildcard.pattern
		} else {
			return nil, ""
		}

		if isLast {
			if current.handlers != nil && !validateConstraints(current.constraints, ctx) {
				return nil, ""
			}
			return current.handlers, current.pattern
		}
		start = end + 1
	}
	return nil, ""
}
