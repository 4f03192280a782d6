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
	"strings"
)

// Route is a registered route. Registration is deferred: routes are
// collected when declared and inserted into the tree during Warmup, which
// lets the fluent constraint API attach rules before the tree sees the
// route.
type Route struct {
	router      *Router
	method      string
	path        string
	handlers    []HandlerFunc
	constraints []Constraint
}

// Where adds an anchored regex constraint for a declared path parameter.
//
// Constraint problems are programmer errors in the configuration phase, so
// Where panics on an unknown parameter or an uncompilable pattern instead
// of failing requests later.
//
//	r.GET("/:accession/", h).Where("accession", `GLDS-[0-9]+`)
func (rt *Route) Where(param, pattern string) *Route {
	rt.mustDeclare(param)
	c, err := compileRegexConstraint(param, pattern)
	if err != nil {
		panic(fmt.Sprintf("router: %v: %s=%q: %v", ErrBadConstraint, param, pattern, err))
	}
	rt.constraints = append(rt.constraints, c)
	return rt
}

// WhereRegex is an alias of Where, kept for call sites that want to be
// explicit about the constraint kind next to WhereEnum.
func (rt *Route) WhereRegex(param, pattern string) *Route {
	return rt.Where(param, pattern)
}

// WhereEnum constrains a parameter to a fixed value set.
//
//	r.GET("/:a/:b/data/:type/", h).WhereEnum("type", "processed", "deg", "viz-table", "pca")
func (rt *Route) WhereEnum(param string, values ...string) *Route {
	rt.mustDeclare(param)
	if len(values) == 0 {
		panic(fmt.Sprintf("router: %v: enum for %q has no values", ErrBadConstraint, param))
	}
	c, err := compileEnumConstraint(param, values)
	if err != nil {
		panic(fmt.Sprintf("router: %v: %s: %v", ErrBadConstraint, param, err))
	}
	rt.constraints = append(rt.constraints, c)
	return rt
}

// Method returns the route's HTTP method.
func (rt *Route) Method() string { return rt.method }

// Path returns the route's registered pattern.
func (rt *Route) Path() string { return rt.path }

func (rt *Route) mustDeclare(param string) {
	for _, segment := range strings.Split(strings.Trim(rt.path, "/"), "/") {
		if segment == ":"+param {
			return
		}
	}
	panic(fmt.Sprintf("router: %v: path %q declares no parameter %q", ErrBadConstraint, rt.path, param))
}

// register inserts the route into its method tree. Called from Warmup.
func (rt *Route) register() {
	tree := rt.router.treeFor(rt.method)
	if err := tree.addRoute(rt.path, rt.handlers, rt.constraints); err != nil {
		panic(fmt.Sprintf("router: %v: %s %s", err, rt.method, rt.path))
	}
}
