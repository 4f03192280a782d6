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
	"regexp"
	"strings"
)

// Constraint is a compiled validation rule for one route parameter.
// Constraints are evaluated after the tree walk matches a route; a failing
// constraint makes the route count as unmatched.
type Constraint struct {
	Param   string
	Pattern *regexp.Regexp
}

// compileRegexConstraint anchors and compiles pattern for param.
func compileRegexConstraint(param, pattern string) (Constraint, error) {
	re, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Param: param, Pattern: re}, nil
}

// compileEnumConstraint builds an anchored alternation over the quoted
// values, so enum members never act as regex metacharacters.
func compileEnumConstraint(param string, values []string) (Constraint, error) {
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		escaped = append(escaped, regexp.QuoteMeta(v))
	}
	return compileRegexConstraint(param, "("+strings.Join(escaped, "|")+")")
}

// validateConstraints checks every constraint against the parameters the
// tree walk extracted into ctx.
func validateConstraints(constraints []Constraint, ctx *Context) bool {
	for _, constraint := range constraints {
		value, found := ctx.lookupParam(constraint.Param)
		if !found || !constraint.Pattern.MatchString(value) {
			return false
		}
	}
	return true
}
