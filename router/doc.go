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

// Package router is the HTTP routing engine: a segment tree with per-route
// parameter constraints, pooled request contexts, and a middleware chain.
//
// Routes are registered with a fluent API during a single-threaded
// configuration phase and are immutable once the router starts serving:
//
//	r := router.MustNew()
//	r.Use(requestid.New(), accesslog.New(logger))
//	r.GET("/:accession/", summary).
//	    WhereRegex("accession", `GLDS-[0-9]+`)
//	r.GET("/:accession/:assay/data/:type/", data).
//	    WhereRegex("accession", `GLDS-[0-9]+`).
//	    WhereEnum("type", "processed", "deg", "viz-table", "pca")
//
// A parameter whose constraint fails is treated as unmatched: the request
// falls through to the not-found handler rather than reaching a handler with
// an invalid segment. Because deeper routes extend shallower ones segment by
// segment, matching depth is always determined by the first absent or failed
// segment.
//
// Trailing slashes are not significant: /GLDS-4 and /GLDS-4/ match the same
// route.
package router
