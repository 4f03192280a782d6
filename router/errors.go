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

import "errors"

var (
	// ErrBadConstraint is returned when a route constraint references a
	// parameter the path does not declare or carries an invalid pattern.
	ErrBadConstraint = errors.New("invalid route constraint")

	// ErrRouteConflict is returned when two routes register the same
	// method and path.
	ErrRouteConflict = errors.New("conflicting route registration")

	// ErrFrozen is returned when a route is registered after the router
	// has started serving.
	ErrFrozen = errors.New("router is already serving")
)
