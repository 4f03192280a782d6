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

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel categories. Wrap service errors with the constructors below, or
// directly with fmt.Errorf("...: %w", errors.ErrNotFound), and the
// formatter resolves the HTTP status via errors.Is.
var (
	// ErrNotFound marks URLs naming things that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotImplemented marks valid requests for unsupported combinations.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUpstream marks malformed backing data or dependency failures.
	ErrUpstream = errors.New("upstream failure")

	// ErrBadRequest marks malformed client input.
	ErrBadRequest = errors.New("bad request")
)

// NotFound creates a 404-class error.
func NotFound(format string, args ...any) error {
	return categorized{err: fmt.Errorf(format, args...), category: ErrNotFound}
}

// NotImplemented creates a 501-class error.
func NotImplemented(format string, args ...any) error {
	return categorized{err: fmt.Errorf(format, args...), category: ErrNotImplemented}
}

// Upstream creates a 500-class error.
func Upstream(format string, args ...any) error {
	return categorized{err: fmt.Errorf(format, args...), category: ErrUpstream}
}

// BadRequest creates a 400-class error.
func BadRequest(format string, args ...any) error {
	return categorized{err: fmt.Errorf(format, args...), category: ErrBadRequest}
}

// Categorize attaches a category sentinel to an existing error, keeping
// the original error visible to errors.Is and errors.As.
func Categorize(err, category error) error {
	if err == nil {
		return nil
	}
	return categorized{err: err, category: category}
}

// categorized pairs a message-bearing error with its taxonomy sentinel.
type categorized struct {
	err      error
	category error
}

func (c categorized) Error() string { return c.err.Error() }

func (c categorized) Unwrap() []error { return []error{c.err, c.category} }

// Status resolves the HTTP status for an error. Uncategorized errors are
// treated as bad requests, matching the taxonomy's catch-all.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, ErrUpstream):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Is reports whether any error in err's tree matches target.
// Re-exported so callers do not need both this package and stdlib errors.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's tree matching target.
func As(err error, target any) bool { return errors.As(err, target) }
