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

import "net/http"

// Response represents a formatted error response: everything the caller
// needs to write it out.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body, marshaled to JSON by the caller.
	Body any
}

// Formatter converts errors into HTTP response components.
type Formatter interface {
	Format(req *http.Request, err error) Response
}

// Simple formats errors as flat JSON objects:
//
//	{"error": "no such assay \"x\"", "status": 404}
//
// Internal error detail is never leaked: 500-class responses carry a
// generic message and the real error stays in the server log.
type Simple struct {
	// StatusResolver determines the HTTP status from an error.
	// If nil, Status from this package is used.
	StatusResolver func(err error) int
}

// NewSimple creates a Simple formatter using the default taxonomy.
func NewSimple() *Simple {
	return &Simple{}
}

// Format converts an error into a simple JSON response.
func (f *Simple) Format(req *http.Request, err error) Response {
	status := f.resolveStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	return Response{
		Status:      status,
		ContentType: "application/json; charset=utf-8",
		Body: map[string]any{
			"error":  message,
			"status": status,
		},
	}
}

func (f *Simple) resolveStatus(err error) int {
	if f.StatusResolver != nil {
		return f.StatusResolver(err)
	}
	return Status(err)
}
