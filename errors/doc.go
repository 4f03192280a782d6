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

// Package errors maps service errors onto the API's HTTP error taxonomy
// and formats them as JSON responses.
//
// The taxonomy is deliberately small:
//
//   - 404 Not Found: the URL names a dataset, assay, file, or column
//     that does not exist, or a path segment fails its grammar.
//   - 501 Not Implemented: the URL and arguments are valid but the
//     combination is not supported (for example fmt=html for tables,
//     or fmt=gct outside processed data).
//   - 500 Internal Server Error: the backing data is malformed or an
//     upstream dependency misbehaved.
//   - 400 Bad Request: everything else, typically malformed query
//     arguments.
//
// Handlers return plain errors; the formatter resolves the status from
// sentinel wrapping:
//
//	formatter := errors.NewSimple()
//	response := formatter.Format(req, errors.NotFound("no such assay %q", name))
//	w.WriteHeader(response.Status)
package errors
