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

package genelab

import "errors"

// Sentinel errors for the dataset model. The api package maps these onto
// HTTP statuses; nothing in this package knows about HTTP.
var (
	// ErrBadAccession marks identifiers that do not match AccessionPattern.
	ErrBadAccession = errors.New("malformed dataset accession")

	// ErrNotFound marks datasets, assays, or files absent from the backend.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous marks a file lookup matched by more than one data file.
	ErrAmbiguous = errors.New("ambiguous selection")

	// ErrNoSuchColumn marks shaping arguments referencing unknown columns.
	ErrNoSuchColumn = errors.New("no such column")

	// ErrDuplicateIndex marks tables whose row identifiers collide.
	ErrDuplicateIndex = errors.New("duplicate row identifier")

	// ErrBadShape marks tables unsuitable for the requested rendering.
	ErrBadShape = errors.New("unsuitable table shape")
)
