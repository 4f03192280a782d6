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

// Package api serves the GeneLab dataset URL schema over HTTP.
//
// URLs follow a fixed, order-significant segment grammar:
//
//	/<accession>/<assay_name>/<data_category>/<data_type>/<transform>/
//
// Each prefix of the grammar is a valid endpoint with its own response
// (dataset summary, assay metadata, factors, annotation, data tables), and
// GET arguments shape the selection and serialization. A request matches
// as deep as its segments keep satisfying the grammar; the first segment
// that does not ends the match, so a malformed accession or an unknown
// data type is a plain 404, never a partial dispatch.
package api
