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

// Package genelab defines the dataset model the API routes over: accessions,
// datasets, assays, and the tabular values handlers shape into responses.
//
// The package is deliberately storage-agnostic. Backend is the only seam to
// dataset content; the in-memory implementation in this package backs tests
// and fixture-driven deployments. Retrieval from the GeneLab data manager is
// out of scope for this service.
package genelab
