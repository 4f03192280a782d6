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

import (
	"context"
	"fmt"
	"sync"
)

// Backend resolves accessions to datasets. Implementations must be safe for
// concurrent use; lookups that find nothing return errors wrapping
// ErrNotFound.
type Backend interface {
	Dataset(ctx context.Context, accession Accession) (*Dataset, error)
}

// Memory is the in-process Backend: a fixture store for tests and
// fixture-driven deployments.
type Memory struct {
	mu       sync.RWMutex
	datasets map[Accession]*Dataset
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{datasets: make(map[Accession]*Dataset)}
}

// Put registers a dataset, replacing any previous one with the same
// accession.
func (m *Memory) Put(d *Dataset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets[d.Accession] = d
}

// Dataset implements Backend.
func (m *Memory) Dataset(_ context.Context, accession Accession) (*Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.datasets[accession]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: dataset %s", ErrNotFound, accession)
}

// Len reports how many datasets the backend holds.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.datasets)
}
