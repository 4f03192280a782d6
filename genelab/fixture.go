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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// fixture is the on-disk YAML shape of a dataset.
type fixture struct {
	Accession string         `yaml:"accession" json:"accession"`
	Assays    []assayFixture `yaml:"assays" json:"assays"`
}

type assayFixture struct {
	Name          string           `yaml:"name" json:"name"`
	FactorColumns []string         `yaml:"factor_columns" json:"factor_columns"`
	Metadata      tableFixture     `yaml:"metadata" json:"metadata"`
	Files         []fileFixture    `yaml:"files" json:"files"`
	FileDates     map[string]int64 `yaml:"file_dates" json:"file_dates,omitempty"`
}

type fileFixture struct {
	Name   string       `yaml:"name" json:"name"`
	Fields []string     `yaml:"fields" json:"fields"`
	Table  tableFixture `yaml:"table" json:"table"`
}

type tableFixture struct {
	Columns []string   `yaml:"columns" json:"columns"`
	Rows    [][]string `yaml:"rows" json:"rows"`
}

// LoadFixture parses a single dataset from YAML.
func LoadFixture(data []byte) (*Dataset, error) {
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse dataset fixture: %w", err)
	}
	accession, err := ParseAccession(fx.Accession)
	if err != nil {
		return nil, err
	}
	d := &Dataset{Accession: accession}
	for _, afx := range fx.Assays {
		a := &Assay{
			Name:          afx.Name,
			Metadata:      NewTable(afx.Metadata.Columns, afx.Metadata.Rows),
			FactorColumns: afx.FactorColumns,
			FileDates:     afx.FileDates,
		}
		for _, ffx := range afx.Files {
			a.Files = append(a.Files, DataFile{
				Name:   ffx.Name,
				Fields: ffx.Fields,
				Table:  NewTable(ffx.Table.Columns, ffx.Table.Rows),
			})
		}
		d.Assays = append(d.Assays, a)
	}
	// Raw mirrors the fixture so fmt=raw has a document to return.
	if d.Raw, err = json.Marshal(fx); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadFixtureDir loads every *.yaml and *.yml dataset under dir into the
// backend. Files that fail to parse abort the load; a service with a
// half-loaded catalog is worse than one that refuses to start.
func LoadFixtureDir(dir string, backend *Memory) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		d, err := LoadFixture(data)
		if err != nil {
			return fmt.Errorf("%s: %w", entry.Name(), err)
		}
		backend.Put(d)
	}
	return nil
}
