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
	"regexp"
	"strings"
)

// Dataset is a single GeneLab dataset: an accession, its assays, and the
// raw document the accession was resolved from (served for fmt=raw).
type Dataset struct {
	Accession Accession
	Assays    []*Assay
	Raw       json.RawMessage
}

// Assay returns the named assay, resolving the `assay` wildcard segment:
// the literal name "assay" stands for "the only assay" and resolves iff the
// dataset has exactly one. Failures wrap ErrNotFound and name the assays
// that do exist, which is the 404 body users see.
func (d *Dataset) Assay(name string) (*Assay, error) {
	if name == AssayWildcard {
		if len(d.Assays) == 1 {
			return d.Assays[0], nil
		}
		return nil, fmt.Errorf(
			"%w: %s has %d assays (%s), wildcard needs exactly one",
			ErrNotFound, d.Accession, len(d.Assays), strings.Join(d.AssayNames(), ", "),
		)
	}
	for _, a := range d.Assays {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf(
		"%w: assay %q in %s (known assays: %s)",
		ErrNotFound, name, d.Accession, strings.Join(d.AssayNames(), ", "),
	)
}

// AssayWildcard is the assay_name segment value that resolves to the
// dataset's single assay.
const AssayWildcard = "assay"

// AssayNames returns the assay names in registration order.
func (d *Dataset) AssayNames() []string {
	names := make([]string, len(d.Assays))
	for i, a := range d.Assays {
		names[i] = a.Name
	}
	return names
}

// Summary builds the dataset summary table: one row per assay and one row
// per factor with its observed values.
func (d *Dataset) Summary() *Table {
	rows := make([][]string, 0, len(d.Assays)+4)
	for _, a := range d.Assays {
		rows = append(rows, []string{"assay", a.Name, fmt.Sprintf("%d samples", len(a.Metadata.Rows))})
	}
	seen := map[string]bool{}
	for _, a := range d.Assays {
		for _, factor := range a.FactorColumns {
			if seen[factor] {
				continue
			}
			seen[factor] = true
			rows = append(rows, []string{"factor", factor, strings.Join(a.factorValues(factor), ", ")})
		}
	}
	return NewTable([]string{"kind", "name", "details"}, rows)
}

// Assay is a named experimental assay: a metadata table indexed by sample
// name, the subset of metadata columns that are study factors, and the data
// files produced by the processing pipeline.
type Assay struct {
	Name string

	// Metadata has the sample name as its first column.
	Metadata *Table

	// FactorColumns names the Metadata columns holding factor values.
	FactorColumns []string

	// Files are the retrievable data files for this assay.
	Files []DataFile

	// FileDates maps file names to their upstream modification time
	// (unix seconds); -1 when unknown.
	FileDates map[string]int64
}

// DataFile is one processed output of an assay.
type DataFile struct {
	// Name is the file name the file_filter argument matches against.
	Name string

	// Fields are the metadata field titles pointing at this file; the
	// fields argument matches against these.
	Fields []string

	// Table is the file content.
	Table *Table
}

// FileDate returns the upstream modification time for name, or -1.
func (a *Assay) FileDate(name string) int64 {
	if d, ok := a.FileDates[name]; ok {
		return d
	}
	return -1
}

// ResolveFile selects the single data file matching the fields and
// file_filter patterns. A nil fields pattern matches every file. Zero
// candidates wrap ErrNotFound; more than one wraps ErrAmbiguous, because a
// data request must name exactly one table.
func (a *Assay) ResolveFile(fields, fileFilter *regexp.Regexp) (*DataFile, error) {
	var matched []*DataFile
	for i := range a.Files {
		f := &a.Files[i]
		if fileFilter != nil && !fileFilter.MatchString(f.Name) {
			continue
		}
		if fields != nil && !f.matchesFields(fields) {
			continue
		}
		matched = append(matched, f)
	}
	switch len(matched) {
	case 0:
		return nil, fmt.Errorf("%w: no data file in %s matches the requested filters", ErrNotFound, a.Name)
	case 1:
		return matched[0], nil
	default:
		names := make([]string, len(matched))
		for i, f := range matched {
			names[i] = f.Name
		}
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, strings.Join(names, ", "))
	}
}

func (f *DataFile) matchesFields(fields *regexp.Regexp) bool {
	for _, title := range f.Fields {
		if fields.MatchString(title) {
			return true
		}
	}
	return false
}

// MetadataSubset keeps the sample column plus every metadata column whose
// title matches fields. A nil pattern keeps the whole table.
func (a *Assay) MetadataSubset(fields *regexp.Regexp) *Table {
	if fields == nil {
		return a.Metadata.Clone()
	}
	cols := []string{a.sampleColumn()}
	for i, c := range a.Metadata.Columns {
		if i == 0 {
			continue
		}
		if fields.MatchString(c) {
			cols = append(cols, c)
		}
	}
	return a.metadataSubset(cols)
}

// FactorsTable returns samples x factor values in human-readable form.
func (a *Assay) FactorsTable() *Table {
	cols := append([]string{a.sampleColumn()}, a.FactorColumns...)
	return a.metadataSubset(cols)
}

// Annotation returns the sample annotation table.
//
// differential keeps only columns whose values actually differ across
// samples; namedOnly drops internal columns (empty titles and the
// "Unnamed: N" placeholders the upstream exports carry). Both default to
// true at the request layer.
func (a *Assay) Annotation(differential, namedOnly bool) *Table {
	cols := []string{a.sampleColumn()}
	for i, c := range a.Metadata.Columns {
		if i == 0 {
			continue
		}
		if namedOnly && (c == "" || strings.HasPrefix(c, "Unnamed:")) {
			continue
		}
		if differential && !a.columnDiffers(i) {
			continue
		}
		cols = append(cols, c)
	}
	return a.metadataSubset(cols)
}

// columnDiffers reports whether metadata column i has at least two distinct
// values.
func (a *Assay) columnDiffers(i int) bool {
	if len(a.Metadata.Rows) < 2 {
		return false
	}
	first := a.Metadata.Rows[0][i]
	for _, row := range a.Metadata.Rows[1:] {
		if row[i] != first {
			return true
		}
	}
	return false
}

func (a *Assay) sampleColumn() string {
	if len(a.Metadata.Columns) > 0 {
		return a.Metadata.Columns[0]
	}
	return "Sample Name"
}

// metadataSubset projects Metadata onto the named columns, preserving order.
func (a *Assay) metadataSubset(cols []string) *Table {
	idx := make([]int, 0, len(cols))
	kept := make([]string, 0, len(cols))
	for _, c := range cols {
		for i, mc := range a.Metadata.Columns {
			if mc == c {
				idx = append(idx, i)
				kept = append(kept, c)
				break
			}
		}
	}
	rows := make([][]string, len(a.Metadata.Rows))
	for ri, row := range a.Metadata.Rows {
		r := make([]string, len(idx))
		for i, k := range idx {
			r[i] = row[k]
		}
		rows[ri] = r
	}
	return NewTable(kept, rows)
}

func (a *Assay) factorValues(factor string) []string {
	i := -1
	for ci, c := range a.Metadata.Columns {
		if c == factor {
			i = ci
			break
		}
	}
	if i < 0 {
		return nil
	}
	seen := map[string]bool{}
	var values []string
	for _, row := range a.Metadata.Rows {
		if !seen[row[i]] {
			seen[row[i]] = true
			values = append(values, row[i])
		}
	}
	return values
}
