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
	"slices"
	"sort"
	"strings"
)

// Table is the tabular substrate every non-raw response is shaped from.
// The first column is the row identifier (sample name for metadata tables,
// feature id for data tables). Cells are kept as strings; serialization
// decides representation, not the model.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a table and pads or truncates rows to the column count.
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{Columns: slices.Clone(columns)}
	t.Rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		r := make([]string, len(columns))
		copy(r, row)
		t.Rows = append(t.Rows, r)
	}
	return t
}

// Clone returns a deep copy. Shaping operations mutate in place, so handlers
// clone before applying per-request arguments.
func (t *Table) Clone() *Table {
	return NewTable(t.Columns, t.Rows)
}

// Head truncates the table to its first n rows.
func (t *Table) Head(n int) {
	if n >= 0 && n < len(t.Rows) {
		t.Rows = t.Rows[:n]
	}
}

// HeaderOnly drops all rows, leaving just the column set.
// This is what the `header` request argument asks for.
func (t *Table) HeaderOnly() {
	t.Rows = nil
}

// SortBy stably sorts rows by the named column.
func (t *Table) SortBy(column string) error {
	idx := slices.Index(t.Columns, column)
	if idx < 0 {
		return fmt.Errorf("%w: sort_by=%q", ErrNoSuchColumn, column)
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i][idx] < t.Rows[j][idx]
	})
	return nil
}

// HideColumns removes the named columns. Unknown names are ignored,
// matching the forgiving handling of display arguments upstream.
func (t *Table) HideColumns(names ...string) {
	if len(names) == 0 {
		return
	}
	hidden := make(map[string]bool, len(names))
	for _, n := range names {
		hidden[n] = true
	}
	keep := make([]int, 0, len(t.Columns))
	for i, c := range t.Columns {
		if !hidden[c] {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(t.Columns) {
		return
	}
	cols := make([]string, len(keep))
	for i, k := range keep {
		cols[i] = t.Columns[k]
	}
	rows := make([][]string, len(t.Rows))
	for ri, row := range t.Rows {
		r := make([]string, len(keep))
		for i, k := range keep {
			r[i] = row[k]
		}
		rows[ri] = r
	}
	t.Columns, t.Rows = cols, rows
}

// SingleCell reports the lone cell value when the table is exactly 1x1.
// The `list` format only applies to such tables.
func (t *Table) SingleCell() (string, bool) {
	if len(t.Rows) == 1 && len(t.Rows[0]) == 1 {
		return t.Rows[0][0], true
	}
	return "", false
}

// TSV renders the table as tab-separated text with a header line.
// Empty cells render as NA.
func (t *Table) TSV() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Columns, "\t"))
	b.WriteByte('\n')
	for _, row := range t.Rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte('\t')
			}
			if cell == "" {
				b.WriteString("NA")
			} else {
				b.WriteString(cell)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// JSONRecords serializes rows as an array of column-keyed objects.
func (t *Table) JSONRecords() ([]byte, error) {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for i, c := range t.Columns {
			rec[c] = row[i]
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

// JSONIndex serializes rows as an object keyed by the first column.
// It fails when row identifiers collide; callers fall back to JSONRecords.
func (t *Table) JSONIndex() ([]byte, error) {
	if len(t.Columns) == 0 {
		return []byte("{}"), nil
	}
	indexed := make(map[string]map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		key := row[0]
		if _, dup := indexed[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateIndex, key)
		}
		rec := make(map[string]string, len(t.Columns)-1)
		for i := 1; i < len(t.Columns); i++ {
			rec[t.Columns[i]] = row[i]
		}
		indexed[key] = rec
	}
	return json.Marshal(indexed)
}

// GCT renders the table in GCT 1.2 format: a two-line preamble followed by
// Name/Description columns and the data columns. The first table column is
// used as both Name and Description, mirroring how processed tables are
// exported upstream.
func (t *Table) GCT() (string, error) {
	if len(t.Columns) < 2 {
		return "", fmt.Errorf("%w: GCT needs an id column and at least one data column", ErrBadShape)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "#1.2\n%d\t%d\n", len(t.Rows), len(t.Columns)-1)
	b.WriteString("Name\tDescription")
	for _, c := range t.Columns[1:] {
		b.WriteByte('\t')
		b.WriteString(c)
	}
	b.WriteByte('\n')
	for _, row := range t.Rows {
		b.WriteString(row[0])
		b.WriteByte('\t')
		b.WriteString(row[0])
		for _, cell := range row[1:] {
			b.WriteByte('\t')
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
