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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return NewTable(
		[]string{"Sample Name", "Spaceflight", "Reads"},
		[][]string{
			{"S1", "Ground Control", "100"},
			{"S2", "Space Flown", "250"},
			{"S3", "Ground Control", ""},
		},
	)
}

// TestNewTable_PadsShortRows verifies rows shorter than the column set are
// padded with empty cells instead of panicking on access.
func TestNewTable_PadsShortRows(t *testing.T) {
	tbl := NewTable([]string{"a", "b", "c"}, [][]string{{"1"}})
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []string{"1", "", ""}, tbl.Rows[0])
}

// TestTSV verifies tab separation, the trailing newline per row, and NA
// fill for empty cells.
func TestTSV(t *testing.T) {
	tbl := sampleTable()
	want := "Sample Name\tSpaceflight\tReads\n" +
		"S1\tGround Control\t100\n" +
		"S2\tSpace Flown\t250\n" +
		"S3\tGround Control\tNA\n"
	assert.Equal(t, want, tbl.TSV())
}

func TestSortBy(t *testing.T) {
	tbl := sampleTable()
	require.NoError(t, tbl.SortBy("Reads"))
	// Lexicographic string sort: "" < "100" < "250".
	assert.Equal(t, "S3", tbl.Rows[0][0])
	assert.Equal(t, "S1", tbl.Rows[1][0])

	err := tbl.SortBy("Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSuchColumn)
}

func TestHideColumns(t *testing.T) {
	tbl := sampleTable()
	tbl.HideColumns("Spaceflight", "NotAColumn")
	assert.Equal(t, []string{"Sample Name", "Reads"}, tbl.Columns)
	assert.Equal(t, []string{"S1", "100"}, tbl.Rows[0])
}

func TestHeadAndHeaderOnly(t *testing.T) {
	tbl := sampleTable()
	tbl.Head(2)
	assert.Len(t, tbl.Rows, 2)

	tbl.HeaderOnly()
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, []string{"Sample Name", "Spaceflight", "Reads"}, tbl.Columns)
}

func TestSingleCell(t *testing.T) {
	_, ok := sampleTable().SingleCell()
	assert.False(t, ok)

	cell, ok := NewTable([]string{"v"}, [][]string{{"a, b, c"}}).SingleCell()
	require.True(t, ok)
	assert.Equal(t, "a, b, c", cell)
}

// TestJSONIndex_DuplicateIdentifiers verifies the index orient refuses
// colliding row identifiers so callers can fall back to records orient.
func TestJSONIndex_DuplicateIdentifiers(t *testing.T) {
	tbl := NewTable([]string{"id", "v"}, [][]string{{"x", "1"}, {"x", "2"}})
	_, err := tbl.JSONIndex()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateIndex)

	body, err := tbl.JSONRecords()
	require.NoError(t, err)
	var records []map[string]string
	require.NoError(t, json.Unmarshal(body, &records))
	assert.Len(t, records, 2)
}

func TestJSONIndex(t *testing.T) {
	body, err := sampleTable().JSONIndex()
	require.NoError(t, err)
	var indexed map[string]map[string]string
	require.NoError(t, json.Unmarshal(body, &indexed))
	assert.Equal(t, "250", indexed["S2"]["Reads"])
}

// TestGCT verifies the #1.2 preamble, the shape line, and the doubled
// Name/Description identifier column.
func TestGCT(t *testing.T) {
	tbl := NewTable([]string{"gene", "S1", "S2"}, [][]string{{"ATP1", "1.5", "2.5"}})
	gct, err := tbl.GCT()
	require.NoError(t, err)
	want := "#1.2\n1\t2\n" +
		"Name\tDescription\tS1\tS2\n" +
		"ATP1\tATP1\t1.5\t2.5\n"
	assert.Equal(t, want, gct)

	_, err = NewTable([]string{"only"}, nil).GCT()
	assert.ErrorIs(t, err, ErrBadShape)
}

func TestMelt(t *testing.T) {
	tbl := NewTable([]string{"gene", "S1", "S2"}, [][]string{
		{"ATP1", "1", "2"},
		{"SOD2", "3", "4"},
	})
	long := tbl.Melt()
	assert.Equal(t, []string{"gene", "variable", "value"}, long.Columns)
	require.Len(t, long.Rows, 4)
	// Column-major: all of S1 first, then S2.
	assert.Equal(t, []string{"ATP1", "S1", "1"}, long.Rows[0])
	assert.Equal(t, []string{"SOD2", "S2", "4"}, long.Rows[3])
}

func TestDescriptive(t *testing.T) {
	tbl := sampleTable()
	desc := tbl.Descriptive()
	assert.Equal(t, []string{"statistic", "Spaceflight", "Reads"}, desc.Columns)

	stats := map[string]map[string]string{}
	for _, row := range desc.Rows {
		vals := map[string]string{}
		for i, c := range desc.Columns[1:] {
			vals[c] = row[i+1]
		}
		stats[row[0]] = vals
	}
	assert.Equal(t, "3", stats["count"]["Spaceflight"])
	assert.Equal(t, "2", stats["unique"]["Spaceflight"])
	assert.Equal(t, "Ground Control", stats["top"]["Spaceflight"])
	assert.Equal(t, "2", stats["freq"]["Spaceflight"])
	// Reads has one empty cell; the two remaining values are numeric.
	assert.Equal(t, "2", stats["count"]["Reads"])
	assert.Equal(t, "175", stats["mean"]["Reads"])
	assert.Equal(t, "100", stats["min"]["Reads"])
	assert.Equal(t, "250", stats["max"]["Reads"])
}
