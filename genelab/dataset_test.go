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
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssay(name string) *Assay {
	return &Assay{
		Name: name,
		Metadata: NewTable(
			[]string{"Sample Name", "Spaceflight", "Organism", "Unnamed: 3", "Batch"},
			[][]string{
				{"S1", "Ground Control", "Mus musculus", "x", "A"},
				{"S2", "Space Flown", "Mus musculus", "y", "A"},
			},
		),
		FactorColumns: []string{"Spaceflight"},
		Files: []DataFile{
			{
				Name:   "GLDS-4_array_normalized_annotated.txt",
				Fields: []string{"Normalized Annotated Data Files"},
				Table:  NewTable([]string{"gene", "S1", "S2"}, [][]string{{"ATP1", "1", "2"}}),
			},
			{
				Name:   "GLDS-4_array_differential_expression.csv",
				Fields: []string{"Differential Expression Analysis Data Transformation"},
				Table:  NewTable([]string{"gene", "logFC"}, [][]string{{"ATP1", "0.5"}}),
			},
		},
		FileDates: map[string]int64{"GLDS-4_array_normalized_annotated.txt": 1500000000},
	}
}

func testDataset(assays ...*Assay) *Dataset {
	return &Dataset{Accession: "GLDS-4", Assays: assays}
}

// TestAssayWildcard verifies the literal "assay" segment resolves to the
// only assay, and 404s with the assay listing otherwise.
func TestAssayWildcard(t *testing.T) {
	single := testDataset(testAssay("a_one"))
	a, err := single.Assay(AssayWildcard)
	require.NoError(t, err)
	assert.Equal(t, "a_one", a.Name)

	double := testDataset(testAssay("a_one"), testAssay("a_two"))
	_, err = double.Assay(AssayWildcard)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "a_one")
	assert.Contains(t, err.Error(), "a_two")
}

func TestAssayByName(t *testing.T) {
	ds := testDataset(testAssay("a_one"), testAssay("a_two"))
	a, err := ds.Assay("a_two")
	require.NoError(t, err)
	assert.Equal(t, "a_two", a.Name)

	_, err = ds.Assay("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestResolveFile covers the three cardinalities: no match is a not-found,
// one match resolves, several matches are ambiguous.
func TestResolveFile(t *testing.T) {
	a := testAssay("a")

	_, err := a.ResolveFile(nil, regexp.MustCompile(`zip$`))
	assert.ErrorIs(t, err, ErrNotFound)

	f, err := a.ResolveFile(nil, regexp.MustCompile(`txt`))
	require.NoError(t, err)
	assert.Equal(t, "GLDS-4_array_normalized_annotated.txt", f.Name)

	_, err = a.ResolveFile(nil, regexp.MustCompile(`.*`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestResolveFileByFields(t *testing.T) {
	a := testAssay("a")
	f, err := a.ResolveFile(regexp.MustCompile(`(?i).*differential.*expression.*`), regexp.MustCompile(`.*`))
	require.NoError(t, err)
	assert.Equal(t, "GLDS-4_array_differential_expression.csv", f.Name)
}

// TestAnnotation verifies differential mode keeps only columns whose values
// vary across samples and named-only mode drops placeholder columns.
func TestAnnotation(t *testing.T) {
	a := testAssay("a")

	full := a.Annotation(false, false)
	assert.Equal(t, a.Metadata.Columns, full.Columns)

	named := a.Annotation(false, true)
	assert.NotContains(t, named.Columns, "Unnamed: 3")
	assert.Contains(t, named.Columns, "Organism")

	diff := a.Annotation(true, true)
	// Organism and Batch are constant across samples.
	assert.Equal(t, []string{"Sample Name", "Spaceflight"}, diff.Columns)
}

func TestFactorsTable(t *testing.T) {
	tbl := testAssay("a").FactorsTable()
	assert.Equal(t, []string{"Sample Name", "Spaceflight"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"S2", "Space Flown"}, tbl.Rows[1])
}

func TestMetadataSubset(t *testing.T) {
	a := testAssay("a")

	all := a.MetadataSubset(nil)
	assert.Equal(t, a.Metadata.Columns, all.Columns)

	sub := a.MetadataSubset(regexp.MustCompile(`(?i)organism`))
	assert.Equal(t, []string{"Sample Name", "Organism"}, sub.Columns)
}

func TestSummary(t *testing.T) {
	ds := testDataset(testAssay("a_one"))
	tbl := ds.Summary()
	assert.Equal(t, []string{"kind", "name", "details"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "assay", tbl.Rows[0][0])
	assert.Equal(t, "a_one", tbl.Rows[0][1])
	assert.Equal(t, "factor", tbl.Rows[1][0])
	assert.Equal(t, "Spaceflight", tbl.Rows[1][1])
	assert.Equal(t, "Ground Control, Space Flown", tbl.Rows[1][2])
}

func TestFileDate(t *testing.T) {
	a := testAssay("a")
	assert.Equal(t, int64(1500000000), a.FileDate("GLDS-4_array_normalized_annotated.txt"))
	assert.Equal(t, int64(-1), a.FileDate("unknown.bin"))
}
