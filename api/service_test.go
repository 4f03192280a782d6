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

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genelab.dev/dapi/genelab"
	"genelab.dev/dapi/router"
)

func microarrayAssay() *genelab.Assay {
	return &genelab.Assay{
		Name: "a_dna_microarray",
		Metadata: genelab.NewTable(
			[]string{"Sample Name", "Spaceflight", "Organism", "Unnamed: 3"},
			[][]string{
				{"S1", "Ground Control", "Mus musculus", "x"},
				{"S2", "Space Flown", "Mus musculus", "y"},
			},
		),
		FactorColumns: []string{"Spaceflight"},
		Files: []genelab.DataFile{
			{
				Name:   "GLDS-4_array_normalized_annotated.txt",
				Fields: []string{"Normalized Annotated Data Files"},
				Table: genelab.NewTable(
					[]string{"gene", "S1", "S2"},
					[][]string{{"ATP1", "1.5", "2.5"}, {"SOD2", "3.5", "4.5"}},
				),
			},
			{
				Name:   "GLDS-4_array_differential_expression.csv",
				Fields: []string{"Differential Expression Analysis Data"},
				Table: genelab.NewTable(
					[]string{"gene", "logFC"},
					[][]string{{"ATP1", "0.5"}},
				),
			},
			{
				Name:   "GLDS-4_array_visualization_PCA_table.csv",
				Fields: []string{"Visualization Output Files"},
				Table: genelab.NewTable(
					[]string{"sample", "PC1", "PC2"},
					[][]string{{"S1", "0.1", "0.2"}, {"S2", "-0.1", "-0.2"}},
				),
			},
		},
	}
}

func testServer(t *testing.T) *router.Router {
	t.Helper()
	backend := genelab.NewMemory()

	backend.Put(&genelab.Dataset{
		Accession: "GLDS-4",
		Assays:    []*genelab.Assay{microarrayAssay()},
		Raw:       json.RawMessage(`{"accession":"GLDS-4"}`),
	})

	second := microarrayAssay()
	second.Name = "a_rna_seq"
	backend.Put(&genelab.Dataset{
		Accession: "GLDS-111",
		Assays:    []*genelab.Assay{microarrayAssay(), second},
		Raw:       json.RawMessage(`{"accession":"GLDS-111"}`),
	})

	r := router.MustNew()
	New(backend).Register(r)
	return r
}

func get(r *router.Router, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestIndex(t *testing.T) {
	w := get(testServer(t), "/")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Segments []SegmentRule `json:"segments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Segments, 5)
	assert.Equal(t, "accession", body.Segments[0].Name)
	assert.Equal(t, genelab.AccessionPattern, body.Segments[0].Pattern)
}

// TestSummary covers the first URL level: the TSV summary and the raw
// upstream document.
func TestSummary(t *testing.T) {
	r := testServer(t)

	w := get(r, "/GLDS-111/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "a_dna_microarray")
	assert.Contains(t, w.Body.String(), "a_rna_seq")
	assert.Contains(t, w.Body.String(), "Spaceflight")

	w = get(r, "/GLDS-4/?fmt=raw")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"accession":"GLDS-4"}`, w.Body.String())
}

// TestAccessionGrammar verifies malformed accessions never reach a
// handler: the segment fails its rule, so the route does not match.
func TestAccessionGrammar(t *testing.T) {
	r := testServer(t)

	for _, path := range []string{"/BAD-1/", "/glds-4/", "/GLDS-/", "/GLDS-4x/"} {
		w := get(r, path)
		assert.Equal(t, http.StatusNotFound, w.Code, "path %s", path)
	}

	// Well-formed but unknown accession also 404s, from the backend.
	assert.Equal(t, http.StatusNotFound, get(r, "/GLDS-999/").Code)
}

func TestMetadata(t *testing.T) {
	r := testServer(t)

	w := get(r, "/GLDS-4/a_dna_microarray/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sample Name\tSpaceflight\tOrganism")

	// fields subsets columns, keeping the sample identifier.
	w = get(r, "/GLDS-4/assay/?fields=organism")
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Equal(t, "Sample Name\tOrganism", lines[0])
}

// TestAssayWildcard verifies the literal "assay" segment: it resolves for
// a single-assay dataset and 404s (naming the candidates) otherwise.
func TestAssayWildcard(t *testing.T) {
	r := testServer(t)

	assert.Equal(t, http.StatusOK, get(r, "/GLDS-4/assay/").Code)

	w := get(r, "/GLDS-111/assay/")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "a_dna_microarray")
	assert.Contains(t, w.Body.String(), "a_rna_seq")

	w = get(r, "/GLDS-4/no_such_assay/")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "a_dna_microarray")
}

func TestHTMLFormatNotImplemented(t *testing.T) {
	w := get(testServer(t), "/GLDS-4/assay/?fmt=html")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestBadQueryArgument(t *testing.T) {
	r := testServer(t)
	assert.Equal(t, http.StatusBadRequest, get(r, "/GLDS-4/assay/?top=abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/GLDS-4/assay/?fmt=xml").Code)
}

// TestUnknownArgumentsPassThrough verifies the schema-less query contract:
// unrecognized keys do not fail the request.
func TestUnknownArgumentsPassThrough(t *testing.T) {
	w := get(testServer(t), "/GLDS-4/assay/?future_arg=1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFactors(t *testing.T) {
	r := testServer(t)

	w := get(r, "/GLDS-4/assay/factors/")
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Equal(t, "Sample Name\tSpaceflight", lines[0])
	assert.Len(t, lines, 3)
}

func TestFactorsCLS(t *testing.T) {
	r := testServer(t)

	w := get(r, "/GLDS-4/assay/factors/?cls=Spaceflight")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2 2 1\n# GroundControl SpaceFlown\n0 1\n", w.Body.String())

	// CLS is line-oriented text; other formats are rejected.
	w = get(r, "/GLDS-4/assay/factors/?cls=Spaceflight&fmt=json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestAnnotation verifies the defaults (differential, named-only) and the
// json orient.
func TestAnnotation(t *testing.T) {
	r := testServer(t)

	w := get(r, "/GLDS-4/assay/annotation/")
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	// Organism is constant and Unnamed: 3 is a placeholder; both drop.
	assert.Equal(t, "Sample Name\tSpaceflight", lines[0])

	w = get(r, "/GLDS-4/assay/annotation/?fmt=json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	var indexed map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &indexed))
	assert.Equal(t, "Space Flown", indexed["S2"]["Spaceflight"])

	// diff=0 keeps constant columns.
	w = get(r, "/GLDS-4/assay/annotation/?diff=0")
	assert.Contains(t, w.Body.String(), "Organism")
}

func TestDataByFilter(t *testing.T) {
	r := testServer(t)

	w := get(r, "/GLDS-4/assay/data/?file_filter=txt")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gene\tS1\tS2")
	assert.Contains(t, w.Body.String(), "ATP1\t1.5\t2.5")

	// The default .* filter matches all three files: ambiguous.
	assert.Equal(t, http.StatusBadRequest, get(r, "/GLDS-4/assay/data/").Code)

	// No file matches: not found.
	assert.Equal(t, http.StatusNotFound, get(r, "/GLDS-4/assay/data/?file_filter=zip$").Code)

	// Data tables only serialize as tsv or json.
	assert.Equal(t, http.StatusNotImplemented, get(r, "/GLDS-4/assay/data/?file_filter=txt&fmt=list").Code)
}

// TestDataTypeAliases verifies each data_type segment resolves to its
// pipeline file.
func TestDataTypeAliases(t *testing.T) {
	r := testServer(t)

	w := get(r, "/GLDS-4/assay/data/processed/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ATP1\t1.5\t2.5")

	w = get(r, "/GLDS-4/assay/data/deg/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "logFC")

	w = get(r, "/GLDS-4/assay/data/pca/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PC1")

	// viz-table names a file this dataset does not have.
	assert.Equal(t, http.StatusNotFound, get(r, "/GLDS-4/assay/data/viz-table/").Code)
}

// TestDataTypeGrammar verifies unknown data types and categories fail the
// segment rule: 404, not a handler error.
func TestDataTypeGrammar(t *testing.T) {
	r := testServer(t)
	assert.Equal(t, http.StatusNotFound, get(r, "/GLDS-4/assay/data/unknown/").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/GLDS-4/assay/wrongcategory/").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/GLDS-4/assay/data/processed/rotated/").Code)
}

// TestAliasConflicts verifies aliases refuse to overwrite explicitly
// passed selection arguments.
func TestAliasConflicts(t *testing.T) {
	r := testServer(t)
	assert.Equal(t, http.StatusBadRequest, get(r, "/GLDS-4/assay/data/processed/?fields=x").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/GLDS-4/assay/data/processed/?file_filter=csv").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/GLDS-4/assay/data/deg/melted/?melted=1").Code)
}

func TestTransforms(t *testing.T) {
	r := testServer(t)

	w := get(r, "/GLDS-4/assay/data/deg/melted/")
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Equal(t, "gene\tvariable\tvalue", lines[0])
	assert.Equal(t, "ATP1\tlogFC\t0.5", lines[1])

	w = get(r, "/GLDS-4/assay/data/processed/descriptive/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "statistic")
	assert.Contains(t, w.Body.String(), "mean")

	// PCA tables are served as-is under the melted alias.
	w = get(r, "/GLDS-4/assay/data/pca/melted/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PC1")
}

func TestGCT(t *testing.T) {
	r := testServer(t)

	w := get(r, "/GLDS-4/assay/data/processed/gct/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"#1.2\n2\t2\n"+
			"Name\tDescription\tS1\tS2\n"+
			"ATP1\tATP1\t1.5\t2.5\n"+
			"SOD2\tSOD2\t3.5\t4.5\n",
		w.Body.String())

	// GCT only makes sense for processed data, with default display args.
	assert.Equal(t, http.StatusBadRequest, get(r, "/GLDS-4/assay/data/deg/gct/").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/GLDS-4/assay/data/processed/gct/?fmt=json").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/GLDS-4/assay/data/processed/gct/?header=1").Code)
}

// TestTableShaping verifies top, header, sort_by, and hidecol compose on
// any tabular endpoint.
func TestTableShaping(t *testing.T) {
	r := testServer(t)

	w := get(r, "/GLDS-4/assay/data/?file_filter=txt&top=1")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 2)

	w = get(r, "/GLDS-4/assay/data/?file_filter=txt&header=1")
	assert.Equal(t, "gene\tS1\tS2\n", w.Body.String())

	w = get(r, "/GLDS-4/assay/data/?file_filter=txt&hidecol=S1")
	assert.Contains(t, w.Body.String(), "gene\tS2")

	w = get(r, "/GLDS-4/assay/data/?file_filter=txt&sort_by=gene")
	lines = strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[1], "ATP1"))

	assert.Equal(t, http.StatusBadRequest, get(r, "/GLDS-4/assay/data/?file_filter=txt&sort_by=nope").Code)
}

func TestFavicon(t *testing.T) {
	r := testServer(t)
	for _, path := range []string{"/favicon.ico", "/favicon.png"} {
		w := get(r, path)
		assert.Equal(t, http.StatusOK, w.Code, "path %s", path)
		assert.Empty(t, w.Body.String())
	}
}

func TestNotFoundBodyIsJSON(t *testing.T) {
	w := get(testServer(t), "/GLDS-999/")
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
}

func TestMetadataPost(t *testing.T) {
	r := testServer(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/GLDS-4/assay/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
