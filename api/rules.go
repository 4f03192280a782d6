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

import "genelab.dev/dapi/genelab"

// Data type aliases accepted in the data_type segment.
const (
	DataTypeProcessed = "processed"
	DataTypeDEG       = "deg"
	DataTypeVizTable  = "viz-table"
	DataTypePCA       = "pca"
)

// Transform aliases accepted in the transform segment.
const (
	TransformGCT         = "gct"
	TransformMelted      = "melted"
	TransformDescriptive = "descriptive"
)

// Data categories accepted in the data_category segment.
const (
	CategoryFactors    = "factors"
	CategoryAnnotation = "annotation"
	CategoryData       = "data"
)

// DataTypes lists the data_type segment values, in documentation order.
func DataTypes() []string {
	return []string{DataTypeProcessed, DataTypeDEG, DataTypeVizTable, DataTypePCA}
}

// Transforms lists the transform segment values.
func Transforms() []string {
	return []string{TransformGCT, TransformMelted, TransformDescriptive}
}

// File name patterns the data type aliases narrow file_filter to. The
// upstream processing pipeline names its exports rigidly enough that exact
// anchored patterns are safe.
const (
	degFilePattern = `^GLDS-[0-9]+_(array|rna_seq)(_all-samples)?_differential_expression.csv$`
	vizFilePattern = `^GLDS-[0-9]+_(array|rna_seq)(_all-samples)?_visualization_output_table.csv$`
	pcaFilePattern = `^GLDS-[0-9]+_(array|rna_seq)(_all-samples)?_visualization_PCA_table.csv$`
)

// SegmentRule describes one position of the URL grammar, for the
// machine-readable index served at /.
type SegmentRule struct {
	Name        string   `json:"name"`
	Position    int      `json:"position"`
	Pattern     string   `json:"pattern,omitempty"`
	Values      []string `json:"values,omitempty"`
	Description string   `json:"description"`
}

// SegmentRules returns the URL grammar, one rule per segment position.
// Order is significant: a segment only matches if every earlier one did.
func SegmentRules() []SegmentRule {
	return []SegmentRule{
		{
			Name:        "accession",
			Position:    1,
			Pattern:     genelab.AccessionPattern,
			Description: "dataset accession",
		},
		{
			Name:        "assay_name",
			Position:    2,
			Description: "assay name; the literal \"assay\" resolves to the dataset's only assay",
		},
		{
			Name:        "data_category",
			Position:    3,
			Values:      []string{CategoryFactors, CategoryAnnotation, CategoryData},
			Description: "kind of information to retrieve",
		},
		{
			Name:        "data_type",
			Position:    4,
			Values:      DataTypes(),
			Description: "data table alias; only valid under the data category",
		},
		{
			Name:        "transform",
			Position:    5,
			Values:      Transforms(),
			Description: "data transformation alias",
		},
	}
}
