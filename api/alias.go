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
	"genelab.dev/dapi/errors"
	"genelab.dev/dapi/rargs"
)

// resolveAlias rewrites args in place for a data_type (and optional
// transform) URL alias, and returns the transform left to apply after file
// selection. Aliases set fields/file_filter and the transform flags
// themselves, so explicit GET arguments for the same knobs are a conflict,
// not an override.
func resolveAlias(a *rargs.Args, dataType, transform string) (string, error) {
	if a.Data.FieldsSet || a.Data.FileFilterSet {
		return "", errors.BadRequest(
			"%q already sets 'fields' and 'file_filter', cannot overwrite them with GET arguments",
			dataType,
		)
	}

	switch transform {
	case TransformMelted, TransformDescriptive:
		if a.Data.MeltedSet || a.Data.DescriptiveSet {
			return "", errors.BadRequest(
				"%q already sets 'melted' and 'descriptive', cannot overwrite them with GET arguments",
				transform,
			)
		}
	case TransformGCT:
		if dataType != DataTypeProcessed {
			return "", errors.BadRequest("GCT only available for processed data")
		}
		if a.Display.Format != rargs.FormatTSV || a.Display.Header || a.Data.Melted || a.Data.Descriptive {
			return "", errors.BadRequest(
				"none of the 'fmt', 'header', 'melted', 'descriptive' arguments make sense with the GCT format",
			)
		}
	}

	switch dataType {
	case DataTypeProcessed:
		a.Data.Fields = ".*normalized.*annotated.*"
		a.Data.FieldsSet = true
		a.Data.FileFilter = "txt"
	case DataTypeDEG:
		a.Data.Fields = ".*differential.*expression.*"
		a.Data.FieldsSet = true
		a.Data.FileFilter = degFilePattern
	case DataTypeVizTable:
		a.Data.FileFilter = vizFilePattern
	case DataTypePCA:
		// PCA tables are already long-form; melting them is a no-op alias.
		if transform == TransformMelted {
			transform = ""
		}
		a.Data.FileFilter = pcaFilePattern
	}

	switch transform {
	case TransformMelted:
		a.Data.Melted = true
	case TransformDescriptive:
		a.Data.Descriptive = true
	}
	return transform, nil
}
