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
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Continuity controls whether CLS output is numeric or categorical.
type Continuity int

const (
	// ContinuityInfer emits numeric CLS when every target value parses as
	// a float, categorical otherwise.
	ContinuityInfer Continuity = iota
	// ContinuityContinuous forces numeric CLS; non-numeric values error.
	ContinuityContinuous
	// ContinuityCategorical forces categorical CLS.
	ContinuityCategorical
)

// CLS renders one column of an annotation or factors table in the GSEA CLS
// phenotype format. Class labels have embedded whitespace stripped, as the
// format requires space-delimited tokens.
func CLS(t *Table, target string, continuity Continuity) (string, error) {
	idx := slices.Index(t.Columns, target)
	if idx < 0 {
		return "", fmt.Errorf("%w: cls=%q", ErrNoSuchColumn, target)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}

	continuous := continuity == ContinuityContinuous
	if continuity == ContinuityInfer {
		continuous = true
		for _, v := range values {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				continuous = false
				break
			}
		}
	}

	var b strings.Builder
	if continuous {
		for _, v := range values {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return "", fmt.Errorf("%w: %q is not numeric for continuous cls", ErrBadShape, v)
			}
		}
		b.WriteString("#numeric\n#")
		b.WriteString(stripSpace(target))
		b.WriteByte('\n')
		b.WriteString(strings.Join(values, " "))
		b.WriteByte('\n')
		return b.String(), nil
	}

	var classes []string
	classID := map[string]int{}
	ids := make([]string, len(values))
	for i, v := range values {
		v = stripSpace(v)
		id, ok := classID[v]
		if !ok {
			id = len(classes)
			classID[v] = id
			classes = append(classes, v)
		}
		ids[i] = strconv.Itoa(id)
	}
	// Third line carries class indices in first-appearance order, the way
	// GSEA expects categorical phenotypes.
	fmt.Fprintf(&b, "%d %d 1\n# %s\n", len(values), len(classes), strings.Join(classes, " "))
	b.WriteString(strings.Join(ids, " "))
	b.WriteByte('\n')
	return b.String(), nil
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
