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
	"strconv"
)

// Melt reshapes the table from wide to long form. The first column is kept
// as the row identifier; every other column contributes one
// (id, variable, value) row per original row.
func (t *Table) Melt() *Table {
	if len(t.Columns) == 0 {
		return NewTable(nil, nil)
	}
	id := t.Columns[0]
	rows := make([][]string, 0, len(t.Rows)*(len(t.Columns)-1))
	for ci := 1; ci < len(t.Columns); ci++ {
		for _, row := range t.Rows {
			rows = append(rows, []string{row[0], t.Columns[ci], row[ci]})
		}
	}
	return NewTable([]string{id, "variable", "value"}, rows)
}

// Descriptive summarizes each non-identifier column. Numeric columns get
// count/mean/min/max; everything else gets count/unique/top/freq, with the
// remaining statistic cells left empty (serialized as NA).
func (t *Table) Descriptive() *Table {
	stats := []string{"count", "unique", "top", "freq", "mean", "min", "max"}
	cols := []string{"statistic"}
	if len(t.Columns) > 1 {
		cols = append(cols, t.Columns[1:]...)
	}

	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = make([]string, len(cols))
		rows[i][0] = s
	}

	for ci := 1; ci < len(t.Columns); ci++ {
		values := make([]string, 0, len(t.Rows))
		for _, row := range t.Rows {
			if row[ci] != "" {
				values = append(values, row[ci])
			}
		}
		summary := describeColumn(values)
		for i, s := range stats {
			rows[i][ci] = summary[s]
		}
	}
	return NewTable(cols, rows)
}

func describeColumn(values []string) map[string]string {
	out := map[string]string{"count": strconv.Itoa(len(values))}
	if len(values) == 0 {
		return out
	}

	numeric := true
	var sum, minV, maxV float64
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			numeric = false
			break
		}
		sum += f
		if i == 0 || f < minV {
			minV = f
		}
		if i == 0 || f > maxV {
			maxV = f
		}
	}
	if numeric {
		out["mean"] = formatFloat(sum / float64(len(values)))
		out["min"] = formatFloat(minV)
		out["max"] = formatFloat(maxV)
		return out
	}

	counts := map[string]int{}
	var top string
	for _, v := range values {
		counts[v]++
		if top == "" || counts[v] > counts[top] {
			top = v
		}
	}
	out["unique"] = strconv.Itoa(len(counts))
	out["top"] = top
	out["freq"] = strconv.Itoa(counts[top])
	return out
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
