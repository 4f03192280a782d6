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
	"net/http"
	"regexp"

	"genelab.dev/dapi/errors"
	"genelab.dev/dapi/genelab"
	"genelab.dev/dapi/rargs"
	"genelab.dev/dapi/router"
)

var commaSplit = regexp.MustCompile(`\s*,\s*`)

// renderTable applies the display arguments to a table and writes the
// response. The table is mutated; callers pass a clone.
func renderTable(c *router.Context, t *genelab.Table, a *rargs.Args) error {
	if a.Display.Format == rargs.FormatList {
		cell, ok := t.SingleCell()
		if !ok {
			return errors.BadRequest("multiple cells selected")
		}
		// Comma-separated cells (file listings, factor values) expand to
		// one entry per line.
		return c.String(http.StatusOK, commaSplit.ReplaceAllString(cell, "\n"))
	}

	if a.Filter.SortBy != "" {
		if err := t.SortBy(a.Filter.SortBy); err != nil {
			return errors.Categorize(err, errors.ErrBadRequest)
		}
	}
	t.HideColumns(a.Filter.HideColumns...)
	if a.Display.Top > 0 {
		t.Head(a.Display.Top)
	}
	if a.Display.Header {
		t.HeaderOnly()
	}

	switch a.Display.Format {
	case rargs.FormatTSV:
		return c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(t.TSV()))
	case rargs.FormatJSON:
		// Index orient first; tables with duplicate row identifiers fall
		// back to records orient.
		body, err := t.JSONIndex()
		if err != nil {
			if body, err = t.JSONRecords(); err != nil {
				return errors.Categorize(err, errors.ErrUpstream)
			}
		}
		return c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	case rargs.FormatHTML:
		return errors.NotImplemented("fmt=html")
	default:
		return errors.BadRequest("fmt=%s cannot display a table", a.Display.Format)
	}
}
