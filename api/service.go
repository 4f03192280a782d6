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
	"strings"

	"genelab.dev/dapi/errors"
	"genelab.dev/dapi/genelab"
	"genelab.dev/dapi/rargs"
	"genelab.dev/dapi/router"
)

// Option configures a Service.
type Option func(*Service)

// Service wires the URL grammar onto a dataset backend.
type Service struct {
	backend   genelab.Backend
	formatter errors.Formatter
}

// WithFormatter overrides the error response formatter.
func WithFormatter(f errors.Formatter) Option {
	return func(s *Service) { s.formatter = f }
}

// New creates a Service over the given backend.
func New(backend genelab.Backend, opts ...Option) *Service {
	s := &Service{
		backend:   backend,
		formatter: errors.NewSimple(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register installs the route table. One route exists per reachable depth
// of the grammar, with segment constraints attached at every level, so a
// request can only dispatch when all of its segments are valid.
func (s *Service) Register(r *router.Router) {
	r.GET("/", s.handle(s.index))
	r.NoRoute(s.noRoute)

	accession := genelab.AccessionPattern

	r.GET("/:accession", s.handle(s.summary)).
		Where("accession", accession)

	// Metadata queries can carry field selections too long for a URL,
	// so this level also accepts POST.
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		r.Handle(method, "/:accession/:assay", s.handle(s.metadata)).
			Where("accession", accession)
	}

	r.GET("/:accession/:assay/factors", s.handle(s.factors)).
		Where("accession", accession)

	r.GET("/:accession/:assay/annotation", s.handle(s.annotation)).
		Where("accession", accession)

	r.GET("/:accession/:assay/data", s.handle(s.data)).
		Where("accession", accession)

	r.GET("/:accession/:assay/data/:type", s.handle(s.dataAlias)).
		Where("accession", accession).
		WhereEnum("type", DataTypes()...)

	r.GET("/:accession/:assay/data/:type/:transform", s.handle(s.dataAlias)).
		Where("accession", accession).
		WhereEnum("type", DataTypes()...).
		WhereEnum("transform", Transforms()...)
}

// handle adapts an error-returning handler, funneling failures through the
// formatter so individual handlers stay status-agnostic.
func (s *Service) handle(h func(*router.Context) error) router.HandlerFunc {
	return func(c *router.Context) {
		if err := h(c); err != nil {
			s.fail(c, err)
		}
	}
}

func (s *Service) fail(c *router.Context, err error) {
	resp := s.formatter.Format(c.Request, mapError(err))
	if resp.Status >= http.StatusInternalServerError {
		c.Logger().Error("request failed", "error", err)
	}
	_ = c.JSON(resp.Status, resp.Body)
}

// mapError lifts model-layer sentinels into the HTTP taxonomy. Anything
// uncategorized falls through to 400 in the formatter.
func mapError(err error) error {
	if errors.Is(err, genelab.ErrNotFound) || errors.Is(err, genelab.ErrBadAccession) {
		return errors.Categorize(err, errors.ErrNotFound)
	}
	return err
}

// noRoute is the unmatched-path handler. Favicon requests get an empty
// body instead of an error so browser tabs do not pollute the error logs.
func (s *Service) noRoute(c *router.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/favicon.") {
		_ = c.String(http.StatusOK, "")
		return
	}
	s.fail(c, errors.NotFound("no route for %s", c.Request.URL.Path))
}

// index describes the URL grammar in machine-readable form.
func (s *Service) index(c *router.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service":  "genelab data api",
		"schema":   "/<accession>/<assay_name>/<data_category>/<data_type>/<transform>/",
		"segments": SegmentRules(),
		"examples": []string{
			"/GLDS-111/",
			"/GLDS-4/assay/annotation/?fmt=json",
			"/GLDS-30/assay/data/processed/gct/",
			"/GLDS-42/assay/data/pca/?fmt=tsv",
		},
	})
}

func (s *Service) dataset(c *router.Context) (*genelab.Dataset, error) {
	accession, err := genelab.ParseAccession(c.Param("accession"))
	if err != nil {
		return nil, err
	}
	return s.backend.Dataset(c.Request.Context(), accession)
}

func (s *Service) assay(c *router.Context) (*genelab.Assay, error) {
	ds, err := s.dataset(c)
	if err != nil {
		return nil, err
	}
	return ds.Assay(c.Param("assay"))
}

// summary reports the dataset's assays and factors; fmt=raw returns the
// stored upstream document verbatim.
func (s *Service) summary(c *router.Context) error {
	args, err := rargs.Parse(c.QueryValues())
	if err != nil {
		return err
	}
	ds, err := s.dataset(c)
	if err != nil {
		return err
	}
	if args.Display.Format == rargs.FormatRaw {
		return c.Data(http.StatusOK, "application/json; charset=utf-8", ds.Raw)
	}
	return renderTable(c, ds.Summary(), args)
}

// metadata serves the assay metadata table, subset by the fields pattern.
func (s *Service) metadata(c *router.Context) error {
	args, err := rargs.Parse(c.QueryValues())
	if err != nil {
		return err
	}
	assay, err := s.assay(c)
	if err != nil {
		return err
	}
	fields, err := args.FieldsRegexp()
	if err != nil {
		return err
	}
	return renderTable(c, assay.MetadataSubset(fields), args)
}

// factors serves the samples x factors table, or its CLS rendition.
func (s *Service) factors(c *router.Context) error {
	args, err := rargs.Parse(c.QueryValues())
	if err != nil {
		return err
	}
	assay, err := s.assay(c)
	if err != nil {
		return err
	}
	table := assay.FactorsTable()
	if args.Meta.CLS != "" {
		return renderCLS(c, table, args)
	}
	return renderTable(c, table, args)
}

// annotation serves the sample annotation table, or its CLS rendition.
func (s *Service) annotation(c *router.Context) error {
	args, err := rargs.Parse(c.QueryValues())
	if err != nil {
		return err
	}
	assay, err := s.assay(c)
	if err != nil {
		return err
	}
	table := assay.Annotation(args.Meta.Diff, args.Meta.NamedOnly)
	if args.Meta.CLS != "" {
		return renderCLS(c, table, args)
	}
	return renderTable(c, table, args)
}

// renderCLS writes one column of an annotation or factors table in GSEA
// CLS phenotype format. CLS is line-oriented text, so only the default
// tsv format is accepted.
func renderCLS(c *router.Context, t *genelab.Table, args *rargs.Args) error {
	if args.Display.Format != rargs.FormatTSV {
		return errors.BadRequest("%s format is unsuitable for CLS (use tsv)", args.Display.Format)
	}
	force, infer, err := args.ContinuousFlag()
	if err != nil {
		return err
	}
	continuity := genelab.ContinuityInfer
	if !infer {
		if force {
			continuity = genelab.ContinuityContinuous
		} else {
			continuity = genelab.ContinuityCategorical
		}
	}
	cls, err := genelab.CLS(t, args.Meta.CLS, continuity)
	if err != nil {
		return err
	}
	return c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(cls))
}

// data serves the single data table selected by fields and file_filter.
func (s *Service) data(c *router.Context) error {
	args, err := rargs.Parse(c.QueryValues())
	if err != nil {
		return err
	}
	return s.serveData(c, args)
}

// dataAlias resolves the data_type (and optional transform) segments onto
// the argument set and dispatches to the data path. GCT short-circuits:
// it is a complete serialization of its own, not a table shaping.
func (s *Service) dataAlias(c *router.Context) error {
	args, err := rargs.Parse(c.QueryValues())
	if err != nil {
		return err
	}
	transform, err := resolveAlias(args, c.Param("type"), c.Param("transform"))
	if err != nil {
		return err
	}
	if transform == TransformGCT {
		return s.serveGCT(c, args)
	}
	return s.serveData(c, args)
}

func (s *Service) resolveFile(c *router.Context, args *rargs.Args) (*genelab.DataFile, error) {
	assay, err := s.assay(c)
	if err != nil {
		return nil, err
	}
	fields, err := args.FieldsRegexp()
	if err != nil {
		return nil, err
	}
	fileFilter, err := args.FileFilterRegexp()
	if err != nil {
		return nil, err
	}
	return assay.ResolveFile(fields, fileFilter)
}

func (s *Service) serveData(c *router.Context, args *rargs.Args) error {
	if args.Display.Format != rargs.FormatTSV && args.Display.Format != rargs.FormatJSON {
		return errors.NotImplemented("fmt=%s", args.Display.Format)
	}
	file, err := s.resolveFile(c, args)
	if err != nil {
		return err
	}
	table := file.Table.Clone()
	if args.Data.Melted {
		table = table.Melt()
	}
	if args.Data.Descriptive {
		table = table.Descriptive()
	}
	return renderTable(c, table, args)
}

func (s *Service) serveGCT(c *router.Context, args *rargs.Args) error {
	file, err := s.resolveFile(c, args)
	if err != nil {
		return err
	}
	gct, err := file.Table.GCT()
	if err != nil {
		return err
	}
	return c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(gct))
}
