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

// Package rargs parses request GET arguments into typed groups.
//
// The argument schema is fixed for the arguments the service interprets
// (display shaping, data selection, annotation tuning) and deliberately open
// for everything else: unrecognized keys are carried through in Extra rather
// than rejected, because the documented argument surface is a work in
// progress upstream.
package rargs

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

// ErrBadArgument marks GET arguments that fail to parse. The api layer maps
// it to 400.
var ErrBadArgument = errors.New("bad request argument")

// Format is the requested response serialization.
type Format string

// Accepted fmt= values.
const (
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatRaw  Format = "raw"
	FormatList Format = "list"
)

// DefaultFileFilter matches every file name; data-type aliases narrow it.
const DefaultFileFilter = ".*"

// Display holds the arguments shaping any tabular response.
type Display struct {
	Format Format
	Top    int  // 0 = no truncation
	Header bool // true = return the header row only
}

// Data holds the arguments selecting which data table a request refers to.
// The Set flags record whether the client passed a value explicitly, which
// the alias conflict rules depend on.
type Data struct {
	Fields        string // regex over metadata field titles
	FieldsSet     bool
	FileFilter    string // regex over data file names
	FileFilterSet bool
	Melted        bool
	MeltedSet     bool
	Descriptive    bool
	DescriptiveSet bool
}

// Filter holds post-selection table filters plus the pass-through map of
// arguments this service does not interpret.
type Filter struct {
	SortBy      string
	HideColumns []string
	Extra       url.Values
}

// Meta holds the annotation/factors tuning arguments.
type Meta struct {
	CLS        string // target column for CLS output; "" = no CLS
	Continuous string // "infer" (default), or a boolean literal
	Diff       bool   // differential annotation only
	NamedOnly  bool   // drop unnamed metadata columns
}

// Args is the parsed form of a request's GET arguments.
type Args struct {
	Display Display
	Data    Data
	Filter  Filter
	Meta    Meta
}

// Defaults returns the argument set an empty query string parses to.
func Defaults() *Args {
	return &Args{
		Display: Display{Format: FormatTSV},
		Data:    Data{FileFilter: DefaultFileFilter},
		Filter:  Filter{Extra: url.Values{}},
		Meta:    Meta{Continuous: "infer", Diff: true, NamedOnly: true},
	}
}

// Parse reads values into an Args, starting from Defaults.
func Parse(values url.Values) (*Args, error) {
	a := Defaults()
	for key, vals := range values {
		v := ""
		if len(vals) > 0 {
			v = vals[len(vals)-1]
		}
		switch key {
		case "fmt":
			switch Format(v) {
			case FormatTSV, FormatJSON, FormatHTML, FormatRaw, FormatList:
				a.Display.Format = Format(v)
			default:
				return nil, fmt.Errorf("%w: fmt=%q", ErrBadArgument, v)
			}
		case "top":
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("%w: top must be a positive integer, got %q", ErrBadArgument, v)
			}
			a.Display.Top = n
		case "header":
			b, err := parseFlag(v)
			if err != nil {
				return nil, fmt.Errorf("%w: header=%q", ErrBadArgument, v)
			}
			a.Display.Header = b
		case "fields":
			a.Data.Fields = v
			a.Data.FieldsSet = true
		case "file_filter":
			a.Data.FileFilter = v
			a.Data.FileFilterSet = true
		case "melted":
			b, err := parseFlag(v)
			if err != nil {
				return nil, fmt.Errorf("%w: melted=%q", ErrBadArgument, v)
			}
			a.Data.Melted = b
			a.Data.MeltedSet = true
		case "descriptive":
			b, err := parseFlag(v)
			if err != nil {
				return nil, fmt.Errorf("%w: descriptive=%q", ErrBadArgument, v)
			}
			a.Data.Descriptive = b
			a.Data.DescriptiveSet = true
		case "sort_by":
			a.Filter.SortBy = v
		case "hidecol":
			a.Filter.HideColumns = append(a.Filter.HideColumns, vals...)
		case "cls":
			a.Meta.CLS = v
		case "continuous":
			a.Meta.Continuous = v
		case "diff":
			b, err := parseFlag(v)
			if err != nil {
				return nil, fmt.Errorf("%w: diff=%q", ErrBadArgument, v)
			}
			a.Meta.Diff = b
		case "named_only":
			b, err := parseFlag(v)
			if err != nil {
				return nil, fmt.Errorf("%w: named_only=%q", ErrBadArgument, v)
			}
			a.Meta.NamedOnly = b
		default:
			a.Filter.Extra[key] = vals
		}
	}
	return a, nil
}

// FieldsRegexp compiles the fields pattern, or returns nil when unset.
// Field titles match case-insensitively; file names do not.
func (a *Args) FieldsRegexp() (*regexp.Regexp, error) {
	if !a.Data.FieldsSet || a.Data.Fields == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + a.Data.Fields)
	if err != nil {
		return nil, fmt.Errorf("%w: fields=%q: %v", ErrBadArgument, a.Data.Fields, err)
	}
	return re, nil
}

// FileFilterRegexp compiles the file_filter pattern.
func (a *Args) FileFilterRegexp() (*regexp.Regexp, error) {
	re, err := regexp.Compile(a.Data.FileFilter)
	if err != nil {
		return nil, fmt.Errorf("%w: file_filter=%q: %v", ErrBadArgument, a.Data.FileFilter, err)
	}
	return re, nil
}

// ContinuousFlag resolves the continuous argument to a tri-state: forced on,
// forced off, or infer (the default).
func (a *Args) ContinuousFlag() (force, infer bool, err error) {
	if a.Meta.Continuous == "" || a.Meta.Continuous == "infer" {
		return false, true, nil
	}
	b, perr := parseFlag(a.Meta.Continuous)
	if perr != nil {
		return false, false, fmt.Errorf("%w: continuous=%q", ErrBadArgument, a.Meta.Continuous)
	}
	return b, false, nil
}

// parseFlag parses flag-valued arguments. Bare presence (?header=) means
// true.
func parseFlag(v string) (bool, error) {
	switch v {
	case "", "1", "true", "yes", "on", "True":
		return true, nil
	case "0", "false", "no", "off", "False":
		return false, nil
	}
	return false, fmt.Errorf("not a flag value: %q", v)
}
