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
	"regexp"
	"strconv"
	"strings"
)

// AccessionPattern is the accepted form of a dataset accession.
// It is the first segment rule of the URL schema: nothing deeper than the
// root is reachable without a segment matching this pattern.
const AccessionPattern = `GLDS-[0-9]+`

var accessionRe = regexp.MustCompile(`^` + AccessionPattern + `$`)

// Accession identifies a dataset, e.g. "GLDS-242".
type Accession string

// ParseAccession validates raw against AccessionPattern.
// It returns an error wrapping ErrBadAccession for anything else,
// including lowercase prefixes and embedded whitespace.
func ParseAccession(raw string) (Accession, error) {
	if !accessionRe.MatchString(raw) {
		return "", fmt.Errorf("%w: %q", ErrBadAccession, raw)
	}
	return Accession(raw), nil
}

// Number returns the numeric part of the accession.
func (a Accession) Number() int {
	n, _ := strconv.Atoi(strings.TrimPrefix(string(a), "GLDS-"))
	return n
}

func (a Accession) String() string { return string(a) }
