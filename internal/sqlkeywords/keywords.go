// Licensed to Elasticsearch B.V. under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Elasticsearch B.V. licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package sqlkeywords matches the leading SQL dialect keyword of a
// database statement.
package sqlkeywords // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/sqlkeywords"

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsattr"
)

//go:embed sql_dialect_keywords.json
var defaultKeywords []byte

type document struct {
	Keywords []string `json:"keywords"`
}

// Table is an immutable, longest-first list of SQL keywords.
type Table struct {
	keywords  []string
	maxLength int
	pattern   *regexp.Regexp
}

// Default returns the table built from the embedded keyword document.
func Default() *Table {
	t, err := Parse(defaultKeywords)
	if err != nil {
		// The embedded document is part of the build.
		panic(err)
	}
	return t
}

// Load reads a keyword document from path. When path is empty the
// embedded document is used. If the file cannot be read or decoded an
// empty table is returned together with the error, so callers can log
// it and keep going.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return New(nil), fmt.Errorf("failed to read sql keywords file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return New(nil), err
	}
	return t, nil
}

// Parse decodes a document of the shape {"keywords": [string, ...]}.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode sql keywords: %w", err)
	}
	return New(doc.Keywords), nil
}

// New builds a table from keywords. Blank entries are dropped and the
// rest are ordered longest first so that e.g. "DROP VIEW" is preferred
// over "DROP".
func New(keywords []string) *Table {
	t := &Table{keywords: make([]string, 0, len(keywords))}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		t.keywords = append(t.keywords, strings.ToUpper(kw))
	}
	sort.SliceStable(t.keywords, func(i, j int) bool {
		return len(t.keywords[i]) > len(t.keywords[j])
	})
	if len(t.keywords) == 0 {
		return t
	}
	t.maxLength = len(t.keywords[0])

	quoted := make([]string, len(t.keywords))
	for i, kw := range t.keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	t.pattern = regexp.MustCompile(`^(?:` + strings.Join(quoted, "|") + `)\b`)
	return t
}

// Keywords returns a copy of the ordered keywords.
func (t *Table) Keywords() []string {
	return append([]string(nil), t.keywords...)
}

// MaxLength is the length of the longest keyword.
func (t *Table) MaxLength() int {
	return t.maxLength
}

// Len returns the number of keywords.
func (t *Table) Len() int {
	return len(t.keywords)
}

// Match returns the keyword the statement starts with, or
// UnknownRemoteOperation when there is none.
func (t *Table) Match(statement string) string {
	if t.pattern == nil {
		return appsignalsattr.UnknownRemoteOperation
	}
	statement = strings.TrimLeftFunc(statement, unicode.IsSpace)
	if len(statement) > t.maxLength {
		statement = statement[:t.maxLength]
	}
	if m := t.pattern.FindString(strings.ToUpper(statement)); m != "" {
		return m
	}
	return appsignalsattr.UnknownRemoteOperation
}
