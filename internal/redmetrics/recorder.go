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

package redmetrics // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/redmetrics"

import (
	"context"
	"fmt"

	"github.com/gobwas/glob"
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsattr"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/metricattr"
)

// DefaultExcludedRemoteServices matches the instance metadata endpoint
// the AWS SDKs call for credentials.
var DefaultExcludedRemoteServices = []string{"169.254.169.254"}

// Recorder records the measurements of one attribute set.
type Recorder interface {
	Record(ctx context.Context, attrs pcommon.Map, errorCount, faultCount int64, latencyMillis float64)
}

// Filter drops attribute sets whose aws.remote.service matches one of a
// list of glob patterns.
type Filter struct {
	patterns []glob.Glob
}

// NewFilter compiles patterns. A nil Filter excludes nothing.
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{patterns: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid remote service pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, g)
	}
	return f, nil
}

// Excluded reports whether attrs must not be recorded.
func (f *Filter) Excluded(attrs pcommon.Map) bool {
	if f == nil {
		return false
	}
	v, ok := attrs.Get(appsignalsattr.AWSRemoteService)
	if !ok || v.Type() != pcommon.ValueTypeStr {
		return false
	}
	for _, g := range f.patterns {
		if g.Match(v.Str()) {
			return true
		}
	}
	return false
}

// Record records every non-empty, non-excluded set of result for span and
// returns how many were recorded.
func Record(
	ctx context.Context,
	span ptrace.Span,
	result metricattr.Result,
	filter *Filter,
	recorder Recorder,
) int {
	var recorded int
	latency := LatencyMillis(span)
	for _, name := range []string{appsignalsattr.ServiceMetric, appsignalsattr.DependencyMetric} {
		attrs, ok := result[name]
		if !ok || attrs.Len() == 0 || filter.Excluded(attrs) {
			continue
		}
		errorCount, faultCount := Outcome(span, attrs)
		recorder.Record(ctx, attrs, errorCount, faultCount, latency)
		recorded++
	}
	return recorded
}
