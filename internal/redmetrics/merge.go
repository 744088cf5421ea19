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
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsattr"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/metricattr"
)

// Merge writes the attribute set chosen from result onto span. A span with
// both sets is a local dependency root: its Dependency set is written with
// aws.span.kind set to LOCAL_ROOT. Derived values replace existing span
// attributes of the same key. Merge reports whether span was modified.
func Merge(span ptrace.Span, result metricattr.Result) bool {
	service, hasService := result.Service()
	dependency, hasDependency := result.Dependency()

	var chosen pcommon.Map
	switch {
	case hasService && hasDependency:
		chosen = pcommon.NewMap()
		dependency.CopyTo(chosen)
		chosen.PutStr(appsignalsattr.AWSSpanKind, appsignalsattr.LocalRoot)
	case hasService:
		chosen = service
	case hasDependency:
		chosen = dependency
	default:
		return false
	}
	if chosen.Len() == 0 {
		return false
	}

	attrs := span.Attributes()
	attrs.EnsureCapacity(attrs.Len() + chosen.Len())
	chosen.Range(func(k string, v pcommon.Value) bool {
		v.CopyTo(attrs.PutEmpty(k))
		return true
	})
	return true
}
