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

// Package redmetrics turns derived attribute sets into request, error and
// duration measurements, or merges them back onto spans.
package redmetrics // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/redmetrics"

import (
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
	semconv25 "go.opentelemetry.io/otel/semconv/v1.25.0"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/attribute"
)

const (
	errorCodeLowerBound = 400
	errorCodeUpperBound = 499
	faultCodeLowerBound = 500
	faultCodeUpperBound = 599
)

// Outcome classifies span as an error (4xx), a fault (5xx or an Error
// status without a usable HTTP status code) or neither. The status code
// is read from the span, then from attrs.
func Outcome(span ptrace.Span, attrs pcommon.Map) (errorCount, faultCount int64) {
	code, ok := httpStatusCode(span.Attributes())
	if !ok {
		code, ok = httpStatusCode(attrs)
	}
	switch {
	case ok && code >= errorCodeLowerBound && code <= errorCodeUpperBound:
		return 1, 0
	case ok && code >= faultCodeLowerBound && code <= faultCodeUpperBound:
		return 0, 1
	case span.Status().Code() == ptrace.StatusCodeError:
		return 0, 1
	}
	return 0, 0
}

func httpStatusCode(attrs pcommon.Map) (int64, bool) {
	if code, ok := attribute.GetInt(attrs, string(semconv25.HTTPResponseStatusCodeKey)); ok {
		return code, true
	}
	return attribute.GetInt(attrs, string(semconv25.HTTPStatusCodeKey))
}

// LatencyMillis returns the span duration in milliseconds. Spans ending
// before they start report zero.
func LatencyMillis(span ptrace.Span) float64 {
	start, end := span.StartTimestamp(), span.EndTimestamp()
	if end < start {
		return 0
	}
	return float64(end-start) / 1e6
}
