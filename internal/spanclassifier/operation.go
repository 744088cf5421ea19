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

package spanclassifier // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/spanclassifier"

import (
	"strings"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
	semconv25 "go.opentelemetry.io/otel/semconv/v1.25.0"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsattr"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/attribute"
)

// Classifier derives operation names for spans.
type Classifier struct {
	// OperationFromURLPath makes the ingress operation come from the
	// URL path whenever one is recorded, even if the span name would be
	// usable as is.
	OperationFromURLPath bool
}

// IngressOperation returns the operation a span is served under:
// InternalOperation for non-server local roots, the HTTP route when
// known, otherwise the span name or one synthesized from the URL path.
func (c Classifier) IngressOperation(span ptrace.Span) string {
	if ShouldUseInternalOperation(span) {
		return appsignalsattr.InternalOperation
	}
	attrs := span.Attributes()
	method, hasMethod := HTTPMethod(attrs)
	if route, ok := attribute.GetStr(attrs, string(semconv25.HTTPRouteKey)); ok && route != "" {
		if hasMethod {
			return method + " " + route
		}
		return route
	}

	operation := span.Name()
	_, hasPath := URLPath(attrs)
	if !isValidOperation(operation, method) || (c.OperationFromURLPath && hasPath) {
		return generateIngressOperation(attrs)
	}
	return operation
}

// EgressOperation returns the operation recorded on span by propagation.
func EgressOperation(span ptrace.Span) (string, bool) {
	if ShouldUseInternalOperation(span) {
		return appsignalsattr.InternalOperation, true
	}
	op, ok := attribute.GetStr(span.Attributes(), appsignalsattr.AWSLocalOperation)
	if !ok || op == "" {
		return "", false
	}
	return op, true
}

// ExtractAPIPathValue returns the first segment of an URL path, e.g.
// "/users" for "/users/1/orders". Paths without a segment yield "/".
func ExtractAPIPathValue(path string) string {
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	if len(segments) > 1 {
		return "/" + segments[1]
	}
	return "/"
}

// HTTPMethod returns the request method, preferring the stable attribute
// over the legacy one.
func HTTPMethod(attrs pcommon.Map) (string, bool) {
	method, ok := attribute.FirstStr(attrs,
		string(semconv25.HTTPRequestMethodKey),
		string(semconv25.HTTPMethodKey),
	)
	return method, ok && method != ""
}

// URLPath returns the request path without its query string.
func URLPath(attrs pcommon.Map) (string, bool) {
	if path, ok := attribute.GetStr(attrs, string(semconv25.URLPathKey)); ok {
		return path, true
	}
	target, ok := attribute.GetStr(attrs, string(semconv25.HTTPTargetKey))
	if !ok {
		return "", false
	}
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	return target, true
}

func isValidOperation(operation, method string) bool {
	if operation == "" || operation == appsignalsattr.UnknownOperation {
		return false
	}
	return method == "" || operation != method
}

func generateIngressOperation(attrs pcommon.Map) string {
	path, ok := URLPath(attrs)
	if !ok {
		return appsignalsattr.UnknownOperation
	}
	operation := ExtractAPIPathValue(path)
	if method, ok := HTTPMethod(attrs); ok {
		operation = method + " " + operation
	}
	return operation
}
