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

// Package metricattr derives the Service and Dependency attribute sets
// Application Signals metrics are keyed by.
package metricattr // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/metricattr"

import (
	"strings"
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
	semconv25 "go.opentelemetry.io/otel/semconv/v1.25.0"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsattr"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/attribute"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/spanclassifier"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/sqlkeywords"
)

const unknownServicePrefix = "unknown_service"

// Result holds the attribute sets derived from one span, keyed by
// appsignalsattr.ServiceMetric and appsignalsattr.DependencyMetric.
type Result map[string]pcommon.Map

// Service returns the Service attribute set, if one was produced.
func (r Result) Service() (pcommon.Map, bool) {
	m, ok := r[appsignalsattr.ServiceMetric]
	return m, ok
}

// Dependency returns the Dependency attribute set, if one was produced.
func (r Result) Dependency() (pcommon.Map, bool) {
	m, ok := r[appsignalsattr.DependencyMetric]
	return m, ok
}

// Generator derives metric attribute sets from spans. It holds no per span
// state and is safe for concurrent use.
type Generator struct {
	classifier spanclassifier.Classifier
	keywords   *sqlkeywords.Table
	logger     *zap.Logger
	sometimes  *rate.Sometimes
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger derivation failures are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithKeywords sets the SQL keyword table used to name operations from
// database statements.
func WithKeywords(keywords *sqlkeywords.Table) Option {
	return func(g *Generator) { g.keywords = keywords }
}

// WithClassifier sets the classifier used for ingress operations.
func WithClassifier(classifier spanclassifier.Classifier) Option {
	return func(g *Generator) { g.classifier = classifier }
}

// NewGenerator returns a Generator using the embedded SQL keyword table and
// a no-op logger unless configured otherwise.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		logger:    zap.NewNop(),
		sometimes: &rate.Sometimes{First: 10, Interval: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.keywords == nil {
		g.keywords = sqlkeywords.Default()
	}
	return g
}

// Generate returns the attribute sets span qualifies for. The span is not
// modified.
func (g *Generator) Generate(
	span ptrace.Span,
	scope pcommon.InstrumentationScope,
	resource pcommon.Resource,
) Result {
	result := make(Result, 2)
	if spanclassifier.ShouldGenerateServiceMetrics(span, scope) {
		result[appsignalsattr.ServiceMetric] = g.serviceAttributes(span, resource)
	}
	if spanclassifier.ShouldGenerateDependencyMetrics(span, scope) {
		result[appsignalsattr.DependencyMetric] = g.dependencyAttributes(span, resource)
	}
	return result
}

func (g *Generator) serviceAttributes(span ptrace.Span, resource pcommon.Resource) pcommon.Map {
	attrs := pcommon.NewMap()
	attrs.PutStr(appsignalsattr.AWSLocalService, g.localService(span, resource))

	operation := g.classifier.IngressOperation(span)
	if operation == appsignalsattr.UnknownOperation {
		g.debugUnknown(appsignalsattr.AWSLocalOperation, span)
	}
	attrs.PutStr(appsignalsattr.AWSLocalOperation, operation)

	kind := spanclassifier.KindName(span.Kind())
	if spanclassifier.IsLocalRoot(span) {
		kind = appsignalsattr.LocalRoot
	}
	attrs.PutStr(appsignalsattr.AWSSpanKind, kind)
	return attrs
}

func (g *Generator) dependencyAttributes(span ptrace.Span, resource pcommon.Resource) pcommon.Map {
	attrs := pcommon.NewMap()
	attrs.PutStr(appsignalsattr.AWSLocalService, g.localService(span, resource))

	operation, ok := spanclassifier.EgressOperation(span)
	if !ok {
		g.debugUnknown(appsignalsattr.AWSLocalOperation, span)
		operation = appsignalsattr.UnknownOperation
	}
	attrs.PutStr(appsignalsattr.AWSLocalOperation, operation)

	service, remoteOperation := g.remoteServiceAndOperation(span)
	attrs.PutStr(appsignalsattr.AWSRemoteService, service)
	attrs.PutStr(appsignalsattr.AWSRemoteOperation, remoteOperation)

	if res, ok := g.remoteResource(span); ok {
		attrs.PutStr(appsignalsattr.AWSRemoteResourceType, res.Type)
		attrs.PutStr(appsignalsattr.AWSRemoteResourceIdentifier, res.Identifier)
		if res.CloudFormationPrimaryID != "" {
			attrs.PutStr(appsignalsattr.AWSCloudFormationPrimaryID, res.CloudFormationPrimaryID)
		}
	}

	attrs.PutStr(appsignalsattr.AWSSpanKind, spanclassifier.KindName(span.Kind()))

	if spanclassifier.IsDBSpan(span) {
		if user, ok := attribute.GetStr(span.Attributes(), appsignalsattr.DBUser); ok {
			attrs.PutStr(appsignalsattr.AWSRemoteDBUser, user)
		}
	}
	return attrs
}

func (g *Generator) localService(span ptrace.Span, resource pcommon.Resource) string {
	service, ok := attribute.GetStr(resource.Attributes(), string(semconv25.ServiceNameKey))
	if !ok || strings.HasPrefix(service, unknownServicePrefix) {
		g.debugUnknown(appsignalsattr.AWSLocalService, span)
		return appsignalsattr.UnknownService
	}
	return service
}

func (g *Generator) debugUnknown(key string, span ptrace.Span) {
	g.debug("no valid attribute value found",
		zap.String("attribute", key),
		zap.String("span_kind", span.Kind().String()),
		zap.Stringer("span_id", span.SpanID()),
	)
}

// debug logs at debug level, rate limited.
func (g *Generator) debug(msg string, fields ...zap.Field) {
	if !g.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	g.sometimes.Do(func() {
		g.logger.Debug(msg, fields...)
	})
}

// EscapeDelimiters escapes the characters used to compose identifiers, so
// that "^" becomes "^^" and "|" becomes "^|".
func EscapeDelimiters(s string) string {
	return delimiterEscaper.Replace(s)
}

var delimiterEscaper = strings.NewReplacer("^", "^^", "|", "^|")
