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

// Package propagation copies inherited Application Signals attributes
// from parent spans to their children within a batch of traces.
package propagation // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/propagation"

import (
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsattr"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/attribute"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/spanclassifier"
)

// DefaultPropagatedKeys are the attributes an Internal span hands down to
// its children.
func DefaultPropagatedKeys() []string {
	return []string{
		appsignalsattr.AWSRemoteService,
		appsignalsattr.AWSRemoteOperation,
	}
}

// Propagator walks the span trees of a batch from each root down.
//
// Only spans present in the same ResourceSpans are linked. A span whose
// local parent is missing from the batch starts its own tree and inherits
// nothing, so traces should be grouped upstream when complete propagation
// matters.
type Propagator struct {
	classifier     spanclassifier.Classifier
	propagatedKeys []string
}

// New returns a Propagator. The classifier provides the operation name
// recorded under aws.local.operation. Empty keys select
// DefaultPropagatedKeys.
func New(classifier spanclassifier.Classifier, keys []string) *Propagator {
	if len(keys) == 0 {
		keys = DefaultPropagatedKeys()
	}
	return &Propagator{classifier: classifier, propagatedKeys: keys}
}

// Stats summarises one propagation pass.
type Stats struct {
	// Spans is the number of spans visited.
	Spans int
	// Orphans counts spans whose local parent was not in the batch.
	Orphans int
}

func (s *Stats) add(o Stats) {
	s.Spans += o.Spans
	s.Orphans += o.Orphans
}

// PropagateTraces propagates attributes in every ResourceSpans of td.
func (p *Propagator) PropagateTraces(td ptrace.Traces) Stats {
	var stats Stats
	rss := td.ResourceSpans()
	for i := 0; i < rss.Len(); i++ {
		stats.add(p.PropagateResourceSpans(rss.At(i)))
	}
	return stats
}

type spanKey struct {
	traceID pcommon.TraceID
	spanID  pcommon.SpanID
}

// propagationContext is what a span passes to its children.
type propagationContext struct {
	parent        ptrace.Span
	hasParent     bool
	sdkDescendant bool
}

// PropagateResourceSpans propagates attributes between the spans of rs.
// Parents are always handled before their children.
func (p *Propagator) PropagateResourceSpans(rs ptrace.ResourceSpans) Stats {
	index := make(map[spanKey]struct{})
	forEachSpan(rs, func(span ptrace.Span) {
		index[spanKey{span.TraceID(), span.SpanID()}] = struct{}{}
	})

	var (
		stats    Stats
		roots    []ptrace.Span
		children = make(map[spanKey][]ptrace.Span)
	)
	forEachSpan(rs, func(span ptrace.Span) {
		if spanclassifier.IsLocalRoot(span) {
			roots = append(roots, span)
			return
		}
		parent := spanKey{span.TraceID(), span.ParentSpanID()}
		if _, ok := index[parent]; !ok || parent.spanID == span.SpanID() {
			stats.Orphans++
			roots = append(roots, span)
			return
		}
		children[parent] = append(children[parent], span)
	})

	type frame struct {
		span ptrace.Span
		pc   propagationContext
	}
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{span: roots[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stats.Spans++

		p.apply(f.span, f.pc)
		next := propagationContext{
			parent:        f.span,
			hasParent:     true,
			sdkDescendant: f.pc.sdkDescendant || spanclassifier.IsAWSSDKSpan(f.span),
		}
		kids := children[spanKey{f.span.TraceID(), f.span.SpanID()}]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{span: kids[i], pc: next})
		}
	}
	return stats
}

func (p *Propagator) apply(span ptrace.Span, pc propagationContext) {
	attrs := span.Attributes()
	if pc.hasParent {
		if pc.sdkDescendant {
			attrs.PutStr(appsignalsattr.AWSSDKDescendant, "true")
		}
		if pc.parent.Kind() == ptrace.SpanKindInternal {
			parentAttrs := pc.parent.Attributes()
			for _, key := range p.propagatedKeys {
				if v, ok := parentAttrs.Get(key); ok {
					attribute.PutValue(attrs, key, v)
				}
			}
		}
		if span.Kind() == ptrace.SpanKindConsumer && pc.parent.Kind() == ptrace.SpanKindConsumer {
			attrs.PutStr(appsignalsattr.AWSConsumerParentSpanKind, spanclassifier.ConsumerKind)
		}
	}

	if operation, ok := p.propagationData(span, pc); ok {
		attribute.PutStr(attrs, appsignalsattr.AWSLocalOperation, operation)
	}
}

// propagationData returns the operation of the nearest service entry
// point above span.
func (p *Propagator) propagationData(span ptrace.Span, pc propagationContext) (string, bool) {
	switch {
	case spanclassifier.IsLocalRoot(span):
		if span.Kind() == ptrace.SpanKindServer {
			return "", false
		}
		return p.classifier.IngressOperation(span), true
	case !pc.hasParent:
		return "", false
	case pc.parent.Kind() == ptrace.SpanKindServer:
		return p.classifier.IngressOperation(pc.parent), true
	default:
		return attribute.GetStr(pc.parent.Attributes(), appsignalsattr.AWSLocalOperation)
	}
}

func forEachSpan(rs ptrace.ResourceSpans, fn func(ptrace.Span)) {
	sss := rs.ScopeSpans()
	for i := 0; i < sss.Len(); i++ {
		spans := sss.At(i).Spans()
		for j := 0; j < spans.Len(); j++ {
			fn(spans.At(j))
		}
	}
}
