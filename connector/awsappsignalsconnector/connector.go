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

package awsappsignalsconnector // import "github.com/aws-appsignals/opentelemetry-collector-components/connector/awsappsignalsconnector"

import (
	"context"

	"go.opentelemetry.io/collector/component"
	"go.opentelemetry.io/collector/consumer"
	"go.opentelemetry.io/collector/pdata/pmetric"
	"go.opentelemetry.io/collector/pdata/ptrace"
	"go.uber.org/zap"

	"github.com/aws-appsignals/opentelemetry-collector-components/connector/awsappsignalsconnector/internal/aggregator"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsconfig"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/redmetrics"
)

// scopeName is read by the Application Signals backend and must not
// change.
const scopeName = "AwsSpanMetricsProcessor"

type appSignalsMetrics struct {
	component.StartFunc
	component.ShutdownFunc

	next     consumer.Metrics
	pipeline *appsignalsconfig.Pipeline
	logger   *zap.Logger

	errorDef   aggregator.MetricDef
	faultDef   aggregator.MetricDef
	latencyDef aggregator.MetricDef
}

// Capabilities reports that propagation writes to the incoming spans.
func (m *appSignalsMetrics) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{MutatesData: true}
}

func (m *appSignalsMetrics) ConsumeTraces(ctx context.Context, td ptrace.Traces) error {
	processedMetrics := pmetric.NewMetrics()
	processedMetrics.ResourceMetrics().EnsureCapacity(td.ResourceSpans().Len())
	agg := aggregator.NewAggregator(m.errorDef, m.faultDef, m.latencyDef)
	for i := 0; i < td.ResourceSpans().Len(); i++ {
		agg.Reset()
		resourceSpan := td.ResourceSpans().At(i)
		if stats := m.pipeline.Propagator.PropagateResourceSpans(resourceSpan); stats.Orphans > 0 {
			m.logger.Debug("spans with a local parent outside the batch",
				zap.Int("orphans", stats.Orphans),
			)
		}
		resource := resourceSpan.Resource()
		for j := 0; j < resourceSpan.ScopeSpans().Len(); j++ {
			scopeSpan := resourceSpan.ScopeSpans().At(j)
			for k := 0; k < scopeSpan.Spans().Len(); k++ {
				span := scopeSpan.Spans().At(k)
				result := m.pipeline.Generator.Generate(span, scopeSpan.Scope(), resource)
				redmetrics.Record(ctx, span, result, m.pipeline.Filter, agg)
			}
		}

		if agg.Empty() {
			continue // don't add an empty resource
		}

		processedResource := processedMetrics.ResourceMetrics().AppendEmpty()
		resource.Attributes().CopyTo(processedResource.Resource().Attributes())
		processedScope := processedResource.ScopeMetrics().AppendEmpty()
		processedScope.Scope().SetName(scopeName)
		agg.Move(processedScope.Metrics())
	}
	if processedMetrics.ResourceMetrics().Len() == 0 {
		return nil
	}
	return m.next.ConsumeMetrics(ctx, processedMetrics)
}
