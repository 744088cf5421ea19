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

package awsappsignalsprocessor // import "github.com/aws-appsignals/opentelemetry-collector-components/processor/awsappsignalsprocessor"

import (
	"context"

	"go.opentelemetry.io/collector/component"
	"go.opentelemetry.io/collector/consumer"
	"go.opentelemetry.io/collector/pdata/ptrace"
	"go.opentelemetry.io/collector/processor"
	"go.uber.org/zap"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsconfig"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/redmetrics"
	"github.com/aws-appsignals/opentelemetry-collector-components/processor/awsappsignalsprocessor/internal/metadata"
)

var _ processor.Traces = (*TraceProcessor)(nil)

// TraceProcessor derives Application Signals attributes for every span
// and writes them back onto the span.
type TraceProcessor struct {
	component.StartFunc
	component.ShutdownFunc

	next      consumer.Traces
	pipeline  *appsignalsconfig.Pipeline
	recorder  redmetrics.Recorder
	telemetry *processorTelemetry
	logger    *zap.Logger
}

func newTraceProcessor(cfg *Config, set processor.Settings, next consumer.Traces) (*TraceProcessor, error) {
	pipeline, err := cfg.Build(set.Logger)
	if err != nil {
		return nil, err
	}
	telemetry, err := newProcessorTelemetry(set)
	if err != nil {
		return nil, err
	}
	p := &TraceProcessor{
		next:      next,
		pipeline:  pipeline,
		telemetry: telemetry,
		logger:    set.Logger,
	}
	if cfg.RecordMetrics {
		recorder, err := redmetrics.NewMeterRecorder(set.MeterProvider.Meter(metadata.ScopeName))
		if err != nil {
			return nil, err
		}
		p.recorder = recorder
	}
	return p, nil
}

func (p *TraceProcessor) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{MutatesData: true}
}

func (p *TraceProcessor) ConsumeTraces(ctx context.Context, td ptrace.Traces) error {
	stats := p.pipeline.Propagator.PropagateTraces(td)
	p.telemetry.recordPropagation(ctx, stats)

	resourceSpans := td.ResourceSpans()
	for i := 0; i < resourceSpans.Len(); i++ {
		rs := resourceSpans.At(i)
		resource := rs.Resource()
		scopeSpans := rs.ScopeSpans()
		for j := 0; j < scopeSpans.Len(); j++ {
			ss := scopeSpans.At(j)
			spans := ss.Spans()
			for k := 0; k < spans.Len(); k++ {
				span := spans.At(k)
				result := p.pipeline.Generator.Generate(span, ss.Scope(), resource)
				p.telemetry.recordResult(ctx, result)
				if p.recorder != nil {
					redmetrics.Record(ctx, span, result, p.pipeline.Filter, p.recorder)
				}
				redmetrics.Merge(span, result)
			}
		}
	}
	return p.next.ConsumeTraces(ctx, td)
}
