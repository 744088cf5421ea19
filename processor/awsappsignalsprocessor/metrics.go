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
	"errors"

	"go.opentelemetry.io/collector/processor"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsattr"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/metricattr"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/propagation"
	"github.com/aws-appsignals/opentelemetry-collector-components/processor/awsappsignalsprocessor/internal/metadata"
)

const (
	spansMetricName         = "otelcol_processor_awsappsignals_spans"
	orphanSpansMetricName   = "otelcol_processor_awsappsignals_orphan_spans"
	attributeSetsMetricName = "otelcol_processor_awsappsignals_attribute_sets"
)

type processorTelemetry struct {
	processorAttr  metric.MeasurementOption
	serviceAttr    metric.MeasurementOption
	dependencyAttr metric.MeasurementOption

	spans         metric.Int64Counter
	orphanSpans   metric.Int64Counter
	attributeSets metric.Int64Counter
}

func newProcessorTelemetry(set processor.Settings) (*processorTelemetry, error) {
	meter := set.MeterProvider.Meter(metadata.ScopeName)
	processorID := attribute.String("processor", set.ID.String())

	var errs, err error
	t := &processorTelemetry{
		processorAttr: metric.WithAttributeSet(attribute.NewSet(processorID)),
		serviceAttr: metric.WithAttributeSet(attribute.NewSet(
			processorID, attribute.String("set", appsignalsattr.ServiceMetric),
		)),
		dependencyAttr: metric.WithAttributeSet(attribute.NewSet(
			processorID, attribute.String("set", appsignalsattr.DependencyMetric),
		)),
	}
	t.spans, err = meter.Int64Counter(spansMetricName,
		metric.WithDescription("Number of spans visited while propagating attributes."),
		metric.WithUnit("{spans}"),
	)
	errs = errors.Join(errs, err)
	t.orphanSpans, err = meter.Int64Counter(orphanSpansMetricName,
		metric.WithDescription("Number of spans whose local parent was not part of the same batch."),
		metric.WithUnit("{spans}"),
	)
	errs = errors.Join(errs, err)
	t.attributeSets, err = meter.Int64Counter(attributeSetsMetricName,
		metric.WithDescription("Number of derived attribute sets, by set name."),
		metric.WithUnit("{sets}"),
	)
	errs = errors.Join(errs, err)
	if errs != nil {
		return nil, errs
	}
	return t, nil
}

func (t *processorTelemetry) recordPropagation(ctx context.Context, stats propagation.Stats) {
	t.spans.Add(ctx, int64(stats.Spans), t.processorAttr)
	if stats.Orphans > 0 {
		t.orphanSpans.Add(ctx, int64(stats.Orphans), t.processorAttr)
	}
}

func (t *processorTelemetry) recordResult(ctx context.Context, result metricattr.Result) {
	if _, ok := result.Service(); ok {
		t.attributeSets.Add(ctx, 1, t.serviceAttr)
	}
	if _, ok := result.Dependency(); ok {
		t.attributeSets.Add(ctx, 1, t.dependencyAttr)
	}
}
