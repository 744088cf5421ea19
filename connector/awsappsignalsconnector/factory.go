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
	"go.opentelemetry.io/collector/connector"
	"go.opentelemetry.io/collector/consumer"

	"github.com/aws-appsignals/opentelemetry-collector-components/connector/awsappsignalsconnector/internal/aggregator"
	"github.com/aws-appsignals/opentelemetry-collector-components/connector/awsappsignalsconnector/internal/metadata"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/redmetrics"
)

// NewFactory returns a connector.Factory.
func NewFactory() connector.Factory {
	return connector.NewFactory(
		metadata.Type,
		createDefaultConfig,
		connector.WithTracesToMetrics(createTracesToMetrics, metadata.TracesToMetricsStability),
	)
}

// createTracesToMetrics creates a traces to metrics connector based on provided config.
func createTracesToMetrics(
	_ context.Context,
	set connector.Settings,
	cfg component.Config,
	nextConsumer consumer.Metrics,
) (connector.Traces, error) {
	c := cfg.(*Config)
	pipeline, err := c.Build(set.Logger)
	if err != nil {
		return nil, err
	}
	return &appSignalsMetrics{
		next:     nextConsumer,
		pipeline: pipeline,
		logger:   set.Logger,
		errorDef: aggregator.MetricDef{
			Name:        redmetrics.ErrorMetricName,
			Description: "Number of requests that ended in a client error.",
			Unit:        "1",
		},
		faultDef: aggregator.MetricDef{
			Name:        redmetrics.FaultMetricName,
			Description: "Number of requests that ended in a server fault.",
			Unit:        "1",
		},
		latencyDef: aggregator.MetricDef{
			Name:        redmetrics.LatencyMetricName,
			Description: "Duration of requests.",
			Unit:        redmetrics.LatencyUnit,
			Buckets:     c.LatencyBuckets,
		},
	}, nil
}
