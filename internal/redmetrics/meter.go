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
	"errors"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument names and units.
const (
	ErrorMetricName   = "Error"
	FaultMetricName   = "Fault"
	LatencyMetricName = "Latency"
	LatencyUnit       = "Milliseconds"
)

// MeterRecorder records measurements into OpenTelemetry histograms. The
// instruments are safe for concurrent use.
type MeterRecorder struct {
	errors  metric.Int64Histogram
	faults  metric.Int64Histogram
	latency metric.Float64Histogram
}

// NewMeterRecorder creates the Error, Fault and Latency histograms on meter.
func NewMeterRecorder(meter metric.Meter) (*MeterRecorder, error) {
	var errs, err error
	r := &MeterRecorder{}
	r.errors, err = meter.Int64Histogram(ErrorMetricName,
		metric.WithDescription("Number of requests that ended in a client error."),
	)
	errs = errors.Join(errs, err)
	r.faults, err = meter.Int64Histogram(FaultMetricName,
		metric.WithDescription("Number of requests that ended in a server fault."),
	)
	errs = errors.Join(errs, err)
	r.latency, err = meter.Float64Histogram(LatencyMetricName,
		metric.WithDescription("Duration of requests."),
		metric.WithUnit(LatencyUnit),
	)
	errs = errors.Join(errs, err)
	if errs != nil {
		return nil, errs
	}
	return r, nil
}

// Record implements Recorder.
func (r *MeterRecorder) Record(ctx context.Context, attrs pcommon.Map, errorCount, faultCount int64, latencyMillis float64) {
	opt := metric.WithAttributeSet(AttributeSet(attrs))
	r.errors.Record(ctx, errorCount, opt)
	r.faults.Record(ctx, faultCount, opt)
	r.latency.Record(ctx, latencyMillis, opt)
}

// AttributeSet converts a pdata attribute map into an OpenTelemetry
// attribute set. Values that are not scalars are recorded as strings.
func AttributeSet(attrs pcommon.Map) attribute.Set {
	kvs := make([]attribute.KeyValue, 0, attrs.Len())
	attrs.Range(func(k string, v pcommon.Value) bool {
		switch v.Type() {
		case pcommon.ValueTypeStr:
			kvs = append(kvs, attribute.String(k, v.Str()))
		case pcommon.ValueTypeInt:
			kvs = append(kvs, attribute.Int64(k, v.Int()))
		case pcommon.ValueTypeDouble:
			kvs = append(kvs, attribute.Float64(k, v.Double()))
		case pcommon.ValueTypeBool:
			kvs = append(kvs, attribute.Bool(k, v.Bool()))
		default:
			kvs = append(kvs, attribute.String(k, v.AsString()))
		}
		return true
	})
	return attribute.NewSet(kvs...)
}
