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

// Package aggregator accumulates the Error, Fault and Latency histograms
// of Application Signals attribute sets into pdata metrics.
package aggregator // import "github.com/aws-appsignals/opentelemetry-collector-components/connector/awsappsignalsconnector/internal/aggregator"

import (
	"context"
	"sort"
	"time"

	"github.com/open-telemetry/opentelemetry-collector-contrib/pkg/pdatautil"
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/pmetric"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/redmetrics"
)

var _ redmetrics.Recorder = (*Aggregator)(nil)

// MetricDef describes one explicit bucket histogram.
type MetricDef struct {
	Name        string
	Description string
	Unit        string
	Buckets     []float64
}

// Aggregator keeps one data point per distinct attribute set for each of
// the three histograms. It is not safe for concurrent use.
type Aggregator struct {
	errors  MetricDef
	faults  MetricDef
	latency MetricDef

	// TODO: handle attribute hash collisions.
	datapoints map[string]map[[16]byte]*explicitHistogramDP
	start      time.Time
	timestamp  time.Time
}

// NewAggregator returns an empty aggregator for the given definitions.
func NewAggregator(errors, faults, latency MetricDef) *Aggregator {
	now := time.Now()
	return &Aggregator{
		errors:     errors,
		faults:     faults,
		latency:    latency,
		datapoints: make(map[string]map[[16]byte]*explicitHistogramDP),
		start:      now,
		timestamp:  now,
	}
}

// Record adds one observation to each histogram under attrs.
func (a *Aggregator) Record(
	_ context.Context,
	attrs pcommon.Map,
	errorCount, faultCount int64,
	latencyMillis float64,
) {
	var attrKey [16]byte
	if attrs.Len() > 0 {
		attrKey = pdatautil.MapHash(attrs)
	}
	a.add(a.errors, attrKey, attrs, float64(errorCount))
	a.add(a.faults, attrKey, attrs, float64(faultCount))
	a.add(a.latency, attrKey, attrs, latencyMillis)
}

func (a *Aggregator) add(md MetricDef, attrKey [16]byte, attrs pcommon.Map, value float64) {
	dps, ok := a.datapoints[md.Name]
	if !ok {
		dps = make(map[[16]byte]*explicitHistogramDP)
		a.datapoints[md.Name] = dps
	}
	dp, ok := dps[attrKey]
	if !ok {
		dp = newExplicitHistogramDP(attrs, md.Buckets)
		dps[attrKey] = dp
	}
	dp.sum += value
	dp.count++
	dp.counts[sort.SearchFloat64s(dp.bounds, value)]++
}

// Move appends the accumulated histograms to dest and clears them.
func (a *Aggregator) Move(dest pmetric.MetricSlice) {
	for _, md := range []MetricDef{a.errors, a.faults, a.latency} {
		a.move(md, dest)
	}
}

func (a *Aggregator) move(md MetricDef, dest pmetric.MetricSlice) {
	srcDps, ok := a.datapoints[md.Name]
	if !ok || len(srcDps) == 0 {
		return
	}

	destMetric := dest.AppendEmpty()
	destMetric.SetName(md.Name)
	destMetric.SetDescription(md.Description)
	destMetric.SetUnit(md.Unit)
	destHist := destMetric.SetEmptyHistogram()
	destHist.SetAggregationTemporality(pmetric.AggregationTemporalityDelta)
	destHist.DataPoints().EnsureCapacity(len(srcDps))
	for _, srcDp := range srcDps {
		destDp := destHist.DataPoints().AppendEmpty()
		srcDp.attrs.CopyTo(destDp.Attributes())
		destDp.ExplicitBounds().FromRaw(srcDp.bounds)
		destDp.BucketCounts().FromRaw(srcDp.counts)
		destDp.SetCount(srcDp.count)
		destDp.SetSum(srcDp.sum)
		destDp.SetStartTimestamp(pcommon.NewTimestampFromTime(a.start))
		destDp.SetTimestamp(pcommon.NewTimestampFromTime(a.timestamp))
	}
	delete(a.datapoints, md.Name)
}

// Empty reports whether nothing has been recorded since the last Move
// or Reset.
func (a *Aggregator) Empty() bool {
	return len(a.datapoints) == 0
}

func (a *Aggregator) Reset() {
	clear(a.datapoints)
}

type explicitHistogramDP struct {
	attrs pcommon.Map

	sum   float64
	count uint64

	// bounds of length n represent n+1 buckets:
	//
	// (-Inf, bounds[i]] for i == 0
	// (bounds[i-1], bounds[i]] for 0 < i < len(bounds)
	// (bounds[i-1], +Inf) for i == len(bounds)
	bounds []float64

	// counts has one entry per bucket and sums to count.
	counts []uint64
}

func newExplicitHistogramDP(attrs pcommon.Map, bounds []float64) *explicitHistogramDP {
	dpAttrs := pcommon.NewMap()
	attrs.CopyTo(dpAttrs)
	return &explicitHistogramDP{
		attrs:  dpAttrs,
		bounds: bounds,
		counts: make([]uint64, len(bounds)+1),
	}
}
