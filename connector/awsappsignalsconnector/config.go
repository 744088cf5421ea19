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
	"errors"
	"fmt"
	"sort"

	"go.opentelemetry.io/collector/component"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsconfig"
)

var _ component.Config = (*Config)(nil)

var defaultLatencyBuckets = []float64{
	2, 4, 6, 8, 10, 50, 100, 200, 400, 800, 1000, 1400, 2000, 5000, 10_000, 15_000,
}

// Config holds configuration for the Application Signals connector.
type Config struct {
	appsignalsconfig.Config `mapstructure:",squash"`

	// LatencyBuckets are the explicit bucket bounds, in milliseconds, of
	// the Latency histogram.
	LatencyBuckets []float64 `mapstructure:"latency_buckets"`
}

func (c *Config) Validate() error {
	var errs []error
	if err := c.Config.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(c.LatencyBuckets) == 0 {
		errs = append(errs, errors.New("latency_buckets must not be empty"))
	}
	if !sort.Float64sAreSorted(c.LatencyBuckets) {
		errs = append(errs, errors.New("latency_buckets must be sorted in ascending order"))
	}
	for i := 1; i < len(c.LatencyBuckets); i++ {
		if c.LatencyBuckets[i] == c.LatencyBuckets[i-1] {
			errs = append(errs, fmt.Errorf("latency_buckets[%d]: duplicate bound %v", i, c.LatencyBuckets[i]))
		}
	}
	return errors.Join(errs...)
}

func createDefaultConfig() component.Config {
	return &Config{
		Config:         appsignalsconfig.Default(),
		LatencyBuckets: append([]float64(nil), defaultLatencyBuckets...),
	}
}
