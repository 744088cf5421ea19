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
	"go.opentelemetry.io/collector/component"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsconfig"
)

var _ component.Config = (*Config)(nil)

// Config holds configuration for the Application Signals processor.
type Config struct {
	appsignalsconfig.Config `mapstructure:",squash"`

	// RecordMetrics records the Error, Fault and Latency histograms of
	// every derived attribute set through the collector's own meter
	// provider, in addition to writing the attributes onto spans.
	//
	// Defaults to false.
	RecordMetrics bool `mapstructure:"record_metrics"`
}

func createDefaultConfig() component.Config {
	return &Config{
		Config: appsignalsconfig.Default(),
	}
}
