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

// Package appsignalsconfig holds the settings shared by the Application
// Signals processor and connector.
package appsignalsconfig // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsconfig"

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/metricattr"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/propagation"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/redmetrics"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/spanclassifier"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/sqlkeywords"
)

// Config is embedded, squashed, in component configurations.
type Config struct {
	// SQLKeywordsFile optionally overrides the embedded list of SQL
	// keywords used to name database operations. The file holds a JSON
	// document of the form {"keywords": [...]}.
	SQLKeywordsFile string `mapstructure:"sql_keywords_file"`

	// OperationFromURLPath derives the operation of incoming requests
	// from the URL path whenever one is recorded, instead of trusting
	// the span name.
	//
	// Defaults to false.
	OperationFromURLPath bool `mapstructure:"operation_from_url_path"`

	// PropagatedAttributes lists the attributes Internal spans hand
	// down to their children.
	//
	// Defaults to aws.remote.service and aws.remote.operation.
	PropagatedAttributes []string `mapstructure:"propagated_attributes"`

	// ExcludedRemoteServices holds glob patterns. Attribute sets whose
	// aws.remote.service matches one of them are not recorded.
	//
	// Defaults to the EC2 instance metadata address.
	ExcludedRemoteServices []string `mapstructure:"excluded_remote_services"`
}

// Default returns the default settings.
func Default() Config {
	return Config{
		PropagatedAttributes:   propagation.DefaultPropagatedKeys(),
		ExcludedRemoteServices: append([]string(nil), redmetrics.DefaultExcludedRemoteServices...),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	var errs []error
	for i, key := range c.PropagatedAttributes {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, fmt.Errorf("propagated_attributes[%d]: empty attribute name", i))
		}
	}
	if _, err := redmetrics.NewFilter(c.ExcludedRemoteServices); err != nil {
		errs = append(errs, fmt.Errorf("excluded_remote_services: %w", err))
	}
	return errors.Join(errs...)
}

// Pipeline bundles the stages a configuration builds.
type Pipeline struct {
	Generator  *metricattr.Generator
	Propagator *propagation.Propagator
	Filter     *redmetrics.Filter
}

// Build constructs the pipeline stages. A keyword file that cannot be
// loaded is logged and leaves SQL statements unclassified.
func (c *Config) Build(logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	keywords, err := sqlkeywords.Load(c.SQLKeywordsFile)
	if err != nil {
		logger.Warn("failed to load SQL keywords, database statements will not be classified",
			zap.String("path", c.SQLKeywordsFile),
			zap.Error(err),
		)
	}
	filter, err := redmetrics.NewFilter(c.ExcludedRemoteServices)
	if err != nil {
		return nil, err
	}
	classifier := spanclassifier.Classifier{OperationFromURLPath: c.OperationFromURLPath}
	return &Pipeline{
		Generator: metricattr.NewGenerator(
			metricattr.WithLogger(logger),
			metricattr.WithKeywords(keywords),
			metricattr.WithClassifier(classifier),
		),
		Propagator: propagation.New(classifier, c.PropagatedAttributes),
		Filter:     filter,
	}, nil
}
