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

package resourceparser // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/resourceparser"

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

// ErrInvalidARN is returned for strings that are not ARNs.
var ErrInvalidARN = errors.New("invalid arn")

// ARNSuffix returns the part of an ARN after its last colon, e.g. the
// secret name of a Secrets Manager secret ARN. Malformed values that still
// hold a colon yield whatever follows the last one.
func ARNSuffix(s string) (string, error) {
	if !arn.IsARN(s) {
		if i := strings.LastIndexByte(s, ':'); i >= 0 && i < len(s)-1 {
			return s[i+1:], nil
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidARN, s)
	}
	parsed, err := arn.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidARN, err)
	}
	resource := parsed.Resource
	if i := strings.LastIndexByte(resource, ':'); i >= 0 {
		resource = resource[i+1:]
	}
	if resource == "" {
		return "", fmt.Errorf("%w: %q: empty resource", ErrInvalidARN, s)
	}
	return resource, nil
}
