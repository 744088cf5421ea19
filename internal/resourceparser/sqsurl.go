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

// Package resourceparser extracts best-effort resource identifiers from
// queue URLs, database connection strings and ARNs.
package resourceparser // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/resourceparser"

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSQSURL is returned when a string is not an SQS queue URL.
var ErrInvalidSQSURL = errors.New("invalid sqs queue url")

const (
	sqsAccountIDLength    = 12
	sqsMaxQueueNameLength = 80
)

// ParseSQSQueueName returns the queue name of an SQS queue URL of the form
// [http(s)://]host/<12-digit account id>/<queue name>.
func ParseSQSQueueName(url string) (string, error) {
	trimmed := strings.TrimPrefix(url, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %q: expected 3 path segments, got %d", ErrInvalidSQSURL, url, len(parts))
	}
	if !isAccountID(parts[1]) {
		return "", fmt.Errorf("%w: %q: invalid account id", ErrInvalidSQSURL, url)
	}
	if !isQueueName(parts[2]) {
		return "", fmt.Errorf("%w: %q: invalid queue name", ErrInvalidSQSURL, url)
	}
	return parts[2], nil
}

func isAccountID(s string) bool {
	if len(s) != sqsAccountIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isQueueName(s string) bool {
	if len(s) == 0 || len(s) > sqsMaxQueueNameLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}
