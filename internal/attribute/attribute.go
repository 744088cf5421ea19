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

// Package attribute holds small helpers over pcommon.Map used while
// deriving Application Signals attributes.
package attribute // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/attribute"

import (
	"strconv"
	"strings"

	"go.opentelemetry.io/collector/pdata/pcommon"
)

// PutStr wrapper around the attribute map `PutStr` method
// that only inserts the entry if no key-value exists.
func PutStr(attrs pcommon.Map, key string, value string) {
	if _, ok := attrs.Get(key); !ok {
		attrs.PutStr(key, value)
	}
}

// PutValue copies value under key only if no key-value exists.
func PutValue(attrs pcommon.Map, key string, value pcommon.Value) {
	if _, ok := attrs.Get(key); !ok {
		value.CopyTo(attrs.PutEmpty(key))
	}
}

// Has reports whether key is present, whatever its value.
func Has(attrs pcommon.Map, key string) bool {
	_, ok := attrs.Get(key)
	return ok
}

// HasAny reports whether at least one of keys is present.
func HasAny(attrs pcommon.Map, keys ...string) bool {
	for _, k := range keys {
		if Has(attrs, k) {
			return true
		}
	}
	return false
}

// GetStr returns the value of key rendered as a string. Non-string
// values are converted with pcommon.Value.AsString.
func GetStr(attrs pcommon.Map, key string) (string, bool) {
	v, ok := attrs.Get(key)
	if !ok {
		return "", false
	}
	if v.Type() == pcommon.ValueTypeStr {
		return v.Str(), true
	}
	return v.AsString(), true
}

// FirstStr returns the first present key's value from keys.
func FirstStr(attrs pcommon.Map, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := GetStr(attrs, k); ok {
			return v, true
		}
	}
	return "", false
}

// GetInt returns an integer attribute. Ints, whole doubles and numeric
// strings are accepted.
func GetInt(attrs pcommon.Map, key string) (int64, bool) {
	v, ok := attrs.Get(key)
	if !ok {
		return 0, false
	}
	switch v.Type() {
	case pcommon.ValueTypeInt:
		return v.Int(), true
	case pcommon.ValueTypeDouble:
		d := v.Double()
		if d != float64(int64(d)) {
			return 0, false
		}
		return int64(d), true
	case pcommon.ValueTypeStr:
		i, err := strconv.ParseInt(strings.TrimSpace(v.Str()), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}
