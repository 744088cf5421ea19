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

// Package spanclassifier holds the predicates deciding which
// Application Signals attribute sets a span produces, and the operation
// names it is reported under.
package spanclassifier // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/spanclassifier"

import (
	"strings"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
	semconv25 "go.opentelemetry.io/otel/semconv/v1.25.0"
	semconv37 "go.opentelemetry.io/otel/semconv/v1.37.0"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsattr"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/attribute"
)

const (
	// AWSSDKScopePrefix is the instrumentation scope name used by the AWS
	// SDK instrumentation.
	AWSSDKScopePrefix = "Amazon.AWS.AWSClientInstrumentation"

	// ConsumerKind is the value written to aws.consumer.parent.span.kind
	// when a consumer span is a child of another consumer span.
	ConsumerKind = "CONSUMER"

	awsAPIRPCSystem           = "aws-api"
	sqsServiceName            = "SQS"
	messagingOperationProcess = "process"
)

// IsLocalRoot reports whether span is the first span of its trace seen
// within the process: it has no parent, or its parent is remote.
func IsLocalRoot(span ptrace.Span) bool {
	if span.ParentSpanID().IsEmpty() {
		return true
	}
	flags := tracepb.SpanFlags(span.Flags())
	switch {
	case flags&tracepb.SpanFlags_SPAN_FLAGS_CONTEXT_HAS_IS_REMOTE_MASK == 0:
		// parent is unknown, fall back to span kind
		return span.Kind() == ptrace.SpanKindServer || span.Kind() == ptrace.SpanKindConsumer
	default:
		return flags&tracepb.SpanFlags_SPAN_FLAGS_CONTEXT_IS_REMOTE_MASK != 0
	}
}

// KindName returns the upper case span kind, e.g. SERVER.
func KindName(kind ptrace.SpanKind) string {
	return strings.ToUpper(kind.String())
}

// ShouldGenerateServiceMetrics reports whether span produces the Service
// attribute set.
func ShouldGenerateServiceMetrics(span ptrace.Span, scope pcommon.InstrumentationScope) bool {
	return (IsLocalRoot(span) && !IsSQSReceiveConsumerSpan(span, scope)) ||
		span.Kind() == ptrace.SpanKindServer
}

// ShouldGenerateDependencyMetrics reports whether span produces the
// Dependency attribute set.
func ShouldGenerateDependencyMetrics(span ptrace.Span, scope pcommon.InstrumentationScope) bool {
	switch span.Kind() {
	case ptrace.SpanKindClient, ptrace.SpanKindProducer:
		return true
	}
	return isDependencyConsumerSpan(span) && !IsSQSReceiveConsumerSpan(span, scope)
}

// isDependencyConsumerSpan keeps a consumer span that only continues
// processing under another consumer span from counting the same
// dependency edge twice.
func isDependencyConsumerSpan(span ptrace.Span) bool {
	if span.Kind() != ptrace.SpanKindConsumer {
		return false
	}
	if !IsConsumerProcessSpan(span) {
		return true
	}
	if IsLocalRoot(span) {
		return true
	}
	parentKind, _ := attribute.GetStr(span.Attributes(), appsignalsattr.AWSConsumerParentSpanKind)
	return parentKind != ConsumerKind
}

// IsConsumerProcessSpan reports whether span is a consumer span with
// messaging.operation "process".
func IsConsumerProcessSpan(span ptrace.Span) bool {
	if span.Kind() != ptrace.SpanKindConsumer {
		return false
	}
	op, _ := attribute.GetStr(span.Attributes(), string(semconv25.MessagingOperationKey))
	return op == messagingOperationProcess
}

// IsSQSReceiveConsumerSpan identifies the consumer spans the AWS SDK
// instrumentation emits for SQS ReceiveMessage calls.
func IsSQSReceiveConsumerSpan(span ptrace.Span, scope pcommon.InstrumentationScope) bool {
	attrs := span.Attributes()
	service, _ := attribute.GetStr(attrs, appsignalsattr.AWSServiceName)
	if service != sqsServiceName || span.Kind() != ptrace.SpanKindConsumer {
		return false
	}
	if !strings.HasPrefix(scope.Name(), AWSSDKScopePrefix) {
		return false
	}
	op, ok := attribute.GetStr(attrs, string(semconv25.MessagingOperationKey))
	return !ok || op == messagingOperationProcess
}

// ShouldUseInternalOperation reports whether span is a local root that
// does not serve a request, in which case its operation is
// InternalOperation.
func ShouldUseInternalOperation(span ptrace.Span) bool {
	return IsLocalRoot(span) && span.Kind() != ptrace.SpanKindServer
}

// IsAWSSDKSpan reports whether span was produced by AWS SDK
// instrumentation.
func IsAWSSDKSpan(span ptrace.Span) bool {
	attrs := span.Attributes()
	if system, _ := attribute.GetStr(attrs, string(semconv25.RPCSystemKey)); system == awsAPIRPCSystem {
		return true
	}
	return attribute.Has(attrs, appsignalsattr.AWSServiceName)
}

// IsDBSpan reports whether span carries any database call attribute.
func IsDBSpan(span ptrace.Span) bool {
	return attribute.HasAny(span.Attributes(),
		string(semconv25.DBSystemKey),
		appsignalsattr.DBOperation,
		string(semconv25.DBStatementKey),
		string(semconv37.DBSystemNameKey),
		string(semconv37.DBOperationNameKey),
		string(semconv37.DBQueryTextKey),
	)
}
