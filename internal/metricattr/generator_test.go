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

package metricattr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap/zaptest"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsattr"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/spanclassifier"
)

const testService = "checkout"

func newResource(serviceName string) pcommon.Resource {
	res := pcommon.NewResource()
	if serviceName != "" {
		res.Attributes().PutStr("service.name", serviceName)
	}
	return res
}

func newSpan(t *testing.T, kind ptrace.SpanKind, localParent bool, attrs map[string]any) ptrace.Span {
	t.Helper()
	span := ptrace.NewSpan()
	span.SetName("span")
	span.SetKind(kind)
	span.SetTraceID(pcommon.TraceID{1})
	span.SetSpanID(pcommon.SpanID{2})
	if localParent {
		span.SetParentSpanID(pcommon.SpanID{3})
		span.SetFlags(uint32(tracepb.SpanFlags_SPAN_FLAGS_CONTEXT_HAS_IS_REMOTE_MASK))
	}
	require.NoError(t, span.Attributes().FromRaw(attrs))
	return span
}

func newGenerator(t *testing.T) *Generator {
	return NewGenerator(WithLogger(zaptest.NewLogger(t)))
}

func generate(t *testing.T, span ptrace.Span) Result {
	return newGenerator(t).Generate(span, pcommon.NewInstrumentationScope(), newResource(testService))
}

func dependency(t *testing.T, attrs map[string]any) map[string]any {
	t.Helper()
	result := generate(t, newSpan(t, ptrace.SpanKindClient, true, attrs))
	dep, ok := result.Dependency()
	require.True(t, ok)
	_, ok = result.Service()
	require.False(t, ok)
	return dep.AsRaw()
}

func TestGenerateInternalChild(t *testing.T) {
	result := generate(t, newSpan(t, ptrace.SpanKindInternal, true, map[string]any{"foo": "bar"}))
	assert.Empty(t, result)
}

func TestGenerateServerSpan(t *testing.T) {
	span := newSpan(t, ptrace.SpanKindServer, false, map[string]any{
		"http.request.method": "GET",
		"http.route":          "/carts/{id}",
	})
	result := generate(t, span)
	require.Len(t, result, 1)
	svc, ok := result.Service()
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		appsignalsattr.AWSLocalService:   testService,
		appsignalsattr.AWSLocalOperation: "GET /carts/{id}",
		appsignalsattr.AWSSpanKind:       appsignalsattr.LocalRoot,
	}, svc.AsRaw())

	span.SetParentSpanID(pcommon.SpanID{3})
	span.SetFlags(uint32(tracepb.SpanFlags_SPAN_FLAGS_CONTEXT_HAS_IS_REMOTE_MASK))
	svc, ok = generate(t, span).Service()
	require.True(t, ok)
	assert.Equal(t, "SERVER", svc.AsRaw()[appsignalsattr.AWSSpanKind])

	// A parent of unknown remote-ness does not hide the entry point.
	span.SetFlags(0)
	svc, ok = generate(t, span).Service()
	require.True(t, ok)
	assert.Equal(t, appsignalsattr.LocalRoot, svc.AsRaw()[appsignalsattr.AWSSpanKind])
}

func TestGenerateLocalRootClient(t *testing.T) {
	span := newSpan(t, ptrace.SpanKindClient, false, map[string]any{
		appsignalsattr.AWSRemoteService:   "inventory",
		appsignalsattr.AWSRemoteOperation: "Reserve",
	})
	result := generate(t, span)
	require.Len(t, result, 2)

	svc, _ := result.Service()
	assert.Equal(t, appsignalsattr.LocalRoot, svc.AsRaw()[appsignalsattr.AWSSpanKind])
	assert.Equal(t, appsignalsattr.InternalOperation, svc.AsRaw()[appsignalsattr.AWSLocalOperation])

	// The dependency set keeps the real kind; only the merged view
	// reports LOCAL_ROOT.
	dep, _ := result.Dependency()
	assert.Equal(t, map[string]any{
		appsignalsattr.AWSLocalService:    testService,
		appsignalsattr.AWSLocalOperation:  appsignalsattr.InternalOperation,
		appsignalsattr.AWSRemoteService:   "inventory",
		appsignalsattr.AWSRemoteOperation: "Reserve",
		appsignalsattr.AWSSpanKind:        "CLIENT",
	}, dep.AsRaw())
}

func TestLocalService(t *testing.T) {
	span := newSpan(t, ptrace.SpanKindServer, true, nil)
	for name, want := range map[string]string{
		"":                       appsignalsattr.UnknownService,
		"unknown_service:python": appsignalsattr.UnknownService,
		"payments":               "payments",
	} {
		result := newGenerator(t).Generate(span, pcommon.NewInstrumentationScope(), newResource(name))
		svc, ok := result.Service()
		require.True(t, ok)
		assert.Equal(t, want, svc.AsRaw()[appsignalsattr.AWSLocalService], name)
	}
}

func TestEgressOperation(t *testing.T) {
	attrs := dependency(t, nil)
	assert.Equal(t, appsignalsattr.UnknownOperation, attrs[appsignalsattr.AWSLocalOperation])

	attrs = dependency(t, map[string]any{appsignalsattr.AWSLocalOperation: "POST /orders"})
	assert.Equal(t, "POST /orders", attrs[appsignalsattr.AWSLocalOperation])
}

func TestRemoteServiceAndOperation(t *testing.T) {
	for _, tc := range []struct {
		name          string
		attrs         map[string]any
		wantService   string
		wantOperation string
	}{
		{
			name:          "nothing",
			wantService:   appsignalsattr.UnknownRemoteService,
			wantOperation: appsignalsattr.UnknownRemoteOperation,
		},
		{
			name: "explicit_remote_only_service",
			attrs: map[string]any{
				appsignalsattr.AWSRemoteService: "inventory",
				"rpc.service":                   "Ignored",
				"rpc.method":                    "Ignored",
			},
			wantService:   "inventory",
			wantOperation: appsignalsattr.UnknownRemoteOperation,
		},
		{
			name: "rpc_not_sdk",
			attrs: map[string]any{
				"rpc.service": "Checkout",
				"rpc.method":  "Pay",
			},
			wantService:   "Checkout",
			wantOperation: "Pay",
		},
		{
			name: "rpc_sdk_normalized",
			attrs: map[string]any{
				"rpc.system":  "aws-api",
				"rpc.service": "Sqs",
				"rpc.method":  "SendMessage",
			},
			wantService:   "AWS::SQS",
			wantOperation: "SendMessage",
		},
		{
			name: "rpc_sdk_bedrock_agent",
			attrs: map[string]any{
				"rpc.system":  "aws-api",
				"rpc.service": "Bedrock Agent",
				"rpc.method":  "GetAgent",
			},
			wantService:   "AWS::Bedrock",
			wantOperation: "GetAgent",
		},
		{
			name: "aws_service_unmapped",
			attrs: map[string]any{
				appsignalsattr.AWSServiceName:   "Lambda",
				appsignalsattr.AWSOperationName: "Invoke",
			},
			wantService:   "AWS::Lambda",
			wantOperation: "Invoke",
		},
		{
			name: "db_operation_wins_over_statement",
			attrs: map[string]any{
				"db.system":    "mysql",
				"db.operation": "find",
				"db.statement": "SELECT * FROM users",
			},
			wantService:   "mysql",
			wantOperation: "find",
		},
		{
			name: "db_statement_keyword",
			attrs: map[string]any{
				"db.system":    "postgresql",
				"db.statement": "  DROP VIEW DB statement",
			},
			wantService:   "postgresql",
			wantOperation: "DROP VIEW",
		},
		{
			name: "db_statement_keyword_not_at_start",
			attrs: map[string]any{
				"db.system":    "postgresql",
				"db.statement": "invalid SELECT DB statement",
			},
			wantService:   "postgresql",
			wantOperation: appsignalsattr.UnknownRemoteOperation,
		},
		{
			name: "db_stable_conventions",
			attrs: map[string]any{
				"db.system.name": "postgresql",
				"db.query.text":  "select 1",
			},
			wantService:   "postgresql",
			wantOperation: "SELECT",
		},
		{
			name: "faas",
			attrs: map[string]any{
				"faas.invoked_name": "resize",
				"faas.trigger":      "http",
			},
			wantService:   "resize",
			wantOperation: "http",
		},
		{
			name: "messaging",
			attrs: map[string]any{
				"messaging.system":    "kafka",
				"messaging.operation": "publish",
			},
			wantService:   "kafka",
			wantOperation: "publish",
		},
		{
			name: "graphql",
			attrs: map[string]any{
				"graphql.operation.type": "query",
			},
			wantService:   "graphql",
			wantOperation: "query",
		},
		{
			name: "peer_service_overrides_rpc",
			attrs: map[string]any{
				"peer.service": "PeerService",
				"rpc.service":  "Checkout",
				"rpc.method":   "Pay",
			},
			wantService:   "PeerService",
			wantOperation: "Pay",
		},
		{
			name: "peer_service_yields_to_remote_service",
			attrs: map[string]any{
				"peer.service":                  "PeerService",
				appsignalsattr.AWSRemoteService: "RemoteService",
			},
			wantService:   "RemoteService",
			wantOperation: appsignalsattr.UnknownRemoteOperation,
		},
		{
			name: "peer_service_without_cascade",
			attrs: map[string]any{
				"peer.service": "PeerService",
			},
			wantService:   "PeerService",
			wantOperation: appsignalsattr.UnknownRemoteOperation,
		},
		{
			name: "net_peer_name",
			attrs: map[string]any{
				"net.peer.name":      "db.internal",
				"net.peer.port":      int64(5432),
				"net.sock.peer.addr": "10.0.0.1",
			},
			wantService:   "db.internal:5432",
			wantOperation: appsignalsattr.UnknownRemoteOperation,
		},
		{
			name: "net_sock_peer_addr",
			attrs: map[string]any{
				"net.sock.peer.addr": "10.0.0.1",
				"net.sock.peer.port": "8080",
			},
			wantService:   "10.0.0.1:8080",
			wantOperation: appsignalsattr.UnknownRemoteOperation,
		},
		{
			name: "url_full",
			attrs: map[string]any{
				"url.full":            "https://api.example.com/v1/users/42",
				"http.request.method": "GET",
			},
			wantService:   "api.example.com:443",
			wantOperation: "GET /v1",
		},
		{
			name: "legacy_http_url_with_port",
			attrs: map[string]any{
				"http.url":    "http://api.example.com:8080",
				"http.method": "DELETE",
			},
			wantService:   "api.example.com:8080",
			wantOperation: "DELETE /",
		},
		{
			name: "url_without_method",
			attrs: map[string]any{
				"url.full": "http://api.example.com/users",
			},
			wantService:   "api.example.com:80",
			wantOperation: "/users",
		},
		{
			name: "url_unknown_scheme",
			attrs: map[string]any{
				"url.full": "grpc://api.example.com/users",
			},
			wantService:   "api.example.com:80",
			wantOperation: "/users",
		},
		{
			name: "url_relative",
			attrs: map[string]any{
				"url.full":            "/users/1",
				"http.request.method": "GET",
			},
			wantService:   appsignalsattr.UnknownRemoteService,
			wantOperation: appsignalsattr.UnknownRemoteOperation,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			attrs := dependency(t, tc.attrs)
			assert.Equal(t, tc.wantService, attrs[appsignalsattr.AWSRemoteService])
			assert.Equal(t, tc.wantOperation, attrs[appsignalsattr.AWSRemoteOperation])
		})
	}
}

func TestNormalizeServiceName(t *testing.T) {
	for name, want := range map[string]string{
		"AmazonDynamoDBv2":      "AWS::DynamoDB",
		"DynamoDb":              "AWS::DynamoDB",
		"AmazonKinesis":         "AWS::Kinesis",
		"Kinesis":               "AWS::Kinesis",
		"Amazon S3":             "AWS::S3",
		"S3":                    "AWS::S3",
		"AmazonSQS":             "AWS::SQS",
		"Sqs":                   "AWS::SQS",
		"Bedrock":               "AWS::Bedrock",
		"Bedrock Agent":         "AWS::Bedrock",
		"Bedrock Agent Runtime": "AWS::Bedrock",
		"Bedrock Runtime":       "AWS::BedrockRuntime",
		"SecretsManager":        "AWS::SecretsManager",
	} {
		assert.Equal(t, want, NormalizeServiceName(name), name)
	}
}

func TestRemoteResource(t *testing.T) {
	const (
		queueURL = "https://sqs.us-east-1.amazonaws.com/123412341234/Q_Name-5"
		topicARN = "arn:aws:sns:us-west-2:012345678901:test_topic"
	)
	for _, tc := range []struct {
		name      string
		attrs     map[string]any
		wantType  string
		wantID    string
		wantCFNID string
	}{
		{
			name:      "dynamodb_table",
			attrs:     map[string]any{appsignalsattr.AWSDynamoDBTableName: "orders|2024"},
			wantType:  "AWS::DynamoDB::Table",
			wantID:    "orders^|2024",
			wantCFNID: "orders^|2024",
		},
		{
			name:      "dynamodb_table_names",
			attrs:     map[string]any{appsignalsattr.AWSDynamoDBTableNames: []any{"first", "second"}},
			wantType:  "AWS::DynamoDB::Table",
			wantID:    "first",
			wantCFNID: "first",
		},
		{
			name:      "kinesis_stream",
			attrs:     map[string]any{appsignalsattr.AWSKinesisStreamName: "clicks"},
			wantType:  "AWS::Kinesis::Stream",
			wantID:    "clicks",
			wantCFNID: "clicks",
		},
		{
			name: "s3_bucket_before_sqs",
			attrs: map[string]any{
				appsignalsattr.AWSS3Bucket:     "a^b",
				appsignalsattr.AWSSQSQueueName: "queue",
			},
			wantType:  "AWS::S3::Bucket",
			wantID:    "a^^b",
			wantCFNID: "a^^b",
		},
		{
			name: "sqs_queue_name_with_url",
			attrs: map[string]any{
				appsignalsattr.AWSSQSQueueName: "Q_Name-5",
				appsignalsattr.AWSSQSQueueURL:  queueURL,
			},
			wantType:  "AWS::SQS::Queue",
			wantID:    "Q_Name-5",
			wantCFNID: queueURL,
		},
		{
			name:      "sqs_queue_url",
			attrs:     map[string]any{appsignalsattr.AWSSQSQueueURL: queueURL},
			wantType:  "AWS::SQS::Queue",
			wantID:    "Q_Name-5",
			wantCFNID: queueURL,
		},
		{
			name:  "sqs_invalid_queue_url",
			attrs: map[string]any{appsignalsattr.AWSSQSQueueURL: "https://sqs.us-east-1.amazonaws.com/A/A"},
		},
		{
			name:      "bedrock_guardrail",
			attrs:     map[string]any{appsignalsattr.AWSBedrockGuardrailID: "gr-1"},
			wantType:  "AWS::Bedrock::Guardrail",
			wantID:    "gr-1",
			wantCFNID: "gr-1",
		},
		{
			name:      "bedrock_model",
			attrs:     map[string]any{appsignalsattr.GenAIRequestModel: "anthropic.claude-v2"},
			wantType:  "AWS::Bedrock::Model",
			wantID:    "anthropic.claude-v2",
			wantCFNID: "anthropic.claude-v2",
		},
		{
			name:      "bedrock_agent",
			attrs:     map[string]any{appsignalsattr.AWSBedrockAgentID: "agent"},
			wantType:  "AWS::Bedrock::Agent",
			wantID:    "agent",
			wantCFNID: "agent",
		},
		{
			name: "bedrock_data_source_with_knowledge_base",
			attrs: map[string]any{
				appsignalsattr.AWSBedrockDataSourceID:    "ds|1",
				appsignalsattr.AWSBedrockKnowledgeBaseID: "kb",
			},
			wantType:  "AWS::Bedrock::DataSource",
			wantID:    "ds^|1",
			wantCFNID: "kb|ds^|1",
		},
		{
			name:      "bedrock_knowledge_base",
			attrs:     map[string]any{appsignalsattr.AWSBedrockKnowledgeBaseID: "kb"},
			wantType:  "AWS::Bedrock::KnowledgeBase",
			wantID:    "kb",
			wantCFNID: "kb",
		},
		{
			name:      "lambda_event_source_mapping",
			attrs:     map[string]any{appsignalsattr.AWSLambdaResourceMappingID: "uuid"},
			wantType:  "AWS::Lambda::EventSourceMapping",
			wantID:    "uuid",
			wantCFNID: "uuid",
		},
		{
			name:      "secret",
			attrs:     map[string]any{appsignalsattr.AWSSecretsManagerSecretARN: "arn:aws:secretsmanager:us-east-1:123456789012:secret:db-pass"},
			wantType:  "AWS::SecretsManager::Secret",
			wantID:    "db-pass",
			wantCFNID: "arn:aws:secretsmanager:us-east-1:123456789012:secret:db-pass",
		},
		{
			name:      "sns_topic",
			attrs:     map[string]any{appsignalsattr.AWSSNSTopicARN: topicARN},
			wantType:  "AWS::SNS::Topic",
			wantID:    "test_topic",
			wantCFNID: topicARN,
		},
		{
			name:      "step_functions_activity",
			attrs:     map[string]any{appsignalsattr.AWSStepFunctionsActivityARN: "arn:aws:states:us-east-1:123456789012:activity:approve"},
			wantType:  "AWS::StepFunctions::Activity",
			wantID:    "approve",
			wantCFNID: "arn:aws:states:us-east-1:123456789012:activity:approve",
		},
		{
			name:      "step_functions_state_machine",
			attrs:     map[string]any{appsignalsattr.AWSStepFunctionsStateMachineARN: "arn:aws:states:us-east-1:123456789012:stateMachine:flow"},
			wantType:  "AWS::StepFunctions::StateMachine",
			wantID:    "flow",
			wantCFNID: "arn:aws:states:us-east-1:123456789012:stateMachine:flow",
		},
		{
			name:      "malformed_arn",
			attrs:     map[string]any{appsignalsattr.AWSSNSTopicARN: "sns:orders"},
			wantType:  "AWS::SNS::Topic",
			wantID:    "orders",
			wantCFNID: "sns:orders",
		},
		{
			name:  "invalid_arn",
			attrs: map[string]any{appsignalsattr.AWSSNSTopicARN: "not-an-arn"},
		},
		{
			name:  "no_resource_attribute",
			attrs: map[string]any{},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.attrs[appsignalsattr.AWSServiceName] = "Service"
			attrs := dependency(t, tc.attrs)
			if tc.wantType == "" {
				assert.NotContains(t, attrs, appsignalsattr.AWSRemoteResourceType)
				assert.NotContains(t, attrs, appsignalsattr.AWSRemoteResourceIdentifier)
				assert.NotContains(t, attrs, appsignalsattr.AWSCloudFormationPrimaryID)
				return
			}
			assert.Equal(t, tc.wantType, attrs[appsignalsattr.AWSRemoteResourceType])
			assert.Equal(t, tc.wantID, attrs[appsignalsattr.AWSRemoteResourceIdentifier])
			assert.Equal(t, tc.wantCFNID, attrs[appsignalsattr.AWSCloudFormationPrimaryID])
		})
	}
}

func TestRemoteResourceRequiresAWSSDKSpan(t *testing.T) {
	attrs := dependency(t, map[string]any{appsignalsattr.AWSS3Bucket: "bucket"})
	assert.NotContains(t, attrs, appsignalsattr.AWSRemoteResourceType)
}

func TestDBConnectionResource(t *testing.T) {
	for _, tc := range []struct {
		name   string
		attrs  map[string]any
		wantID string
	}{
		{
			name: "server_address",
			attrs: map[string]any{
				"db.system":      "mysql",
				"db.name":        "db_name|special",
				"server.address": "abc.com",
				"server.port":    int64(3306),
			},
			wantID: "db_name^|special|abc.com|3306",
		},
		{
			name: "server_address_without_port",
			attrs: map[string]any{
				"db.system":      "mysql",
				"server.address": "abc^com",
			},
			wantID: "abc^^com",
		},
		{
			name: "net_peer_name_string_port",
			attrs: map[string]any{
				"db.system":     "postgresql",
				"net.peer.name": "pg.internal",
				"net.peer.port": "5432",
			},
			wantID: "pg.internal|5432",
		},
		{
			name: "server_socket_address",
			attrs: map[string]any{
				"db.system":             "redis",
				"server.socket.address": "10.0.0.7",
				"server.socket.port":    int64(6379),
			},
			wantID: "10.0.0.7|6379",
		},
		{
			name: "connection_string",
			attrs: map[string]any{
				"db.system":            "mysql",
				"db.name":              "orders",
				"db.connection_string": "mysql://db.example.com:3306/orders",
			},
			wantID: "orders|db.example.com|3306",
		},
		{
			name: "mysql_dsn",
			attrs: map[string]any{
				"db.system":            "mysql",
				"db.connection_string": "user:secret@tcp(mysql.internal:3307)/petclinic",
			},
			wantID: "mysql.internal|3307",
		},
		{
			name: "namespace",
			attrs: map[string]any{
				"db.system.name": "postgresql",
				"db.namespace":   "inventory",
				"server.address": "pg",
			},
			wantID: "inventory|pg",
		},
		{
			name: "invalid_connection_string",
			attrs: map[string]any{
				"db.system":            "hsqldb",
				"db.connection_string": "hsqldb:mem:",
			},
		},
		{
			name: "no_connection_info",
			attrs: map[string]any{
				"db.system": "mysql",
				"db.name":   "orders",
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			attrs := dependency(t, tc.attrs)
			if tc.wantID == "" {
				assert.NotContains(t, attrs, appsignalsattr.AWSRemoteResourceType)
				assert.NotContains(t, attrs, appsignalsattr.AWSRemoteResourceIdentifier)
				return
			}
			assert.Equal(t, DBConnectionResourceType, attrs[appsignalsattr.AWSRemoteResourceType])
			assert.Equal(t, tc.wantID, attrs[appsignalsattr.AWSRemoteResourceIdentifier])
			assert.NotContains(t, attrs, appsignalsattr.AWSCloudFormationPrimaryID)
		})
	}
}

func TestRemoteDBUser(t *testing.T) {
	attrs := dependency(t, map[string]any{"db.system": "mysql", "db.user": "admin"})
	assert.Equal(t, "admin", attrs[appsignalsattr.AWSRemoteDBUser])

	attrs = dependency(t, map[string]any{"db.user": "admin"})
	assert.NotContains(t, attrs, appsignalsattr.AWSRemoteDBUser)
}

func TestConsumerUnderConsumer(t *testing.T) {
	attrs := map[string]any{
		"messaging.system":    "rabbitmq",
		"messaging.operation": "process",
	}
	span := newSpan(t, ptrace.SpanKindConsumer, true, attrs)
	span.Attributes().PutStr(appsignalsattr.AWSConsumerParentSpanKind, spanclassifier.ConsumerKind)
	assert.Empty(t, generate(t, span))

	span = newSpan(t, ptrace.SpanKindConsumer, true, attrs)
	result := generate(t, span)
	_, ok := result.Dependency()
	assert.True(t, ok)
}

func TestGenerateIdempotent(t *testing.T) {
	span := newSpan(t, ptrace.SpanKindClient, false, map[string]any{
		"rpc.system":                        "aws-api",
		"rpc.service":                       "DynamoDb",
		"rpc.method":                        "PutItem",
		appsignalsattr.AWSDynamoDBTableName: "orders",
	})
	before := span.Attributes().AsRaw()
	g := newGenerator(t)
	first := g.Generate(span, pcommon.NewInstrumentationScope(), newResource(testService))
	second := g.Generate(span, pcommon.NewInstrumentationScope(), newResource(testService))
	require.Len(t, first, len(second))
	for name, attrs := range first {
		assert.Equal(t, attrs.AsRaw(), second[name].AsRaw(), name)
	}
	assert.Equal(t, before, span.Attributes().AsRaw())
}

func TestEscapeDelimiters(t *testing.T) {
	assert.Equal(t, "plain", EscapeDelimiters("plain"))
	assert.Equal(t, "a^^b^|c", EscapeDelimiters("a^b|c"))
	assert.Equal(t, "^^^|", EscapeDelimiters("^|"))
	assert.Equal(t, strings.Repeat("^^", 3), EscapeDelimiters("^^^"))
}
