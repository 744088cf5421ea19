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

package appsignalsattr // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsattr"

// Derived attributes. These strings are read by downstream exporters and
// dashboards and must not change.
const (
	AWSSpanKind                 = "aws.span.kind"
	AWSLocalService             = "aws.local.service"
	AWSLocalOperation           = "aws.local.operation"
	AWSRemoteService            = "aws.remote.service"
	AWSRemoteOperation          = "aws.remote.operation"
	AWSRemoteResourceType       = "aws.remote.resource.type"
	AWSRemoteResourceIdentifier = "aws.remote.resource.identifier"
	AWSCloudFormationPrimaryID  = "aws.cloudformation.primary.identifier"
	AWSRemoteDBUser             = "aws.remote.db.user"
	AWSSDKDescendant            = "aws.sdk.descendant"
	AWSConsumerParentSpanKind   = "aws.consumer.parent.span.kind"
)

// AWS SDK instrumentation attributes.
const (
	AWSServiceName                  = "aws.service"
	AWSOperationName                = "aws.operation"
	AWSDynamoDBTableName            = "aws.table_name"
	AWSDynamoDBTableNames           = "aws.dynamodb.table_names"
	AWSKinesisStreamName            = "aws.kinesis.stream_name"
	AWSS3Bucket                     = "aws.s3.bucket"
	AWSSQSQueueName                 = "aws.sqs.queue_name"
	AWSSQSQueueURL                  = "aws.queue_url"
	AWSBedrockGuardrailID           = "aws.bedrock.guardrail.id"
	AWSBedrockAgentID               = "aws.bedrock.agent.id"
	AWSBedrockKnowledgeBaseID       = "aws.bedrock.knowledge_base.id"
	AWSBedrockDataSourceID          = "aws.bedrock.data_source.id"
	AWSLambdaResourceMappingID      = "aws.lambda.resource_mapping.id"
	AWSSecretsManagerSecretARN      = "aws.secretsmanager.secret.arn"
	AWSSNSTopicARN                  = "aws.sns.topic.arn"
	AWSStepFunctionsActivityARN     = "aws.stepfunctions.activity.arn"
	AWSStepFunctionsStateMachineARN = "aws.stepfunctions.state_machine.arn"
)

// Semantic convention attributes missing from the semconv packages in use,
// or only present there under a newer name.
const (
	DBOperation         = "db.operation"
	DBUser              = "db.user"
	DBConnectionString  = "db.connection_string"
	NetSockPeerAddr     = "net.sock.peer.addr"
	NetSockPeerPort     = "net.sock.peer.port"
	ServerSocketAddress = "server.socket.address"
	ServerSocketPort    = "server.socket.port"
	GenAIRequestModel   = "gen_ai.request.model"
)

// Sentinel values.
const (
	UnknownService         = "UnknownService"
	UnknownOperation       = "UnknownOperation"
	UnknownRemoteService   = "UnknownRemoteService"
	UnknownRemoteOperation = "UnknownRemoteOperation"
	InternalOperation      = "InternalOperation"
	LocalRoot              = "LOCAL_ROOT"
)

// Names of the two attribute sets produced per span.
const (
	ServiceMetric    = "Service"
	DependencyMetric = "Dependency"
)
