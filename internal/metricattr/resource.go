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

package metricattr // import "github.com/aws-appsignals/opentelemetry-collector-components/internal/metricattr"

import (
	"strconv"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
	semconv25 "go.opentelemetry.io/otel/semconv/v1.25.0"
	semconv37 "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"

	"github.com/aws-appsignals/opentelemetry-collector-components/internal/appsignalsattr"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/attribute"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/resourceparser"
	"github.com/aws-appsignals/opentelemetry-collector-components/internal/spanclassifier"
)

// DBConnectionResourceType is the remote resource type of database spans.
const DBConnectionResourceType = "DB::Connection"

// RemoteResource identifies the resource a dependency call targets.
type RemoteResource struct {
	Type                    string
	Identifier              string
	CloudFormationPrimaryID string
}

// awsResourceRule maps one AWS SDK attribute to a resource type. resolve
// returns false when the attribute value cannot identify a resource.
type awsResourceRule struct {
	keys         []string
	resourceType string
	resolve      func(g *Generator, attrs pcommon.Map, value string) (id, cfnID string, ok bool)
}

// awsResourceRules are evaluated in order; the first present attribute
// wins.
var awsResourceRules = []awsResourceRule{
	{
		keys:         []string{appsignalsattr.AWSDynamoDBTableName, appsignalsattr.AWSDynamoDBTableNames},
		resourceType: "AWS::DynamoDB::Table",
		resolve:      escapedID,
	},
	{
		keys:         []string{appsignalsattr.AWSKinesisStreamName},
		resourceType: "AWS::Kinesis::Stream",
		resolve:      escapedID,
	},
	{
		keys:         []string{appsignalsattr.AWSS3Bucket},
		resourceType: "AWS::S3::Bucket",
		resolve:      escapedID,
	},
	{
		keys:         []string{appsignalsattr.AWSSQSQueueName},
		resourceType: "AWS::SQS::Queue",
		resolve:      sqsQueueName,
	},
	{
		keys:         []string{appsignalsattr.AWSSQSQueueURL},
		resourceType: "AWS::SQS::Queue",
		resolve:      sqsQueueURL,
	},
	{
		keys:         []string{appsignalsattr.AWSBedrockGuardrailID},
		resourceType: "AWS::Bedrock::Guardrail",
		resolve:      escapedID,
	},
	{
		keys:         []string{appsignalsattr.GenAIRequestModel},
		resourceType: "AWS::Bedrock::Model",
		resolve:      escapedID,
	},
	{
		keys:         []string{appsignalsattr.AWSBedrockAgentID},
		resourceType: "AWS::Bedrock::Agent",
		resolve:      escapedID,
	},
	{
		keys:         []string{appsignalsattr.AWSBedrockDataSourceID},
		resourceType: "AWS::Bedrock::DataSource",
		resolve:      bedrockDataSource,
	},
	{
		keys:         []string{appsignalsattr.AWSBedrockKnowledgeBaseID},
		resourceType: "AWS::Bedrock::KnowledgeBase",
		resolve:      escapedID,
	},
	{
		keys:         []string{appsignalsattr.AWSLambdaResourceMappingID},
		resourceType: "AWS::Lambda::EventSourceMapping",
		resolve:      escapedID,
	},
	{
		keys:         []string{appsignalsattr.AWSSecretsManagerSecretARN},
		resourceType: "AWS::SecretsManager::Secret",
		resolve:      arnSuffix,
	},
	{
		keys:         []string{appsignalsattr.AWSSNSTopicARN},
		resourceType: "AWS::SNS::Topic",
		resolve:      arnSuffix,
	},
	{
		keys:         []string{appsignalsattr.AWSStepFunctionsActivityARN},
		resourceType: "AWS::StepFunctions::Activity",
		resolve:      arnSuffix,
	},
	{
		keys:         []string{appsignalsattr.AWSStepFunctionsStateMachineARN},
		resourceType: "AWS::StepFunctions::StateMachine",
		resolve:      arnSuffix,
	},
}

func (g *Generator) remoteResource(span ptrace.Span) (RemoteResource, bool) {
	attrs := span.Attributes()
	if spanclassifier.IsAWSSDKSpan(span) {
		for _, rule := range awsResourceRules {
			value, ok := firstValue(attrs, rule.keys...)
			if !ok {
				continue
			}
			id, cfnID, ok := rule.resolve(g, attrs, value)
			if !ok {
				return RemoteResource{}, false
			}
			return RemoteResource{
				Type:                    rule.resourceType,
				Identifier:              id,
				CloudFormationPrimaryID: cfnID,
			}, true
		}
		return RemoteResource{}, false
	}
	if spanclassifier.IsDBSpan(span) {
		id, ok := g.dbConnection(attrs)
		if !ok {
			return RemoteResource{}, false
		}
		return RemoteResource{Type: DBConnectionResourceType, Identifier: id}, true
	}
	return RemoteResource{}, false
}

// firstValue returns the first present key rendered as a string. For
// slice values the first element is used.
func firstValue(attrs pcommon.Map, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := attrs.Get(k)
		if !ok {
			continue
		}
		if v.Type() == pcommon.ValueTypeSlice {
			if v.Slice().Len() == 0 {
				continue
			}
			v = v.Slice().At(0)
		}
		return v.AsString(), true
	}
	return "", false
}

func escapedID(_ *Generator, _ pcommon.Map, value string) (string, string, bool) {
	id := EscapeDelimiters(value)
	return id, id, true
}

func sqsQueueName(_ *Generator, attrs pcommon.Map, value string) (string, string, bool) {
	id := EscapeDelimiters(value)
	if queueURL, ok := attribute.GetStr(attrs, appsignalsattr.AWSSQSQueueURL); ok {
		return id, queueURL, true
	}
	return id, id, true
}

func sqsQueueURL(g *Generator, _ pcommon.Map, value string) (string, string, bool) {
	name, err := resourceparser.ParseSQSQueueName(value)
	if err != nil {
		g.debug("cannot derive SQS queue from url", zap.Error(err))
		return "", "", false
	}
	return EscapeDelimiters(name), value, true
}

func bedrockDataSource(_ *Generator, attrs pcommon.Map, value string) (string, string, bool) {
	id := EscapeDelimiters(value)
	if kb, ok := attribute.GetStr(attrs, appsignalsattr.AWSBedrockKnowledgeBaseID); ok {
		return id, EscapeDelimiters(kb) + "|" + id, true
	}
	return id, id, true
}

func arnSuffix(g *Generator, _ pcommon.Map, value string) (string, string, bool) {
	suffix, err := resourceparser.ARNSuffix(value)
	if err != nil {
		g.debug("cannot derive resource from arn", zap.Error(err))
		return "", "", false
	}
	return EscapeDelimiters(suffix), EscapeDelimiters(value), true
}

// dbAddressKeys lists the address and port attribute pairs a database
// server can be identified by, in priority order.
var dbAddressKeys = [][2]string{
	{string(semconv25.ServerAddressKey), string(semconv25.ServerPortKey)},
	{string(semconv25.NetPeerNameKey), string(semconv25.NetPeerPortKey)},
	{appsignalsattr.ServerSocketAddress, appsignalsattr.ServerSocketPort},
}

// dbConnection builds [db name|]host[|port] with every part escaped.
func (g *Generator) dbConnection(attrs pcommon.Map) (string, bool) {
	connection, ok := g.dbAddress(attrs)
	if !ok {
		return "", false
	}
	if name, ok := attribute.FirstStr(attrs, string(semconv25.DBNameKey), string(semconv37.DBNamespaceKey)); ok {
		connection = EscapeDelimiters(name) + "|" + connection
	}
	return connection, true
}

func (g *Generator) dbAddress(attrs pcommon.Map) (string, bool) {
	for _, keys := range dbAddressKeys {
		host, ok := attribute.GetStr(attrs, keys[0])
		if !ok {
			continue
		}
		conn := resourceparser.DBConnection{Host: EscapeDelimiters(host)}
		if port, ok := attribute.GetInt(attrs, keys[1]); ok {
			conn.Port = strconv.FormatInt(port, 10)
		}
		return conn.String(), true
	}
	cs, ok := attribute.GetStr(attrs, appsignalsattr.DBConnectionString)
	if !ok {
		return "", false
	}
	conn, err := resourceparser.ParseDBConnection(cs)
	if err != nil {
		g.debug("cannot derive db connection", zap.Error(err))
		return "", false
	}
	conn.Host = EscapeDelimiters(conn.Host)
	return conn.String(), true
}
