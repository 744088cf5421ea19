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
	"net/url"

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

const graphQLService = "graphql"

// normalizedServiceNames maps AWS SDK v1 and v2 client names to their
// canonical form.
var normalizedServiceNames = map[string]string{
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
}

// NormalizeServiceName returns the canonical AWS::<Service> name for an
// AWS SDK client name.
func NormalizeServiceName(name string) string {
	if normalized, ok := normalizedServiceNames[name]; ok {
		return normalized
	}
	return "AWS::" + name
}

// remoteServiceAndOperation applies the remote attribute precedence: the
// first pair with either key present decides both values.
func (g *Generator) remoteServiceAndOperation(span ptrace.Span) (string, string) {
	attrs := span.Attributes()
	service := appsignalsattr.UnknownRemoteService
	operation := appsignalsattr.UnknownRemoteOperation

	switch {
	case attribute.HasAny(attrs, appsignalsattr.AWSRemoteService, appsignalsattr.AWSRemoteOperation):
		service = remoteService(attrs, appsignalsattr.AWSRemoteService)
		operation = remoteOperation(attrs, appsignalsattr.AWSRemoteOperation)
	case attribute.HasAny(attrs, string(semconv25.RPCServiceKey), string(semconv25.RPCMethodKey)):
		service = normalizeRemoteService(span, remoteService(attrs, string(semconv25.RPCServiceKey)))
		operation = remoteOperation(attrs, string(semconv25.RPCMethodKey))
	case attribute.HasAny(attrs, appsignalsattr.AWSServiceName, appsignalsattr.AWSOperationName):
		service = normalizeRemoteService(span, remoteService(attrs, appsignalsattr.AWSServiceName))
		operation = remoteOperation(attrs, appsignalsattr.AWSOperationName)
	case spanclassifier.IsDBSpan(span):
		service = remoteService(attrs, string(semconv25.DBSystemKey), string(semconv37.DBSystemNameKey))
		if attribute.HasAny(attrs, appsignalsattr.DBOperation, string(semconv37.DBOperationNameKey)) {
			operation = remoteOperation(attrs, appsignalsattr.DBOperation, string(semconv37.DBOperationNameKey))
		} else {
			statement, _ := attribute.FirstStr(attrs, string(semconv25.DBStatementKey), string(semconv37.DBQueryTextKey))
			operation = g.keywords.Match(statement)
		}
	case attribute.HasAny(attrs, string(semconv25.FaaSInvokedNameKey), string(semconv25.FaaSTriggerKey)):
		service = remoteService(attrs, string(semconv25.FaaSInvokedNameKey))
		operation = remoteOperation(attrs, string(semconv25.FaaSTriggerKey))
	case attribute.HasAny(attrs, string(semconv25.MessagingSystemKey), string(semconv25.MessagingOperationKey)):
		service = remoteService(attrs, string(semconv25.MessagingSystemKey))
		operation = remoteOperation(attrs, string(semconv25.MessagingOperationKey))
	case attribute.Has(attrs, string(semconv25.GraphqlOperationTypeKey)):
		service = graphQLService
		operation = remoteOperation(attrs, string(semconv25.GraphqlOperationTypeKey))
	}

	// peer.service is a manual signal and only yields to aws.remote.service.
	if !attribute.Has(attrs, appsignalsattr.AWSRemoteService) {
		if peer, ok := attribute.GetStr(attrs, string(semconv25.PeerServiceKey)); ok {
			service = peer
		}
	}

	if service == appsignalsattr.UnknownRemoteService {
		service = g.generateRemoteService(span)
	}
	if operation == appsignalsattr.UnknownRemoteOperation {
		operation = g.generateRemoteOperation(span)
	}
	return service, operation
}

func remoteService(attrs pcommon.Map, keys ...string) string {
	if v, ok := attribute.FirstStr(attrs, keys...); ok {
		return v
	}
	return appsignalsattr.UnknownRemoteService
}

func remoteOperation(attrs pcommon.Map, keys ...string) string {
	if v, ok := attribute.FirstStr(attrs, keys...); ok {
		return v
	}
	return appsignalsattr.UnknownRemoteOperation
}

func normalizeRemoteService(span ptrace.Span, service string) string {
	if !spanclassifier.IsAWSSDKSpan(span) {
		return service
	}
	return NormalizeServiceName(service)
}

// generateRemoteService falls back to the network peer, then to the host
// of the request URL.
func (g *Generator) generateRemoteService(span ptrace.Span) string {
	attrs := span.Attributes()
	if name, ok := attribute.GetStr(attrs, string(semconv25.NetPeerNameKey)); ok {
		return withPort(attrs, name, string(semconv25.NetPeerPortKey))
	}
	if addr, ok := attribute.GetStr(attrs, appsignalsattr.NetSockPeerAddr); ok {
		return withPort(attrs, addr, appsignalsattr.NetSockPeerPort)
	}
	if u, ok := g.fullURL(attrs); ok && u.Hostname() != "" {
		port := u.Port()
		if port == "" {
			var known bool
			if port, known = resourceparser.DefaultPort(u.Scheme); !known {
				port = "80"
			}
		}
		return u.Hostname() + ":" + port
	}
	g.debugUnknown(appsignalsattr.AWSRemoteService, span)
	return appsignalsattr.UnknownRemoteService
}

// generateRemoteOperation names the operation after the method and the
// first path segment of the request URL.
func (g *Generator) generateRemoteOperation(span ptrace.Span) string {
	attrs := span.Attributes()
	u, ok := g.fullURL(attrs)
	if !ok {
		g.debugUnknown(appsignalsattr.AWSRemoteOperation, span)
		return appsignalsattr.UnknownRemoteOperation
	}
	operation := spanclassifier.ExtractAPIPathValue(u.Path)
	if method, ok := spanclassifier.HTTPMethod(attrs); ok {
		operation = method + " " + operation
	}
	return operation
}

func (g *Generator) fullURL(attrs pcommon.Map) (*url.URL, bool) {
	raw, ok := attribute.FirstStr(attrs, string(semconv25.URLFullKey), string(semconv25.HTTPURLKey))
	if !ok {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		g.debug("invalid url attribute", zap.String("url", raw), zap.Error(err))
		return nil, false
	}
	return u, true
}

func withPort(attrs pcommon.Map, host, portKey string) string {
	if port, ok := attribute.GetStr(attrs, portKey); ok {
		return host + ":" + port
	}
	return host
}
