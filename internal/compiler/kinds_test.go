// Where: internal/compiler/kinds_test.go
// What: Per-kind output tests.
// Why: Pin the resource shapes each kind emits.
package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/cfn"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
)

func compileOne(t *testing.T, fn model.Function) *Result {
	t.Helper()
	result, err := Compile(&model.Service{Functions: []model.Function{fn}}, baseWithRole(), Options{})
	require.NoError(t, err)
	return result
}

func TestStreamDynamoDBWithFailureDestination(t *testing.T) {
	streamARN := "arn:aws:dynamodb:us-east-1:111111111111:table/Orders/stream/2024-01-01T00:00:00.000"
	result := compileOne(t, model.Function{Name: "ingest", Events: []model.Event{{Kind: model.KindStream, Stream: &model.StreamEvent{
		ARN:                        model.Literal(streamARN),
		StartingPosition:           "LATEST",
		MaximumRetryAttempts:       intp(3),
		BisectBatchOnFunctionError: boolp(true),
		Destinations: &model.StreamDestinations{OnFailure: &model.FailureDestination{
			ARN: model.Literal("arn:aws:sqs:us-east-1:111111111111:ingest-dlq"),
		}},
	}}}})

	res := result.Template.Resources["IngestEventSourceMappingDynamodbOrders"]
	require.NotNil(t, res)
	assert.Equal(t, "LATEST", res.Properties["StartingPosition"])
	assert.Equal(t, 3, res.Properties["MaximumRetryAttempts"])
	assert.Equal(t, true, res.Properties["BisectBatchOnFunctionError"])
	assert.Equal(t, map[string]any{
		"OnFailure": map[string]any{"Destination": "arn:aws:sqs:us-east-1:111111111111:ingest-dlq"},
	}, res.Properties["DestinationConfig"])

	require.Len(t, result.Statements, 2)
	assert.Equal(t, []string{"dynamodb:GetRecords", "dynamodb:GetShardIterator", "dynamodb:DescribeStream", "dynamodb:ListStreams"}, result.Statements[0].Action)
	assert.Equal(t, []any{streamARN}, result.Statements[0].Resource)
	assert.Equal(t, []string{"sqs:ListQueues", "sqs:SendMessage"}, result.Statements[1].Action)
}

func TestStreamTimestampPosition(t *testing.T) {
	result := compileOne(t, model.Function{Name: "ingest", Events: []model.Event{{Kind: model.KindStream, Stream: &model.StreamEvent{
		ARN:                       model.Literal("arn:aws:kinesis:us-east-1:111111111111:stream/clicks"),
		StartingPosition:          model.PositionAtTimestamp,
		StartingPositionTimestamp: floatp(1700000000),
	}}}})
	res := result.Template.Resources["IngestEventSourceMappingKinesisClicks"]
	assert.Equal(t, 1700000000.0, res.Properties["StartingPositionTimestamp"])
}

func TestStreamDedicatedConsumer(t *testing.T) {
	streamARN := "arn:aws:kinesis:us-east-1:111111111111:stream/clicks"
	result := compileOne(t, model.Function{Name: "ingest", Events: []model.Event{{Kind: model.KindStream, Stream: &model.StreamEvent{
		ARN:      model.Literal(streamARN),
		Consumer: model.StreamConsumer{Dedicated: true},
	}}}})

	consumer := result.Template.Resources["IngestClicksStreamConsumer"]
	require.NotNil(t, consumer)
	assert.Equal(t, "AWS::Kinesis::StreamConsumer", consumer.Type)
	assert.Equal(t, streamARN, consumer.Properties["StreamARN"])

	res := result.Template.Resources["IngestEventSourceMappingKinesisClicks"]
	assert.Equal(t, cfn.Ref("IngestClicksStreamConsumer"), res.Properties["EventSourceArn"])
	assert.Equal(t, cfn.DependsOn{DefaultExecutionRole, "IngestClicksStreamConsumer"}, res.DependsOn)

	require.Len(t, result.Statements, 2)
	assert.Contains(t, result.Statements[0].Action, "kinesis:GetRecords")
	assert.Equal(t, []any{cfn.Ref("IngestClicksStreamConsumer")}, result.Statements[1].Resource)
}

func TestStreamTypeRequired(t *testing.T) {
	_, err := Compile(&model.Service{Functions: []model.Function{{Name: "ingest", Events: []model.Event{{Kind: model.KindStream, Stream: &model.StreamEvent{
		ARN: model.GetAtt("ClicksStream", "Arn"),
	}}}}}}, nil, Options{})
	requireCode(t, err, CodeStreamTypeRequired, "ingest")
}

func TestStreamFailureDestinationTypeRequired(t *testing.T) {
	_, err := Compile(&model.Service{Functions: []model.Function{{Name: "ingest", Events: []model.Event{{Kind: model.KindStream, Stream: &model.StreamEvent{
		ARN:  model.GetAtt("ClicksStream", "Arn"),
		Type: "kinesis",
		Destinations: &model.StreamDestinations{OnFailure: &model.FailureDestination{
			ARN: model.GetAtt("FailureQueue", "Arn"),
		}},
	}}}}}}, nil, Options{})
	requireCode(t, err, CodeFailureTypeRequired, "ingest")
}

func TestKafkaCredentials(t *testing.T) {
	result := compileOne(t, model.Function{Name: "worker", Events: []model.Event{{Kind: model.KindKafka, Kafka: &model.KafkaEvent{
		Topic:            "orders",
		BootstrapServers: []string{"b1:9092"},
		ConsumerGroupID:  "workers",
		AccessConfigurations: model.KafkaAccess{
			SASLScram512Auth:        []model.Reference{model.Literal("arn:aws:secretsmanager:us-east-1:111111111111:secret:scram")},
			ServerRootCACertificate: []model.Reference{model.Ref("RootCA")},
		},
		ProvisionedPollerConfig: &model.PollerConfig{MinimumPollers: intp(1), MaximumPollers: intp(2)},
	}}}})

	res := result.Template.Resources["WorkerEventSourceMappingKafkaOrders"]
	require.NotNil(t, res)
	assert.Equal(t, []any{
		map[string]any{"Type": "SASL_SCRAM_512_AUTH", "URI": "arn:aws:secretsmanager:us-east-1:111111111111:secret:scram"},
		map[string]any{"Type": "SERVER_ROOT_CA_CERTIFICATE", "URI": map[string]any{"Ref": "RootCA"}},
	}, res.Properties["SourceAccessConfigurations"])
	assert.Equal(t, map[string]any{"ConsumerGroupId": "workers"}, res.Properties["SelfManagedKafkaEventSourceConfig"])
	assert.Equal(t, map[string]any{"MinimumPollers": 1, "MaximumPollers": 2}, res.Properties["ProvisionedPollerConfig"])

	require.Len(t, result.Statements, 1)
	assert.Equal(t, []string{"secretsmanager:GetSecretValue"}, result.Statements[0].Action)
	assert.Len(t, result.Statements[0].Resource, 2)
}

func TestMSKMapping(t *testing.T) {
	clusterARN := "arn:aws:kafka:us-east-1:111111111111:cluster/payments/abcd-1234"
	secret := model.Literal("arn:aws:secretsmanager:us-east-1:111111111111:secret:AmazonMSK_payments")
	result := compileOne(t, model.Function{Name: "worker", Events: []model.Event{{Kind: model.KindMSK, MSK: &model.MSKEvent{
		ARN:          model.Literal(clusterARN),
		Topic:        "ledger",
		SASLScram512: &secret,
	}}}})

	res := result.Template.Resources["WorkerEventSourceMappingMSKPaymentsLedger"]
	require.NotNil(t, res)
	assert.Equal(t, clusterARN, res.Properties["EventSourceArn"])
	assert.Equal(t, []any{"ledger"}, res.Properties["Topics"])

	require.Len(t, result.Statements, 3)
	assert.Equal(t, []string{"kafka:DescribeCluster", "kafka:DescribeClusterV2", "kafka:GetBootstrapBrokers"}, result.Statements[0].Action)
	assert.Equal(t, []any{"*"}, result.Statements[1].Resource)
	assert.Equal(t, []any{secret.Literal}, result.Statements[2].Resource)
}

func TestMQMappings(t *testing.T) {
	broker := "arn:aws:mq:us-east-1:111111111111:broker:jobs:b-1234"
	auth := model.Literal("arn:aws:secretsmanager:us-east-1:111111111111:secret:mq")
	result := compileOne(t, model.Function{Name: "worker", Events: []model.Event{
		{Kind: model.KindMQ, MQ: &model.MQEvent{Protocol: model.ProtocolActiveMQ, ARN: model.Literal(broker), Queue: "jobs", BasicAuthARN: auth}},
		{Kind: model.KindMQ, MQ: &model.MQEvent{Protocol: model.ProtocolRabbitMQ, ARN: model.Literal(broker), Queue: "jobs", BasicAuthARN: auth, VirtualHost: "/prod"}},
	}})

	active := result.Template.Resources["WorkerEventSourceMappingActiveMQJobs"]
	rabbit := result.Template.Resources["WorkerEventSourceMappingRabbitMQJobs"]
	require.NotNil(t, active)
	require.NotNil(t, rabbit)
	assert.Len(t, active.Properties["SourceAccessConfigurations"], 1)
	assert.Equal(t, []any{
		map[string]any{"Type": "BASIC_AUTH", "URI": auth.Literal},
		map[string]any{"Type": "VIRTUAL_HOST", "URI": "/prod"},
	}, rabbit.Properties["SourceAccessConfigurations"])

	require.Len(t, result.Statements, 3)
	assert.Equal(t, []any{auth.Literal}, result.Statements[0].Resource)
	assert.Equal(t, []string{"mq:DescribeBroker"}, result.Statements[1].Action)
	assert.Equal(t, []any{"*"}, result.Statements[2].Resource)
}

func TestTopicNewAndExisting(t *testing.T) {
	existing := model.Literal("arn:aws:sns:us-east-1:111111111111:billing")
	result := compileOne(t, model.Function{Name: "alerts", Alias: "live", Events: []model.Event{
		{Kind: model.KindTopic, Topic: &model.TopicEvent{TopicName: "pager", DisplayName: "Pager"}},
		{Kind: model.KindTopic, Topic: &model.TopicEvent{
			ARN:               &existing,
			FilterPolicy:      map[string]any{"severity": []any{"high"}},
			FilterPolicyScope: "MessageAttributes",
		}},
	}})
	doc := result.Template

	topic := doc.Resources["SNSTopicPager"]
	require.NotNil(t, topic)
	assert.Equal(t, map[string]any{"TopicName": "pager", "DisplayName": "Pager"}, topic.Properties)

	sub := doc.Resources["AlertsSnsSubscriptionPager"]
	require.NotNil(t, sub)
	assert.Equal(t, cfn.Ref("SNSTopicPager"), sub.Properties["TopicArn"])
	assert.Equal(t, "lambda", sub.Properties["Protocol"])
	assert.Equal(t, cfn.DependsOn{"AlertsAliasLive"}, sub.DependsOn)

	perm := doc.Resources["AlertsLambdaPermissionPagerSNS"]
	require.NotNil(t, perm)
	assert.Equal(t, "sns.amazonaws.com", perm.Properties["Principal"])
	assert.Equal(t, cfn.Ref("SNSTopicPager"), perm.Properties["SourceArn"])

	billing := doc.Resources["AlertsSnsSubscriptionBilling"]
	require.NotNil(t, billing)
	assert.Equal(t, existing.Literal, billing.Properties["TopicArn"])
	assert.Equal(t, "MessageAttributes", billing.Properties["FilterPolicyScope"])
	assert.False(t, doc.Has("SNSTopicBilling"))
	assert.Empty(t, result.Statements)
}

func TestTopicDeadLetterPolicies(t *testing.T) {
	tests := []struct {
		name     string
		policy   *model.RedrivePolicy
		queueArn any
		queueURL any
	}{
		{
			name:     "literal arn",
			policy:   &model.RedrivePolicy{DeadLetterTargetARN: "arn:aws:sqs:us-east-1:111111111111:alerts-dlq"},
			queueArn: "arn:aws:sqs:us-east-1:111111111111:alerts-dlq",
			queueURL: "https://sqs.us-east-1.amazonaws.com/111111111111/alerts-dlq",
		},
		{
			name:     "china partition",
			policy:   &model.RedrivePolicy{DeadLetterTargetARN: "arn:aws-cn:sqs:cn-north-1:111111111111:alerts-dlq"},
			queueArn: "arn:aws-cn:sqs:cn-north-1:111111111111:alerts-dlq",
			queueURL: "https://sqs.cn-north-1.amazonaws.com.cn/111111111111/alerts-dlq",
		},
		{
			name:     "template queue",
			policy:   &model.RedrivePolicy{DeadLetterTargetRef: "AlertsDLQ"},
			queueArn: cfn.GetAtt("AlertsDLQ", "Arn"),
			queueURL: cfn.Ref("AlertsDLQ"),
		},
		{
			name:     "imported queue",
			policy:   &model.RedrivePolicy{DeadLetterTargetImport: &model.ImportedQueue{ARN: "dlq-arn", URL: "dlq-url"}},
			queueArn: cfn.ImportValue("dlq-arn"),
			queueURL: cfn.ImportValue("dlq-url"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := compileOne(t, model.Function{Name: "alerts", Events: []model.Event{
				{Kind: model.KindTopic, Topic: &model.TopicEvent{TopicName: "pager", RedrivePolicy: tt.policy}},
			}})
			policy := result.Template.Resources["AlertsSnsSubscriptionPagerDLQPolicy"]
			require.NotNil(t, policy)
			assert.Equal(t, "AWS::SQS::QueuePolicy", policy.Type)
			assert.Equal(t, []any{tt.queueURL}, policy.Properties["Queues"])
			statement := policy.Properties["PolicyDocument"].(map[string]any)["Statement"].([]any)[0].(map[string]any)
			assert.Equal(t, tt.queueArn, statement["Resource"])
			assert.Equal(t, map[string]any{"ArnEquals": map[string]any{"aws:SourceArn": cfn.Ref("SNSTopicPager")}}, statement["Condition"])

			sub := result.Template.Resources["AlertsSnsSubscriptionPager"]
			assert.Equal(t, map[string]any{"deadLetterTargetArn": tt.queueArn}, sub.Properties["RedrivePolicy"])
		})
	}
}

func TestTopicInvalidDeadLetter(t *testing.T) {
	_, err := Compile(&model.Service{Functions: []model.Function{{Name: "alerts", Events: []model.Event{
		{Kind: model.KindTopic, Topic: &model.TopicEvent{TopicName: "pager", RedrivePolicy: &model.RedrivePolicy{DeadLetterTargetARN: "arn:aws:sns:us-east-1:1:not-a-queue"}}},
	}}}}, nil, Options{})
	requireCode(t, err, CodeInvalidDeadLetter, "alerts")
}

func TestRuleSequenceNumbers(t *testing.T) {
	result := compileOne(t, model.Function{Name: "telemetry", Events: []model.Event{
		{Kind: model.KindRule, Rule: &model.RuleEvent{SQL: "SELECT * FROM 'a'"}},
		queue(ordersQueueARN),
		{Kind: model.KindRule, Rule: &model.RuleEvent{SQL: "SELECT * FROM 'b'", SQLVersion: "2016-03-23", Name: "b_rule", Enabled: boolp(false)}},
	}})
	doc := result.Template

	first := doc.Resources["TelemetryIotTopicRule1"]
	second := doc.Resources["TelemetryIotTopicRule2"]
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, "b_rule", second.Properties["RuleName"])
	payload := second.Properties["TopicRulePayload"].(map[string]any)
	assert.Equal(t, true, payload["RuleDisabled"])
	assert.Equal(t, "2016-03-23", payload["AwsIotSqlVersion"])
	assert.Equal(t, []any{map[string]any{"Lambda": map[string]any{"FunctionArn": cfn.GetAtt("TelemetryLambdaFunction", "Arn")}}}, payload["Actions"])

	perm := doc.Resources["TelemetryLambdaPermissionIotTopicRule2"]
	require.NotNil(t, perm)
	assert.Equal(t, "iot.amazonaws.com", perm.Properties["Principal"])
	assert.Equal(t, cfn.ARN("iot", "rule/", cfn.Ref("TelemetryIotTopicRule2")), perm.Properties["SourceArn"])
}
