// Where: internal/infra/servicedoc/loader_test.go
// What: Tests for service document loading.
package servicedoc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/infra/schema"
)

const fullDocument = `
service: shop
functions:
  zeta:
    role: !GetAtt WorkerRole.Arn
    alias: live
    events:
      - sqs: arn:aws:sqs:us-east-1:111111111111:orders
      - sqs:
          arn: !GetAtt AuditQueue.Arn
          batchSize: 5
          filterPatterns:
            - body:
                kind: [order]
      - stream:
          arn: arn:aws:kinesis:us-east-1:111111111111:stream/clicks
          consumer: true
          startingPosition: AT_TIMESTAMP
          startingPositionTimestamp: 1700000000
          destinations:
            onFailure: arn:aws:sns:us-east-1:111111111111:failures
  alpha:
    events:
      - kafka:
          bootstrapServers: [b1:9092, b2:9092]
          topic: orders
          accessConfigurations:
            saslScram512Auth: [!Ref KafkaSecret]
          provisionedPollerConfig:
            minimumPollers: 1
            maximumPollers: 3
      - msk:
          arn: arn:aws:kafka:us-east-1:111111111111:cluster/payments/abcd
          topic: ledger
      - rabbitmq:
          arn: arn:aws:mq:us-east-1:111111111111:broker:jobs:b-1
          queue: jobs
          basicAuthArn: arn:aws:secretsmanager:us-east-1:111111111111:secret:mq
          virtualHost: /prod
      - sns: arn:aws:sns:us-east-1:111111111111:billing
      - sns: pager
      - iot:
          sql: "SELECT * FROM 'sensors'"
          enabled: false
`

func TestParseFullDocument(t *testing.T) {
	result, err := Parse([]byte(fullDocument))
	require.NoError(t, err)
	svc := result.Service
	assert.Equal(t, "shop", svc.Name)
	require.Len(t, svc.Functions, 2)
	assert.Equal(t, "zeta", svc.Functions[0].Name)
	assert.Equal(t, "alpha", svc.Functions[1].Name)

	zeta := svc.Functions[0]
	require.NotNil(t, zeta.Role)
	assert.Equal(t, model.GetAtt("WorkerRole", "Arn"), *zeta.Role)
	assert.Equal(t, "live", zeta.Alias)
	require.Len(t, zeta.Events, 3)

	first := zeta.Events[0]
	assert.Equal(t, model.KindQueue, first.Kind)
	assert.Equal(t, model.Literal("arn:aws:sqs:us-east-1:111111111111:orders"), first.Queue.ARN)

	second := zeta.Events[1].Queue
	assert.Equal(t, model.GetAtt("AuditQueue", "Arn"), second.ARN)
	require.NotNil(t, second.BatchSize)
	assert.Equal(t, 5, *second.BatchSize)
	assert.Len(t, second.FilterPatterns, 1)

	stream := zeta.Events[2].Stream
	assert.True(t, stream.Consumer.Dedicated)
	require.NotNil(t, stream.StartingPositionTimestamp)
	assert.Equal(t, 1700000000.0, *stream.StartingPositionTimestamp)
	require.NotNil(t, stream.Destinations)
	assert.Equal(t, model.Literal("arn:aws:sns:us-east-1:111111111111:failures"), stream.Destinations.OnFailure.ARN)

	alpha := svc.Functions[1]
	require.Len(t, alpha.Events, 6)
	kafka := alpha.Events[0].Kafka
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, kafka.BootstrapServers)
	assert.Equal(t, []model.Reference{model.Ref("KafkaSecret")}, kafka.AccessConfigurations.SASLScram512Auth)
	require.NotNil(t, kafka.ProvisionedPollerConfig)
	assert.Equal(t, 3, *kafka.ProvisionedPollerConfig.MaximumPollers)

	assert.Equal(t, "ledger", alpha.Events[1].MSK.Topic)

	mq := alpha.Events[2].MQ
	assert.Equal(t, model.KindMQ, alpha.Events[2].Kind)
	assert.Equal(t, model.ProtocolRabbitMQ, mq.Protocol)
	assert.Equal(t, "/prod", mq.VirtualHost)

	existing := alpha.Events[3].Topic
	require.NotNil(t, existing.ARN)
	assert.Equal(t, "arn:aws:sns:us-east-1:111111111111:billing", existing.ARN.Literal)
	assert.Equal(t, "pager", alpha.Events[4].Topic.TopicName)
	assert.Nil(t, alpha.Events[4].Topic.ARN)

	rule := alpha.Events[5].Rule
	assert.Equal(t, "SELECT * FROM 'sensors'", rule.SQL)
	require.NotNil(t, rule.Enabled)
	assert.False(t, *rule.Enabled)

	assert.Empty(t, result.Warnings)
}

func TestParseConsumerReference(t *testing.T) {
	result, err := Parse([]byte(`
functions:
  worker:
    events:
      - stream:
          arn: arn:aws:kinesis:us-east-1:111111111111:stream/clicks
          consumer: arn:aws:kinesis:us-east-1:111111111111:stream/clicks/consumer/existing:1
`))
	require.NoError(t, err)
	consumer := result.Service.Functions[0].Events[0].Stream.Consumer
	assert.False(t, consumer.Dedicated)
	require.NotNil(t, consumer.ARN)
	assert.Equal(t, "arn:aws:kinesis:us-east-1:111111111111:stream/clicks/consumer/existing:1", consumer.ARN.Literal)
}

func TestParseWarnings(t *testing.T) {
	result, err := Parse([]byte(`
functions:
  idle: {}
  ingest:
    events:
      - stream:
          arn: arn:aws:dynamodb:us-east-1:111111111111:table/Orders/stream/1
          consumer: true
`))
	require.NoError(t, err)
	assert.Equal(t, []string{
		`function "idle" declares no events`,
		`function "ingest" event #1: consumer applies to kinesis streams only and is ignored`,
	}, result.Warnings)
}

func TestParseRejectsInvalidShape(t *testing.T) {
	_, err := Parse([]byte(`
functions:
  worker:
    events:
      - kafka:
          topic: orders
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrInvalid))
}

func TestParseRejectsEmptyAndBrokenDocuments(t *testing.T) {
	_, err := Parse([]byte("  \n"))
	assert.ErrorIs(t, err, errEmptyDocument)

	_, err = Parse([]byte("functions: [unterminated"))
	assert.Error(t, err)
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.yml")
	require.NoError(t, os.WriteFile(path, []byte("functions:\n  worker:\n    events:\n      - sns: alerts\n"), 0o600))
	result, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alerts", result.Service.Functions[0].Events[0].Topic.TopicName)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
