// Where: internal/infra/schema/registry_test.go
// What: Tests for service document shape validation.
package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, doc string) any {
	t.Helper()
	var out any
	require.NoError(t, json.Unmarshal([]byte(doc), &out))
	return out
}

func TestValidateAcceptsEveryKind(t *testing.T) {
	doc := decode(t, `{
	  "service": "shop",
	  "functions": {
	    "worker": {
	      "alias": "live",
	      "events": [
	        {"sqs": "arn:aws:sqs:us-east-1:111111111111:orders"},
	        {"sqs": {"arn": {"Fn::GetAtt": ["Queue", "Arn"]}, "batchSize": 5}},
	        {"stream": {"arn": "arn:aws:kinesis:us-east-1:1:stream/clicks", "consumer": true}},
	        {"kafka": {"bootstrapServers": ["b1:9092"], "topic": "orders",
	                   "accessConfigurations": {"vpcSubnet": ["subnet-1"], "vpcSecurityGroup": ["sg-1"]}}},
	        {"msk": {"arn": "arn:aws:kafka:us-east-1:1:cluster/payments/x", "topic": "ledger"}},
	        {"activemq": {"arn": "arn:aws:mq:us-east-1:1:broker:b:x", "queue": "jobs", "basicAuthArn": "secret"}},
	        {"rabbitmq": {"arn": "arn:aws:mq:us-east-1:1:broker:b:x", "queue": "jobs", "basicAuthArn": "secret", "virtualHost": "/"}},
	        {"sns": "alerts"},
	        {"sns": {"topicName": "pager", "redrivePolicy": {"deadLetterTargetRef": "DLQ"}}},
	        {"iot": {"sql": "SELECT * FROM 'a'", "sqlVersion": "2016-03-23"}}
	      ]
	    }
	  }
	}`)
	assert.NoError(t, Validate(doc))
}

func TestValidateReportsPaths(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{name: "missing functions", doc: `{"service": "shop"}`, path: "/"},
		{name: "unknown kind", doc: `{"functions": {"f": {"events": [{"http": {}}]}}}`, path: "/functions/f/events/0"},
		{name: "two kinds in one event", doc: `{"functions": {"f": {"events": [{"sqs": "a", "sns": "b"}]}}}`, path: "/functions/f/events/0"},
		{name: "kafka without topic", doc: `{"functions": {"f": {"events": [{"kafka": {"bootstrapServers": ["b"]}}]}}}`, path: "/functions/f/events/0/kafka"},
		{name: "batch size type", doc: `{"functions": {"f": {"events": [{"sqs": {"arn": "a", "batchSize": "ten"}}]}}}`, path: "/functions/f/events/0/sqs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(decode(t, tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))

			var schemaErr *Error
			require.True(t, errors.As(err, &schemaErr))
			require.NotEmpty(t, schemaErr.Violations)
			found := false
			for _, v := range schemaErr.Violations {
				if len(v.Path) >= len(tt.path) && v.Path[:len(tt.path)] == tt.path {
					found = true
				}
			}
			assert.True(t, found, "no violation under %s in %v", tt.path, schemaErr.Violations)
		})
	}
}

func TestValidateLeavesRangeChecksToCompiler(t *testing.T) {
	doc := decode(t, `{"functions": {"f": {"events": [{"sqs": {"arn": "a", "batchSize": 20000}}]}}}`)
	assert.NoError(t, Validate(doc))
}
