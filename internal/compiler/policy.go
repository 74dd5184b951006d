// Where: internal/compiler/policy.go
// What: Execution permission aggregation.
// Why: One statement per permission class keeps the role policy small and stable; the
// statement list is flushed into the role once per pass.
package compiler

import (
	"encoding/json"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/cfn"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
)

// permissionClass groups actions granted together on a set of resources.
type permissionClass string

const (
	classQueueConsume     permissionClass = "queue-consume"
	classDynamoDBRead     permissionClass = "dynamodb-read"
	classKinesisRead      permissionClass = "kinesis-read"
	classKinesisConsumer  permissionClass = "kinesis-consumer"
	classFailureTopic     permissionClass = "failure-topic"
	classFailureQueue     permissionClass = "failure-queue"
	classNetworkInterface permissionClass = "network-interface"
	classSecretRead       permissionClass = "secret-read"
	classClusterAccess    permissionClass = "cluster-access"
	classBrokerDescribe   permissionClass = "broker-describe"
)

var classActions = map[permissionClass][]string{
	classQueueConsume: {"sqs:ReceiveMessage", "sqs:DeleteMessage", "sqs:GetQueueAttributes"},
	classDynamoDBRead: {"dynamodb:GetRecords", "dynamodb:GetShardIterator", "dynamodb:DescribeStream", "dynamodb:ListStreams"},
	classKinesisRead: {
		"kinesis:GetRecords", "kinesis:GetShardIterator", "kinesis:DescribeStream",
		"kinesis:DescribeStreamSummary", "kinesis:ListShards", "kinesis:ListStreams",
	},
	classKinesisConsumer: {"kinesis:SubscribeToShard", "kinesis:DescribeStreamConsumer"},
	classFailureTopic:    {"sns:Publish"},
	classFailureQueue:    {"sqs:ListQueues", "sqs:SendMessage"},
	classNetworkInterface: {
		"ec2:CreateNetworkInterface", "ec2:DescribeNetworkInterfaces", "ec2:DescribeVpcs",
		"ec2:DeleteNetworkInterface", "ec2:DescribeSubnets", "ec2:DescribeSecurityGroups",
	},
	classSecretRead:     {"secretsmanager:GetSecretValue"},
	classClusterAccess:  {"kafka:DescribeCluster", "kafka:DescribeClusterV2", "kafka:GetBootstrapBrokers"},
	classBrokerDescribe: {"mq:DescribeBroker"},
}

// classOrder fixes the flush order of classes within a kind.
var classOrder = map[model.Kind][]permissionClass{
	model.KindQueue:  {classQueueConsume},
	model.KindStream: {classDynamoDBRead, classKinesisRead, classKinesisConsumer, classFailureTopic, classFailureQueue},
	model.KindKafka:  {classNetworkInterface, classSecretRead},
	model.KindMSK:    {classClusterAccess, classNetworkInterface, classSecretRead},
	model.KindMQ:     {classSecretRead, classBrokerDescribe, classNetworkInterface},
}

type permissionKey struct {
	kind  model.Kind
	class permissionClass
}

type grant struct {
	resources []any
	seen      map[string]struct{}
}

// Aggregator collects permission grants for one pass.
type Aggregator struct {
	grants map[permissionKey]*grant
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{grants: map[permissionKey]*grant{}}
}

// Add grants class actions on resources. Resources already granted for the same class
// are ignored.
func (a *Aggregator) Add(kind model.Kind, class permissionClass, resources ...any) {
	key := permissionKey{kind: kind, class: class}
	g, ok := a.grants[key]
	if !ok {
		g = &grant{seen: map[string]struct{}{}}
		a.grants[key] = g
	}
	for _, res := range resources {
		id := resourceKey(res)
		if _, dup := g.seen[id]; dup {
			continue
		}
		g.seen[id] = struct{}{}
		g.resources = append(g.resources, res)
	}
}

// Statements returns one statement per granted class in kind order.
func (a *Aggregator) Statements() []cfn.Statement {
	var out []cfn.Statement
	for _, kind := range model.Kinds {
		for _, class := range classOrder[kind] {
			g, ok := a.grants[permissionKey{kind: kind, class: class}]
			if !ok || len(g.resources) == 0 {
				continue
			}
			out = append(out, cfn.Statement{
				Effect:   "Allow",
				Action:   append([]string(nil), classActions[class]...),
				Resource: append([]any(nil), g.resources...),
			})
		}
	}
	return out
}

func resourceKey(res any) string {
	if s, ok := res.(string); ok {
		return s
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return ""
	}
	return string(payload)
}
