// Where: internal/compiler/kind_sns.go
// What: Pub/sub fan-out compiler.
// Why: Subscriptions need a topic (existing or created here), an invoke permission for
// the topic and, with a redrive policy, a queue policy letting the topic dead-letter.
package compiler

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/cfn"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
)

const (
	typeTopic        = "AWS::SNS::Topic"
	typeSubscription = "AWS::SNS::Subscription"
	typeQueuePolicy  = "AWS::SQS::QueuePolicy"

	principalTopic = "sns.amazonaws.com"
)

func compileTopic(p *pass, fn *model.Function) error {
	events := fn.TopicEvents()
	if len(events) == 0 {
		return nil
	}
	ep := p.targets.resolve(fn.Name, fn)
	for _, item := range events {
		ev := item.Event
		s := p.site(fn, model.KindTopic, item.Position)

		topicName := ev.TopicName
		var topicArn any
		if ev.ARN != nil {
			topicArn = ev.ARN.Template()
			if topicName == "" {
				derived, ok := ExtractName(*ev.ARN)
				if !ok {
					return s.fail(CodeMissingDerivableName, "cannot derive a topic name from %s; set topicName", ev.ARN)
				}
				topicName = derived
			}
		} else {
			if topicName == "" {
				return s.fail(CodeMissingDerivableName, "topic events need an arn or a topicName")
			}
			topicID := topicLogicalID(topicName)
			topic := &cfn.Resource{Type: typeTopic, Properties: map[string]any{"TopicName": topicName}}
			if ev.DisplayName != "" {
				topic.Properties["DisplayName"] = ev.DisplayName
			}
			if err := p.put(s, topicID, topic); err != nil {
				return err
			}
			topicArn = cfn.Ref(topicID)
		}

		subscriptionID := LogicalID(fn.Name, model.KindTopic, topicName)
		pr := props{
			"TopicArn": topicArn,
			"Protocol": "lambda",
			"Endpoint": ep.Target,
		}
		if len(ev.FilterPolicy) > 0 {
			pr["FilterPolicy"] = ev.FilterPolicy
		}
		pr.setString("FilterPolicyScope", ev.FilterPolicyScope)
		if ev.RedrivePolicy != nil {
			queueArn, queueURL, err := deadLetterQueue(s, ev.RedrivePolicy)
			if err != nil {
				return err
			}
			policyID := subscriptionID + "DLQPolicy"
			if err := p.put(s, policyID, deadLetterPolicy(policyID, queueArn, queueURL, topicArn)); err != nil {
				return err
			}
			pr["RedrivePolicy"] = map[string]any{"deadLetterTargetArn": queueArn}
		}

		subscription := &cfn.Resource{Type: typeSubscription, DependsOn: aliasDependency(ep), Properties: map[string]any(pr)}
		if err := p.put(s, subscriptionID, subscription); err != nil {
			return err
		}
		permissionID := topicPermissionLogicalID(fn.Name, topicName)
		if err := p.put(s, permissionID, invokePermission(ep, principalTopic, topicArn)); err != nil {
			return err
		}
	}
	return nil
}

// deadLetterQueue resolves the queue ARN and URL of a redrive target.
func deadLetterQueue(s site, policy *model.RedrivePolicy) (any, any, error) {
	switch {
	case policy.DeadLetterTargetARN != "":
		parsed, err := arn.Parse(policy.DeadLetterTargetARN)
		if err != nil || parsed.Service != "sqs" {
			return nil, nil, s.fail(CodeInvalidDeadLetter, "deadLetterTargetArn %q is not a queue ARN", policy.DeadLetterTargetARN)
		}
		return policy.DeadLetterTargetARN, queueURL(parsed), nil
	case policy.DeadLetterTargetRef != "":
		return cfn.GetAtt(policy.DeadLetterTargetRef, "Arn"), cfn.Ref(policy.DeadLetterTargetRef), nil
	case policy.DeadLetterTargetImport != nil && policy.DeadLetterTargetImport.ARN != "" && policy.DeadLetterTargetImport.URL != "":
		imported := policy.DeadLetterTargetImport
		return cfn.ImportValue(imported.ARN), cfn.ImportValue(imported.URL), nil
	default:
		return nil, nil, s.fail(CodeInvalidDeadLetter, "redrivePolicy needs deadLetterTargetArn, deadLetterTargetRef or deadLetterTargetImport")
	}
}

func queueURL(queue arn.ARN) string {
	domain := "amazonaws.com"
	if queue.Partition == "aws-cn" {
		domain = "amazonaws.com.cn"
	}
	return fmt.Sprintf("https://sqs.%s.%s/%s/%s", queue.Region, domain, queue.AccountID, queue.Resource)
}

func deadLetterPolicy(policyID string, queueArn, queueURL, topicArn any) *cfn.Resource {
	return &cfn.Resource{
		Type: typeQueuePolicy,
		Properties: map[string]any{
			"Queues": []any{queueURL},
			"PolicyDocument": map[string]any{
				"Version": cfn.PolicyVersion,
				"Id":      policyID,
				"Statement": []any{map[string]any{
					"Effect":    "Allow",
					"Principal": map[string]any{"Service": principalTopic},
					"Action":    "sqs:SendMessage",
					"Resource":  queueArn,
					"Condition": map[string]any{
						"ArnEquals": map[string]any{"aws:SourceArn": topicArn},
					},
				}},
			},
		},
	}
}
