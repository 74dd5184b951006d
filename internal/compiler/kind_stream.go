// Where: internal/compiler/kind_stream.go
// What: Change-stream source compiler (DynamoDB and Kinesis).
// Why: Streams add starting positions, consumers and failure routing on top of the
// shared mapping settings.
package compiler

import (
	"strings"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/cfn"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/value"
)

const typeStreamConsumer = "AWS::Kinesis::StreamConsumer"

func compileStream(p *pass, fn *model.Function) error {
	events := fn.StreamEvents()
	if len(events) == 0 {
		return nil
	}
	ep := p.targets.resolve(fn.Name, fn)
	for _, item := range events {
		ev := item.Event
		s := p.site(fn, model.KindStream, item.Position)
		if err := s.checkBatching(ev.Batching); err != nil {
			return err
		}
		streamType, err := s.streamType(ev)
		if err != nil {
			return err
		}
		position, err := s.startingPosition(ev.StartingPosition, ev.StartingPositionTimestamp)
		if err != nil {
			return err
		}
		name := ev.StreamName
		if name == "" {
			derived, ok := resourceName(ev.ARN)
			if !ok {
				return s.fail(CodeMissingDerivableName, "cannot derive a stream name from %s; set streamName", ev.ARN)
			}
			name = derived
		}

		source := ev.ARN.Template()
		deps := p.dependencies(fn, ep)
		pr := props{
			"BatchSize":        value.IntOr(ev.BatchSize, defaultBatchSize),
			"EventSourceArn":   source,
			"FunctionName":     ep.Target,
			"StartingPosition": position,
			"Enabled":          value.BoolOr(ev.Enabled, true),
		}
		pr.setTimestamp(position, ev.StartingPositionTimestamp)
		pr.setInt("MaximumBatchingWindowInSeconds", ev.MaximumBatchingWindow)
		pr.setInt("ParallelizationFactor", ev.ParallelizationFactor)
		pr.setInt("MaximumRetryAttempts", ev.MaximumRetryAttempts)
		pr.setInt("MaximumRecordAgeInSeconds", ev.MaximumRecordAgeInSeconds)
		pr.setBool("BisectBatchOnFunctionError", ev.BisectBatchOnFunctionError)
		pr.setInt("TumblingWindowInSeconds", ev.TumblingWindowInSeconds)
		if ev.FunctionResponseType != "" {
			pr["FunctionResponseTypes"] = []any{ev.FunctionResponseType}
		}

		readClass := classDynamoDBRead
		if streamType == model.StreamKinesis {
			readClass = classKinesisRead
			consumer, consumerID, err := p.streamConsumer(s, fn, name, ev)
			if err != nil {
				return err
			}
			if consumer != nil {
				pr["EventSourceArn"] = consumer
				p.grant(fn, model.KindStream, classKinesisConsumer, consumer)
			}
			if consumerID != "" {
				deps = append(deps, consumerID)
			}
		}
		p.grant(fn, model.KindStream, readClass, source)

		if err := p.failureDestination(s, fn, pr, ev.Destinations); err != nil {
			return err
		}
		if err := pr.setFilters(s, ev.FilterPatterns); err != nil {
			return err
		}

		id := LogicalID(fn.Name, model.KindStream, streamType, name)
		if err := p.put(s, id, mapping(deps, pr)); err != nil {
			return err
		}
	}
	return nil
}

// streamType returns the declared backing store, or the one named by a literal ARN.
func (s site) streamType(ev *model.StreamEvent) (string, error) {
	declared := strings.ToLower(ev.Type)
	if declared == "" {
		if service, ok := arnService(ev.ARN); ok {
			declared = service
		}
	}
	switch declared {
	case model.StreamDynamoDB, model.StreamKinesis:
		return declared, nil
	default:
		return "", s.fail(CodeStreamTypeRequired, "cannot infer the stream type of %s; set type to dynamodb or kinesis", ev.ARN)
	}
}

// streamConsumer returns the consumer to read through, creating a dedicated one when
// requested. The returned id is set only for a created consumer.
func (p *pass) streamConsumer(s site, fn *model.Function, stream string, ev *model.StreamEvent) (any, string, error) {
	switch {
	case ev.Consumer.ARN != nil:
		return ev.Consumer.ARN.Template(), "", nil
	case ev.Consumer.Dedicated:
		id := streamConsumerLogicalID(fn.Name, stream)
		res := &cfn.Resource{
			Type: typeStreamConsumer,
			Properties: map[string]any{
				"ConsumerName": id,
				"StreamARN":    ev.ARN.Template(),
			},
		}
		if err := p.put(s, id, res); err != nil {
			return nil, "", err
		}
		return cfn.Ref(id), id, nil
	default:
		return nil, "", nil
	}
}

func (p *pass) failureDestination(s site, fn *model.Function, pr props, dest *model.StreamDestinations) error {
	if dest == nil || dest.OnFailure == nil || dest.OnFailure.ARN.IsZero() {
		return nil
	}
	target := dest.OnFailure
	kind := strings.ToLower(target.Type)
	if kind == "" {
		if service, ok := arnService(target.ARN); ok {
			kind = service
		}
	}
	arnNode := target.ARN.Template()
	switch kind {
	case "sns":
		p.grant(fn, model.KindStream, classFailureTopic, arnNode)
	case "sqs":
		p.grant(fn, model.KindStream, classFailureQueue, arnNode)
	default:
		return s.fail(CodeFailureTypeRequired, "cannot infer the failure destination type of %s; set type to sns or sqs", target.ARN)
	}
	pr["DestinationConfig"] = map[string]any{
		"OnFailure": map[string]any{"Destination": arnNode},
	}
	return nil
}
