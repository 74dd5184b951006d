// Where: internal/infra/servicedoc/hooks.go
// What: mapstructure hooks turning loose document values into model types.
// Why: References, event variants and stream consumers each accept several spellings.
package servicedoc

import (
	"fmt"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/mitchellh/mapstructure"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/value"
)

var (
	referenceType = reflect.TypeOf(model.Reference{})
	eventType     = reflect.TypeOf(model.Event{})
	consumerType  = reflect.TypeOf(model.StreamConsumer{})
	failureType   = reflect.TypeOf(model.FailureDestination{})
)

func decodeInto(input, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			eventHook,
			consumerHook,
			failureHook,
			referenceHook,
		),
		Result: output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func referenceHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != referenceType {
		return data, nil
	}
	if _, ok := data.(model.Reference); ok {
		return data, nil
	}
	return model.ParseReference(data)
}

func consumerHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != consumerType {
		return data, nil
	}
	switch typed := data.(type) {
	case model.StreamConsumer:
		return typed, nil
	case bool:
		return model.StreamConsumer{Dedicated: typed}, nil
	default:
		ref, err := model.ParseReference(data)
		if err != nil {
			return nil, fmt.Errorf("consumer: %w", err)
		}
		return model.StreamConsumer{ARN: &ref}, nil
	}
}

func failureHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != failureType {
		return data, nil
	}
	if s, ok := data.(string); ok {
		return map[string]any{"arn": s}, nil
	}
	return data, nil
}

func eventHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != eventType {
		return data, nil
	}
	if _, ok := data.(model.Event); ok {
		return data, nil
	}
	m := value.AsMap(data)
	key, ok := value.SingleKey(m)
	if !ok {
		return nil, errMalformedEvent
	}
	return decodeEvent(key, m[key])
}

func decodeEvent(key string, payload any) (model.Event, error) {
	var ev model.Event
	var target any
	switch key {
	case "sqs":
		ev.Kind, ev.Queue = model.KindQueue, &model.QueueEvent{}
		target, payload = ev.Queue, shorthand(payload, "arn")
	case "stream":
		ev.Kind, ev.Stream = model.KindStream, &model.StreamEvent{}
		target, payload = ev.Stream, shorthand(payload, "arn")
	case "kafka":
		ev.Kind, ev.Kafka = model.KindKafka, &model.KafkaEvent{}
		target = ev.Kafka
	case "msk":
		ev.Kind, ev.MSK = model.KindMSK, &model.MSKEvent{}
		target = ev.MSK
	case model.ProtocolActiveMQ, model.ProtocolRabbitMQ:
		ev.Kind, ev.MQ = model.KindMQ, &model.MQEvent{Protocol: key}
		target = ev.MQ
	case "sns":
		ev.Kind, ev.Topic = model.KindTopic, &model.TopicEvent{}
		field := "topicName"
		if s, ok := payload.(string); ok && arn.IsARN(s) {
			field = "arn"
		}
		target, payload = ev.Topic, shorthand(payload, field)
	case "iot":
		ev.Kind, ev.Rule = model.KindRule, &model.RuleEvent{}
		target = ev.Rule
	default:
		return model.Event{}, fmt.Errorf("%w: %q", errUnknownEvent, key)
	}
	if err := decodeInto(payload, target); err != nil {
		return model.Event{}, fmt.Errorf("%s event: %w", key, err)
	}
	return ev, nil
}

// shorthand expands a bare string into {field: string}.
func shorthand(payload any, field string) any {
	if s, ok := payload.(string); ok {
		return map[string]any{field: s}
	}
	return payload
}
