// Where: internal/compiler/naming.go
// What: Logical id naming conventions.
// Why: Ids are part of the deployed stack's identity; changing a convention replaces
// live resources, so every kind derives its ids here and nowhere else.
package compiler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
)

// normalizeName upper-cases the first letter.
func normalizeName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// NormalizeFunctionName renders a function name as a logical id prefix. Dashes and
// underscores are spelled out so that "a-b" and "a_b" stay distinct.
func NormalizeFunctionName(name string) string {
	name = strings.ReplaceAll(name, "-", "Dash")
	name = strings.ReplaceAll(name, "_", "Underscore")
	return normalizeName(name)
}

// alphaNumeric strips everything but ASCII letters and digits.
func alphaNumeric(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return normalizeName(b.String())
}

// FunctionLogicalID names the function resource.
func FunctionLogicalID(function string) string {
	return NormalizeFunctionName(function) + "LambdaFunction"
}

// AliasLogicalID names the function's alias resource.
func AliasLogicalID(function, alias string) string {
	return NormalizeFunctionName(function) + "Alias" + alphaNumeric(alias)
}

// LogicalID derives the base identity of the primary resource an event produces.
//
//	sqs     discriminator: queue name
//	stream  discriminator: backing store type, stream name
//	kafka   discriminator: topic
//	msk     discriminator: cluster name, topic
//	mq      discriminator: protocol, queue
//	sns     discriminator: topic name
//	iot     discriminator: per-function sequence number
func LogicalID(function string, kind model.Kind, discriminator ...string) string {
	prefix := NormalizeFunctionName(function)
	arg := func(i int) string {
		if i < len(discriminator) {
			return alphaNumeric(discriminator[i])
		}
		return ""
	}
	switch kind {
	case model.KindQueue:
		return prefix + "EventSourceMappingSQS" + arg(0)
	case model.KindStream:
		return prefix + "EventSourceMapping" + arg(0) + arg(1)
	case model.KindKafka:
		return prefix + "EventSourceMappingKafka" + arg(0)
	case model.KindMSK:
		return prefix + "EventSourceMappingMSK" + arg(0) + arg(1)
	case model.KindMQ:
		return prefix + "EventSourceMapping" + protocolLabel(firstOf(discriminator)) + arg(1)
	case model.KindTopic:
		return prefix + "SnsSubscription" + arg(0)
	case model.KindRule:
		return prefix + "IotTopicRule" + arg(0)
	default:
		return prefix + alphaNumeric(string(kind)) + arg(0)
	}
}

func protocolLabel(protocol string) string {
	switch strings.ToLower(protocol) {
	case model.ProtocolRabbitMQ:
		return "RabbitMQ"
	default:
		return "ActiveMQ"
	}
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func streamConsumerLogicalID(function, stream string) string {
	return NormalizeFunctionName(function) + alphaNumeric(stream) + "StreamConsumer"
}

func topicLogicalID(topic string) string {
	return "SNSTopic" + alphaNumeric(topic)
}

func topicPermissionLogicalID(function, topic string) string {
	return NormalizeFunctionName(function) + "LambdaPermission" + alphaNumeric(topic) + "SNS"
}

func rulePermissionLogicalID(function, sequence string) string {
	return NormalizeFunctionName(function) + "LambdaPermissionIotTopicRule" + sequence
}
