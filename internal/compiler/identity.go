// Where: internal/compiler/identity.go
// What: Disambiguation of colliding broker mapping identities.
// Why: Several broker events of one function may share a topic. Documents compiled before
// disambiguation existed let the last declaration win the plain identity, so the last one
// keeps it and earlier ones get a suffix derived from their own connection settings.
package compiler

import (
	"fmt"
	"sort"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
)

// connectionTuple is the hashed identity of a broker event.
type connectionTuple struct {
	Endpoints     []string
	ConsumerGroup string
	Topic         string
}

// identitySuffix is the first 8 hex digits of the tuple hash. Endpoint order does not
// change the suffix.
func identitySuffix(endpoints []string, consumerGroup, topic string) (string, error) {
	sorted := append([]string(nil), endpoints...)
	sort.Strings(sorted)
	sum, err := hashstructure.Hash(connectionTuple{
		Endpoints:     sorted,
		ConsumerGroup: consumerGroup,
		Topic:         topic,
	}, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum)[:8], nil
}

// kafkaIdentities assigns a logical id to every kafka event of fn, keyed by event
// position. Events are visited last to first against a set of claimed identities.
func kafkaIdentities(fn *model.Function, events []model.Indexed[model.KafkaEvent]) (map[int]string, error) {
	claimed := make(map[string]struct{}, len(events))
	ids := make(map[int]string, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		item := events[i]
		base := LogicalID(fn.Name, model.KindKafka, item.Event.Topic)
		if _, taken := claimed[base]; !taken {
			claimed[base] = struct{}{}
			ids[item.Position] = base
			continue
		}
		suffix, err := identitySuffix(item.Event.BootstrapServers, item.Event.ConsumerGroupID, item.Event.Topic)
		if err != nil {
			s := site{function: fn.Name, kind: model.KindKafka, position: item.Position}
			return nil, s.fail(CodeIdentityHashFailed, "hash connection settings: %v", err)
		}
		ids[item.Position] = base + suffix
		claimed[base+suffix] = struct{}{}
	}
	return ids, nil
}
