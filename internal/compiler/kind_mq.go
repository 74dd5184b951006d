// Where: internal/compiler/kind_mq.go
// What: ActiveMQ / RabbitMQ broker compiler.
// Why: Both protocols share one mapping shape; RabbitMQ additionally selects a virtual host.
package compiler

import (
	"strings"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/value"
)

func compileMQ(p *pass, fn *model.Function) error {
	events := fn.MQEvents()
	if len(events) == 0 {
		return nil
	}
	ep := p.targets.resolve(fn.Name, fn)
	for _, item := range events {
		ev := item.Event
		s := p.site(fn, model.KindMQ, item.Position)
		if err := s.checkBatching(ev.Batching); err != nil {
			return err
		}
		protocol := strings.ToLower(ev.Protocol)
		if protocol == "" {
			protocol = model.ProtocolActiveMQ
		}

		broker := ev.ARN.Template()
		pr := props{
			"BatchSize":      value.IntOr(ev.BatchSize, defaultBatchSize),
			"EventSourceArn": broker,
			"FunctionName":   ep.Target,
			"Enabled":        value.BoolOr(ev.Enabled, true),
			"Queues":         []any{ev.Queue},
		}
		pr.setInt("MaximumBatchingWindowInSeconds", ev.MaximumBatchingWindow)
		var access []any
		if !ev.BasicAuthARN.IsZero() {
			access = append(access, accessEntry(accessBasicAuth, ev.BasicAuthARN.Template()))
		}
		if protocol == model.ProtocolRabbitMQ && ev.VirtualHost != "" {
			access = append(access, accessEntry(accessVirtualHost, ev.VirtualHost))
		}
		if len(access) > 0 {
			pr["SourceAccessConfigurations"] = access
		}
		if err := pr.setFilters(s, ev.FilterPatterns); err != nil {
			return err
		}

		id := LogicalID(fn.Name, model.KindMQ, protocol, ev.Queue)
		if err := p.put(s, id, mapping(p.dependencies(fn, ep), pr)); err != nil {
			return err
		}
		if !ev.BasicAuthARN.IsZero() {
			p.grant(fn, model.KindMQ, classSecretRead, ev.BasicAuthARN.Template())
		}
		p.grant(fn, model.KindMQ, classBrokerDescribe, broker)
		p.grant(fn, model.KindMQ, classNetworkInterface, "*")
	}
	return nil
}
