// Where: internal/compiler/kind_queue.go
// What: Queue source compiler.
// Why: One mapping per queue event plus consume permissions on the queue.
package compiler

import (
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/value"
)

func compileQueue(p *pass, fn *model.Function) error {
	events := fn.QueueEvents()
	if len(events) == 0 {
		return nil
	}
	ep := p.targets.resolve(fn.Name, fn)
	for _, item := range events {
		ev := item.Event
		s := p.site(fn, model.KindQueue, item.Position)
		if err := s.checkBatching(ev.Batching); err != nil {
			return err
		}
		name := ev.QueueName
		if name == "" {
			derived, ok := ExtractName(ev.ARN)
			if !ok {
				return s.fail(CodeMissingDerivableName, "cannot derive a queue name from %s; set queueName", ev.ARN)
			}
			name = derived
		}

		source := ev.ARN.Template()
		pr := props{
			"BatchSize":      value.IntOr(ev.BatchSize, defaultQueueBatchSize),
			"EventSourceArn": source,
			"FunctionName":   ep.Target,
			"Enabled":        value.BoolOr(ev.Enabled, true),
		}
		pr.setInt("MaximumBatchingWindowInSeconds", ev.MaximumBatchingWindow)
		if ev.FunctionResponseType != "" {
			pr["FunctionResponseTypes"] = []any{ev.FunctionResponseType}
		}
		if ev.MaximumConcurrency != nil {
			pr["ScalingConfig"] = map[string]any{"MaximumConcurrency": *ev.MaximumConcurrency}
		}
		if err := pr.setFilters(s, ev.FilterPatterns); err != nil {
			return err
		}

		id := LogicalID(fn.Name, model.KindQueue, name)
		if err := p.put(s, id, mapping(p.dependencies(fn, ep), pr)); err != nil {
			return err
		}
		p.grant(fn, model.KindQueue, classQueueConsume, source)
	}
	return nil
}
