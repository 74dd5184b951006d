// Where: internal/compiler/kind_msk.go
// What: Managed broker cluster compiler.
package compiler

import (
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/value"
)

func compileMSK(p *pass, fn *model.Function) error {
	events := fn.MSKEvents()
	if len(events) == 0 {
		return nil
	}
	ep := p.targets.resolve(fn.Name, fn)
	for _, item := range events {
		ev := item.Event
		s := p.site(fn, model.KindMSK, item.Position)
		if err := s.checkBatching(ev.Batching); err != nil {
			return err
		}
		position, err := s.startingPosition(ev.StartingPosition, ev.StartingPositionTimestamp)
		if err != nil {
			return err
		}
		if err := s.checkPoller(ev.ProvisionedPollerConfig); err != nil {
			return err
		}
		cluster, ok := resourceName(ev.ARN)
		if !ok {
			return s.fail(CodeMissingDerivableName, "cannot derive a cluster name from %s", ev.ARN)
		}

		source := ev.ARN.Template()
		pr := props{
			"BatchSize":        value.IntOr(ev.BatchSize, defaultBatchSize),
			"EventSourceArn":   source,
			"FunctionName":     ep.Target,
			"Enabled":          value.BoolOr(ev.Enabled, true),
			"StartingPosition": position,
			"Topics":           []any{ev.Topic},
		}
		pr.setTimestamp(position, ev.StartingPositionTimestamp)
		pr.setInt("MaximumBatchingWindowInSeconds", ev.MaximumBatchingWindow)
		if ev.SASLScram512 != nil {
			pr["SourceAccessConfigurations"] = []any{accessEntry(accessScram512, ev.SASLScram512.Template())}
		}
		if ev.ConsumerGroupID != "" {
			pr["AmazonManagedKafkaEventSourceConfig"] = map[string]any{"ConsumerGroupId": ev.ConsumerGroupID}
		}
		pr.setPoller(ev.ProvisionedPollerConfig)
		if err := pr.setFilters(s, ev.FilterPatterns); err != nil {
			return err
		}

		id := LogicalID(fn.Name, model.KindMSK, cluster, ev.Topic)
		if err := p.put(s, id, mapping(p.dependencies(fn, ep), pr)); err != nil {
			return err
		}
		p.grant(fn, model.KindMSK, classClusterAccess, source)
		p.grant(fn, model.KindMSK, classNetworkInterface, "*")
		if ev.SASLScram512 != nil {
			p.grant(fn, model.KindMSK, classSecretRead, ev.SASLScram512.Template())
		}
	}
	return nil
}
