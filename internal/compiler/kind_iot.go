// Where: internal/compiler/kind_iot.go
// What: Rule-based ingestion compiler.
// Why: Rules have no natural name, so ids carry the event's sequence number among the
// function's rule events.
package compiler

import (
	"strconv"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/cfn"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/value"
)

const (
	typeTopicRule = "AWS::IoT::TopicRule"

	principalRule = "iot.amazonaws.com"
)

func compileRule(p *pass, fn *model.Function) error {
	events := fn.RuleEvents()
	if len(events) == 0 {
		return nil
	}
	ep := p.targets.resolve(fn.Name, fn)
	for n, item := range events {
		ev := item.Event
		s := p.site(fn, model.KindRule, item.Position)
		sequence := strconv.Itoa(n + 1)

		payload := props{
			"RuleDisabled": !value.BoolOr(ev.Enabled, true),
			"Sql":          ev.SQL,
			"Actions":      []any{map[string]any{"Lambda": map[string]any{"FunctionArn": ep.Target}}},
		}
		payload.setString("AwsIotSqlVersion", ev.SQLVersion)
		payload.setString("Description", ev.Description)
		pr := props{"TopicRulePayload": map[string]any(payload)}
		pr.setString("RuleName", ev.Name)

		ruleID := LogicalID(fn.Name, model.KindRule, sequence)
		rule := &cfn.Resource{Type: typeTopicRule, DependsOn: aliasDependency(ep), Properties: map[string]any(pr)}
		if err := p.put(s, ruleID, rule); err != nil {
			return err
		}
		sourceArn := cfn.ARN("iot", "rule/", cfn.Ref(ruleID))
		if err := p.put(s, rulePermissionLogicalID(fn.Name, sequence), invokePermission(ep, principalRule, sourceArn)); err != nil {
			return err
		}
	}
	return nil
}
