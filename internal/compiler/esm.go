// Where: internal/compiler/esm.go
// What: Property builders shared by the event-source mapping kinds.
// Why: Batching, filtering, poller and access settings render identically across kinds.
package compiler

import (
	"encoding/json"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/cfn"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
)

const (
	typeEventSourceMapping = "AWS::Lambda::EventSourceMapping"
	typeLambdaPermission   = "AWS::Lambda::Permission"

	defaultQueueBatchSize = 10
	defaultBatchSize      = 100
)

// props is a mapping property bag with helpers for optional settings.
type props map[string]any

func (p props) setInt(key string, v *int) {
	if v != nil {
		p[key] = *v
	}
}

func (p props) setBool(key string, v *bool) {
	if v != nil {
		p[key] = *v
	}
}

func (p props) setString(key, v string) {
	if v != "" {
		p[key] = v
	}
}

func (p props) setTimestamp(position string, ts *float64) {
	if position == model.PositionAtTimestamp && ts != nil {
		p["StartingPositionTimestamp"] = *ts
	}
}

// setFilters renders filter patterns as FilterCriteria. Each pattern is serialized to a
// JSON string.
func (p props) setFilters(s site, patterns []any) error {
	if len(patterns) == 0 {
		return nil
	}
	filters := make([]any, 0, len(patterns))
	for i, pattern := range patterns {
		encoded, err := json.Marshal(pattern)
		if err != nil {
			return s.fail(CodeInvalidFilterPattern, "filterPatterns[%d]: %v", i, err)
		}
		filters = append(filters, map[string]any{"Pattern": string(encoded)})
	}
	p["FilterCriteria"] = map[string]any{"Filters": filters}
	return nil
}

func (p props) setPoller(cfg *model.PollerConfig) {
	if cfg == nil {
		return
	}
	poller := props{}
	poller.setInt("MinimumPollers", cfg.MinimumPollers)
	poller.setInt("MaximumPollers", cfg.MaximumPollers)
	p["ProvisionedPollerConfig"] = map[string]any(poller)
}

// accessEntry is one SourceAccessConfigurations element.
func accessEntry(kind string, uri any) map[string]any {
	return map[string]any{"Type": kind, "URI": uri}
}

func mapping(dependsOn []string, p props) *cfn.Resource {
	return &cfn.Resource{
		Type:       typeEventSourceMapping,
		DependsOn:  dependsOn,
		Properties: map[string]any(p),
	}
}

// invokePermission allows a service principal to invoke the target from sourceArn.
func invokePermission(ep endpoint, principal string, sourceArn any) *cfn.Resource {
	return &cfn.Resource{
		Type:      typeLambdaPermission,
		DependsOn: aliasDependency(ep),
		Properties: map[string]any{
			"FunctionName": ep.Target,
			"Action":       "lambda:InvokeFunction",
			"Principal":    principal,
			"SourceArn":    sourceArn,
		},
	}
}

func aliasDependency(ep endpoint) []string {
	if ep.AliasID == "" {
		return nil
	}
	return []string{ep.AliasID}
}
