// Where: internal/compiler/target.go
// What: Invocation target resolution with per-pass memoization.
// Why: Every kind points its resources at the function (or its alias); repeated lookups
// for the same function must yield the same reference.
package compiler

import (
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
)

// endpoint is what a trigger invokes.
type endpoint struct {
	// Target is the invocation target in template form.
	Target any
	// AliasID names the alias resource to depend on; empty when no alias is declared.
	AliasID string
}

type targetKey struct {
	name string
	fn   *model.Function
}

// targets memoizes endpoints for one pass.
type targets struct {
	memo map[targetKey]endpoint
}

func newTargets() *targets {
	return &targets{memo: map[targetKey]endpoint{}}
}

// resolve returns the function's invocation target, qualified by its alias when declared.
func (t *targets) resolve(name string, fn *model.Function) endpoint {
	key := targetKey{name: name, fn: fn}
	if ep, ok := t.memo[key]; ok {
		return ep
	}
	functionArn := model.GetAtt(FunctionLogicalID(name), "Arn")
	ep := endpoint{Target: functionArn.Template()}
	if fn != nil && fn.Alias != "" {
		ep.Target = model.Join(":", functionArn, fn.Alias).Template()
		ep.AliasID = AliasLogicalID(name, fn.Alias)
	}
	t.memo[key] = ep
	return ep
}
