// Where: internal/compiler/pass.go
// What: Mutable state of one compilation pass.
// Why: The driver owns one document, one aggregator and one target memo per pass and
// threads them through every kind compiler explicitly.
package compiler

import (
	"errors"
	"strings"

	"github.com/go-logr/logr"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/cfn"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
)

type pass struct {
	doc     *cfn.Template
	perms   *Aggregator
	targets *targets
	roleID  string
	log     logr.Logger
}

func (p *pass) site(fn *model.Function, kind model.Kind, position int) site {
	return site{function: fn.Name, kind: kind, position: position}
}

// put stores a resource, reporting a reassigned logical id as a compile error.
func (p *pass) put(s site, logicalID string, res *cfn.Resource) error {
	if err := p.doc.Put(logicalID, res); err != nil {
		if errors.Is(err, cfn.ErrConflict) {
			return s.fail(CodeConflictingResource, "%s is already defined with different settings", logicalID)
		}
		return err
	}
	p.log.V(2).Info("emitted resource", "function", s.function, "logicalID", logicalID, "type", res.Type)
	return nil
}

// grant records permissions on the shared execution role. Functions with their own role
// manage their permissions themselves.
func (p *pass) grant(fn *model.Function, kind model.Kind, class permissionClass, resources ...any) {
	if fn.Role != nil {
		return
	}
	p.perms.Add(kind, class, resources...)
}

// dependencies lists what a mapping must wait for: the function's role resource and
// its alias.
func (p *pass) dependencies(fn *model.Function, ep endpoint) []string {
	var deps []string
	if role := p.roleDependency(fn); role != "" {
		deps = append(deps, role)
	}
	return append(deps, aliasDependency(ep)...)
}

func (p *pass) roleDependency(fn *model.Function) string {
	if fn.Role == nil {
		if p.doc.Has(p.roleID) {
			return p.roleID
		}
		return ""
	}
	switch fn.Role.Kind {
	case model.RefLiteral:
		if strings.Contains(fn.Role.Literal, ":") {
			return ""
		}
		return fn.Role.Literal
	case model.RefAttribute, model.RefResource:
		return fn.Role.Resource
	default:
		return ""
	}
}
