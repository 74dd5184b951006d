// Where: internal/compiler/driver.go
// What: Compilation driver.
// Why: Dispatch every declared kind of every function into one document and fail the
// whole pass on the first error so that no partial output escapes.
package compiler

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/cfn"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
)

// DefaultExecutionRole is the logical id of the shared execution role.
const DefaultExecutionRole = "IamRoleLambdaExecution"

var errNilService = errors.New("service model is nil")

// Options tunes one compilation pass.
type Options struct {
	// ExecutionRole is the logical id receiving aggregated permission statements.
	ExecutionRole string
	Logger        logr.Logger
}

// Result is the outcome of a successful pass.
type Result struct {
	Template *cfn.Template
	// Statements is the aggregated execution permission document.
	Statements []cfn.Statement
	// RoleUpdated reports whether the statements were written into the execution role.
	RoleUpdated bool
}

type compileFunc func(p *pass, fn *model.Function) error

var compilers = map[model.Kind]compileFunc{
	model.KindQueue:  compileQueue,
	model.KindStream: compileStream,
	model.KindKafka:  compileKafka,
	model.KindMSK:    compileMSK,
	model.KindMQ:     compileMQ,
	model.KindTopic:  compileTopic,
	model.KindRule:   compileRule,
}

// Compile translates the service's event declarations into resources on a copy of base.
// base may be nil. On error the result is nil and base is untouched.
func Compile(svc *model.Service, base *cfn.Template, opts Options) (*Result, error) {
	if svc == nil {
		return nil, errNilService
	}
	doc, err := base.Clone()
	if err != nil {
		return nil, err
	}
	roleID := opts.ExecutionRole
	if roleID == "" {
		roleID = DefaultExecutionRole
	}
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	p := &pass{
		doc:     doc,
		perms:   NewAggregator(),
		targets: newTargets(),
		roleID:  roleID,
		log:     log,
	}
	for i := range svc.Functions {
		fn := &svc.Functions[i]
		for _, kind := range model.Kinds {
			if !fn.HasKind(kind) {
				continue
			}
			compile, ok := compilers[kind]
			if !ok {
				return nil, fmt.Errorf("function %q: no compiler for kind %q", fn.Name, kind)
			}
			if err := compile(p, fn); err != nil {
				return nil, err
			}
		}
		log.V(1).Info("compiled function", "function", fn.Name, "events", len(fn.Events))
	}

	statements := p.perms.Statements()
	updated := cfn.AppendRoleStatements(doc, roleID, statements)
	if !updated && len(statements) > 0 {
		log.V(1).Info("execution role not found; permissions not attached", "role", roleID)
	}
	return &Result{Template: doc, Statements: statements, RoleUpdated: updated && len(statements) > 0}, nil
}
