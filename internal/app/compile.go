// Where: internal/app/compile.go
// What: compile command.
// Why: Load a service document, compile its event sources onto a base template and emit the result.
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/compiler"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/cfn"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/infra/render"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/infra/schema"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/infra/servicedoc"
)

type CompileCmd struct {
	Service    string `arg:"" help:"Path to service document (YAML or JSON)" type:"existingfile"`
	Base       string `short:"b" help:"Base template the resources are added to" type:"existingfile"`
	Format     string `short:"f" help:"Output format (json|yaml)"`
	Indent     int    `help:"Indent width for JSON output" default:"-1"`
	Role       string `help:"Logical id of the shared execution role"`
	Out        string `short:"o" help:"Write output to a file instead of stdout"`
	Query      string `short:"q" help:"Print only the value at a gjson path of the compiled template"`
	Statements bool   `help:"Emit the aggregated permission statements instead of the template"`
	Summary    bool   `short:"s" help:"Print a summary report to stderr"`
}

// compilation is a successful compile of one service document.
type compilation struct {
	service  string
	warnings []string
	result   *compiler.Result
}

func compileService(path, basePath, role string, s settings) (*compilation, error) {
	loaded, err := servicedoc.Load(path)
	if err != nil {
		return nil, err
	}
	var base *cfn.Template
	if strings.TrimSpace(basePath) != "" {
		base, err = render.ReadTemplate(basePath)
		if err != nil {
			return nil, err
		}
	}
	if role == "" {
		role = s.cfg.Compiler.ExecutionRole
	}
	result, err := compiler.Compile(loaded.Service, base, compiler.Options{
		ExecutionRole: role,
		Logger:        s.log.WithName("compiler"),
	})
	if err != nil {
		return nil, err
	}
	return &compilation{
		service:  loaded.Service.Name,
		warnings: loaded.Warnings,
		result:   result,
	}, nil
}

func runCompile(cli CLI, deps Dependencies) int {
	cmd := cli.Compile
	s, err := resolveSettings(cli, deps)
	if err != nil {
		return exitWithError(deps.Err, err)
	}

	formatName := cmd.Format
	if formatName == "" {
		formatName = s.cfg.Output.Format
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return reportError(s, err)
	}
	indent := cmd.Indent
	if indent < 0 {
		indent = s.cfg.Output.Indent
	}

	compiled, err := compileService(cmd.Service, cmd.Base, cmd.Role, s)
	if err != nil {
		return reportError(s, err)
	}
	for _, warning := range compiled.warnings {
		s.console.Warn(warning)
	}

	var document any = compiled.result.Template
	if cmd.Statements {
		document = policyDocument(compiled.result.Statements)
	}
	payload, err := emit(document, format, indent, cmd.Query)
	if err != nil {
		return reportError(s, err)
	}

	if cmd.Out != "" {
		if err := render.WriteFile(cmd.Out, payload); err != nil {
			return reportError(s, err)
		}
		s.console.Success(fmt.Sprintf("Wrote %s", cmd.Out))
	} else if _, err := deps.Out.Write(payload); err != nil {
		return exitWithError(deps.Err, err)
	}

	if cmd.Summary {
		report, err := render.Summary(render.SummaryInput{
			Service:     compiled.service,
			Template:    compiled.result.Template,
			Statements:  compiled.result.Statements,
			RoleUpdated: compiled.result.RoleUpdated,
			Warnings:    compiled.warnings,
		})
		if err != nil {
			return reportError(s, err)
		}
		fmt.Fprint(deps.Err, report)
	}
	return 0
}

func emit(document any, format render.Format, indent int, query string) ([]byte, error) {
	if strings.TrimSpace(query) == "" {
		return render.Encode(document, format, indent)
	}
	payload, err := render.JSON(document, 0)
	if err != nil {
		return nil, err
	}
	value, err := render.Query(payload, query)
	if err != nil {
		return nil, err
	}
	return []byte(value + "\n"), nil
}

func policyDocument(statements []cfn.Statement) map[string]any {
	nodes := make([]any, 0, len(statements))
	for _, stmt := range statements {
		nodes = append(nodes, stmt.Node())
	}
	return map[string]any{
		"Version":   cfn.PolicyVersion,
		"Statement": nodes,
	}
}

// reportError prints err with the most useful detail for its type.
func reportError(s settings, err error) int {
	var compileErr *compiler.Error
	var schemaErr *schema.Error
	switch {
	case errors.As(err, &schemaErr):
		s.console.Error("service document does not match the schema")
		for _, violation := range schemaErr.Violations {
			s.console.ItemPlain(violation.String())
		}
	case errors.As(err, &compileErr):
		s.console.Error(compileErr.Error())
	default:
		s.console.Error(err.Error())
	}
	return 1
}
