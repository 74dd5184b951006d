// Where: internal/app/validate.go
// What: validate command.
// Why: Run the full pipeline as a dry run so CI can reject bad declarations before deploy.
package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/infra/ui"
)

type ValidateCmd struct {
	Service string `arg:"" help:"Path to service document (YAML or JSON)" type:"existingfile"`
	Base    string `short:"b" help:"Base template to check conflicts against" type:"existingfile"`
	Role    string `help:"Logical id of the shared execution role"`
	Strict  bool   `help:"Treat warnings as errors"`
}

func runValidate(cli CLI, deps Dependencies) int {
	cmd := cli.Validate
	s, err := resolveSettings(cli, deps)
	if err != nil {
		return exitWithError(deps.Err, err)
	}
	compiled, err := compileService(cmd.Service, cmd.Base, cmd.Role, s)
	if err != nil {
		return reportError(s, err)
	}
	for _, warning := range compiled.warnings {
		s.console.Warn(warning)
	}

	resources := compiled.result.Template.Resources
	ids := make([]string, 0, len(resources))
	for id := range resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rows := []ui.KeyValue{
		{Key: "Service", Value: compiled.service},
		{Key: "Resources", Value: len(ids)},
		{Key: "Statements", Value: len(compiled.result.Statements)},
		{Key: "Role updated", Value: compiled.result.RoleUpdated},
	}
	s.console.Block("🔎", "Validation", rows)

	if cmd.Strict && len(compiled.warnings) > 0 {
		s.console.Error(fmt.Sprintf("%d warning(s) with --strict", len(compiled.warnings)))
		return 1
	}
	s.console.Success(fmt.Sprintf("%s is valid (%s)", cmd.Service, strings.Join(ids, ", ")))
	return 0
}
