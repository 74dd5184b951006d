// Where: internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/meta"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/version"
)

// Dependencies holds everything a command touches outside the process.
type Dependencies struct {
	ProjectDir string
	Out        io.Writer
	Err        io.Writer
	// Terminal is the file probed for emoji support; nil disables emoji.
	Terminal   *os.File
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Config     string        `short:"c" help:"Path to config file (default: <project>/.eventsrc/config.yaml)"`
	Verbose    int           `short:"v" type:"counter" help:"Log compiler decisions to stderr (repeat for more detail)"`
	Compile    CompileCmd    `cmd:"" help:"Compile function event sources into a template"`
	Validate   ValidateCmd   `cmd:"" help:"Check a service document without writing output"`
	Completion CompletionCmd `cmd:"" help:"Generate shell completion script"`
	Version    VersionCmd    `cmd:"" help:"Show version information"`
}

type VersionCmd struct{}

// Run is the main entry point for CLI command execution.
// It returns the process exit code.
func Run(args []string, deps Dependencies) int {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Err == nil {
		deps.Err = os.Stderr
	}
	if deps.ProjectDir == "" {
		if wd, err := os.Getwd(); err == nil {
			deps.ProjectDir = wd
		}
	}

	if len(args) == 0 {
		return runNoArgs(deps.Out)
	}

	cli := CLI{}
	exited := -1
	parser, err := kong.New(&cli,
		kong.Name(meta.AppName),
		kong.Writers(deps.Out, deps.Err),
		kong.Exit(func(code int) { exited = code }),
	)
	if err != nil {
		return exitWithError(deps.Err, err)
	}
	ctx, err := parser.Parse(args)
	if exited >= 0 {
		// --help already printed.
		return exited
	}
	if err != nil {
		return exitWithError(deps.Err, err)
	}

	if exitCode, handled := dispatchCommand(ctx.Command(), cli, deps); handled {
		return exitCode
	}
	fmt.Fprintln(deps.Err, "unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies) int

func dispatchCommand(command string, cli CLI, deps Dependencies) (int, bool) {
	handlers := map[string]commandHandler{
		"compile <service>":  runCompile,
		"validate <service>": runValidate,
		"completion bash":    func(cli CLI, deps Dependencies) int { return runCompletionBash(cli, deps.Out) },
		"completion fish":    func(cli CLI, deps Dependencies) int { return runCompletionFish(cli, deps.Out) },
		"version":            runVersion,
	}
	handler, ok := handlers[command]
	if !ok {
		return 1, false
	}
	return handler(cli, deps), true
}

func runVersion(_ CLI, deps Dependencies) int {
	fmt.Fprintf(deps.Out, "%s %s\n", meta.AppName, version.Get())
	return 0
}

func runNoArgs(out io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %s compile <service.yml> [--base template.json] [--format json|yaml] [--out path]\n", meta.AppName)
	fmt.Fprintf(out, "  %s validate <service.yml>\n", meta.AppName)
	fmt.Fprintln(out, "")
	fmt.Fprintf(out, "Try: %s compile --help\n", meta.AppName)
	return 0
}

func exitWithError(out io.Writer, err error) int {
	fmt.Fprintln(out, err)
	return 1
}
