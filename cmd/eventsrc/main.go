// Where: cmd/eventsrc/main.go
// What: CLI entrypoint.
// Why: Execute eventsrc commands with process-level dependencies.
package main

import (
	"os"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/app"
)

func main() {
	deps := app.Dependencies{
		Out:      os.Stdout,
		Err:      os.Stderr,
		Terminal: os.Stderr,
	}
	if wd, err := os.Getwd(); err == nil {
		deps.ProjectDir = wd
	}
	os.Exit(app.Run(os.Args[1:], deps))
}
