// Where: internal/app/settings.go
// What: Resolve effective settings from config file, env and flags.
// Why: compile and validate share the same precedence: flag > env > file > default.
package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/infra/config"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/infra/ui"
)

// settings is the resolved configuration for one command.
type settings struct {
	cfg     config.Config
	console *ui.Console
	log     logr.Logger
}

func resolveSettings(cli CLI, deps Dependencies) (settings, error) {
	path := strings.TrimSpace(cli.Config)
	if path == "" {
		var err error
		path, err = config.Path(config.FindProjectRoot(deps.ProjectDir))
		if err != nil {
			return settings{}, fmt.Errorf("resolve config path: %w", err)
		}
	} else if _, err := os.Stat(path); err != nil {
		return settings{}, fmt.Errorf("config file: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return settings{}, err
	}
	cfg, err = config.ApplyEnv(cfg)
	if err != nil {
		return settings{}, err
	}

	return settings{
		cfg:     cfg,
		console: ui.New(deps.Err, ui.EmojiEnabled(cfg.UI.Emoji, deps.Terminal)),
		log:     newLogger(deps, cli.Verbose),
	}, nil
}

// newLogger writes compiler decisions to the error stream when verbosity > 0.
func newLogger(deps Dependencies, verbosity int) logr.Logger {
	if verbosity <= 0 {
		return logr.Discard()
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(deps.Err, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(deps.Err, args)
	}, funcr.Options{Verbosity: verbosity})
}
