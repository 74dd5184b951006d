// Where: internal/infra/config/config.go
// What: Project config load/save and env overrides.
// Why: Manage <project_root>/.eventsrc/config.yaml consistently across commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/infra/envutil"
	"github.com/poruru/edge-serverless-box/eventsrc/internal/meta"
)

// Env suffixes read by ApplyEnv.
const (
	EnvOutputFormat  = "OUTPUT_FORMAT"
	EnvOutputIndent  = "OUTPUT_INDENT"
	EnvExecutionRole = "EXECUTION_ROLE"
	EnvEmoji         = "EMOJI"
)

// Config represents the <project_root>/.eventsrc/config.yaml file.
type Config struct {
	Version  int      `yaml:"version"`
	Output   Output   `yaml:"output"`
	Compiler Compiler `yaml:"compiler"`
	UI       UI       `yaml:"ui,omitempty"`
}

// Output controls how compiled documents are rendered.
type Output struct {
	Format string `yaml:"format,omitempty"`
	Indent int    `yaml:"indent,omitempty"`
}

// Compiler carries compilation defaults.
type Compiler struct {
	ExecutionRole string `yaml:"execution_role,omitempty"`
}

// UI holds console preferences. A nil Emoji means "decide from the terminal".
type UI struct {
	Emoji *bool `yaml:"emoji,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Version:  1,
		Output:   Output{Format: "json", Indent: 2},
		Compiler: Compiler{ExecutionRole: "IamRoleLambdaExecution"},
	}
}

// Path returns the config file location for a project root.
func Path(projectRoot string) (string, error) {
	root := strings.TrimSpace(projectRoot)
	if root == "" {
		return "", fmt.Errorf("project root is required")
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Join(root, meta.HomeDir, meta.ConfigFile), nil
}

// Load reads the config file and fills unset fields from Default.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return Config{}, fmt.Errorf("merge config defaults: %w", err)
	}
	return cfg, nil
}

// Save writes the config file, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyEnv overlays EVENTSRC_* variables onto cfg.
func ApplyEnv(cfg Config) (Config, error) {
	if value, ok := envutil.Lookup(EnvOutputFormat); ok {
		cfg.Output.Format = strings.ToLower(value)
	}
	indent, ok, err := envutil.Int(EnvOutputIndent)
	if err != nil {
		return Config{}, err
	}
	if ok {
		cfg.Output.Indent = indent
	}
	if value, ok := envutil.Lookup(EnvExecutionRole); ok {
		cfg.Compiler.ExecutionRole = value
	}
	emoji, ok, err := envutil.Bool(EnvEmoji)
	if err != nil {
		return Config{}, err
	}
	if ok {
		cfg.UI.Emoji = &emoji
	}
	return cfg, nil
}
