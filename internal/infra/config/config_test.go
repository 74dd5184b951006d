package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: yaml\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Output.Indent)
	assert.Equal(t, "IamRoleLambdaExecution", cfg.Compiler.ExecutionRole)
	assert.Equal(t, 1, cfg.Version)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	path, err := Path(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".eventsrc", "config.yaml"), path)

	emoji := false
	cfg := Default()
	cfg.Compiler.ExecutionRole = "CustomRole"
	cfg.UI.Emoji = &emoji
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "CustomRole", loaded.Compiler.ExecutionRole)
	require.NotNil(t, loaded.UI.Emoji)
	assert.False(t, *loaded.UI.Emoji)
}

func TestPathRequiresRoot(t *testing.T) {
	_, err := Path("  ")
	require.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("EVENTSRC_OUTPUT_FORMAT", "YAML")
	t.Setenv("EVENTSRC_OUTPUT_INDENT", "4")
	t.Setenv("EVENTSRC_EXECUTION_ROLE", "EnvRole")
	t.Setenv("EVENTSRC_EMOJI", "true")

	cfg, err := ApplyEnv(Default())
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, 4, cfg.Output.Indent)
	assert.Equal(t, "EnvRole", cfg.Compiler.ExecutionRole)
	require.NotNil(t, cfg.UI.Emoji)
	assert.True(t, *cfg.UI.Emoji)
}

func TestApplyEnvRejectsBadIndent(t *testing.T) {
	t.Setenv("EVENTSRC_OUTPUT_INDENT", "wide")
	_, err := ApplyEnv(Default())
	require.Error(t, err)
}

func TestFindProjectRootWalksUpward(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".eventsrc"), 0o755))
	nested := filepath.Join(root, "services", "orders")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, FindProjectRoot(nested))
}

func TestFindProjectRootFallsBackToStart(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, FindProjectRoot(dir))
}
