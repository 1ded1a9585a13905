package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protologic/cargo-protologic/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", os.Getenv("HOME"))
	t.Setenv("PROTOLOGIC_PATH", "")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ReadsProjectConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", os.Getenv("HOME"))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".protologic"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".protologic", "config.yaml"), []byte(`
cargo:
  target: wasm32-wasip1
`), 0o600))

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "wasm32-wasip1", cfg.Cargo.Target)
}

func TestLoadFromPaths_ProjectConfigOverridesGlobal(t *testing.T) {
	global := writeConfig(t, `
protologic_path: /global/protologic
cargo:
  target: wasm32-unknown-unknown
optimizer:
  asyncify_debug: false
`)
	project := writeConfig(t, `
cargo:
  target: wasm32-wasip1
fleets:
  output_dir: build/fleets
`)

	cfg, err := LoadFromPaths(context.Background(), project, global)
	require.NoError(t, err)

	assert.Equal(t, "/global/protologic", cfg.ProtologicPath, "global value survives when project is silent")
	assert.Equal(t, "wasm32-wasip1", cfg.Cargo.Target, "project overrides global")
	assert.False(t, cfg.Optimizer.AsyncifyDebug)
	assert.Equal(t, "build/fleets", cfg.Fleets.OutputDir)
	assert.Equal(t, "cargo", cfg.Cargo.Binary, "defaults fill the rest")
}

func TestLoadFromPaths_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFromPaths(context.Background(), filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "also-nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "wasm-opt", cfg.Optimizer.Binary)
}

func TestLoadFromPaths_InvalidValues(t *testing.T) {
	project := writeConfig(t, `
optimizer:
  features: [bulk-memory, threads]
`)

	_, err := LoadFromPaths(context.Background(), project, "")
	require.ErrorIs(t, err, errors.ErrConfigInvalidOptimizer)
}

func TestLoadFromPaths_EnvOverridesFiles(t *testing.T) {
	project := writeConfig(t, `
protologic_path: /from/file
optimizer:
  binary: wasm-opt-file
`)
	t.Setenv("PROTOLOGIC_PATH", "/from/env")
	t.Setenv("PROTOLOGIC_OPTIMIZER_BINARY", "wasm-opt-env")

	cfg, err := LoadFromPaths(context.Background(), project, "")
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.ProtologicPath)
	assert.Equal(t, "wasm-opt-env", cfg.Optimizer.Binary)
}

func TestLoadWithOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", os.Getenv("HOME"))
	t.Setenv("PROTOLOGIC_PATH", "/from/env")

	cfg, err := LoadWithOverrides(context.Background(), &Config{
		ProtologicPath: "/from/flag",
		Optimizer:      OptimizerConfig{Features: []string{"simd"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.ProtologicPath)
	assert.Equal(t, []string{"simd"}, cfg.Optimizer.Features)
	assert.Equal(t, "wasm32-wasi", cfg.Cargo.Target)

	_, err = LoadWithOverrides(context.Background(), &Config{
		Optimizer: OptimizerConfig{Features: []string{"gc"}},
	})
	require.ErrorIs(t, err, errors.ErrConfigInvalidOptimizer)
}
