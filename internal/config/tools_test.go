package config

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protologic/cargo-protologic/internal/constants"
	"github.com/protologic/cargo-protologic/internal/errors"
)

type mockResult struct {
	output string
	err    error
}

// MockCommandExecutor is a test double for CommandExecutor.
// It is only written to before Detect runs, so concurrent reads are safe.
type MockCommandExecutor struct {
	lookPathResults map[string]error
	runResults      map[string]mockResult
}

// NewMockCommandExecutor creates a mock where every tool is missing.
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		lookPathResults: make(map[string]error),
		runResults:      make(map[string]mockResult),
	}
}

// Install marks a tool as present with the given --version output.
func (m *MockCommandExecutor) Install(name, versionOutput string) *MockCommandExecutor {
	m.lookPathResults[name] = nil
	m.runResults[name+" --version"] = mockResult{output: versionOutput}
	return m
}

// SetRun configures the response for Run.
func (m *MockCommandExecutor) SetRun(key, output string, err error) {
	m.runResults[key] = mockResult{output: output, err: err}
}

// LookPath implements CommandExecutor.
func (m *MockCommandExecutor) LookPath(file string) (string, error) {
	if err, ok := m.lookPathResults[file]; ok {
		if err != nil {
			return "", err
		}
		return "/usr/bin/" + file, nil
	}
	return "", exec.ErrNotFound
}

// Run implements CommandExecutor.
func (m *MockCommandExecutor) Run(_ context.Context, name string, args ...string) (string, error) {
	key := name + " " + strings.Join(args, " ")
	if result, ok := m.runResults[key]; ok {
		return result.output, result.err
	}
	return "", errors.ErrCommandNotConfigured
}

func allInstalled() *MockCommandExecutor {
	return NewMockCommandExecutor().
		Install("cargo", "cargo 1.75.0 (1d8b05cdd 2023-11-20)").
		Install("rustc", "rustc 1.75.0 (82e1608df 2023-12-21)").
		Install("wasm-opt", "wasm-opt version 116 (version_116)").
		Install("rustup", "rustup 1.26.0 (5af9b9484 2023-04-05)")
}

func findToolByName(result *ToolDetectionResult, name string) *Tool {
	for i := range result.Tools {
		if result.Tools[i].Name == name {
			return &result.Tools[i]
		}
	}
	return nil
}

func TestToolStatus_String(t *testing.T) {
	assert.Equal(t, "installed", ToolStatusInstalled.String())
	assert.Equal(t, "missing", ToolStatusMissing.String())
	assert.Equal(t, "outdated", ToolStatusOutdated.String())
	assert.Equal(t, "unknown", ToolStatus(99).String())
}

func TestToolStatus_JSON(t *testing.T) {
	data, err := json.Marshal(ToolStatusOutdated)
	require.NoError(t, err)
	assert.JSONEq(t, `"outdated"`, string(data))

	var s ToolStatus
	require.NoError(t, json.Unmarshal([]byte(`"installed"`), &s))
	assert.Equal(t, ToolStatusInstalled, s)
}

func TestToolDetector_AllInstalled(t *testing.T) {
	result, err := NewToolDetectorWithExecutor(allInstalled(), ToolBinaries{}).Detect(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Tools, 4)
	assert.Equal(t, []string{"cargo", "rustc", "wasm-opt", "rustup"}, []string{
		result.Tools[0].Name, result.Tools[1].Name, result.Tools[2].Name, result.Tools[3].Name,
	}, "results keep detection order")
	assert.False(t, result.HasMissingRequired)
	assert.Empty(t, result.MissingRequiredTools())

	wasmOpt := findToolByName(result, constants.ToolWasmOpt)
	require.NotNil(t, wasmOpt)
	assert.Equal(t, "116", wasmOpt.CurrentVersion)
	assert.Equal(t, ToolStatusInstalled, wasmOpt.Status)
}

func TestToolDetector_Statuses(t *testing.T) {
	tests := []struct {
		name            string
		setup           func(m *MockCommandExecutor)
		tool            string
		expectedStatus  ToolStatus
		expectedVersion string
		missingRequired bool
	}{
		{
			name:            "outdated wasm-opt",
			setup:           func(m *MockCommandExecutor) { m.Install("wasm-opt", "wasm-opt version 101") },
			tool:            constants.ToolWasmOpt,
			expectedStatus:  ToolStatusOutdated,
			expectedVersion: "101",
			missingRequired: true,
		},
		{
			name:            "outdated cargo",
			setup:           func(m *MockCommandExecutor) { m.Install("cargo", "cargo 1.60.0 (abc 2022-04-01)") },
			tool:            constants.ToolCargo,
			expectedStatus:  ToolStatusOutdated,
			expectedVersion: "1.60.0",
			missingRequired: true,
		},
		{
			name:            "missing rustc",
			setup:           func(m *MockCommandExecutor) { m.lookPathResults["rustc"] = exec.ErrNotFound },
			tool:            constants.ToolRustc,
			expectedStatus:  ToolStatusMissing,
			missingRequired: true,
		},
		{
			name:            "missing rustup is optional",
			setup:           func(m *MockCommandExecutor) { delete(m.lookPathResults, "rustup") },
			tool:            constants.ToolRustup,
			expectedStatus:  ToolStatusMissing,
			missingRequired: false,
		},
		{
			name:            "version probe fails",
			setup:           func(m *MockCommandExecutor) { m.SetRun("cargo --version", "", errors.ErrCommandFailed) },
			tool:            constants.ToolCargo,
			expectedStatus:  ToolStatusInstalled,
			expectedVersion: "unknown",
		},
		{
			name:            "unparseable version",
			setup:           func(m *MockCommandExecutor) { m.Install("wasm-opt", "binaryen") },
			tool:            constants.ToolWasmOpt,
			expectedStatus:  ToolStatusInstalled,
			expectedVersion: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := allInstalled()
			tt.setup(mock)

			result, err := NewToolDetectorWithExecutor(mock, ToolBinaries{}).Detect(context.Background())
			require.NoError(t, err)

			tool := findToolByName(result, tt.tool)
			require.NotNil(t, tool)
			assert.Equal(t, tt.expectedStatus, tool.Status)
			if tt.expectedVersion != "" {
				assert.Equal(t, tt.expectedVersion, tool.CurrentVersion)
			}
			assert.Equal(t, tt.missingRequired, result.HasMissingRequired)
		})
	}
}

func TestToolDetector_ConfiguredBinaries(t *testing.T) {
	mock := allInstalled().Install("/opt/binaryen/bin/wasm-opt", "wasm-opt version 117")
	delete(mock.lookPathResults, "wasm-opt")

	result, err := NewToolDetectorWithExecutor(mock, ToolBinaries{WasmOpt: "/opt/binaryen/bin/wasm-opt"}).Detect(context.Background())
	require.NoError(t, err)

	tool := findToolByName(result, constants.ToolWasmOpt)
	require.NotNil(t, tool)
	assert.Equal(t, "/opt/binaryen/bin/wasm-opt", tool.Command)
	assert.Equal(t, "117", tool.CurrentVersion)
	assert.False(t, result.HasMissingRequired)
}

func TestToolDetector_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewToolDetectorWithExecutor(allInstalled(), ToolBinaries{}).Detect(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		current, required string
		want              int
	}{
		{"1.75.0", "1.64.0", 1},
		{"1.64.0", "1.64.0", 0},
		{"1.63.9", "1.64.0", -1},
		{"116", "105", 1},
		{"105", "105", 0},
		{"v1.2", "1.2.0", 0},
		{"1.2.x", "1.2.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.current+"_vs_"+tt.required, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(tt.current, tt.required))
		})
	}
}

func TestFormatMissingToolsError(t *testing.T) {
	assert.Empty(t, FormatMissingToolsError(nil))

	msg := FormatMissingToolsError([]Tool{
		{Name: "wasm-opt", Status: ToolStatusOutdated, CurrentVersion: "101", MinVersion: "105", InstallHint: "get binaryen"},
		{Name: "rustc", Status: ToolStatusMissing, InstallHint: "rustup.rs"},
	})
	assert.Contains(t, msg, "wasm-opt: outdated (have 101, need 105)")
	assert.Contains(t, msg, "rustc: missing")
	assert.Contains(t, msg, "Install: get binaryen")
}
