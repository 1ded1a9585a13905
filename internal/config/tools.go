package config

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/protologic/cargo-protologic/internal/constants"
	"github.com/protologic/cargo-protologic/internal/ctxutil"
)

// Pre-compiled regexes for version parsing.
//
//nolint:gochecknoglobals // compiled once at package init
var (
	cargoVersionRe   = regexp.MustCompile(`cargo (\d+\.\d+(?:\.\d+)?)`)
	rustcVersionRe   = regexp.MustCompile(`rustc (\d+\.\d+(?:\.\d+)?)`)
	rustupVersionRe  = regexp.MustCompile(`rustup (\d+\.\d+(?:\.\d+)?)`)
	wasmOptVersionRe = regexp.MustCompile(`wasm-opt version (\d+(?:\.\d+)*)`)
	genericVersionRe = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?)`)
)

// ToolStatus represents the installation status of an external tool.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type ToolStatus int

const (
	// ToolStatusMissing indicates the tool is not installed.
	ToolStatusMissing ToolStatus = iota

	// ToolStatusInstalled indicates the tool is installed and meets version requirements.
	ToolStatusInstalled

	// ToolStatusOutdated indicates the tool is installed but below the minimum version.
	ToolStatusOutdated
)

// maxVersionSegments is the number of segments in a semantic version (major.minor.patch).
const maxVersionSegments = 3

// String returns a human-readable representation of the tool status.
func (s ToolStatus) String() string {
	switch s {
	case ToolStatusInstalled:
		return "installed"
	case ToolStatusMissing:
		return "missing"
	case ToolStatusOutdated:
		return "outdated"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for human-readable JSON output.
func (s ToolStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for parsing JSON status strings.
func (s *ToolStatus) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "installed":
		*s = ToolStatusInstalled
	case "outdated":
		*s = ToolStatusOutdated
	default:
		*s = ToolStatusMissing
	}
	return nil
}

// Tool represents an external program cargo-protologic depends on.
type Tool struct {
	// Name is the tool identifier (e.g., "cargo", "wasm-opt").
	Name string `json:"name"`

	// Command is the executable probed, which may be a configured override.
	Command string `json:"command"`

	// Required indicates the build cannot run without the tool.
	Required bool `json:"required"`

	// MinVersion is the minimum required version.
	MinVersion string `json:"min_version"`

	// CurrentVersion is the detected installed version.
	CurrentVersion string `json:"current_version"`

	// Status is the current installation status.
	Status ToolStatus `json:"status"`

	// InstallHint provides installation instructions for missing tools.
	InstallHint string `json:"install_hint"`
}

// ToolDetectionResult holds the results of detecting all tools.
type ToolDetectionResult struct {
	// Tools contains the detection result for each tool, in detection order.
	Tools []Tool `json:"tools"`

	// HasMissingRequired indicates if any required tools are missing or outdated.
	HasMissingRequired bool `json:"has_missing_required"`
}

// MissingRequiredTools returns the required tools that are missing or outdated.
func (r *ToolDetectionResult) MissingRequiredTools() []Tool {
	var missing []Tool
	for _, tool := range r.Tools {
		if tool.Required && tool.Status != ToolStatusInstalled {
			missing = append(missing, tool)
		}
	}
	return missing
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// LookPath searches for an executable named file in the PATH.
	LookPath(file string) (string, error)

	// Run executes a command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// DefaultCommandExecutor implements CommandExecutor using os/exec.
type DefaultCommandExecutor struct{}

// LookPath searches for an executable in the PATH.
func (e *DefaultCommandExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (e *DefaultCommandExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// ToolDetector detects the installation status of external tools.
type ToolDetector interface {
	// Detect checks all configured tools and returns their status.
	Detect(ctx context.Context) (*ToolDetectionResult, error)
}

// ToolBinaries names the executables to probe. Empty fields use the defaults.
type ToolBinaries struct {
	Cargo   string
	WasmOpt string
}

// ToolBinaries returns the executables configured in c.
func (c *Config) ToolBinaries() ToolBinaries {
	return ToolBinaries{Cargo: c.Cargo.Binary, WasmOpt: c.Optimizer.Binary}
}

// DefaultToolDetector implements ToolDetector.
type DefaultToolDetector struct {
	executor CommandExecutor
	binaries ToolBinaries
}

// NewToolDetector creates a DefaultToolDetector with the default executor.
func NewToolDetector(binaries ToolBinaries) *DefaultToolDetector {
	return NewToolDetectorWithExecutor(&DefaultCommandExecutor{}, binaries)
}

// NewToolDetectorWithExecutor creates a DefaultToolDetector with a custom executor.
func NewToolDetectorWithExecutor(executor CommandExecutor, binaries ToolBinaries) *DefaultToolDetector {
	if binaries.Cargo == "" {
		binaries.Cargo = constants.DefaultCargoBinary
	}
	if binaries.WasmOpt == "" {
		binaries.WasmOpt = constants.DefaultOptimizerBinary
	}
	return &DefaultToolDetector{executor: executor, binaries: binaries}
}

// toolConfig holds the configuration for detecting a specific tool.
type toolConfig struct {
	name        string
	command     string
	minVersion  string
	required    bool
	installHint string
	parseFunc   func(output string) string
}

// toolConfigs returns the configuration for all tools to detect.
func (d *DefaultToolDetector) toolConfigs() []toolConfig {
	return []toolConfig{
		{
			name:        constants.ToolCargo,
			command:     d.binaries.Cargo,
			minVersion:  constants.MinVersionCargo,
			required:    true,
			installHint: "Install Rust from https://rustup.rs",
			parseFunc:   parseCargoVersion,
		},
		{
			name:        constants.ToolRustc,
			command:     constants.ToolRustc,
			minVersion:  constants.MinVersionRustc,
			required:    true,
			installHint: "Install Rust from https://rustup.rs",
			parseFunc:   parseRustcVersion,
		},
		{
			name:        constants.ToolWasmOpt,
			command:     d.binaries.WasmOpt,
			minVersion:  constants.MinVersionWasmOpt,
			required:    true,
			installHint: "Install binaryen from https://github.com/WebAssembly/binaryen/releases",
			parseFunc:   parseWasmOptVersion,
		},
		{
			name:        constants.ToolRustup,
			command:     constants.ToolRustup,
			required:    false,
			installHint: "Install rustup from https://rustup.rs, then: rustup target add " + constants.DefaultTarget,
			parseFunc:   parseRustupVersion,
		},
	}
}

// Detect checks all tools concurrently and returns their status in a fixed order.
func (d *DefaultToolDetector) Detect(ctx context.Context) (*ToolDetectionResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	detectCtx, cancel := context.WithTimeout(ctx, constants.ToolDetectionTimeout)
	defer cancel()

	configs := d.toolConfigs()
	tools := make([]Tool, len(configs))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(detectCtx)
	for i, cfg := range configs {
		g.Go(func() error {
			tool := d.detectTool(gCtx, cfg)
			mu.Lock()
			tools[i] = tool
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to detect tools: %w", err)
	}

	result := &ToolDetectionResult{Tools: tools}
	result.HasMissingRequired = len(result.MissingRequiredTools()) > 0
	return result, nil
}

// detectTool detects a single tool's status.
func (d *DefaultToolDetector) detectTool(ctx context.Context, cfg toolConfig) Tool {
	tool := Tool{
		Name:        cfg.name,
		Command:     cfg.command,
		Required:    cfg.required,
		MinVersion:  cfg.minVersion,
		InstallHint: cfg.installHint,
		Status:      ToolStatusMissing,
	}

	if _, err := d.executor.LookPath(cfg.command); err != nil {
		return tool
	}

	output, err := d.executor.Run(ctx, cfg.command, constants.VersionFlagStandard)
	if err != nil {
		// Present but the version probe failed; treat as installed without version info.
		tool.Status = ToolStatusInstalled
		tool.CurrentVersion = "unknown"
		return tool
	}

	tool.CurrentVersion = cfg.parseFunc(output)
	if tool.CurrentVersion == "" {
		tool.CurrentVersion = "unknown"
		tool.Status = ToolStatusInstalled
		return tool
	}

	tool.Status = ToolStatusInstalled
	if cfg.minVersion != "" && CompareVersions(tool.CurrentVersion, cfg.minVersion) < 0 {
		tool.Status = ToolStatusOutdated
	}
	return tool
}

// parseCargoVersion parses "cargo 1.75.0 (1d8b05cdd 2023-11-20)" → "1.75.0"
func parseCargoVersion(output string) string {
	return firstSubmatch(cargoVersionRe, output)
}

// parseRustcVersion parses "rustc 1.75.0 (82e1608df 2023-12-21)" → "1.75.0"
func parseRustcVersion(output string) string {
	return firstSubmatch(rustcVersionRe, output)
}

// parseRustupVersion parses "rustup 1.26.0 (5af9b9484 2023-04-05)" → "1.26.0"
func parseRustupVersion(output string) string {
	if v := firstSubmatch(rustupVersionRe, output); v != "" {
		return v
	}
	return firstSubmatch(genericVersionRe, output)
}

// parseWasmOptVersion parses "wasm-opt version 116 (version_116)" → "116".
// binaryen versions are a single integer.
func parseWasmOptVersion(output string) string {
	return firstSubmatch(wasmOptVersionRe, output)
}

func firstSubmatch(re *regexp.Regexp, output string) string {
	if matches := re.FindStringSubmatch(output); len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// CompareVersions compares two dotted versions. Missing segments count as zero,
// so binaryen's "116" compares as 116.0.0.
// Returns:
//
//	-1 if current < required
//	 0 if current == required
//	 1 if current > required
func CompareVersions(current, required string) int {
	currentParts := parseVersionParts(strings.TrimPrefix(current, "v"))
	requiredParts := parseVersionParts(strings.TrimPrefix(required, "v"))

	for i := 0; i < maxVersionSegments; i++ {
		if currentParts[i] < requiredParts[i] {
			return -1
		}
		if currentParts[i] > requiredParts[i] {
			return 1
		}
	}
	return 0
}

// parseVersionParts parses a version string into [major, minor, patch].
func parseVersionParts(version string) [maxVersionSegments]int {
	var parts [maxVersionSegments]int
	segments := strings.Split(version, ".")

	for i := 0; i < len(segments) && i < maxVersionSegments; i++ {
		numStr := segments[i]
		for j, c := range numStr {
			if c < '0' || c > '9' {
				numStr = numStr[:j]
				break
			}
		}
		if numStr != "" {
			parts[i], _ = strconv.Atoi(numStr)
		}
	}
	return parts
}

// FormatMissingToolsError creates a formatted error message for missing tools.
func FormatMissingToolsError(missing []Tool) string {
	if len(missing) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Missing required tools:\n\n")

	for _, tool := range missing {
		status := "missing"
		if tool.Status == ToolStatusOutdated {
			status = fmt.Sprintf("outdated (have %s, need %s)", tool.CurrentVersion, tool.MinVersion)
		}
		fmt.Fprintf(&sb, "  • %s: %s\n", tool.Name, status)
		fmt.Fprintf(&sb, "    Install: %s\n\n", tool.InstallHint)
	}

	return sb.String()
}
