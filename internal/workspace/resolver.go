// Package workspace answers the two questions cargo-protologic asks of the cargo
// workspace: which packages are fleets, and where the toolchain writes its output.
package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/protologic/cargo-protologic/internal/constants"
	perrors "github.com/protologic/cargo-protologic/internal/errors"
	"github.com/protologic/cargo-protologic/internal/process"
)

// Metadata holds the fields of `cargo metadata` that cargo-protologic relies on.
// Everything else in the response is ignored.
type Metadata struct {
	// DefaultMembers are the workspace default members. Fleets are expected to be
	// default members; helper crates should not be.
	DefaultMembers []string `json:"workspace_default_members"`

	// TargetDirectory is cargo's output root.
	TargetDirectory string `json:"target_directory"`
}

// OutputDir returns the directory the toolchain writes raw binaries to for the
// given target triple and profile.
func (m *Metadata) OutputDir(target string, debug bool) string {
	profile := constants.ProfileRelease
	if debug {
		profile = constants.ProfileDebug
	}
	return filepath.Join(m.TargetDirectory, target, profile)
}

// Resolver queries cargo for workspace metadata.
// Each call to Resolve spawns a fresh `cargo metadata`; callers resolve once per command.
type Resolver struct {
	runner process.Runner
	cargo  string
	dir    string
	logger zerolog.Logger
}

// NewResolver creates a Resolver that runs the given cargo binary in dir.
func NewResolver(runner process.Runner, cargo, dir string, logger zerolog.Logger) *Resolver {
	return &Resolver{
		runner: runner,
		cargo:  cargo,
		dir:    dir,
		logger: logger,
	}
}

// Resolve runs `cargo metadata --format-version 1` and decodes the response.
func (r *Resolver) Resolve(ctx context.Context) (*Metadata, error) {
	cmd := process.Command{
		Name: r.cargo,
		Args: []string{"metadata", "--format-version", constants.MetadataFormatVersion},
		Dir:  r.dir,
	}

	r.logger.Debug().Str("command", cmd.String()).Msg("querying workspace metadata")

	out, outcome, err := r.runner.Output(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %w", cmd, err, perrors.ErrMetadataUnavailable)
	}
	if !outcome.Success() {
		return nil, fmt.Errorf("%s exited with status %d: %w", cmd, outcome.ExitCode, perrors.ErrMetadataUnavailable)
	}

	return ParseMetadata(out)
}

// ParseMetadata decodes a `cargo metadata` JSON document.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", err, perrors.ErrMetadataParse)
	}
	if m.TargetDirectory == "" {
		return nil, fmt.Errorf("target_directory is empty: %w", perrors.ErrMetadataParse)
	}
	return &m, nil
}

// DisplayName returns the bare package name for a default-member entry.
//
// cargo reports members as package ID specs, whose shape depends on the cargo
// version:
//
//	fleet_a 0.1.0 (path+file:///ws/fleet_a)
//	path+file:///ws/fleet_a#0.1.0
//	path+file:///ws/crates/a#fleet_a@0.1.0
//
// The full package ID is still what gets passed to `cargo rustc -p`, which accepts all three.
func DisplayName(member string) string {
	if name, _, ok := strings.Cut(member, " "); ok {
		return name
	}

	url, fragment, ok := strings.Cut(member, "#")
	if !ok {
		return member
	}
	if name, _, ok := strings.Cut(fragment, "@"); ok {
		return name
	}
	// Fragment is only a version; the package is named after its directory.
	return path.Base(url)
}
