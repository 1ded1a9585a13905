package fleet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/protologic/cargo-protologic/internal/constants"
	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

// RawArtifact is an unoptimized .wasm binary in the toolchain output directory.
type RawArtifact struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Scan lists the .wasm binaries the toolchain wrote to dir.
//
// A missing dir is an error (the target was never built). An empty result is not:
// the build legitimately produced nothing to optimize.
func Scan(dir string) ([]RawArtifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", dir, perrors.ErrOutputDirMissing)
		}
		return nil, fmt.Errorf("failed to list toolchain output %s: %w", dir, err)
	}

	var artifacts []RawArtifact
	for _, entry := range entries {
		if !strings.EqualFold(filepath.Ext(entry.Name()), constants.WasmExtension) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		// Stat follows symlinks so a linked binary still counts as a regular file.
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		artifacts = append(artifacts, RawArtifact{Path: path, Size: info.Size()})
	}

	return artifacts, nil
}
