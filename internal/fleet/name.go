// Package fleet locates fleet binaries on disk: raw toolchain output, optimized
// fleets, and the names that identify them.
//
// There is no fleet index. The optimized fleet directory is the registry, and every
// function here re-reads the filesystem.
package fleet

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

// ExtractName returns the fleet name for an artifact path: the file name with its
// last extension removed. Stripping is unconditional, so "alpha.wasm" and "alpha"
// both name the fleet "alpha".
func ExtractName(path string) (string, error) {
	if path == "" {
		return "", perrors.ErrMissingFileName
	}

	base := filepath.Base(path)
	switch base {
	case ".", "..", string(filepath.Separator):
		return "", fmt.Errorf("%q: %w", path, perrors.ErrMissingFileName)
	}

	if !utf8.ValidString(base) {
		return "", fmt.Errorf("%q: %w", path, perrors.ErrNonUnicodeName)
	}

	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		// A dotfile such as ".fleet" has no extension to strip.
		name = base
	}
	return name, nil
}
