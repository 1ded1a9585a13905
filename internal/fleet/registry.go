package fleet

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/protologic/cargo-protologic/internal/constants"
)

// fingerprintLength is the number of hex characters shown for a fleet fingerprint.
const fingerprintLength = 12

// Artifact is an optimized fleet binary in the fleet output directory.
type Artifact struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}

// List returns the fleets in dir in directory order (sorted by file name).
//
// A missing dir holds no fleets. Only non-hidden regular .wasm files count: the
// optimizer writes in-flight output to dotfiles, and stray files or directories
// must never be passed to the simulator.
func List(dir string) ([]Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list fleet directory %s: %w", dir, err)
	}

	var fleets []Artifact
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") ||
			!strings.EqualFold(filepath.Ext(entry.Name()), constants.WasmExtension) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		// Stat follows symlinks so a link to a directory is not a fleet.
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to stat fleet %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		name, err := ExtractName(path)
		if err != nil {
			return nil, err
		}

		fleets = append(fleets, Artifact{
			Name:    name,
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return fleets, nil
}

// Fingerprint returns a short BLAKE3 digest of the fleet binary. Two fleets with
// the same fingerprint are byte-identical builds.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path) //#nosec G304 -- path comes from the fleet directory listing
	if err != nil {
		return "", fmt.Errorf("failed to open fleet %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash fleet %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil))[:fingerprintLength], nil
}
