package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/protologic/cargo-protologic/internal/battle"
	"github.com/protologic/cargo-protologic/internal/clock"
	"github.com/protologic/cargo-protologic/internal/process"
)

// testNow is the instant the fake clock reports.
var testNow = time.Unix(1000, 0) //nolint:gochecknoglobals // test fixture

// newTestDeps isolates a command run: the working directory, home and log
// directory are fresh temp dirs and all processes go through fake.
func newTestDeps(t *testing.T, fake *process.Fake) *deps {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv(protologicHomeEnv, filepath.Join(home, ".protologic"))
	t.Setenv("PROTOLOGIC_PATH", "")

	workDir := t.TempDir()
	t.Chdir(workDir)

	return &deps{
		runner:   fake,
		clock:    clock.Fixed(testNow),
		platform: battle.PlatformLinux,
		workDir:  workDir,
		initLogger: func(verbose, quiet bool) zerolog.Logger {
			return InitLoggerWithWriter(verbose, quiet, io.Discard)
		},
	}
}

// runCLI executes the CLI with args and returns what it wrote.
func runCLI(t *testing.T, d *deps, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = execute(context.Background(), BuildInfo{Version: "1.2.3"}, d, args, &out, &errOut)
	return out.String(), errOut.String(), err
}

// outputArg returns the value following -o in a wasm-opt invocation.
func outputArg(args []string) string {
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// writeFleets creates fleet binaries in the default fleet directory of workDir.
func writeFleets(t *testing.T, workDir string, names ...string) string {
	t.Helper()
	dir := filepath.Join(workDir, "target", "protologic_fleets")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".wasm"), []byte("fleet "+name), 0o600))
	}
	return dir
}

// writeReplay writes a raw-deflate JSON replay to path.
func writeReplay(t *testing.T, path string, doc map[string]any) {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}
