package fleet

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"wasm extension", "fleet_demo_fleet_foo_bar.wasm", "fleet_demo_fleet_foo_bar"},
		{"no extension", "demo_fleet_foo_bar", "demo_fleet_foo_bar"},
		{"other extension is stripped too", "alpha.txt", "alpha"},
		{"only the last extension", "alpha.v2.wasm", "alpha.v2"},
		{"nested path", filepath.Join("target", "protologic_fleets", "beta.wasm"), "beta"},
		{"dotfile keeps its name", ".gamma", ".gamma"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractName(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractName_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		want error
	}{
		{"empty", "", perrors.ErrMissingFileName},
		{"dot", ".", perrors.ErrMissingFileName},
		{"parent", "..", perrors.ErrMissingFileName},
		{"root", string(filepath.Separator), perrors.ErrMissingFileName},
		{"invalid utf-8", "fleets/\xff\xfe.wasm", perrors.ErrNonUnicodeName},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := ExtractName(tc.path)
				require.ErrorIs(t, err, tc.want)
			})
		})
	}
}

func TestScan(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := Scan(filepath.Join(t.TempDir(), "wasm32-wasi", "release"))
		require.ErrorIs(t, err, perrors.ErrOutputDirMissing)
	})

	t.Run("empty directory is not an error", func(t *testing.T) {
		artifacts, err := Scan(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, artifacts)
	})

	t.Run("keeps only wasm files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "alpha.wasm"), "alpha")
		writeFile(t, filepath.Join(dir, "beta.wasm"), "beta!")
		writeFile(t, filepath.Join(dir, "alpha.d"), "deps")
		writeFile(t, filepath.Join(dir, "README"), "no extension")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "deps"), 0o750))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.wasm"), 0o750))

		artifacts, err := Scan(dir)
		require.NoError(t, err)
		require.Len(t, artifacts, 2)
		assert.Equal(t, filepath.Join(dir, "alpha.wasm"), artifacts[0].Path)
		assert.Equal(t, int64(5), artifacts[0].Size)
		assert.Equal(t, filepath.Join(dir, "beta.wasm"), artifacts[1].Path)
	})

	t.Run("follows symlinks", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("symlinks need privileges on windows")
		}
		dir := t.TempDir()
		target := filepath.Join(t.TempDir(), "real.wasm")
		writeFile(t, target, "real")
		require.NoError(t, os.Symlink(target, filepath.Join(dir, "linked.wasm")))

		artifacts, err := Scan(dir)
		require.NoError(t, err)
		require.Len(t, artifacts, 1)
		assert.Equal(t, int64(4), artifacts[0].Size)
	})
}

func TestList(t *testing.T) {
	t.Run("missing directory holds no fleets", func(t *testing.T) {
		fleets, err := List(filepath.Join(t.TempDir(), "protologic_fleets"))
		require.NoError(t, err)
		assert.Empty(t, fleets)
	})

	t.Run("lists in name order and skips hidden entries", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "beta.wasm"), "b")
		writeFile(t, filepath.Join(dir, "alpha.wasm"), "a")
		writeFile(t, filepath.Join(dir, ".alpha-1234.wasm.tmp"), "partial")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o750))

		fleets, err := List(dir)
		require.NoError(t, err)
		require.Len(t, fleets, 2)
		assert.Equal(t, "alpha", fleets[0].Name)
		assert.Equal(t, filepath.Join(dir, "alpha.wasm"), fleets[0].Path)
		assert.Equal(t, "beta", fleets[1].Name)
		assert.False(t, fleets[1].ModTime.IsZero())
	})

	t.Run("skips stray files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "alpha.wasm"), "a")
		writeFile(t, filepath.Join(dir, "beta.wasm"), "b")
		writeFile(t, filepath.Join(dir, "notes.txt"), "n")
		writeFile(t, filepath.Join(dir, "README.md"), "r")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "old.wasm"), 0o750))

		fleets, err := List(dir)
		require.NoError(t, err)
		require.Len(t, fleets, 2)
		assert.Equal(t, "alpha", fleets[0].Name)
		assert.Equal(t, "beta", fleets[1].Name)
	})

	t.Run("follows symlinks", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("symlinks need privileges on windows")
		}
		dir := t.TempDir()
		target := filepath.Join(t.TempDir(), "real.wasm")
		writeFile(t, target, "real")
		require.NoError(t, os.Symlink(target, filepath.Join(dir, "linked.wasm")))
		require.NoError(t, os.Symlink(t.TempDir(), filepath.Join(dir, "dir.wasm")))

		fleets, err := List(dir)
		require.NoError(t, err)
		require.Len(t, fleets, 1)
		assert.Equal(t, "linked", fleets[0].Name)
		assert.Equal(t, int64(4), fleets[0].Size)
	})

	t.Run("re-reads the directory every call", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "alpha.wasm"), "a")

		fleets, err := List(dir)
		require.NoError(t, err)
		require.Len(t, fleets, 1)

		require.NoError(t, os.Remove(filepath.Join(dir, "alpha.wasm")))
		fleets, err = List(dir)
		require.NoError(t, err)
		assert.Empty(t, fleets)
	})
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.wasm")
	b := filepath.Join(dir, "b.wasm")
	c := filepath.Join(dir, "c.wasm")
	writeFile(t, a, "\x00asm fleet")
	writeFile(t, b, "\x00asm fleet")
	writeFile(t, c, "\x00asm other")

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	fc, err := Fingerprint(c)
	require.NoError(t, err)

	assert.Len(t, fa, fingerprintLength)
	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)

	_, err = Fingerprint(filepath.Join(dir, "missing.wasm"))
	require.Error(t, err)
}
