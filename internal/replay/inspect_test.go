package replay

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

func deflate(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	require.NoError(t, err)
	_, err = w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func writeReplay(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "1000_alpha_beta.json.deflate")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestInspect(t *testing.T) {
	doc := `{"version": 3, "frames": [{}, {}, {}], "fleets": ["alpha", "beta"], "winner": "alpha"}`
	compressed := deflate(t, doc)
	path := writeReplay(t, compressed)

	s, err := Inspect(path)
	require.NoError(t, err)

	assert.Equal(t, path, s.Path)
	assert.Equal(t, int64(len(compressed)), s.CompressedSize)
	assert.Equal(t, int64(len(doc)), s.InflatedSize)
	assert.Equal(t, []string{"fleets", "frames", "version", "winner"}, s.Keys)
	assert.Equal(t, map[string]int{"frames": 3, "fleets": 2}, s.ArrayLengths)
}

func TestInspect_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "not deflate", data: []byte{0xff, 0xff, 0xff, 0xff}},
		{name: "not json", data: deflate(t, "battle log")},
		{name: "not an object", data: deflate(t, "[1, 2, 3]")},
		{name: "null", data: deflate(t, "null")},
		{name: "truncated", data: deflate(t, `{"frames": [`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inspect(writeReplay(t, tt.data))
			require.ErrorIs(t, err, perrors.ErrReplayCorrupt)
		})
	}
}

func TestInspect_Missing(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "missing.json.deflate"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}
