// Package replay reads compressed battle replays written by the simulator.
package replay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/klauspost/compress/flate"

	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

// Summary describes the top level of a replay document.
type Summary struct {
	Path           string         `json:"path"`
	CompressedSize int64          `json:"compressed_size"`
	InflatedSize   int64          `json:"inflated_size"`
	Keys           []string       `json:"keys"`
	ArrayLengths   map[string]int `json:"array_lengths,omitempty"`
}

// countingReader counts bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Inspect inflates the raw-deflate replay at path and summarizes its top-level
// JSON object. Streams that fail to inflate or do not hold a JSON object are
// reported as ErrReplayCorrupt.
func Inspect(path string) (*Summary, error) {
	f, err := os.Open(path) //#nosec G304 -- replay path is chosen by the user or derived from a battle run
	if err != nil {
		return nil, fmt.Errorf("failed to open replay: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat replay: %w", err)
	}

	return Read(f, info.Size(), path)
}

// Read summarizes a replay stream. compressedSize and path are copied into the
// summary as given.
func Read(r io.Reader, compressedSize int64, path string) (*Summary, error) {
	inflater := flate.NewReader(bufio.NewReader(r))
	defer func() { _ = inflater.Close() }()

	counter := &countingReader{r: inflater}
	dec := json.NewDecoder(counter)

	var doc map[string]json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, err, perrors.ErrReplayCorrupt)
	}
	if doc == nil {
		return nil, fmt.Errorf("%s: top level is not an object: %w", path, perrors.ErrReplayCorrupt)
	}

	// Drain the rest of the stream so InflatedSize covers trailing whitespace
	// and a truncated stream is still detected.
	if _, err := io.Copy(io.Discard, counter); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, err, perrors.ErrReplayCorrupt)
	}

	s := &Summary{
		Path:           path,
		CompressedSize: compressedSize,
		InflatedSize:   counter.n,
		Keys:           make([]string, 0, len(doc)),
		ArrayLengths:   make(map[string]int),
	}
	for key, raw := range doc {
		s.Keys = append(s.Keys, key)

		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%s: key %q: %w: %w", path, key, err, perrors.ErrReplayCorrupt)
		}
		s.ArrayLengths[key] = len(items)
	}
	slices.Sort(s.Keys)

	return s, nil
}
