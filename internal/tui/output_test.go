package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

func TestNewOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, FormatJSON))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, FormatText))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, ""))
}

func TestTTYOutput_Messages(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Success("built 2 fleets")
	out.Warning("replay not found")
	out.Info("fleet output: target/protologic_fleets")

	s := buf.String()
	assert.Contains(t, s, "✓ built 2 fleets")
	assert.Contains(t, s, "⚠ replay not found")
	assert.Contains(t, s, "fleet output: target/protologic_fleets")
}

func TestTTYOutput_Error(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Error(fmt.Errorf("found 3 fleets: %w", perrors.ErrWrongFleetCount))

	s := buf.String()
	msg, action := perrors.Actionable(perrors.ErrWrongFleetCount)
	assert.Contains(t, s, "✗ "+msg)
	assert.Contains(t, s, "found 3 fleets")
	assert.Contains(t, s, "→ "+action)
}

func TestTTYOutput_ErrorWithoutSentinel(t *testing.T) {
	var buf bytes.Buffer
	NewTTYOutput(&buf).Error(fmt.Errorf("disk full"))

	s := buf.String()
	assert.Contains(t, s, "✗ disk full")
	assert.NotContains(t, s, "→")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Success("ignored")
	out.Warning("ignored")
	out.Info("ignored")
	assert.Empty(t, buf.String())

	require.NoError(t, out.JSON(map[string]int{"fleets": 2}))
	assert.JSONEq(t, `{"fleets": 2}`, buf.String())
}

func TestJSONOutput_Error(t *testing.T) {
	var buf bytes.Buffer
	NewJSONOutput(&buf).Error(fmt.Errorf("no simulator: %w", perrors.ErrUnsupportedPlatform))

	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "no simulator: "+perrors.ErrUnsupportedPlatform.Error(), got["error"])
	assert.NotEmpty(t, got["message"])
	assert.NotEmpty(t, got["action"])
}
