package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitError},
		{"build failure", fmt.Errorf("x: %w", perrors.ErrBuildFailed), ExitError},
		{"exit code 2 wrapper", perrors.NewExitCode2Error(errors.New("bad")), ExitInvalidInput},
		{"invalid output format", fmt.Errorf("%w: xml", perrors.ErrInvalidOutputFormat), ExitInvalidInput},
		{"unknown flag", errors.New("unknown flag: --nope"), ExitInvalidInput},
		{"unknown command", errors.New(`unknown command "fly" for "cargo-protologic"`), ExitInvalidInput},
		{"mutually exclusive", errors.New("if any flags in the group [verbose quiet] are set none of the others can be"), ExitInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCodeForError(tt.err))
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	assert.True(t, IsValidOutputFormat("text"))
	assert.True(t, IsValidOutputFormat("json"))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
}
