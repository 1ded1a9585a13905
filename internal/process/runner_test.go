package process

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "cargo", Command{Name: "cargo"}.String())
	assert.Equal(t, "cargo metadata --format-version 1",
		Command{Name: "cargo", Args: []string{"metadata", "--format-version", "1"}}.String())
}

func TestExecRunner_Run(t *testing.T) {
	skipWithoutShell(t)
	r := NewExecRunner()
	ctx := context.Background()

	t.Run("zero exit", func(t *testing.T) {
		var out bytes.Buffer
		outcome, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "echo hi"}, Stdout: &out})
		require.NoError(t, err)
		assert.True(t, outcome.Success())
		assert.Equal(t, "hi\n", out.String())
	})

	t.Run("non-zero exit is an outcome, not an error", func(t *testing.T) {
		outcome, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "exit 3"}})
		require.NoError(t, err)
		assert.False(t, outcome.Success())
		assert.Equal(t, 3, outcome.ExitCode)
	})

	t.Run("missing executable is an error", func(t *testing.T) {
		_, err := r.Run(ctx, Command{Name: "definitely-not-a-real-binary-protologic"})
		require.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := r.Run(cctx, Command{Name: "sh", Args: []string{"-c", "sleep 5"}})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestExecRunner_Output(t *testing.T) {
	skipWithoutShell(t)
	r := NewExecRunner()
	ctx := context.Background()

	out, outcome, err := r.Output(ctx, Command{Name: "sh", Args: []string{"-c", "printf '{}'"}})
	require.NoError(t, err)
	assert.True(t, outcome.Success())
	assert.Equal(t, "{}", string(out))

	_, outcome, err = r.Output(ctx, Command{Name: "sh", Args: []string{"-c", "echo broken >&2; exit 101"}})
	require.ErrorIs(t, err, perrors.ErrCommandFailed)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, 101, outcome.ExitCode)
}

func TestExecRunner_Start(t *testing.T) {
	skipWithoutShell(t)
	r := NewExecRunner()

	require.NoError(t, r.Start(Command{Name: "sh", Args: []string{"-c", "exit 0"}}))
	require.Error(t, r.Start(Command{Name: "definitely-not-a-real-binary-protologic"}))
}

func TestFake(t *testing.T) {
	ctx := context.Background()
	f := NewFake().
		On("cargo", Reply([]byte("ok"))).
		On("sim", ExitWith(2))

	out, outcome, err := f.Output(ctx, Command{Name: "cargo", Args: []string{"metadata"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(out))
	assert.True(t, outcome.Success())

	outcome, err = f.Run(ctx, Command{Name: "sim"})
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.ExitCode)

	_, err = f.Run(ctx, Command{Name: "unknown"})
	require.ErrorIs(t, err, perrors.ErrCommandNotConfigured)

	require.NoError(t, f.Start(Command{Name: "player", Args: []string{"replay.json.deflate"}}))

	require.Len(t, f.Calls(), 3)
	assert.Equal(t, []string{"metadata"}, f.Calls()[0].Args)
	require.Len(t, f.Starts(), 1)
	assert.Equal(t, "player", f.Starts()[0].Name)
}
