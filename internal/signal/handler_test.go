package signal

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_InitialState(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	require.NoError(t, h.Context().Err())
	assert.Nil(t, h.Signal())
	assert.Equal(t, 0, h.ExitCode())

	select {
	case <-h.Interrupted():
		t.Fatal("interrupted channel should be open initially")
	default:
	}
}

func TestHandler_Signal_CancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal(syscall.SIGINT)

	require.ErrorIs(t, h.Context().Err(), context.Canceled)
	select {
	case <-h.Interrupted():
	default:
		t.Fatal("interrupted channel should be closed after signal")
	}
	assert.Equal(t, syscall.SIGINT, h.Signal())
	assert.Equal(t, 130, h.ExitCode())
}

func TestHandler_FirstSignalWins(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal(syscall.SIGTERM)
	h.handleSignal(syscall.SIGINT)

	assert.Equal(t, syscall.SIGTERM, h.Signal())
	assert.Equal(t, 128+int(syscall.SIGTERM), h.ExitCode())
}

func TestHandler_ListenDrainsRepeatedSignals(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	// A blocked listener would deadlock the later sends.
	for range 3 {
		h.sigChan <- syscall.SIGINT
	}

	select {
	case <-h.Interrupted():
	case <-time.After(5 * time.Second):
		t.Fatal("signal was not handled")
	}
	require.ErrorIs(t, h.Context().Err(), context.Canceled)
}

func TestHandler_Stop(t *testing.T) {
	h := NewHandler(context.Background())

	h.Stop()
	h.Stop()

	require.Error(t, h.Context().Err())
	assert.Equal(t, 0, h.ExitCode(), "stopping is not an interrupt")
}

func TestHandler_ParentContextCancelled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()
	require.Error(t, h.Context().Err())
}
