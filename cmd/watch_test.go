package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitForCall(t *testing.T, calls <-chan struct{}) {
	t.Helper()
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}
}

func TestWatchScenario_RerunsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 1\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchScenario(ctx, path, func() { calls <- struct{}{} })
	}()

	waitForCall(t, calls)
	require.NoError(t, os.WriteFile(path, []byte("seed: 2\n"), 0o644))
	waitForCall(t, calls)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchScenario did not return after cancel")
	}
}

func TestWatchScenario_MissingDirectory(t *testing.T) {
	err := watchScenario(context.Background(), filepath.Join(t.TempDir(), "missing", "s.yaml"), func() {
		t.Fatal("onChange must not run when the watch cannot start")
	})
	require.Error(t, err)
}
