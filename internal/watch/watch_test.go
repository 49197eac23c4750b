package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestWatcher_ReportsSpecChanges(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := New(dir, "**/*.spec", zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan []string, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) {
			select {
			case changed <- paths:
			default:
			}
		})
	}()

	// Give the watcher time to register the root.
	time.Sleep(200 * time.Millisecond)

	specPath := filepath.Join(dir, "auth.spec")
	if err := os.WriteFile(specPath, []byte("name: auth\ntest:\n  command: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changed:
		found := false
		for _, p := range paths {
			if p == specPath {
				found = true
			}
			if filepath.Base(p) == "notes.txt" {
				t.Errorf("non-spec file reported: %v", paths)
			}
		}
		if !found {
			t.Errorf("changed paths = %v, want %s", paths, specPath)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := New(dir, "*.spec", zaptest.NewLogger(t))
	w.debounce = 300 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan int, 16)
	go func() {
		_ = w.Run(ctx, func(paths []string) { runs <- len(paths) })
	}()
	time.Sleep(200 * time.Millisecond)

	// A burst of writes inside the window collapses into one callback.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(dir, "burst.spec"), []byte("name: b\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("no callback after burst")
	}
	select {
	case <-runs:
		t.Error("burst produced more than one callback")
	case <-time.After(600 * time.Millisecond):
	}
}
