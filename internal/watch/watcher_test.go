package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatch(t *testing.T, manifest string) *atomic.Int32 {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	var n atomic.Int32
	go Manifest(ctx, manifest, 50*time.Millisecond, testLogger(), func(context.Context) {
		n.Add(1)
	})
	time.Sleep(100 * time.Millisecond)
	return &n
}

func TestWatcher_WriteTriggersReload(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "information.csv")
	_ = os.WriteFile(manifest, []byte("src\na.jpg\n"), 0o644)

	n := startWatch(t, manifest)
	_ = os.WriteFile(manifest, []byte("src\na.jpg\nb.jpg\n"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return n.Load() >= 1
	}, "manifest write did not trigger a reload")
}

func TestWatcher_BurstIsDebounced(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "information.csv")
	_ = os.WriteFile(manifest, []byte("src\n"), 0o644)

	n := startWatch(t, manifest)
	for i := 0; i < 5; i++ {
		_ = os.WriteFile(manifest, []byte("src\na.jpg\n"), 0o644)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return n.Load() >= 1
	}, "burst did not trigger a reload")
	time.Sleep(300 * time.Millisecond)
	if got := n.Load(); got != 1 {
		t.Errorf("reloads = %d, want 1", got)
	}
}

func TestWatcher_OtherFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "information.csv")
	_ = os.WriteFile(manifest, []byte("src\n"), 0o644)

	n := startWatch(t, manifest)
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	time.Sleep(300 * time.Millisecond)
	if got := n.Load(); got != 0 {
		t.Errorf("reloads = %d, want 0", got)
	}
}

func TestWatcher_MissingDirCreatedLater(t *testing.T) {
	root := t.TempDir()
	manifest := filepath.Join(root, "data", "csv", "information.csv")

	n := startWatch(t, manifest)
	_ = os.MkdirAll(filepath.Join(root, "data"), 0o755)
	time.Sleep(100 * time.Millisecond)
	_ = os.MkdirAll(filepath.Join(root, "data", "csv"), 0o755)
	time.Sleep(100 * time.Millisecond)
	_ = os.WriteFile(manifest, []byte("src\na.jpg\n"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return n.Load() >= 1
	}, "manifest in a new directory did not trigger a reload")
}

func TestOnPath(t *testing.T) {
	dir := filepath.Join("a", "b", "c")
	if !onPath(filepath.Join("a", "b"), dir) || !onPath(dir, dir) {
		t.Error("ancestors should be on the path")
	}
	if onPath(filepath.Join("a", "bx"), dir) {
		t.Error("sibling prefix should not be on the path")
	}
}
