package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"almostcircle/internal/domain"
)

// touchUntil rewrites path until the watcher reports a kind or the deadline
// passes. The first writes may land before the watch is registered.
func touchUntil(t *testing.T, path string, got <-chan domain.Kind) domain.Kind {
	t.Helper()
	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case k := <-got:
			return k
		case <-tick.C:
			if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
				t.Fatalf("write failed: %v", err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for change")
		}
	}
}

func TestWatchReportsKind(t *testing.T) {
	dir := t.TempDir()
	got := make(chan domain.Kind, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(dir, func(k domain.Kind) { got <- k }).WithDebounce(10 * time.Millisecond)
	errCh := make(chan error, 1)
	go func() { errCh <- w.Watch(ctx) }()

	if k := touchUntil(t, filepath.Join(dir, "Square.json"), got); k != domain.KindSquare {
		t.Errorf("expected %s, got %s", domain.KindSquare, k)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	got := make(chan domain.Kind, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(dir, func(k domain.Kind) { got <- k }).WithDebounce(10 * time.Millisecond)
	go w.Watch(ctx)

	// Establish that the watch is live before writing files it must ignore
	touchUntil(t, filepath.Join(dir, "Rectangle.json"), got)
	time.Sleep(50 * time.Millisecond)
	for len(got) > 0 {
		<-got
	}

	for _, name := range []string{"Rectangle.csv", "notes.txt", "Circle.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	select {
	case k := <-got:
		t.Errorf("unexpected change for %s", k)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- New(dir, func(domain.Kind) {}).Watch(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("data dir was not created")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	<-errCh
}
