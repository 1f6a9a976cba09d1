package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestRunRendersInitiallyAndOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inference_results.json")
	if err := os.WriteFile(path, []byte(`{"history":[]}`), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	renders := make(chan struct{}, 16)
	var calls atomic.Int32
	render := func() error {
		n := calls.Add(1)
		renders <- struct{}{}
		if n == 1 {
			return errors.New("first render fails; loop must continue")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, path, 10*time.Millisecond, render) }()

	waitFor(t, renders, "initial render")
	// writes to unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"history":[{}]}`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	waitFor(t, renders, "render after change")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
	if calls.Load() < 2 {
		t.Fatalf("expected at least 2 renders, got %d", calls.Load())
	}
}

func TestRunMissingDirectoryFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone", "inference_results.json")
	err := Run(context.Background(), path, 0, func() error { return nil })
	if err == nil {
		t.Fatalf("expected error watching a missing directory")
	}
}

func TestRelevant(t *testing.T) {
	target, _ := filepath.Abs("inference_results.json")
	cases := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "inference_results.json", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "inference_results.json", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "inference_results.json", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "inference_results.json", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "trajectory_plot.png", Op: fsnotify.Write}, false},
	}
	for _, tc := range cases {
		if got := relevant(tc.ev, target); got != tc.want {
			t.Errorf("relevant(%v) = %v want %v", tc.ev, got, tc.want)
		}
	}
}
