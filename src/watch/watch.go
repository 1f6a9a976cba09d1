// Package watch re-runs a render whenever the watched input file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/iafilius/TrajectoryPlot/src/logging"
)

// Run renders once, then again after every write or re-creation of path, until ctx is done.
// Bursts of events within debounce collapse into one render. Render errors are logged and the
// loop keeps going; only watcher setup failures are returned.
func Run(ctx context.Context, path string, debounce time.Duration, render func() error) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	// Watch the directory: editors and producers often replace the file instead of writing in place.
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logging.Infof("watching %s for changes", target)

	runOnce := func() {
		if err := render(); err != nil {
			logging.Errorf("render %s: %v", path, err)
		}
	}
	runOnce()

	trigger := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if !relevant(ev, target) {
					continue
				}
				logging.Debugf("change detected: %s", ev)
				select {
				case trigger <- struct{}{}:
				default: // a render is already pending
				}
			case werr, ok := <-w.Errors:
				if !ok {
					return nil
				}
				logging.Warnf("watcher error: %v", werr)
			}
		}
	})
	g.Go(func() error {
		var timer *time.Timer
		var fire <-chan time.Time
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-trigger:
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(debounce)
				fire = timer.C
			case <-fire:
				fire = nil
				runOnce()
			}
		}
	})
	return g.Wait()
}

func relevant(ev fsnotify.Event, target string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
