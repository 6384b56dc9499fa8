// Package watcher reports changes to the shape files of a data directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"almostcircle/internal/domain"
	"almostcircle/internal/filestore"
	xlog "almostcircle/internal/log"
)

// DefaultDebounce is how long a file must stay quiet before onChange runs
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a data directory for changes to <Kind>.json files
type Watcher struct {
	dir      string
	onChange func(kind domain.Kind)
	debounce time.Duration
}

// New creates a new directory watcher
func New(dir string, onChange func(kind domain.Kind)) *Watcher {
	return &Watcher{
		dir:      dir,
		onChange: onChange,
		debounce: DefaultDebounce,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch starts watching the directory. It creates the directory if needed
// and blocks until the context is cancelled or the watcher fails.
func (w *Watcher) Watch(ctx context.Context) error {
	logger := xlog.WithComponent("watcher")

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Watching the directory also catches files replaced by rename
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("watching data dir")

	timers := make(map[domain.Kind]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			kind, format, ok := filestore.KindForPath(event.Name)
			if !ok || format != "json" {
				continue
			}

			if t, exists := timers[kind]; exists {
				t.Stop()
			}
			timers[kind] = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				logger.Info().Str("kind", string(kind)).Msg("shape file changed")
				w.onChange(kind)
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
