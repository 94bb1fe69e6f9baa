package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch mirrors c-goetz-hibercounter's config_watch.go: it watches path for
// writes/renames and re-decodes on change, delivering fresh Tuning values
// on tunings and errors on errs until done is closed. This is strictly an
// editor-class gesture (spec.md §5's "reload defaults") — nothing here
// touches the audio thread directly; the caller applies a received Tuning
// via ApplyToStore.
func Watch(path string, tunings chan<- Tuning, errs chan<- error, done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: creating watcher: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				t, err := Load(path)
				if err != nil {
					errs <- err
					continue
				}
				tunings <- t
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				errs <- err
			case <-done:
				return
			}
		}
	}()

	return watcher.Add(path)
}
