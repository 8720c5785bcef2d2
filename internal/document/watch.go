package document

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
)

// Watch signals on the returned channel whenever the file at path is
// written or recreated. The parent directory is watched so editors that
// replace the file on save are seen too. The channel closes when ctx ends.
func Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Debug("watching document", "path", abs)

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Error("failed to close watcher", "dir", dir, "error", err)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				log.Debug("document changed", "file", event.Name, "event", event.Op)
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug("watch error", "dir", dir, "error", err)
			}
		}
	}()
	return changes, nil
}
