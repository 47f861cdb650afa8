package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/storyhub-org/storyhub/pkg/logging"
)

// IsImportFile reports whether name looks like an import document.
func IsImportFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Watch calls handle for every import file created or written in dir until
// ctx is done.
func Watch(ctx context.Context, dir string, handle func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !IsImportFile(event.Name) {
				continue
			}
			handle(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Log.WithError(err).Warn("import watcher error")
		case <-ctx.Done():
			return nil
		}
	}
}
