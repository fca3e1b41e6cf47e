package daemon

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/nodech/sway-matiane/internal/logging"
)

// watchConfig reports on-disk changes to the loaded configuration file.
// Configuration is read once at startup by design, so changes are only
// surfaced in the log. Watch failures are not fatal.
func watchConfig(ctx context.Context, path string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.WithError(err).Warn("config watch unavailable")
		return
	}
	defer watcher.Close()

	// Watch the directory: editors typically replace the file, which
	// would invalidate a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logging.WithError(err).Warn("config watch unavailable")
		return
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Name != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				logging.Warnf("configuration file changed on disk, restart to apply")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.WithError(err).Warn("config watch error")
		case <-ctx.Done():
			return
		}
	}
}
