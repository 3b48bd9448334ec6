package catalog

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

// Watcher invalidates the catalog cache whenever the source file changes, so
// the next lookup reloads fresh data without a process restart.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	catalog *classify.Catalog
	logger  logging.Logger
	done    chan struct{}
}

// NewWatcher starts watching the catalog source file.  The parent directory
// is watched rather than the file itself: editors and atomic-rename writers
// replace the inode, which would silently detach a file-level watch.
func NewWatcher(path string, catalog *classify.Catalog, log logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create file watcher")
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to watch catalog directory")
	}

	w := &Watcher{
		watcher: fsw,
		path:    filepath.Clean(path),
		catalog: catalog,
		logger:  log.Named("catalog_watcher"),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.catalog.Invalidate()
			w.logger.Info("catalog source changed; cache invalidated",
				logging.String("path", w.path),
				logging.String("op", event.Op.String()),
			)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watcher error", logging.Err(err))
		}
	}
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

//Personal.AI order the ending
