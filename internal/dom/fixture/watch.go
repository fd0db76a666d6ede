package fixture

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the document whenever its source file is written, until
// ctx is cancelled. The parent directory is watched so that editors that
// replace the file by rename are handled.
func (d *Document) Watch(ctx context.Context) error {
	if d.path == "" {
		return fmt.Errorf("fixture: document was not loaded from a file")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fixture: create watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(d.path)
	if err != nil {
		return fmt.Errorf("fixture: resolve %s: %w", d.path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("fixture: watch %s: %w", filepath.Dir(abs), err)
	}
	d.logger.Info("fixture: watching", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := d.Reload(); err != nil {
				d.logger.Warn("fixture: reload failed", "path", abs, "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			d.logger.Warn("fixture: watcher error", "err", err)
		}
	}
}
