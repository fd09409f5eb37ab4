// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package policy

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/logging"
)

// Watcher reloads the policy file out of band when it changes on disk. A
// reload that fails to parse keeps the previous set active.
type Watcher struct {
	path   string
	store  *Store
	logger *logging.Logger

	fsw  *fsnotify.Watcher
	wg   sync.WaitGroup
	once sync.Once
}

// NewWatcher starts watching the policy file's directory. The directory is
// watched rather than the file so that editors and config management tools
// that replace the file are still observed.
func NewWatcher(path string, store *Store, logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.WithComponent("policy")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "fsnotify watcher")
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, errors.KindUnavailable, "watch %s", filepath.Dir(path))
	}

	w := &Watcher{path: path, store: store, logger: logger, fsw: fsw}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() {
	w.once.Do(func() { w.fsw.Close() })
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("policy watch error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	set, err := Load(w.path)
	if err != nil {
		w.logger.Error("policy reload rejected, keeping previous set", "file", w.path, "error", err)
		return
	}
	w.store.Replace(set)
	w.logger.Info("policies reloaded", "file", w.path, "count", set.Len())
}
