package watch

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"chordsuggest/backend/internal/log"
)

// relevantOps are the operations that mean the model on disk no longer
// matches the one held in memory.
const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// ModelWatcher reports changes to the model file on disk. It never reloads the
// model; the served model stays the one loaded at startup.
type ModelWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	started bool
	done    chan struct{}
}

// NewModelWatcher creates a watcher for the model file at path.
func NewModelWatcher(path string) (*ModelWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve model path: %w", err)
	}
	fsnWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &ModelWatcher{
		watcher: fsnWatcher,
		path:    abs,
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched so that atomic
// replacements (write to temp file, rename over) are seen too. onChange may be
// nil; it runs on the watcher goroutine.
func (w *ModelWatcher) Start(onChange func(fsnotify.Event)) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	log.InfoLogger.Printf("👀 Watching model file: %s", w.path)

	w.started = true
	go func() {
		defer close(w.done)
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path || event.Op&relevantOps == 0 {
					continue
				}
				log.InfoLogger.Printf("⚠️ Model file changed on disk (%s); restart the server to serve the new model", event.Op)
				if onChange != nil {
					onChange(event)
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.ErrorLogger.Printf("🔥 Watcher error: %v", err)
			}
		}
	}()
	return nil
}

// Close stops the watcher and waits for its goroutine to exit if it was started.
func (w *ModelWatcher) Close() error {
	err := w.watcher.Close()
	if w.started {
		<-w.done
	}
	return err
}
