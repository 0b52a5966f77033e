package session

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kartel/whygo/internal/logging"
)

// DefaultDebounce coalesces the burst of events an atomic rename produces.
const DefaultDebounce = 50 * time.Millisecond

// Watcher reloads the manager when the session file changes on disk, so a
// `whygo logout` in another terminal signs out a running dashboard.
type Watcher struct {
	manager  *Manager
	path     string
	debounce time.Duration
	logger   *logging.Logger

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewWatcher watches the session file at path on behalf of manager.
func NewWatcher(manager *Manager, path string, logger *logging.Logger) *Watcher {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Watcher{
		manager:  manager,
		path:     path,
		debounce: DefaultDebounce,
		logger:   logger,
	}
}

// Start begins watching. The directory is watched rather than the file,
// because the file is replaced by rename on every save.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return err
	}

	w.watcher = fw
	w.stopCh = make(chan struct{})
	w.running = true
	w.wg.Add(1)
	go w.watchLoop()
	return nil
}

// Stop ends watching and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	_ = w.watcher.Close()
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	timer := time.NewTimer(0)
	<-timer.C
	pending := false

	for {
		select {
		case <-w.stopCh:
			timer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if pending {
				pending = false
				w.manager.Reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("session watcher error", "error", err)
		}
	}
}
