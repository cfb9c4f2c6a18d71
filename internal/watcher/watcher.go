// Package watcher reloads the emotion override file when it changes on disk.
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Akuma-real/memegate/internal/bus"
	"github.com/Akuma-real/memegate/internal/emotion"
	. "github.com/Akuma-real/memegate/internal/logging"
)

const debounce = 500 * time.Millisecond

// Watcher monitors the meme root for changes to the override file and
// reloads the registry, debounced.
type Watcher struct {
	watcher  *fsnotify.Watcher
	registry *emotion.Registry
	target   string // override file path being watched

	mu           sync.Mutex
	pendingTimer *time.Timer

	stopCh chan struct{}
}

// New creates a watcher over the registry's override file. The parent
// directory must exist (the meme store creates it at startup).
func New(registry *emotion.Registry) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	target := registry.OverridePath()
	// Watch the directory: editors replace files, which would drop a watch
	// on the file itself.
	if err := fsWatcher.Add(filepath.Dir(target)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return &Watcher{
		watcher:  fsWatcher,
		registry: registry,
		target:   target,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Spawns a goroutine internally.
func (w *Watcher) Start() {
	L_debug("watcher: watching override file", "path", w.target)
	go w.run()
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			L_warn("watcher: error", "error", err)

		case <-w.stopCh:
			return
		}
	}
}

// trigger schedules a debounced reload.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pendingTimer != nil {
		w.pendingTimer.Stop()
	}
	w.pendingTimer = time.AfterFunc(debounce, w.reload)
}

func (w *Watcher) reload() {
	if err := w.registry.Reload(); err != nil {
		if os.IsNotExist(err) {
			L_debug("watcher: override file removed", "path", w.target)
			return
		}
		L_warn("watcher: reload failed, keeping previous table", "error", err)
		return
	}

	L_info("watcher: emotions reloaded", "path", w.target)
	bus.Publish(bus.TopicEmotionsReloaded, nil)
}
