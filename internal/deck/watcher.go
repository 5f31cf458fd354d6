package deck

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lingot-dev/lingot/pkg/models"
)

// debounceDelay lets a burst of editor events settle before re-parsing.
const debounceDelay = 250 * time.Millisecond

// Watcher re-parses a deck file whenever it changes on disk. Editors often
// replace files by rename, so the parent directory is watched and events are
// filtered down to the deck's own name.
type Watcher struct {
	path   string
	notify func([]models.Card, ParseStats, error)

	watcher *fsnotify.Watcher
	done    chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher starts watching the deck at path. After each settled burst of
// file events the deck is re-parsed and notify is called, with the new cards
// on success or the parse error otherwise; on error the caller keeps its
// current deck. Close stops the watcher. notify runs on the watcher's
// goroutine.
func NewWatcher(path string, notify func([]models.Card, ParseStats, error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving deck path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("starting deck watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching deck directory: %w", err)
	}

	w := &Watcher{
		path:    abs,
		notify:  notify,
		watcher: fw,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case <-w.watcher.Errors:
			// Keep watching.
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}
	cards, stats, err := Load(w.path)
	w.notify(cards, stats, err)
}

// Close stops the watcher and drops any pending reload.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}
}
