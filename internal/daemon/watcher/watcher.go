// Package watcher turns file system activity in workstream trees into
// debounced change notifications for the daemon.
package watcher

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/botboard-io/botboard/internal/config"
)

// EventType represents the type of file system event.
type EventType int

// Event types for file system changes.
const (
	EventSourceChanged   EventType = iota // file inside a workstream tree
	EventActivityChanged                  // activity log or status file
	EventManifestChanged                  // workstreams.yaml or settings.yaml
)

func (t EventType) String() string {
	switch t {
	case EventSourceChanged:
		return "source"
	case EventActivityChanged:
		return "activity"
	case EventManifestChanged:
		return "manifest"
	default:
		return "unknown"
	}
}

// Event represents a debounced change. WorkstreamID is empty when the change
// concerns every workstream (shared status file, configuration).
type Event struct {
	Type         EventType
	WorkstreamID string
	Path         string
}

type tree struct {
	root     string
	logsDir  string
	skipDirs map[string]bool
}

// Watcher watches workstream roots, their logs directories and the global
// configuration directory.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	eventsChan chan Event
	done       chan struct{}
	delay      time.Duration

	mu    sync.RWMutex
	trees map[string]tree // workstream ID -> tree

	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// New creates a new file system watcher that coalesces bursts of changes
// within delay.
func New(delay time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	return &Watcher{
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 100),
		done:       make(chan struct{}),
		delay:      delay,
		trees:      make(map[string]tree),
		debounce:   make(map[string]*time.Timer),
	}, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start watches the global directory and begins processing events.
func (w *Watcher) Start() error {
	globalDir, err := config.GlobalDir()
	if err != nil {
		return err
	}
	if err := w.fsWatcher.Add(globalDir); err != nil {
		log.Printf("[watcher] Warning: failed to watch %s: %v", globalDir, err)
	}
	go w.processEvents()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.fsWatcher.Close()

	w.debounceMu.Lock()
	for key, timer := range w.debounce {
		timer.Stop()
		delete(w.debounce, key)
	}
	w.debounceMu.Unlock()
}

// WatchWorkstream watches every directory below root (except hidden and
// skipped ones) plus logsDir. A root that does not exist yet is picked up
// through its parent once created.
func (w *Watcher) WatchWorkstream(id, root, logsDir string, skipDirs []string) {
	t := tree{root: filepath.Clean(root), logsDir: filepath.Clean(logsDir), skipDirs: make(map[string]bool)}
	for _, d := range skipDirs {
		t.skipDirs[d] = true
	}

	w.mu.Lock()
	w.trees[id] = t
	w.mu.Unlock()

	if _, err := os.Stat(t.root); err != nil {
		if err := w.fsWatcher.Add(filepath.Dir(t.root)); err != nil {
			log.Printf("[watcher] Warning: %s missing and parent not watchable: %v", t.root, err)
		}
	} else {
		w.addTree(t.root, t.skipDirs)
	}
	if err := w.fsWatcher.Add(t.logsDir); err != nil && !os.IsNotExist(err) {
		log.Printf("[watcher] Warning: failed to watch logs dir %s: %v", t.logsDir, err)
	}
	log.Printf("[watcher] Watching workstream %s: %s (logs: %s)", id, t.root, t.logsDir)
}

// UnwatchAll drops every workstream watch; the global directory stays watched.
func (w *Watcher) UnwatchAll() {
	globalDir, _ := config.GlobalDir()
	for _, p := range w.fsWatcher.WatchList() {
		if p != globalDir {
			_ = w.fsWatcher.Remove(p)
		}
	}
	w.mu.Lock()
	w.trees = make(map[string]tree)
	w.mu.Unlock()
}

func (w *Watcher) addTree(root string, skip map[string]bool) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || skip[d.Name()]) {
			return fs.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			log.Printf("[watcher] Warning: failed to watch %s: %v", path, err)
		}
		return nil
	})
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		}
	}
}

// handleEvent classifies a raw event and schedules a debounced notification.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	ev, ok := w.classify(event.Name)
	if !ok {
		return
	}

	// New directories inside a tree need their own watches.
	if ev.Type == EventSourceChanged && event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.mu.RLock()
			t, known := w.trees[ev.WorkstreamID]
			w.mu.RUnlock()
			if known {
				w.addTree(event.Name, t.skipDirs)
			}
		}
	}

	key := ev.Type.String() + "/" + ev.WorkstreamID
	w.debounceEvent(key, func() {
		select {
		case w.eventsChan <- ev:
		case <-w.done:
		default:
			// Consumer is behind; a pending event already covers this change.
		}
	})
}

// classify maps a changed path to the workstream it belongs to.
func (w *Watcher) classify(path string) (Event, bool) {
	path = filepath.Clean(path)
	name := filepath.Base(path)
	dir := filepath.Dir(path)

	if globalDir, err := config.GlobalDir(); err == nil && dir == filepath.Clean(globalDir) {
		if name == config.WorkstreamsFileName || name == config.SettingsFileName {
			return Event{Type: EventManifestChanged, Path: path}, true
		}
		return Event{}, false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	for id, t := range w.trees {
		if dir == t.logsDir {
			switch {
			case name == id+"_activity.jsonl":
				return Event{Type: EventActivityChanged, WorkstreamID: id, Path: path}, true
			case name == "bot_status_real.json":
				return Event{Type: EventActivityChanged, Path: path}, true
			}
		}
	}
	for id, t := range w.trees {
		if path == t.root || strings.HasPrefix(path, t.root+string(filepath.Separator)) {
			return Event{Type: EventSourceChanged, WorkstreamID: id, Path: path}, true
		}
	}
	return Event{}, false
}

// debounceEvent debounces events sharing a key.
func (w *Watcher) debounceEvent(key string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[key]; ok {
		timer.Stop()
	}
	w.debounce[key] = time.AfterFunc(w.delay, func() {
		w.debounceMu.Lock()
		delete(w.debounce, key)
		w.debounceMu.Unlock()
		fn()
	})
}
