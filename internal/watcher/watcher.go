// Package watcher watches scaffold directories for changes and drives
// re-generation with intelligent debouncing, so a burst of editor saves
// produces one regeneration instead of many.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conneroisu/plategen/internal/logging"
)

// ScaffoldWatcher watches for file changes with debouncing.
type ScaffoldWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	logger    logging.Logger
	mutex     sync.RWMutex
}

// ChangeEvent represents a file change event.
type ChangeEvent struct {
	Path    string
	ModTime time.Time
}

// FileFilter determines if a file should be watched.
type FileFilter func(path string) bool

// ChangeHandler handles a debounced batch of file change events.
type ChangeHandler func(events []ChangeEvent) error

// debouncer groups rapid file changes together.
type debouncer struct {
	delay   time.Duration
	events  chan ChangeEvent
	output  chan []ChangeEvent
	timer   *time.Timer
	pending []ChangeEvent
	mutex   sync.Mutex
}

// NewScaffoldWatcher creates a watcher with the given debounce delay.
func NewScaffoldWatcher(debounceDelay time.Duration, logger logging.Logger) (*ScaffoldWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}

	return &ScaffoldWatcher{
		watcher: watcher,
		debouncer: &debouncer{
			delay:   debounceDelay,
			events:  make(chan ChangeEvent, 100),
			output:  make(chan []ChangeEvent, 10),
			pending: make([]ChangeEvent, 0),
		},
		filters:  make([]FileFilter, 0),
		handlers: make([]ChangeHandler, 0),
		logger:   logger.WithComponent("watcher"),
	}, nil
}

// AddFilter adds a file filter.
func (sw *ScaffoldWatcher) AddFilter(filter FileFilter) {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()
	sw.filters = append(sw.filters, filter)
}

// AddHandler adds a change handler.
func (sw *ScaffoldWatcher) AddHandler(handler ChangeHandler) {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()
	sw.handlers = append(sw.handlers, handler)
}

// AddRecursive adds a directory and all subdirectories to watch.
func (sw *ScaffoldWatcher) AddRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return sw.watcher.Add(path)
		}

		return nil
	})
}

// Start starts the watcher goroutines; they exit when ctx is cancelled.
func (sw *ScaffoldWatcher) Start(ctx context.Context) {
	go sw.debouncer.start(ctx)
	go sw.processEvents(ctx)
	go sw.watchLoop(ctx)
}

// Stop stops the watcher and cleans up resources.
func (sw *ScaffoldWatcher) Stop() error {
	if sw.debouncer.timer != nil {
		sw.debouncer.timer.Stop()
	}

	return sw.watcher.Close()
}

func (sw *ScaffoldWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			sw.handleFsnotifyEvent(event)
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			// Log and continue watching.
			sw.logger.Warn(ctx, err, "watch error")
		}
	}
}

func (sw *ScaffoldWatcher) handleFsnotifyEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	sw.mutex.RLock()
	filters := sw.filters
	sw.mutex.RUnlock()

	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	change := ChangeEvent{Path: event.Name}
	if info, err := os.Stat(event.Name); err == nil {
		change.ModTime = info.ModTime()
	}

	select {
	case sw.debouncer.events <- change:
	default:
		// Channel full, skip this event.
	}
}

func (sw *ScaffoldWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-sw.debouncer.output:
			sw.mutex.RLock()
			handlers := sw.handlers
			sw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(events); err != nil {
					sw.logger.Error(ctx, err, "change handler failed")
				}
			}
		}
	}
}

func (d *debouncer) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.addEvent(event)
		}
	}
}

func (d *debouncer) addEvent(event ChangeEvent) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = append(d.pending, event)

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.pending) == 0 {
		return
	}

	// Deduplicate events by path.
	eventMap := make(map[string]ChangeEvent)
	for _, event := range d.pending {
		eventMap[event.Path] = event
	}

	events := make([]ChangeEvent, 0, len(eventMap))
	for _, event := range eventMap {
		events = append(events, event)
	}

	select {
	case d.output <- events:
	default:
		// Channel full, skip.
	}

	d.pending = d.pending[:0]
}

// Common file filters

// NoHiddenFilter skips dotfiles and editor swap files.
func NoHiddenFilter(path string) bool {
	base := filepath.Base(path)

	return !strings.HasPrefix(base, ".") && !strings.HasSuffix(base, "~") && !strings.HasSuffix(base, ".swp")
}

// NoBuildFilter skips generated session output.
func NoBuildFilter(path string) bool {
	return !strings.Contains(path, string(filepath.Separator)+"build"+string(filepath.Separator))
}
