// Package watcher implements file system watching for moor's watch mode.
//
// A Watcher streams change events for the workspace settings file and the
// roots of local repositories; the Debouncer coalesces bursts of events
// into a single re-resolution trigger.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/moor/internal/core/ports"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipDirectories are directory names that are never watched. The workspace
// cache lives under .moor; events from our own cache writes must not feed
// back into the watch loop.
var skipDirectories = map[string]bool{
	".git":  true,
	".jj":   true,
	".moor": true,
}

const eventChannelBuffer = 100

// Watcher implements file system watching using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	events    chan ports.WatchEvent
	log       ports.Logger
}

// NewWatcher creates a new file system watcher.
func NewWatcher(log ports.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		log:       log,
	}, nil
}

// Start begins watching the given root directories recursively.
func (w *Watcher) Start(ctx context.Context, roots ...string) error {
	for _, root := range roots {
		for dir := range w.directories(root) {
			if err := w.fsWatcher.Add(dir); err != nil {
				return err
			}
		}
	}

	go w.pumpEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// directories walks the tree below root and yields every watchable directory.
func (w *Watcher) directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Skip unreadable entries and keep walking.
				return nil //nolint:nilerr // the walk continues past entries we cannot read
			}
			if !d.IsDir() {
				return nil
			}
			if skipDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// pumpEvents converts raw fsnotify events into ports.WatchEvent values.
func (w *Watcher) pumpEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			converted := convert(event)
			if converted == nil {
				continue
			}

			select {
			case w.events <- *converted:
			case <-ctx.Done():
				return
			}

			// New directories join the watch set as they appear, so
			// revisions published into fresh org/name trees are seen.
			if converted.Operation == ports.OpCreate {
				w.watchNewDirectory(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error: " + err.Error())
		}
	}
}

// watchNewDirectory adds a freshly created directory tree to the watch set.
func (w *Watcher) watchNewDirectory(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || skipDirectories[info.Name()] {
		return
	}
	for dir := range w.directories(path) {
		_ = w.fsWatcher.Add(dir)
	}
}

// convert maps an fsnotify event onto a ports.WatchEvent. Write wins over
// Create when both bits are set; chmod-only events are dropped.
func convert(event fsnotify.Event) *ports.WatchEvent {
	switch {
	case event.Op.Has(fsnotify.Write):
		return &ports.WatchEvent{Path: event.Name, Operation: ports.OpWrite}
	case event.Op.Has(fsnotify.Create):
		return &ports.WatchEvent{Path: event.Name, Operation: ports.OpCreate}
	case event.Op.Has(fsnotify.Remove):
		return &ports.WatchEvent{Path: event.Name, Operation: ports.OpRemove}
	case event.Op.Has(fsnotify.Rename):
		return &ports.WatchEvent{Path: event.Name, Operation: ports.OpRename}
	default:
		return nil
	}
}
