// Package watcher turns file system notifications into project-relative invalidation events.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// defaultSkipDirectories are never watched.
var defaultSkipDirectories = []string{".git", ".jj"}

const eventChannelBuffer = 100

// Watcher implements recursive file system watching using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	skip      []string
	root      string
	events    chan domain.WatchEvent
}

// NewWatcher creates a watcher that also skips directories named in skip.
func NewWatcher(logger ports.Logger, skip ...string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}
	return &Watcher{
		fsWatcher: watcher,
		logger:    logger,
		skip:      append(slices.Clone(defaultSkipDirectories), skip...),
		events:    make(chan domain.WatchEvent, eventChannelBuffer),
	}, nil
}

// Start begins watching the given root directory recursively.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.root = filepath.Clean(root)

	for dir := range w.watchRecursively(w.root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of change events. It ends when the watcher stops.
func (w *Watcher) Events() iter.Seq[domain.WatchEvent] {
	return func(yield func(domain.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// watchRecursively walks the directory tree and yields all directories.
func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // Unreadable directories are skipped, not fatal
			}
			if d.IsDir() {
				if path != root && w.shouldSkip(d.Name()) {
					return fs.SkipDir
				}
				if !yield(path) {
					return filepath.SkipAll
				}
			}
			return nil
		})
	}
}

func (w *Watcher) shouldSkip(name string) bool {
	return slices.Contains(w.skip, name)
}

// processEvents converts raw fsnotify events until the context ends or the watcher closes.
//
//nolint:cyclop // One case per fsnotify channel plus directory re-registration
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := w.convertEvent(event)
			if !ok {
				continue
			}

			if !w.send(ctx, watchEvent) {
				return
			}

			// New directories are not covered by existing watches.
			if watchEvent.Kind == domain.WatchEventCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.shouldSkip(info.Name()) {
					for dir := range w.watchRecursively(event.Name) {
						_ = w.fsWatcher.Add(dir)
					}
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				if !w.send(ctx, domain.WatchEvent{Kind: domain.WatchEventOverflow}) {
					return
				}
				continue
			}
			w.logger.Error(zerr.Wrap(err, "file watcher error"))
		}
	}
}

func (w *Watcher) send(ctx context.Context, event domain.WatchEvent) bool {
	select {
	case w.events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

// convertEvent maps an fsnotify event to a project-relative watch event.
// Events outside the root or inside skipped directories are dropped.
func (w *Watcher) convertEvent(event fsnotify.Event) (domain.WatchEvent, bool) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return domain.WatchEvent{}, false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return domain.WatchEvent{}, false
	}
	if slices.ContainsFunc(strings.Split(rel, "/"), w.shouldSkip) {
		return domain.WatchEvent{}, false
	}

	kind, ok := classify(event.Op)
	if !ok {
		return domain.WatchEvent{}, false
	}
	return domain.WatchEvent{Kind: kind, Path: rel}, true
}

// classify maps fsnotify operations to event kinds. Renames are reported for the old name,
// so they count as deletions; the new name arrives as a separate create.
func classify(op fsnotify.Op) (domain.WatchEventKind, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return domain.WatchEventCreate, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return domain.WatchEventDelete, true
	case op.Has(fsnotify.Write), op.Has(fsnotify.Chmod):
		return domain.WatchEventModify, true
	default:
		return 0, false
	}
}
