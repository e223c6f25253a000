package app

import (
	"context"
	"reflect"
	"sync"
	"time"

	"go.trai.ch/cairn/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/zerr"
)

// WatchOptions controls Watch.
type WatchOptions struct {
	Targets []string
	Keys    KeysOptions
	// Window is how long changes are coalesced before keys are recomputed.
	Window time.Duration
}

// Watch recomputes keys whenever the project changes, until ctx ends. report is called once up
// front and then after every batch of changes.
func (s *Session) Watch(ctx context.Context, opts WatchOptions, report func([]KeyReport, error)) error {
	if opts.Window <= 0 {
		opts.Window = watcher.DefaultDebounceWindow
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	recompute := func() {
		reports, err := s.Keys(ctx, opts.Targets, opts.Keys)
		report(reports, err)
	}

	mu.Lock()
	recompute()
	mu.Unlock()

	if err := s.app.watcher.Start(ctx, s.project.Settings.Root); err != nil {
		return zerr.Wrap(err, "failed to start file watcher")
	}
	defer func() {
		if err := s.app.watcher.Stop(); err != nil {
			s.app.logger.Error(zerr.Wrap(err, "failed to stop file watcher"))
		}
	}()

	debouncer := watcher.NewDebouncer(opts.Window, func(events []domain.WatchEvent) {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		s.apply(events)
		recompute()
	})

	for event := range s.app.watcher.Events() {
		s.graphs.InvalidateBasedOn(event)
		debouncer.Add(event)
	}
	return ctx.Err()
}

// apply invalidates the file hashes a batch of events made stale.
func (s *Session) apply(events []domain.WatchEvent) {
	for _, event := range events {
		s.app.logger.Debug("file changed", "kind", event.Kind.String(), "path", event.Path)
		switch {
		case event.Kind == domain.WatchEventOverflow:
			s.hashes.InvalidateAll()
		case event.Path == domain.ConfigFileName:
			s.hashes.Invalidate(event.Path)
			s.reload()
		default:
			s.hashes.Invalidate(event.Path)
		}
	}
}

// reload rereads the target graph. Settings changes need a new session.
func (s *Session) reload() {
	project, err := s.app.configLoader.Load(s.project.Settings.Root)
	if err != nil {
		s.app.logger.Error(zerr.Wrap(err, "failed to reload configuration, keeping the previous targets"))
		return
	}
	if !reflect.DeepEqual(project.Settings, s.project.Settings) {
		s.app.logger.Warn("settings changed, restart to apply them")
	}
	s.project = &domain.Project{Settings: s.project.Settings, Graph: project.Graph}
}
