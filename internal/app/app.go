// Package app implements the application layer for cairn.
package app

import (
	"context"
	"errors"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
	"go.trai.ch/cairn/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/cairn/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/cairn/internal/adapters/hashcache" //nolint:depguard // Wired in app layer
	"go.trai.ch/cairn/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/cairn/internal/engine/actiongraph"
	"go.trai.ch/zerr"
)

// App holds the process-wide collaborators. Everything that depends on the project root is
// created per Session.
type App struct {
	configLoader ports.ConfigLoader
	fs           afero.Fs
	logger       ports.Logger
	tracer       ports.Tracer
	metrics      *telemetry.Metrics
	progress     ports.Progress
	transformer  ports.RuleTransformer
	watcher      ports.Watcher
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	fsys afero.Fs,
	logger ports.Logger,
	tracer ports.Tracer,
	metrics *telemetry.Metrics,
	progress ports.Progress,
	transformer ports.RuleTransformer,
	watcher ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		fs:           fsys,
		logger:       logger,
		tracer:       tracer,
		metrics:      metrics,
		progress:     progress,
		transformer:  transformer,
		watcher:      watcher,
	}
}

// Open loads the project enclosing cwd and creates the caches serving it.
func (a *App) Open(cwd string) (*Session, error) {
	project, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	settings := project.Settings
	pfs := fs.NewProjectFilesystem(a.fs, settings.Root)
	hasher := fs.NewHasher(pfs, settings.ArchiveExtensions)
	meter := a.metrics.Meter(telemetry.InstrumentationName)

	common := []hashcache.Option{
		hashcache.WithMode(settings.HashCacheMode, settings.HashCacheLimit),
		hashcache.WithMeter(meter),
		hashcache.WithLogger(a.logger),
	}
	ignored := append(slices.Clone(settings.Ignore), settings.OutputDir)
	sources, err := hashcache.New(pfs, hasher, slices.Concat(common, []hashcache.Option{
		hashcache.WithName("sources"),
		hashcache.WithIgnore(hashcache.IgnorePrefixes(ignored...)),
	})...)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create source hash cache")
	}
	outputs, err := hashcache.New(pfs, hasher, slices.Concat(common, []hashcache.Option{
		hashcache.WithName("outputs"),
		hashcache.WithIgnore(hashcache.OnlyUnder(settings.OutputDir)),
	})...)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create output hash cache")
	}

	records, err := cas.NewStore(a.fs, filepath.Join(settings.Root, settings.OutputDir, cas.RecordsPath))
	if err != nil {
		return nil, err
	}

	paths := domain.SourcePathResolver{OutputDir: settings.OutputDir}
	graphs, err := actiongraph.New(a.transformer, paths, a.logger, a.tracer, actiongraph.WithMeter(meter))
	if err != nil {
		return nil, err
	}

	return &Session{
		app:     a,
		project: project,
		paths:   paths,
		hasher:  hasher,
		hashes:  hashcache.NewStacked(sources, outputs),
		records: records,
		graphs:  graphs,
	}, nil
}

// Counters returns the cache statistics recorded so far.
func (a *App) Counters(ctx context.Context) ([]telemetry.Counter, error) {
	return a.metrics.Counters(ctx)
}

// Close flushes progress output and stops the meter provider.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.progress.Close(), a.metrics.Shutdown(ctx))
}
