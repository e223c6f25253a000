package hashcache

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/zerr"
)

var _ Engine = (*StatsEngine)(nil)

// StatsEngine counts hits, misses and invalidations of another engine.
type StatsEngine struct {
	inner Engine
	attrs metric.MeasurementOption

	hits          metric.Int64Counter
	misses        metric.Int64Counter
	invalidations metric.Int64Counter
}

// NewStatsEngine wraps inner, recording metrics on meter tagged with the engine name.
func NewStatsEngine(inner Engine, meter metric.Meter, name string) (*StatsEngine, error) {
	hits, err := meter.Int64Counter("cairn.hashcache.hits",
		metric.WithDescription("File hash lookups served from the cache"),
		metric.WithUnit("{lookup}"))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create hit counter")
	}
	misses, err := meter.Int64Counter("cairn.hashcache.misses",
		metric.WithDescription("File hash lookups that had to hash content"),
		metric.WithUnit("{lookup}"))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create miss counter")
	}
	invalidations, err := meter.Int64Counter("cairn.hashcache.invalidations",
		metric.WithDescription("Explicit invalidations of cached paths"),
		metric.WithUnit("{invalidation}"))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create invalidation counter")
	}
	return &StatsEngine{
		inner:         inner,
		attrs:         metric.WithAttributes(attribute.String("engine", name)),
		hits:          hits,
		misses:        misses,
		invalidations: invalidations,
	}, nil
}

// Get records whether the lookup was served from the cache.
func (e *StatsEngine) Get(p string) (domain.HashCodeAndFileType, error) {
	ctx := context.Background()
	if value, ok := e.inner.GetIfPresent(p); ok {
		e.hits.Add(ctx, 1, e.attrs)
		return value, nil
	}
	e.misses.Add(ctx, 1, e.attrs)
	return e.inner.Get(p)
}

// GetIfPresent delegates without recording.
func (e *StatsEngine) GetIfPresent(p string) (domain.HashCodeAndFileType, bool) {
	return e.inner.GetIfPresent(p)
}

// GetSize delegates without recording.
func (e *StatsEngine) GetSize(p string) (int64, error) {
	return e.inner.GetSize(p)
}

// Put delegates without recording.
func (e *StatsEngine) Put(p string, value domain.HashCodeAndFileType) {
	e.inner.Put(p, value)
}

// Invalidate records the invalidation.
func (e *StatsEngine) Invalidate(p string) {
	e.invalidations.Add(context.Background(), 1, e.attrs)
	e.inner.Invalidate(p)
}

// InvalidateAll records the invalidation.
func (e *StatsEngine) InvalidateAll() {
	e.invalidations.Add(context.Background(), 1, e.attrs)
	e.inner.InvalidateAll()
}

// Entries delegates.
func (e *StatsEngine) Entries() map[string]domain.HashCodeAndFileType {
	return e.inner.Entries()
}
