// Package actiongraph memoizes the transformation of a target graph into an action graph.
package actiongraph

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/zerr"
)

// InvalidationBuffer is the number of watch events the invalidation channel holds before
// further events are collapsed into a single forced miss.
const InvalidationBuffer = 256

// Miss reasons reported in logs and metrics.
const (
	ReasonEmpty         = "empty_cache"
	ReasonFilesystem    = "filesystem_change"
	ReasonGraphChanged  = "target_graph_changed"
	ReasonHashCollision = "hash_collision"
	ReasonSkipped       = "skip_cache"
)

// Options controls a single lookup.
type Options struct {
	// Parallel builds independent rules concurrently.
	Parallel bool
	// Parallelism bounds concurrent transforms. Zero means runtime.NumCPU.
	Parallelism int
	// CheckActionGraphs rebuilds the graph on every hit and fails if it differs from the cached one.
	CheckActionGraphs bool
	// SkipCache builds a throwaway graph and leaves the cache empty.
	SkipCache bool
}

// OptionsFromSettings returns the lookup options configured for a project.
func OptionsFromSettings(s domain.Settings) Options {
	return Options{
		Parallel:          s.ParallelActionGraph,
		Parallelism:       s.Parallelism,
		CheckActionGraphs: s.CheckActionGraphs,
		SkipCache:         s.SkipActionGraphCache,
	}
}

type entry struct {
	targetGraph *domain.TargetGraph
	actionGraph *domain.ActionGraph
	digest      uint64
}

// Cache holds at most one action graph: the one built for the last target graph it was asked
// about. Invalidation may come from any goroutine and never blocks.
type Cache struct {
	transformer ports.RuleTransformer
	paths       domain.SourcePathResolver
	logger      ports.Logger
	tracer      ports.Tracer

	invalidations chan domain.WatchEvent
	overflowed    atomic.Bool

	mu   sync.Mutex
	last *entry

	meter  metric.Meter
	hits   metric.Int64Counter
	misses metric.Int64Counter
}

// Option configures a Cache.
type Option func(*Cache)

// WithMeter counts hits and misses on meter.
func WithMeter(meter metric.Meter) Option {
	return func(c *Cache) {
		c.meter = meter
	}
}

// New creates an empty cache. paths resolves rule inputs for the consistency check.
func New(
	transformer ports.RuleTransformer,
	paths domain.SourcePathResolver,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...Option,
) (*Cache, error) {
	c := &Cache{
		transformer:   transformer,
		paths:         paths,
		logger:        logger,
		tracer:        tracer,
		meter:         noop.NewMeterProvider().Meter("cairn"),
		invalidations: make(chan domain.WatchEvent, InvalidationBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}

	var err error
	c.hits, err = c.meter.Int64Counter("cairn.actiongraph.hits",
		metric.WithDescription("Action graph lookups served from the cache"),
		metric.WithUnit("{lookup}"))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create hit counter")
	}
	c.misses, err = c.meter.Int64Counter("cairn.actiongraph.misses",
		metric.WithDescription("Action graph lookups that rebuilt the graph"),
		metric.WithUnit("{lookup}"))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create miss counter")
	}
	return c, nil
}

// Invalidations returns the channel a file watcher feeds. Events that change the shape of the
// graph force the next lookup to rebuild.
func (c *Cache) Invalidations() chan<- domain.WatchEvent {
	return c.invalidations
}

// InvalidateBasedOn records event without blocking. In-place modifications are ignored; rule
// keys cover content.
func (c *Cache) InvalidateBasedOn(event domain.WatchEvent) {
	if !event.InvalidatesGraphShape() {
		return
	}
	select {
	case c.invalidations <- event:
	default:
		c.overflowed.Store(true)
	}
}

// Invalidate empties the cache.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = nil
}

// drainInvalidations consumes every pending event and returns the first one that invalidates
// the graph shape.
func (c *Cache) drainInvalidations() (domain.WatchEvent, bool) {
	var (
		first domain.WatchEvent
		found bool
	)
	if c.overflowed.Swap(false) {
		first, found = domain.WatchEvent{Kind: domain.WatchEventOverflow}, true
	}
	for {
		select {
		case event := <-c.invalidations:
			if !found && event.InvalidatesGraphShape() {
				first, found = event, true
			}
		default:
			return first, found
		}
	}
}

// GetActionGraph returns the action graph for targetGraph, rebuilding it unless the cached one
// was built from an equal target graph and no shape-changing filesystem event arrived since.
func (c *Cache) GetActionGraph(
	ctx context.Context,
	targetGraph *domain.TargetGraph,
	opts Options,
) (*domain.ActionGraph, error) {
	ctx, span := c.tracer.Start(ctx, "actiongraph.get")
	defer span.End()

	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if event, ok := c.drainInvalidations(); ok {
		c.logger.Info("action graph cache miss", "reason", "filesystem change",
			"event", event.Kind.String(), "path", event.Path)
		c.last = nil
		c.recordMiss(ctx, span, ReasonFilesystem)
		return c.rebuild(ctx, targetGraph, opts)
	}

	if opts.SkipCache {
		c.last = nil
		c.recordMiss(ctx, span, ReasonSkipped)
		return c.build(ctx, targetGraph, opts)
	}

	if c.last != nil && c.last.targetGraph.Equal(targetGraph) {
		c.hits.Add(ctx, 1)
		span.SetAttribute("hit", true)
		if opts.CheckActionGraphs {
			if err := c.check(ctx, targetGraph, c.last.actionGraph, opts); err != nil {
				c.last = nil
				span.RecordError(err)
				return nil, err
			}
		}
		return c.last.actionGraph, nil
	}

	c.recordMiss(ctx, span, c.missReason(targetGraph))
	return c.rebuild(ctx, targetGraph, opts)
}

func (c *Cache) missReason(targetGraph *domain.TargetGraph) string {
	if c.last == nil {
		c.logger.Info("action graph cache miss", "reason", "cache was empty")
		return ReasonEmpty
	}
	if targetGraphDigest(targetGraph) == c.last.digest {
		c.logger.Warn("action graph cache miss: target graph digest matched but the nodes differ",
			"digest", c.last.digest)
		return ReasonHashCollision
	}
	c.logger.Info("action graph cache miss", "reason", "target graph changed")
	return ReasonGraphChanged
}

func (c *Cache) recordMiss(ctx context.Context, span ports.Span, reason string) {
	c.misses.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	span.SetAttribute("hit", false)
	span.SetAttribute("reason", reason)
}

// rebuild replaces the cached entry. Must be called with mu held.
func (c *Cache) rebuild(ctx context.Context, targetGraph *domain.TargetGraph, opts Options) (*domain.ActionGraph, error) {
	actionGraph, err := c.build(ctx, targetGraph, opts)
	if err != nil {
		return nil, err
	}
	if !opts.SkipCache {
		c.last = &entry{
			targetGraph: targetGraph,
			actionGraph: actionGraph,
			digest:      targetGraphDigest(targetGraph),
		}
	}
	return actionGraph, nil
}
