package actiongraph

import (
	"context"
	"sync"

	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// ruleIndex resolves the rules materialized so far. It is shared by concurrent transforms.
type ruleIndex struct {
	mu    sync.RWMutex
	rules map[domain.BuildTarget]domain.BuildRule
	order []domain.BuildRule
}

func newRuleIndex(size int) *ruleIndex {
	return &ruleIndex{
		rules: make(map[domain.BuildTarget]domain.BuildRule, size),
		order: make([]domain.BuildRule, 0, size),
	}
}

func (r *ruleIndex) Rule(target domain.BuildTarget) (domain.BuildRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[target]
	if !ok {
		return nil, domain.WithMeta(domain.ErrTargetNotFound, "target", target.String())
	}
	return rule, nil
}

func (r *ruleIndex) add(rule domain.BuildRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.Target()] = rule
	r.order = append(r.order, rule)
}

func (c *Cache) transform(index *ruleIndex, node *domain.TargetNode) error {
	rule, err := c.transformer.Transform(node, index)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create build rule"), "target", node.Target.String())
	}
	index.add(rule)
	return nil
}

// buildSerially materializes rules in the graph's bottom-up order.
func (c *Cache) buildSerially(graph *domain.TargetGraph) (*domain.ActionGraph, error) {
	index := newRuleIndex(graph.Len())
	for node := range graph.Walk() {
		if err := c.transform(index, node); err != nil {
			return nil, err
		}
	}
	return domain.NewActionGraph(index.order), nil
}

// buildInParallel materializes each rule as soon as all of its dependencies exist.
func (c *Cache) buildInParallel(ctx context.Context, graph *domain.TargetGraph, parallelism int) (*domain.ActionGraph, error) {
	index := newRuleIndex(graph.Len())
	err := scheduler.NewScheduler(graph).Run(ctx, parallelism, func(_ context.Context, node *domain.TargetNode) error {
		return c.transform(index, node)
	})
	if err != nil {
		return nil, err
	}
	return domain.NewActionGraph(index.order), nil
}

func (c *Cache) build(ctx context.Context, graph *domain.TargetGraph, opts Options) (*domain.ActionGraph, error) {
	ctx, span := c.tracer.Start(ctx, "actiongraph.build")
	defer span.End()
	span.SetAttribute("parallel", opts.Parallel)
	span.SetAttribute("targets", graph.Len())

	var (
		actionGraph *domain.ActionGraph
		err         error
	)
	if opts.Parallel {
		actionGraph, err = c.buildInParallel(ctx, graph, opts.Parallelism)
	} else {
		actionGraph, err = c.buildSerially(graph)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return actionGraph, nil
}
