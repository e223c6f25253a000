package domain

import (
	"iter"
	"maps"
	"slices"
)

// ActionGraph is the set of materialized rules derived from a target graph.
// It is immutable once built and doubles as the resolver for the rules it holds.
type ActionGraph struct {
	rules map[BuildTarget]BuildRule
}

// NewActionGraph indexes rules by target.
func NewActionGraph(rules []BuildRule) *ActionGraph {
	g := &ActionGraph{rules: make(map[BuildTarget]BuildRule, len(rules))}
	for _, r := range rules {
		g.rules[r.Target()] = r
	}
	return g
}

// Rule returns the rule for a target.
func (g *ActionGraph) Rule(target BuildTarget) (BuildRule, error) {
	r, ok := g.rules[target]
	if !ok {
		return nil, WithMeta(ErrTargetNotFound, "target", target.String())
	}
	return r, nil
}

// Rules yields every rule sorted by target.
func (g *ActionGraph) Rules() iter.Seq[BuildRule] {
	return func(yield func(BuildRule) bool) {
		for _, target := range SortBuildTargets(slices.Collect(maps.Keys(g.rules))) {
			if !yield(g.rules[target]) {
				return
			}
		}
	}
}

// Len returns the number of rules.
func (g *ActionGraph) Len() int {
	return len(g.rules)
}
