// Package rules turns target nodes into build rules. Each rule type registers a Description that
// decodes the node's arguments and materializes the rule.
package rules

import (
	"maps"
	"slices"

	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/zerr"
)

// Description materializes one rule type.
type Description interface {
	// Type is the value of a target's `type` field this description handles.
	Type() string
	// Create builds the rule for node. deps holds the node's dependencies, already materialized
	// and sorted by target.
	Create(node *domain.TargetNode, deps []domain.BuildRule) (domain.BuildRule, error)
}

var _ ports.RuleTransformer = (*Registry)(nil)

// Registry dispatches target nodes to the description registered for their type.
type Registry struct {
	descriptions map[string]Description
}

// NewRegistry creates a registry holding descriptions.
func NewRegistry(descriptions ...Description) *Registry {
	r := &Registry{descriptions: make(map[string]Description, len(descriptions))}
	for _, d := range descriptions {
		r.descriptions[d.Type()] = d
	}
	return r
}

// DefaultRegistry holds every built-in rule type.
func DefaultRegistry() *Registry {
	return NewRegistry(GenruleDescription{}, ExportFileDescription{}, CompileDescription{})
}

// Types returns the registered rule types, sorted.
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.descriptions))
}

// Transform materializes node. Every dependency must already be resolvable.
func (r *Registry) Transform(node *domain.TargetNode, resolver domain.RuleResolver) (domain.BuildRule, error) {
	desc, ok := r.descriptions[node.Type]
	if !ok {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrUnknownRuleType, "no description registered"),
			"type", node.Type), "target", node.Target.String())
	}

	deps := make([]domain.BuildRule, 0, len(node.Deps))
	for _, target := range domain.SortBuildTargets(slices.Clone(node.Deps)) {
		dep, err := resolver.Rule(target)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "dependency was not materialized"), "target", node.Target.String())
		}
		deps = append(deps, dep)
	}
	return desc.Create(node, deps)
}
