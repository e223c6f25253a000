package ports

import "go.trai.ch/cairn/internal/core/domain"

// RuleTransformer materializes a target node into a build rule.
// Every dependency of the node is already available from resolver.
//
//go:generate mockgen -source=rule_keys.go -destination=mocks/mock_rule_keys.go -package=mocks
type RuleTransformer interface {
	Transform(node *domain.TargetNode, resolver domain.RuleResolver) (domain.BuildRule, error)
}

// RuleKeyFactory computes the structural key of a rule.
type RuleKeyFactory interface {
	Build(rule domain.BuildRule) (domain.RuleKey, error)
}

// DependencyFileRuleKeyFactory computes keys restricted to the inputs a rule actually used.
type DependencyFileRuleKeyFactory interface {
	// BuildManifestKey keys every input not covered by the dependency file and returns the
	// covered inputs without folding them.
	BuildManifestKey(rule domain.SupportsDependencyFileRuleKey) (domain.RuleKeyAndInputs, error)
	// Build keys the uncovered inputs plus the covered inputs listed in entries.
	Build(rule domain.SupportsDependencyFileRuleKey, entries []domain.DependencyFileEntry) (domain.RuleKeyAndInputs, error)
}
