package rulekeys

import (
	"iter"

	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
)

var _ ports.RuleKeyFactory = (*DefaultFactory)(nil)

// DefaultFactory keys a rule from its own fields, the content of every input it reads and the
// keys of the rules it depends on.
type DefaultFactory struct {
	options
	loader ports.FileHashLoader
	paths  domain.SourcePathResolver
	rules  domain.RuleResolver
	logger ports.Logger

	// contentAgnostic folds input locations instead of input content.
	contentAgnostic bool
}

// NewDefaultFactory creates a factory that reads input digests from loader and resolves the
// producers of generated inputs through rules.
func NewDefaultFactory(
	loader ports.FileHashLoader,
	paths domain.SourcePathResolver,
	rules domain.RuleResolver,
	logger ports.Logger,
	opts ...Option,
) *DefaultFactory {
	return &DefaultFactory{
		options: newOptions(opts),
		loader:  loader,
		paths:   paths,
		rules:   rules,
		logger:  logger,
	}
}

// NewContentAgnosticFactory creates a factory whose keys depend on the structure of the action
// graph only. Two graphs built from the same target graph produce the same keys regardless of
// what is on disk.
func NewContentAgnosticFactory(
	paths domain.SourcePathResolver,
	rules domain.RuleResolver,
	logger ports.Logger,
	opts ...Option,
) *DefaultFactory {
	f := NewDefaultFactory(nil, paths, rules, logger, opts...)
	f.contentAgnostic = true
	return f
}

// Build computes the key of one rule.
func (f *DefaultFactory) Build(rule domain.BuildRule) (domain.RuleKey, error) {
	return f.newComputation().ruleKey(rule, f.tracing)
}

// BuildAll computes the keys of many rules, sharing the keys of common dependencies. It stops at
// the first rule that cannot be keyed.
func (f *DefaultFactory) BuildAll(rules iter.Seq[domain.BuildRule]) (map[domain.BuildTarget]domain.RuleKey, error) {
	keys := make(map[domain.BuildTarget]domain.RuleKey)
	for rule, res := range f.Each(rules) {
		if res.Err != nil {
			return nil, res.Err
		}
		keys[rule.Target()] = res.Key
	}
	return keys, nil
}

// Result is the outcome of keying one rule.
type Result struct {
	Key domain.RuleKey
	Err error
}

// Each keys rules in order within one computation. A rule that fails does not stop the others.
func (f *DefaultFactory) Each(rules iter.Seq[domain.BuildRule]) iter.Seq2[domain.BuildRule, Result] {
	return func(yield func(domain.BuildRule, Result) bool) {
		c := f.newComputation()
		for rule := range rules {
			key, err := c.ruleKey(rule, f.tracing)
			if !yield(rule, Result{Key: key, Err: err}) {
				return
			}
		}
	}
}

func (f *DefaultFactory) newComputation() *defaultComputation {
	return &defaultComputation{
		f:           f,
		rules:       make(map[domain.BuildTarget]domain.RuleKey),
		visiting:    make(map[domain.BuildTarget]bool),
		appendables: make(map[identity]domain.RuleKey),
	}
}

// defaultComputation memoizes the keys seen while computing one or more top-level keys.
type defaultComputation struct {
	f           *DefaultFactory
	rules       map[domain.BuildTarget]domain.RuleKey
	visiting    map[domain.BuildTarget]bool
	appendables map[identity]domain.RuleKey
}

func (c *defaultComputation) ruleKey(rule domain.BuildRule, tracing bool) (domain.RuleKey, error) {
	target := rule.Target()
	if key, ok := c.rules[target]; ok && (!tracing || key.Trace != nil) {
		return key, nil
	}
	if c.visiting[target] {
		return domain.RuleKey{}, domain.WithMeta(domain.ErrCycleDetected, "target", target.String())
	}
	c.visiting[target] = true
	defer delete(c.visiting, target)

	b := newBuilder(c, c.f.logger, c.f.seed, tracing)
	identify(b, rule, c.f.seed)
	rule.AppendToRuleKey(b)
	b.Set("cairn.deps", rule.Deps())
	key, err := b.build()
	if err != nil {
		return domain.RuleKey{}, domain.WithMeta(err, "target", target.String())
	}
	c.rules[target] = key
	return key, nil
}

func (c *defaultComputation) sourcePath(b *Builder, p domain.SourcePath) error {
	if generated, ok := p.(domain.BuildTargetSourcePath); ok {
		producer, err := c.f.rules.Rule(generated.Target)
		if err != nil {
			return err
		}
		if err := c.buildRule(b, producer); err != nil {
			return err
		}
		// The producer's key already covers the content of its outputs.
		b.putPathName(generated.Path)
		return nil
	}
	if c.f.contentAgnostic {
		b.putPathName(contentAgnosticPath(c.f.paths, p))
		return nil
	}
	return hashSourcePath(b, c.f.loader, c.f.paths, p)
}

func (c *defaultComputation) buildRule(b *Builder, r domain.BuildRule) error {
	key, err := c.ruleKey(r, false)
	if err != nil {
		return err
	}
	b.h.tag(tagRuleKey)
	b.h.putBytes(key.Hash[:])
	return nil
}

func (c *defaultComputation) appendable(b *Builder, a domain.Appendable) error {
	id, memoizable := identityOf(a)
	if memoizable {
		if key, ok := c.appendables[id]; ok && (!b.tracing || key.Trace != nil) {
			b.putSubKey(key)
			return nil
		}
	}
	sub := newBuilder(c, c.f.logger, c.f.seed, b.tracing)
	sub.setType(a)
	a.AppendToRuleKey(sub)
	key, err := sub.build()
	if err != nil {
		return err
	}
	if memoizable {
		c.appendables[id] = key
	}
	b.putSubKey(key)
	return nil
}

// archives folds whole archives. Only dependency file keys look at individual members.
func (c *defaultComputation) archives(b *Builder, s domain.ArchiveDependencySupplier) error {
	return b.setValue(s.Archives())
}
