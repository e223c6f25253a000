// Package rulekeys computes rule keys: SHA-256 fingerprints of everything that determines a rule's
// output. Each factory keeps its memo tables for the duration of a single computation, so a
// factory is safe for concurrent use and holds no state between calls.
package rulekeys

import (
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
)

// Option configures a factory.
type Option func(*options)

type options struct {
	seed    int
	tracing bool
}

// WithSeed mixes seed into every key. Changing it invalidates every key.
func WithSeed(seed int) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithTrace records the folded fields of every top-level key.
func WithTrace(enabled bool) Option {
	return func(o *options) {
		o.tracing = enabled
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// identify folds the fields every rule key starts with.
func identify(b *Builder, rule domain.BuildRule, seed int) {
	b.Set("name", rule.Target().String())
	b.Set("cairn.type", rule.Type())
	b.Set("cairn.version", seed)
	b.setType(rule)
}

// hashSourcePath folds a source path's resolved location and the digest of its content.
func hashSourcePath(b *Builder, loader ports.FileHashLoader, paths domain.SourcePathResolver, p domain.SourcePath) error {
	if member, ok := p.(domain.ArchiveMemberSourcePath); ok {
		resolved := paths.ArchiveMemberPath(member)
		digest, err := loader.GetArchiveMember(resolved)
		if err != nil {
			return err
		}
		b.putPath(resolved.String(), digest)
		return nil
	}
	rel := paths.RelativePath(p)
	digest, err := loader.Get(rel)
	if err != nil {
		return err
	}
	b.putPath(rel, digest)
	return nil
}

// contentAgnosticPath returns the location a source path resolves to, without reading it.
func contentAgnosticPath(paths domain.SourcePathResolver, p domain.SourcePath) string {
	if member, ok := p.(domain.ArchiveMemberSourcePath); ok {
		return paths.ArchiveMemberPath(member).String()
	}
	return paths.RelativePath(p)
}
