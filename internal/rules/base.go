package rules

import (
	"path"

	"go.trai.ch/cairn/internal/core/domain"
)

// base holds what every rule type shares.
type base struct {
	target domain.BuildTarget
	typ    string
	deps   []domain.BuildRule
	out    string
}

func newBase(node *domain.TargetNode, deps []domain.BuildRule, out string) base {
	return base{target: node.Target, typ: node.Type, deps: deps, out: out}
}

func (b *base) Target() domain.BuildTarget { return b.target }
func (b *base) Type() string               { return b.typ }
func (b *base) Deps() []domain.BuildRule   { return b.deps }
func (b *base) Output() string             { return b.out }

// outputPath returns the project-relative path of the rule's output.
func (b *base) outputPath(resolver domain.SourcePathResolver) string {
	return path.Join(resolver.OutputDirFor(b.target), b.out)
}

func resolveAll(resolver domain.SourcePathResolver, paths []domain.SourcePath) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if member, ok := p.(domain.ArchiveMemberSourcePath); ok {
			out = append(out, resolver.ArchiveMemberPath(member).String())
			continue
		}
		out = append(out, resolver.RelativePath(p))
	}
	return out
}
