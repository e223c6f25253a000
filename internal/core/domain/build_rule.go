package domain

import (
	"path"
)

// RuleKeySink receives the fields of a rule or appendable, one call per field, in a fixed order.
type RuleKeySink interface {
	Set(field string, value any) RuleKeySink
}

// Appendable is any value that contributes its own fields to a rule key.
// Implementations must call Set in the same order every time.
type Appendable interface {
	AppendToRuleKey(sink RuleKeySink)
}

// Step is one unit of work the execution engine runs to produce a rule's output.
type Step struct {
	Description string
	Command     []string
	Env         map[string]string
}

// BuildRule is a materialized node of the action graph.
type BuildRule interface {
	Appendable
	Target() BuildTarget
	Type() string
	// Deps returns the rules this rule depends on, sorted by target.
	Deps() []BuildRule
	// Inputs returns the source paths the rule reads.
	Inputs() []SourcePath
	// Output returns the rule's output, relative to its output directory, or "" if it has none.
	Output() string
	// Steps describes how the execution engine produces the output from the inputs.
	Steps(resolver SourcePathResolver) []Step
}

// SupportsDependencyFileRuleKey is implemented by rules that record which of their possible
// inputs an execution actually read.
type SupportsDependencyFileRuleKey interface {
	BuildRule
	UseDependencyFileRuleKeys() bool
	// PossibleInputSourcePaths returns every input the dependency file may refer to. A nil
	// result covers every input; an archive covers its members.
	PossibleInputSourcePaths() []SourcePath
}

// ArchiveDependencySupplier is a key value whose archives contribute their members as inputs.
type ArchiveDependencySupplier interface {
	Archives() []SourcePath
}

// RuleResolver returns already materialized rules.
type RuleResolver interface {
	Rule(target BuildTarget) (BuildRule, error)
}

// SourcePathResolver maps source paths to project-relative paths.
type SourcePathResolver struct {
	OutputDir string
}

// OutputDirFor returns the directory a target writes its outputs to.
func (r SourcePathResolver) OutputDirFor(target BuildTarget) string {
	return path.Join(r.OutputDir, target.BasePath(), target.ShortName())
}

// RelativePath resolves a source path. Archive members resolve to their archive.
func (r SourcePathResolver) RelativePath(p SourcePath) string {
	switch sp := p.(type) {
	case PathSourcePath:
		return sp.Path
	case BuildTargetSourcePath:
		return path.Join(r.OutputDirFor(sp.Target), sp.Path)
	case ArchiveMemberSourcePath:
		return r.RelativePath(sp.Archive)
	default:
		return p.String()
	}
}

// ArchiveMemberPath resolves an archive member.
func (r SourcePathResolver) ArchiveMemberPath(p ArchiveMemberSourcePath) ArchiveMemberPath {
	return ArchiveMemberPath{
		ArchivePath: r.RelativePath(p.Archive),
		MemberPath:  p.Member,
	}
}

// DependencyFileEntry returns the dep-file form of a source path.
func (r SourcePathResolver) DependencyFileEntry(p SourcePath) DependencyFileEntry {
	if member, ok := p.(ArchiveMemberSourcePath); ok {
		resolved := r.ArchiveMemberPath(member)
		return DependencyFileEntry{PathToFile: resolved.ArchivePath, PathWithinArchive: resolved.MemberPath}
	}
	return DependencyFileEntry{PathToFile: r.RelativePath(p)}
}
