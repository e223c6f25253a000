package rulekeys

import (
	"slices"
	"strings"

	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DependencyFileRuleKeyFactory = (*DependencyFileFactory)(nil)

// DependencyFileFactory keys rules by the inputs a previous execution actually read.
// Source paths are collected while the rule appends its fields and folded afterwards, so the
// same rule can be keyed against different dependency files.
type DependencyFileFactory struct {
	options
	loader ports.FileHashLoader
	paths  domain.SourcePathResolver
	logger ports.Logger
}

// NewDependencyFileFactory creates a factory that reads input digests from loader.
func NewDependencyFileFactory(
	loader ports.FileHashLoader,
	paths domain.SourcePathResolver,
	logger ports.Logger,
	opts ...Option,
) *DependencyFileFactory {
	return &DependencyFileFactory{
		options: newOptions(opts),
		loader:  loader,
		paths:   paths,
		logger:  logger,
	}
}

// BuildManifestKey folds every input the dependency file cannot cover, plus the names of
// covered archive metadata members, and returns the covered inputs unfolded.
func (f *DependencyFileFactory) BuildManifestKey(rule domain.SupportsDependencyFileRuleKey) (domain.RuleKeyAndInputs, error) {
	b, inputs, err := f.collect(rule)
	if err != nil {
		return domain.RuleKeyAndInputs{}, err
	}
	b.Set("cairn.key_type", "manifest")

	covered := coveredBy(rule)
	var depFileInputs []domain.SourcePath
	var metadata []string
	for _, input := range inputs {
		if !covered(input) {
			if err := f.foldInput(b, input); err != nil {
				return domain.RuleKeyAndInputs{}, withTarget(err, rule)
			}
			continue
		}
		depFileInputs = append(depFileInputs, input)
		if member, ok := input.(domain.ArchiveMemberSourcePath); ok && domain.IsMetadataPath(member.Member) {
			metadata = append(metadata, input.String())
		}
	}
	slices.Sort(metadata)
	b.Set("cairn.dep_file_metadata_list", metadata)

	key, err := b.build()
	if err != nil {
		return domain.RuleKeyAndInputs{}, withTarget(err, rule)
	}
	return domain.RuleKeyAndInputs{Key: key, Inputs: depFileInputs}, nil
}

// Build folds every uncovered input plus the covered inputs named by entries. Every entry must
// match an input the rule still has.
func (f *DependencyFileFactory) Build(
	rule domain.SupportsDependencyFileRuleKey,
	entries []domain.DependencyFileEntry,
) (domain.RuleKeyAndInputs, error) {
	b, inputs, err := f.collect(rule)
	if err != nil {
		return domain.RuleKeyAndInputs{}, err
	}

	listed := make(map[domain.DependencyFileEntry]struct{}, len(entries))
	unaccounted := make(map[domain.DependencyFileEntry]struct{}, len(entries))
	for _, e := range entries {
		listed[e] = struct{}{}
		unaccounted[e] = struct{}{}
	}

	covered := coveredBy(rule)
	var used []domain.SourcePath
	var metadata []string
	for _, input := range inputs {
		if !covered(input) {
			if err := f.foldInput(b, input); err != nil {
				return domain.RuleKeyAndInputs{}, withTarget(err, rule)
			}
			continue
		}
		entry := f.paths.DependencyFileEntry(input)
		if _, ok := listed[entry]; ok {
			if err := f.foldInput(b, input); err != nil {
				return domain.RuleKeyAndInputs{}, withTarget(err, rule)
			}
			used = append(used, input)
			delete(unaccounted, entry)
		}
		if entry.IsMetadata() {
			metadata = append(metadata, input.String())
		}
	}

	if len(unaccounted) > 0 {
		missing := make([]string, 0, len(unaccounted))
		for e := range unaccounted {
			missing = append(missing, e.String())
		}
		slices.Sort(missing)
		err := zerr.With(zerr.Wrap(domain.ErrDepFileInputNotFound, "dependency file no longer matches the rule"),
			"entries", strings.Join(missing, ", "))
		return domain.RuleKeyAndInputs{}, withTarget(err, rule)
	}

	slices.Sort(metadata)
	b.Set("cairn.dep_file_metadata_list", metadata)

	key, err := b.build()
	if err != nil {
		return domain.RuleKeyAndInputs{}, withTarget(err, rule)
	}
	return domain.RuleKeyAndInputs{Key: key, Inputs: used}, nil
}

// foldInput folds one collected input under its own field.
func (f *DependencyFileFactory) foldInput(b *Builder, input domain.SourcePath) error {
	b.field = "cairn.input"
	b.h.tag(tagField)
	b.h.putString(b.field)
	return hashSourcePath(b, f.loader, f.paths, input)
}

// collect folds the rule's own fields and returns the deduplicated source paths it referenced,
// in the order they were seen.
func (f *DependencyFileFactory) collect(rule domain.SupportsDependencyFileRuleKey) (*Builder, []domain.SourcePath, error) {
	c := &depFileComputation{f: f, appendables: make(map[identity]depFileResult)}
	b := newBuilder(c, f.logger, f.seed, f.tracing)
	identify(b, rule, f.seed)
	rule.AppendToRuleKey(b)
	if b.err != nil {
		return nil, nil, withTarget(b.err, rule)
	}
	return b, unique(b.inputs), nil
}

// coveredBy returns whether an input may appear in the rule's dependency file. A rule without
// possible inputs lets the dependency file cover everything. Listing an archive covers its members.
func coveredBy(rule domain.SupportsDependencyFileRuleKey) func(domain.SourcePath) bool {
	possible := rule.PossibleInputSourcePaths()
	if possible == nil {
		return func(domain.SourcePath) bool { return true }
	}
	set := make(map[domain.SourcePath]struct{}, len(possible))
	for _, p := range possible {
		set[p] = struct{}{}
	}
	return func(p domain.SourcePath) bool {
		if _, ok := set[p]; ok {
			return true
		}
		member, ok := p.(domain.ArchiveMemberSourcePath)
		if !ok {
			return false
		}
		_, ok = set[member.Archive]
		return ok
	}
}

func unique(paths []domain.SourcePath) []domain.SourcePath {
	seen := make(map[domain.SourcePath]struct{}, len(paths))
	out := make([]domain.SourcePath, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func withTarget(err error, rule domain.BuildRule) error {
	return domain.WithMeta(err, "target", rule.Target().String())
}

type depFileResult struct {
	key    domain.RuleKey
	inputs []domain.SourcePath
}

// depFileComputation defers every source path instead of hashing it.
type depFileComputation struct {
	f           *DependencyFileFactory
	appendables map[identity]depFileResult
}

func (c *depFileComputation) sourcePath(b *Builder, p domain.SourcePath) error {
	b.inputs = append(b.inputs, p)
	return nil
}

func (c *depFileComputation) buildRule(_ *Builder, r domain.BuildRule) error {
	return domain.WithMeta(domain.ErrBuildRuleInDepFileKey, "rule", r.Target().String())
}

func (c *depFileComputation) appendable(b *Builder, a domain.Appendable) error {
	id, memoizable := identityOf(a)
	res, ok := c.appendables[id]
	if !memoizable || !ok || (b.tracing && res.key.Trace == nil) {
		sub := newBuilder(c, c.f.logger, c.f.seed, b.tracing)
		sub.setType(a)
		a.AppendToRuleKey(sub)
		key, err := sub.build()
		if err != nil {
			return err
		}
		res = depFileResult{key: key, inputs: sub.inputs}
		if memoizable {
			c.appendables[id] = res
		}
	}
	b.putSubKey(res.key)
	b.inputs = append(b.inputs, res.inputs...)
	return nil
}

// archives folds the archive names and expands every archive into its members, so that each
// member is an input the dependency file can name. Membership itself is not folded.
func (c *depFileComputation) archives(b *Builder, s domain.ArchiveDependencySupplier) error {
	archives := s.Archives()
	b.h.tag(tagList)
	b.h.putUint(uint64(len(archives)))
	for _, archive := range archives {
		rel := c.f.paths.RelativePath(archive)
		b.putPathName(rel)
		names, err := c.f.loader.ArchiveMembers(rel)
		if err != nil {
			return err
		}
		for _, name := range names {
			b.inputs = append(b.inputs, domain.ArchiveMemberSourcePath{Archive: archive, Member: name})
		}
	}
	return nil
}
