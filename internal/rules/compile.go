package rules

import (
	"path"
	"slices"
	"strings"

	"go.trai.ch/cairn/internal/core/domain"
)

// CompileDescription materializes `compile` targets: a compiler invocation over sources and a
// classpath of archives. The compiler reports which sources and archive members it read, so
// these rules support dependency file keys.
type CompileDescription struct{}

type compileArgs struct {
	Tool      string   `yaml:"tool"`
	Srcs      []string `yaml:"srcs"`
	Resources []string `yaml:"resources"`
	Classpath []string `yaml:"classpath"`
	Flags     []string `yaml:"flags"`
	Out       string   `yaml:"out"`
	DepFile   *bool    `yaml:"dep_file"`
}

// Type implements Description.
func (CompileDescription) Type() string { return "compile" }

// Create implements Description.
func (CompileDescription) Create(node *domain.TargetNode, deps []domain.BuildRule) (domain.BuildRule, error) {
	var args compileArgs
	if err := decodeArgs(node, &args); err != nil {
		return nil, err
	}
	if args.Tool == "" {
		return nil, missingArg(node, "tool")
	}
	if len(args.Srcs) == 0 {
		return nil, missingArg(node, "srcs")
	}
	if args.Out == "" {
		args.Out = node.Target.ShortName() + ".jar"
	}

	sources := sourceResolver{node: node, deps: deps}
	srcs, err := sources.all(args.Srcs)
	if err != nil {
		return nil, err
	}
	resources, err := sources.all(args.Resources)
	if err != nil {
		return nil, err
	}
	archives, err := sources.all(args.Classpath)
	if err != nil {
		return nil, err
	}

	return &Compile{
		base:       newBase(node, deps, path.Clean(args.Out)),
		tool:       args.Tool,
		flags:      args.Flags,
		srcs:       domain.SortSourcePaths(srcs),
		resources:  domain.SortSourcePaths(resources),
		classpath:  Classpath{archives: domain.SortSourcePaths(archives)},
		useDepFile: args.DepFile == nil || *args.DepFile,
	}, nil
}

// Classpath is the set of archives a compile rule reads members from.
type Classpath struct {
	archives []domain.SourcePath
}

// Archives implements domain.ArchiveDependencySupplier.
func (c Classpath) Archives() []domain.SourcePath { return c.archives }

var _ domain.SupportsDependencyFileRuleKey = (*Compile)(nil)

// Compile runs tool over srcs with the classpath archives available.
type Compile struct {
	base
	tool       string
	flags      []string
	srcs       []domain.SourcePath
	resources  []domain.SourcePath
	classpath  Classpath
	useDepFile bool
}

// AppendToRuleKey implements domain.Appendable.
func (c *Compile) AppendToRuleKey(sink domain.RuleKeySink) {
	sink.Set("tool", c.tool).
		Set("flags", c.flags).
		Set("srcs", c.srcs).
		Set("resources", c.resources).
		Set("classpath", c.classpath).
		Set("out", c.out)
}

// Inputs implements domain.BuildRule.
func (c *Compile) Inputs() []domain.SourcePath {
	return slices.Concat(c.srcs, c.resources, c.classpath.archives)
}

// UseDependencyFileRuleKeys implements domain.SupportsDependencyFileRuleKey.
func (c *Compile) UseDependencyFileRuleKeys() bool { return c.useDepFile }

// PossibleInputSourcePaths implements domain.SupportsDependencyFileRuleKey. Resources are always
// packaged whole and never appear in a dependency file.
func (c *Compile) PossibleInputSourcePaths() []domain.SourcePath {
	return slices.Concat(c.srcs, c.classpath.archives)
}

// Steps implements domain.BuildRule.
func (c *Compile) Steps(resolver domain.SourcePathResolver) []domain.Step {
	out := c.outputPath(resolver)
	cmd := []string{c.tool}
	cmd = append(cmd, c.flags...)
	if len(c.classpath.archives) > 0 {
		cmd = append(cmd, "-classpath", strings.Join(resolveAll(resolver, c.classpath.archives), ":"))
	}
	cmd = append(cmd, "-o", out)
	cmd = append(cmd, resolveAll(resolver, c.srcs)...)
	cmd = append(cmd, resolveAll(resolver, c.resources)...)
	return []domain.Step{
		{Description: "mkdir", Command: []string{"mkdir", "-p", path.Dir(out)}},
		{Description: "compile", Command: cmd},
	}
}
