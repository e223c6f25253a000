package rules

import (
	"maps"
	"path"
	"strings"

	"go.trai.ch/cairn/internal/core/domain"
)

// GenruleDescription materializes `genrule` targets: a shell command producing one output.
type GenruleDescription struct{}

type genruleArgs struct {
	Srcs []string          `yaml:"srcs"`
	Cmd  string            `yaml:"cmd"`
	Out  string            `yaml:"out"`
	Env  map[string]string `yaml:"env"`
}

// Type implements Description.
func (GenruleDescription) Type() string { return "genrule" }

// Create implements Description.
func (GenruleDescription) Create(node *domain.TargetNode, deps []domain.BuildRule) (domain.BuildRule, error) {
	var args genruleArgs
	if err := decodeArgs(node, &args); err != nil {
		return nil, err
	}
	if args.Cmd == "" {
		return nil, missingArg(node, "cmd")
	}
	if args.Out == "" {
		return nil, missingArg(node, "out")
	}
	srcs, err := sourceResolver{node: node, deps: deps}.all(args.Srcs)
	if err != nil {
		return nil, err
	}
	return &Genrule{
		base: newBase(node, deps, path.Clean(args.Out)),
		srcs: domain.SortSourcePaths(srcs),
		cmd:  args.Cmd,
		env:  args.Env,
	}, nil
}

// Genrule runs cmd with $SRCS and $OUT set.
type Genrule struct {
	base
	srcs []domain.SourcePath
	cmd  string
	env  map[string]string
}

// AppendToRuleKey implements domain.Appendable.
func (g *Genrule) AppendToRuleKey(sink domain.RuleKeySink) {
	sink.Set("srcs", g.srcs).
		Set("cmd", g.cmd).
		Set("out", g.out).
		Set("env", g.env)
}

// Inputs implements domain.BuildRule.
func (g *Genrule) Inputs() []domain.SourcePath { return g.srcs }

// Steps implements domain.BuildRule.
func (g *Genrule) Steps(resolver domain.SourcePathResolver) []domain.Step {
	out := g.outputPath(resolver)
	env := maps.Clone(g.env)
	if env == nil {
		env = make(map[string]string, 2)
	}
	env["SRCS"] = strings.Join(resolveAll(resolver, g.srcs), " ")
	env["OUT"] = out
	return []domain.Step{
		{Description: "mkdir", Command: []string{"mkdir", "-p", path.Dir(out)}},
		{Description: "genrule", Command: []string{"sh", "-c", g.cmd}, Env: env},
	}
}
