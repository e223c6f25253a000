package rules

import (
	"path"

	"go.trai.ch/cairn/internal/core/domain"
)

// ExportFileDescription materializes `export_file` targets, which copy one source into the
// output tree so that other rules can depend on it.
type ExportFileDescription struct{}

type exportFileArgs struct {
	Src string `yaml:"src"`
	Out string `yaml:"out"`
}

// Type implements Description.
func (ExportFileDescription) Type() string { return "export_file" }

// Create implements Description. src defaults to the target's short name and out to the base
// name of src.
func (ExportFileDescription) Create(node *domain.TargetNode, deps []domain.BuildRule) (domain.BuildRule, error) {
	var args exportFileArgs
	if err := decodeArgs(node, &args); err != nil {
		return nil, err
	}
	if args.Src == "" {
		args.Src = node.Target.ShortName()
	}
	src, err := sourceResolver{node: node, deps: deps}.resolve(args.Src)
	if err != nil {
		return nil, err
	}
	if args.Out == "" {
		args.Out = path.Base(args.Src)
	}
	return &ExportFile{base: newBase(node, deps, path.Clean(args.Out)), src: src}, nil
}

// ExportFile copies src to its output.
type ExportFile struct {
	base
	src domain.SourcePath
}

// AppendToRuleKey implements domain.Appendable.
func (e *ExportFile) AppendToRuleKey(sink domain.RuleKeySink) {
	sink.Set("src", e.src).Set("out", e.out)
}

// Inputs implements domain.BuildRule.
func (e *ExportFile) Inputs() []domain.SourcePath { return []domain.SourcePath{e.src} }

// Steps implements domain.BuildRule.
func (e *ExportFile) Steps(resolver domain.SourcePathResolver) []domain.Step {
	out := e.outputPath(resolver)
	return []domain.Step{
		{Description: "mkdir", Command: []string{"mkdir", "-p", path.Dir(out)}},
		{Description: "copy", Command: []string{"cp", resolveAll(resolver, e.Inputs())[0], out}},
	}
}
