package rules

import (
	"bytes"
	"path"
	"strings"

	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// decodeArgs decodes a node's arguments into out, rejecting unknown fields.
func decodeArgs(node *domain.TargetNode, out any) error {
	if len(node.Args) == 0 {
		return nil
	}
	data, err := yaml.Marshal(node.Args)
	if err != nil {
		return invalidArgs(node, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return invalidArgs(node, err)
	}
	return nil
}

func invalidArgs(node *domain.TargetNode, cause error) error {
	err := zerr.Wrap(domain.ErrInvalidRuleArgs, cause.Error())
	return zerr.With(zerr.With(err, "target", node.Target.String()), "type", node.Type)
}

func missingArg(node *domain.TargetNode, name string) error {
	err := zerr.With(zerr.Wrap(domain.ErrInvalidRuleArgs, "missing required argument"), "argument", name)
	return zerr.With(zerr.With(err, "target", node.Target.String()), "type", node.Type)
}

// sourceResolver turns the source references of one node into source paths.
//
// A reference is one of:
//   - a path relative to the node's package, such as "src/main.c"
//   - a dependency, as "//pkg:name" or ":name", standing for that rule's output
//   - either of the above followed by "!/member", naming one member of an archive
type sourceResolver struct {
	node *domain.TargetNode
	deps []domain.BuildRule
}

func (s sourceResolver) resolve(ref string) (domain.SourcePath, error) {
	if archive, member, ok := strings.Cut(ref, "!/"); ok {
		if member == "" || strings.HasPrefix(member, "/") {
			return nil, s.invalid(ref, "archive member must be a relative path")
		}
		resolved, err := s.resolve(archive)
		if err != nil {
			return nil, err
		}
		return domain.ArchiveMemberSourcePath{Archive: resolved, Member: path.Clean(member)}, nil
	}

	if strings.HasPrefix(ref, "//") || strings.HasPrefix(ref, ":") {
		return s.resolveRule(ref)
	}

	if ref == "" || path.IsAbs(ref) {
		return nil, s.invalid(ref, "source must be a relative path")
	}
	p := path.Join(s.node.Target.BasePath(), ref)
	if p == ".." || strings.HasPrefix(p, "../") {
		return nil, s.invalid(ref, "source escapes the project root")
	}
	return domain.NewPathSourcePath(p), nil
}

func (s sourceResolver) resolveRule(ref string) (domain.SourcePath, error) {
	name := ref
	if strings.HasPrefix(ref, ":") {
		name = "//" + s.node.Target.BasePath() + ref
	}
	target, err := domain.ParseBuildTarget(name)
	if err != nil {
		return nil, s.invalid(ref, "malformed target")
	}
	for _, dep := range s.deps {
		if dep.Target() != target {
			continue
		}
		if dep.Output() == "" {
			return nil, s.invalid(ref, "rule has no output")
		}
		return domain.BuildTargetSourcePath{Target: target, Path: dep.Output()}, nil
	}
	return nil, s.invalid(ref, "rule is not a dependency")
}

func (s sourceResolver) all(refs []string) ([]domain.SourcePath, error) {
	out := make([]domain.SourcePath, 0, len(refs))
	for _, ref := range refs {
		p, err := s.resolve(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s sourceResolver) invalid(ref, msg string) error {
	err := zerr.Wrap(domain.ErrInvalidRuleArgs, msg)
	return zerr.With(zerr.With(err, "target", s.node.Target.String()), "source", ref)
}
