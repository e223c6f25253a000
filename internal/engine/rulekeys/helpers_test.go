package rulekeys_test

import (
	"crypto/sha256"
	"maps"
	"slices"
	"testing"

	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var paths = domain.SourcePathResolver{OutputDir: "cairn-out"}

// fakeLoader serves digests of in-memory file contents.
type fakeLoader struct {
	files    map[string]string
	archives map[string]map[string]string
	gets     []string
}

func newLoader() *fakeLoader {
	return &fakeLoader{files: map[string]string{}, archives: map[string]map[string]string{}}
}

func (l *fakeLoader) Get(p string) (domain.HashCode, error) {
	l.gets = append(l.gets, p)
	content, ok := l.files[p]
	if !ok {
		if members, ok := l.archives[p]; ok {
			var all string
			for _, name := range slices.Sorted(maps.Keys(members)) {
				all += name + "=" + members[name] + ";"
			}
			return sha256.Sum256([]byte(all)), nil
		}
		return domain.HashCode{}, domain.WithMeta(domain.ErrPathNotFound, "path", p)
	}
	return sha256.Sum256([]byte(content)), nil
}

func (l *fakeLoader) GetArchiveMember(m domain.ArchiveMemberPath) (domain.HashCode, error) {
	content, ok := l.archives[m.ArchivePath][m.MemberPath]
	if !ok {
		return domain.HashCode{}, domain.WithMeta(domain.ErrArchiveMemberNotFound, "member", m.String())
	}
	return sha256.Sum256([]byte(content)), nil
}

func (l *fakeLoader) GetSize(p string) (int64, error) {
	return int64(len(l.files[p])), nil
}

func (l *fakeLoader) ArchiveMembers(p string) ([]string, error) {
	members, ok := l.archives[p]
	if !ok {
		return nil, domain.WithMeta(domain.ErrNotAnArchive, "path", p)
	}
	return slices.Sorted(maps.Keys(members)), nil
}

// testRule folds a command, its sources and an optional extra value.
type testRule struct {
	target   domain.BuildTarget
	cmd      string
	srcs     []domain.SourcePath
	deps     []domain.BuildRule
	extra    any
	possible []domain.SourcePath
}

func newRule(target, cmd string, srcs ...string) *testRule {
	r := &testRule{target: domain.MustParseBuildTarget(target), cmd: cmd}
	for _, s := range srcs {
		r.srcs = append(r.srcs, domain.NewPathSourcePath(s))
	}
	return r
}

func (r *testRule) AppendToRuleKey(sink domain.RuleKeySink) {
	sink.Set("cmd", r.cmd).Set("srcs", r.srcs)
	if r.extra != nil {
		sink.Set("extra", r.extra)
	}
}

func (r *testRule) Target() domain.BuildTarget                        { return r.target }
func (r *testRule) Type() string                                      { return "test_rule" }
func (r *testRule) Deps() []domain.BuildRule                          { return r.deps }
func (r *testRule) Inputs() []domain.SourcePath                       { return r.srcs }
func (r *testRule) Output() string                                    { return "out" }
func (r *testRule) Steps(domain.SourcePathResolver) []domain.Step     { return nil }
func (r *testRule) UseDependencyFileRuleKeys() bool                   { return true }
func (r *testRule) PossibleInputSourcePaths() []domain.SourcePath     { return r.possible }

// graph resolves rules by target.
type graph map[domain.BuildTarget]domain.BuildRule

func newGraph(rules ...domain.BuildRule) graph {
	g := graph{}
	for _, r := range rules {
		g[r.Target()] = r
	}
	return g
}

func (g graph) Rule(target domain.BuildTarget) (domain.BuildRule, error) {
	r, ok := g[target]
	if !ok {
		return nil, domain.WithMeta(domain.ErrTargetNotFound, "target", target.String())
	}
	return r, nil
}

// counted is an appendable that records how often it was folded.
type counted struct {
	value string
	calls int
}

func (c *counted) AppendToRuleKey(sink domain.RuleKeySink) {
	c.calls++
	sink.Set("value", c.value)
}

type archiveSupplier struct {
	archives []domain.SourcePath
}

func (s archiveSupplier) Archives() []domain.SourcePath { return s.archives }

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).Times(0)
	return log
}
