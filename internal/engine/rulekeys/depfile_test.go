package rulekeys_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/engine/rulekeys"
	"go.trai.ch/zerr"
)

func depFileRule(loader *fakeLoader) *testRule {
	loader.files["src/f1"] = "f1"
	loader.files["src/f2"] = "f2"
	loader.files["src/f3"] = "f3"
	return newRule("//src:compile", "cc", "src/f1", "src/f2", "src/f3")
}

func entries(paths ...string) []domain.DependencyFileEntry {
	out := make([]domain.DependencyFileEntry, 0, len(paths))
	for _, p := range paths {
		out = append(out, domain.DependencyFileEntry{PathToFile: p})
	}
	return out
}

func TestDependencyFileFactory_BuildUsesListedInputs(t *testing.T) {
	loader := newLoader()
	rule := depFileRule(loader)
	f := rulekeys.NewDependencyFileFactory(loader, paths, quietLogger(t))

	before, err := f.Build(rule, entries("src/f1", "src/f2"))
	require.NoError(t, err)
	assert.Equal(t, []domain.SourcePath{
		domain.NewPathSourcePath("src/f1"),
		domain.NewPathSourcePath("src/f2"),
	}, before.Inputs)

	loader.files["src/f3"] = "changed"
	unused, err := f.Build(rule, entries("src/f1", "src/f2"))
	require.NoError(t, err)
	assert.Equal(t, before.Key.Hash, unused.Key.Hash, "unread inputs do not affect the key")

	loader.files["src/f1"] = "changed"
	used, err := f.Build(rule, entries("src/f1", "src/f2"))
	require.NoError(t, err)
	assert.NotEqual(t, before.Key.Hash, used.Key.Hash)
}

func TestDependencyFileFactory_BuildRejectsUnknownEntries(t *testing.T) {
	loader := newLoader()
	rule := depFileRule(loader)

	_, err := rulekeys.NewDependencyFileFactory(loader, paths, quietLogger(t)).Build(rule, entries("src/f1", "src/f4"))
	require.ErrorIs(t, err, domain.ErrDepFileInputNotFound)
	assert.Equal(t, "src/f4", errorMeta(err, "entries"))
	assert.Equal(t, "//src:compile", errorMeta(err, "target"))
}

func TestDependencyFileFactory_UncoveredInputsAlwaysFolded(t *testing.T) {
	loader := newLoader()
	rule := depFileRule(loader)
	rule.possible = []domain.SourcePath{domain.NewPathSourcePath("src/f1"), domain.NewPathSourcePath("src/f2")}
	f := rulekeys.NewDependencyFileFactory(loader, paths, quietLogger(t))

	before, err := f.Build(rule, entries("src/f1"))
	require.NoError(t, err)
	assert.Equal(t, []domain.SourcePath{domain.NewPathSourcePath("src/f1")}, before.Inputs)

	loader.files["src/f3"] = "changed"
	after, err := f.Build(rule, entries("src/f1"))
	require.NoError(t, err)
	assert.NotEqual(t, before.Key.Hash, after.Key.Hash)
}

func TestDependencyFileFactory_ManifestKey(t *testing.T) {
	loader := newLoader()
	rule := depFileRule(loader)
	rule.possible = []domain.SourcePath{domain.NewPathSourcePath("src/f1"), domain.NewPathSourcePath("src/f2")}
	f := rulekeys.NewDependencyFileFactory(loader, paths, quietLogger(t))

	manifest, err := f.BuildManifestKey(rule)
	require.NoError(t, err)
	assert.Equal(t, []domain.SourcePath{
		domain.NewPathSourcePath("src/f1"),
		domain.NewPathSourcePath("src/f2"),
	}, manifest.Inputs)

	loader.files["src/f1"] = "changed"
	covered, err := f.BuildManifestKey(rule)
	require.NoError(t, err)
	assert.Equal(t, manifest.Key.Hash, covered.Key.Hash, "covered inputs are not folded")

	loader.files["src/f3"] = "changed"
	uncovered, err := f.BuildManifestKey(rule)
	require.NoError(t, err)
	assert.NotEqual(t, manifest.Key.Hash, uncovered.Key.Hash)

	depFile, err := f.Build(rule, entries("src/f1"))
	require.NoError(t, err)
	assert.NotEqual(t, uncovered.Key.Hash, depFile.Key.Hash)
}

func TestDependencyFileFactory_ArchiveMembers(t *testing.T) {
	loader := newLoader()
	loader.archives["lib/dep.jar"] = map[string]string{
		"META-INF/services/x": "svc",
		"a/A.class":           "A",
		"b/B.class":           "B",
	}
	jar := domain.NewPathSourcePath("lib/dep.jar")
	rule := newRule("//src:javac", "javac")
	rule.extra = archiveSupplier{archives: []domain.SourcePath{jar}}
	f := rulekeys.NewDependencyFileFactory(loader, paths, quietLogger(t))

	manifest, err := f.BuildManifestKey(rule)
	require.NoError(t, err)
	assert.Equal(t, []domain.SourcePath{
		domain.ArchiveMemberSourcePath{Archive: jar, Member: "META-INF/services/x"},
		domain.ArchiveMemberSourcePath{Archive: jar, Member: "a/A.class"},
		domain.ArchiveMemberSourcePath{Archive: jar, Member: "b/B.class"},
	}, manifest.Inputs)

	used := []domain.DependencyFileEntry{{PathToFile: "lib/dep.jar", PathWithinArchive: "a/A.class"}}
	before, err := f.Build(rule, used)
	require.NoError(t, err)
	assert.Equal(t, []domain.SourcePath{domain.ArchiveMemberSourcePath{Archive: jar, Member: "a/A.class"}}, before.Inputs)

	loader.archives["lib/dep.jar"]["b/B.class"] = "B2"
	unread, err := f.Build(rule, used)
	require.NoError(t, err)
	assert.Equal(t, before.Key.Hash, unread.Key.Hash)

	loader.archives["lib/dep.jar"]["a/A.class"] = "A2"
	read, err := f.Build(rule, used)
	require.NoError(t, err)
	assert.NotEqual(t, before.Key.Hash, read.Key.Hash)
}

func TestDependencyFileFactory_MetadataMembersChangeManifestKey(t *testing.T) {
	loader := newLoader()
	loader.archives["lib/dep.jar"] = map[string]string{"a/A.class": "A"}
	rule := newRule("//src:javac", "javac")
	rule.extra = archiveSupplier{archives: []domain.SourcePath{domain.NewPathSourcePath("lib/dep.jar")}}
	f := rulekeys.NewDependencyFileFactory(loader, paths, quietLogger(t))

	before, err := f.BuildManifestKey(rule)
	require.NoError(t, err)

	loader.archives["lib/dep.jar"]["c/C.class"] = "C"
	plain, err := f.BuildManifestKey(rule)
	require.NoError(t, err)
	assert.Equal(t, before.Key.Hash, plain.Key.Hash)

	loader.archives["lib/dep.jar"]["META-INF/services/y"] = "svc"
	metadata, err := f.BuildManifestKey(rule)
	require.NoError(t, err)
	assert.NotEqual(t, before.Key.Hash, metadata.Key.Hash)
}

func TestDependencyFileFactory_RejectsBuildRules(t *testing.T) {
	rule := newRule("//src:a", "cc")
	rule.extra = newRule("//src:dep", "cc")

	_, err := rulekeys.NewDependencyFileFactory(newLoader(), paths, quietLogger(t)).BuildManifestKey(rule)
	require.ErrorIs(t, err, domain.ErrBuildRuleInDepFileKey)
}

func TestDependencyFileFactory_AppendableInputs(t *testing.T) {
	loader := newLoader()
	loader.files["src/f1"] = "f1"
	rule := newRule("//src:a", "cc")
	rule.extra = &sources{paths: []domain.SourcePath{domain.NewPathSourcePath("src/f1")}}

	manifest, err := rulekeys.NewDependencyFileFactory(loader, paths, quietLogger(t)).BuildManifestKey(rule)
	require.NoError(t, err)
	assert.Equal(t, []domain.SourcePath{domain.NewPathSourcePath("src/f1")}, manifest.Inputs)
}

type sources struct {
	paths []domain.SourcePath
}

func (s *sources) AppendToRuleKey(sink domain.RuleKeySink) {
	sink.Set("paths", s.paths)
}

// errorMeta returns the first value recorded under key along the error chain.
func errorMeta(err error, key string) any {
	for err != nil {
		var ze *zerr.Error
		if !errors.As(err, &ze) {
			return nil
		}
		if v, ok := ze.Metadata()[key]; ok {
			return v
		}
		err = ze.Unwrap()
	}
	return nil
}

func TestDependencyFileFactory_ArchiveCoversMembers(t *testing.T) {
	loader := newLoader()
	loader.files["src/Main.java"] = "class Main {}"
	loader.files["res/app.properties"] = "a=b"
	loader.archives["lib/dep.jar"] = map[string]string{"a/A.class": "A", "b/B.class": "B"}
	jar := domain.NewPathSourcePath("lib/dep.jar")
	rule := newRule("//src:javac", "javac", "src/Main.java", "res/app.properties")
	rule.extra = archiveSupplier{archives: []domain.SourcePath{jar}}
	rule.possible = []domain.SourcePath{domain.NewPathSourcePath("src/Main.java"), jar}
	f := rulekeys.NewDependencyFileFactory(loader, paths, quietLogger(t))

	manifest, err := f.BuildManifestKey(rule)
	require.NoError(t, err)
	assert.Equal(t, []domain.SourcePath{
		domain.NewPathSourcePath("src/Main.java"),
		domain.ArchiveMemberSourcePath{Archive: jar, Member: "a/A.class"},
		domain.ArchiveMemberSourcePath{Archive: jar, Member: "b/B.class"},
	}, manifest.Inputs)

	loader.files["res/app.properties"] = "a=c"
	changed, err := f.BuildManifestKey(rule)
	require.NoError(t, err)
	assert.NotEqual(t, manifest.Key.Hash, changed.Key.Hash, "uncovered inputs are folded")
}

func TestDependencyFileFactory_UnreadArchiveMembersKeepKeys(t *testing.T) {
	loader := newLoader()
	loader.archives["lib/dep.jar"] = map[string]string{"a/A.class": "A"}
	jar := domain.NewPathSourcePath("lib/dep.jar")
	rule := newRule("//src:javac", "javac")
	rule.extra = archiveSupplier{archives: []domain.SourcePath{jar}}
	f := rulekeys.NewDependencyFileFactory(loader, paths, quietLogger(t))
	used := []domain.DependencyFileEntry{{PathToFile: "lib/dep.jar", PathWithinArchive: "a/A.class"}}

	manifest, err := f.BuildManifestKey(rule)
	require.NoError(t, err)
	before, err := f.Build(rule, used)
	require.NoError(t, err)

	loader.archives["lib/dep.jar"]["c/C.class"] = "C"
	grownManifest, err := f.BuildManifestKey(rule)
	require.NoError(t, err)
	after, err := f.Build(rule, used)
	require.NoError(t, err)
	assert.Equal(t, manifest.Key.Hash, grownManifest.Key.Hash)
	assert.Equal(t, before.Key.Hash, after.Key.Hash)

	loader.archives["lib/other.jar"] = map[string]string{"a/A.class": "A"}
	rule.extra = archiveSupplier{archives: []domain.SourcePath{domain.NewPathSourcePath("lib/other.jar")}}
	renamed, err := f.BuildManifestKey(rule)
	require.NoError(t, err)
	assert.NotEqual(t, manifest.Key.Hash, renamed.Key.Hash, "archive names are folded")
}

func TestDependencyFileFactory_DuplicateEntries(t *testing.T) {
	loader := newLoader()
	rule := depFileRule(loader)
	f := rulekeys.NewDependencyFileFactory(loader, paths, quietLogger(t))

	once, err := f.Build(rule, entries("src/f1", "src/f2"))
	require.NoError(t, err)
	twice, err := f.Build(rule, entries("src/f2", "src/f1", "src/f1"))
	require.NoError(t, err)
	assert.Equal(t, once.Key.Hash, twice.Key.Hash)
	assert.Equal(t, once.Inputs, twice.Inputs)
}

func TestDependencyFileFactory_TraceIncludesNestedFields(t *testing.T) {
	loader := newLoader()
	loader.files["src/f1"] = "f1"
	rule := newRule("//src:a", "cc")
	rule.extra = &sources{paths: []domain.SourcePath{domain.NewPathSourcePath("src/f1")}}

	manifest, err := rulekeys.NewDependencyFileFactory(loader, paths, quietLogger(t), rulekeys.WithTrace(true)).
		BuildManifestKey(rule)
	require.NoError(t, err)

	names := make([]string, 0, len(manifest.Key.Trace))
	for _, f := range manifest.Key.Trace {
		names = append(names, f.Name)
	}
	assert.Subset(t, names, []string{"extra..type", "extra.paths", "extra"})
}
