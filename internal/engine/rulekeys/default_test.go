package rulekeys_test

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/engine/rulekeys"
)

func TestDefaultFactory_Deterministic(t *testing.T) {
	loader := newLoader()
	loader.files["src/a.c"] = "int a;"
	rule := newRule("//src:a", "cc", "src/a.c")

	first, err := rulekeys.NewDefaultFactory(loader, paths, newGraph(rule), quietLogger(t)).Build(rule)
	require.NoError(t, err)
	second, err := rulekeys.NewDefaultFactory(loader, paths, newGraph(rule), quietLogger(t)).Build(rule)
	require.NoError(t, err)

	assert.Equal(t, first.Hash, second.Hash)
	assert.False(t, first.IsZero())
}

func TestDefaultFactory_ContentChangesKey(t *testing.T) {
	loader := newLoader()
	loader.files["src/a.c"] = "int a;"
	rule := newRule("//src:a", "cc", "src/a.c")
	f := rulekeys.NewDefaultFactory(loader, paths, newGraph(rule), quietLogger(t))

	before, err := f.Build(rule)
	require.NoError(t, err)
	loader.files["src/a.c"] = "int b;"
	after, err := f.Build(rule)
	require.NoError(t, err)

	assert.NotEqual(t, before.Hash, after.Hash)
}

func TestDefaultFactory_FieldsChangeKey(t *testing.T) {
	loader := newLoader()
	loader.files["src/a.c"] = "int a;"

	base := newRule("//src:a", "cc", "src/a.c")
	renamed := newRule("//src:b", "cc", "src/a.c")
	otherCmd := newRule("//src:a", "gcc", "src/a.c")
	g := newGraph(base, renamed)

	key := func(r domain.BuildRule, opts ...rulekeys.Option) domain.HashCode {
		k, err := rulekeys.NewDefaultFactory(loader, paths, g, quietLogger(t), opts...).Build(r)
		require.NoError(t, err)
		return k.Hash
	}

	keys := []domain.HashCode{
		key(base),
		key(renamed),
		key(otherCmd),
		key(base, rulekeys.WithSeed(1)),
	}
	distinct := make(map[domain.HashCode]struct{})
	for _, k := range keys {
		distinct[k] = struct{}{}
	}
	assert.Len(t, distinct, len(keys))
}

func TestDefaultFactory_DepsPropagate(t *testing.T) {
	loader := newLoader()
	loader.files["lib/lib.c"] = "lib"
	loader.files["bin/main.c"] = "main"
	lib := newRule("//lib:lib", "cc", "lib/lib.c")
	bin := newRule("//bin:bin", "ld", "bin/main.c")
	bin.deps = []domain.BuildRule{lib}
	f := rulekeys.NewDefaultFactory(loader, paths, newGraph(lib, bin), quietLogger(t))

	before, err := f.Build(bin)
	require.NoError(t, err)
	loader.files["lib/lib.c"] = "lib2"
	after, err := f.Build(bin)
	require.NoError(t, err)

	assert.NotEqual(t, before.Hash, after.Hash)
}

func TestDefaultFactory_GeneratedSourceFoldsProducerKey(t *testing.T) {
	loader := newLoader()
	gen := newRule("//gen:hdr", "echo")
	consumer := newRule("//app:app", "cc")
	consumer.srcs = []domain.SourcePath{domain.BuildTargetSourcePath{Target: gen.target, Path: "out.h"}}
	f := rulekeys.NewDefaultFactory(loader, paths, newGraph(gen, consumer), quietLogger(t))

	before, err := f.Build(consumer)
	require.NoError(t, err)
	gen.cmd = "printf"
	after, err := f.Build(consumer)
	require.NoError(t, err)

	assert.NotEqual(t, before.Hash, after.Hash)
	assert.Empty(t, loader.gets, "generated outputs are not read")
}

func TestDefaultFactory_MissingProducer(t *testing.T) {
	consumer := newRule("//app:app", "cc")
	consumer.srcs = []domain.SourcePath{domain.BuildTargetSourcePath{Target: domain.MustParseBuildTarget("//gen:gone")}}

	_, err := rulekeys.NewDefaultFactory(newLoader(), paths, newGraph(consumer), quietLogger(t)).Build(consumer)
	require.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestDefaultFactory_MissingInput(t *testing.T) {
	rule := newRule("//src:a", "cc", "src/missing.c")

	_, err := rulekeys.NewDefaultFactory(newLoader(), paths, newGraph(rule), quietLogger(t)).Build(rule)
	require.ErrorIs(t, err, domain.ErrPathNotFound)
}

func TestDefaultFactory_Trace(t *testing.T) {
	loader := newLoader()
	loader.files["src/a.c"] = "int a;"
	rule := newRule("//src:a", "cc", "src/a.c")

	key, err := rulekeys.NewDefaultFactory(loader, paths, newGraph(rule), quietLogger(t), rulekeys.WithTrace(true)).Build(rule)
	require.NoError(t, err)

	names := make([]string, 0, len(key.Trace))
	for _, f := range key.Trace {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"name", "cairn.type", "cairn.version", ".type", "cmd", "srcs@src/a.c", "srcs", "cairn.deps"}, names)
	assert.Contains(t, key.Explain(), "name=\"//src:a\"\n")

	untraced, err := rulekeys.NewDefaultFactory(loader, paths, newGraph(rule), quietLogger(t)).Build(rule)
	require.NoError(t, err)
	assert.Equal(t, untraced.Hash, key.Hash)
	assert.Empty(t, untraced.Trace)
}

func TestDefaultFactory_TraceIncludesNestedFields(t *testing.T) {
	loader := newLoader()
	loader.files["src/f1"] = "f1"
	rule := newRule("//src:a", "cc")
	extra := &sources{paths: []domain.SourcePath{domain.NewPathSourcePath("src/f1")}}
	rule.extra = []domain.Appendable{extra, extra}

	key, err := rulekeys.NewDefaultFactory(loader, paths, newGraph(rule), quietLogger(t), rulekeys.WithTrace(true)).Build(rule)
	require.NoError(t, err)

	var nested []string
	for _, f := range key.Trace {
		if f.Name == "extra.paths@src/f1" {
			nested = append(nested, f.Value)
		}
	}
	assert.Len(t, nested, 2, "memoized contributors keep their fields in the trace")

	untraced, err := rulekeys.NewDefaultFactory(loader, paths, newGraph(rule), quietLogger(t)).Build(rule)
	require.NoError(t, err)
	assert.Equal(t, untraced.Hash, key.Hash)
}

func TestDefaultFactory_UnsupportedValue(t *testing.T) {
	rule := newRule("//src:a", "cc")
	rule.extra = make(chan int)

	_, err := rulekeys.NewDefaultFactory(newLoader(), paths, newGraph(rule), quietLogger(t)).Build(rule)
	require.ErrorIs(t, err, domain.ErrUnsupportedKeyValue)
	require.ErrorIs(t, err, domain.ErrPreconditionFailed)
}

func TestDefaultFactory_Cycle(t *testing.T) {
	rule := newRule("//src:a", "cc")
	rule.deps = []domain.BuildRule{rule}

	_, err := rulekeys.NewDefaultFactory(newLoader(), paths, newGraph(rule), quietLogger(t)).Build(rule)
	require.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestDefaultFactory_AppendablesMemoizedPerComputation(t *testing.T) {
	shared := &counted{value: "flags"}
	a := newRule("//src:a", "cc")
	a.extra = shared
	b := newRule("//src:b", "cc")
	b.extra = shared
	f := rulekeys.NewDefaultFactory(newLoader(), paths, newGraph(a, b), quietLogger(t))

	keys, err := f.BuildAll(slices.Values([]domain.BuildRule{a, b}))
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.Equal(t, 1, shared.calls)

	// A new computation starts from an empty memo.
	_, err = f.Build(a)
	require.NoError(t, err)
	assert.Equal(t, 2, shared.calls)

	shared.value = "other"
	changed, err := f.Build(a)
	require.NoError(t, err)
	assert.NotEqual(t, keys[a.target].Hash, changed.Hash)
}

func TestDefaultFactory_BuildAllSharesDependencies(t *testing.T) {
	loader := newLoader()
	loader.files["lib/lib.c"] = "lib"
	lib := newRule("//lib:lib", "cc", "lib/lib.c")
	a := newRule("//app:a", "ld")
	a.deps = []domain.BuildRule{lib}
	b := newRule("//app:b", "ld")
	b.deps = []domain.BuildRule{lib}
	f := rulekeys.NewDefaultFactory(loader, paths, newGraph(lib, a, b), quietLogger(t))

	keys, err := f.BuildAll(slices.Values([]domain.BuildRule{a, b, lib}))
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/lib.c"}, loader.gets)

	single, err := f.Build(a)
	require.NoError(t, err)
	assert.Equal(t, single.Hash, keys[a.target].Hash)
	assert.ElementsMatch(t, []domain.BuildTarget{lib.target, a.target, b.target}, slices.Collect(maps.Keys(keys)))
}

func TestDefaultFactory_EachContinuesPastFailures(t *testing.T) {
	loader := newLoader()
	loader.files["src/a.c"] = "int a;"
	ok := newRule("//src:a", "cc", "src/a.c")
	broken := newRule("//src:b", "cc", "src/missing.c")
	f := rulekeys.NewDefaultFactory(loader, paths, newGraph(ok, broken), quietLogger(t))

	results := make(map[domain.BuildTarget]rulekeys.Result)
	for rule, res := range f.Each(slices.Values([]domain.BuildRule{broken, ok})) {
		results[rule.Target()] = res
	}

	require.Len(t, results, 2)
	require.ErrorIs(t, results[broken.target].Err, domain.ErrNotFound)
	require.NoError(t, results[ok.target].Err)
	assert.False(t, results[ok.target].Key.IsZero())

	_, err := f.BuildAll(slices.Values([]domain.BuildRule{broken, ok}))
	require.ErrorIs(t, err, domain.ErrPathNotFound)
}

func TestDefaultFactory_ArchivesFoldedWhole(t *testing.T) {
	loader := newLoader()
	loader.archives["lib/dep.jar"] = map[string]string{"a/A.class": "A"}
	rule := newRule("//src:a", "javac")
	rule.extra = archiveSupplier{archives: []domain.SourcePath{domain.NewPathSourcePath("lib/dep.jar")}}
	f := rulekeys.NewDefaultFactory(loader, paths, newGraph(rule), quietLogger(t))

	before, err := f.Build(rule)
	require.NoError(t, err)
	loader.archives["lib/dep.jar"]["a/A.class"] = "A2"
	after, err := f.Build(rule)
	require.NoError(t, err)

	assert.NotEqual(t, before.Hash, after.Hash)
}

func TestContentAgnosticFactory_IgnoresContent(t *testing.T) {
	gen := newRule("//gen:hdr", "echo")
	rule := newRule("//src:a", "cc", "src/a.c")
	rule.deps = []domain.BuildRule{gen}
	rule.extra = []domain.SourcePath{domain.BuildTargetSourcePath{Target: gen.target, Path: "out.h"}}
	g := newGraph(gen, rule)

	before, err := rulekeys.NewContentAgnosticFactory(paths, g, quietLogger(t)).Build(rule)
	require.NoError(t, err)
	again, err := rulekeys.NewContentAgnosticFactory(paths, g, quietLogger(t)).Build(rule)
	require.NoError(t, err)
	assert.Equal(t, before.Hash, again.Hash)

	gen.cmd = "printf"
	after, err := rulekeys.NewContentAgnosticFactory(paths, g, quietLogger(t)).Build(rule)
	require.NoError(t, err)
	assert.NotEqual(t, before.Hash, after.Hash)
}
