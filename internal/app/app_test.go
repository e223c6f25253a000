package app_test

import (
	"context"
	"crypto/sha256"
	"iter"
	"path/filepath"
	"testing"
	"testing/synctest"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cairn/internal/adapters/cas"
	"go.trai.ch/cairn/internal/adapters/telemetry"
	"go.trai.ch/cairn/internal/app"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports/mocks"
	"go.trai.ch/cairn/internal/rules"
	"go.uber.org/mock/gomock"
)

const root = "/work"

type fixture struct {
	fs      afero.Fs
	app     *app.App
	loader  *mocks.MockConfigLoader
	logger  *mocks.MockLogger
	vertex  *mocks.MockProgressVertex
	watcher *mocks.MockWatcher
	metrics *telemetry.Metrics
	project *domain.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		fs:      afero.NewMemMapFs(),
		loader:  mocks.NewMockConfigLoader(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
		vertex:  mocks.NewMockProgressVertex(ctrl),
		watcher: mocks.NewMockWatcher(ctrl),
		metrics: telemetry.NewMetrics(),
	}
	f.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	f.vertex.EXPECT().Done(nil).AnyTimes()

	progress := mocks.NewMockProgress(ctrl)
	progress.EXPECT().Vertex(gomock.Any()).Return(f.vertex).AnyTimes()

	f.write(t, "src/a.txt", "alpha")
	f.write(t, "java/Main.java", "class Main {}")
	f.write(t, "java/Util.java", "class Util {}")

	f.project = project(t,
		targetNode("//src:gen", "genrule", map[string]any{"srcs": []any{"a.txt"}, "cmd": "cat $SRCS > $OUT", "out": "gen.txt"}),
		targetNode("//java:lib", "compile", map[string]any{"tool": "javac", "srcs": []any{"Main.java", "Util.java"}}),
	)
	f.loader.EXPECT().Load(root).DoAndReturn(func(string) (*domain.Project, error) {
		return f.project, nil
	}).AnyTimes()

	f.app = app.New(f.loader, f.fs, f.logger, telemetry.NewNoOpTracer(), f.metrics, progress, rules.DefaultRegistry(), f.watcher)
	return f
}

func (f *fixture) write(t *testing.T, rel, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.fs, filepath.Join(root, rel), []byte(content), 0o644))
}

func (f *fixture) open(t *testing.T) *app.Session {
	t.Helper()
	s, err := f.app.Open(root)
	require.NoError(t, err)
	return s
}

func targetNode(target, typ string, args map[string]any) *domain.TargetNode {
	return &domain.TargetNode{Target: domain.MustParseBuildTarget(target), Type: typ, Args: args, RawInputsHash: uint64(len(args))}
}

func project(t *testing.T, nodes ...*domain.TargetNode) *domain.Project {
	t.Helper()
	g := domain.NewTargetGraph()
	for _, n := range nodes {
		require.NoError(t, g.AddNode(n))
	}
	require.NoError(t, g.Validate())
	settings := domain.DefaultSettings()
	settings.Root = root
	return &domain.Project{Settings: settings, Graph: g}
}

func byTarget(reports []app.KeyReport) map[string]app.KeyReport {
	m := make(map[string]app.KeyReport, len(reports))
	for _, r := range reports {
		m[r.Target.String()] = r
	}
	return m
}

func TestSession_KeysMissThenHit(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	reports, err := s.Keys(t.Context(), nil, app.KeysOptions{})
	require.NoError(t, err)
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.Equal(t, app.StatusMiss, r.Status, r.Target.String())
		assert.False(t, r.Key.IsZero())
	}

	record, err := s.RecordDepFile(t.Context(), "//src:gen", nil)
	require.NoError(t, err)
	assert.True(t, record.ManifestKey.IsZero())

	f.vertex.EXPECT().Cached().Times(1)
	reports, err = s.Keys(t.Context(), []string{"//src:gen"}, app.KeysOptions{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, app.StatusHit, reports[0].Status)
	assert.Equal(t, record.RuleKey, reports[0].Key.Hash)
}

func TestSession_KeysExplain(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	reports, err := s.Keys(t.Context(), []string{"//src:gen"}, app.KeysOptions{Explain: true})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Contains(t, reports[0].Key.Explain(), "srcs@src/a.txt=")
	assert.Contains(t, reports[0].Key.Explain(), `cmd="cat $SRCS > $OUT"`)
}

func TestSession_KeysUnknownTarget(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	_, err := s.Keys(t.Context(), []string{"//src:nope"}, app.KeysOptions{})
	require.ErrorIs(t, err, domain.ErrTargetNotFound)

	_, err = s.Keys(t.Context(), []string{"src:gen"}, app.KeysOptions{})
	require.ErrorIs(t, err, domain.ErrInvalidBuildTarget)
}

func TestSession_MissingInputIsUncacheable(t *testing.T) {
	f := newFixture(t)
	f.project = project(t,
		targetNode("//src:gen", "genrule", map[string]any{"srcs": []any{"missing.txt"}, "cmd": "true", "out": "o"}),
		targetNode("//java:lib", "compile", map[string]any{"tool": "javac", "srcs": []any{"Main.java"}}),
	)
	f.logger.EXPECT().Warn("rule is uncacheable", "target", "//src:gen", "reason", gomock.Any()).Times(1)
	s := f.open(t)

	reports, err := s.Keys(t.Context(), nil, app.KeysOptions{})
	require.NoError(t, err)

	got := byTarget(reports)
	assert.Equal(t, app.StatusUncacheable, got["//src:gen"].Status)
	require.ErrorIs(t, got["//src:gen"].Err, domain.ErrPathNotFound)
	assert.Equal(t, app.StatusMiss, got["//java:lib"].Status)
}

func TestSession_DependencyFileHit(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	record, err := s.RecordDepFile(t.Context(), "//java:lib", []domain.DependencyFileEntry{{PathToFile: "java/Main.java"}})
	require.NoError(t, err)
	assert.False(t, record.ManifestKey.IsZero())
	assert.False(t, record.DepFileKey.IsZero())

	// Util.java was not read by the last compilation.
	f.write(t, "java/Util.java", "class Util { int x; }")
	f.vertex.EXPECT().Cached().Times(1)
	reports, err := f.open(t).Keys(t.Context(), []string{"//java:lib"}, app.KeysOptions{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, app.StatusDepFileHit, reports[0].Status)
	assert.NotEqual(t, record.RuleKey, reports[0].Key.Hash)
	assert.Equal(t, record.DepFileKey, reports[0].DepFileKey.Hash)

	f.write(t, "java/Main.java", "class Main { int y; }")
	reports, err = f.open(t).Keys(t.Context(), []string{"//java:lib"}, app.KeysOptions{})
	require.NoError(t, err)
	assert.Equal(t, app.StatusMiss, reports[0].Status)
	assert.NotEqual(t, record.DepFileKey, reports[0].DepFileKey.Hash)
}

func TestSession_StaleDependencyFileFallsBack(t *testing.T) {
	f := newFixture(t)
	record, err := f.open(t).RecordDepFile(t.Context(), "//java:lib", []domain.DependencyFileEntry{{PathToFile: "java/Main.java"}})
	require.NoError(t, err)

	store, err := cas.NewStore(f.fs, filepath.Join(root, "cairn-out", cas.RecordsPath))
	require.NoError(t, err)
	record.DepFile = append(record.DepFile, domain.DependencyFileEntry{PathToFile: "java/Gone.java"})
	require.NoError(t, store.Put(record))

	f.write(t, "java/Util.java", "class Util { int x; }")
	f.logger.EXPECT().Warn(
		"dependency file no longer matches the rule, falling back to the default rule key",
		"target", "//java:lib",
	).Times(1)

	reports, err := f.open(t).Keys(t.Context(), []string{"//java:lib"}, app.KeysOptions{})
	require.NoError(t, err)
	assert.Equal(t, app.StatusMiss, reports[0].Status)
	assert.True(t, reports[0].DepFileKey.IsZero())
}

func TestSession_RecordDepFileRequiresSupport(t *testing.T) {
	f := newFixture(t)
	_, err := f.open(t).RecordDepFile(t.Context(), "//src:gen", []domain.DependencyFileEntry{{PathToFile: "src/a.txt"}})
	require.ErrorIs(t, err, domain.ErrPreconditionFailed)
}

func TestSession_Hash(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	reports, err := s.Hash([]string{"src/a.txt"})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, domain.HashCode(sha256.Sum256([]byte("alpha"))), reports[0].Hash)
	assert.Equal(t, int64(len("alpha")), reports[0].Size)
	assert.Empty(t, reports[0].Members)

	_, err = s.Hash([]string{"/etc/passwd"})
	require.ErrorIs(t, err, domain.ErrPreconditionFailed)
}

func TestSession_VerifyReportsStaleEntries(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	result, err := s.Verify(t.Context())
	require.NoError(t, err)
	assert.Positive(t, result.Examined)
	assert.Empty(t, result.Mismatches)

	f.write(t, "src/a.txt", "beta")
	result, err = s.Verify(t.Context())
	require.NoError(t, err)
	assert.Contains(t, result.Mismatches, "src/a.txt")
}

func TestSession_WatchRecomputesAfterChanges(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		s := f.open(t)

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		f.watcher.EXPECT().Start(gomock.Any(), root).Return(nil)
		f.watcher.EXPECT().Stop().Return(nil)
		f.watcher.EXPECT().Events().Return(iter.Seq[domain.WatchEvent](func(yield func(domain.WatchEvent) bool) {
			f.write(t, "src/a.txt", "changed")
			f.write(t, "src/new.txt", "new")
			if !yield(domain.WatchEvent{Kind: domain.WatchEventModify, Path: "src/a.txt"}) {
				return
			}
			if !yield(domain.WatchEvent{Kind: domain.WatchEventCreate, Path: "src/new.txt"}) {
				return
			}
			<-ctx.Done()
		}))

		batches := make(chan []app.KeyReport, 4)
		done := make(chan error, 1)
		go func() {
			done <- s.Watch(ctx, app.WatchOptions{Targets: []string{"//src:gen"}}, func(reports []app.KeyReport, err error) {
				assert.NoError(t, err)
				batches <- reports
			})
		}()

		before := <-batches
		after := <-batches
		cancel()
		require.ErrorIs(t, <-done, context.Canceled)

		require.Len(t, before, 1)
		require.Len(t, after, 1)
		assert.NotEqual(t, before[0].Key.Hash, after[0].Key.Hash)

		counters, err := f.app.Counters(t.Context())
		require.NoError(t, err)
		assert.Contains(t, counters, telemetry.Counter{Name: "cairn.actiongraph.misses{reason=filesystem_change}", Value: 1})
	})
}

func TestSession_WatchReloadsTargets(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		s := f.open(t)

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		f.watcher.EXPECT().Start(gomock.Any(), root).Return(nil)
		f.watcher.EXPECT().Stop().Return(nil)
		f.watcher.EXPECT().Events().Return(iter.Seq[domain.WatchEvent](func(yield func(domain.WatchEvent) bool) {
			f.project = project(t,
				targetNode("//src:gen", "genrule", map[string]any{"srcs": []any{"a.txt"}, "cmd": "cat $SRCS", "out": "gen.txt"}),
			)
			if !yield(domain.WatchEvent{Kind: domain.WatchEventModify, Path: domain.ConfigFileName}) {
				return
			}
			<-ctx.Done()
		}))

		batches := make(chan []app.KeyReport, 4)
		done := make(chan error, 1)
		go func() {
			done <- s.Watch(ctx, app.WatchOptions{}, func(reports []app.KeyReport, _ error) {
				batches <- reports
			})
		}()

		assert.Len(t, <-batches, 2)
		assert.Len(t, <-batches, 1)
		cancel()
		require.ErrorIs(t, <-done, context.Canceled)
	})
}
