package commands_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cairn/cmd/cairn/commands"
	"go.trai.ch/cairn/internal/adapters/config"
	"go.trai.ch/cairn/internal/adapters/telemetry"
	"go.trai.ch/cairn/internal/app"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports/mocks"
	"go.trai.ch/cairn/internal/rules"
	"go.uber.org/mock/gomock"
)

const root = "/work"

const cairnfile = `
version: "1"
targets:
  //src:gen:
    type: genrule
    srcs: [a.txt]
    cmd: cat $SRCS > $OUT
    out: gen.txt
  //java:lib:
    type: compile
    tool: javac
    srcs: [Main.java, Util.java]
`

type harness struct {
	fs     afero.Fs
	app    *app.App
	logger *mocks.MockLogger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{fs: afero.NewMemMapFs(), logger: mocks.NewMockLogger(ctrl)}
	h.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	h.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()

	vertex := mocks.NewMockProgressVertex(ctrl)
	vertex.EXPECT().Done(gomock.Any()).AnyTimes()
	vertex.EXPECT().Cached().AnyTimes()
	progress := mocks.NewMockProgress(ctrl)
	progress.EXPECT().Vertex(gomock.Any()).Return(vertex).AnyTimes()

	h.write(t, domain.ConfigFileName, cairnfile)
	h.write(t, "src/a.txt", "alpha")
	h.write(t, "java/Main.java", "class Main {}")
	h.write(t, "java/Util.java", "class Util {}")

	loader := config.NewLoader(h.fs, h.logger).WithGetenv(func(string) string { return "" })
	h.app = app.New(loader, h.fs, h.logger, telemetry.NewNoOpTracer(), telemetry.NewMetrics(),
		progress, rules.DefaultRegistry(), mocks.NewMockWatcher(ctrl))
	return h
}

func (h *harness) write(t *testing.T, rel, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(h.fs, filepath.Join(root, rel), []byte(content), 0o644))
}

func (h *harness) run(args ...string) (string, error) {
	var out bytes.Buffer
	cli := commands.New(h.app, h.logger)
	cli.SetOut(&out)
	cli.SetArgs(append([]string{"-C", root}, args...))
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestKeys_DependencyFileRoundTrip(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("keys")
	require.NoError(t, err)
	assert.Contains(t, out, "//java:lib")
	assert.Contains(t, out, "//src:gen")
	assert.Contains(t, out, "miss")

	out, err = h.run("depfile", "//java:lib", "java/Main.java")
	require.NoError(t, err)
	assert.Contains(t, out, "rule_key ")
	assert.Contains(t, out, "dep_file_key ")

	out, err = h.run("keys", "//java:lib")
	require.NoError(t, err)
	assert.Contains(t, out, "hit")

	h.write(t, "java/Util.java", "class Util { int x; }")
	out, err = h.run("keys", "//java:lib")
	require.NoError(t, err)
	assert.Contains(t, out, "dep_file_hit")
	assert.Contains(t, out, "dep_file=")
}

func TestKeys_Explain(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("keys", "--explain", "//src:gen")
	require.NoError(t, err)
	assert.Contains(t, out, `    name="//src:gen"`)
	assert.Contains(t, out, "    srcs@src/a.txt=")
}

func TestKeys_Stats(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("keys", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "cairn.actiongraph.misses{reason=empty_cache} 1")
}

func TestKeys_UnknownTarget(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("keys", "//src:nope")
	require.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestKeys_NoProject(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.fs.Remove(filepath.Join(root, domain.ConfigFileName)))

	_, err := h.run("keys")
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestHash(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("hash", "src/a.txt")
	require.NoError(t, err)
	sum := sha256.Sum256([]byte("alpha"))
	assert.Equal(t, hex.EncodeToString(sum[:])+" src/a.txt 5\n", out)
}

func TestHash_RequiresPaths(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("hash")
	require.Error(t, err)
}

func TestVerify(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("verify")
	require.NoError(t, err)
	assert.Contains(t, out, "examined 3 entries, 0 stale")
}

func TestDepFile_RejectsRulesWithoutDependencyFiles(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("depfile", "//src:gen", "src/a.txt")
	require.ErrorIs(t, err, domain.ErrPreconditionFailed)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("version")
	require.NoError(t, err)
	assert.Equal(t, "cairn version dev\n", out)
}
