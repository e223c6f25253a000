package hashcache_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cairn/internal/adapters/fs"
	"go.trai.ch/cairn/internal/adapters/hashcache"
)

const root = "/repo"

type project struct {
	mem afero.Fs
	fs  *fs.ProjectFilesystem
}

func newProject(t *testing.T) *project {
	t.Helper()
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll(root, 0o755))
	return &project{mem: mem, fs: fs.NewProjectFilesystem(mem, root)}
}

func (p *project) write(t *testing.T, rel, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(p.mem, filepath.Join(root, rel), []byte(content), 0o644))
}

func (p *project) remove(t *testing.T, rel string) {
	t.Helper()
	require.NoError(t, p.mem.RemoveAll(filepath.Join(root, rel)))
}

// writeJar stores an archive whose manifest records digests for the digested members.
// A nil digested list produces an archive without a manifest.
func (p *project) writeJar(t *testing.T, rel string, members map[string]string, digested []string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if digested != nil {
		var mf bytes.Buffer
		mf.WriteString("Manifest-Version: 1.0\n\n")
		for _, name := range digested {
			digest := sha256.Sum256([]byte(members[name]))
			fmt.Fprintf(&mf, "Name: %s\nSHA-256-Digest: %s\n\n", name, base64.StdEncoding.EncodeToString(digest[:]))
		}
		w, err := zw.Create(fs.ManifestPath)
		require.NoError(t, err)
		_, err = w.Write(mf.Bytes())
		require.NoError(t, err)
	}
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, afero.WriteFile(p.mem, filepath.Join(root, rel), buf.Bytes(), 0o644))
}

func (p *project) cache(t *testing.T, opts ...hashcache.Option) *hashcache.DefaultFileHashCache {
	t.Helper()
	c, err := hashcache.New(p.fs, fs.NewHasher(p.fs, []string{".jar"}), opts...)
	require.NoError(t, err)
	return c
}
