package fs_test

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
)

const root = "/repo"

func writeFile(t *testing.T, mem afero.Fs, rel, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(mem, filepath.Join(root, rel), []byte(content), 0o644))
}

// buildJar returns an archive holding members and, unless manifest is false, a manifest with
// a digest for every member listed in digested.
func buildJar(t *testing.T, members map[string]string, manifest bool, digested ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if manifest {
		var mf bytes.Buffer
		mf.WriteString("Manifest-Version: 1.0\r\n\r\n")
		for _, name := range digested {
			digest := sha256.Sum256([]byte(members[name]))
			fmt.Fprintf(&mf, "Name: %s\r\nSHA-256-Digest: %s\r\n\r\n", name, base64.StdEncoding.EncodeToString(digest[:]))
		}
		w, err := zw.Create("META-INF/MANIFEST.MF")
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
	return buf.Bytes()
}
