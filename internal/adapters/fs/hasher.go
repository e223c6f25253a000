package fs

import (
	"crypto/sha256"
	"errors"
	"hash"
	"io"
	iofs "io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ContentHasher = (*Hasher)(nil)

const defaultBufferSize = 32 * 1024

var bufferPool = sync.Pool{
	New: func() any {
		buffer := make([]byte, defaultBufferSize)
		return &buffer
	},
}

// Hasher computes content digests over a ProjectFilesystem.
type Hasher struct {
	fs                *ProjectFilesystem
	archiveExtensions []string
}

// NewHasher creates a new Hasher. Files whose extension is in archiveExtensions are hashed as archives.
func NewHasher(fs *ProjectFilesystem, archiveExtensions []string) *Hasher {
	return &Hasher{fs: fs, archiveExtensions: slices.Clone(archiveExtensions)}
}

// IsArchive reports whether a path is hashed as an archive.
func (h *Hasher) IsArchive(path string) bool {
	return slices.Contains(h.archiveExtensions, strings.ToLower(filepath.Ext(path)))
}

// HashFile computes the SHA-256 of a file's content.
func (h *Hasher) HashFile(path string) (domain.HashCode, error) {
	f, err := h.fs.Open(path)
	if err != nil {
		return domain.HashCode{}, openError(err, path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := sha256.New()
	if err := copyBuffered(hasher, f); err != nil {
		return domain.HashCode{}, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return sum(hasher), nil
}

// HashDirectory folds each descendant file's path relative to dir and its digest, in sorted order.
func (h *Hasher) HashDirectory(
	dir string,
	childHash func(child string) (domain.HashCode, error),
) (domain.HashCode, []string, error) {
	files, err := h.fs.Files(dir)
	if err != nil {
		return domain.HashCode{}, nil, err
	}

	hasher := sha256.New()
	children := make([]string, 0, len(files))
	for _, file := range files {
		rel := Rel(dir, file)
		childDigest, err := childHash(file)
		if err != nil {
			return domain.HashCode{}, nil, err
		}
		_, _ = hasher.Write([]byte(rel))
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.Write(childDigest[:])
		children = append(children, rel)
	}
	return sum(hasher), children, nil
}

// HashArchive hashes the whole archive and returns the member digests recorded in its manifest.
// The member map is nil when the archive has no manifest.
func (h *Hasher) HashArchive(path string) (domain.HashCode, map[string]domain.HashCode, error) {
	data, err := h.fs.ReadFile(path)
	if err != nil {
		return domain.HashCode{}, nil, openError(err, path)
	}
	members, err := readManifestDigests(data)
	if err != nil {
		return domain.HashCode{}, nil, zerr.With(err, "path", path)
	}
	return sha256.Sum256(data), members, nil
}

func copyBuffered(dst io.Writer, src io.Reader) error {
	bufPtr := bufferPool.Get().(*[]byte) //nolint:forcetypeassert // Pool only holds *[]byte
	defer bufferPool.Put(bufPtr)
	_, err := io.CopyBuffer(dst, src, *bufPtr)
	return err
}

func sum(h hash.Hash) domain.HashCode {
	var out domain.HashCode
	copy(out[:], h.Sum(nil))
	return out
}

func openError(err error, path string) error {
	if errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(domain.ErrPathNotFound, "failed to open file"), "path", path)
	}
	return zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
}
