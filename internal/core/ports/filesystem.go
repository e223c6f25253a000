package ports

import (
	"io/fs"

	"go.trai.ch/cairn/internal/core/domain"
)

// ProjectFilesystem gives read access to the files under the project root.
// All paths are relative to the root.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type ProjectFilesystem interface {
	// Root returns the absolute project root.
	Root() string
	// Stat returns the file info of a path.
	Stat(path string) (fs.FileInfo, error)
	// Exists reports whether a path exists.
	Exists(path string) bool
	// IsDir reports whether a path is an existing directory.
	IsDir(path string) bool
	// ReadFile returns the content of a file.
	ReadFile(path string) ([]byte, error)
	// Files returns every regular file under path, sorted, relative to the root.
	Files(path string) ([]string, error)
}

// ContentHasher computes digests of files, directories and archives.
type ContentHasher interface {
	// HashFile digests the bytes of a regular file.
	HashFile(path string) (domain.HashCode, error)
	// HashDirectory folds every descendant file's relative path and digest, in sorted order.
	// Descendant digests are obtained through childHash so that a cache can serve them.
	HashDirectory(path string, childHash func(child string) (domain.HashCode, error)) (domain.HashCode, []string, error)
	// HashArchive digests an archive and returns the member hashes recorded in its manifest.
	HashArchive(path string) (domain.HashCode, map[string]domain.HashCode, error)
	// IsArchive reports whether a path is hashed as an archive.
	IsArchive(path string) bool
}
