// Package fs provides the project filesystem and the content hasher built on it.
package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ProjectFilesystem = (*ProjectFilesystem)(nil)

// ProjectFilesystem restricts file access to one project root.
type ProjectFilesystem struct {
	root string
	fs   afero.Fs
}

// NewProjectFilesystem creates a filesystem rooted at root on top of base.
func NewProjectFilesystem(base afero.Fs, root string) *ProjectFilesystem {
	return &ProjectFilesystem{
		root: filepath.Clean(root),
		fs:   afero.NewBasePathFs(base, root),
	}
}

// Root returns the absolute project root.
func (p *ProjectFilesystem) Root() string {
	return p.root
}

// Stat returns the file info of a path.
func (p *ProjectFilesystem) Stat(path string) (iofs.FileInfo, error) {
	return p.fs.Stat(normalize(path))
}

// Exists reports whether a path exists.
func (p *ProjectFilesystem) Exists(path string) bool {
	ok, err := afero.Exists(p.fs, normalize(path))
	return err == nil && ok
}

// IsDir reports whether a path is an existing directory.
func (p *ProjectFilesystem) IsDir(path string) bool {
	ok, err := afero.IsDir(p.fs, normalize(path))
	return err == nil && ok
}

// ReadFile returns the content of a file.
func (p *ProjectFilesystem) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(p.fs, normalize(path))
}

// Open opens a file for streaming reads.
func (p *ProjectFilesystem) Open(path string) (afero.File, error) {
	return p.fs.Open(normalize(path))
}

// Files returns every regular file under path, sorted, relative to the root.
// A path naming a file yields just that file.
func (p *ProjectFilesystem) Files(path string) ([]string, error) {
	var files []string
	err := afero.Walk(p.fs, normalize(path), func(walked string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if walked != normalize(path) && skipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Mode().IsRegular() {
			files = append(files, filepath.ToSlash(walked))
		}
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", path)
	}
	slices.Sort(files)
	return files, nil
}

func normalize(path string) string {
	if path == "" {
		return "."
	}
	return filepath.Clean(path)
}

// skipDir reports whether a directory is version-control metadata.
func skipDir(name string) bool {
	return name == ".git" || name == ".jj"
}

// Rel returns child relative to dir, both relative to the root.
func Rel(dir, child string) string {
	dir = normalize(dir)
	if dir == "." {
		return child
	}
	return strings.TrimPrefix(child, dir+"/")
}
