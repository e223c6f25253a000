// Package hashcache caches content hashes of project paths behind interchangeable storage engines.
package hashcache

import (
	"strings"

	"go.trai.ch/cairn/internal/core/domain"
)

// Loader computes values for paths an engine has not cached.
type Loader struct {
	Hash func(path string) (domain.HashCodeAndFileType, error)
	Size func(path string) (int64, error)
}

// Engine stores hash records and sizes by project-relative path.
// Implementations are safe for concurrent use. Invalidating a path drops its cached descendants
// and its cached ancestors, since directory records fold in every descendant.
type Engine interface {
	Get(path string) (domain.HashCodeAndFileType, error)
	GetIfPresent(path string) (domain.HashCodeAndFileType, bool)
	GetSize(path string) (int64, error)
	Put(path string, value domain.HashCodeAndFileType)
	Invalidate(path string)
	InvalidateAll()
	// Entries returns a snapshot of every cached record.
	Entries() map[string]domain.HashCodeAndFileType
}

// isWithin reports whether p equals dir or lies below it.
func isWithin(p, dir string) bool {
	return p == dir || dir == "." || strings.HasPrefix(p, dir+"/")
}

// invalidates reports whether invalidating target must drop the entry at p.
func invalidates(target, p string) bool {
	if isWithin(p, target) {
		return true
	}
	return isWithin(target, p)
}
