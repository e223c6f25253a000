package hashcache

import (
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileHashCache = (*StackedFileHashCache)(nil)

// StackedFileHashCache routes each path to the first cache that does not ignore it.
// It lets rule keys hash both project sources and other rules' outputs.
type StackedFileHashCache struct {
	caches []ports.FileHashCache
}

// NewStacked creates a cache routing over caches in order.
func NewStacked(caches ...ports.FileHashCache) *StackedFileHashCache {
	return &StackedFileHashCache{caches: caches}
}

func (s *StackedFileHashCache) lookup(p string) (ports.FileHashCache, error) {
	for _, c := range s.caches {
		if !c.IsIgnored(p) {
			return c, nil
		}
	}
	return nil, zerr.With(zerr.Wrap(domain.ErrPreconditionFailed, "no cache accepts path"), "path", p)
}

// Get returns the digest from the owning cache.
func (s *StackedFileHashCache) Get(p string) (domain.HashCode, error) {
	c, err := s.lookup(p)
	if err != nil {
		return domain.HashCode{}, err
	}
	return c.Get(p)
}

// GetArchiveMember returns the member digest from the cache owning the archive.
func (s *StackedFileHashCache) GetArchiveMember(member domain.ArchiveMemberPath) (domain.HashCode, error) {
	c, err := s.lookup(member.ArchivePath)
	if err != nil {
		return domain.HashCode{}, err
	}
	return c.GetArchiveMember(member)
}

// ArchiveMembers lists members from the cache owning the archive.
func (s *StackedFileHashCache) ArchiveMembers(p string) ([]string, error) {
	c, err := s.lookup(p)
	if err != nil {
		return nil, err
	}
	return c.ArchiveMembers(p)
}

// GetSize returns the size from the owning cache.
func (s *StackedFileHashCache) GetSize(p string) (int64, error) {
	c, err := s.lookup(p)
	if err != nil {
		return 0, err
	}
	return c.GetSize(p)
}

// Set records the digest in the owning cache.
func (s *StackedFileHashCache) Set(p string, hash domain.HashCode) error {
	c, err := s.lookup(p)
	if err != nil {
		return err
	}
	return c.Set(p, hash)
}

// Invalidate forwards to every cache; each drops only what it holds.
func (s *StackedFileHashCache) Invalidate(p string) {
	for _, c := range s.caches {
		c.Invalidate(p)
	}
}

// InvalidateAll forwards to every cache.
func (s *StackedFileHashCache) InvalidateAll() {
	for _, c := range s.caches {
		c.InvalidateAll()
	}
}

// WillGet asks the owning cache.
func (s *StackedFileHashCache) WillGet(p string) bool {
	c, err := s.lookup(p)
	if err != nil {
		return false
	}
	return c.WillGet(p)
}

// IsIgnored reports whether every cache ignores p.
func (s *StackedFileHashCache) IsIgnored(p string) bool {
	_, err := s.lookup(p)
	return err != nil
}

// Verify verifies every cache and merges the results.
func (s *StackedFileHashCache) Verify() (domain.VerificationResult, error) {
	var merged domain.VerificationResult
	for _, c := range s.caches {
		result, err := c.Verify()
		if err != nil {
			return merged, err
		}
		merged.Examined += result.Examined
		merged.Mismatches = append(merged.Mismatches, result.Mismatches...)
	}
	return merged, nil
}
