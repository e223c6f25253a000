package ports

import "go.trai.ch/cairn/internal/core/domain"

// FileHashLoader supplies content hashes to rule key computation.
//
//go:generate mockgen -source=file_hash_cache.go -destination=mocks/mock_file_hash_cache.go -package=mocks
type FileHashLoader interface {
	// Get returns the digest of a file, directory or archive.
	Get(path string) (domain.HashCode, error)
	// GetArchiveMember returns the recorded digest of one archive member.
	GetArchiveMember(member domain.ArchiveMemberPath) (domain.HashCode, error)
	// GetSize returns the total size in bytes of the files under path.
	GetSize(path string) (int64, error)
	// ArchiveMembers returns the sorted names of an archive's members with recorded digests.
	ArchiveMembers(path string) ([]string, error)
}

// FileHashCache caches content hashes by path until they are invalidated.
type FileHashCache interface {
	FileHashLoader
	// Set records a digest for a path, classifying it as file, directory or archive.
	Set(path string, hash domain.HashCode) error
	// Invalidate drops the entry for path, its cached descendants and its cached ancestors.
	Invalidate(path string)
	// InvalidateAll drops every entry.
	InvalidateAll()
	// WillGet reports whether Get would succeed without erroring.
	WillGet(path string) bool
	// IsIgnored reports whether the cache refuses to hash path.
	IsIgnored(path string) bool
	// Verify recomputes every cached entry and reports the ones that no longer match.
	Verify() (domain.VerificationResult, error)
}
