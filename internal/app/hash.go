package app

import (
	"context"
	"errors"

	"go.trai.ch/cairn/internal/core/domain"
)

// HashReport describes one hashed path.
type HashReport struct {
	Path string
	Hash domain.HashCode
	Size int64
	// Members lists the archive members with recorded hashes.
	Members []string
}

// Hash returns the cached digests of project-relative paths, hashing them on first use.
func (s *Session) Hash(paths []string) ([]HashReport, error) {
	reports := make([]HashReport, 0, len(paths))
	for _, p := range paths {
		h, err := s.hashes.Get(p)
		if err != nil {
			return nil, err
		}
		size, err := s.hashes.GetSize(p)
		if err != nil {
			return nil, err
		}
		report := HashReport{Path: p, Hash: h, Size: size}
		if s.hasher.IsArchive(p) {
			members, err := s.hashes.ArchiveMembers(p)
			if err != nil && !errors.Is(err, domain.ErrArchiveManifestMissing) {
				return nil, err
			}
			report.Members = members
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Verify keys every rule, then rehashes every cached path and reports the stale ones.
func (s *Session) Verify(ctx context.Context) (domain.VerificationResult, error) {
	if _, err := s.Keys(ctx, nil, KeysOptions{}); err != nil {
		return domain.VerificationResult{}, err
	}
	return s.hashes.Verify()
}
