package ports

import "go.trai.ch/cairn/internal/core/domain"

// BuildRecordStore defines the interface for storing and retrieving build records.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildRecordStore interface {
	// Get retrieves the build record for a given target.
	// It returns an error wrapping domain.ErrBuildRecordNotFound if the target was never recorded.
	Get(target string) (*domain.BuildRecord, error)

	// Put stores the build record.
	Put(record domain.BuildRecord) error
}
