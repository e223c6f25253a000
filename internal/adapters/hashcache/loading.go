package hashcache

import (
	"maps"
	"sync"

	"go.trai.ch/cairn/internal/core/domain"
)

var _ Engine = (*LoadingEngine)(nil)

// LoadingEngine memoizes every loaded path in a map.
type LoadingEngine struct {
	loader Loader

	mu         sync.RWMutex
	hashes     map[string]domain.HashCodeAndFileType
	sizes      map[string]int64
	generation uint64
}

// NewLoadingEngine creates an unbounded memoizing engine.
func NewLoadingEngine(loader Loader) *LoadingEngine {
	return &LoadingEngine{
		loader: loader,
		hashes: make(map[string]domain.HashCodeAndFileType),
		sizes:  make(map[string]int64),
	}
}

// Get returns the cached record or loads and caches it.
func (e *LoadingEngine) Get(path string) (domain.HashCodeAndFileType, error) {
	e.mu.RLock()
	value, ok := e.hashes[path]
	gen := e.generation
	e.mu.RUnlock()
	if ok {
		return value, nil
	}

	value, err := e.loader.Hash(path)
	if err != nil {
		return domain.HashCodeAndFileType{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// An invalidation that raced with the load may have observed the old content.
	if gen == e.generation {
		e.hashes[path] = value
	}
	return value, nil
}

// GetIfPresent returns the cached record without loading.
func (e *LoadingEngine) GetIfPresent(path string) (domain.HashCodeAndFileType, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	value, ok := e.hashes[path]
	return value, ok
}

// GetSize returns the cached size or loads and caches it.
func (e *LoadingEngine) GetSize(path string) (int64, error) {
	e.mu.RLock()
	size, ok := e.sizes[path]
	gen := e.generation
	e.mu.RUnlock()
	if ok {
		return size, nil
	}

	size, err := e.loader.Size(path)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen == e.generation {
		e.sizes[path] = size
	}
	return size, nil
}

// Put replaces the record for path.
func (e *LoadingEngine) Put(path string, value domain.HashCodeAndFileType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hashes[path] = value
}

// Invalidate drops path, its descendants and its ancestors.
func (e *LoadingEngine) Invalidate(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	maps.DeleteFunc(e.hashes, func(p string, _ domain.HashCodeAndFileType) bool {
		return invalidates(path, p)
	})
	maps.DeleteFunc(e.sizes, func(p string, _ int64) bool {
		return invalidates(path, p)
	})
}

// InvalidateAll drops every entry.
func (e *LoadingEngine) InvalidateAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	clear(e.hashes)
	clear(e.sizes)
}

// Entries returns a snapshot of every cached record.
func (e *LoadingEngine) Entries() map[string]domain.HashCodeAndFileType {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.hashes)
}
