package hashcache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/zerr"
)

var _ Engine = (*LimitedEngine)(nil)

// LimitedEngine keeps at most a fixed number of records, evicting the least recently used.
type LimitedEngine struct {
	loader Loader

	mu         sync.Mutex
	hashes     *lru.Cache[string, domain.HashCodeAndFileType]
	sizes      *lru.Cache[string, int64]
	generation uint64
}

// NewLimitedEngine creates an engine holding at most limit records and limit sizes.
func NewLimitedEngine(loader Loader, limit int) (*LimitedEngine, error) {
	hashes, err := lru.New[string, domain.HashCodeAndFileType](limit)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create hash cache"), "limit", limit)
	}
	sizes, err := lru.New[string, int64](limit)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create size cache"), "limit", limit)
	}
	return &LimitedEngine{loader: loader, hashes: hashes, sizes: sizes}, nil
}

// Get returns the cached record or loads and caches it.
func (e *LimitedEngine) Get(p string) (domain.HashCodeAndFileType, error) {
	if value, ok := e.hashes.Get(p); ok {
		return value, nil
	}
	gen := e.currentGeneration()

	value, err := e.loader.Hash(p)
	if err != nil {
		return domain.HashCodeAndFileType{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen == e.generation {
		e.hashes.Add(p, value)
	}
	return value, nil
}

// GetIfPresent returns the cached record without loading or touching recency.
func (e *LimitedEngine) GetIfPresent(p string) (domain.HashCodeAndFileType, bool) {
	return e.hashes.Peek(p)
}

// GetSize returns the cached size or loads and caches it.
func (e *LimitedEngine) GetSize(p string) (int64, error) {
	if size, ok := e.sizes.Get(p); ok {
		return size, nil
	}
	gen := e.currentGeneration()

	size, err := e.loader.Size(p)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen == e.generation {
		e.sizes.Add(p, size)
	}
	return size, nil
}

// Put replaces the record for p.
func (e *LimitedEngine) Put(p string, value domain.HashCodeAndFileType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hashes.Add(p, value)
}

// Invalidate drops p, its descendants and its ancestors.
func (e *LimitedEngine) Invalidate(p string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	for _, key := range e.hashes.Keys() {
		if invalidates(p, key) {
			e.hashes.Remove(key)
		}
	}
	for _, key := range e.sizes.Keys() {
		if invalidates(p, key) {
			e.sizes.Remove(key)
		}
	}
}

// InvalidateAll drops every entry.
func (e *LimitedEngine) InvalidateAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.hashes.Purge()
	e.sizes.Purge()
}

// Entries returns a snapshot of every cached record.
func (e *LimitedEngine) Entries() map[string]domain.HashCodeAndFileType {
	out := make(map[string]domain.HashCodeAndFileType, e.hashes.Len())
	for _, key := range e.hashes.Keys() {
		if value, ok := e.hashes.Peek(key); ok {
			out[key] = value
		}
	}
	return out
}

func (e *LimitedEngine) currentGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}
