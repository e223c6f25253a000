package hashcache

import (
	"path"
	"strings"
	"sync"

	"go.trai.ch/cairn/internal/core/domain"
)

var _ Engine = (*PrefixTreeEngine)(nil)

type trieNode struct {
	children map[string]*trieNode
	hash     *domain.HashCodeAndFileType
	size     *int64
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[string]*trieNode)}
}

// PrefixTreeEngine stores records in a trie keyed by path segment, so invalidating a
// directory drops its whole subtree in one step.
type PrefixTreeEngine struct {
	loader Loader

	mu         sync.RWMutex
	root       *trieNode
	generation uint64
}

// NewPrefixTreeEngine creates a trie-backed engine.
func NewPrefixTreeEngine(loader Loader) *PrefixTreeEngine {
	return &PrefixTreeEngine{loader: loader, root: newTrieNode()}
}

func segments(p string) []string {
	if p == "." || p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// find returns the node for p, creating missing nodes when create is set.
func (e *PrefixTreeEngine) find(p string, create bool) *trieNode {
	n := e.root
	for _, seg := range segments(p) {
		child, ok := n.children[seg]
		if !ok {
			if !create {
				return nil
			}
			child = newTrieNode()
			n.children[seg] = child
		}
		n = child
	}
	return n
}

// Get returns the cached record or loads and caches it.
func (e *PrefixTreeEngine) Get(p string) (domain.HashCodeAndFileType, error) {
	if value, ok := e.GetIfPresent(p); ok {
		return value, nil
	}
	e.mu.RLock()
	gen := e.generation
	e.mu.RUnlock()

	value, err := e.loader.Hash(p)
	if err != nil {
		return domain.HashCodeAndFileType{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen == e.generation {
		e.find(p, true).hash = &value
	}
	return value, nil
}

// GetIfPresent returns the cached record without loading.
func (e *PrefixTreeEngine) GetIfPresent(p string) (domain.HashCodeAndFileType, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if n := e.find(p, false); n != nil && n.hash != nil {
		return *n.hash, true
	}
	return domain.HashCodeAndFileType{}, false
}

// GetSize returns the cached size or loads and caches it.
func (e *PrefixTreeEngine) GetSize(p string) (int64, error) {
	e.mu.RLock()
	if n := e.find(p, false); n != nil && n.size != nil {
		size := *n.size
		e.mu.RUnlock()
		return size, nil
	}
	gen := e.generation
	e.mu.RUnlock()

	size, err := e.loader.Size(p)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen == e.generation {
		e.find(p, true).size = &size
	}
	return size, nil
}

// Put replaces the record for p.
func (e *PrefixTreeEngine) Put(p string, value domain.HashCodeAndFileType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.find(p, true).hash = &value
}

// Invalidate removes the subtree at p and clears every ancestor's values.
func (e *PrefixTreeEngine) Invalidate(p string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++

	segs := segments(p)
	if len(segs) == 0 {
		e.root = newTrieNode()
		return
	}
	n := e.root
	for _, seg := range segs[:len(segs)-1] {
		n.hash, n.size = nil, nil
		child, ok := n.children[seg]
		if !ok {
			return
		}
		n = child
	}
	n.hash, n.size = nil, nil
	delete(n.children, segs[len(segs)-1])
}

// InvalidateAll drops every entry.
func (e *PrefixTreeEngine) InvalidateAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.root = newTrieNode()
}

// Entries returns a snapshot of every cached record.
func (e *PrefixTreeEngine) Entries() map[string]domain.HashCodeAndFileType {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]domain.HashCodeAndFileType)
	var walk func(prefix string, n *trieNode)
	walk = func(prefix string, n *trieNode) {
		if n.hash != nil {
			out[prefix] = *n.hash
		}
		for seg, child := range n.children {
			walk(path.Join(prefix, seg), child)
		}
	}
	walk(".", e.root)
	return out
}
