// Package cas persists the build records the execution engine leaves behind for each target.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildRecordStore = (*Store)(nil)

// RecordsPath is where a project keeps its build records, relative to the output directory.
const RecordsPath = ".cairn/records.json"

// Store implements ports.BuildRecordStore using a flat JSON file.
type Store struct {
	fs    afero.Fs
	path  string
	mu    sync.RWMutex
	cache map[string]domain.BuildRecord
}

// NewStore creates a new BuildRecordStore backed by the file at the given path.
func NewStore(fsys afero.Fs, path string) (*Store, error) {
	s := &Store{
		fs:    fsys,
		path:  filepath.Clean(path),
		cache: make(map[string]domain.BuildRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read build record store"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal build record store"), "path", s.path)
	}

	return nil
}

// save writes the records to a temporary file and renames it over the store.
// s.mu must be held.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal build record store")
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for build record store"), "path", dir)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write build record store"), "path", tmp)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace build record store"), "path", s.path)
	}

	return nil
}

// Get retrieves the build record for a given target.
func (s *Store) Get(target string) (*domain.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.cache[target]
	if !ok {
		return nil, domain.WithMeta(domain.ErrBuildRecordNotFound, "target", target)
	}
	record.DepFile = append([]domain.DependencyFileEntry(nil), record.DepFile...)
	return &record, nil
}

// Put stores the record and persists the whole store.
func (s *Store) Put(record domain.BuildRecord) error {
	if record.Target == "" {
		return zerr.Wrap(domain.ErrPreconditionFailed, "build record has no target")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[record.Target] = record
	return s.save()
}
