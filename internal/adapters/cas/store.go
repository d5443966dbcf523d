// Package cas implements the build record store.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildRecordStore = (*Store)(nil)

// Store implements ports.BuildRecordStore using a flat JSON file keyed by output path.
type Store struct {
	path string

	mu      sync.RWMutex
	loaded  bool
	records map[string]domain.BuildRecord
}

// NewStore creates a store backed by the file at path. The file is read lazily.
func NewStore(path string) *Store {
	return &Store{
		path:    filepath.Clean(path),
		records: make(map[string]domain.BuildRecord),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// loadLocked reads the backing file once. Must be called with s.mu held for writing.
func (s *Store) loadLocked() error {
	if s.loaded {
		return nil
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.loaded = true
			return nil
		}
		return zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", s.path)
	}

	if len(data) > 0 {
		var records map[string]domain.BuildRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", s.path)
		}
		// A file holding "null" decodes to a nil map.
		if records != nil {
			s.records = records
		}
	}

	s.loaded = true
	return nil
}

// saveLocked writes all records to a temporary file and renames it over the
// backing file. Must be called with s.mu held.
func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return zerr.Wrap(domain.ErrStoreWriteFailed, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", s.path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", s.path)
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0o644) //nolint:gosec // state file is not secret
	}
	if err == nil {
		err = os.Rename(tmpPath, s.path)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", s.path)
	}

	return nil
}

// Get retrieves the record for an output path.
func (s *Store) Get(output string) (*domain.BuildRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}

	record, ok := s.records[output]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Put stores the record and persists the store.
func (s *Store) Put(record domain.BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	s.records[record.Output] = record
	return s.saveLocked()
}

// Delete removes the record for an output path and persists the store.
func (s *Store) Delete(output string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	if _, ok := s.records[output]; !ok {
		return nil
	}
	delete(s.records, output)
	return s.saveLocked()
}
