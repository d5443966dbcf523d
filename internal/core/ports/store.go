package ports

import "go.trai.ch/shade/internal/core/domain"

// BuildRecordStore defines the interface for storing and retrieving build records.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildRecordStore interface {
	// Get retrieves the record for an output path.
	// Returns nil, nil if not found.
	Get(output string) (*domain.BuildRecord, error)

	// Put stores the record, replacing any previous record for the same output.
	Put(record domain.BuildRecord) error

	// Delete removes the record for an output path. Deleting a missing record is not an error.
	Delete(output string) error
}

// StoreFactory opens the record store backed by the state file at path.
type StoreFactory func(path string) BuildRecordStore
