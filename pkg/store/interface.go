package store

import (
	"fundmanager/pkg/models"
)

// Storage is the persistence collaborator: a key-value store of whole
// per-user application states, keyed by the partition key (the user id).
type Storage interface {
	// Load returns the state saved for the partition, or (nil, nil) when
	// nothing has been saved yet.
	Load(partitionKey string) (*models.AppState, error)
	// Save replaces the partition's state wholesale.
	Save(partitionKey string, state *models.AppState) error

	Close() error
}
