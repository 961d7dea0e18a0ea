package storage

import (
	"context"

	"librarium/internal/models"
)

// Storage defines the persistence operations for the catalog collections.
// Each collection has an independent save/load pair. Load methods report a
// missing backing file as an empty dataset, not an error; a file that exists
// but cannot be parsed fails the load.
type Storage interface {
	// Book operations
	SaveBooks(ctx context.Context, books []models.Book) error
	LoadBooks(ctx context.Context) ([]models.Book, error)

	// User operations
	SaveUsers(ctx context.Context, users []models.UserRecord) error
	LoadUsers(ctx context.Context) ([]models.UserRecord, error)

	// History operations
	SaveHistory(ctx context.Context, entries []models.HistoryEntry) error
	LoadHistory(ctx context.Context) ([]models.HistoryEntry, error)

	// Lifecycle
	Close() error
}
