package stubs

import (
	"context"
	"slices"
	"sync"

	"librarium/internal/models"
)

// MemoryStore is an in-memory implementation of the Storage interface.
// It backs tests and the CATALOG_USE_MEMORY mode.
type MemoryStore struct {
	mu      sync.RWMutex
	books   []models.Book
	users   []models.UserRecord
	history []models.HistoryEntry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveBooks replaces the stored book collection
func (m *MemoryStore) SaveBooks(ctx context.Context, books []models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books = slices.Clone(books)
	return nil
}

// LoadBooks returns a copy of the stored book collection
func (m *MemoryStore) LoadBooks(ctx context.Context) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.books), nil
}

// SaveUsers replaces the stored user collection
func (m *MemoryStore) SaveUsers(ctx context.Context, users []models.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make([]models.UserRecord, len(users))
	for i, u := range users {
		m.users[i] = u
		m.users[i].BorrowedBooks = slices.Clone(u.BorrowedBooks)
	}
	return nil
}

// LoadUsers returns a copy of the stored user collection
func (m *MemoryStore) LoadUsers(ctx context.Context) ([]models.UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]models.UserRecord, len(m.users))
	for i, u := range m.users {
		users[i] = u
		users[i].BorrowedBooks = slices.Clone(u.BorrowedBooks)
	}
	return users, nil
}

// SaveHistory replaces the stored history collection
func (m *MemoryStore) SaveHistory(ctx context.Context, entries []models.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = slices.Clone(entries)
	return nil
}

// LoadHistory returns a copy of the stored history collection
func (m *MemoryStore) LoadHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.history), nil
}

// Close does nothing for the in-memory store
func (m *MemoryStore) Close() error {
	return nil
}
