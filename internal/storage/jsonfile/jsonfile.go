package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"librarium/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	booksFile   = "books.json"
	usersFile   = "users.json"
	historyFile = "history.json"
)

// Store persists each catalog collection to its own JSON file inside a
// single data directory. Saves are whole-file overwrites.
type Store struct {
	dir    string
	logger *zap.Logger
}

// New creates the data directory if needed and returns a Store over it.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// SaveBooks writes the full book collection to books.json
func (s *Store) SaveBooks(ctx context.Context, books []models.Book) error {
	if err := saveFile(s.path(booksFile), books); err != nil {
		return err
	}
	s.logger.Debug("collection saved", zap.String("file", booksFile), zap.Int("count", len(books)))
	return nil
}

// LoadBooks reads books.json, returning an empty set if the file is absent
func (s *Store) LoadBooks(ctx context.Context) ([]models.Book, error) {
	return loadFile[models.Book](s.path(booksFile))
}

// SaveUsers writes the full user collection to users.json
func (s *Store) SaveUsers(ctx context.Context, users []models.UserRecord) error {
	if err := saveFile(s.path(usersFile), users); err != nil {
		return err
	}
	s.logger.Debug("collection saved", zap.String("file", usersFile), zap.Int("count", len(users)))
	return nil
}

// LoadUsers reads users.json, returning an empty set if the file is absent
func (s *Store) LoadUsers(ctx context.Context) ([]models.UserRecord, error) {
	return loadFile[models.UserRecord](s.path(usersFile))
}

// SaveHistory writes the full history collection to history.json
func (s *Store) SaveHistory(ctx context.Context, entries []models.HistoryEntry) error {
	if err := saveFile(s.path(historyFile), entries); err != nil {
		return err
	}
	s.logger.Debug("collection saved", zap.String("file", historyFile), zap.Int("count", len(entries)))
	return nil
}

// LoadHistory reads history.json, returning an empty set if the file is absent
func (s *Store) LoadHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	return loadFile[models.HistoryEntry](s.path(historyFile))
}

// Close is a no-op; files are closed after every save and load
func (s *Store) Close() error {
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func saveFile[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func loadFile[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return items, nil
}
