package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"librarium/internal/models"
)

func newTestStore(t *testing.T) (*Store, string) {
	dir := t.TempDir()
	store, err := New(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func TestBooksRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	books := []models.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Genre: "SF", PublishedYear: 1965, Available: true},
		{ID: 2, Title: "Hyperion", Author: "Dan Simmons", Genre: "SF", PublishedYear: 1989, Available: false},
	}
	require.NoError(t, store.SaveBooks(ctx, books))

	loaded, err := store.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, books, loaded)
}

func TestUsersRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	users := []models.UserRecord{
		{User: models.User{ID: 1, Username: "alice", Email: "a@x.com"}, BorrowedBooks: []int64{2}},
		{User: models.User{ID: 2, Username: "bob", Email: "b@x.com"}, BorrowedBooks: []int64{}},
	}
	require.NoError(t, store.SaveUsers(ctx, users))

	loaded, err := store.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, loaded)
}

func TestHistoryRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	entries := []models.HistoryEntry{
		{Action: models.ActionBorrow, Username: "alice", BookTitle: "Dune", Timestamp: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)},
		{Action: models.ActionReturn, Username: "alice", BookTitle: "Dune", Timestamp: time.Date(2026, 1, 3, 9, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, store.SaveHistory(ctx, entries))

	loaded, err := store.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	for i := range entries {
		assert.Equal(t, entries[i].Action, loaded[i].Action)
		assert.True(t, entries[i].Timestamp.Equal(loaded[i].Timestamp))
	}
}

func TestMissingFilesMeanEmptyDataset(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	books, err := store.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	users, err := store.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	history, err := store.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMalformedFileFailsLoad(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.json"), []byte("{not json"), 0o644))

	_, err := store.LoadBooks(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "books.json")
}

func TestWireFieldNames(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveBooks(ctx, []models.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Genre: "SF", PublishedYear: 1965, Available: true},
	}))
	require.NoError(t, store.SaveUsers(ctx, []models.UserRecord{
		{User: models.User{ID: 1, Username: "alice", Email: "a@x.com"}, BorrowedBooks: []int64{1}},
	}))

	booksRaw, err := os.ReadFile(filepath.Join(dir, "books.json"))
	require.NoError(t, err)
	for _, key := range []string{`"book_id"`, `"title"`, `"author"`, `"genre"`, `"published_year"`, `"available"`} {
		assert.Contains(t, string(booksRaw), key)
	}

	usersRaw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	for _, key := range []string{`"user_id"`, `"name"`, `"email"`, `"borrowed_books"`} {
		assert.Contains(t, string(usersRaw), key)
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveHistory(ctx, nil))

	raw, err := os.ReadFile(filepath.Join(dir, "history.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestNewCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store, err := New(dir, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
