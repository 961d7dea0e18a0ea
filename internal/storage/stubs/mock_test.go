package stubs

import (
	"context"
	"testing"
	"time"

	"librarium/internal/models"
)

func TestMemoryStore_BooksRoundtrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	books := []models.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Genre: "SF", PublishedYear: 1965, Available: true},
	}
	if err := store.SaveBooks(ctx, books); err != nil {
		t.Fatalf("Failed to save books: %v", err)
	}

	loaded, err := store.LoadBooks(ctx)
	if err != nil {
		t.Fatalf("Failed to load books: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Title != "Dune" {
		t.Fatalf("Unexpected books: %+v", loaded)
	}
}

func TestMemoryStore_LoadReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.SaveBooks(ctx, []models.Book{{ID: 1, Title: "Dune"}}); err != nil {
		t.Fatalf("Failed to save books: %v", err)
	}

	loaded, _ := store.LoadBooks(ctx)
	loaded[0].Title = "Changed"

	again, _ := store.LoadBooks(ctx)
	if again[0].Title != "Dune" {
		t.Errorf("Expected stored book to be unchanged, got %q", again[0].Title)
	}
}

func TestMemoryStore_UsersCopyBorrowedBooks(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	users := []models.UserRecord{{
		User:          models.User{ID: 1, Username: "alice", Email: "a@x.com"},
		BorrowedBooks: []int64{1, 2},
	}}
	if err := store.SaveUsers(ctx, users); err != nil {
		t.Fatalf("Failed to save users: %v", err)
	}

	loaded, _ := store.LoadUsers(ctx)
	loaded[0].BorrowedBooks[0] = 99

	again, _ := store.LoadUsers(ctx)
	if again[0].BorrowedBooks[0] != 1 {
		t.Errorf("Expected stored borrowed books to be unchanged, got %v", again[0].BorrowedBooks)
	}
}

func TestMemoryStore_EmptyLoads(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	books, err := store.LoadBooks(ctx)
	if err != nil {
		t.Fatalf("Failed to load books: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("Expected no books, got %d", len(books))
	}

	history, err := store.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("Failed to load history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("Expected no history, got %d", len(history))
	}
}

func TestMemoryStore_HistoryRoundtrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	entries := []models.HistoryEntry{
		{Action: models.ActionBorrow, Username: "alice", BookTitle: "Dune", Timestamp: time.Now()},
	}
	if err := store.SaveHistory(ctx, entries); err != nil {
		t.Fatalf("Failed to save history: %v", err)
	}

	loaded, err := store.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("Failed to load history: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Action != models.ActionBorrow {
		t.Fatalf("Unexpected history: %+v", loaded)
	}
}
