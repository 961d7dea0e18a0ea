package models

import (
	"fmt"
	"time"
)

// Book represents a catalogued book
type Book struct {
	ID            int64  `json:"book_id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	PublishedYear int    `json:"published_year"`
	Available     bool   `json:"available"`
}

// Summary formats the book for listings
func (b Book) Summary() string {
	status := "Available"
	if !b.Available {
		status = "Borrowed"
	}
	return fmt.Sprintf("«%s» — %s, %d [%s] — %s", b.Title, b.Author, b.PublishedYear, b.Genre, status)
}

// User represents a registered library user
type User struct {
	ID       int64  `json:"user_id"`
	Username string `json:"name"`
	Email    string `json:"email"`
}

// UserRecord is the persisted shape of a user: the user itself plus the ids
// of the books they currently hold
type UserRecord struct {
	User
	BorrowedBooks []int64 `json:"borrowed_books"`
}

// Loan links a borrowed book to the user holding it. A book appears in at
// most one loan at a time.
type Loan struct {
	BookID int64
	UserID int64
}

// Action is the kind of circulation event recorded in the history
type Action string

const (
	ActionBorrow Action = "borrow"
	ActionReturn Action = "return"
)

// HistoryEntry is an immutable audit record of a borrow or return.
// Username and BookTitle are copies taken at the time of the action.
type HistoryEntry struct {
	Action    Action    `json:"action"`
	Username  string    `json:"username"`
	BookTitle string    `json:"book_title"`
	Timestamp time.Time `json:"timestamp"`
}
