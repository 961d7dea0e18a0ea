package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"librarium/internal/models"
	"librarium/internal/storage"
)

// Catalog is the aggregate owning the book, user, loan and history
// collections. All operations are synchronous and unlocked: one caller at a
// time by construction. Loans are the single source of truth for who holds
// what; a book is unavailable iff a loan for it exists.
type Catalog struct {
	store   storage.Storage
	logger  *zap.Logger
	books   []models.Book
	users   []models.User
	loans   []models.Loan
	history []models.HistoryEntry
}

// New creates an empty catalog backed by the given store.
func New(store storage.Storage, logger *zap.Logger) *Catalog {
	return &Catalog{
		store:  store,
		logger: logger,
	}
}

// AddBook assigns the next free id, marks the book available and appends it.
// Duplicate titles are allowed.
func (c *Catalog) AddBook(book models.Book) Result {
	book.ID = c.nextBookID()
	book.Available = true
	c.books = append(c.books, book)

	c.logger.Info("book added",
		zap.Int64("book_id", book.ID),
		zap.String("title", book.Title))
	return succeed("Book «%s» added to the library.", book.Title)
}

// EditBook replaces the first book whose title matches oldTitle exactly.
// The old book's id and availability are kept unless the caller sets an id;
// a supplied id also remaps any loan on the book, so the borrower link
// survives the edit.
func (c *Catalog) EditBook(oldTitle string, updated models.Book) Result {
	for i, book := range c.books {
		if book.Title != oldTitle {
			continue
		}
		if updated.ID == 0 {
			updated.ID = book.ID
		} else if updated.ID != book.ID {
			for j, loan := range c.loans {
				if loan.BookID == book.ID {
					c.loans[j].BookID = updated.ID
				}
			}
		}
		updated.Available = book.Available
		c.books[i] = updated

		c.logger.Info("book updated",
			zap.Int64("book_id", updated.ID),
			zap.String("old_title", oldTitle),
			zap.String("title", updated.Title))
		return succeed("Book «%s» updated.", oldTitle)
	}
	return fail(CodeBookNotFound, "Book «%s» not found.", oldTitle)
}

// RemoveBook removes the first book whose title matches exactly. Removal is
// rejected while the book is on loan, so no user is left holding a dangling
// reference.
func (c *Catalog) RemoveBook(title string) Result {
	for i, book := range c.books {
		if book.Title != title {
			continue
		}
		if _, held := c.loanForBook(book.ID); held {
			return fail(CodeBookBorrowed, "Book «%s» is currently borrowed and cannot be removed.", title)
		}
		c.books = slices.Delete(c.books, i, i+1)

		c.logger.Info("book removed",
			zap.Int64("book_id", book.ID),
			zap.String("title", title))
		return succeed("Book «%s» removed.", title)
	}
	return fail(CodeBookNotFound, "Book «%s» not found.", title)
}

// RegisterUser assigns the next free id and appends the user. Neither
// username nor email uniqueness is enforced.
func (c *Catalog) RegisterUser(user models.User) Result {
	user.ID = c.nextUserID()
	c.users = append(c.users, user)

	c.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))
	return succeed("User «%s» registered.", user.Username)
}

// BorrowBook issues the titled book to the named user. Lookups are exact
// matches; an unavailable book is a conflict and leaves state unchanged.
// A successful borrow appends a history entry.
func (c *Catalog) BorrowBook(username, title string) Result {
	user, ok := c.userByName(username)
	if !ok {
		return fail(CodeUserNotFound, "User «%s» not found.", username)
	}

	idx := c.bookIndexByExactTitle(title)
	if idx < 0 {
		return fail(CodeBookNotFound, "Book «%s» not found.", title)
	}
	book := c.books[idx]
	if !book.Available {
		return fail(CodeBookUnavailable, "Book «%s» is already borrowed.", title)
	}

	c.loans = append(c.loans, models.Loan{BookID: book.ID, UserID: user.ID})
	c.books[idx].Available = false
	c.appendHistory(models.ActionBorrow, user.Username, book.Title)

	c.logger.Info("book borrowed",
		zap.Int64("book_id", book.ID),
		zap.String("username", user.Username))
	return succeed("Book «%s» issued to user «%s».", book.Title, user.Username)
}

// ReturnBook takes the titled book back from the named user. Returning a
// book the user does not hold is a no-op with an informative result and no
// history entry.
func (c *Catalog) ReturnBook(username, title string) Result {
	user, ok := c.userByName(username)
	if !ok {
		return fail(CodeUserNotFound, "User «%s» not found.", username)
	}

	idx := c.bookIndexByExactTitle(title)
	if idx < 0 {
		return fail(CodeBookNotFound, "Book «%s» not found.", title)
	}
	book := c.books[idx]

	loanIdx := -1
	for i, loan := range c.loans {
		if loan.BookID == book.ID && loan.UserID == user.ID {
			loanIdx = i
			break
		}
	}
	if loanIdx < 0 {
		return fail(CodeBookNotHeld, "User «%s» did not borrow book «%s».", username, title)
	}

	c.loans = slices.Delete(c.loans, loanIdx, loanIdx+1)
	c.books[idx].Available = true
	c.appendHistory(models.ActionReturn, user.Username, book.Title)

	c.logger.Info("book returned",
		zap.Int64("book_id", book.ID),
		zap.String("username", user.Username))
	return succeed("User «%s» returned book «%s».", user.Username, book.Title)
}

// FindBookByTitle returns the first book whose title matches,
// case-insensitively.
func (c *Catalog) FindBookByTitle(title string) (models.Book, bool) {
	for _, book := range c.books {
		if strings.EqualFold(book.Title, title) {
			return book, true
		}
	}
	return models.Book{}, false
}

// FindBookByID returns the book with the given id.
func (c *Catalog) FindBookByID(id int64) (models.Book, bool) {
	for _, book := range c.books {
		if book.ID == id {
			return book, true
		}
	}
	return models.Book{}, false
}

// ListAllBooks returns the newline-joined summaries of every book.
func (c *Catalog) ListAllBooks() string {
	if len(c.books) == 0 {
		return "The library has no books."
	}
	summaries := make([]string, len(c.books))
	for i, book := range c.books {
		summaries[i] = book.Summary()
	}
	return strings.Join(summaries, "\n")
}

// BorrowedTitles returns the comma-joined titles held by the named user, in
// borrow order.
func (c *Catalog) BorrowedTitles(username string) string {
	user, ok := c.userByName(username)
	if !ok {
		return "no borrowed books"
	}

	var titles []string
	for _, loan := range c.loans {
		if loan.UserID != user.ID {
			continue
		}
		if book, found := c.FindBookByID(loan.BookID); found {
			titles = append(titles, book.Title)
		}
	}
	if len(titles) == 0 {
		return "no borrowed books"
	}
	return strings.Join(titles, ", ")
}

// Books returns a copy of the book collection.
func (c *Catalog) Books() []models.Book {
	return slices.Clone(c.books)
}

// Users returns a copy of the user collection.
func (c *Catalog) Users() []models.User {
	return slices.Clone(c.users)
}

// History returns a copy of the history collection.
func (c *Catalog) History() []models.HistoryEntry {
	return slices.Clone(c.history)
}

// LoadAll replaces the in-memory state from the store, sequencing books,
// then users (loans are relinked against the just-loaded books), then
// history. Borrowed-book ids that match no loaded book are dropped with a
// warning.
func (c *Catalog) LoadAll(ctx context.Context) error {
	books, err := c.store.LoadBooks(ctx)
	if err != nil {
		return fmt.Errorf("load books: %w", err)
	}
	records, err := c.store.LoadUsers(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	history, err := c.store.LoadHistory(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	c.books = books
	c.users = nil
	c.loans = nil
	c.history = history
	c.assignMissingBookIDs()

	for _, record := range records {
		user := record.User
		if user.ID == 0 {
			user.ID = c.nextUserID()
		}
		c.users = append(c.users, user)

		for _, bookID := range record.BorrowedBooks {
			idx := -1
			for i, book := range c.books {
				if book.ID == bookID {
					idx = i
					break
				}
			}
			if idx < 0 {
				c.logger.Warn("dropping loan for unknown book",
					zap.Int64("book_id", bookID),
					zap.String("username", user.Username))
				continue
			}
			c.loans = append(c.loans, models.Loan{BookID: bookID, UserID: user.ID})
			c.books[idx].Available = false
		}
	}

	c.logger.Info("catalog loaded",
		zap.Int("books", len(c.books)),
		zap.Int("users", len(c.users)),
		zap.Int("loans", len(c.loans)),
		zap.Int("history", len(c.history)))
	return nil
}

// SaveAll writes all three collections to the store.
func (c *Catalog) SaveAll(ctx context.Context) error {
	if err := c.store.SaveBooks(ctx, c.books); err != nil {
		return fmt.Errorf("save books: %w", err)
	}

	records := make([]models.UserRecord, len(c.users))
	for i, user := range c.users {
		record := models.UserRecord{User: user, BorrowedBooks: []int64{}}
		for _, loan := range c.loans {
			if loan.UserID == user.ID {
				record.BorrowedBooks = append(record.BorrowedBooks, loan.BookID)
			}
		}
		records[i] = record
	}
	if err := c.store.SaveUsers(ctx, records); err != nil {
		return fmt.Errorf("save users: %w", err)
	}

	if err := c.store.SaveHistory(ctx, c.history); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (c *Catalog) appendHistory(action models.Action, username, bookTitle string) {
	c.history = append(c.history, models.HistoryEntry{
		Action:    action,
		Username:  username,
		BookTitle: bookTitle,
		Timestamp: time.Now(),
	})
}

func (c *Catalog) userByName(username string) (models.User, bool) {
	for _, user := range c.users {
		if user.Username == username {
			return user, true
		}
	}
	return models.User{}, false
}

func (c *Catalog) bookIndexByExactTitle(title string) int {
	for i, book := range c.books {
		if book.Title == title {
			return i
		}
	}
	return -1
}

func (c *Catalog) loanForBook(bookID int64) (models.Loan, bool) {
	for _, loan := range c.loans {
		if loan.BookID == bookID {
			return loan, true
		}
	}
	return models.Loan{}, false
}

func (c *Catalog) nextBookID() int64 {
	var maxID int64
	for _, book := range c.books {
		if book.ID > maxID {
			maxID = book.ID
		}
	}
	return maxID + 1
}

func (c *Catalog) nextUserID() int64 {
	var maxID int64
	for _, user := range c.users {
		if user.ID > maxID {
			maxID = user.ID
		}
	}
	return maxID + 1
}

func (c *Catalog) assignMissingBookIDs() {
	for i := range c.books {
		if c.books[i].ID == 0 {
			c.books[i].ID = c.nextBookID()
		}
	}
}
