package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"librarium/internal/catalog"
	"librarium/internal/models"
)

const welcome = `Welcome to the Librarium catalog!

Available commands:
  Books:       list books, add book, edit book, remove book, search
  Users:       register user, list users, borrowers
  Circulation: borrow, return, history
  System:      save, help, exit`

// Runner is the interactive console front-end over the catalog. It reads
// commands line by line and persists the catalog after every successful
// mutation.
type Runner struct {
	catalog *catalog.Catalog
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger
}

// NewRunner creates a Runner reading commands from in and printing to out.
func NewRunner(cat *catalog.Catalog, in io.Reader, out io.Writer, logger *zap.Logger) *Runner {
	return &Runner{
		catalog: cat,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
}

// Run executes the command loop until "exit", end of input, or context
// cancellation. A canceled context is a normal stop: the caller closes the
// input to unblock a pending read, so the resulting scan error is not
// reported.
func (r *Runner) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, welcome)

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(r.out, "\n> ")
		if !r.in.Scan() {
			if ctx.Err() != nil {
				return nil
			}
			return r.in.Err()
		}

		switch cmd := strings.TrimSpace(r.in.Text()); cmd {
		case "list books":
			fmt.Fprintln(r.out, r.catalog.ListAllBooks())
		case "add book":
			r.handleAddBook(ctx)
		case "edit book":
			r.handleEditBook(ctx)
		case "remove book":
			r.handleRemoveBook(ctx)
		case "search":
			r.handleSearch()
		case "register user":
			r.handleRegisterUser(ctx)
		case "list users":
			r.handleListUsers()
		case "borrowers":
			r.handleBorrowers()
		case "borrow":
			r.handleBorrow(ctx)
		case "return":
			r.handleReturn(ctx)
		case "history":
			r.handleHistory()
		case "save":
			r.persist(ctx)
		case "help":
			fmt.Fprintln(r.out, welcome)
		case "exit":
			return nil
		case "":
		default:
			fmt.Fprintf(r.out, "Unknown command: %s (try \"help\")\n", cmd)
		}
	}
}

func (r *Runner) handleAddBook(ctx context.Context) {
	book, ok := r.promptBook()
	if !ok {
		return
	}
	r.report(ctx, r.catalog.AddBook(book))
}

func (r *Runner) handleEditBook(ctx context.Context) {
	oldTitle, ok := r.prompt("Current title")
	if !ok || oldTitle == "" {
		fmt.Fprintln(r.out, "Title must not be empty.")
		return
	}
	book, ok := r.promptBook()
	if !ok {
		return
	}
	r.report(ctx, r.catalog.EditBook(oldTitle, book))
}

func (r *Runner) handleRemoveBook(ctx context.Context) {
	title, ok := r.prompt("Title")
	if !ok {
		return
	}
	r.report(ctx, r.catalog.RemoveBook(title))
}

func (r *Runner) handleSearch() {
	author, ok := r.prompt("Author (leave empty to skip)")
	if !ok {
		return
	}
	genre, ok := r.prompt("Genre (leave empty to skip)")
	if !ok {
		return
	}

	results := r.catalog.SearchBooks(author, genre)
	if len(results) == 0 {
		fmt.Fprintln(r.out, "No books found.")
		return
	}
	for _, book := range results {
		fmt.Fprintln(r.out, book.Summary())
	}
}

func (r *Runner) handleRegisterUser(ctx context.Context) {
	username, ok := r.prompt("Username")
	if !ok || username == "" {
		fmt.Fprintln(r.out, "Username must not be empty.")
		return
	}
	email, ok := r.prompt("Email")
	if !ok || email == "" {
		fmt.Fprintln(r.out, "Email must not be empty.")
		return
	}
	r.report(ctx, r.catalog.RegisterUser(models.User{Username: username, Email: email}))
}

func (r *Runner) handleListUsers() {
	users := r.catalog.Users()
	if len(users) == 0 {
		fmt.Fprintln(r.out, "No registered users.")
		return
	}
	for _, user := range users {
		fmt.Fprintf(r.out, "%s (%s) — %s\n", user.Username, user.Email, r.catalog.BorrowedTitles(user.Username))
	}
}

func (r *Runner) handleBorrowers() {
	title, ok := r.prompt("Title")
	if !ok {
		return
	}
	borrowers := r.catalog.Borrowers(title)
	if len(borrowers) == 0 {
		fmt.Fprintln(r.out, "No users have borrowed this book.")
		return
	}
	for _, username := range borrowers {
		fmt.Fprintln(r.out, username)
	}
}

func (r *Runner) handleBorrow(ctx context.Context) {
	username, ok := r.prompt("Username")
	if !ok {
		return
	}
	title, ok := r.prompt("Title")
	if !ok {
		return
	}
	r.report(ctx, r.catalog.BorrowBook(username, title))
}

func (r *Runner) handleReturn(ctx context.Context) {
	username, ok := r.prompt("Username")
	if !ok {
		return
	}
	title, ok := r.prompt("Title")
	if !ok {
		return
	}
	r.report(ctx, r.catalog.ReturnBook(username, title))
}

func (r *Runner) handleHistory() {
	entries := r.catalog.History()
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "No history yet.")
		return
	}
	for _, entry := range entries {
		fmt.Fprintf(r.out, "%s  %-6s  %s «%s»\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Action, entry.Username, entry.BookTitle)
	}
}

// promptBook collects and validates the book fields. The year must be
// numeric; validation happens here, not in the catalog.
func (r *Runner) promptBook() (models.Book, bool) {
	title, ok := r.prompt("Title")
	if !ok || title == "" {
		fmt.Fprintln(r.out, "Title must not be empty.")
		return models.Book{}, false
	}
	author, ok := r.prompt("Author")
	if !ok || author == "" {
		fmt.Fprintln(r.out, "Author must not be empty.")
		return models.Book{}, false
	}
	genre, ok := r.prompt("Genre")
	if !ok || genre == "" {
		fmt.Fprintln(r.out, "Genre must not be empty.")
		return models.Book{}, false
	}
	yearStr, ok := r.prompt("Published year")
	if !ok {
		return models.Book{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		fmt.Fprintln(r.out, "Published year must be a number.")
		return models.Book{}, false
	}

	return models.Book{
		Title:         title,
		Author:        author,
		Genre:         genre,
		PublishedYear: year,
	}, true
}

func (r *Runner) prompt(label string) (string, bool) {
	fmt.Fprintf(r.out, "%s: ", label)
	if !r.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(r.in.Text()), true
}

// report prints the operation result and persists the catalog when the
// operation changed state.
func (r *Runner) report(ctx context.Context, res catalog.Result) {
	fmt.Fprintln(r.out, res.Message)
	if res.OK() {
		r.persist(ctx)
	}
}

func (r *Runner) persist(ctx context.Context) {
	if err := r.catalog.SaveAll(ctx); err != nil {
		r.logger.Error("save failed", zap.Error(err))
		fmt.Fprintf(r.out, "Failed to save: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, "All data saved.")
}
