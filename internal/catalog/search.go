package catalog

import (
	"strings"

	"librarium/internal/models"
)

// SearchBooks returns every book whose author or genre contains the given
// fragment, case-insensitively. An empty fragment matches nothing, so a
// caller can search by either field alone.
func (c *Catalog) SearchBooks(author, genre string) []models.Book {
	author = strings.ToLower(author)
	genre = strings.ToLower(genre)

	var results []models.Book
	for _, book := range c.books {
		byAuthor := author != "" && strings.Contains(strings.ToLower(book.Author), author)
		byGenre := genre != "" && strings.Contains(strings.ToLower(book.Genre), genre)
		if byAuthor || byGenre {
			results = append(results, book)
		}
	}
	return results
}

// Borrowers returns the usernames currently holding a book with the given
// title, case-insensitively, in borrow order.
func (c *Catalog) Borrowers(title string) []string {
	var usernames []string
	for _, loan := range c.loans {
		book, found := c.FindBookByID(loan.BookID)
		if !found || !strings.EqualFold(book.Title, title) {
			continue
		}
		for _, user := range c.users {
			if user.ID == loan.UserID {
				usernames = append(usernames, user.Username)
				break
			}
		}
	}
	return usernames
}
